package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/amishk599/datajobs/internal/model"
)

// ErrNoSnapshots is returned when a lookup needs a snapshot and none exist.
var ErrNoSnapshots = errors.New("no snapshots imported")

// Ensure SQLiteStore implements model.SnapshotStore.
var _ model.SnapshotStore = (*SQLiteStore)(nil)

// SQLiteStore keeps imported snapshots of the cleaned dataset in SQLite.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id          TEXT PRIMARY KEY,
	source      TEXT NOT NULL,
	row_count   INTEGER NOT NULL,
	imported_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS jobs (
	snapshot_id        TEXT NOT NULL,
	row_num            INTEGER NOT NULL,
	work_year          INTEGER,
	job_title          TEXT,
	job_category       TEXT,
	salary_in_euro     REAL,
	employee_residence TEXT,
	experience_level   TEXT,
	employment_type    TEXT,
	work_setting       TEXT,
	company_location   TEXT,
	company_size       TEXT,
	title_key          TEXT NOT NULL,
	location_key       TEXT NOT NULL,
	level_key          TEXT NOT NULL,
	PRIMARY KEY (snapshot_id, row_num)
);
CREATE INDEX IF NOT EXISTS jobs_location ON jobs(snapshot_id, location_key);
`

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures the
// snapshot tables exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating snapshot tables: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// SaveSnapshot stores snap and its jobs in one transaction.
func (s *SQLiteStore) SaveSnapshot(snap model.Snapshot, jobs []model.Job) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("saving snapshot %s: %w", snap.ID, err)
	}
	defer tx.Rollback()

	_, err = tx.Exec("INSERT INTO snapshots (id, source, row_count, imported_at) VALUES (?, ?, ?, ?)",
		snap.ID, snap.Source, len(jobs), snap.ImportedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("saving snapshot %s: %w", snap.ID, err)
	}

	stmt, err := tx.Prepare(`INSERT INTO jobs (
		snapshot_id, row_num, work_year, job_title, job_category, salary_in_euro,
		employee_residence, experience_level, employment_type, work_setting,
		company_location, company_size, title_key, location_key, level_key
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing job insert: %w", err)
	}
	defer stmt.Close()

	for i, j := range jobs {
		_, err := stmt.Exec(snap.ID, i, j.WorkYear, j.JobTitle, j.JobCategory, j.SalaryEUR,
			j.EmployeeResidence, j.ExperienceLevel, j.EmploymentType, j.WorkSetting,
			j.CompanyLocation, j.CompanySize,
			foldKey(j.JobTitle), foldKey(j.CompanyLocation), foldKey(j.ExperienceLevel))
		if err != nil {
			return fmt.Errorf("saving job %d of snapshot %s: %w", i, snap.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot %s: %w", snap.ID, err)
	}
	return nil
}

// ListSnapshots returns every snapshot, newest first.
func (s *SQLiteStore) ListSnapshots() ([]model.Snapshot, error) {
	rows, err := s.db.Query("SELECT id, source, row_count, imported_at FROM snapshots ORDER BY imported_at DESC, id")
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var out []model.Snapshot
	for rows.Next() {
		var snap model.Snapshot
		var importedAt int64
		if err := rows.Scan(&snap.ID, &snap.Source, &snap.Rows, &importedAt); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		snap.ImportedAt = time.Unix(0, importedAt)
		out = append(out, snap)
	}
	return out, rows.Err()
}

// LatestSnapshot returns the most recent snapshot, or ErrNoSnapshots.
func (s *SQLiteStore) LatestSnapshot() (model.Snapshot, error) {
	snaps, err := s.ListSnapshots()
	if err != nil {
		return model.Snapshot{}, err
	}
	if len(snaps) == 0 {
		return model.Snapshot{}, ErrNoSnapshots
	}
	return snaps[0], nil
}

// SearchJobs returns the jobs of a snapshot that match q, in import order.
// An empty snapshotID searches the latest snapshot.
func (s *SQLiteStore) SearchJobs(snapshotID string, q model.JobQuery) ([]model.Job, error) {
	if snapshotID == "" {
		latest, err := s.LatestSnapshot()
		if err != nil {
			return nil, err
		}
		snapshotID = latest.ID
	}

	where, args := buildWhere(snapshotID, q)
	query := `SELECT work_year, job_title, job_category, salary_in_euro, employee_residence,
		experience_level, employment_type, work_setting, company_location, company_size
		FROM jobs WHERE ` + where + ` ORDER BY row_num`
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching snapshot %s: %w", snapshotID, err)
	}
	defer rows.Close()

	var out []model.Job
	for rows.Next() {
		var j model.Job
		err := rows.Scan(&j.WorkYear, &j.JobTitle, &j.JobCategory, &j.SalaryEUR, &j.EmployeeResidence,
			&j.ExperienceLevel, &j.EmploymentType, &j.WorkSetting, &j.CompanyLocation, &j.CompanySize)
		if err != nil {
			return nil, fmt.Errorf("scanning job: %w", err)
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

// foldKey is the lowercase form stored next to searchable columns. SQLite's
// lower() folds ASCII only, so folding happens here to agree with the
// in-memory filter on names like "Türkiye".
func foldKey(s string) string {
	return strings.ToLower(s)
}

// buildWhere mirrors filter.JobSearch: keywords are substrings, locations and
// levels are exact, all case-insensitive.
func buildWhere(snapshotID string, q model.JobQuery) (string, []any) {
	clauses := []string{"snapshot_id = ?"}
	args := []any{snapshotID}

	if len(q.TitleKeywords) > 0 {
		var ors []string
		for _, kw := range q.TitleKeywords {
			ors = append(ors, "instr(title_key, ?) > 0")
			args = append(args, foldKey(kw))
		}
		clauses = append(clauses, "("+strings.Join(ors, " OR ")+")")
	}
	if len(q.Locations) > 0 {
		clauses = append(clauses, "location_key IN ("+placeholders(len(q.Locations))+")")
		for _, l := range q.Locations {
			args = append(args, foldKey(l))
		}
	}
	if len(q.Levels) > 0 {
		clauses = append(clauses, "level_key IN ("+placeholders(len(q.Levels))+")")
		for _, l := range q.Levels {
			args = append(args, foldKey(l))
		}
	}
	if q.MinSalaryEUR > 0 {
		clauses = append(clauses, "salary_in_euro >= ?")
		args = append(args, q.MinSalaryEUR)
	}
	if q.MaxSalaryEUR > 0 {
		clauses = append(clauses, "salary_in_euro <= ?")
		args = append(args, q.MaxSalaryEUR)
	}
	return strings.Join(clauses, " AND "), args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// Cleanup deletes snapshots imported longer ago than olderThan, with their jobs.
func (s *SQLiteStore) Cleanup(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan).UnixNano()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("cleaning up snapshots: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec("DELETE FROM jobs WHERE snapshot_id IN (SELECT id FROM snapshots WHERE imported_at < ?)", cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleaning up jobs older than %v: %w", olderThan, err)
	}
	res, err := tx.Exec("DELETE FROM snapshots WHERE imported_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleaning up snapshots older than %v: %w", olderThan, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("cleaning up snapshots: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// IsEmpty returns true if no snapshot has been imported.
func (s *SQLiteStore) IsEmpty() (bool, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking if store is empty: %w", err)
	}
	return count == 0, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
