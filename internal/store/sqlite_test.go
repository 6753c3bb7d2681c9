package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/amishk599/datajobs/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleJobs() []model.Job {
	return []model.Job{
		{WorkYear: 2023, JobTitle: "Data Scientist", CompanyLocation: "Germany", ExperienceLevel: "Senior", SalaryEUR: 92000},
		{WorkYear: 2022, JobTitle: "Data Analyst", CompanyLocation: "France", ExperienceLevel: "Entry-level", SalaryEUR: 46000},
		{WorkYear: 2022, JobTitle: "Machine Learning Engineer", CompanyLocation: "Spain", ExperienceLevel: "Mid-level", SalaryEUR: 69000},
		{WorkYear: 2022, JobTitle: "Data Engineer", CompanyLocation: "Germany", ExperienceLevel: "Senior", SalaryEUR: 92000},
	}
}

func saveSample(t *testing.T, s *SQLiteStore, id string, at time.Time) {
	t.Helper()
	snap := model.Snapshot{ID: id, Source: "jobs.csv", ImportedAt: at}
	if err := s.SaveSnapshot(snap, sampleJobs()); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
}

func TestSaveThenList(t *testing.T) {
	s := newTestStore(t)

	empty, err := s.IsEmpty()
	if err != nil || !empty {
		t.Fatalf("IsEmpty = %v, %v; want true", empty, err)
	}

	now := time.Now()
	saveSample(t, s, "older", now.Add(-time.Hour))
	saveSample(t, s, "newer", now)

	snaps, err := s.ListSnapshots()
	if err != nil {
		t.Fatalf("ListSnapshots: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(snaps))
	}
	if snaps[0].ID != "newer" || snaps[1].ID != "older" {
		t.Errorf("expected newest first, got %s, %s", snaps[0].ID, snaps[1].ID)
	}
	if snaps[0].Rows != 4 {
		t.Errorf("Rows = %d, want 4", snaps[0].Rows)
	}
	if !snaps[0].ImportedAt.Equal(time.Unix(0, now.UnixNano())) {
		t.Errorf("ImportedAt = %v, want %v", snaps[0].ImportedAt, now)
	}
}

func TestSaveDuplicateIDFails(t *testing.T) {
	s := newTestStore(t)
	saveSample(t, s, "snap", time.Now())

	err := s.SaveSnapshot(model.Snapshot{ID: "snap", Source: "x"}, sampleJobs())
	if err == nil {
		t.Fatal("expected error for duplicate snapshot id")
	}

	// the failed save must not leave extra jobs behind
	jobs, err := s.SearchJobs("snap", model.JobQuery{})
	if err != nil {
		t.Fatalf("SearchJobs: %v", err)
	}
	if len(jobs) != 4 {
		t.Errorf("expected 4 jobs, got %d", len(jobs))
	}
}

func TestSearchJobs(t *testing.T) {
	s := newTestStore(t)
	saveSample(t, s, "snap", time.Now())

	tests := []struct {
		name   string
		query  model.JobQuery
		titles []string
	}{
		{"everything", model.JobQuery{}, []string{"Data Scientist", "Data Analyst", "Machine Learning Engineer", "Data Engineer"}},
		{"title keywords any", model.JobQuery{TitleKeywords: []string{"ANALYST", "machine"}}, []string{"Data Analyst", "Machine Learning Engineer"}},
		{"location exact", model.JobQuery{Locations: []string{"germany"}}, []string{"Data Scientist", "Data Engineer"}},
		{"level", model.JobQuery{Levels: []string{"Mid-level"}}, []string{"Machine Learning Engineer"}},
		{"salary range", model.JobQuery{MinSalaryEUR: 50000, MaxSalaryEUR: 70000}, []string{"Machine Learning Engineer"}},
		{"limit", model.JobQuery{Limit: 2}, []string{"Data Scientist", "Data Analyst"}},
		{"no match", model.JobQuery{Locations: []string{"Italy"}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs, err := s.SearchJobs("snap", tt.query)
			if err != nil {
				t.Fatalf("SearchJobs: %v", err)
			}
			var titles []string
			for _, j := range jobs {
				titles = append(titles, j.JobTitle)
			}
			if len(titles) != len(tt.titles) {
				t.Fatalf("got %q, want %q", titles, tt.titles)
			}
			for i := range titles {
				if titles[i] != tt.titles[i] {
					t.Errorf("got %q, want %q", titles, tt.titles)
					break
				}
			}
		})
	}
}

func TestSearchJobs_FoldsNonASCII(t *testing.T) {
	s := newTestStore(t)
	jobs := []model.Job{
		{JobTitle: "Ingénieur Données", CompanyLocation: "Türkiye", ExperienceLevel: "Senior"},
		{JobTitle: "Data Analyst", CompanyLocation: "Germany", ExperienceLevel: "Senior"},
	}
	if err := s.SaveSnapshot(model.Snapshot{ID: "snap", Source: "x", ImportedAt: time.Now()}, jobs); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	tests := []struct {
		name  string
		query model.JobQuery
	}{
		{"location", model.JobQuery{Locations: []string{"TÜRKIYE"}}},
		{"title", model.JobQuery{TitleKeywords: []string{"INGÉNIEUR"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.SearchJobs("snap", tt.query)
			if err != nil {
				t.Fatalf("SearchJobs: %v", err)
			}
			if len(got) != 1 || got[0].CompanyLocation != "Türkiye" {
				t.Errorf("got %+v, want the Türkiye job", got)
			}
		})
	}
}

func TestSearchJobs_LatestSnapshot(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.SearchJobs("", model.JobQuery{}); !errors.Is(err, ErrNoSnapshots) {
		t.Fatalf("expected ErrNoSnapshots, got %v", err)
	}

	saveSample(t, s, "old", time.Now().Add(-time.Hour))
	if err := s.SaveSnapshot(model.Snapshot{ID: "new", Source: "x", ImportedAt: time.Now()}, sampleJobs()[:1]); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	jobs, err := s.SearchJobs("", model.JobQuery{})
	if err != nil {
		t.Fatalf("SearchJobs: %v", err)
	}
	if len(jobs) != 1 {
		t.Errorf("expected the latest snapshot's single job, got %d", len(jobs))
	}
	if jobs[0].SalaryEUR != 92000 || jobs[0].WorkYear != 2023 {
		t.Errorf("unexpected job %+v", jobs[0])
	}
}

func TestCleanupRemovesOldKeepsFresh(t *testing.T) {
	s := newTestStore(t)

	saveSample(t, s, "old", time.Now().Add(-48*time.Hour))
	saveSample(t, s, "fresh", time.Now())

	n, err := s.Cleanup(24 * time.Hour)
	if err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if n != 1 {
		t.Errorf("Cleanup removed %d snapshots, want 1", n)
	}

	snaps, err := s.ListSnapshots()
	if err != nil {
		t.Fatalf("ListSnapshots: %v", err)
	}
	if len(snaps) != 1 || snaps[0].ID != "fresh" {
		t.Errorf("expected only the fresh snapshot, got %+v", snaps)
	}

	var orphans int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM jobs WHERE snapshot_id = 'old'").Scan(&orphans); err != nil {
		t.Fatalf("counting jobs: %v", err)
	}
	if orphans != 0 {
		t.Errorf("expected old jobs to be cleaned up, found %d", orphans)
	}
}

func TestNopStore(t *testing.T) {
	var s model.SnapshotStore = NewNopStore()
	if err := s.SaveSnapshot(model.Snapshot{ID: "x"}, sampleJobs()); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	snaps, err := s.ListSnapshots()
	if err != nil || len(snaps) != 0 {
		t.Errorf("ListSnapshots = %v, %v", snaps, err)
	}
}
