// Package state remembers dashboard state between runs in a bbolt file.
// Everything lives in one "dashboard" bucket as a JSON-encoded Session.
package state

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/amishk599/datajobs/internal/model"
)

var (
	bucketDashboard = []byte("dashboard")
	keySession      = []byte("session")
)

// Ensure Store implements model.StateStore.
var _ model.StateStore = (*Store)(nil)

// Session is what the dashboard restores on start.
type Session struct {
	Page      string    `json:"page"`
	Query     string    `json:"query"`
	AllJobs   bool      `json:"all_jobs"` // lookup scope, false means EU only
	UpdatedAt time.Time `json:"updated_at"`
}

// Store implements model.StateStore backed by bbolt.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the state file at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Session returns the saved session, or a zero Session on first run.
func (s *Store) Session() (Session, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDashboard)
		if b == nil {
			return nil
		}
		// Copy out: bbolt slices are only valid within the transaction.
		if v := b.Get(keySession); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return Session{}, fmt.Errorf("read session: %w", err)
	}
	var sess Session
	if data == nil {
		return sess, nil
	}
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return sess, nil
}

// Update applies fn to the saved session and writes it back.
func (s *Store) Update(fn func(*Session)) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketDashboard)
		if err != nil {
			return err
		}
		var sess Session
		if v := b.Get(keySession); v != nil {
			if err := json.Unmarshal(v, &sess); err != nil {
				return fmt.Errorf("unmarshal session: %w", err)
			}
		}
		fn(&sess)
		sess.UpdatedAt = time.Now()
		data, err := json.Marshal(sess)
		if err != nil {
			return fmt.Errorf("marshal session: %w", err)
		}
		return b.Put(keySession, data)
	})
}

func (s *Store) LastPage() (string, error) {
	sess, err := s.Session()
	return sess.Page, err
}

func (s *Store) SetLastPage(page string) error {
	return s.Update(func(sess *Session) { sess.Page = page })
}

func (s *Store) LastQuery() (string, error) {
	sess, err := s.Session()
	return sess.Query, err
}

func (s *Store) SetLastQuery(query string) error {
	return s.Update(func(sess *Session) { sess.Query = query })
}

// AllJobs reports whether the lookup searched every country last time.
func (s *Store) AllJobs() (bool, error) {
	sess, err := s.Session()
	return sess.AllJobs, err
}

func (s *Store) SetAllJobs(all bool) error {
	return s.Update(func(sess *Session) { sess.AllJobs = all })
}

// MemoryStore is a model.StateStore that forgets everything on exit. It is
// used when the state file cannot be opened.
type MemoryStore struct {
	page, query string
	all         bool
}

func (m *MemoryStore) LastPage() (string, error)     { return m.page, nil }
func (m *MemoryStore) SetLastPage(page string) error { m.page = page; return nil }
func (m *MemoryStore) LastQuery() (string, error)    { return m.query, nil }
func (m *MemoryStore) SetLastQuery(q string) error   { m.query = q; return nil }
func (m *MemoryStore) AllJobs() (bool, error)        { return m.all, nil }
func (m *MemoryStore) SetAllJobs(all bool) error     { m.all = all; return nil }
