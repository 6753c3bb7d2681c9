package store

import "github.com/amishk599/datajobs/internal/model"

// NopStore is a no-op store used in dry-run mode. It accepts every snapshot
// and forgets it immediately.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) SaveSnapshot(model.Snapshot, []model.Job) error { return nil }
func (s *NopStore) ListSnapshots() ([]model.Snapshot, error)       { return nil, nil }
func (s *NopStore) SearchJobs(string, model.JobQuery) ([]model.Job, error) {
	return nil, ErrNoSnapshots
}
