package store

import "time"

// NopStore is a no-op store used when skip tracking is disabled. Every
// listing appears new on each run.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) HasSeen(url string) (bool, error)      { return false, nil }
func (s *NopStore) MarkSeen(url string) error             { return nil }
func (s *NopStore) Cleanup(olderThan time.Duration) error { return nil }
