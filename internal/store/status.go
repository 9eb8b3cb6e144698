// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package store

import (
	"time"

	"github.com/ManuGH/innoviz/internal/dataset"
)

// Status is the externally visible state of the store.
type Status struct {
	Loaded           bool                  `json:"loaded"`
	Generation       uint64                `json:"generation"`
	LoadedAt         *time.Time            `json:"loadedAt,omitempty"`
	Updated          *time.Time            `json:"sourceUpdatedAt,omitempty"`
	Expired          bool                  `json:"expired"`
	Invalidated      bool                  `json:"invalidated"`
	Rows             map[dataset.Table]int `json:"rows,omitempty"`
	ValidationErrors int                   `json:"validationErrors"`
	Source           string                `json:"source"`
	Format           string                `json:"format"`
	TTLSeconds       float64               `json:"ttlSeconds"`
	LastError        string                `json:"lastError,omitempty"`
	LastErrorAt      *time.Time            `json:"lastErrorAt,omitempty"`
}

// Status reports the store state without triggering a load.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{
		Generation:  s.generation,
		Invalidated: s.invalidated,
		Source:      s.src.Kind(),
		Format:      s.format,
		TTLSeconds:  s.ttl.Seconds(),
	}
	if cur := s.current; cur != nil {
		loadedAt := cur.LoadedAt
		st.Loaded = true
		st.LoadedAt = &loadedAt
		st.Expired = s.now().Sub(cur.LoadedAt) >= s.ttl
		st.Rows = cur.Tables.RowCounts()
		st.ValidationErrors = cur.ValidationErrors
		if !cur.Updated.IsZero() {
			updated := cur.Updated
			st.Updated = &updated
		}
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
		if !s.lastErrAt.IsZero() {
			at := s.lastErrAt
			st.LastErrorAt = &at
		}
	}
	return st
}
