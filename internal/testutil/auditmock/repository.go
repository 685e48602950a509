package auditmock

import (
	"context"
	"sync"

	domain "library-circulation/internal/domain/audit"
)

var _ domain.Repository = (*Repo)(nil)

// Repo records appended entries; set Err to make Append fail.
type Repo struct {
	mu      sync.Mutex
	Err     error
	Entries []domain.Entry
}

func (m *Repo) Append(_ context.Context, e *domain.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Entries = append(m.Entries, *e)
	return nil
}

func (m *Repo) Actions() []domain.Action {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Action, 0, len(m.Entries))
	for _, e := range m.Entries {
		out = append(out, e.ActionType)
	}
	return out
}
