package bookmock

import (
	"context"

	domain "library-circulation/internal/domain/book"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset lookups return context.Canceled; unset writes are no-ops.
type Repo struct {
	CreateFn             func(ctx context.Context, b *domain.Book) error
	GetByIDFn            func(ctx context.Context, id uint64) (*domain.Book, error)
	GetByIDForUpdateFn   func(ctx context.Context, id uint64) (*domain.Book, error)
	ListFn               func(ctx context.Context, includeInactive bool) ([]domain.Book, error)
	SaveFn               func(ctx context.Context, b *domain.Book) error
	DecrementAvailableFn func(ctx context.Context, id uint64) error
	IncrementAvailableFn func(ctx context.Context, id uint64) error
}

func (m *Repo) Create(ctx context.Context, b *domain.Book) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, b)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Book, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id uint64) (*domain.Book, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) List(ctx context.Context, includeInactive bool) ([]domain.Book, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, includeInactive)
	}
	return nil, nil
}

func (m *Repo) Save(ctx context.Context, b *domain.Book) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, b)
	}
	return nil
}

func (m *Repo) DecrementAvailable(ctx context.Context, id uint64) error {
	if m.DecrementAvailableFn != nil {
		return m.DecrementAvailableFn(ctx, id)
	}
	return nil
}

func (m *Repo) IncrementAvailable(ctx context.Context, id uint64) error {
	if m.IncrementAvailableFn != nil {
		return m.IncrementAvailableFn(ctx, id)
	}
	return nil
}
