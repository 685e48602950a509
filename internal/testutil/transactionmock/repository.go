package transactionmock

import (
	"context"
	"time"

	domain "library-circulation/internal/domain/transaction"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn            func(ctx context.Context, t *domain.Transaction) error
	GetByIDFn           func(ctx context.Context, id uint64) (*domain.Transaction, error)
	GetByIDForUpdateFn  func(ctx context.Context, id uint64) (*domain.Transaction, error)
	SaveFn              func(ctx context.Context, t *domain.Transaction) error
	ListFn              func(ctx context.Context, f domain.Filter) ([]domain.Transaction, error)
	CountOpenByBookIDFn func(ctx context.Context, bookID uint64) (int64, error)
	MarkOverdueFn       func(ctx context.Context, today time.Time) (int64, error)
}

func (m *Repo) Create(ctx context.Context, t *domain.Transaction) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, t)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Transaction, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id uint64) (*domain.Transaction, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, t *domain.Transaction) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, t)
	}
	return nil
}

func (m *Repo) List(ctx context.Context, f domain.Filter) ([]domain.Transaction, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, nil
}

func (m *Repo) CountOpenByBookID(ctx context.Context, bookID uint64) (int64, error) {
	if m.CountOpenByBookIDFn != nil {
		return m.CountOpenByBookIDFn(ctx, bookID)
	}
	return 0, nil
}

func (m *Repo) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	if m.MarkOverdueFn != nil {
		return m.MarkOverdueFn(ctx, today)
	}
	return 0, nil
}
