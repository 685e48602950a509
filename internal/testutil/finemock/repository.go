package finemock

import (
	"context"

	domain "library-circulation/internal/domain/fine"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn             func(ctx context.Context, f *domain.Fine) error
	GetByIDFn            func(ctx context.Context, id uint64) (*domain.Fine, error)
	GetByIDForUpdateFn   func(ctx context.Context, id uint64) (*domain.Fine, error)
	GetByTransactionIDFn func(ctx context.Context, transactionID uint64) (*domain.Fine, error)
	ListFn               func(ctx context.Context, status domain.Status) ([]domain.Fine, error)
	SaveFn               func(ctx context.Context, f *domain.Fine) error
	DeleteFn             func(ctx context.Context, f *domain.Fine) error
}

func (m *Repo) Create(ctx context.Context, f *domain.Fine) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, f)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Fine, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id uint64) (*domain.Fine, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByTransactionID(ctx context.Context, transactionID uint64) (*domain.Fine, error) {
	if m.GetByTransactionIDFn != nil {
		return m.GetByTransactionIDFn(ctx, transactionID)
	}
	return nil, context.Canceled
}

func (m *Repo) List(ctx context.Context, status domain.Status) ([]domain.Fine, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, status)
	}
	return nil, nil
}

func (m *Repo) Save(ctx context.Context, f *domain.Fine) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, f)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, f *domain.Fine) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, f)
	}
	return nil
}
