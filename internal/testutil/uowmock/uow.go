package uowmock

import (
	"context"
	"errors"

	"library-circulation/internal/domain/transaction"
	"library-circulation/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn            func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinTransactionTxFn func(ctx context.Context, id uint64, fn func(r uow.Repos, t *transaction.Transaction) error) error
}

// Passthrough runs every callback directly against repos, locking nothing.
// WithinTransactionTx loads the row through repos.Transactions.GetByIDForUpdate.
func Passthrough(repos uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(ctx context.Context, fn func(r uow.Repos) error) error {
			return fn(repos)
		},
		WithinTransactionTxFn: func(ctx context.Context, id uint64, fn func(r uow.Repos, t *transaction.Transaction) error) error {
			t, err := repos.Transactions.GetByIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			return fn(repos, t)
		},
	}
}

// Convenience fluent setters
func New() *UoW { return &UoW{} }
func (m *UoW) WithWithinTx(fn func(context.Context, func(uow.Repos) error) error) *UoW {
	m.WithinTxFn = fn
	return m
}
func (m *UoW) WithWithinTransactionTx(fn func(context.Context, uint64, func(uow.Repos, *transaction.Transaction) error) error) *UoW {
	m.WithinTransactionTxFn = fn
	return m
}
func (m *UoW) Reset() { *m = UoW{} }

// Methods implementing UnitOfWork
func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}
func (m *UoW) WithinTransactionTx(ctx context.Context, id uint64, fn func(r uow.Repos, t *transaction.Transaction) error) error {
	if m.WithinTransactionTxFn != nil {
		return m.WithinTransactionTxFn(ctx, id, fn)
	}
	return errUnimplemented
}
