package uow

import (
	"context"

	"library-circulation/internal/domain/book"
	"library-circulation/internal/domain/fine"
	"library-circulation/internal/domain/transaction"
)

// Repos are bound to one database transaction.
type Repos struct {
	Books        book.Repository
	Transactions transaction.Repository
	Fines        fine.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the transaction row first, then pass it in
	WithinTransactionTx(ctx context.Context, id uint64, fn func(r Repos, t *transaction.Transaction) error) error
}
