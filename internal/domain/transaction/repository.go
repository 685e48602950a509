package transaction

import (
	"context"
	"time"
)

type Filter struct {
	Status           Status
	BookID           uint64
	BorrowerIDNumber string
	Limit            int
	Offset           int
}

type Repository interface {
	Create(ctx context.Context, t *Transaction) error
	GetByID(ctx context.Context, id uint64) (*Transaction, error)
	GetByIDForUpdate(ctx context.Context, id uint64) (*Transaction, error)
	Save(ctx context.Context, t *Transaction) error
	List(ctx context.Context, f Filter) ([]Transaction, error)

	// CountOpenByBookID counts active and overdue transactions for a book.
	CountOpenByBookID(ctx context.Context, bookID uint64) (int64, error)

	// MarkOverdue flips every active, unreturned transaction due before
	// today to overdue and returns the number of rows changed.
	MarkOverdue(ctx context.Context, today time.Time) (int64, error)
}
