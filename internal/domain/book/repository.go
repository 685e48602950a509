package book

import "context"

type Repository interface {
	Create(ctx context.Context, b *Book) error
	GetByID(ctx context.Context, id uint64) (*Book, error)
	// Locks the row until the surrounding transaction ends
	GetByIDForUpdate(ctx context.Context, id uint64) (*Book, error)
	List(ctx context.Context, includeInactive bool) ([]Book, error)
	Save(ctx context.Context, b *Book) error

	// Guarded counter updates. DecrementAvailable returns ErrUnavailable when
	// no copy is on the shelf; IncrementAvailable returns ErrShelfFull when
	// every copy already is.
	DecrementAvailable(ctx context.Context, id uint64) error
	IncrementAvailable(ctx context.Context, id uint64) error
}
