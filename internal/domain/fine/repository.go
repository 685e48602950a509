package fine

import "context"

type Repository interface {
	Create(ctx context.Context, f *Fine) error
	GetByID(ctx context.Context, id uint64) (*Fine, error)
	GetByIDForUpdate(ctx context.Context, id uint64) (*Fine, error)
	// Latest fine raised for a transaction
	GetByTransactionID(ctx context.Context, transactionID uint64) (*Fine, error)
	List(ctx context.Context, status Status) ([]Fine, error)
	Save(ctx context.Context, f *Fine) error
	Delete(ctx context.Context, f *Fine) error
}
