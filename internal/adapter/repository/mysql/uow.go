package mysql

import (
	"context"

	auditDomain "library-circulation/internal/domain/audit"
	bookDomain "library-circulation/internal/domain/book"
	fineDomain "library-circulation/internal/domain/fine"
	txnDomain "library-circulation/internal/domain/transaction"
	"library-circulation/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Books:        &BookRepository{db: tx},
		Transactions: &TransactionRepository{db: tx},
		Fines:        &FineRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (u *GormUoW) WithinTransactionTx(ctx context.Context, id uint64, fn func(r uow.Repos, t *txnDomain.Transaction) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		// lock the transaction row up-front to prevent races
		t, err := r.Transactions.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		return fn(r, t)
	})
}

// Models lists every table owned by this service, in migration order.
func Models() []any {
	return []any{&bookDomain.Book{}, &txnDomain.Transaction{}, &fineDomain.Fine{}, &auditDomain.Entry{}}
}
