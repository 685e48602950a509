package mysql

import (
	"context"
	"time"

	txnDomain "library-circulation/internal/domain/transaction"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultListLimit = 100

type TransactionRepository struct{ db *gorm.DB }

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, t *txnDomain.Transaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TransactionRepository) Save(ctx context.Context, t *txnDomain.Transaction) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *TransactionRepository) GetByID(ctx context.Context, id uint64) (*txnDomain.Transaction, error) {
	var out txnDomain.Transaction
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*txnDomain.Transaction, error) {
	var out txnDomain.Transaction
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out)
	return &out, res.Error
}

func (r *TransactionRepository) List(ctx context.Context, f txnDomain.Filter) ([]txnDomain.Transaction, error) {
	q := r.db.WithContext(ctx).Order("borrowed_date DESC, id DESC")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.BookID != 0 {
		q = q.Where("book_id = ?", f.BookID)
	}
	if f.BorrowerIDNumber != "" {
		q = q.Where("borrower_id_number = ?", f.BorrowerIDNumber)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	var out []txnDomain.Transaction
	return out, q.Limit(limit).Offset(f.Offset).Find(&out).Error
}

func (r *TransactionRepository) CountOpenByBookID(ctx context.Context, bookID uint64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&txnDomain.Transaction{}).
		Where("book_id = ? AND status IN ?", bookID, []txnDomain.Status{txnDomain.StatusActive, txnDomain.StatusOverdue}).
		Count(&n).Error
	return n, err
}

func (r *TransactionRepository) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&txnDomain.Transaction{}).
		Where("status = ? AND return_date IS NULL AND due_date < ?", txnDomain.StatusActive, today).
		Update("status", txnDomain.StatusOverdue)
	return res.RowsAffected, res.Error
}
