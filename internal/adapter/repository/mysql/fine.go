package mysql

import (
	"context"

	fineDomain "library-circulation/internal/domain/fine"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FineRepository struct{ db *gorm.DB }

func NewFineRepository(db *gorm.DB) *FineRepository { return &FineRepository{db: db} }

func (r *FineRepository) Create(ctx context.Context, f *fineDomain.Fine) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *FineRepository) Save(ctx context.Context, f *fineDomain.Fine) error {
	return r.db.WithContext(ctx).Save(f).Error
}

func (r *FineRepository) Delete(ctx context.Context, f *fineDomain.Fine) error {
	return r.db.WithContext(ctx).Delete(f).Error
}

func (r *FineRepository) GetByID(ctx context.Context, id uint64) (*fineDomain.Fine, error) {
	var out fineDomain.Fine
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *FineRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*fineDomain.Fine, error) {
	var out fineDomain.Fine
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out)
	return &out, res.Error
}

func (r *FineRepository) GetByTransactionID(ctx context.Context, transactionID uint64) (*fineDomain.Fine, error) {
	var out fineDomain.Fine
	res := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("id DESC").
		First(&out)
	return &out, res.Error
}

func (r *FineRepository) List(ctx context.Context, status fineDomain.Status) ([]fineDomain.Fine, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []fineDomain.Fine
	return out, q.Find(&out).Error
}
