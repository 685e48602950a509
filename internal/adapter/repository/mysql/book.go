package mysql

import (
	"context"

	bookDomain "library-circulation/internal/domain/book"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookRepository struct{ db *gorm.DB }

func NewBookRepository(db *gorm.DB) *BookRepository { return &BookRepository{db: db} }

func (r *BookRepository) Create(ctx context.Context, b *bookDomain.Book) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BookRepository) Save(ctx context.Context, b *bookDomain.Book) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *BookRepository) GetByID(ctx context.Context, id uint64) (*bookDomain.Book, error) {
	var out bookDomain.Book
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *BookRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*bookDomain.Book, error) {
	var out bookDomain.Book
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out)
	return &out, res.Error
}

func (r *BookRepository) List(ctx context.Context, includeInactive bool) ([]bookDomain.Book, error) {
	var out []bookDomain.Book
	q := r.db.WithContext(ctx).Order("title ASC, id ASC")
	if !includeInactive {
		q = q.Where("active = ?", true)
	}
	return out, q.Find(&out).Error
}

func (r *BookRepository) DecrementAvailable(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).
		Model(&bookDomain.Book{}).
		Where("id = ? AND available_quantity > 0", id).
		Update("available_quantity", gorm.Expr("available_quantity - 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return bookDomain.ErrUnavailable
	}
	return nil
}

func (r *BookRepository) IncrementAvailable(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).
		Model(&bookDomain.Book{}).
		Where("id = ? AND available_quantity < quantity", id).
		Update("available_quantity", gorm.Expr("available_quantity + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return bookDomain.ErrShelfFull
	}
	return nil
}
