package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"library-circulation/internal/apperr"
	"library-circulation/internal/domain/audit"
	"library-circulation/internal/domain/book"
	"library-circulation/internal/domain/uow"
	"library-circulation/internal/usecase/activity"
)

const entityBook = "book"

type Usecase struct {
	uow      uow.UnitOfWork
	books    book.Repository
	activity *activity.Recorder
}

func NewUsecase(tx uow.UnitOfWork, books book.Repository, rec *activity.Recorder) *Usecase {
	return &Usecase{uow: tx, books: books, activity: rec}
}

func (u *Usecase) Create(ctx context.Context, in CreateBookInput) (*BookDTO, error) {
	b := &book.Book{
		Title:             strings.TrimSpace(in.Title),
		Author:            strings.TrimSpace(in.Author),
		ISBN:              normalizeISBN(in.ISBN),
		Quantity:          in.Quantity,
		AvailableQuantity: in.Quantity,
		Active:            true,
	}
	switch {
	case b.Title == "":
		return nil, apperr.Invalid("title is required")
	case b.Author == "":
		return nil, apperr.Invalid("author is required")
	case b.ISBN == "":
		return nil, apperr.Invalid("isbn is required")
	case b.Quantity < 1:
		return nil, apperr.Invalid("quantity must be at least 1")
	}

	if err := u.books.Create(ctx, b); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, book.ErrDuplicateISBN
		}
		return nil, err
	}
	u.activity.Record(ctx, audit.ActionBookCreate, entityBook, b.ID,
		fmt.Sprintf("%q by %s added with %d copies", b.Title, b.Author, b.Quantity))
	return toDTO(b), nil
}

func (u *Usecase) Get(ctx context.Context, id uint64) (*BookDTO, error) {
	b, err := u.books.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return toDTO(b), nil
}

func (u *Usecase) List(ctx context.Context, includeInactive bool) ([]BookDTO, error) {
	rows, err := u.books.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]BookDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toDTO(&rows[i]))
	}
	return out, nil
}

// UpdateQuantity changes the number of copies owned and shifts availability by
// the same delta. Copies currently borrowed can't be written off.
func (u *Usecase) UpdateQuantity(ctx context.Context, id uint64, quantity int) (*BookDTO, error) {
	if quantity < 1 {
		return nil, apperr.Invalid("quantity must be at least 1")
	}
	var out *book.Book
	var previous int
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		b, err := r.Books.GetByIDForUpdate(ctx, id)
		if err != nil {
			return mapNotFound(err)
		}
		if quantity < b.Borrowed() {
			return apperr.Invalid("quantity %d is below the %d copies currently borrowed", quantity, b.Borrowed())
		}
		previous = b.Quantity
		b.AvailableQuantity += quantity - b.Quantity
		b.Quantity = quantity
		if err := r.Books.Save(ctx, b); err != nil {
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.activity.Record(ctx, audit.ActionBookUpdate, entityBook, out.ID,
		fmt.Sprintf("quantity changed from %d to %d", previous, out.Quantity))
	return toDTO(out), nil
}

// Deactivate withdraws a book from circulation. History is kept; the row is
// only flagged inactive.
func (u *Usecase) Deactivate(ctx context.Context, id uint64) error {
	changed := false
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		b, err := r.Books.GetByIDForUpdate(ctx, id)
		if err != nil {
			return mapNotFound(err)
		}
		if !b.Active {
			return nil
		}
		open, err := r.Transactions.CountOpenByBookID(ctx, b.ID)
		if err != nil {
			return err
		}
		if open > 0 {
			return book.ErrHasOpenLoans
		}
		b.Active = false
		changed = true
		return r.Books.Save(ctx, b)
	})
	if err != nil || !changed {
		return err
	}
	u.activity.Record(ctx, audit.ActionBookDelete, entityBook, id, "book withdrawn from the catalog")
	return nil
}

func normalizeISBN(raw string) string {
	return strings.ToUpper(strings.NewReplacer("-", "", " ", "").Replace(strings.TrimSpace(raw)))
}

func toDTO(b *book.Book) *BookDTO {
	return &BookDTO{
		ID:                b.ID,
		Title:             b.Title,
		Author:            b.Author,
		ISBN:              b.ISBN,
		Quantity:          b.Quantity,
		AvailableQuantity: b.AvailableQuantity,
		Active:            b.Active,
	}
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return book.ErrNotFound
	}
	return err
}
