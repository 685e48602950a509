package catalog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-circulation/internal/adapter/repository/mysql"
	"library-circulation/internal/apperr"
	"library-circulation/internal/domain/audit"
	"library-circulation/internal/domain/book"
	"library-circulation/internal/domain/transaction"
	"library-circulation/internal/infrastructure/logging"
	"library-circulation/internal/testutil/auditmock"
	"library-circulation/internal/testutil/bookmock"
	"library-circulation/internal/testutil/sqlitedb"
	"library-circulation/internal/testutil/uowmock"
	"library-circulation/internal/usecase/activity"
	"library-circulation/internal/usecase/catalog"
)

type env struct {
	uc    *catalog.Usecase
	books *mysql.BookRepository
	txns  *mysql.TransactionRepository
	audit *auditmock.Repo
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := sqlitedb.Open(t)
	a := &auditmock.Repo{}
	uc := catalog.NewUsecase(mysql.NewGormUoW(db), mysql.NewBookRepository(db), activity.NewRecorder(a, logging.Discard()))
	return &env{uc: uc, books: mysql.NewBookRepository(db), txns: mysql.NewTransactionRepository(db), audit: a}
}

func dune() catalog.CreateBookInput {
	return catalog.CreateBookInput{Title: " Dune ", Author: "Frank Herbert", ISBN: "978-0-441-01359-3", Quantity: 3}
}

func TestCreate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	b, err := e.uc.Create(ctx, dune())
	require.NoError(t, err)
	assert.NotZero(t, b.ID)
	assert.Equal(t, "Dune", b.Title)
	assert.Equal(t, "9780441013593", b.ISBN)
	assert.Equal(t, 3, b.AvailableQuantity)
	assert.True(t, b.Active)
	assert.Equal(t, []audit.Action{audit.ActionBookCreate}, e.audit.Actions())

	_, err = e.uc.Create(ctx, dune())
	require.ErrorIs(t, err, book.ErrDuplicateISBN)
	assert.Equal(t, apperr.InvalidState, apperr.KindOf(err))
}

func TestCreate_Validation(t *testing.T) {
	cases := map[string]catalog.CreateBookInput{
		"no title":      {Author: "A", ISBN: "1", Quantity: 1},
		"no author":     {Title: "T", ISBN: "1", Quantity: 1},
		"no isbn":       {Title: "T", Author: "A", ISBN: " - ", Quantity: 1},
		"zero quantity": {Title: "T", Author: "A", ISBN: "1"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			uc := catalog.NewUsecase(uowmock.New(), &bookmock.Repo{
				CreateFn: func(ctx context.Context, b *book.Book) error {
					t.Fatalf("Create must not be called")
					return nil
				},
			}, nil)
			_, err := uc.Create(context.Background(), in)
			assert.Equal(t, apperr.Validation, apperr.KindOf(err))
		})
	}
}

func TestCreate_PassesThroughStorageErrors(t *testing.T) {
	boom := errors.New("connection reset")
	uc := catalog.NewUsecase(uowmock.New(), &bookmock.Repo{
		CreateFn: func(ctx context.Context, b *book.Book) error { return boom },
	}, nil)
	_, err := uc.Create(context.Background(), dune())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, apperr.Internal, apperr.KindOf(err))
}

func TestGetAndList(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.uc.Get(ctx, 42)
	require.ErrorIs(t, err, book.ErrNotFound)

	a, err := e.uc.Create(ctx, dune())
	require.NoError(t, err)
	_, err = e.uc.Create(ctx, catalog.CreateBookInput{Title: "Emma", Author: "Jane Austen", ISBN: "9780141439587", Quantity: 1})
	require.NoError(t, err)
	require.NoError(t, e.uc.Deactivate(ctx, a.ID))

	active, err := e.uc.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Emma", active[0].Title)

	all, err := e.uc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	got, err := e.uc.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
}

func TestUpdateQuantity(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	b, err := e.uc.Create(ctx, dune())
	require.NoError(t, err)
	borrowTwo(t, e, b.ID)

	got, err := e.uc.UpdateQuantity(ctx, b.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity)
	assert.Equal(t, 3, got.AvailableQuantity)

	got, err = e.uc.UpdateQuantity(ctx, b.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, got.AvailableQuantity)

	_, err = e.uc.UpdateQuantity(ctx, b.ID, 1)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	_, err = e.uc.UpdateQuantity(ctx, b.ID, 0)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	_, err = e.uc.UpdateQuantity(ctx, 999, 4)
	require.ErrorIs(t, err, book.ErrNotFound)
}

func TestDeactivate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	b, err := e.uc.Create(ctx, dune())
	require.NoError(t, err)
	ids := borrowTwo(t, e, b.ID)

	err = e.uc.Deactivate(ctx, b.ID)
	require.ErrorIs(t, err, book.ErrHasOpenLoans)

	for _, id := range ids {
		tr, err := e.txns.GetByID(ctx, id)
		require.NoError(t, err)
		ret := tr.DueDate
		tr.Status = transaction.StatusReturned
		tr.ReturnDate = &ret
		require.NoError(t, e.txns.Save(ctx, tr))
	}

	require.NoError(t, e.uc.Deactivate(ctx, b.ID))
	require.NoError(t, e.uc.Deactivate(ctx, b.ID), "deactivating twice is a no-op")
	assert.Equal(t, []audit.Action{audit.ActionBookCreate, audit.ActionBookDelete}, e.audit.Actions())

	require.ErrorIs(t, e.uc.Deactivate(ctx, 999), book.ErrNotFound)
}

// borrowTwo inserts two open transactions directly and takes two copies
// off the shelf, standing in for the circulation engine.
func borrowTwo(t *testing.T, e *env, bookID uint64) []uint64 {
	t.Helper()
	ctx := context.Background()
	day := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	var ids []uint64
	statuses := []transaction.Status{transaction.StatusActive, transaction.StatusOverdue}
	for _, st := range statuses {
		tr := &transaction.Transaction{
			BookID: bookID, BorrowerName: "Ana", BorrowerIDNumber: "X1",
			BorrowedDate: day, DueDate: day.AddDate(0, 0, 14), Status: st, FineAmount: decimal.Zero,
		}
		require.NoError(t, e.txns.Create(ctx, tr))
		require.NoError(t, e.books.DecrementAvailable(ctx, bookID))
		ids = append(ids, tr.ID)
	}
	return ids
}
