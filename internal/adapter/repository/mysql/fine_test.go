package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	fineDomain "library-circulation/internal/domain/fine"
	"library-circulation/internal/testutil/sqlitedb"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func makeFine(txnID uint64, days int) *fineDomain.Fine {
	rate := decimal.RequireFromString("5.00")
	return &fineDomain.Fine{
		TransactionID: txnID,
		DaysOverdue:   days,
		DailyRate:     rate,
		Amount:        rate.Mul(decimal.NewFromInt(int64(days))),
		Status:        fineDomain.StatusUnpaid,
	}
}

func TestFineRepository_Lifecycle(t *testing.T) {
	db := sqlitedb.Open(t)
	repo := NewFineRepository(db)
	ctx := context.Background()

	f := makeFine(5, 20)
	if err := repo.Create(ctx, f); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := repo.GetByTransactionID(ctx, 5)
	if err != nil {
		t.Fatalf("GetByTransactionID: %v", err)
	}
	if !got.Amount.Equal(decimal.NewFromInt(100)) || got.Status != fineDomain.StatusUnpaid {
		t.Fatalf("unexpected fine: %+v", got)
	}

	now := time.Now().UTC()
	got.Status = fineDomain.StatusPaid
	got.SettledAt = &now
	if err := repo.Save(ctx, got); err != nil {
		t.Fatalf("Save: %v", err)
	}
	locked, err := repo.GetByIDForUpdate(ctx, f.ID)
	if err != nil {
		t.Fatalf("GetByIDForUpdate: %v", err)
	}
	if locked.Status != fineDomain.StatusPaid || locked.SettledAt == nil {
		t.Fatalf("settlement not persisted: %+v", locked)
	}

	paid, _ := repo.List(ctx, fineDomain.StatusPaid)
	unpaid, _ := repo.List(ctx, fineDomain.StatusUnpaid)
	if len(paid) != 1 || len(unpaid) != 0 {
		t.Fatalf("paid=%d unpaid=%d", len(paid), len(unpaid))
	}
}

func TestFineRepository_DeleteHidesRow(t *testing.T) {
	db := sqlitedb.Open(t)
	repo := NewFineRepository(db)
	ctx := context.Background()

	f := makeFine(9, 2)
	if err := repo.Create(ctx, f); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Delete(ctx, f); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, f.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("want not found after delete, got %v", err)
	}
	if _, err := repo.GetByTransactionID(ctx, 9); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("want not found by transaction after delete, got %v", err)
	}
	// soft deleted rows are kept for the record
	var n int64
	db.Unscoped().Model(&fineDomain.Fine{}).Where("id = ?", f.ID).Count(&n)
	if n != 1 {
		t.Fatalf("unscoped count = %d, want 1", n)
	}
}
