package fine

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"library-circulation/internal/apperr"
	"library-circulation/pkg/clock"
)

var (
	ErrNotFound       = apperr.New(apperr.NotFound, "fine not found")
	ErrAlreadySettled = apperr.New(apperr.InvalidState, "fine already settled")
)

type Status string

const (
	StatusUnpaid Status = "unpaid"
	StatusPaid   Status = "paid"
	StatusWaived Status = "waived"
)

func (s Status) Valid() bool {
	switch s {
	case StatusUnpaid, StatusPaid, StatusWaived:
		return true
	}
	return false
}

// Table: fines. One row per overdue return.
type Fine struct {
	ID            uint64          `gorm:"primaryKey;column:id" json:"id"`
	TransactionID uint64          `gorm:"not null;index" json:"transaction_id"`
	DaysOverdue   int             `gorm:"not null" json:"days_overdue"`
	DailyRate     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"daily_rate"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status        Status          `gorm:"type:varchar(16);not null;default:'unpaid';index" json:"status"`
	SettledAt     *time.Time      `json:"settled_at,omitempty"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Fine) TableName() string { return "fines" }

// Calculate returns the whole calendar days elapsed past due as of asOf and
// the resulting amount (days × rate, rounded to cents). Never negative.
func Calculate(due, asOf time.Time, dailyRate decimal.Decimal) (int, decimal.Decimal) {
	days := clock.DaysBetween(due, asOf)
	if days <= 0 {
		return 0, decimal.Zero
	}
	return days, dailyRate.Mul(decimal.NewFromInt(int64(days))).Round(2)
}
