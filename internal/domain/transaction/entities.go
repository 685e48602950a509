package transaction

import (
	"time"

	"github.com/shopspring/decimal"

	"library-circulation/internal/apperr"
)

var (
	ErrNotFound        = apperr.New(apperr.NotFound, "transaction not found")
	ErrAlreadyReturned = apperr.New(apperr.InvalidState, "transaction already returned")
	ErrNotReturned     = apperr.New(apperr.InvalidState, "transaction has not been returned")
)

type Status string

const (
	StatusActive   Status = "active"
	StatusOverdue  Status = "overdue"
	StatusReturned Status = "returned"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusOverdue, StatusReturned:
		return true
	}
	return false
}

// Table: transactions. Borrower identity is embedded on the row.
type Transaction struct {
	ID               uint64          `gorm:"primaryKey;column:id" json:"id"`
	BookID           uint64          `gorm:"not null;index:idx_transactions_book_status" json:"book_id"`
	BorrowerName     string          `gorm:"size:255;not null" json:"borrower_name"`
	BorrowerIDNumber string          `gorm:"column:borrower_id_number;size:64;not null;index" json:"borrower_id_number"`
	BorrowerCourse   string          `gorm:"size:128" json:"borrower_course,omitempty"`
	BorrowerContact  string          `gorm:"size:128" json:"borrower_contact,omitempty"`
	BorrowedDate     time.Time       `gorm:"type:date;not null" json:"borrowed_date"`
	DueDate          time.Time       `gorm:"type:date;not null;index:idx_transactions_status_due,priority:2" json:"due_date"`
	ReturnDate       *time.Time      `gorm:"type:date" json:"return_date,omitempty"`
	Status           Status          `gorm:"type:varchar(16);not null;default:'active';index:idx_transactions_book_status;index:idx_transactions_status_due,priority:1" json:"status"`
	FineAmount       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"fine_amount"`
	Notes            string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Transaction) TableName() string { return "transactions" }

// StatusFor derives the status of a non-returned transaction from its due date.
// A transaction is overdue from the day after its due date.
func StatusFor(due, today time.Time) Status {
	if due.Before(today) {
		return StatusOverdue
	}
	return StatusActive
}

func (t *Transaction) IsOpen() bool { return t.Status != StatusReturned }
