package circulation

import (
	"time"

	"github.com/shopspring/decimal"

	"library-circulation/internal/apperr"
)

// ErrFineSettled blocks undoing a return whose fine was already paid or waived.
var ErrFineSettled = apperr.New(apperr.InvalidState, "cannot undo return: its fine has already been settled")

type Policy struct {
	DailyRate decimal.Decimal
	LoanDays  int
}

type BorrowInput struct {
	BookID           uint64
	BorrowerName     string
	BorrowerIDNumber string
	BorrowerCourse   string
	BorrowerContact  string
	Notes            string
	BorrowedDate     *time.Time // default: today
	DueDate          *time.Time // default: BorrowedDate + Policy.LoanDays
}

// ExtendInput carries exactly one of NewDueDate or ExtendDays.
type ExtendInput struct {
	TransactionID uint64
	NewDueDate    *time.Time
	ExtendDays    int
}

type ListInput struct {
	Status           string
	BookID           uint64
	BorrowerIDNumber string
	Limit            int
	Offset           int
}

type TransactionDTO struct {
	ID               uint64  `json:"id"`
	Code             string  `json:"code"`
	BookID           uint64  `json:"book_id"`
	BorrowerName     string  `json:"borrower_name"`
	BorrowerIDNumber string  `json:"borrower_id_number"`
	BorrowerCourse   string  `json:"borrower_course,omitempty"`
	BorrowerContact  string  `json:"borrower_contact,omitempty"`
	BorrowedDate     string  `json:"borrowed_date"`
	DueDate          string  `json:"due_date"`
	ReturnDate       *string `json:"return_date,omitempty"`
	Status           string  `json:"status"`
	DaysOverdue      int     `json:"days_overdue"`
	FineAmount       string  `json:"fine_amount"`
	Notes            string  `json:"notes,omitempty"`
}

type FineDTO struct {
	TransactionID uint64 `json:"transaction_id"`
	Code          string `json:"code"`
	Status        string `json:"status"`
	AsOf          string `json:"as_of"`
	DaysOverdue   int    `json:"days_overdue"`
	DailyRate     string `json:"daily_rate"`
	Amount        string `json:"amount"`
}
