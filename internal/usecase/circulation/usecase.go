package circulation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"library-circulation/internal/apperr"
	"library-circulation/internal/domain/audit"
	"library-circulation/internal/domain/book"
	"library-circulation/internal/domain/fine"
	"library-circulation/internal/domain/transaction"
	"library-circulation/internal/domain/uow"
	"library-circulation/internal/usecase/activity"
	"library-circulation/pkg/clock"
	"library-circulation/pkg/id"
)

const entityTransaction = "transaction"

// Usecase drives the borrow/return lifecycle. Every operation that touches
// more than one row runs inside a single unit of work.
type Usecase struct {
	uow      uow.UnitOfWork
	txns     transaction.Repository
	activity *activity.Recorder
	clock    clock.Clock
	policy   Policy
	log      *logrus.Logger
}

func NewUsecase(tx uow.UnitOfWork, txns transaction.Repository, rec *activity.Recorder, clk clock.Clock, p Policy, log *logrus.Logger) *Usecase {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if clk == nil {
		clk = clock.NewSystem(time.UTC)
	}
	return &Usecase{uow: tx, txns: txns, activity: rec, clock: clk, policy: p, log: log}
}

func (u *Usecase) Borrow(ctx context.Context, in BorrowInput) (*TransactionDTO, error) {
	today := u.clock.Today()
	t, err := u.newTransaction(in, today)
	if err != nil {
		return nil, err
	}

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		b, err := r.Books.GetByIDForUpdate(ctx, in.BookID)
		if err != nil {
			return mapNotFound(err, book.ErrNotFound)
		}
		if !b.Active {
			return book.ErrWithdrawn
		}
		if b.AvailableQuantity <= 0 {
			return book.ErrUnavailable
		}
		if err := r.Transactions.Create(ctx, t); err != nil {
			return err
		}
		return r.Books.DecrementAvailable(ctx, b.ID)
	})
	if err != nil {
		return nil, err
	}

	u.activity.Record(ctx, audit.ActionBorrow, entityTransaction, t.ID,
		fmt.Sprintf("%s (%s) borrowed book #%d, due %s", t.BorrowerName, t.BorrowerIDNumber, t.BookID, t.DueDate.Format(clock.DateLayout)))
	return u.toDTO(t, today), nil
}

func (u *Usecase) newTransaction(in BorrowInput, today time.Time) (*transaction.Transaction, error) {
	if in.BookID == 0 {
		return nil, apperr.Invalid("book_id is required")
	}
	name := strings.TrimSpace(in.BorrowerName)
	if name == "" {
		return nil, apperr.Invalid("borrower_name is required")
	}
	idNumber := strings.TrimSpace(in.BorrowerIDNumber)
	if idNumber == "" {
		return nil, apperr.Invalid("borrower_id_number is required")
	}

	borrowed := today
	if in.BorrowedDate != nil {
		borrowed = clock.DateOf(*in.BorrowedDate)
	}
	due := borrowed.AddDate(0, 0, u.policy.LoanDays)
	if in.DueDate != nil {
		due = clock.DateOf(*in.DueDate)
	}
	if due.Before(borrowed) {
		return nil, apperr.Invalid("due_date %s is before borrowed_date %s",
			due.Format(clock.DateLayout), borrowed.Format(clock.DateLayout))
	}

	return &transaction.Transaction{
		BookID:           in.BookID,
		BorrowerName:     name,
		BorrowerIDNumber: idNumber,
		BorrowerCourse:   strings.TrimSpace(in.BorrowerCourse),
		BorrowerContact:  strings.TrimSpace(in.BorrowerContact),
		Notes:            strings.TrimSpace(in.Notes),
		BorrowedDate:     borrowed,
		DueDate:          due,
		Status:           transaction.StatusActive,
		FineAmount:       decimal.Zero,
	}, nil
}

func (u *Usecase) Return(ctx context.Context, transactionID uint64) (*TransactionDTO, error) {
	today := u.clock.Today()
	var out *transaction.Transaction
	var days int

	err := u.uow.WithinTransactionTx(ctx, transactionID, func(r uow.Repos, t *transaction.Transaction) error {
		if t.Status == transaction.StatusReturned {
			return transaction.ErrAlreadyReturned
		}

		d, amount := fine.Calculate(t.DueDate, today, u.policy.DailyRate)
		returned := today
		t.Status = transaction.StatusReturned
		t.ReturnDate = &returned
		t.FineAmount = amount
		if err := r.Transactions.Save(ctx, t); err != nil {
			return err
		}

		if d > 0 {
			f := &fine.Fine{
				TransactionID: t.ID,
				DaysOverdue:   d,
				DailyRate:     u.policy.DailyRate,
				Amount:        amount,
				Status:        fine.StatusUnpaid,
			}
			if err := r.Fines.Create(ctx, f); err != nil {
				return err
			}
		}

		if err := r.Books.IncrementAvailable(ctx, t.BookID); err != nil {
			if errors.Is(err, book.ErrShelfFull) {
				u.log.WithFields(logrus.Fields{"transaction_id": t.ID, "book_id": t.BookID}).
					Error("return would push available_quantity above quantity")
			}
			return err
		}
		out, days = t, d
		return nil
	})
	if err != nil {
		return nil, mapNotFound(err, transaction.ErrNotFound)
	}

	desc := fmt.Sprintf("book #%d returned", out.BookID)
	if days > 0 {
		desc = fmt.Sprintf("book #%d returned %d day(s) late, fine %s", out.BookID, days, out.FineAmount.StringFixed(2))
	}
	u.activity.Record(ctx, audit.ActionReturn, entityTransaction, out.ID, desc)
	return u.toDTO(out, today), nil
}

func (u *Usecase) UndoReturn(ctx context.Context, transactionID uint64) (*TransactionDTO, error) {
	today := u.clock.Today()
	var out *transaction.Transaction

	err := u.uow.WithinTransactionTx(ctx, transactionID, func(r uow.Repos, t *transaction.Transaction) error {
		if t.Status != transaction.StatusReturned || t.ReturnDate == nil {
			return transaction.ErrNotReturned
		}

		// the fine raised by this return goes away with it, unless settled
		f, err := r.Fines.GetByTransactionID(ctx, t.ID)
		switch {
		case err == nil:
			if f.Status != fine.StatusUnpaid {
				return ErrFineSettled
			}
			if err := r.Fines.Delete(ctx, f); err != nil {
				return err
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		t.ReturnDate = nil
		t.FineAmount = decimal.Zero
		t.Status = transaction.StatusFor(t.DueDate, today)
		if err := r.Transactions.Save(ctx, t); err != nil {
			return err
		}

		if err := r.Books.DecrementAvailable(ctx, t.BookID); err != nil {
			if errors.Is(err, book.ErrUnavailable) {
				u.log.WithFields(logrus.Fields{"transaction_id": t.ID, "book_id": t.BookID}).
					Error("undo return would push available_quantity below zero")
			}
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, mapNotFound(err, transaction.ErrNotFound)
	}

	u.activity.Record(ctx, audit.ActionUndoReturn, entityTransaction, out.ID,
		fmt.Sprintf("return of book #%d undone, status %s", out.BookID, out.Status))
	return u.toDTO(out, today), nil
}

func (u *Usecase) Extend(ctx context.Context, in ExtendInput) (*TransactionDTO, error) {
	if (in.NewDueDate == nil) == (in.ExtendDays == 0) {
		return nil, apperr.Invalid("provide exactly one of new_due_date or extend_days")
	}
	if in.ExtendDays < 0 {
		return nil, apperr.Invalid("extend_days must be positive")
	}

	today := u.clock.Today()
	var out *transaction.Transaction
	var previous time.Time

	err := u.uow.WithinTransactionTx(ctx, in.TransactionID, func(r uow.Repos, t *transaction.Transaction) error {
		if t.Status == transaction.StatusReturned {
			return transaction.ErrAlreadyReturned
		}

		due := t.DueDate.AddDate(0, 0, in.ExtendDays)
		if in.NewDueDate != nil {
			due = clock.DateOf(*in.NewDueDate)
		}
		if due.Before(t.BorrowedDate) {
			return apperr.Invalid("due_date %s is before borrowed_date %s",
				due.Format(clock.DateLayout), t.BorrowedDate.Format(clock.DateLayout))
		}

		previous = t.DueDate
		t.DueDate = due
		t.Status = transaction.StatusFor(due, today)
		if err := r.Transactions.Save(ctx, t); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, mapNotFound(err, transaction.ErrNotFound)
	}

	u.activity.Record(ctx, audit.ActionExtend, entityTransaction, out.ID,
		fmt.Sprintf("due date moved from %s to %s", previous.Format(clock.DateLayout), out.DueDate.Format(clock.DateLayout)))
	return u.toDTO(out, today), nil
}

// SweepOverdue reclassifies stale active transactions as overdue and returns
// how many rows changed. Running it again on the same day changes nothing.
func (u *Usecase) SweepOverdue(ctx context.Context) (int64, error) {
	today := u.clock.Today()
	n, err := u.txns.MarkOverdue(ctx, today)
	if err != nil {
		return 0, err
	}
	u.log.WithFields(logrus.Fields{
		"as_of":   today.Format(clock.DateLayout),
		"changed": n,
	}).Info("overdue sweep finished")
	if n > 0 {
		u.activity.Record(ctx, audit.ActionSweep, entityTransaction, 0,
			fmt.Sprintf("%d transaction(s) marked overdue as of %s", n, today.Format(clock.DateLayout)))
	}
	return n, nil
}

func (u *Usecase) Get(ctx context.Context, transactionID uint64) (*TransactionDTO, error) {
	t, err := u.txns.GetByID(ctx, transactionID)
	if err != nil {
		return nil, mapNotFound(err, transaction.ErrNotFound)
	}
	return u.toDTO(t, u.clock.Today()), nil
}

func (u *Usecase) List(ctx context.Context, in ListInput) ([]TransactionDTO, error) {
	status := transaction.Status(in.Status)
	if status != "" && !status.Valid() {
		return nil, apperr.Invalid("unknown status %q", in.Status)
	}
	rows, err := u.txns.List(ctx, transaction.Filter{
		Status:           status,
		BookID:           in.BookID,
		BorrowerIDNumber: in.BorrowerIDNumber,
		Limit:            in.Limit,
		Offset:           in.Offset,
	})
	if err != nil {
		return nil, err
	}
	today := u.clock.Today()
	out := make([]TransactionDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *u.toDTO(&rows[i], today))
	}
	return out, nil
}

// FinePreview reports the fine owed on a transaction: as of today while it is
// open, as recorded at return time once it is returned.
func (u *Usecase) FinePreview(ctx context.Context, transactionID uint64) (*FineDTO, error) {
	t, err := u.txns.GetByID(ctx, transactionID)
	if err != nil {
		return nil, mapNotFound(err, transaction.ErrNotFound)
	}
	asOf := u.clock.Today()
	if t.ReturnDate != nil {
		asOf = *t.ReturnDate
	}
	days, amount := fine.Calculate(t.DueDate, asOf, u.policy.DailyRate)
	rate := u.policy.DailyRate
	if t.Status == transaction.StatusReturned {
		amount = t.FineAmount
		if days > 0 {
			rate = t.FineAmount.Div(decimal.NewFromInt(int64(days)))
		}
	}
	return &FineDTO{
		TransactionID: t.ID,
		Code:          id.Code("T", t.ID),
		Status:        string(t.Status),
		AsOf:          asOf.Format(clock.DateLayout),
		DaysOverdue:   days,
		DailyRate:     rate.StringFixed(2),
		Amount:        amount.StringFixed(2),
	}, nil
}

func (u *Usecase) toDTO(t *transaction.Transaction, today time.Time) *TransactionDTO {
	asOf := today
	var ret *string
	if t.ReturnDate != nil {
		s := t.ReturnDate.Format(clock.DateLayout)
		ret = &s
		asOf = *t.ReturnDate
	}
	days, _ := fine.Calculate(t.DueDate, asOf, decimal.Zero)
	return &TransactionDTO{
		ID:               t.ID,
		Code:             id.Code("T", t.ID),
		BookID:           t.BookID,
		BorrowerName:     t.BorrowerName,
		BorrowerIDNumber: t.BorrowerIDNumber,
		BorrowerCourse:   t.BorrowerCourse,
		BorrowerContact:  t.BorrowerContact,
		BorrowedDate:     t.BorrowedDate.Format(clock.DateLayout),
		DueDate:          t.DueDate.Format(clock.DateLayout),
		ReturnDate:       ret,
		Status:           string(t.Status),
		DaysOverdue:      days,
		FineAmount:       t.FineAmount.StringFixed(2),
		Notes:            t.Notes,
	}
}

func mapNotFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
