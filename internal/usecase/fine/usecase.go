package fine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"library-circulation/internal/apperr"
	"library-circulation/internal/domain/audit"
	domain "library-circulation/internal/domain/fine"
	"library-circulation/internal/domain/uow"
	"library-circulation/internal/usecase/activity"
	"library-circulation/pkg/clock"
	"library-circulation/pkg/id"
)

const entityFine = "fine"

type FineDTO struct {
	ID            uint64     `json:"id"`
	TransactionID uint64     `json:"transaction_id"`
	Code          string     `json:"transaction_code"`
	DaysOverdue   int        `json:"days_overdue"`
	DailyRate     string     `json:"daily_rate"`
	Amount        string     `json:"amount"`
	Status        string     `json:"status"`
	SettledAt     *time.Time `json:"settled_at,omitempty"`
}

type Usecase struct {
	uow      uow.UnitOfWork
	fines    domain.Repository
	activity *activity.Recorder
	clock    clock.Clock
}

func NewUsecase(tx uow.UnitOfWork, fines domain.Repository, rec *activity.Recorder, clk clock.Clock) *Usecase {
	return &Usecase{uow: tx, fines: fines, activity: rec, clock: clk}
}

func (u *Usecase) List(ctx context.Context, status string) ([]FineDTO, error) {
	st := domain.Status(status)
	if st != "" && !st.Valid() {
		return nil, apperr.Invalid("unknown status %q", status)
	}
	rows, err := u.fines.List(ctx, st)
	if err != nil {
		return nil, err
	}
	out := make([]FineDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toDTO(&rows[i]))
	}
	return out, nil
}

func (u *Usecase) Get(ctx context.Context, fineID uint64) (*FineDTO, error) {
	f, err := u.fines.GetByID(ctx, fineID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	dto := toDTO(f)
	return &dto, nil
}

func (u *Usecase) Pay(ctx context.Context, fineID uint64) (*FineDTO, error) {
	return u.settle(ctx, fineID, domain.StatusPaid, audit.ActionFinePay)
}

func (u *Usecase) Waive(ctx context.Context, fineID uint64) (*FineDTO, error) {
	return u.settle(ctx, fineID, domain.StatusWaived, audit.ActionFineWaive)
}

func (u *Usecase) settle(ctx context.Context, fineID uint64, to domain.Status, action audit.Action) (*FineDTO, error) {
	var out *domain.Fine
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		f, err := r.Fines.GetByIDForUpdate(ctx, fineID)
		if err != nil {
			return mapNotFound(err)
		}
		if f.Status != domain.StatusUnpaid {
			return domain.ErrAlreadySettled
		}
		at := u.clock.Now()
		f.Status = to
		f.SettledAt = &at
		if err := r.Fines.Save(ctx, f); err != nil {
			return err
		}
		out = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.activity.Record(ctx, action, entityFine, out.ID,
		fmt.Sprintf("fine of %s on transaction %s %s", out.Amount.StringFixed(2), id.Code("T", out.TransactionID), to))
	dto := toDTO(out)
	return &dto, nil
}

func toDTO(f *domain.Fine) FineDTO {
	return FineDTO{
		ID:            f.ID,
		TransactionID: f.TransactionID,
		Code:          id.Code("T", f.TransactionID),
		DaysOverdue:   f.DaysOverdue,
		DailyRate:     f.DailyRate.StringFixed(2),
		Amount:        f.Amount.StringFixed(2),
		Status:        string(f.Status),
		SettledAt:     f.SettledAt,
	}
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}
