package fine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"library-circulation/internal/apperr"
	"library-circulation/internal/domain/audit"
	domain "library-circulation/internal/domain/fine"
	"library-circulation/internal/domain/uow"
	"library-circulation/internal/infrastructure/logging"
	"library-circulation/internal/testutil/auditmock"
	"library-circulation/internal/testutil/finemock"
	"library-circulation/internal/testutil/uowmock"
	"library-circulation/internal/usecase/activity"
	"library-circulation/pkg/clock"
)

var settledAt = time.Date(2025, 10, 2, 9, 30, 0, 0, time.UTC)

func newUsecase(repo *finemock.Repo, a *auditmock.Repo) *Usecase {
	return NewUsecase(uowmock.Passthrough(uow.Repos{Fines: repo}), repo, activity.NewRecorder(a, logging.Discard()), clock.NewManual(settledAt))
}

func unpaid() *domain.Fine {
	return &domain.Fine{
		ID: 4, TransactionID: 12, DaysOverdue: 20,
		DailyRate: decimal.RequireFromString("5"), Amount: decimal.RequireFromString("100"),
		Status: domain.StatusUnpaid,
	}
}

func TestSettle(t *testing.T) {
	cases := []struct {
		name   string
		run    func(uc *Usecase) (*FineDTO, error)
		status domain.Status
		action audit.Action
	}{
		{"pay", func(uc *Usecase) (*FineDTO, error) { return uc.Pay(context.Background(), 4) }, domain.StatusPaid, audit.ActionFinePay},
		{"waive", func(uc *Usecase) (*FineDTO, error) { return uc.Waive(context.Background(), 4) }, domain.StatusWaived, audit.ActionFineWaive},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var saved *domain.Fine
			repo := &finemock.Repo{
				GetByIDForUpdateFn: func(ctx context.Context, id uint64) (*domain.Fine, error) { return unpaid(), nil },
				SaveFn: func(ctx context.Context, f *domain.Fine) error {
					saved = f
					return nil
				},
			}
			a := &auditmock.Repo{}
			dto, err := tc.run(newUsecase(repo, a))
			require.NoError(t, err)
			require.NotNil(t, saved)
			assert.Equal(t, tc.status, saved.Status)
			require.NotNil(t, saved.SettledAt)
			assert.True(t, saved.SettledAt.Equal(settledAt))
			assert.Equal(t, string(tc.status), dto.Status)
			assert.Equal(t, "100.00", dto.Amount)
			assert.Equal(t, "5.00", dto.DailyRate)
			assert.Equal(t, "T012", dto.Code)
			assert.Equal(t, []audit.Action{tc.action}, a.Actions())
		})
	}
}

func TestSettle_Errors(t *testing.T) {
	t.Run("already settled", func(t *testing.T) {
		repo := &finemock.Repo{
			GetByIDForUpdateFn: func(ctx context.Context, id uint64) (*domain.Fine, error) {
				f := unpaid()
				f.Status = domain.StatusWaived
				return f, nil
			},
			SaveFn: func(ctx context.Context, f *domain.Fine) error {
				t.Fatalf("Save must not be called")
				return nil
			},
		}
		a := &auditmock.Repo{}
		_, err := newUsecase(repo, a).Pay(context.Background(), 4)
		require.ErrorIs(t, err, domain.ErrAlreadySettled)
		assert.Equal(t, apperr.InvalidState, apperr.KindOf(err))
		assert.Empty(t, a.Entries)
	})
	t.Run("not found", func(t *testing.T) {
		repo := &finemock.Repo{
			GetByIDForUpdateFn: func(ctx context.Context, id uint64) (*domain.Fine, error) { return nil, gorm.ErrRecordNotFound },
		}
		_, err := newUsecase(repo, &auditmock.Repo{}).Waive(context.Background(), 4)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
	t.Run("save fails", func(t *testing.T) {
		boom := errors.New("deadlock")
		repo := &finemock.Repo{
			GetByIDForUpdateFn: func(ctx context.Context, id uint64) (*domain.Fine, error) { return unpaid(), nil },
			SaveFn:             func(ctx context.Context, f *domain.Fine) error { return boom },
		}
		_, err := newUsecase(repo, &auditmock.Repo{}).Pay(context.Background(), 4)
		require.ErrorIs(t, err, boom)
	})
}

func TestListAndGet(t *testing.T) {
	var asked domain.Status
	repo := &finemock.Repo{
		ListFn: func(ctx context.Context, status domain.Status) ([]domain.Fine, error) {
			asked = status
			return []domain.Fine{*unpaid()}, nil
		},
		GetByIDFn: func(ctx context.Context, id uint64) (*domain.Fine, error) {
			if id != 4 {
				return nil, gorm.ErrRecordNotFound
			}
			return unpaid(), nil
		},
	}
	uc := newUsecase(repo, &auditmock.Repo{})

	out, err := uc.List(context.Background(), "unpaid")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, domain.StatusUnpaid, asked)

	_, err = uc.List(context.Background(), "refunded")
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	got, err := uc.Get(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, 20, got.DaysOverdue)

	_, err = uc.Get(context.Background(), 5)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
