package audit

import (
	"context"
	"time"
)

type Action string

const (
	ActionBorrow     Action = "BORROW"
	ActionReturn     Action = "RETURN"
	ActionUndoReturn Action = "UNDO_RETURN"
	ActionExtend     Action = "EXTEND"
	ActionSweep      Action = "OVERDUE_SWEEP"
	ActionBookCreate Action = "BOOK_CREATE"
	ActionBookUpdate Action = "BOOK_UPDATE"
	ActionBookDelete Action = "BOOK_DELETE"
	ActionFinePay    Action = "FINE_PAY"
	ActionFineWaive  Action = "FINE_WAIVE"
)

// SystemActor is recorded for work not triggered by a request (cron sweep).
const SystemActor = "system"

// Table: activity_logs
type Entry struct {
	ID          uint64    `gorm:"primaryKey;column:id" json:"id"`
	Actor       string    `gorm:"size:64;not null;index" json:"actor"`
	ActionType  Action    `gorm:"type:varchar(32);not null" json:"action_type"`
	Entity      string    `gorm:"size:32;not null;index:idx_activity_logs_entity" json:"entity"`
	EntityID    uint64    `gorm:"not null;index:idx_activity_logs_entity" json:"entity_id"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Entry) TableName() string { return "activity_logs" }

type actorKey struct{}

// WithActor stores the request's actor identity on ctx.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the actor stored on ctx, or SystemActor.
func ActorFrom(ctx context.Context) string {
	if v, ok := ctx.Value(actorKey{}).(string); ok && v != "" {
		return v
	}
	return SystemActor
}
