package activity

import (
	"context"

	"github.com/sirupsen/logrus"

	"library-circulation/internal/domain/audit"
)

// Recorder appends activity log entries. Append failures are logged and
// swallowed: the operation being recorded has already committed.
type Recorder struct {
	repo audit.Repository
	log  *logrus.Logger
}

func NewRecorder(repo audit.Repository, log *logrus.Logger) *Recorder {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Recorder{repo: repo, log: log}
}

func (r *Recorder) Record(ctx context.Context, action audit.Action, entity string, entityID uint64, description string) {
	if r == nil || r.repo == nil {
		return
	}
	e := &audit.Entry{
		Actor:       audit.ActorFrom(ctx),
		ActionType:  action,
		Entity:      entity,
		EntityID:    entityID,
		Description: description,
	}
	if err := r.repo.Append(ctx, e); err != nil {
		r.log.WithError(err).WithFields(logrus.Fields{
			"action":    action,
			"entity":    entity,
			"entity_id": entityID,
			"actor":     e.Actor,
		}).Warn("activity log append failed")
	}
}
