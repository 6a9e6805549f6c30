package scheduler

import (
	"time"

	"ghostmedia/backend/pkg/logger"
	"ghostmedia/backend/pkg/monitoring"

	"go.uber.org/zap"
)

// Kind identifies the type of ephemeral item a timer belongs to.
type Kind string

const (
	KindPost    Kind = "post"
	KindMessage Kind = "message"
)

// Scheduler arms one-shot deferred actions for ephemeral content. Timers are
// held in memory only; a process restart loses all pending expirations. There
// is no cancellation: the action itself must re-check that the item is still
// worth acting on when it fires.
type Scheduler struct{}

func New() *Scheduler {
	return &Scheduler{}
}

// Arm schedules onFire to run at fireAt. A fireAt in the past (or zero delay)
// fires on the next scheduling opportunity. Errors from onFire are logged and
// swallowed: expiry is best-effort and nobody is waiting on the result.
func (s *Scheduler) Arm(kind Kind, id string, fireAt time.Time, onFire func() error) {
	delay := time.Until(fireAt)
	if delay < 0 {
		delay = 0
	}

	monitoring.ArmedTimers.Inc()
	logger.Log.Debug("expiry timer armed",
		zap.String("kind", string(kind)),
		zap.String("id", id),
		zap.Time("fireAt", fireAt),
	)

	time.AfterFunc(delay, func() {
		monitoring.ArmedTimers.Dec()
		if err := onFire(); err != nil {
			logger.Log.Error("expiry action failed",
				zap.String("kind", string(kind)),
				zap.String("id", id),
				zap.Error(err),
			)
			return
		}
		logger.Log.Debug("expiry timer fired",
			zap.String("kind", string(kind)),
			zap.String("id", id),
		)
	})
}
