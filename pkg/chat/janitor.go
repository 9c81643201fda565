package chat

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Janitor periodically expires idle sessions.
type Janitor struct {
	cron    *cron.Cron
	manager *Manager
	idle    time.Duration
	logger  *slog.Logger
}

// NewJanitor schedules idle-session cleanup. schedule accepts standard cron
// expressions and descriptors such as "@every 10m".
func NewJanitor(manager *Manager, schedule string, idle time.Duration, logger *slog.Logger) (*Janitor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	j := &Janitor{
		cron:    cron.New(),
		manager: manager,
		idle:    idle,
		logger:  logger,
	}
	if _, err := j.cron.AddFunc(schedule, j.Sweep); err != nil {
		return nil, fmt.Errorf("invalid cleanup schedule %q: %w", schedule, err)
	}
	return j, nil
}

// Sweep expires idle sessions once.
func (j *Janitor) Sweep() {
	if n := j.manager.ExpireIdle(j.idle); n > 0 {
		j.logger.Info("expired idle sessions", "count", n, "remaining", j.manager.Len())
	}
}

func (j *Janitor) Start() {
	j.cron.Start()
}

// Stop stops the scheduler and waits for a running sweep to finish.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
}
