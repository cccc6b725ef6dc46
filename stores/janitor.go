package stores

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultJanitorSchedule runs the prune once a day at 3am.
const DefaultJanitorSchedule = "0 3 * * *"

// Janitor periodically prunes conversations that have not been touched
// within the retention window.
type Janitor struct {
	store     Store
	scheduler *cron.Cron
	schedule  string
	retention time.Duration
	logger    *log.Logger
}

// NewJanitor creates a janitor for the given store. A retention of zero
// disables pruning entirely.
func NewJanitor(store Store, retention time.Duration) *Janitor {
	return &Janitor{
		store:     store,
		scheduler: cron.New(),
		schedule:  DefaultJanitorSchedule,
		retention: retention,
		logger:    log.Default(),
	}
}

// WithSchedule overrides the cron schedule.
func (j *Janitor) WithSchedule(schedule string) *Janitor {
	j.schedule = schedule
	return j
}

// WithLogger overrides the logger.
func (j *Janitor) WithLogger(logger *log.Logger) *Janitor {
	if logger != nil {
		j.logger = logger
	}
	return j
}

// Start registers the prune job and starts the scheduler.
func (j *Janitor) Start() error {
	if j.retention <= 0 {
		return nil
	}
	if _, err := j.scheduler.AddFunc(j.schedule, j.runOnce); err != nil {
		return fmt.Errorf("invalid janitor schedule %q: %w", j.schedule, err)
	}
	j.scheduler.Start()
	return nil
}

// Stop stops the scheduler. Already running jobs finish on their own.
func (j *Janitor) Stop() {
	j.scheduler.Stop()
}

func (j *Janitor) runOnce() {
	cutoff := time.Now().Add(-j.retention)
	pruned, err := j.store.PruneConversationsBefore(cutoff)
	if err != nil {
		j.logger.Printf("Warning: Janitor prune failed: %v", err)
		return
	}
	if pruned > 0 {
		j.logger.Printf("Janitor pruned %d conversations older than %s", pruned, cutoff.Format(time.RFC3339))
	}
}
