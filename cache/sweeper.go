package cache

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"comicgeeks/internal/logging"
)

// Sweeper runs Store.Sweep on a cron schedule for long-lived processes where
// the construction-time sweep is not enough.
type Sweeper struct {
	cron  *cron.Cron
	store Store
	log   logging.Logger
}

// NewSweeper schedules periodic sweeps of store. The schedule accepts cron
// expressions and descriptors like "@daily" (the default when empty).
func NewSweeper(store Store, schedule string, log logging.Logger) (*Sweeper, error) {
	if schedule == "" {
		schedule = "@daily"
	}
	if log == nil {
		log = logging.NewNop()
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if err := store.Sweep(); err != nil {
			log.Warn("cache sweep failed", logging.Err(err))
		} else {
			log.Debug("cache sweep completed")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}

	return &Sweeper{cron: c, store: store, log: log}, nil
}

// Start begins running scheduled sweeps in the background.
func (s *Sweeper) Start() {
	s.cron.Start()
}

// Stop halts scheduled sweeps. Does not close the store.
func (s *Sweeper) Stop() {
	s.cron.Stop()
}
