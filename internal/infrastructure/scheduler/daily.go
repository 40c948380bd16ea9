package scheduler

import (
	"context"
	"time"

	"NewsDigest/internal/domain"
	"NewsDigest/internal/ports"
)

// CheckTimeScheduler fires the job at each analysis period's check time,
// evaluated once per minute in the configured timezone.
type CheckTimeScheduler struct {
	location       *time.Location
	runImmediately bool
	stop           chan struct{}
}

var _ ports.Scheduler = (*CheckTimeScheduler)(nil)

// NewCheckTimeScheduler builds a scheduler for the given timezone.
func NewCheckTimeScheduler(location *time.Location, runImmediately bool) *CheckTimeScheduler {
	if location == nil {
		location = time.UTC
	}
	return &CheckTimeScheduler{location: location, runImmediately: runImmediately}
}

// Start begins the minute ticker. The job receives the trigger time; at most
// one invocation runs at a time because ticks are handled serially.
func (c *CheckTimeScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	if c.stop != nil {
		return nil
	}

	c.stop = make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()

		if c.runImmediately {
			job(time.Now().In(c.location))
		}

		var lastFired string
		for {
			select {
			case t := <-ticker.C:
				now := t.In(c.location)
				stamp := now.Format("2006-01-02 15:04")
				if stamp == lastFired {
					continue
				}
				if isCheckTime(now) {
					lastFired = stamp
					job(now)
				}
			case <-ctx.Done():
				return
			case <-c.stop:
				return
			}
		}
	}()

	return nil
}

// Stop halts the ticker goroutine.
func (c *CheckTimeScheduler) Stop(ctx context.Context) error {
	if c.stop == nil {
		return nil
	}
	close(c.stop)
	c.stop = nil
	return nil
}

func isCheckTime(now time.Time) bool {
	wall := now.Format("15:04")
	for _, period := range domain.AnalysisPeriods {
		if period.CheckTime == wall {
			return true
		}
	}
	return false
}
