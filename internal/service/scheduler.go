// internal/service/scheduler.go
package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Scheduler drives the drip processor on a fixed interval. Trigger dispatch
// is not on the timer; the event consumer invokes it directly.
type Scheduler struct {
	Interval time.Duration
	Drip     *DripProcessor
	Log      zerolog.Logger

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewScheduler(interval time.Duration, drip *DripProcessor, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Interval: interval,
		Drip:     drip,
		Log:      log,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs the tick loop in a goroutine until Stop is called.
func (s *Scheduler) Start() {
	go s.run()
}

func (s *Scheduler) run() {
	defer close(s.done)
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Log.Info().Dur("interval", s.Interval).Msg("drip scheduler started")
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if err := s.Drip.ProcessDue(context.Background()); err != nil {
				s.Log.Error().Err(err).Msg("drip tick failed")
			}
		}
	}
}

// Stop prevents future ticks and waits for an in-flight tick to run to
// completion.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
}
