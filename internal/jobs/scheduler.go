package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"socialnet/internal/events"
)

const DefaultOrphanSweep = "0 30 3 * * *"

// Scheduler emits periodic maintenance events for the worker.
type Scheduler struct {
	cron      *cron.Cron
	publisher events.Publisher
	log       zerolog.Logger
}

func NewScheduler(publisher events.Publisher, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:      c,
		publisher: publisher,
		log:       log,
	}
}

// Start registers the orphan sweep under spec (six-field cron, seconds first)
// and starts the cron loop. An empty spec uses DefaultOrphanSweep.
func (s *Scheduler) Start(spec string) error {
	if s.publisher == nil {
		return nil
	}
	if spec == "" {
		spec = DefaultOrphanSweep
	}

	if _, err := s.cron.AddFunc(spec, s.enqueueOrphanSweep); err != nil {
		return fmt.Errorf("schedule orphan sweep %q: %w", spec, err)
	}

	s.cron.Start()
	s.log.Info().Str("orphan_sweep", spec).Msg("scheduler started")
	return nil
}

// Stop halts the cron loop and waits up to timeout for a running job.
func (s *Scheduler) Stop(timeout time.Duration) {
	select {
	case <-s.cron.Stop().Done():
	case <-time.After(timeout):
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) enqueueOrphanSweep() {
	if err := s.enqueue(events.New(events.OrphanSweep, "", nil)); err != nil {
		s.log.Error().Err(err).Msg("enqueue orphan sweep failed")
	}
}

func (s *Scheduler) enqueue(event events.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.publisher.Publish(ctx, event)
}
