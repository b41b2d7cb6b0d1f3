package handler

import (
	"context"
	"errors"
	"time"

	"github.com/MichalMitros/cms-sync/internal/platform"
	"github.com/MichalMitros/cms-sync/internal/syncer"
	"github.com/rs/zerolog"
)

// Trigger starts synchronization in background.
type Trigger interface {
	TriggerSync(ctx context.Context, opts syncer.Options) error
}

// Scheduler triggers full synchronization in fixed intervals.
type Scheduler struct {
	trigger  Trigger
	interval time.Duration
	logger   *zerolog.Logger
}

// NewScheduler returns new Scheduler. Non-positive interval disables scheduling.
func NewScheduler(trigger Trigger, interval time.Duration, logger *zerolog.Logger) *Scheduler {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &Scheduler{
		trigger:  trigger,
		interval: interval,
		logger:   logger,
	}
}

// Run triggers synchronization on every tick until ctx is done.
func (s *Scheduler) Run(ctx context.Context) {
	if s.interval <= 0 {
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info().
		Dur("interval", s.interval).
		Msg("sync scheduler started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("sync scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	err := s.trigger.TriggerSync(ctx, syncer.Options{})
	switch {
	case errors.Is(err, platform.ErrSyncInProgress):
		s.logger.Debug().Msg("scheduled sync skipped, sync already in progress")
	case err != nil:
		s.logger.Error().
			Err(err).
			Msg("can't trigger scheduled sync")
	}
}
