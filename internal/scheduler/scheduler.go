package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Recounter rebuilds vote tallies, e.g. voting.Service. Errors are
// expected to be reported by the implementation; the scheduler only
// logs them at debug level.
type Recounter interface {
	Recount(ctx context.Context) (int64, error)
}

type Scheduler struct {
	cron    *cron.Cron
	service Recounter
	spec    string
	timeout time.Duration
}

func New(spec string, service Recounter) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		service: service,
		spec:    spec,
		timeout: time.Minute,
	}
}

func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.run)
	if err != nil {
		return fmt.Errorf("invalid recount schedule %q: %w", s.spec, err)
	}

	s.cron.Start()
	slog.Info("vote recount scheduled", "spec", s.spec)
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	slog.Debug("scheduled vote recount triggered")
	if _, err := s.service.Recount(ctx); err != nil {
		slog.Debug("scheduled vote recount failed", "error", err)
	}
}
