package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/thedavidemmanuel/water-quality-api/internal/service"
	"github.com/thedavidemmanuel/water-quality-api/internal/store"
	"go.uber.org/zap"
)

const jobTimeout = 30 * time.Second

// Scheduler runs the prediction workflow on a cron schedule, labelling the
// latest reading without anyone calling the predict endpoint
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// New creates a scheduler that runs PredictLatest on the given cron spec
func New(prediction *service.PredictionService, spec string, logger *zap.Logger) (*Scheduler, error) {
	c := cron.New()

	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		result, err := prediction.PredictLatest(ctx)
		switch {
		case errors.Is(err, service.ErrNoData):
			logger.Info("scheduled prediction skipped, no readings stored")
		case errors.Is(err, store.ErrConflict):
			logger.Warn("scheduled prediction conflicted with a concurrent update")
		case err != nil:
			logger.Error("scheduled prediction failed", zap.Error(err))
		default:
			logger.Info("scheduled prediction completed",
				zap.String("reading_id", result.ReadingID),
				zap.Bool("potable", result.Potable))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule prediction job: %w", err)
	}

	return &Scheduler{cron: c, logger: logger}, nil
}

// Start begins running scheduled jobs
func (s *Scheduler) Start() {
	s.logger.Info("prediction scheduler started")
	s.cron.Start()
}

// Stop stops the scheduler and waits for a running job to finish
func (s *Scheduler) Stop(ctx context.Context) error {
	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
		s.logger.Info("prediction scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
