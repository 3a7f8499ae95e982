package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/thedavidemmanuel/water-quality-api/internal/mq"
	"github.com/thedavidemmanuel/water-quality-api/internal/predictor"
	"github.com/thedavidemmanuel/water-quality-api/internal/store"
	"go.uber.org/zap"
)

// ErrNoData is returned when a prediction is requested with no stored readings
var ErrNoData = errors.New("no water quality data available")

// ReadingSource is the slice of the store the prediction workflow reads from
// and writes back to
type ReadingSource interface {
	FindLatestReading(ctx context.Context) (*store.Reading, error)
	SetPotability(ctx context.Context, reading *store.Reading, potable bool) error
}

// Classifier scores batches of feature vectors
type Classifier interface {
	Predict(vectors [][]float64) ([]float64, error)
}

// Result is the outcome of a prediction run
type Result struct {
	ReadingID  string
	Potable    bool
	Confidence float64
}

// PredictionService runs the read-compute-write prediction workflow against
// the most recently stored reading
type PredictionService struct {
	readings  ReadingSource
	model     Classifier
	publisher mq.EventPublisher
	logger    *zap.Logger
}

// NewPredictionService creates a new prediction service
func NewPredictionService(
	readings ReadingSource,
	model Classifier,
	publisher mq.EventPublisher,
	logger *zap.Logger,
) *PredictionService {
	return &PredictionService{
		readings:  readings,
		model:     model,
		publisher: publisher,
		logger:    logger,
	}
}

// PredictLatest fetches the most recently inserted reading, scores it and
// writes the potability label back onto that exact document.
//
// The write-back is conditional on the reading being unchanged since it was
// read; a concurrent update or delete surfaces as store.ErrConflict. Any
// other write-back failure is logged and swallowed - the prediction is still
// returned, the stored document just keeps no label.
func (s *PredictionService) PredictLatest(ctx context.Context) (*Result, error) {
	reading, err := s.readings.FindLatestReading(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest reading: %w", err)
	}

	scores, err := s.model.Predict([][]float64{reading.FeatureVector()})
	if err != nil {
		return nil, err
	}

	potable, confidence := predictor.Outcome(scores[0])
	readingID := reading.ID.Hex()

	if err := s.readings.SetPotability(ctx, reading, potable); err != nil {
		if errors.Is(err, store.ErrConflict) {
			s.logger.Warn("reading changed during prediction, label not written",
				zap.String("reading_id", readingID))
			return nil, err
		}
		s.logger.Warn("failed to write potability label back to reading",
			zap.Error(err),
			zap.String("reading_id", readingID))
	}

	result := &Result{
		ReadingID:  readingID,
		Potable:    potable,
		Confidence: confidence,
	}

	event := mq.PredictionEvent{
		ReadingID:  result.ReadingID,
		Potable:    result.Potable,
		Confidence: result.Confidence,
	}
	if err := s.publisher.PublishPredictionCompleted(ctx, event); err != nil {
		s.logger.Error("failed to publish prediction event",
			zap.Error(err),
			zap.String("reading_id", result.ReadingID))
	}

	s.logger.Info("prediction completed",
		zap.String("reading_id", result.ReadingID),
		zap.Bool("potable", result.Potable),
		zap.Float64("confidence", result.Confidence))

	return result, nil
}
