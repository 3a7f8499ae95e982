package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/thedavidemmanuel/water-quality-api/internal/mq"
	"github.com/thedavidemmanuel/water-quality-api/internal/predictor"
	"github.com/thedavidemmanuel/water-quality-api/internal/service"
	"github.com/thedavidemmanuel/water-quality-api/internal/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type stubSource struct {
	reading    *store.Reading
	findErr    error
	setErr     error
	setCalls   int
	gotPotable bool
}

func (s *stubSource) FindLatestReading(ctx context.Context) (*store.Reading, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.reading, nil
}

func (s *stubSource) SetPotability(ctx context.Context, reading *store.Reading, potable bool) error {
	s.setCalls++
	s.gotPotable = potable
	return s.setErr
}

type stubClassifier struct {
	score float64
	err   error
	calls int
}

func (s *stubClassifier) Predict(vectors [][]float64) ([]float64, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	scores := make([]float64, len(vectors))
	for i := range vectors {
		scores[i] = s.score
	}
	return scores, nil
}

type capturingPublisher struct {
	predictions []mq.PredictionEvent
}

func (p *capturingPublisher) PublishReadingCreated(ctx context.Context, event mq.ReadingEvent) error {
	return nil
}

func (p *capturingPublisher) PublishPredictionCompleted(ctx context.Context, event mq.PredictionEvent) error {
	p.predictions = append(p.predictions, event)
	return nil
}

func sampleReading() *store.Reading {
	return &store.Reading{
		ID:              primitive.NewObjectID(),
		LocationID:      primitive.NewObjectID().Hex(),
		PH:              7.5,
		Hardness:        150,
		Solids:          500,
		Chloramines:     5,
		Sulfate:         250,
		Conductivity:    500,
		OrganicCarbon:   10,
		Trihalomethanes: 50,
		Turbidity:       5,
	}
}

func TestPredictLatest_NoData(t *testing.T) {
	source := &stubSource{findErr: store.ErrNotFound}
	model := &stubClassifier{score: 0.8}
	svc := service.NewPredictionService(source, model, &capturingPublisher{}, zap.NewNop())

	_, err := svc.PredictLatest(context.Background())

	if !errors.Is(err, service.ErrNoData) {
		t.Fatalf("Expected ErrNoData, got %v", err)
	}
	if model.calls != 0 {
		t.Errorf("Expected no model invocation on empty collection, got %d", model.calls)
	}
}

func TestPredictLatest_Success(t *testing.T) {
	reading := sampleReading()
	source := &stubSource{reading: reading}
	model := &stubClassifier{score: 0.83}
	publisher := &capturingPublisher{}
	svc := service.NewPredictionService(source, model, publisher, zap.NewNop())

	result, err := svc.PredictLatest(context.Background())
	if err != nil {
		t.Fatalf("PredictLatest failed: %v", err)
	}

	if result.ReadingID != reading.ID.Hex() {
		t.Errorf("Expected reading id %s, got %s", reading.ID.Hex(), result.ReadingID)
	}
	if !result.Potable {
		t.Error("Expected potable for score 0.83")
	}
	if result.Confidence != 0.83 {
		t.Errorf("Expected confidence 0.83, got %f", result.Confidence)
	}
	if result.Potable != (result.Confidence > 0.5) {
		t.Error("Expected label to equal confidence > 0.5")
	}

	if source.setCalls != 1 {
		t.Errorf("Expected one write-back, got %d", source.setCalls)
	}
	if !source.gotPotable {
		t.Error("Expected the written label to be potable")
	}

	if len(publisher.predictions) != 1 {
		t.Fatalf("Expected one prediction event, got %d", len(publisher.predictions))
	}
	if publisher.predictions[0].ReadingID != result.ReadingID {
		t.Errorf("Event carries wrong reading id: %s", publisher.predictions[0].ReadingID)
	}
}

func TestPredictLatest_NotPotable(t *testing.T) {
	source := &stubSource{reading: sampleReading()}
	svc := service.NewPredictionService(source, &stubClassifier{score: 0.2}, &capturingPublisher{}, zap.NewNop())

	result, err := svc.PredictLatest(context.Background())
	if err != nil {
		t.Fatalf("PredictLatest failed: %v", err)
	}

	if result.Potable {
		t.Error("Expected not potable for score 0.2")
	}
	if source.gotPotable {
		t.Error("Expected the written label to be not potable")
	}
}

func TestPredictLatest_WriteBackConflict(t *testing.T) {
	source := &stubSource{reading: sampleReading(), setErr: store.ErrConflict}
	svc := service.NewPredictionService(source, &stubClassifier{score: 0.9}, &capturingPublisher{}, zap.NewNop())

	_, err := svc.PredictLatest(context.Background())

	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("Expected ErrConflict, got %v", err)
	}
}

func TestPredictLatest_WriteBackFailureIsBestEffort(t *testing.T) {
	source := &stubSource{reading: sampleReading(), setErr: errors.New("connection reset")}
	svc := service.NewPredictionService(source, &stubClassifier{score: 0.9}, &capturingPublisher{}, zap.NewNop())

	result, err := svc.PredictLatest(context.Background())
	if err != nil {
		t.Fatalf("Expected prediction to survive a failed write-back, got %v", err)
	}
	if result == nil || !result.Potable {
		t.Error("Expected the prediction result despite the failed write-back")
	}
}

func TestPredictLatest_ModelUnavailable(t *testing.T) {
	source := &stubSource{reading: sampleReading()}
	model := &stubClassifier{err: predictor.ErrModelUnavailable}
	svc := service.NewPredictionService(source, model, &capturingPublisher{}, zap.NewNop())

	_, err := svc.PredictLatest(context.Background())

	if !errors.Is(err, predictor.ErrModelUnavailable) {
		t.Fatalf("Expected ErrModelUnavailable, got %v", err)
	}
	if source.setCalls != 0 {
		t.Errorf("Expected no write-back when the model is unavailable, got %d", source.setCalls)
	}
}
