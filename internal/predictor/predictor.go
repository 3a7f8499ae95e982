package predictor

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"go.uber.org/zap"
)

// ErrModelUnavailable is returned by every prediction when the model artifact
// failed to load. The predictor never retries the load.
var ErrModelUnavailable = errors.New("classification model not available")

// FeatureCount is the length of the feature vector the classifier consumes
const FeatureCount = 9

// FeatureOrder is the fixed field order of the feature vector
var FeatureOrder = []string{
	"ph",
	"hardness",
	"solids",
	"chloramines",
	"sulfate",
	"conductivity",
	"organic_carbon",
	"trihalomethanes",
	"turbidity",
}

// model is the pre-trained logistic classifier artifact
type model struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
	Trained string    `json:"trained,omitempty"`
}

// Predictor runs inference with a pre-trained potability classifier loaded
// once at construction. Loading is attempted exactly once: on failure the
// predictor stays permanently disabled and every call fails fast.
type Predictor struct {
	model  *model
	logger *zap.Logger
}

// NewPredictor loads the model artifact from the given path
func NewPredictor(path string, logger *zap.Logger) *Predictor {
	p := &Predictor{logger: logger}

	m, err := loadModel(path)
	if err != nil {
		logger.Error("failed to load classification model, predictions disabled",
			zap.Error(err),
			zap.String("path", path))
		return p
	}

	logger.Info("classification model loaded successfully",
		zap.String("path", path),
		zap.Int("features", len(m.Weights)))
	p.model = m
	return p
}

func loadModel(path string) (*model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}

	var m model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal model: %w", err)
	}

	if len(m.Weights) != FeatureCount {
		return nil, fmt.Errorf("model has %d weights, expected %d", len(m.Weights), FeatureCount)
	}

	return &m, nil
}

// Available reports whether the model loaded and predictions can run
func (p *Predictor) Available() bool {
	return p.model != nil
}

// Predict scores a batch of feature vectors. Each score is in (0,1); the
// loaded model is read-only, so concurrent calls are safe.
func (p *Predictor) Predict(vectors [][]float64) ([]float64, error) {
	if p.model == nil {
		return nil, ErrModelUnavailable
	}

	scores := make([]float64, len(vectors))
	for i, vector := range vectors {
		if len(vector) != FeatureCount {
			return nil, fmt.Errorf("feature vector has %d values, expected %d", len(vector), FeatureCount)
		}

		z := p.model.Bias
		for j, x := range vector {
			z += p.model.Weights[j] * x
		}
		scores[i] = sigmoid(z)
	}

	return scores, nil
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

// Outcome interprets a model score as a potability label. The score is the
// confidence verbatim, not recalibrated or clamped.
func Outcome(score float64) (bool, float64) {
	return score > 0.5, score
}
