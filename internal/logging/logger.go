package logging

import (
	"go.uber.org/zap"
)

// NewLogger creates the structured logger every component shares
func NewLogger(serviceName string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.InitialFields = map[string]any{
		"service": serviceName,
	}

	return config.Build()
}

// WithRequestID returns a logger with a request_id field attached
func WithRequestID(logger *zap.Logger, requestID string) *zap.Logger {
	return logger.With(zap.String("request_id", requestID))
}
