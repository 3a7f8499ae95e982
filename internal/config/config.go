package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	ServiceName string
	ServicePort int
	Mongo       MongoConfig
	Model       ModelConfig
	RabbitMQ    RabbitMQConfig
	Scheduler   SchedulerConfig
}

// MongoConfig holds document database connection settings
type MongoConfig struct {
	URI      string
	Database string
}

// ModelConfig holds the classifier artifact settings
type ModelConfig struct {
	Path string
}

// RabbitMQConfig holds event publishing settings.
// An empty URL disables publishing entirely.
type RabbitMQConfig struct {
	URL                  string
	EventsExchange       string
	ReadingRoutingKey    string
	PredictionRoutingKey string
}

// SchedulerConfig holds the periodic prediction settings.
// An empty cron spec disables the scheduler.
type SchedulerConfig struct {
	PredictCron string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		ServiceName: getEnv("SERVICE_NAME", "water-quality-api"),
		ServicePort: getEnvAsInt("SERVICE_PORT", 8080),
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", ""),
			Database: getEnv("MONGO_DATABASE", "water_quality_db"),
		},
		Model: ModelConfig{
			Path: getEnv("MODEL_PATH", "water_quality_model.json"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:                  getEnv("RABBITMQ_URL", ""),
			EventsExchange:       getEnv("RABBITMQ_EVENTS_EXCHANGE", "water-quality.events.exchange"),
			ReadingRoutingKey:    getEnv("RABBITMQ_READING_ROUTING_KEY", "water.reading.created"),
			PredictionRoutingKey: getEnv("RABBITMQ_PREDICTION_ROUTING_KEY", "water.prediction.completed"),
		},
		Scheduler: SchedulerConfig{
			PredictCron: getEnv("PREDICT_CRON", ""),
		},
	}

	// Validate required fields
	if cfg.Mongo.URI == "" {
		return nil, fmt.Errorf("MONGO_URI is required but not set in environment variables")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
