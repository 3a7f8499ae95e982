package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/thedavidemmanuel/water-quality-api/internal/config"
	"github.com/thedavidemmanuel/water-quality-api/internal/db"
	"github.com/thedavidemmanuel/water-quality-api/internal/httpapi"
	"github.com/thedavidemmanuel/water-quality-api/internal/mq"
	"github.com/thedavidemmanuel/water-quality-api/internal/predictor"
	"github.com/thedavidemmanuel/water-quality-api/internal/scheduler"
	"github.com/thedavidemmanuel/water-quality-api/internal/service"
	"github.com/thedavidemmanuel/water-quality-api/internal/store"
	"github.com/thedavidemmanuel/water-quality-api/internal/validator"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func startServer(
	lc fx.Lifecycle,
	cfg *config.Config,
	logger *zap.Logger,
	api *httpapi.API,
	prediction *service.PredictionService,
) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServicePort),
		Handler: api.Routes(),
	}

	var sched *scheduler.Scheduler
	if cfg.Scheduler.PredictCron != "" {
		var err error
		sched, err = scheduler.New(prediction, cfg.Scheduler.PredictCron, logger)
		if err != nil {
			return err
		}
	}

	lc.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			logger.Info("starting http server", zap.Int("port", cfg.ServicePort))
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("http server stopped unexpectedly", zap.Error(err))
				}
			}()
			if sched != nil {
				sched.Start()
			}
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			if sched != nil {
				if err := sched.Stop(stopCtx); err != nil {
					logger.Error("failed to stop scheduler", zap.Error(err))
				}
			}
			if err := srv.Shutdown(stopCtx); err != nil {
				logger.Error("failed to shut down http server", zap.Error(err))
				return err
			}
			logger.Info("http server stopped gracefully")
			return nil
		},
	})

	return nil
}

// ProvideDatabase creates the MongoDB database handle
func ProvideDatabase(lc fx.Lifecycle, logger *zap.Logger, cfg *config.Config) (*mongo.Database, error) {
	return db.NewDatabase(lc, logger, cfg.Mongo.URI, cfg.Mongo.Database)
}

// ProvideStore creates the record store over the three collections
func ProvideStore(database *mongo.Database) *store.Store {
	return store.New(database)
}

// ProvideValidator creates the request payload validator
func ProvideValidator() *validator.Validator {
	return validator.NewValidator()
}

// ProvidePredictor loads the potability classifier once at startup
func ProvidePredictor(cfg *config.Config, logger *zap.Logger) *predictor.Predictor {
	return predictor.NewPredictor(cfg.Model.Path, logger)
}

// ProvideEventPublisher wires the RabbitMQ publisher, or a no-op publisher
// when no broker is configured
func ProvideEventPublisher(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (mq.EventPublisher, error) {
	if cfg.RabbitMQ.URL == "" {
		logger.Info("event publishing disabled, RABBITMQ_URL not set")
		return mq.NoopPublisher{}, nil
	}

	conn, err := mq.NewConnection(lc, logger, cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	publisher, err := mq.NewPublisher(
		conn,
		cfg.RabbitMQ.EventsExchange,
		cfg.RabbitMQ.ReadingRoutingKey,
		cfg.RabbitMQ.PredictionRoutingKey,
		logger,
	)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return publisher.Close()
		},
	})

	return publisher, nil
}

// ProvidePredictionService creates the prediction workflow service
func ProvidePredictionService(
	st *store.Store,
	p *predictor.Predictor,
	events mq.EventPublisher,
	logger *zap.Logger,
) *service.PredictionService {
	return service.NewPredictionService(st, p, events, logger)
}

// ProvideAPI creates the HTTP resource layer
func ProvideAPI(
	st *store.Store,
	v *validator.Validator,
	prediction *service.PredictionService,
	p *predictor.Predictor,
	events mq.EventPublisher,
	logger *zap.Logger,
) *httpapi.API {
	return httpapi.New(st, v, prediction, p, events, logger)
}
