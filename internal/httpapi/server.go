package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/thedavidemmanuel/water-quality-api/internal/logging"
	"github.com/thedavidemmanuel/water-quality-api/internal/mq"
	"github.com/thedavidemmanuel/water-quality-api/internal/predictor"
	"github.com/thedavidemmanuel/water-quality-api/internal/service"
	"github.com/thedavidemmanuel/water-quality-api/internal/store"
	"github.com/thedavidemmanuel/water-quality-api/internal/validator"
	"go.uber.org/zap"
)

// Store is the record store surface the HTTP layer depends on
type Store interface {
	InsertAdmin(ctx context.Context, admin store.Admin) (string, error)
	FindAdminByID(ctx context.Context, id string) (*store.Admin, error)
	FindAllAdmins(ctx context.Context) ([]store.Admin, error)
	InsertLocation(ctx context.Context, location store.Location) (string, error)
	FindAllLocations(ctx context.Context) ([]store.Location, error)
	InsertReading(ctx context.Context, reading store.Reading) (string, error)
	FindReadingByID(ctx context.Context, id string) (*store.Reading, error)
	FindAllReadings(ctx context.Context) ([]store.Reading, error)
	UpdateReadingByID(ctx context.Context, id string, reading store.Reading) (int64, int64, error)
	DeleteReadingByID(ctx context.Context, id string) (int64, error)
}

// PredictionRunner runs the prediction workflow against the latest reading
type PredictionRunner interface {
	PredictLatest(ctx context.Context) (*service.Result, error)
}

// ModelStatus reports whether the classifier is loaded, for the health probe
type ModelStatus interface {
	Available() bool
}

// API is the HTTP resource layer over the store and the prediction workflow
type API struct {
	store      Store
	validator  *validator.Validator
	prediction PredictionRunner
	model      ModelStatus
	events     mq.EventPublisher
	logger     *zap.Logger
}

// New creates a new API
func New(
	st Store,
	v *validator.Validator,
	prediction PredictionRunner,
	model ModelStatus,
	events mq.EventPublisher,
	logger *zap.Logger,
) *API {
	return &API{
		store:      st,
		validator:  v,
		prediction: prediction,
		model:      model,
		events:     events,
		logger:     logger,
	}
}

// Routes builds the request router
func (a *API) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /admin", a.handle(a.createAdmin))
	mux.HandleFunc("GET /admin", a.handle(a.listAdmins))
	mux.HandleFunc("GET /admin/{id}", a.handle(a.getAdmin))

	mux.HandleFunc("POST /location", a.handle(a.createLocation))
	mux.HandleFunc("GET /location", a.handle(a.listLocations))

	mux.HandleFunc("POST /water_quality", a.handle(a.createReading))
	mux.HandleFunc("GET /water_quality", a.handle(a.listReadings))
	mux.HandleFunc("GET /water_quality/{id}", a.handle(a.getReading))
	mux.HandleFunc("PUT /water_quality/{id}", a.handle(a.updateReading))
	mux.HandleFunc("DELETE /water_quality/{id}", a.handle(a.deleteReading))

	mux.HandleFunc("GET /predict", a.handle(a.predict))
	mux.HandleFunc("GET /health", a.handle(a.health))

	return a.withRequestID(mux)
}

type loggerKey struct{}

// withRequestID tags every request with a generated id and a request-scoped logger
func (a *API) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		reqLogger := logging.WithRequestID(a.logger, requestID)

		w.Header().Set("X-Request-Id", requestID)
		ctx := context.WithValue(r.Context(), loggerKey{}, reqLogger)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *API) requestLogger(r *http.Request) *zap.Logger {
	if logger, ok := r.Context().Value(loggerKey{}).(*zap.Logger); ok {
		return logger
	}
	return a.logger
}

// handle funnels every handler through a single error translation boundary so
// no failure ever reaches the transport layer as a panic or a stack trace
func (a *API) handle(h func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := a.requestLogger(r)

		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("handler panicked",
					zap.Any("panic", rec),
					zap.String("path", r.URL.Path))
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
			}
		}()

		if err := h(w, r); err != nil {
			a.writeError(w, logger, err)
		}
	}
}

// notFoundError carries the per-resource not-found message
type notFoundError struct {
	message string
}

func (e *notFoundError) Error() string {
	return e.message
}

// badRequestError rejects requests broken before validation could even run
type badRequestError struct {
	message string
}

func (e *badRequestError) Error() string {
	return e.message
}

func (a *API) writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var validationErr *validator.ValidationError
	var notFound *notFoundError
	var badRequest *badRequestError

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":    "Validation error",
			"messages": validationErr.Fields,
		})

	case errors.As(err, &badRequest):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": badRequest.message})

	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"message": notFound.message})

	case errors.Is(err, service.ErrNoData):
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "No water quality data available"})

	case errors.Is(err, store.ErrConflict):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "Reading changed during prediction, try again"})

	case errors.Is(err, predictor.ErrModelUnavailable):
		logger.Error("prediction requested but model is unavailable")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "ML model not available"})

	default:
		logger.Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// decodeBody decodes a JSON request body into a field map for validation
func decodeBody(r *http.Request) (map[string]any, error) {
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, &badRequestError{message: "Invalid JSON body"}
	}
	return raw, nil
}
