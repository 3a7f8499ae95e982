package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/thedavidemmanuel/water-quality-api/internal/mq"
	"github.com/thedavidemmanuel/water-quality-api/internal/store"
	"github.com/thedavidemmanuel/water-quality-api/internal/validator"
	"go.uber.org/zap"
)

func (a *API) createAdmin(w http.ResponseWriter, r *http.Request) error {
	raw, err := decodeBody(r)
	if err != nil {
		return err
	}

	input, err := a.validator.ValidateAdmin(raw)
	if err != nil {
		return err
	}

	id, err := a.store.InsertAdmin(r.Context(), store.Admin{
		Name:  input.Name,
		Email: input.Email,
	})
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Admin added", "id": id})
	return nil
}

func (a *API) listAdmins(w http.ResponseWriter, r *http.Request) error {
	admins, err := a.store.FindAllAdmins(r.Context())
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, admins)
	return nil
}

func (a *API) getAdmin(w http.ResponseWriter, r *http.Request) error {
	admin, err := a.store.FindAdminByID(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		return &notFoundError{message: "Admin not found"}
	}
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, admin)
	return nil
}

func (a *API) createLocation(w http.ResponseWriter, r *http.Request) error {
	raw, err := decodeBody(r)
	if err != nil {
		return err
	}

	input, err := a.validator.ValidateLocation(raw)
	if err != nil {
		return err
	}

	id, err := a.store.InsertLocation(r.Context(), store.Location{
		Name:      input.Name,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
	})
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Location added", "id": id})
	return nil
}

func (a *API) listLocations(w http.ResponseWriter, r *http.Request) error {
	locations, err := a.store.FindAllLocations(r.Context())
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, locations)
	return nil
}

func (a *API) createReading(w http.ResponseWriter, r *http.Request) error {
	raw, err := decodeBody(r)
	if err != nil {
		return err
	}

	input, err := a.validator.ValidateReading(raw)
	if err != nil {
		return err
	}

	// Timestamp is stamped server-side exactly once, never client-supplied
	reading := readingFromInput(input)
	reading.Timestamp = time.Now().UTC()

	id, err := a.store.InsertReading(r.Context(), reading)
	if err != nil {
		return err
	}

	event := mq.ReadingEvent{
		ReadingID:  id,
		LocationID: reading.LocationID,
		Timestamp:  reading.Timestamp.Format(time.RFC3339),
	}
	if err := a.events.PublishReadingCreated(r.Context(), event); err != nil {
		a.requestLogger(r).Error("failed to publish reading event",
			zap.Error(err),
			zap.String("reading_id", id))
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Water quality entry added", "id": id})
	return nil
}

func (a *API) listReadings(w http.ResponseWriter, r *http.Request) error {
	readings, err := a.store.FindAllReadings(r.Context())
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, readings)
	return nil
}

func (a *API) getReading(w http.ResponseWriter, r *http.Request) error {
	reading, err := a.store.FindReadingByID(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		return &notFoundError{message: "Entry not found"}
	}
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, reading)
	return nil
}

func (a *API) updateReading(w http.ResponseWriter, r *http.Request) error {
	raw, err := decodeBody(r)
	if err != nil {
		return err
	}

	input, err := a.validator.ValidateReading(raw)
	if err != nil {
		return err
	}

	id := r.PathValue("id")
	matched, _, err := a.store.UpdateReadingByID(r.Context(), id, readingFromInput(input))
	if errors.Is(err, store.ErrNotFound) || (err == nil && matched == 0) {
		return &notFoundError{message: "Entry not found"}
	}
	if err != nil {
		return err
	}

	updated, err := a.store.FindReadingByID(r.Context(), id)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": "Water quality entry updated", "entry": updated})
	return nil
}

func (a *API) deleteReading(w http.ResponseWriter, r *http.Request) error {
	deleted, err := a.store.DeleteReadingByID(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) || (err == nil && deleted == 0) {
		return &notFoundError{message: "Entry not found"}
	}
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Water quality entry deleted"})
	return nil
}

func (a *API) predict(w http.ResponseWriter, r *http.Request) error {
	result, err := a.prediction.PredictLatest(r.Context())
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":          "Prediction made",
		"water_quality_id": result.ReadingID,
		"prediction":       result.Potable,
		"confidence":       result.Confidence,
	})
	return nil
}

func (a *API) health(w http.ResponseWriter, r *http.Request) error {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"model_available": a.model.Available(),
	})
	return nil
}

func readingFromInput(input validator.ReadingInput) store.Reading {
	return store.Reading{
		LocationID:      input.LocationID,
		PH:              input.PH,
		Hardness:        input.Hardness,
		Solids:          input.Solids,
		Chloramines:     input.Chloramines,
		Sulfate:         input.Sulfate,
		Conductivity:    input.Conductivity,
		OrganicCarbon:   input.OrganicCarbon,
		Trihalomethanes: input.Trihalomethanes,
		Turbidity:       input.Turbidity,
	}
}
