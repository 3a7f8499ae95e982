package validator_test

import (
	"testing"

	"github.com/thedavidemmanuel/water-quality-api/internal/validator"
)

func validReadingPayload() map[string]any {
	return map[string]any{
		"location_id":     "66f1a2b3c4d5e6f7a8b9c0d1",
		"ph":              7.5,
		"hardness":        150.0,
		"solids":          500.0,
		"chloramines":     5.0,
		"sulfate":         250.0,
		"conductivity":    500.0,
		"organic_carbon":  10.0,
		"trihalomethanes": 50.0,
		"turbidity":       5.0,
	}
}

func TestValidateAdmin_Valid(t *testing.T) {
	v := validator.NewValidator()

	input, err := v.ValidateAdmin(map[string]any{
		"name":  "Test Admin",
		"email": "admin@test.com",
	})
	if err != nil {
		t.Fatalf("Expected valid payload, got error: %v", err)
	}

	if input.Name != "Test Admin" {
		t.Errorf("Expected name 'Test Admin', got '%s'", input.Name)
	}
	if input.Email != "admin@test.com" {
		t.Errorf("Expected email 'admin@test.com', got '%s'", input.Email)
	}
}

func TestValidateAdmin_MissingEmail(t *testing.T) {
	v := validator.NewValidator()

	_, err := v.ValidateAdmin(map[string]any{"name": "Test Admin"})

	fields := fieldErrors(t, err)
	if fields["email"] != "missing required field" {
		t.Errorf("Expected 'missing required field' for email, got '%s'", fields["email"])
	}
}

func TestValidateAdmin_MalformedEmail(t *testing.T) {
	v := validator.NewValidator()

	_, err := v.ValidateAdmin(map[string]any{
		"name":  "Test Admin",
		"email": "not-an-email",
	})

	fields := fieldErrors(t, err)
	if fields["email"] != "not a valid email address" {
		t.Errorf("Expected email shape error, got '%s'", fields["email"])
	}
}

func TestValidateAdmin_EmptyName(t *testing.T) {
	v := validator.NewValidator()

	_, err := v.ValidateAdmin(map[string]any{
		"name":  "   ",
		"email": "admin@test.com",
	})

	fields := fieldErrors(t, err)
	if fields["name"] != "must not be empty" {
		t.Errorf("Expected empty name error, got '%s'", fields["name"])
	}
}

func TestValidateAdmin_WrongType(t *testing.T) {
	v := validator.NewValidator()

	_, err := v.ValidateAdmin(map[string]any{
		"name":  42.0,
		"email": "admin@test.com",
	})

	fields := fieldErrors(t, err)
	if fields["name"] != "must be a string" {
		t.Errorf("Expected string type error, got '%s'", fields["name"])
	}
}

func TestValidateLocation_Valid(t *testing.T) {
	v := validator.NewValidator()

	input, err := v.ValidateLocation(map[string]any{
		"name":      "River A",
		"latitude":  40.7128,
		"longitude": -74.0060,
	})
	if err != nil {
		t.Fatalf("Expected valid payload, got error: %v", err)
	}

	if input.Latitude != 40.7128 {
		t.Errorf("Expected latitude 40.7128, got %f", input.Latitude)
	}
	if input.Longitude != -74.0060 {
		t.Errorf("Expected longitude -74.0060, got %f", input.Longitude)
	}
}

func TestValidateLocation_NonNumericLatitude(t *testing.T) {
	v := validator.NewValidator()

	_, err := v.ValidateLocation(map[string]any{
		"name":      "River A",
		"latitude":  "40.7128",
		"longitude": -74.0060,
	})

	fields := fieldErrors(t, err)
	if fields["latitude"] != "must be a number" {
		t.Errorf("Expected number type error, got '%s'", fields["latitude"])
	}
}

func TestValidateReading_Valid(t *testing.T) {
	v := validator.NewValidator()

	input, err := v.ValidateReading(validReadingPayload())
	if err != nil {
		t.Fatalf("Expected valid payload, got error: %v", err)
	}

	if input.PH != 7.5 {
		t.Errorf("Expected ph 7.5, got %f", input.PH)
	}
	if input.LocationID != "66f1a2b3c4d5e6f7a8b9c0d1" {
		t.Errorf("Unexpected location_id '%s'", input.LocationID)
	}
}

func TestValidateReading_EachChemistryFieldRequired(t *testing.T) {
	v := validator.NewValidator()

	chemistry := []string{
		"ph", "hardness", "solids", "chloramines", "sulfate",
		"conductivity", "organic_carbon", "trihalomethanes", "turbidity",
	}

	for _, missing := range chemistry {
		payload := validReadingPayload()
		delete(payload, missing)

		_, err := v.ValidateReading(payload)

		fields := fieldErrors(t, err)
		if fields[missing] != "missing required field" {
			t.Errorf("Expected missing field error for '%s', got '%s'", missing, fields[missing])
		}
	}
}

func TestValidateReading_ImplausibleValuesAccepted(t *testing.T) {
	v := validator.NewValidator()

	// Shape checks only: a pH of -5 passes
	payload := validReadingPayload()
	payload["ph"] = -5.0

	input, err := v.ValidateReading(payload)
	if err != nil {
		t.Fatalf("Expected implausible but well-shaped value to pass, got: %v", err)
	}
	if input.PH != -5.0 {
		t.Errorf("Expected ph -5.0, got %f", input.PH)
	}
}

func TestValidateReading_UnknownFieldRejected(t *testing.T) {
	v := validator.NewValidator()

	payload := validReadingPayload()
	payload["color"] = "blue"

	_, err := v.ValidateReading(payload)

	fields := fieldErrors(t, err)
	if fields["color"] != "unknown field" {
		t.Errorf("Expected unknown field error, got '%s'", fields["color"])
	}
}

func TestValidateReading_CollectsAllErrors(t *testing.T) {
	v := validator.NewValidator()

	payload := validReadingPayload()
	delete(payload, "ph")
	delete(payload, "turbidity")
	payload["sulfate"] = "high"

	_, err := v.ValidateReading(payload)

	fields := fieldErrors(t, err)
	if len(fields) != 3 {
		t.Errorf("Expected 3 field errors, got %d: %v", len(fields), fields)
	}
}

func fieldErrors(t *testing.T, err error) validator.FieldErrors {
	t.Helper()

	if err == nil {
		t.Fatal("Expected a validation error, got nil")
	}

	validationErr, ok := err.(*validator.ValidationError)
	if !ok {
		t.Fatalf("Expected *ValidationError, got %T", err)
	}
	return validationErr.Fields
}
