package validator

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// emailPattern accepts anything shaped like local@domain.tld
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// FieldErrors maps a field name to the reason it was rejected
type FieldErrors map[string]string

// ValidationError reports every offending field of a request at once
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

// AdminInput is a validated administrator creation payload
type AdminInput struct {
	Name  string
	Email string
}

// LocationInput is a validated location creation payload
type LocationInput struct {
	Name      string
	Latitude  float64
	Longitude float64
}

// ReadingInput is a validated water quality payload, used for both creation
// and full replacement
type ReadingInput struct {
	LocationID      string
	PH              float64
	Hardness        float64
	Solids          float64
	Chloramines     float64
	Sulfate         float64
	Conductivity    float64
	OrganicCarbon   float64
	Trihalomethanes float64
	Turbidity       float64
}

type fieldKind int

const (
	kindString fieldKind = iota
	kindEmail
	kindFloat
)

type field struct {
	name string
	kind fieldKind
}

var adminSchema = []field{
	{"name", kindString},
	{"email", kindEmail},
}

var locationSchema = []field{
	{"name", kindString},
	{"latitude", kindFloat},
	{"longitude", kindFloat},
}

var readingSchema = []field{
	{"location_id", kindString},
	{"ph", kindFloat},
	{"hardness", kindFloat},
	{"solids", kindFloat},
	{"chloramines", kindFloat},
	{"sulfate", kindFloat},
	{"conductivity", kindFloat},
	{"organic_carbon", kindFloat},
	{"trihalomethanes", kindFloat},
	{"turbidity", kindFloat},
}

// Validator checks request payloads against per-entity schemas. Validation is
// all-or-nothing: a payload either passes in full or fails with every
// offending field reported. Every schema field is required, unknown fields
// are rejected, and values are checked for shape only - a pH of -5 passes.
type Validator struct{}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAdmin validates an administrator creation payload
func (v *Validator) ValidateAdmin(raw map[string]any) (AdminInput, error) {
	values, errs := validate(raw, adminSchema)
	if len(errs) > 0 {
		return AdminInput{}, &ValidationError{Fields: errs}
	}

	return AdminInput{
		Name:  values["name"].(string),
		Email: values["email"].(string),
	}, nil
}

// ValidateLocation validates a location creation payload
func (v *Validator) ValidateLocation(raw map[string]any) (LocationInput, error) {
	values, errs := validate(raw, locationSchema)
	if len(errs) > 0 {
		return LocationInput{}, &ValidationError{Fields: errs}
	}

	return LocationInput{
		Name:      values["name"].(string),
		Latitude:  values["latitude"].(float64),
		Longitude: values["longitude"].(float64),
	}, nil
}

// ValidateReading validates a water quality payload
func (v *Validator) ValidateReading(raw map[string]any) (ReadingInput, error) {
	values, errs := validate(raw, readingSchema)
	if len(errs) > 0 {
		return ReadingInput{}, &ValidationError{Fields: errs}
	}

	return ReadingInput{
		LocationID:      values["location_id"].(string),
		PH:              values["ph"].(float64),
		Hardness:        values["hardness"].(float64),
		Solids:          values["solids"].(float64),
		Chloramines:     values["chloramines"].(float64),
		Sulfate:         values["sulfate"].(float64),
		Conductivity:    values["conductivity"].(float64),
		OrganicCarbon:   values["organic_carbon"].(float64),
		Trihalomethanes: values["trihalomethanes"].(float64),
		Turbidity:       values["turbidity"].(float64),
	}, nil
}

func validate(raw map[string]any, schema []field) (map[string]any, FieldErrors) {
	errs := FieldErrors{}
	values := make(map[string]any, len(schema))

	known := make(map[string]bool, len(schema))
	for _, f := range schema {
		known[f.name] = true
	}
	for name := range raw {
		if !known[name] {
			errs[name] = "unknown field"
		}
	}

	for _, f := range schema {
		value, ok := raw[f.name]
		if !ok {
			errs[f.name] = "missing required field"
			continue
		}

		switch f.kind {
		case kindString:
			s, ok := value.(string)
			if !ok {
				errs[f.name] = "must be a string"
				continue
			}
			if strings.TrimSpace(s) == "" {
				errs[f.name] = "must not be empty"
				continue
			}
			values[f.name] = s

		case kindEmail:
			s, ok := value.(string)
			if !ok {
				errs[f.name] = "must be a string"
				continue
			}
			if !emailPattern.MatchString(s) {
				errs[f.name] = "not a valid email address"
				continue
			}
			values[f.name] = s

		case kindFloat:
			// encoding/json decodes every JSON number into float64
			n, ok := value.(float64)
			if !ok {
				errs[f.name] = "must be a number"
				continue
			}
			values[f.name] = n
		}
	}

	return values, errs
}
