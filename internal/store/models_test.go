package store_test

import (
	"testing"

	"github.com/thedavidemmanuel/water-quality-api/internal/store"
)

func TestFeatureVector_FixedOrder(t *testing.T) {
	reading := store.Reading{
		PH:              7.5,
		Hardness:        150,
		Solids:          500,
		Chloramines:     5,
		Sulfate:         250,
		Conductivity:    501,
		OrganicCarbon:   10,
		Trihalomethanes: 50,
		Turbidity:       5.2,
	}

	expected := []float64{7.5, 150, 500, 5, 250, 501, 10, 50, 5.2}

	vector := reading.FeatureVector()
	if len(vector) != len(expected) {
		t.Fatalf("Expected %d features, got %d", len(expected), len(vector))
	}
	for i, want := range expected {
		if vector[i] != want {
			t.Errorf("Feature %d: expected %f, got %f", i, want, vector[i])
		}
	}
}
