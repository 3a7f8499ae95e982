package store

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Admin represents an administrator document
type Admin struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
}

// Location represents a monitored location document
type Location struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Latitude  float64            `bson:"latitude" json:"latitude"`
	Longitude float64            `bson:"longitude" json:"longitude"`
}

// Reading represents a water quality reading document.
// LocationID is a reference by value only: it is stored and returned as the
// hex string of a location id and never checked against the location collection.
// Potability is set only by the prediction workflow and is absent until then.
type Reading struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	LocationID      string             `bson:"location_id" json:"location_id"`
	PH              float64            `bson:"ph" json:"ph"`
	Hardness        float64            `bson:"hardness" json:"hardness"`
	Solids          float64            `bson:"solids" json:"solids"`
	Chloramines     float64            `bson:"chloramines" json:"chloramines"`
	Sulfate         float64            `bson:"sulfate" json:"sulfate"`
	Conductivity    float64            `bson:"conductivity" json:"conductivity"`
	OrganicCarbon   float64            `bson:"organic_carbon" json:"organic_carbon"`
	Trihalomethanes float64            `bson:"trihalomethanes" json:"trihalomethanes"`
	Turbidity       float64            `bson:"turbidity" json:"turbidity"`
	Timestamp       time.Time          `bson:"timestamp" json:"timestamp"`
	Potability      *bool              `bson:"potability,omitempty" json:"potability,omitempty"`
}

// FeatureVector returns the chemistry fields in the fixed order the
// classifier was trained on.
func (r *Reading) FeatureVector() []float64 {
	return []float64{
		r.PH,
		r.Hardness,
		r.Solids,
		r.Chloramines,
		r.Sulfate,
		r.Conductivity,
		r.OrganicCarbon,
		r.Trihalomethanes,
		r.Turbidity,
	}
}
