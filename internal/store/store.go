package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when an identifier does not resolve to a document.
// Malformed identifiers resolve to this error as well, never to a crash.
var ErrNotFound = errors.New("document not found")

// ErrConflict is returned when a conditional write finds the document changed
// or removed since it was read.
var ErrConflict = errors.New("document changed since read")

// Store handles document database operations for the three collections
type Store struct {
	admins    *mongo.Collection
	locations *mongo.Collection
	readings  *mongo.Collection
}

// New creates a new store over the given database
func New(db *mongo.Database) *Store {
	return &Store{
		admins:    db.Collection("admin"),
		locations: db.Collection("location"),
		readings:  db.Collection("waterquality"),
	}
}

// parseID converts a hex identifier into an ObjectID. Anything that is not a
// valid ObjectID cannot address a document, so it maps to ErrNotFound.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}

// InsertAdmin inserts an administrator and returns the generated id
func (s *Store) InsertAdmin(ctx context.Context, admin Admin) (string, error) {
	res, err := s.admins.InsertOne(ctx, admin)
	if err != nil {
		return "", fmt.Errorf("failed to insert admin: %w", err)
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

// FindAdminByID fetches a single administrator by identifier
func (s *Store) FindAdminByID(ctx context.Context, id string) (*Admin, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var admin Admin
	err = s.admins.FindOne(ctx, bson.M{"_id": oid}).Decode(&admin)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find admin: %w", err)
	}
	return &admin, nil
}

// FindAllAdmins lists all administrators
func (s *Store) FindAllAdmins(ctx context.Context) ([]Admin, error) {
	cursor, err := s.admins.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query admins: %w", err)
	}

	admins := []Admin{}
	if err := cursor.All(ctx, &admins); err != nil {
		return nil, fmt.Errorf("failed to decode admins: %w", err)
	}
	return admins, nil
}

// InsertLocation inserts a location and returns the generated id
func (s *Store) InsertLocation(ctx context.Context, location Location) (string, error) {
	res, err := s.locations.InsertOne(ctx, location)
	if err != nil {
		return "", fmt.Errorf("failed to insert location: %w", err)
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

// FindAllLocations lists all locations
func (s *Store) FindAllLocations(ctx context.Context) ([]Location, error) {
	cursor, err := s.locations.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}

	locations := []Location{}
	if err := cursor.All(ctx, &locations); err != nil {
		return nil, fmt.Errorf("failed to decode locations: %w", err)
	}
	return locations, nil
}

// InsertReading inserts a water quality reading and returns the generated id
func (s *Store) InsertReading(ctx context.Context, reading Reading) (string, error) {
	res, err := s.readings.InsertOne(ctx, reading)
	if err != nil {
		return "", fmt.Errorf("failed to insert reading: %w", err)
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

// FindReadingByID fetches a single reading by identifier
func (s *Store) FindReadingByID(ctx context.Context, id string) (*Reading, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var reading Reading
	err = s.readings.FindOne(ctx, bson.M{"_id": oid}).Decode(&reading)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find reading: %w", err)
	}
	return &reading, nil
}

// FindAllReadings lists all water quality readings
func (s *Store) FindAllReadings(ctx context.Context) ([]Reading, error) {
	cursor, err := s.readings.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query readings: %w", err)
	}

	readings := []Reading{}
	if err := cursor.All(ctx, &readings); err != nil {
		return nil, fmt.Errorf("failed to decode readings: %w", err)
	}
	return readings, nil
}

// FindLatestReading fetches the most recently inserted reading, using the
// identifier ordering that ObjectIDs carry
func (s *Store) FindLatestReading(ctx context.Context) (*Reading, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}})

	var reading Reading
	err := s.readings.FindOne(ctx, bson.M{}, opts).Decode(&reading)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find latest reading: %w", err)
	}
	return &reading, nil
}

// UpdateReadingByID replaces the location reference and all chemistry fields
// of a reading and clears any previously predicted potability label, since the
// label described values that no longer exist. The stored timestamp is never
// touched. Returns how many documents matched and how many were modified.
func (s *Store) UpdateReadingByID(ctx context.Context, id string, reading Reading) (int64, int64, error) {
	oid, err := parseID(id)
	if err != nil {
		return 0, 0, err
	}

	update := bson.M{
		"$set": bson.M{
			"location_id":     reading.LocationID,
			"ph":              reading.PH,
			"hardness":        reading.Hardness,
			"solids":          reading.Solids,
			"chloramines":     reading.Chloramines,
			"sulfate":         reading.Sulfate,
			"conductivity":    reading.Conductivity,
			"organic_carbon":  reading.OrganicCarbon,
			"trihalomethanes": reading.Trihalomethanes,
			"turbidity":       reading.Turbidity,
		},
		"$unset": bson.M{"potability": ""},
	}

	res, err := s.readings.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to update reading: %w", err)
	}
	return res.MatchedCount, res.ModifiedCount, nil
}

// DeleteReadingByID removes a reading and returns the deleted count
func (s *Store) DeleteReadingByID(ctx context.Context, id string) (int64, error) {
	oid, err := parseID(id)
	if err != nil {
		return 0, err
	}

	res, err := s.readings.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return 0, fmt.Errorf("failed to delete reading: %w", err)
	}
	return res.DeletedCount, nil
}

// SetPotability writes the predicted label onto the exact reading that was
// read, conditional on every chemistry field still holding the value the
// prediction was computed from. A concurrent update or delete makes the
// filter miss and the write reports ErrConflict instead of overwriting.
func (s *Store) SetPotability(ctx context.Context, reading *Reading, potable bool) error {
	filter := bson.M{
		"_id":             reading.ID,
		"location_id":     reading.LocationID,
		"ph":              reading.PH,
		"hardness":        reading.Hardness,
		"solids":          reading.Solids,
		"chloramines":     reading.Chloramines,
		"sulfate":         reading.Sulfate,
		"conductivity":    reading.Conductivity,
		"organic_carbon":  reading.OrganicCarbon,
		"trihalomethanes": reading.Trihalomethanes,
		"turbidity":       reading.Turbidity,
	}

	res, err := s.readings.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"potability": potable}})
	if err != nil {
		return fmt.Errorf("failed to write potability: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrConflict
	}
	return nil
}
