// Command seed fills the database with sample admins, locations and water
// quality readings for local development.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/joho/godotenv"
	"github.com/thedavidemmanuel/water-quality-api/internal/config"
	"github.com/thedavidemmanuel/water-quality-api/internal/logging"
	"github.com/thedavidemmanuel/water-quality-api/internal/store"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const readingsPerLocation = 10

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("failed to load config:", err)
		return
	}

	logger, err := logging.NewLogger(cfg.ServiceName + "-seed")
	if err != nil {
		fmt.Println("failed to create logger:", err)
		return
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		logger.Fatal("failed to connect to mongodb", zap.Error(err))
	}
	defer client.Disconnect(context.Background())

	if err := client.Ping(ctx, nil); err != nil {
		logger.Fatal("mongodb ping failed", zap.Error(err))
	}

	st := store.New(client.Database(cfg.Mongo.Database))

	if err := seed(ctx, st, logger); err != nil {
		logger.Fatal("seeding failed", zap.Error(err))
	}

	logger.Info("data insertion complete")
}

func seed(ctx context.Context, st *store.Store, logger *zap.Logger) error {
	admins := []store.Admin{
		{Name: "John Doe", Email: "john@example.com"},
		{Name: "Jane Smith", Email: "jane@example.com"},
	}
	for _, admin := range admins {
		if _, err := st.InsertAdmin(ctx, admin); err != nil {
			return err
		}
	}
	logger.Info("added admin users", zap.Int("count", len(admins)))

	locations := []store.Location{
		{Name: "River A", Latitude: 40.7128, Longitude: -74.0060},
		{Name: "Lake B", Latitude: 34.0522, Longitude: -118.2437},
		{Name: "Ocean C", Latitude: 25.7617, Longitude: -80.1918},
	}

	readings := 0
	for _, location := range locations {
		locationID, err := st.InsertLocation(ctx, location)
		if err != nil {
			return err
		}

		for i := 0; i < readingsPerLocation; i++ {
			if _, err := st.InsertReading(ctx, randomReading(locationID)); err != nil {
				return err
			}
			readings++
		}
	}

	logger.Info("added locations", zap.Int("count", len(locations)))
	logger.Info("added water quality readings", zap.Int("count", readings))
	return nil
}

func randomReading(locationID string) store.Reading {
	return store.Reading{
		LocationID:      locationID,
		PH:              randomInRange(6.5, 8.5),
		Hardness:        randomInRange(50, 300),
		Solids:          randomInRange(300, 1000),
		Chloramines:     randomInRange(0, 10),
		Sulfate:         randomInRange(0, 500),
		Conductivity:    randomInRange(200, 800),
		OrganicCarbon:   randomInRange(1, 20),
		Trihalomethanes: randomInRange(0, 100),
		Turbidity:       randomInRange(1, 10),
		Timestamp:       time.Now().UTC().AddDate(0, 0, -rand.Intn(31)),
	}
}

func randomInRange(min, max float64) float64 {
	value := min + rand.Float64()*(max-min)
	return float64(int(value*100)) / 100
}
