// Package archive persists sanitized observations to MongoDB. Writes are
// append-only and best-effort: the caller treats any error here as a soft
// failure and keeps going.
package archive

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/doomer-lab/info-center/internal/weather"
)

const collection = "weather_archive"

// MongoArchive stores observation records in the weather_archive collection.
type MongoArchive struct {
	db *mongo.Database
}

func NewMongoArchive(db *mongo.Database) *MongoArchive {
	return &MongoArchive{db: db}
}

// ensureIndexes creates the structural indexes the collection relies on.
// CreateMany is idempotent, so this is safe to repeat on every write.
func (a *MongoArchive) ensureIndexes(ctx context.Context) (*mongo.Collection, error) {
	col := a.db.Collection(collection)

	_, err := col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "city_code", Value: 1}},
			Options: options.Index().SetName("idx_city_code"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_created_at"),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to ensure archive indexes: %w", err)
	}
	return col, nil
}

// Save appends one record. Records are never deduplicated by city code: every
// fetch archives its own observation.
func (a *MongoArchive) Save(ctx context.Context, rec weather.Record) error {
	col, err := a.ensureIndexes(ctx)
	if err != nil {
		return err
	}

	if _, err := col.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("failed to insert archive record: %w", err)
	}
	return nil
}

// Latest returns the most recent record for a city code.
func (a *MongoArchive) Latest(ctx context.Context, cityCode string) (weather.Record, error) {
	col, err := a.ensureIndexes(ctx)
	if err != nil {
		return weather.Record{}, err
	}

	var rec weather.Record
	err = col.FindOne(ctx,
		bson.M{"city_code": cityCode},
		options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	).Decode(&rec)
	if err != nil {
		return weather.Record{}, fmt.Errorf("failed to load latest record: %w", err)
	}
	return rec, nil
}

// Recent returns up to limit records for a city code, newest first.
func (a *MongoArchive) Recent(ctx context.Context, cityCode string, limit int64) ([]weather.Record, error) {
	col, err := a.ensureIndexes(ctx)
	if err != nil {
		return nil, err
	}

	cursor, err := col.Find(ctx,
		bson.M{"city_code": cityCode},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list archive records: %w", err)
	}
	defer cursor.Close(ctx)

	var recs []weather.Record
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, fmt.Errorf("failed to decode archive records: %w", err)
	}
	return recs, nil
}
