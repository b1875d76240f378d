package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	availerrors "bookable/internal/availability/errors"
	"bookable/pkg/config"
	"bookable/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "Availability"

type AvailabilityRepository interface {
	Get(ctx context.Context, sellerID, date string) (*model.Availability, error)
	Put(ctx context.Context, availability *model.Availability) (*model.Availability, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoAvailabilityRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoAvailabilityRepository(cfg *config.Config) AvailabilityRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAvailabilityRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoAvailabilityRepository) EnsureIndexes(ctx context.Context) error {
	// One slot list per seller per calendar day.
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "seller_id", Value: 1},
			{Key: "date", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create availability indexes: %w", err)
	}
	return nil
}

func (r *mongoAvailabilityRepository) Get(ctx context.Context, sellerID, date string) (*model.Availability, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var availability model.Availability
	err := r.collection.FindOne(ctx, bson.M{"seller_id": sellerID, "date": date}).Decode(&availability)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, availerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find availability: %w", err)
	}
	return &availability, nil
}

// Put replaces the seller's slot list for the day wholesale. The last write
// wins; there is no per-slot merge.
func (r *mongoAvailabilityRepository) Put(ctx context.Context, availability *model.Availability) (*model.Availability, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	filter := bson.M{"seller_id": availability.SellerID, "date": availability.Date}
	update := bson.M{
		"$set": bson.M{
			"slots":      availability.Slots,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"seller_id": availability.SellerID,
			"date":      availability.Date,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var stored model.Availability
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored); err != nil {
		return nil, fmt.Errorf("failed to put availability: %w", err)
	}
	return &stored, nil
}
