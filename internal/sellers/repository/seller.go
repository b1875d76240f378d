package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sellererrors "bookable/internal/sellers/errors"
	"bookable/pkg/config"
	"bookable/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "Sellers"

type SellerRepository interface {
	Upsert(ctx context.Context, seller *model.Seller) (*model.Seller, error)
	FindByOwner(ctx context.Context, ownerEmail string) (*model.Seller, error)
	FindByID(ctx context.Context, id string) (*model.Seller, error)
	FindIDsByOwner(ctx context.Context, ownerEmail string) ([]string, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Seller, error)
	Count(ctx context.Context) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoSellerRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSellerRepository(cfg *config.Config) SellerRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSellerRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoSellerRepository) EnsureIndexes(ctx context.Context) error {
	// One profile per owning identity.
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "owner_email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create seller indexes: %w", err)
	}
	return nil
}

// Upsert creates or replaces the profile for the owning identity and
// returns the stored document.
func (r *mongoSellerRepository) Upsert(ctx context.Context, seller *model.Seller) (*model.Seller, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	filter := bson.M{"owner_email": seller.OwnerEmail}
	update := bson.M{
		"$set": bson.M{
			"business_name": seller.BusinessName,
			"description":   seller.Description,
			"time_zone":     seller.TimeZone,
			"updated_at":    now,
		},
		"$setOnInsert": bson.M{
			"owner_email": seller.OwnerEmail,
			"created_at":  now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var stored model.Seller
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored); err != nil {
		return nil, fmt.Errorf("failed to upsert seller: %w", err)
	}
	return &stored, nil
}

func (r *mongoSellerRepository) FindByOwner(ctx context.Context, ownerEmail string) (*model.Seller, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var seller model.Seller
	err := r.collection.FindOne(ctx, bson.M{"owner_email": ownerEmail}).Decode(&seller)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, sellererrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find seller: %w", err)
	}
	return &seller, nil
}

func (r *mongoSellerRepository) FindByID(ctx context.Context, id string) (*model.Seller, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", sellererrors.ErrInvalidID, id)
	}

	var seller model.Seller
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&seller)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, sellererrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find seller: %w", err)
	}
	return &seller, nil
}

func (r *mongoSellerRepository) FindIDsByOwner(ctx context.Context, ownerEmail string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"owner_email": ownerEmail}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find sellers by owner: %w", err)
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode seller id: %w", err)
		}
		ids = append(ids, doc.ID.Hex())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate seller ids: %w", err)
	}
	return ids, nil
}

func (r *mongoSellerRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Seller, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "business_name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find sellers: %w", err)
	}
	defer cursor.Close(ctx)

	var sellers []*model.Seller
	if err = cursor.All(ctx, &sellers); err != nil {
		return nil, fmt.Errorf("failed to decode sellers: %w", err)
	}
	return sellers, nil
}

func (r *mongoSellerRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count sellers: %w", err)
	}
	return count, nil
}
