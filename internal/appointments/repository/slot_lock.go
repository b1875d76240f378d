package repository

import (
	"context"
	"fmt"
	"time"

	appterrors "bookable/internal/appointments/errors"
	"bookable/pkg/config"
	"bookable/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	LockCollectionName = "SlotLocks"

	// LockTTL bounds how long a crashed booking can hold a slot hostage.
	LockTTL = 10 * time.Second
)

// SlotLockRepository implements the advisory lock guarding a booking's
// check-then-insert sequence. The lock _id encodes the slot coordinates, so
// inserting an existing _id fails with a duplicate key error and signals a
// concurrent booking for the same slot.
type SlotLockRepository interface {
	Acquire(ctx context.Context, sellerID string, start time.Time) (string, error)
	Release(ctx context.Context, lockID string)
	EnsureIndexes(ctx context.Context) error
}

type mongoSlotLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSlotLockRepository(cfg *config.Config) SlotLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSlotLockRepository{
		cfg:        cfg,
		collection: db.Collection(LockCollectionName),
	}
}

func (r *mongoSlotLockRepository) EnsureIndexes(ctx context.Context) error {
	// Mongo reaps expired locks; Release is just the fast path.
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return fmt.Errorf("failed to create slot lock indexes: %w", err)
	}
	return nil
}

func LockID(sellerID string, start time.Time) string {
	return fmt.Sprintf("%s:%d", sellerID, start.Unix())
}

func (r *mongoSlotLockRepository) Acquire(ctx context.Context, sellerID string, start time.Time) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC()
	lock := model.SlotLock{
		ID:        LockID(sellerID, start),
		ExpiresAt: now.Add(LockTTL),
		CreatedAt: now,
	}
	if _, err := r.collection.InsertOne(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", appterrors.ErrLockHeld
		}
		return "", fmt.Errorf("failed to acquire slot lock: %w", err)
	}
	return lock.ID, nil
}

// Release is best-effort; the TTL index cleans up anything it misses.
func (r *mongoSlotLockRepository) Release(ctx context.Context, lockID string) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID}); err != nil {
		r.cfg.Log.Warn("Failed to release slot lock", "lock_id", lockID, "error", err)
	}
}
