package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	appterrors "bookable/internal/appointments/errors"
	"bookable/pkg/config"
	dbmongo "bookable/pkg/db/mongo"
	"bookable/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "Appointments"

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *model.Appointment) (*model.Appointment, error)
	FindByID(ctx context.Context, id string) (*model.Appointment, error)
	FindActiveForParty(ctx context.Context, buyerID string, sellerIDs []string, now time.Time) ([]*model.Appointment, error)
	FindOverlapping(ctx context.Context, sellerID string, start, end time.Time) ([]*model.Appointment, error)
	UpdateCalendarInfo(ctx context.Context, id, eventID, meetingLink string) error
	UpdateStatus(ctx context.Context, id, status string) (*model.Appointment, error)
	ExecuteTransaction(ctx context.Context, fn dbmongo.TransactionFunc) error
	EnsureIndexes(ctx context.Context) error
}

type mongoAppointmentRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  dbmongo.TransactionManager
}

func NewMongoAppointmentRepository(cfg *config.Config) AppointmentRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAppointmentRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  dbmongo.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoAppointmentRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			// Overlap checks scan one seller's interval range.
			Keys: bson.D{
				{Key: "seller_id", Value: 1},
				{Key: "start_time", Value: 1},
			},
		},
		{
			// Active listings filter on end_time and sort by start_time.
			Keys: bson.D{
				{Key: "buyer_id", Value: 1},
				{Key: "end_time", Value: 1},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create appointment indexes: %w", err)
	}
	return nil
}

// Create inserts the appointment and returns it with its generated id. The
// caller decides whether ctx is a session context; inside the booking
// transaction it is.
func (r *mongoAppointmentRepository) Create(ctx context.Context, appointment *model.Appointment) (*model.Appointment, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	objectID := primitive.NewObjectID()

	doc := bson.M{
		"_id":         objectID,
		"seller_id":   appointment.SellerID,
		"buyer_id":    appointment.BuyerID,
		"title":       appointment.Title,
		"description": appointment.Description,
		"start_time":  appointment.StartTime,
		"end_time":    appointment.EndTime,
		"status":      appointment.Status,
		"created_at":  now,
		"updated_at":  now,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to insert appointment: %w", err)
	}

	stored := *appointment
	stored.ID = objectID.Hex()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	return &stored, nil
}

func (r *mongoAppointmentRepository) FindByID(ctx context.Context, id string) (*model.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", appterrors.ErrInvalidID, id)
	}

	var appointment model.Appointment
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&appointment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, appterrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find appointment: %w", err)
	}
	return &appointment, nil
}

// FindActiveForParty returns appointments still in progress or ahead of now
// where the caller is the buyer or owns one of the seller profiles. Status
// is deliberately not part of the filter: a cancelled appointment with a
// future end time still shows, carrying its status.
func (r *mongoAppointmentRepository) FindActiveForParty(ctx context.Context, buyerID string, sellerIDs []string, now time.Time) ([]*model.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	party := []bson.M{{"buyer_id": buyerID}}
	if len(sellerIDs) > 0 {
		party = append(party, bson.M{"seller_id": bson.M{"$in": sellerIDs}})
	}
	filter := bson.M{
		"$or":      party,
		"end_time": bson.M{"$gt": now},
	}

	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find active appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var appointments []*model.Appointment
	if err = cursor.All(ctx, &appointments); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}
	return appointments, nil
}

// FindOverlapping returns the seller's non-cancelled appointments whose
// half-open interval intersects [start, end). Run inside the booking
// transaction so the check and the insert commit atomically.
func (r *mongoAppointmentRepository) FindOverlapping(ctx context.Context, sellerID string, start, end time.Time) ([]*model.Appointment, error) {
	filter := bson.M{
		"seller_id":  sellerID,
		"status":     bson.M{"$ne": model.StatusCancelled},
		"start_time": bson.M{"$lt": end},
		"end_time":   bson.M{"$gt": start},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find overlapping appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var appointments []*model.Appointment
	if err = cursor.All(ctx, &appointments); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}
	return appointments, nil
}

func (r *mongoAppointmentRepository) UpdateCalendarInfo(ctx context.Context, id, eventID, meetingLink string) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", appterrors.ErrInvalidID, id)
	}

	update := bson.M{"$set": bson.M{
		"calendar_event_id": eventID,
		"meeting_link":      meetingLink,
		"updated_at":        time.Now().UTC().Truncate(time.Millisecond),
	}}
	result, err := r.collection.UpdateByID(ctx, objectID, update)
	if err != nil {
		return fmt.Errorf("failed to update calendar info: %w", err)
	}
	if result.MatchedCount == 0 {
		return appterrors.ErrNotFound
	}
	return nil
}

func (r *mongoAppointmentRepository) UpdateStatus(ctx context.Context, id, status string) (*model.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", appterrors.ErrInvalidID, id)
	}

	update := bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now().UTC().Truncate(time.Millisecond),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var stored model.Appointment
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, update, opts).Decode(&stored)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, appterrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update appointment status: %w", err)
	}
	return &stored, nil
}

func (r *mongoAppointmentRepository) ExecuteTransaction(ctx context.Context, fn dbmongo.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
