package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	appterrors "bookable/internal/appointments/errors"
	"bookable/internal/appointments/repository"
	"bookable/internal/appointments/validator"
	availerrors "bookable/internal/availability/errors"
	availrepo "bookable/internal/availability/repository"
	sellererrors "bookable/internal/sellers/errors"
	sellerrepo "bookable/internal/sellers/repository"
	"bookable/pkg/calendar"
	"bookable/pkg/config"
	apperrors "bookable/pkg/errors"
	"bookable/pkg/kafka"
	"bookable/pkg/model"
	"bookable/pkg/sanitizer"
	"bookable/pkg/slots"

	"go.mongodb.org/mongo-driver/mongo"
)

type AppointmentService interface {
	Book(ctx context.Context, buyerID string, req *model.BookingRequest) (*model.Appointment, error)
	ListActive(ctx context.Context, identity string) ([]*model.Appointment, error)
	GetByID(ctx context.Context, identity, id string) (*model.Appointment, error)
	Cancel(ctx context.Context, identity, id string) (*model.Appointment, error)
}

type appointmentService struct {
	repo         repository.AppointmentRepository
	locks        repository.SlotLockRepository
	availability availrepo.AvailabilityRepository
	sellers      sellerrepo.SellerRepository
	accounts     repository.AccountRepository
	provider     calendar.Provider
	producer     *kafka.Producer
	validator    *validator.AppointmentValidator
	cfg          *config.Config
}

func NewAppointmentService(
	repo repository.AppointmentRepository,
	locks repository.SlotLockRepository,
	availability availrepo.AvailabilityRepository,
	sellers sellerrepo.SellerRepository,
	accounts repository.AccountRepository,
	provider calendar.Provider,
	producer *kafka.Producer,
	validator *validator.AppointmentValidator,
	cfg *config.Config,
) AppointmentService {
	return &appointmentService{
		repo:         repo,
		locks:        locks,
		availability: availability,
		sellers:      sellers,
		accounts:     accounts,
		provider:     provider,
		producer:     producer,
		validator:    validator,
		cfg:          cfg,
	}
}

// Book runs the full booking sequence: validate, resolve the seller, take
// the advisory slot lock, then check-and-insert inside one transaction so no
// two overlapping appointments for a seller can both commit. Calendar
// mirroring and event publishing happen strictly after the commit and never
// fail the booking.
func (s *appointmentService) Book(ctx context.Context, buyerID string, req *model.BookingRequest) (*model.Appointment, error) {
	if buyerID == "" {
		return nil, apperrors.Unauthorized("A verified identity is required")
	}

	req.Title = sanitizer.SanitizeTitle(req.Title)
	req.Description = sanitizer.SanitizeDescription(req.Description)

	if err := s.validator.ValidateBookingRequest(req); err != nil {
		s.cfg.Log.Warn("Booking request validation failed", "buyer_id", buyerID, "error", err)
		return nil, apperrors.Validation("Booking request validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	seller, err := s.resolveSeller(ctx, req.SellerID)
	if err != nil {
		return nil, err
	}
	if seller.OwnerEmail == buyerID {
		return nil, apperrors.Forbidden("Sellers cannot book their own slots")
	}

	lockID, err := s.locks.Acquire(ctx, seller.ID, req.StartTime)
	if err != nil {
		if errors.Is(err, appterrors.ErrLockHeld) {
			return nil, apperrors.SlotConflict("Another booking for this slot is in progress")
		}
		s.cfg.Log.Error("Failed to acquire slot lock", "seller_id", seller.ID, "error", err)
		return nil, apperrors.Internal("Failed to process booking", err)
	}
	defer s.locks.Release(context.WithoutCancel(ctx), lockID)

	title := req.Title
	if title == "" {
		title = fmt.Sprintf("Appointment with %s", seller.BusinessName)
	}

	var stored *model.Appointment
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		overlapping, err := s.repo.FindOverlapping(sessCtx, seller.ID, req.StartTime, req.EndTime)
		if err != nil {
			return err
		}
		if len(overlapping) > 0 {
			return apperrors.SlotConflict("The requested time overlaps an existing appointment")
		}

		if err := s.checkSlotOpen(sessCtx, seller, req); err != nil {
			return err
		}

		stored, err = s.repo.Create(sessCtx, &model.Appointment{
			SellerID:    seller.ID,
			BuyerID:     buyerID,
			Title:       title,
			Description: req.Description,
			StartTime:   req.StartTime.UTC(),
			EndTime:     req.EndTime.UTC(),
			Status:      model.StatusScheduled,
		})
		return err
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		s.cfg.Log.Error("Booking transaction failed", "seller_id", seller.ID, "buyer_id", buyerID, "error", err)
		return nil, apperrors.Internal("Failed to book appointment", err)
	}

	s.cfg.Log.Info("Appointment booked",
		"id", stored.ID,
		"seller_id", stored.SellerID,
		"buyer_id", stored.BuyerID,
		"start_time", stored.StartTime,
	)

	s.mirrorToCalendar(ctx, stored, seller)
	s.publish(ctx, kafka.EventAppointmentCreated, stored)
	return stored, nil
}

// checkSlotOpen gates against the seller's persisted day, if any. A missing
// Availability record does not block the booking; the overlap check above is
// the authority on double-booking either way.
func (s *appointmentService) checkSlotOpen(ctx context.Context, seller *model.Seller, req *model.BookingRequest) error {
	date := req.StartTime.In(s.locationFor(seller)).Format("2006-01-02")

	day, err := s.availability.Get(ctx, seller.ID, date)
	if err != nil {
		if errors.Is(err, availerrors.ErrNotFound) {
			return nil
		}
		return err
	}

	for _, slot := range day.Slots {
		if !slot.Available && slots.Overlaps(req.StartTime, req.EndTime, slot.Start, slot.End) {
			return apperrors.SlotUnavailable("The requested time is not open for booking")
		}
	}
	return nil
}

// ListActive returns every appointment still ahead of now where the caller
// is the buyer or owns the seller, soonest first. Cancelled appointments
// with a future end time are included; their status tells the caller.
func (s *appointmentService) ListActive(ctx context.Context, identity string) ([]*model.Appointment, error) {
	if identity == "" {
		return nil, apperrors.Unauthorized("A verified identity is required")
	}

	sellerIDs, err := s.sellers.FindIDsByOwner(ctx, identity)
	if err != nil {
		s.cfg.Log.Error("Failed to resolve seller profiles", "identity", identity, "error", err)
		return nil, apperrors.Internal("Failed to retrieve appointments", err)
	}

	appointments, err := s.repo.FindActiveForParty(ctx, identity, sellerIDs, time.Now())
	if err != nil {
		s.cfg.Log.Error("Failed to list active appointments", "identity", identity, "error", err)
		return nil, apperrors.Internal("Failed to retrieve appointments", err)
	}
	if appointments == nil {
		appointments = []*model.Appointment{}
	}
	return appointments, nil
}

func (s *appointmentService) GetByID(ctx context.Context, identity, id string) (*model.Appointment, error) {
	appointment, err := s.findForParty(ctx, identity, id)
	if err != nil {
		return nil, err
	}
	return appointment, nil
}

// Cancel marks the appointment cancelled. The interval stays as booked;
// cancelling never frees the record for editing. Repeated cancels are no-ops.
func (s *appointmentService) Cancel(ctx context.Context, identity, id string) (*model.Appointment, error) {
	appointment, err := s.findForParty(ctx, identity, id)
	if err != nil {
		return nil, err
	}
	if appointment.Status == model.StatusCancelled {
		return appointment, nil
	}

	cancelled, err := s.repo.UpdateStatus(ctx, id, model.StatusCancelled)
	if err != nil {
		if errors.Is(err, appterrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Appointment", id)
		}
		s.cfg.Log.Error("Failed to cancel appointment", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to cancel appointment", err)
	}

	s.cfg.Log.Info("Appointment cancelled", "id", id, "identity", identity)

	s.removeFromCalendar(ctx, cancelled)
	s.publish(ctx, kafka.EventAppointmentCancelled, cancelled)
	return cancelled, nil
}

func (s *appointmentService) findForParty(ctx context.Context, identity, id string) (*model.Appointment, error) {
	if identity == "" {
		return nil, apperrors.Unauthorized("A verified identity is required")
	}
	if id == "" {
		return nil, apperrors.InvalidInput("Appointment ID cannot be empty")
	}

	appointment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, appterrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Appointment", id)
		}
		if errors.Is(err, appterrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid appointment ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve appointment", err)
	}

	if appointment.BuyerID == identity {
		return appointment, nil
	}
	seller, err := s.sellers.FindByID(ctx, appointment.SellerID)
	if err == nil && seller.OwnerEmail == identity {
		return appointment, nil
	}
	return nil, apperrors.Forbidden("Only the appointment parties can access it")
}

func (s *appointmentService) resolveSeller(ctx context.Context, sellerID string) (*model.Seller, error) {
	seller, err := s.sellers.FindByID(ctx, sellerID)
	if err != nil {
		if errors.Is(err, sellererrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Seller", sellerID)
		}
		if errors.Is(err, sellererrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid seller ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve seller", err)
	}
	return seller, nil
}

func (s *appointmentService) locationFor(seller *model.Seller) *time.Location {
	if seller.TimeZone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(seller.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (s *appointmentService) publish(ctx context.Context, eventType string, appointment *model.Appointment) {
	msg, err := kafka.NewMessage(eventType, appointment.SellerID, appointment)
	if err != nil {
		s.cfg.Log.Error("Failed to build lifecycle event", "type", eventType, "id", appointment.ID, "error", err)
		return
	}
	if err := s.producer.Publish(context.WithoutCancel(ctx), msg); err != nil {
		s.cfg.Log.Error("Failed to publish lifecycle event", "type", eventType, "id", appointment.ID, "error", err)
	}
}
