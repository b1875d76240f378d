package service

import (
	"context"
	"errors"
	"time"

	availerrors "bookable/internal/availability/errors"
	"bookable/internal/availability/repository"
	"bookable/internal/availability/validator"
	sellererrors "bookable/internal/sellers/errors"
	sellerrepo "bookable/internal/sellers/repository"
	"bookable/pkg/calendar"
	"bookable/pkg/config"
	apperrors "bookable/pkg/errors"
	"bookable/pkg/model"
	"bookable/pkg/slots"
)

type AvailabilityService interface {
	GetForSeller(ctx context.Context, sellerID, date string) (*model.Availability, error)
	GetForOwner(ctx context.Context, ownerEmail, date string) (*model.Availability, error)
	Put(ctx context.Context, ownerEmail, date string, slotList []model.TimeSlot) (*model.Availability, error)
	Suggest(ctx context.Context, ownerEmail, date string) (*model.Availability, error)
}

type availabilityService struct {
	repo      repository.AvailabilityRepository
	sellers   sellerrepo.SellerRepository
	accounts  repository.AccountRepository
	provider  calendar.Provider
	validator *validator.AvailabilityValidator
	cfg       *config.Config
}

func NewAvailabilityService(
	repo repository.AvailabilityRepository,
	sellers sellerrepo.SellerRepository,
	accounts repository.AccountRepository,
	provider calendar.Provider,
	validator *validator.AvailabilityValidator,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		repo:      repo,
		sellers:   sellers,
		accounts:  accounts,
		provider:  provider,
		validator: validator,
		cfg:       cfg,
	}
}

// GetForSeller is the public read: the stored day if one exists, otherwise
// the generated default grid. The generated fallback is never persisted; it
// only materializes when the seller saves an edit.
func (s *availabilityService) GetForSeller(ctx context.Context, sellerID, date string) (*model.Availability, error) {
	seller, err := s.resolveSellerByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	return s.readThrough(ctx, seller, date)
}

func (s *availabilityService) GetForOwner(ctx context.Context, ownerEmail, date string) (*model.Availability, error) {
	seller, err := s.resolveSellerByOwner(ctx, ownerEmail)
	if err != nil {
		return nil, err
	}
	return s.readThrough(ctx, seller, date)
}

// Put replaces the owner's slot list for the day wholesale.
func (s *availabilityService) Put(ctx context.Context, ownerEmail, date string, slotList []model.TimeSlot) (*model.Availability, error) {
	seller, err := s.resolveSellerByOwner(ctx, ownerEmail)
	if err != nil {
		return nil, err
	}

	availability := &model.Availability{
		SellerID: seller.ID,
		Date:     date,
		Slots:    slotList,
	}
	if err := s.validator.ValidateDay(availability); err != nil {
		s.cfg.Log.Warn("Availability validation failed", "seller_id", seller.ID, "date", date, "error", err)
		return nil, apperrors.Validation("Availability validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	stored, err := s.repo.Put(ctx, availability)
	if err != nil {
		s.cfg.Log.Error("Failed to put availability", "seller_id", seller.ID, "date", date, "error", err)
		return nil, apperrors.Internal("Failed to save availability", err)
	}

	s.cfg.Log.Info("Availability saved",
		"seller_id", seller.ID,
		"date", date,
		"slots", len(stored.Slots),
	)
	return stored, nil
}

// Suggest returns the default grid with availability derived from the
// owner's linked calendar: slots clear of committed events come back open.
// Nothing is stored; the owner reviews and saves via Put.
func (s *availabilityService) Suggest(ctx context.Context, ownerEmail, date string) (*model.Availability, error) {
	seller, err := s.resolveSellerByOwner(ctx, ownerEmail)
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.FindByEmail(ctx, ownerEmail)
	if err != nil && !errors.Is(err, availerrors.ErrNotFound) {
		return nil, apperrors.Internal("Failed to look up calendar account", err)
	}
	if !account.HasCalendar() {
		return nil, apperrors.Conflict("No linked calendar to suggest from")
	}

	loc := s.locationFor(seller)
	grid, err := slots.Generate(date, loc, s.cfg.WorkDayStart, s.cfg.WorkDayEnd, s.cfg.SlotDurationMin)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	if len(grid) == 0 {
		return nil, apperrors.InvalidInput("Work window is shorter than a single slot")
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.CalendarTimeout)
	defer cancel()

	busy, err := s.provider.FreeBusy(callCtx, calendar.Credential{
		AccessToken:  account.CalendarAccessToken,
		RefreshToken: account.CalendarRefreshToken,
	}, grid[0].Start, grid[len(grid)-1].End)
	if err != nil {
		s.cfg.Log.Error("Calendar free/busy lookup failed", "seller_id", seller.ID, "date", date, "error", err)
		return nil, apperrors.Unavailable("Calendar provider")
	}

	return &model.Availability{
		SellerID: seller.ID,
		Date:     date,
		Slots:    slots.Reconcile(grid, busy),
	}, nil
}

func (s *availabilityService) readThrough(ctx context.Context, seller *model.Seller, date string) (*model.Availability, error) {
	stored, err := s.repo.Get(ctx, seller.ID, date)
	if err == nil {
		return stored, nil
	}
	if !errors.Is(err, availerrors.ErrNotFound) {
		s.cfg.Log.Error("Failed to read availability", "seller_id", seller.ID, "date", date, "error", err)
		return nil, apperrors.Internal("Failed to retrieve availability", err)
	}

	grid, err := slots.Generate(date, s.locationFor(seller), s.cfg.WorkDayStart, s.cfg.WorkDayEnd, s.cfg.SlotDurationMin)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	return &model.Availability{
		SellerID: seller.ID,
		Date:     date,
		Slots:    grid,
	}, nil
}

func (s *availabilityService) resolveSellerByID(ctx context.Context, sellerID string) (*model.Seller, error) {
	if sellerID == "" {
		return nil, apperrors.InvalidInput("Seller ID cannot be empty")
	}
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

func (s *availabilityService) resolveSellerByOwner(ctx context.Context, ownerEmail string) (*model.Seller, error) {
	if ownerEmail == "" {
		return nil, apperrors.Unauthorized("A verified identity is required")
	}
	seller, err := s.sellers.FindByOwner(ctx, ownerEmail)
	if err != nil {
		if errors.Is(err, sellererrors.ErrNotFound) {
			return nil, apperrors.NotFound("Seller profile")
		}
		return nil, apperrors.Internal("Failed to retrieve seller profile", err)
	}
	return seller, nil
}

func (s *availabilityService) locationFor(seller *model.Seller) *time.Location {
	if seller.TimeZone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(seller.TimeZone)
	if err != nil {
		s.cfg.Log.Warn("Falling back to UTC for unknown time zone",
			"seller_id", seller.ID,
			"time_zone", seller.TimeZone,
		)
		return time.UTC
	}
	return loc
}
