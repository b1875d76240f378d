package service

import (
	"context"
	"errors"
	"sync"

	sellererrors "bookable/internal/sellers/errors"
	"bookable/internal/sellers/repository"
	"bookable/internal/sellers/validator"
	"bookable/pkg/config"
	apperrors "bookable/pkg/errors"
	"bookable/pkg/model"
	"bookable/pkg/sanitizer"
)

type SellerService interface {
	Upsert(ctx context.Context, ownerEmail string, profile *model.SellerProfile) (*model.Seller, error)
	GetByOwner(ctx context.Context, ownerEmail string) (*model.Seller, error)
	GetByID(ctx context.Context, id string) (*model.Seller, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Seller, int64, error)
}

type sellerService struct {
	repo      repository.SellerRepository
	validator *validator.SellerValidator
	cfg       *config.Config
}

func NewSellerService(
	repo repository.SellerRepository,
	validator *validator.SellerValidator,
	cfg *config.Config,
) SellerService {
	return &sellerService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *sellerService) Upsert(ctx context.Context, ownerEmail string, profile *model.SellerProfile) (*model.Seller, error) {
	if ownerEmail == "" {
		return nil, apperrors.Unauthorized("A verified identity is required")
	}

	profile.BusinessName = sanitizer.SanitizeBusinessName(profile.BusinessName)
	profile.Description = sanitizer.SanitizeDescription(profile.Description)

	if err := s.validator.ValidateProfile(profile); err != nil {
		s.cfg.Log.Warn("Seller profile validation failed", "owner", ownerEmail, "error", err)
		return nil, apperrors.Validation("Seller profile validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	seller := &model.Seller{
		OwnerEmail:   ownerEmail,
		BusinessName: profile.BusinessName,
		Description:  profile.Description,
		TimeZone:     profile.TimeZone,
	}

	stored, err := s.repo.Upsert(ctx, seller)
	if err != nil {
		s.cfg.Log.Error("Failed to upsert seller profile", "owner", ownerEmail, "error", err)
		return nil, apperrors.Internal("Failed to save seller profile", err)
	}

	s.cfg.Log.Info("Seller profile saved",
		"id", stored.ID,
		"owner", ownerEmail,
		"time_zone", stored.TimeZone,
	)
	return stored, nil
}

func (s *sellerService) GetByOwner(ctx context.Context, ownerEmail string) (*model.Seller, error) {
	if ownerEmail == "" {
		return nil, apperrors.Unauthorized("A verified identity is required")
	}

	seller, err := s.repo.FindByOwner(ctx, ownerEmail)
	if err != nil {
		if errors.Is(err, sellererrors.ErrNotFound) {
			return nil, apperrors.NotFound("Seller profile")
		}
		return nil, apperrors.Internal("Failed to retrieve seller profile", err)
	}
	return seller, nil
}

func (s *sellerService) GetByID(ctx context.Context, id string) (*model.Seller, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Seller ID cannot be empty")
	}

	seller, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sellererrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Seller", id)
		}
		if errors.Is(err, sellererrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid seller ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve seller", err)
	}
	return seller, nil
}

func (s *sellerService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Seller, int64, error) {
	var count int64
	var sellers []*model.Seller
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.Count(ctx)
		if err != nil {
			s.cfg.Log.Error("Failed to count sellers", "error", err)
			errCount = apperrors.Internal("Failed to count sellers", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		sellers, err = s.repo.FindAll(ctx, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list sellers", "limit", limit, "offset", offset, "error", err)
			errFind = apperrors.Internal("Failed to retrieve sellers", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return sellers, count, nil
}
