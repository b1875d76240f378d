package service

import (
	"context"
	"testing"
	"time"

	"bookable/internal/sellers/validator"
	"bookable/pkg/config"
	apperrors "bookable/pkg/errors"
	"bookable/pkg/logger"
	"bookable/pkg/model"
)

type mockSellerRepository struct {
	upsertFunc         func(ctx context.Context, seller *model.Seller) (*model.Seller, error)
	findByOwnerFunc    func(ctx context.Context, ownerEmail string) (*model.Seller, error)
	findByIDFunc       func(ctx context.Context, id string) (*model.Seller, error)
	findIDsByOwnerFunc func(ctx context.Context, ownerEmail string) ([]string, error)
	findAllFunc        func(ctx context.Context, limit int, offset int64) ([]*model.Seller, error)
	countFunc          func(ctx context.Context) (int64, error)
}

func (m *mockSellerRepository) Upsert(ctx context.Context, seller *model.Seller) (*model.Seller, error) {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, seller)
	}
	stored := *seller
	stored.ID = "665f1c0a9d3e2b0001a4d0f1"
	return &stored, nil
}

func (m *mockSellerRepository) FindByOwner(ctx context.Context, ownerEmail string) (*model.Seller, error) {
	if m.findByOwnerFunc != nil {
		return m.findByOwnerFunc(ctx, ownerEmail)
	}
	return nil, nil
}

func (m *mockSellerRepository) FindByID(ctx context.Context, id string) (*model.Seller, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockSellerRepository) FindIDsByOwner(ctx context.Context, ownerEmail string) ([]string, error) {
	if m.findIDsByOwnerFunc != nil {
		return m.findIDsByOwnerFunc(ctx, ownerEmail)
	}
	return nil, nil
}

func (m *mockSellerRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Seller, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, limit, offset)
	}
	return []*model.Seller{}, nil
}

func (m *mockSellerRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockSellerRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}

func newTestService(repo *mockSellerRepository) SellerService {
	log := logger.New(logger.Config{Level: "error", Service: "test"})
	cfg := &config.Config{Log: log, ReadTimeout: 5 * time.Second}
	return NewSellerService(repo, validator.NewSellerValidator(log), cfg)
}

func TestUpsert_SanitizesAndStores(t *testing.T) {
	var captured *model.Seller
	repo := &mockSellerRepository{
		upsertFunc: func(ctx context.Context, seller *model.Seller) (*model.Seller, error) {
			captured = seller
			stored := *seller
			stored.ID = "665f1c0a9d3e2b0001a4d0f1"
			return &stored, nil
		},
	}
	svc := newTestService(repo)

	stored, err := svc.Upsert(context.Background(), "owner@example.com", &model.SellerProfile{
		BusinessName: "  Acme   Consulting\n",
		Description:  "We  consult.",
		TimeZone:     "America/New_York",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if captured.BusinessName != "Acme Consulting" {
		t.Errorf("business name not sanitized: %q", captured.BusinessName)
	}
	if captured.OwnerEmail != "owner@example.com" {
		t.Errorf("owner email = %q", captured.OwnerEmail)
	}
	if stored.ID == "" {
		t.Error("stored seller should carry the persisted id")
	}
}

func TestUpsert_RequiresIdentity(t *testing.T) {
	svc := newTestService(&mockSellerRepository{})

	_, err := svc.Upsert(context.Background(), "", &model.SellerProfile{TimeZone: "UTC"})
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeUnauthorized {
		t.Errorf("error code = %q, want %q", appErr.Code, apperrors.CodeUnauthorized)
	}
}

func TestUpsert_RejectsInvalidTimezone(t *testing.T) {
	svc := newTestService(&mockSellerRepository{})

	_, err := svc.Upsert(context.Background(), "owner@example.com", &model.SellerProfile{
		TimeZone: "Mars/Olympus_Mons",
	})
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeValidation {
		t.Errorf("error code = %q, want %q", appErr.Code, apperrors.CodeValidation)
	}
}

func TestUpsert_IsIdempotent(t *testing.T) {
	store := map[string]*model.Seller{}
	repo := &mockSellerRepository{
		upsertFunc: func(ctx context.Context, seller *model.Seller) (*model.Seller, error) {
			stored := *seller
			stored.ID = "665f1c0a9d3e2b0001a4d0f1"
			store[seller.OwnerEmail] = &stored
			return &stored, nil
		},
	}
	svc := newTestService(repo)

	profile := &model.SellerProfile{BusinessName: "Acme", TimeZone: "UTC"}
	first, err := svc.Upsert(context.Background(), "owner@example.com", profile)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	second, err := svc.Upsert(context.Background(), "owner@example.com", profile)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if len(store) != 1 {
		t.Errorf("expected a single record per owner, got %d", len(store))
	}
	if first.ID != second.ID {
		t.Errorf("repeated upsert changed identity: %q vs %q", first.ID, second.ID)
	}
}

func TestGetAll_ParallelCountAndFind(t *testing.T) {
	repo := &mockSellerRepository{
		countFunc: func(ctx context.Context) (int64, error) {
			time.Sleep(5 * time.Millisecond)
			return 7, nil
		},
		findAllFunc: func(ctx context.Context, limit int, offset int64) ([]*model.Seller, error) {
			time.Sleep(5 * time.Millisecond)
			return []*model.Seller{{ID: "1"}, {ID: "2"}}, nil
		},
	}
	svc := newTestService(repo)

	sellers, count, err := svc.GetAll(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 7 {
		t.Errorf("count = %d, want 7", count)
	}
	if len(sellers) != 2 {
		t.Errorf("len(sellers) = %d, want 2", len(sellers))
	}
}
