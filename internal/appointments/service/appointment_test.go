package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	appterrors "bookable/internal/appointments/errors"
	"bookable/internal/appointments/validator"
	availerrors "bookable/internal/availability/errors"
	sellererrors "bookable/internal/sellers/errors"
	"bookable/pkg/calendar"
	"bookable/pkg/config"
	dbmongo "bookable/pkg/db/mongo"
	apperrors "bookable/pkg/errors"
	"bookable/pkg/logger"
	"bookable/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	testSellerID = "665f1c0a9d3e2b0001a4d0f1"
	testApptID   = "665f1c0a9d3e2b0001a4d0b2"
	testOwner    = "owner@example.com"
	testBuyer    = "buyer@example.com"
)

type mockAppointmentRepository struct {
	createFunc             func(ctx context.Context, appointment *model.Appointment) (*model.Appointment, error)
	findByIDFunc           func(ctx context.Context, id string) (*model.Appointment, error)
	findActiveFunc         func(ctx context.Context, buyerID string, sellerIDs []string, now time.Time) ([]*model.Appointment, error)
	findOverlappingFunc    func(ctx context.Context, sellerID string, start, end time.Time) ([]*model.Appointment, error)
	updateCalendarInfoFunc func(ctx context.Context, id, eventID, meetingLink string) error
	updateStatusFunc       func(ctx context.Context, id, status string) (*model.Appointment, error)
}

func (m *mockAppointmentRepository) Create(ctx context.Context, appointment *model.Appointment) (*model.Appointment, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, appointment)
	}
	stored := *appointment
	stored.ID = testApptID
	return &stored, nil
}

func (m *mockAppointmentRepository) FindByID(ctx context.Context, id string) (*model.Appointment, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, appterrors.ErrNotFound
}

func (m *mockAppointmentRepository) FindActiveForParty(ctx context.Context, buyerID string, sellerIDs []string, now time.Time) ([]*model.Appointment, error) {
	if m.findActiveFunc != nil {
		return m.findActiveFunc(ctx, buyerID, sellerIDs, now)
	}
	return nil, nil
}

func (m *mockAppointmentRepository) FindOverlapping(ctx context.Context, sellerID string, start, end time.Time) ([]*model.Appointment, error) {
	if m.findOverlappingFunc != nil {
		return m.findOverlappingFunc(ctx, sellerID, start, end)
	}
	return nil, nil
}

func (m *mockAppointmentRepository) UpdateCalendarInfo(ctx context.Context, id, eventID, meetingLink string) error {
	if m.updateCalendarInfoFunc != nil {
		return m.updateCalendarInfoFunc(ctx, id, eventID, meetingLink)
	}
	return nil
}

func (m *mockAppointmentRepository) UpdateStatus(ctx context.Context, id, status string) (*model.Appointment, error) {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil, appterrors.ErrNotFound
}

func (m *mockAppointmentRepository) ExecuteTransaction(ctx context.Context, fn dbmongo.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

func (m *mockAppointmentRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}

type mockSlotLockRepository struct {
	acquireFunc func(ctx context.Context, sellerID string, start time.Time) (string, error)
	released    []string
}

func (m *mockSlotLockRepository) Acquire(ctx context.Context, sellerID string, start time.Time) (string, error) {
	if m.acquireFunc != nil {
		return m.acquireFunc(ctx, sellerID, start)
	}
	return "lock-1", nil
}

func (m *mockSlotLockRepository) Release(ctx context.Context, lockID string) {
	m.released = append(m.released, lockID)
}

func (m *mockSlotLockRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}

type mockAvailabilityRepository struct {
	getFunc func(ctx context.Context, sellerID, date string) (*model.Availability, error)
}

func (m *mockAvailabilityRepository) Get(ctx context.Context, sellerID, date string) (*model.Availability, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, sellerID, date)
	}
	return nil, availerrors.ErrNotFound
}

func (m *mockAvailabilityRepository) Put(ctx context.Context, availability *model.Availability) (*model.Availability, error) {
	return availability, nil
}

func (m *mockAvailabilityRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}

type mockSellerRepository struct {
	findByIDFunc       func(ctx context.Context, id string) (*model.Seller, error)
	findIDsByOwnerFunc func(ctx context.Context, ownerEmail string) ([]string, error)
}

func (m *mockSellerRepository) Upsert(ctx context.Context, seller *model.Seller) (*model.Seller, error) {
	return seller, nil
}

func (m *mockSellerRepository) FindByOwner(ctx context.Context, ownerEmail string) (*model.Seller, error) {
	return nil, sellererrors.ErrNotFound
}

func (m *mockSellerRepository) FindByID(ctx context.Context, id string) (*model.Seller, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.Seller{ID: id, OwnerEmail: testOwner, BusinessName: "Acme", TimeZone: "UTC"}, nil
}

func (m *mockSellerRepository) FindIDsByOwner(ctx context.Context, ownerEmail string) ([]string, error) {
	if m.findIDsByOwnerFunc != nil {
		return m.findIDsByOwnerFunc(ctx, ownerEmail)
	}
	return nil, nil
}

func (m *mockSellerRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Seller, error) {
	return nil, nil
}

func (m *mockSellerRepository) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

func (m *mockSellerRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}

type mockAccountRepository struct {
	findByEmailFunc func(ctx context.Context, email string) (*model.Account, error)
}

func (m *mockAccountRepository) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, appterrors.ErrNotFound
}

type mockCalendarProvider struct {
	createEventFunc func(ctx context.Context, cred calendar.Credential, event calendar.Event) (*calendar.CreatedEvent, error)
	deleteEventFunc func(ctx context.Context, cred calendar.Credential, eventID string) error
	deleted         []string
}

func (m *mockCalendarProvider) CreateEvent(ctx context.Context, cred calendar.Credential, event calendar.Event) (*calendar.CreatedEvent, error) {
	if m.createEventFunc != nil {
		return m.createEventFunc(ctx, cred, event)
	}
	return &calendar.CreatedEvent{EventID: "evt-1", MeetingLink: "https://meet.example.com/abc"}, nil
}

func (m *mockCalendarProvider) DeleteEvent(ctx context.Context, cred calendar.Credential, eventID string) error {
	m.deleted = append(m.deleted, eventID)
	if m.deleteEventFunc != nil {
		return m.deleteEventFunc(ctx, cred, eventID)
	}
	return nil
}

func (m *mockCalendarProvider) FreeBusy(ctx context.Context, cred calendar.Credential, from, to time.Time) ([]model.BusyInterval, error) {
	return nil, nil
}

type fixture struct {
	repo     *mockAppointmentRepository
	locks    *mockSlotLockRepository
	avail    *mockAvailabilityRepository
	sellers  *mockSellerRepository
	accounts *mockAccountRepository
	provider *mockCalendarProvider
	svc      AppointmentService
}

func newFixture() *fixture {
	f := &fixture{
		repo:     &mockAppointmentRepository{},
		locks:    &mockSlotLockRepository{},
		avail:    &mockAvailabilityRepository{},
		sellers:  &mockSellerRepository{},
		accounts: &mockAccountRepository{},
		provider: &mockCalendarProvider{},
	}
	cfg := &config.Config{
		Log:             logger.New(logger.Config{Level: "error", Service: "test"}),
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		CalendarTimeout: 5 * time.Second,
	}
	f.svc = NewAppointmentService(
		f.repo, f.locks, f.avail, f.sellers, f.accounts, f.provider,
		nil, // no brokers in unit tests; publishing is a no-op
		validator.NewAppointmentValidator(cfg.Log), cfg,
	)
	return f
}

func futureRequest() *model.BookingRequest {
	start := time.Now().Add(48 * time.Hour).Truncate(time.Hour)
	return &model.BookingRequest{
		SellerID:  testSellerID,
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
		Title:     "Intro call",
	}
}

func TestBook_Success(t *testing.T) {
	f := newFixture()

	got, err := f.svc.Book(context.Background(), testBuyer, futureRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != model.StatusScheduled {
		t.Errorf("status = %q, want %q", got.Status, model.StatusScheduled)
	}
	if got.BuyerID != testBuyer {
		t.Errorf("buyer = %q, want caller identity", got.BuyerID)
	}
	if len(f.locks.released) != 1 {
		t.Errorf("slot lock released %d times, want 1", len(f.locks.released))
	}
}

func TestBook_DefaultsTitle(t *testing.T) {
	f := newFixture()
	req := futureRequest()
	req.Title = ""

	got, err := f.svc.Book(context.Background(), testBuyer, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != "Appointment with Acme" {
		t.Errorf("title = %q", got.Title)
	}
}

func TestBook_OverlapConflicts(t *testing.T) {
	f := newFixture()
	f.repo.findOverlappingFunc = func(ctx context.Context, sellerID string, start, end time.Time) ([]*model.Appointment, error) {
		return []*model.Appointment{{ID: "existing"}}, nil
	}

	_, err := f.svc.Book(context.Background(), testBuyer, futureRequest())
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeSlotConflict {
		t.Errorf("error code = %q, want %q", appErr.Code, apperrors.CodeSlotConflict)
	}
	if len(f.locks.released) != 1 {
		t.Error("slot lock must be released on conflict too")
	}
}

func TestBook_LockHeldConflicts(t *testing.T) {
	f := newFixture()
	f.locks.acquireFunc = func(ctx context.Context, sellerID string, start time.Time) (string, error) {
		return "", appterrors.ErrLockHeld
	}

	_, err := f.svc.Book(context.Background(), testBuyer, futureRequest())
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeSlotConflict {
		t.Errorf("error code = %q, want %q", appErr.Code, apperrors.CodeSlotConflict)
	}
}

func TestBook_ClosedSlotRejected(t *testing.T) {
	f := newFixture()
	req := futureRequest()
	f.avail.getFunc = func(ctx context.Context, sellerID, date string) (*model.Availability, error) {
		return &model.Availability{
			SellerID: sellerID,
			Date:     date,
			Slots: []model.TimeSlot{{
				Start:     req.StartTime,
				End:       req.EndTime,
				Available: false,
			}},
		}, nil
	}

	_, err := f.svc.Book(context.Background(), testBuyer, req)
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeSlotUnavailable {
		t.Errorf("error code = %q, want %q", appErr.Code, apperrors.CodeSlotUnavailable)
	}
}

func TestBook_NoAvailabilityRecordStillBooks(t *testing.T) {
	f := newFixture()
	f.avail.getFunc = func(ctx context.Context, sellerID, date string) (*model.Availability, error) {
		return nil, availerrors.ErrNotFound
	}

	if _, err := f.svc.Book(context.Background(), testBuyer, futureRequest()); err != nil {
		t.Errorf("a missing availability record must not gate booking: %v", err)
	}
}

func TestBook_UnknownSeller(t *testing.T) {
	f := newFixture()
	f.sellers.findByIDFunc = func(ctx context.Context, id string) (*model.Seller, error) {
		return nil, sellererrors.ErrNotFound
	}

	_, err := f.svc.Book(context.Background(), testBuyer, futureRequest())
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeNotFound {
		t.Errorf("error code = %q, want %q", appErr.Code, apperrors.CodeNotFound)
	}
}

func TestBook_OwnSlotForbidden(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Book(context.Background(), testOwner, futureRequest())
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeForbidden {
		t.Errorf("error code = %q, want %q", appErr.Code, apperrors.CodeForbidden)
	}
}

func TestBook_PastIntervalRejected(t *testing.T) {
	f := newFixture()
	req := futureRequest()
	req.StartTime = time.Now().Add(-time.Hour)
	req.EndTime = req.StartTime.Add(30 * time.Minute)

	_, err := f.svc.Book(context.Background(), testBuyer, req)
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeValidation {
		t.Errorf("error code = %q, want %q", appErr.Code, apperrors.CodeValidation)
	}
}

func TestBook_MirrorsToSellerCalendar(t *testing.T) {
	f := newFixture()
	f.accounts.findByEmailFunc = func(ctx context.Context, email string) (*model.Account, error) {
		if email == testOwner {
			return &model.Account{Email: email, CalendarAccessToken: "owner-token"}, nil
		}
		return nil, appterrors.ErrNotFound
	}
	var captured calendar.Event
	f.provider.createEventFunc = func(ctx context.Context, cred calendar.Credential, event calendar.Event) (*calendar.CreatedEvent, error) {
		if cred.AccessToken != "owner-token" {
			t.Errorf("event hosted with wrong credential: %q", cred.AccessToken)
		}
		captured = event
		return &calendar.CreatedEvent{EventID: "evt-9", MeetingLink: "https://meet.example.com/xyz"}, nil
	}

	got, err := f.svc.Book(context.Background(), testBuyer, futureRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.RequestID != "meet-"+got.ID {
		t.Errorf("conference request id = %q, want deterministic meet-<id>", captured.RequestID)
	}
	if len(captured.Attendees) != 2 {
		t.Errorf("attendees = %v, want both parties", captured.Attendees)
	}
	if got.CalendarEventID != "evt-9" || got.MeetingLink != "https://meet.example.com/xyz" {
		t.Errorf("calendar info not written back: %+v", got)
	}
}

func TestBook_CalendarFailureKeepsBooking(t *testing.T) {
	f := newFixture()
	f.accounts.findByEmailFunc = func(ctx context.Context, email string) (*model.Account, error) {
		return &model.Account{Email: email, CalendarAccessToken: "tok"}, nil
	}
	f.provider.createEventFunc = func(ctx context.Context, cred calendar.Credential, event calendar.Event) (*calendar.CreatedEvent, error) {
		return nil, errors.New("provider down")
	}

	got, err := f.svc.Book(context.Background(), testBuyer, futureRequest())
	if err != nil {
		t.Fatalf("calendar outage must not fail the booking: %v", err)
	}
	if got.CalendarEventID != "" {
		t.Errorf("no event id expected after provider failure, got %q", got.CalendarEventID)
	}
}

func TestListActive_IncludesCancelledWithFutureEnd(t *testing.T) {
	f := newFixture()
	cancelled := &model.Appointment{
		ID:      testApptID,
		BuyerID: testBuyer,
		Status:  model.StatusCancelled,
		EndTime: time.Now().Add(time.Hour),
	}
	f.repo.findActiveFunc = func(ctx context.Context, buyerID string, sellerIDs []string, now time.Time) ([]*model.Appointment, error) {
		return []*model.Appointment{cancelled}, nil
	}

	got, err := f.svc.ListActive(context.Background(), testBuyer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Status != model.StatusCancelled {
		t.Errorf("cancelled-but-future appointments must still be listed: %+v", got)
	}
}

func TestListActive_EmptyIsNotNil(t *testing.T) {
	f := newFixture()

	got, err := f.svc.ListActive(context.Background(), testBuyer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Error("empty listing should encode as [], not null")
	}
}

func TestGetByID_PartyAccessOnly(t *testing.T) {
	f := newFixture()
	f.repo.findByIDFunc = func(ctx context.Context, id string) (*model.Appointment, error) {
		return &model.Appointment{ID: id, SellerID: testSellerID, BuyerID: testBuyer}, nil
	}

	if _, err := f.svc.GetByID(context.Background(), testBuyer, testApptID); err != nil {
		t.Errorf("buyer access: %v", err)
	}
	if _, err := f.svc.GetByID(context.Background(), testOwner, testApptID); err != nil {
		t.Errorf("seller owner access: %v", err)
	}
	_, err := f.svc.GetByID(context.Background(), "stranger@example.com", testApptID)
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeForbidden {
		t.Errorf("stranger access code = %q, want %q", appErr.Code, apperrors.CodeForbidden)
	}
}

func TestCancel_MarksCancelledAndRemovesEvent(t *testing.T) {
	f := newFixture()
	f.repo.findByIDFunc = func(ctx context.Context, id string) (*model.Appointment, error) {
		return &model.Appointment{
			ID: id, SellerID: testSellerID, BuyerID: testBuyer,
			Status: model.StatusScheduled, CalendarEventID: "evt-1",
		}, nil
	}
	var updatedStatus string
	f.repo.updateStatusFunc = func(ctx context.Context, id, status string) (*model.Appointment, error) {
		updatedStatus = status
		return &model.Appointment{
			ID: id, SellerID: testSellerID, BuyerID: testBuyer,
			Status: status, CalendarEventID: "evt-1",
		}, nil
	}
	f.accounts.findByEmailFunc = func(ctx context.Context, email string) (*model.Account, error) {
		return &model.Account{Email: email, CalendarAccessToken: "tok"}, nil
	}

	got, err := f.svc.Cancel(context.Background(), testBuyer, testApptID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updatedStatus != model.StatusCancelled || got.Status != model.StatusCancelled {
		t.Errorf("status not set to cancelled: %q / %q", updatedStatus, got.Status)
	}
	if len(f.provider.deleted) != 1 || f.provider.deleted[0] != "evt-1" {
		t.Errorf("mirrored event not removed: %v", f.provider.deleted)
	}
}

func TestCancel_Idempotent(t *testing.T) {
	f := newFixture()
	f.repo.findByIDFunc = func(ctx context.Context, id string) (*model.Appointment, error) {
		return &model.Appointment{
			ID: id, SellerID: testSellerID, BuyerID: testBuyer,
			Status: model.StatusCancelled,
		}, nil
	}
	f.repo.updateStatusFunc = func(ctx context.Context, id, status string) (*model.Appointment, error) {
		t.Fatal("a second cancel must not write")
		return nil, nil
	}

	got, err := f.svc.Cancel(context.Background(), testBuyer, testApptID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != model.StatusCancelled {
		t.Errorf("status = %q", got.Status)
	}
}

func TestBook_SanitizesTitle(t *testing.T) {
	f := newFixture()
	req := futureRequest()
	req.Title = "  Intro \t call \x00"

	got, err := f.svc.Book(context.Background(), testBuyer, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.ContainsAny(got.Title, "\t\x00") || got.Title != "Intro call" {
		t.Errorf("title not sanitized: %q", got.Title)
	}
}
