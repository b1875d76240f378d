package service

import (
	"context"
	"errors"

	appterrors "bookable/internal/appointments/errors"
	"bookable/pkg/calendar"
	"bookable/pkg/model"
)

// mirrorToCalendar creates the external event for a freshly booked
// appointment. It runs after the store write has committed, on its own
// bounded context, and only ever logs failures; the booking stands either
// way. The event is hosted on the seller owner's calendar when one is
// linked, otherwise the buyer's, with both parties invited.
func (s *appointmentService) mirrorToCalendar(ctx context.Context, appointment *model.Appointment, seller *model.Seller) {
	host, err := s.calendarHost(ctx, seller.OwnerEmail, appointment.BuyerID)
	if err != nil {
		s.cfg.Log.Error("Calendar account lookup failed", "id", appointment.ID, "error", err)
		return
	}
	if host == nil {
		s.cfg.Log.Debug("No linked calendar for either party", "id", appointment.ID)
		return
	}

	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.CalendarTimeout)
	defer cancel()

	created, err := s.provider.CreateEvent(callCtx, calendar.Credential{
		AccessToken:  host.CalendarAccessToken,
		RefreshToken: host.CalendarRefreshToken,
	}, calendar.Event{
		Summary:     appointment.Title,
		Description: appointment.Description,
		Start:       appointment.StartTime,
		End:         appointment.EndTime,
		TimeZone:    seller.TimeZone,
		Attendees:   []string{seller.OwnerEmail, appointment.BuyerID},
		RequestID:   "meet-" + appointment.ID,
	})
	if err != nil {
		s.cfg.Log.Error("Calendar event creation failed", "id", appointment.ID, "error", err)
		return
	}

	if err := s.repo.UpdateCalendarInfo(callCtx, appointment.ID, created.EventID, created.MeetingLink); err != nil {
		s.cfg.Log.Error("Failed to store calendar event info", "id", appointment.ID, "error", err)
		return
	}
	appointment.CalendarEventID = created.EventID
	appointment.MeetingLink = created.MeetingLink

	s.cfg.Log.Info("Appointment mirrored to calendar",
		"id", appointment.ID,
		"event_id", created.EventID,
	)
}

// removeFromCalendar deletes the mirrored event after a cancellation.
// Best-effort like creation; an orphaned event is an annoyance, not a bug.
func (s *appointmentService) removeFromCalendar(ctx context.Context, appointment *model.Appointment) {
	if appointment.CalendarEventID == "" {
		return
	}

	seller, err := s.sellers.FindByID(ctx, appointment.SellerID)
	if err != nil {
		s.cfg.Log.Error("Seller lookup failed for calendar cleanup", "id", appointment.ID, "error", err)
		return
	}
	host, err := s.calendarHost(ctx, seller.OwnerEmail, appointment.BuyerID)
	if err != nil {
		s.cfg.Log.Error("Calendar account lookup failed", "id", appointment.ID, "error", err)
		return
	}
	if host == nil {
		return
	}

	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.CalendarTimeout)
	defer cancel()

	err = s.provider.DeleteEvent(callCtx, calendar.Credential{
		AccessToken:  host.CalendarAccessToken,
		RefreshToken: host.CalendarRefreshToken,
	}, appointment.CalendarEventID)
	if err != nil {
		s.cfg.Log.Error("Calendar event deletion failed",
			"id", appointment.ID,
			"event_id", appointment.CalendarEventID,
			"error", err,
		)
		return
	}

	s.cfg.Log.Info("Calendar event removed", "id", appointment.ID, "event_id", appointment.CalendarEventID)
}

// calendarHost picks the account the event lives on: the seller owner's
// when linked, else the buyer's, else nil.
func (s *appointmentService) calendarHost(ctx context.Context, ownerEmail, buyerEmail string) (*model.Account, error) {
	for _, email := range []string{ownerEmail, buyerEmail} {
		account, err := s.accounts.FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, appterrors.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if account.HasCalendar() {
			return account, nil
		}
	}
	return nil, nil
}
