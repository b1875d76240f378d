// Package calendar abstracts the external calendar each party may have
// linked. The booking flow only ever calls it best-effort, after the store
// write has committed, with a bounded timeout.
package calendar

import (
	"context"
	"time"

	"bookable/pkg/model"
)

// Credential authorizes calls against one party's calendar.
type Credential struct {
	AccessToken  string
	RefreshToken string
}

// Event is the provider-neutral description of a mirrored appointment.
type Event struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	TimeZone    string
	Attendees   []string
	// RequestID correlates meeting-link creation; derived deterministically
	// from the appointment id so retries do not mint duplicate meetings.
	RequestID string
}

// CreatedEvent is what the provider hands back for a mirrored appointment.
type CreatedEvent struct {
	EventID     string
	MeetingLink string
}

type Provider interface {
	CreateEvent(ctx context.Context, cred Credential, event Event) (*CreatedEvent, error)
	DeleteEvent(ctx context.Context, cred Credential, eventID string) error
	FreeBusy(ctx context.Context, cred Credential, from, to time.Time) ([]model.BusyInterval, error)
}
