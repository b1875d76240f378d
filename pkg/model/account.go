package model

import "time"

// Account holds a party's linked external-calendar credentials. Identity and
// session handling live upstream; this record only exists so the booking
// flow can mirror events for parties that connected a calendar.
type Account struct {
	ID                   string    `json:"id,omitempty" bson:"_id,omitempty"`
	Email                string    `json:"email" bson:"email" validate:"required,email"`
	CalendarAccessToken  string    `json:"-" bson:"calendar_access_token,omitempty"`
	CalendarRefreshToken string    `json:"-" bson:"calendar_refresh_token,omitempty"`
	CreatedAt            time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt            time.Time `json:"updated_at" bson:"updated_at"`
}

// HasCalendar reports whether the account can be mirrored to.
func (a *Account) HasCalendar() bool {
	return a != nil && a.CalendarAccessToken != ""
}
