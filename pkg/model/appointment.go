package model

import (
	"time"
)

const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

type Appointment struct {
	ID              string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	SellerID        string    `json:"seller_id" bson:"seller_id" validate:"required,mongodb"`
	BuyerID         string    `json:"buyer_id" bson:"buyer_id" validate:"required,email"`
	Title           string    `json:"title" bson:"title" validate:"required,min=2,max=200"`
	Description     string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=2000"`
	StartTime       time.Time `json:"start_time" bson:"start_time" validate:"required"`
	EndTime         time.Time `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	Status          string    `json:"status" bson:"status" validate:"required,oneof=scheduled completed cancelled"`
	CalendarEventID string    `json:"calendar_event_id,omitempty" bson:"calendar_event_id,omitempty"`
	MeetingLink     string    `json:"meeting_link,omitempty" bson:"meeting_link,omitempty"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt       time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// BookingRequest is what a buyer submits. The buyer identity comes from the
// request context, never from the body.
type BookingRequest struct {
	SellerID    string    `json:"seller_id" validate:"required,mongodb"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required"`
	Title       string    `json:"title,omitempty" validate:"omitempty,min=2,max=200"`
	Description string    `json:"description,omitempty" validate:"omitempty,max=2000"`
}
