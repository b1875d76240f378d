package model

import "time"

// TimeSlot is a fixed-duration interval with an availability flag.
// Intervals are half-open: [Start, End).
type TimeSlot struct {
	Start     time.Time `json:"start" bson:"start" validate:"required"`
	End       time.Time `json:"end" bson:"end" validate:"required,gtfield=Start"`
	Available bool      `json:"available" bson:"available"`
}

// Availability is one seller's slot list for one calendar day. There is at
// most one document per (seller_id, date); writes replace it wholesale.
type Availability struct {
	ID        string     `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	SellerID  string     `json:"seller_id" bson:"seller_id" validate:"required,mongodb"`
	Date      string     `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	Slots     []TimeSlot `json:"slots" bson:"slots" validate:"required,min=1,dive"`
	UpdatedAt time.Time  `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// BusyInterval is an externally sourced committed time range.
type BusyInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
