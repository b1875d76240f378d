package model

import "time"

// SlotLock is an advisory lock document guarding the check-then-insert
// sequence of a booking. Its _id encodes the slot coordinates, so a
// duplicate key error means another booking for the same slot is in flight.
type SlotLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
