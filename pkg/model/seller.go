package model

import "time"

type Seller struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	OwnerEmail   string    `json:"owner_email" bson:"owner_email" validate:"required,email"`
	BusinessName string    `json:"business_name,omitempty" bson:"business_name,omitempty" validate:"omitempty,min=2,max=100"`
	Description  string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=2000"`
	TimeZone     string    `json:"time_zone" bson:"time_zone" validate:"required,timezone"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// SellerProfile is the owner-editable subset of Seller.
type SellerProfile struct {
	BusinessName string `json:"business_name,omitempty" validate:"omitempty,min=2,max=100"`
	Description  string `json:"description,omitempty" validate:"omitempty,max=2000"`
	TimeZone     string `json:"time_zone" validate:"required,timezone"`
}
