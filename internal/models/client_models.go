package models

import "time"

// Client represents a customer of the store, independent of any login identity.
type Client struct {
	ID    int64   `json:"id" db:"id"`
	Name  string  `json:"name" db:"name" binding:"required"`
	Email *string `json:"email,omitempty" db:"email"`
	Phone *string `json:"phone,omitempty" db:"phone"`

	// PurchaseCount is a denormalized tally of the purchases referencing
	// this client. It is maintained best-effort; GetPurchasesByClientID
	// remains the source of truth.
	PurchaseCount int `json:"purchase_count" db:"purchase_count"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
