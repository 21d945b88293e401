package models

import "time"

// EventStatus is the booking lifecycle state.
type EventStatus string

const (
	StatusQuote      EventStatus = "quote"
	StatusConfirmed  EventStatus = "confirmed"
	StatusInProgress EventStatus = "in_progress"
	StatusCompleted  EventStatus = "completed"
	StatusCancelled  EventStatus = "cancelled"
)

// Event is a booked wedding or celebration. It owns its ServiceLines and
// Payments; both are replaced as a whole when the event is saved.
type Event struct {
	// ID is the unique identifier (UUID format). Empty for unsaved events.
	ID string `json:"id"`

	Title      string    `json:"title" validate:"required"`
	EventDate  time.Time `json:"event_date" validate:"required"`
	GuestCount int       `json:"guest_count" validate:"gte=0"`

	// AllInclusive replaces the itemized total with AllInclusivePrice.
	AllInclusive            bool   `json:"all_inclusive"`
	AllInclusivePrice       Amount `json:"all_inclusive_price" validate:"gte=0"`
	AllInclusiveIncludesVAT bool   `json:"all_inclusive_includes_vat"`

	// TotalOverride is a manually entered total. Nil or zero means not set.
	TotalOverride *Amount `json:"total_override"`

	// TotalOverrideIncludesVAT only disables VAT extraction when explicitly false.
	TotalOverrideIncludesVAT *bool `json:"total_override_includes_vat"`

	DiscountAmount    Amount `json:"discount_amount" validate:"gte=0"`
	DiscountBeforeVAT bool   `json:"discount_before_vat"`

	Status EventStatus `json:"status" validate:"required,oneof=quote confirmed in_progress completed cancelled"`

	Notes string `json:"notes,omitempty"`

	// CreatedAt is the Unix timestamp when the event was first saved.
	CreatedAt int64 `json:"created_at"`
}
