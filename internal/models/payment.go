package models

import "time"

// Payment is money received for an event.
type Payment struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	Amount      Amount    `json:"amount"`
	PaymentDate time.Time `json:"payment_date"`
	Method      string    `json:"method,omitempty" validate:"max=64"`
	Notes       string    `json:"notes,omitempty" validate:"max=2000"`
}

// Valid reports whether the payment should be kept when payments are replaced.
func (p Payment) Valid() bool {
	return p.Amount.Float() > 0
}
