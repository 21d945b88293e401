package sqlite

import (
	"database/sql"

	"github.com/mmynk/eventbook/internal/models"
)

func newPaymentTable(db *sql.DB) *table[models.Payment] {
	return &table[models.Payment]{
		db:      db,
		name:    "payments",
		columns: []string{"id", "event_id", "amount", "payment_date", "method", "notes"},
		orderBy: "payment_date, rowid",
		filters: []string{"event_id", "method"},
		id:      func(p models.Payment) string { return p.ID },
		withID: func(p models.Payment, id string) models.Payment {
			p.ID = id
			return p
		},
		values: func(p models.Payment) ([]any, error) {
			return []any{p.EventID, p.Amount.Float(), formatTime(p.PaymentDate), p.Method, p.Notes}, nil
		},
		scan: func(row scanner) (models.Payment, error) {
			var (
				p           models.Payment
				amount      float64
				paymentDate string
			)
			if err := row.Scan(&p.ID, &p.EventID, &amount, &paymentDate, &p.Method, &p.Notes); err != nil {
				return p, err
			}
			p.Amount = models.Amount(amount)
			var err error
			p.PaymentDate, err = parseTime(paymentDate)
			return p, err
		},
	}
}
