package sqlite

import (
	"database/sql"
	"time"

	"github.com/mmynk/eventbook/internal/models"
)

func newEventTable(db *sql.DB) *table[models.Event] {
	return &table[models.Event]{
		db:   db,
		name: "events",
		columns: []string{
			"id", "title", "event_date", "guest_count",
			"all_inclusive", "all_inclusive_price", "all_inclusive_includes_vat",
			"total_override", "total_override_includes_vat",
			"discount_amount", "discount_before_vat", "status", "notes", "created_at",
		},
		orderBy: "event_date, created_at",
		filters: []string{"status"},
		id:      func(e models.Event) string { return e.ID },
		withID: func(e models.Event, id string) models.Event {
			e.ID = id
			return e
		},
		prepare: func(e models.Event) (models.Event, error) {
			if e.CreatedAt == 0 {
				e.CreatedAt = time.Now().Unix()
			}
			if e.Status == "" {
				e.Status = models.StatusQuote
			}
			return e, nil
		},
		values: func(e models.Event) ([]any, error) {
			return []any{
				e.Title, formatTime(e.EventDate), e.GuestCount,
				e.AllInclusive, e.AllInclusivePrice.Float(), e.AllInclusiveIncludesVAT,
				nullAmount(e.TotalOverride), nullBool(e.TotalOverrideIncludesVAT),
				e.DiscountAmount.Float(), e.DiscountBeforeVAT, string(e.Status), e.Notes, e.CreatedAt,
			}, nil
		},
		scan: scanEvent,
	}
}

func scanEvent(row scanner) (models.Event, error) {
	var (
		e                   models.Event
		eventDate, status   string
		allInclusivePrice   float64
		discount            float64
		override            sql.NullFloat64
		overrideIncludesVAT sql.NullBool
	)
	err := row.Scan(
		&e.ID, &e.Title, &eventDate, &e.GuestCount,
		&e.AllInclusive, &allInclusivePrice, &e.AllInclusiveIncludesVAT,
		&override, &overrideIncludesVAT,
		&discount, &e.DiscountBeforeVAT, &status, &e.Notes, &e.CreatedAt,
	)
	if err != nil {
		return e, err
	}

	if e.EventDate, err = parseTime(eventDate); err != nil {
		return e, err
	}
	e.AllInclusivePrice = models.Amount(allInclusivePrice)
	e.TotalOverride = amountFromNull(override)
	e.TotalOverrideIncludesVAT = boolFromNull(overrideIncludesVAT)
	e.DiscountAmount = models.Amount(discount)
	e.Status = models.EventStatus(status)
	return e, nil
}
