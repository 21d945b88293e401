// Package service implements event saving and the RPC surface around the
// pricing, composition and ordering packages.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/eventbook/internal/calculator"
	"github.com/mmynk/eventbook/internal/catalog"
	"github.com/mmynk/eventbook/internal/composition"
	"github.com/mmynk/eventbook/internal/metrics"
	"github.com/mmynk/eventbook/internal/models"
	"github.com/mmynk/eventbook/internal/ordering"
	"github.com/mmynk/eventbook/internal/reconcile"
	"github.com/mmynk/eventbook/internal/storage"
)

// ErrValidation is returned when the event or its payments are malformed.
// Nothing is written when it is returned.
var ErrValidation = errors.New("validation failed")

// DefaultVATRate is used when no rate is configured.
const DefaultVATRate = 0.18

// EventService saves events with their service lines and payments and
// computes their derived views.
type EventService struct {
	store    storage.Store
	catalog  *catalog.Loader
	engine   *reconcile.Engine
	validate *validator.Validate
	logger   *slog.Logger
	metrics  *metrics.Metrics

	vatRate     float64
	concurrency int
}

// Option configures an EventService.
type Option func(*EventService)

// WithVATRate sets the rate used by Summary.
func WithVATRate(rate float64) Option {
	return func(s *EventService) { s.vatRate = rate }
}

// WithConcurrency bounds concurrent store calls per batch during a save.
func WithConcurrency(n int) Option {
	return func(s *EventService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithLogger sets the logger for save progress and per-item failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *EventService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records store operations and save durations.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *EventService) { s.metrics = m }
}

// NewEventService creates an EventService over the given store. Catalog
// defaults are read through loader.
func NewEventService(store storage.Store, loader *catalog.Loader, opts ...Option) *EventService {
	s := &EventService{
		store:       store,
		catalog:     loader,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		logger:      slog.Default(),
		vatRate:     DefaultVATRate,
		concurrency: reconcile.DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = reconcile.New(store.ServiceLines(),
		reconcile.WithConcurrency(s.concurrency),
		reconcile.WithLogger(s.logger),
		reconcile.WithRecorder(s.metrics),
	)
	return s
}

// PaymentOutcome summarizes the payment replacement of a save.
type PaymentOutcome struct {
	Deleted  int `json:"deleted"`
	Created  int `json:"created"`
	Skipped  int `json:"skipped"`
	Failures int `json:"failures"`
}

// SaveResult reports what a save wrote.
type SaveResult struct {
	Event    models.Event      `json:"event"`
	Lines    reconcile.Outcome `json:"lines"`
	Payments PaymentOutcome    `json:"payments"`
}

// EventDetails is an event with everything it owns.
type EventDetails struct {
	Event    models.Event         `json:"event"`
	Lines    []models.ServiceLine `json:"lines"`
	Payments []models.Payment     `json:"payments"`
}

// Save writes the event, reconciles its service lines and replaces its
// payments.
//
// Validation happens before any store call. Failing to write the event record,
// list its persisted lines or load the catalog aborts the save with an error.
// Individual line and payment failures are logged and reported in the result;
// writes that already succeeded are kept.
func (s *EventService) Save(ctx context.Context, event models.Event, lines []models.ServiceLine, payments []models.Payment) (result SaveResult, err error) {
	start := time.Now()
	defer func() { s.metrics.SaveDone(start, err) }()

	if event.Status == "" {
		event.Status = models.StatusQuote
	}
	if err := s.validateSave(event, payments); err != nil {
		return SaveResult{}, err
	}

	saved, err := s.writeEvent(ctx, event)
	if err != nil {
		return SaveResult{}, err
	}
	result.Event = saved

	persisted, err := s.store.ServiceLines().Filter(ctx, storage.Filter{"event_id": saved.ID})
	if err != nil {
		return result, fmt.Errorf("failed to list service lines: %w", err)
	}

	snap, err := s.catalog.Load(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to load catalog: %w", err)
	}

	result.Lines = s.engine.Reconcile(ctx, saved.ID, lines, persisted, snap)

	result.Payments, err = s.replacePayments(ctx, saved.ID, payments)
	if err != nil {
		return result, err
	}

	s.logger.Info("event saved",
		"event_id", saved.ID,
		"line_failures", result.Lines.Failures,
		"payment_failures", result.Payments.Failures,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

func (s *EventService) validateSave(event models.Event, payments []models.Payment) error {
	if err := s.validate.Struct(event); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	for i, p := range payments {
		if err := s.validate.Struct(p); err != nil {
			return fmt.Errorf("%w: payment %d: %w", ErrValidation, i, err)
		}
	}
	return nil
}

func (s *EventService) writeEvent(ctx context.Context, event models.Event) (models.Event, error) {
	events := s.store.Events()
	if event.ID == "" {
		created, err := events.Create(ctx, event)
		if err != nil {
			return models.Event{}, fmt.Errorf("failed to create event: %w", err)
		}
		return created, nil
	}

	existing, err := events.Get(ctx, event.ID)
	if err != nil {
		return models.Event{}, fmt.Errorf("failed to load event: %w", err)
	}
	event.CreatedAt = existing.CreatedAt
	updated, err := events.Update(ctx, event.ID, event)
	if err != nil {
		return models.Event{}, fmt.Errorf("failed to update event: %w", err)
	}
	return updated, nil
}

// replacePayments deletes every stored payment of the event and recreates the
// valid ones from desired.
func (s *EventService) replacePayments(ctx context.Context, eventID string, desired []models.Payment) (PaymentOutcome, error) {
	var out PaymentOutcome
	collection := s.store.Payments()

	existing, err := collection.Filter(ctx, storage.Filter{"event_id": eventID})
	if err != nil {
		return out, fmt.Errorf("failed to list payments: %w", err)
	}

	var deleted, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for _, p := range existing {
		g.Go(func() error {
			err := collection.Delete(ctx, p.ID)
			s.metrics.StoreOp(metrics.OpDelete, err)
			if err != nil {
				failed.Add(1)
				s.logger.Error("failed to delete payment", "payment_id", p.ID, "error", err)
				return nil
			}
			deleted.Add(1)
			return nil
		})
	}
	_ = g.Wait()
	out.Deleted = int(deleted.Load())
	out.Failures = int(failed.Load())

	var valid []models.Payment
	for _, p := range desired {
		if !p.Valid() {
			out.Skipped++
			continue
		}
		p.ID = ""
		p.EventID = eventID
		valid = append(valid, p)
	}
	if len(valid) == 0 {
		return out, nil
	}

	if bulk, ok := collection.(storage.BulkCreator[models.Payment]); ok {
		created, err := bulk.BulkCreate(ctx, valid)
		s.metrics.StoreOp(metrics.OpCreate, err)
		out.Created += len(created)
		if err == nil {
			return out, nil
		}
		s.logger.Warn("bulk payment create failed; creating individually", "error", err)
		valid = valid[len(created):]
	}

	for _, p := range valid {
		_, err := collection.Create(ctx, p)
		s.metrics.StoreOp(metrics.OpCreate, err)
		if err != nil {
			out.Failures++
			s.logger.Error("failed to create payment", "event_id", eventID, "error", err)
			continue
		}
		out.Created++
	}
	return out, nil
}

// Get loads an event with its lines and payments.
func (s *EventService) Get(ctx context.Context, eventID string) (EventDetails, error) {
	event, err := s.store.Events().Get(ctx, eventID)
	if err != nil {
		return EventDetails{}, err
	}

	var details EventDetails
	details.Event = event

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lines, err := s.store.ServiceLines().Filter(gctx, storage.Filter{"event_id": eventID})
		if err != nil {
			return fmt.Errorf("failed to list service lines: %w", err)
		}
		details.Lines = lines
		return nil
	})
	g.Go(func() error {
		payments, err := s.store.Payments().Filter(gctx, storage.Filter{"event_id": eventID})
		if err != nil {
			return fmt.Errorf("failed to list payments: %w", err)
		}
		details.Payments = payments
		return nil
	})
	if err := g.Wait(); err != nil {
		return EventDetails{}, err
	}
	return details, nil
}

// Summary computes the stored event's financial breakdown.
func (s *EventService) Summary(ctx context.Context, eventID string) (calculator.Summary, error) {
	details, err := s.Get(ctx, eventID)
	if err != nil {
		return calculator.Summary{}, err
	}
	return calculator.Compute(details.Event, details.Lines, details.Payments, s.vatRate), nil
}

// Compose groups the stored event's lines into packages and standalone items.
func (s *EventService) Compose(ctx context.Context, eventID string) (composition.Composition, error) {
	lines, err := s.store.ServiceLines().Filter(ctx, storage.Filter{"event_id": eventID})
	if err != nil {
		return composition.Composition{}, fmt.Errorf("failed to list service lines: %w", err)
	}
	return composition.Group(lines), nil
}

// Move repositions a line in an unsaved working list, using catalog defaults
// when the line leaves a package.
func (s *EventService) Move(ctx context.Context, lines []models.ServiceLine, id models.LineID, dest ordering.Destination, position int) ([]models.ServiceLine, error) {
	snap, err := s.catalog.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return ordering.Move(lines, id, dest, position, snap)
}

// VATRate returns the configured VAT rate.
func (s *EventService) VATRate() float64 {
	return s.vatRate
}
