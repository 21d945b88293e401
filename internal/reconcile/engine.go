// Package reconcile turns an edited list of service lines into store
// operations against the persisted lines of one event.
package reconcile

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/mmynk/eventbook/internal/catalog"
	"github.com/mmynk/eventbook/internal/metrics"
	"github.com/mmynk/eventbook/internal/models"
	"github.com/mmynk/eventbook/internal/storage"
)

// DefaultConcurrency bounds the store calls issued at once within a batch.
const DefaultConcurrency = 8

// Recorder observes each store operation the engine issues.
type Recorder interface {
	StoreOp(op string, err error)
}

// Outcome summarizes a reconciliation.
type Outcome struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Deleted int `json:"deleted"`
	// Failures counts store operations that returned an error.
	Failures int `json:"failures"`
	// Unresolved counts children saved without their parent reference.
	Unresolved int `json:"unresolved"`
	// TempIDs maps the text form of each placeholder main line to its new id.
	TempIDs map[string]string `json:"temp_ids"`
}

// Engine reconciles service lines for one event at a time. Calls for the same
// event must not overlap.
type Engine struct {
	lines       storage.Collection[models.ServiceLine]
	concurrency int
	logger      *slog.Logger
	recorder    Recorder
}

// Option configures an Engine.
type Option func(*Engine)

// WithConcurrency bounds the concurrent store calls per batch.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithLogger sets the logger used for per-item failures.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRecorder reports every store operation to r.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		e.recorder = r
	}
}

// New creates an Engine writing to lines.
func New(lines storage.Collection[models.ServiceLine], opts ...Option) *Engine {
	e := &Engine{
		lines:       lines,
		concurrency: DefaultConcurrency,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reconcile makes the stored lines of eventID match desired.
//
// Placeholder package main lines are created first so their children can
// reference the real ids. The remaining lines are planned with BuildPlan and
// executed as three sequential batches: deletes, updates, creates. Within a
// batch calls run concurrently. A failed call is logged and counted; it never
// stops the rest of the save and nothing is rolled back.
func (e *Engine) Reconcile(ctx context.Context, eventID string, desired, persisted []models.ServiceLine, snap *catalog.Snapshot) Outcome {
	var out Outcome

	tempIDs := e.createMains(ctx, eventID, desired, snap, &out)
	out.TempIDs = make(map[string]string, len(tempIDs))
	for placeholder, id := range tempIDs {
		out.TempIDs[placeholder.String()] = id
	}

	plan := BuildPlan(eventID, desired, persisted, tempIDs, snap)
	out.Unresolved = len(plan.Unresolved)
	for _, id := range plan.Unresolved {
		e.logger.Warn("parent package line was not created; saving child without parent",
			"event_id", eventID, "line_id", id.String())
	}

	e.deleteAll(ctx, plan.Deletes, &out)
	e.updateAll(ctx, plan.Updates, &out)
	e.createAll(ctx, plan.Creates, &out)

	e.logger.Info("reconciled service lines",
		"event_id", eventID,
		"created", out.Created,
		"updated", out.Updated,
		"deleted", out.Deleted,
		"failures", out.Failures,
	)
	return out
}

// createMains creates every placeholder package main line and returns the
// placeholder to real id map. Failed lines are left out of the map.
func (e *Engine) createMains(ctx context.Context, eventID string, desired []models.ServiceLine, snap *catalog.Snapshot, out *Outcome) map[models.LineID]string {
	var (
		mu      sync.Mutex
		tempIDs = make(map[models.LineID]string)
		g       errgroup.Group
	)
	g.SetLimit(e.concurrency)

	for _, line := range desired {
		if !line.ID.IsPlaceholder() || line.Kind() != models.KindPackageMain {
			continue
		}
		placeholder := line.ID
		record := Normalize(line, eventID, snap)
		record.ID = models.LineID{}

		g.Go(func() error {
			created, err := e.lines.Create(ctx, record)
			e.record(metrics.OpCreate, err)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				out.Failures++
				e.logger.Error("failed to create package line",
					"event_id", eventID, "placeholder", placeholder.String(), "error", err)
				return nil
			}
			id, _ := created.ID.Persisted()
			tempIDs[placeholder] = id
			out.Created++
			return nil
		})
	}
	_ = g.Wait()
	return tempIDs
}

func (e *Engine) deleteAll(ctx context.Context, ids []string, out *Outcome) {
	var deleted, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(e.concurrency)

	for _, id := range ids {
		g.Go(func() error {
			err := e.lines.Delete(ctx, id)
			e.record(metrics.OpDelete, err)
			if err != nil {
				failed.Add(1)
				e.logger.Error("failed to delete service line", "line_id", id, "error", err)
				return nil
			}
			deleted.Add(1)
			return nil
		})
	}
	_ = g.Wait()
	out.Deleted += int(deleted.Load())
	out.Failures += int(failed.Load())
}

func (e *Engine) updateAll(ctx context.Context, lines []models.ServiceLine, out *Outcome) {
	var updated, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(e.concurrency)

	for _, line := range lines {
		id, _ := line.ID.Persisted()
		g.Go(func() error {
			_, err := e.lines.Update(ctx, id, line)
			e.record(metrics.OpUpdate, err)
			if err != nil {
				failed.Add(1)
				e.logger.Error("failed to update service line", "line_id", id, "error", err)
				return nil
			}
			updated.Add(1)
			return nil
		})
	}
	_ = g.Wait()
	out.Updated += int(updated.Load())
	out.Failures += int(failed.Load())
}

// createAll uses one bulk call when the collection supports it. Records the
// bulk call did not create are retried one by one.
func (e *Engine) createAll(ctx context.Context, lines []models.ServiceLine, out *Outcome) {
	if len(lines) == 0 {
		return
	}

	if bulk, ok := e.lines.(storage.BulkCreator[models.ServiceLine]); ok {
		created, err := bulk.BulkCreate(ctx, lines)
		out.Created += len(created)
		if err == nil {
			e.record(metrics.OpCreate, nil)
			return
		}
		e.logger.Warn("bulk create failed; creating lines individually",
			"lines", len(lines)-len(created), "error", err)
		lines = lines[len(created):]
	}

	var createdN, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(e.concurrency)

	for _, line := range lines {
		g.Go(func() error {
			_, err := e.lines.Create(ctx, line)
			e.record(metrics.OpCreate, err)
			if err != nil {
				failed.Add(1)
				e.logger.Error("failed to create service line",
					"event_id", line.EventID, "service_id", line.ServiceID, "error", err)
				return nil
			}
			createdN.Add(1)
			return nil
		})
	}
	_ = g.Wait()
	out.Created += int(createdN.Load())
	out.Failures += int(failed.Load())
}

func (e *Engine) record(op string, err error) {
	if e.recorder != nil {
		e.recorder.StoreOp(op, err)
	}
}
