package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmynk/eventbook/internal/models"
	"github.com/mmynk/eventbook/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "eventbook-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_Events(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("Create generates ID, CreatedAt and default status", func(t *testing.T) {
		event, err := store.Events().Create(ctx, models.Event{
			Title:     "Wedding",
			EventDate: time.Date(2026, 6, 12, 18, 0, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if event.ID == "" {
			t.Error("Expected event ID to be generated")
		}
		if event.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
		if event.Status != models.StatusQuote {
			t.Errorf("Status = %q, want %q", event.Status, models.StatusQuote)
		}
	})

	t.Run("Get round-trips pricing fields", func(t *testing.T) {
		original, err := store.Events().Create(ctx, models.Event{
			Title:                    "Bar Mitzvah",
			EventDate:                time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			GuestCount:               120,
			AllInclusive:             true,
			AllInclusivePrice:        1180,
			AllInclusiveIncludesVAT:  true,
			TotalOverride:            models.AmountPtr(900),
			TotalOverrideIncludesVAT: models.BoolPtr(false),
			DiscountAmount:           50,
			DiscountBeforeVAT:        true,
			Status:                   models.StatusConfirmed,
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		got, err := store.Events().Get(ctx, original.ID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !got.EventDate.Equal(original.EventDate) {
			t.Errorf("EventDate = %v, want %v", got.EventDate, original.EventDate)
		}
		if got.AllInclusivePrice != 1180 || !got.AllInclusiveIncludesVAT {
			t.Errorf("all-inclusive fields mismatch: %+v", got)
		}
		if got.TotalOverride == nil || got.TotalOverride.Float() != 900 {
			t.Errorf("TotalOverride = %v, want 900", got.TotalOverride)
		}
		if got.TotalOverrideIncludesVAT == nil || *got.TotalOverrideIncludesVAT {
			t.Errorf("TotalOverrideIncludesVAT = %v, want explicit false", got.TotalOverrideIncludesVAT)
		}
		if got.Status != models.StatusConfirmed {
			t.Errorf("Status = %q, want confirmed", got.Status)
		}
	})

	t.Run("Get returns ErrNotFound for nonexistent event", func(t *testing.T) {
		_, err := store.Events().Get(ctx, "nonexistent-id")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Update of missing event returns ErrNotFound", func(t *testing.T) {
		_, err := store.Events().Update(ctx, "nonexistent-id", models.Event{Title: "x"})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestSQLiteStore_ServiceLines(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	lines := store.ServiceLines()

	t.Run("Create replaces placeholder id and keeps nested records", func(t *testing.T) {
		created, err := lines.Create(ctx, models.ServiceLine{
			ID:          models.NewPlaceholderID(),
			EventID:     "ev-1",
			ServiceID:   "bus",
			CustomPrice: models.AmountPtr(350),
			Quantity:    2,
			IncludesVAT: models.BoolPtr(true),
			OrderIndex:  1000.5,
			SupplierIDs: []string{"sup-1", "sup-2"},
			SupplierStatuses: map[string]models.SupplierStatus{
				"sup-1": models.SupplierConfirmed,
			},
			SupplierNotes: map[string]string{"sup-2": "call after 5"},
			TransportUnits: []models.TransportUnit{{
				Name:    "Bus 1",
				Pickups: []models.PickupPoint{{Time: "17:00", Location: "Main square", Contact: "Dana"}},
			}},
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		id, ok := created.ID.Persisted()
		if !ok || id == "" {
			t.Fatalf("Expected persisted id, got %v", created.ID)
		}

		got, err := lines.Get(ctx, id)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.Price() != 350 || got.Quantity != 2 || !got.VATIncluded() {
			t.Errorf("pricing fields mismatch: %+v", got)
		}
		if got.OrderIndex != 1000.5 {
			t.Errorf("OrderIndex = %v, want 1000.5", got.OrderIndex)
		}
		if len(got.SupplierIDs) != 2 || got.SupplierStatuses["sup-1"] != models.SupplierConfirmed {
			t.Errorf("supplier fields mismatch: %+v", got)
		}
		if got.SupplierNotes["sup-2"] != "call after 5" {
			t.Errorf("SupplierNotes = %v", got.SupplierNotes)
		}
		if len(got.TransportUnits) != 1 || got.TransportUnits[0].Pickups[0].Location != "Main square" {
			t.Errorf("TransportUnits = %+v", got.TransportUnits)
		}
		if got.CustomPrice == nil || got.PackagePrice != nil {
			t.Errorf("nullable prices not preserved: custom=%v package=%v", got.CustomPrice, got.PackagePrice)
		}
	})

	t.Run("Create rejects placeholder parent reference", func(t *testing.T) {
		_, err := lines.Create(ctx, models.ServiceLine{
			EventID:      "ev-1",
			ParentLineID: models.NewPlaceholderID(),
		})
		if !errors.Is(err, storage.ErrPlaceholderReference) {
			t.Errorf("Expected ErrPlaceholderReference, got %v", err)
		}
	})

	t.Run("Filter by event and bulk create", func(t *testing.T) {
		bulk, ok := lines.(storage.BulkCreator[models.ServiceLine])
		if !ok {
			t.Fatal("Expected service lines to support bulk create")
		}
		created, err := bulk.BulkCreate(ctx, []models.ServiceLine{
			{EventID: "ev-2", ServiceID: "dj", OrderIndex: 200},
			{EventID: "ev-2", ServiceID: "band", OrderIndex: 100},
		})
		if err != nil {
			t.Fatalf("BulkCreate failed: %v", err)
		}
		if len(created) != 2 {
			t.Fatalf("Expected 2 created lines, got %d", len(created))
		}

		got, err := lines.Filter(ctx, storage.Filter{"event_id": "ev-2"})
		if err != nil {
			t.Fatalf("Filter failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("Expected 2 lines, got %d", len(got))
		}
		if got[0].ServiceID != "band" {
			t.Errorf("Expected lines ordered by order_index, first = %s", got[0].ServiceID)
		}
	})

	t.Run("Filter rejects unknown fields", func(t *testing.T) {
		_, err := lines.Filter(ctx, storage.Filter{"client_notes": "x"})
		if !errors.Is(err, storage.ErrUnknownFilter) {
			t.Errorf("Expected ErrUnknownFilter, got %v", err)
		}
	})

	t.Run("Update and Delete", func(t *testing.T) {
		line, err := lines.Create(ctx, models.ServiceLine{EventID: "ev-3", ServiceID: "cake"})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		id, _ := line.ID.Persisted()

		line.ClientNotes = "three tiers"
		if _, err := lines.Update(ctx, id, line); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		got, err := lines.Get(ctx, id)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.ClientNotes != "three tiers" {
			t.Errorf("ClientNotes = %q", got.ClientNotes)
		}

		if err := lines.Delete(ctx, id); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if err := lines.Delete(ctx, id); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound on second delete, got %v", err)
		}
	})
}

func TestSQLiteStore_Catalog(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	pkg, err := store.Packages().Create(ctx, models.Package{
		Name:               "Gold",
		PackagePrice:       5000,
		PackageIncludesVAT: true,
		ServiceIDs:         []string{"dj", "band"},
	})
	if err != nil {
		t.Fatalf("Create package failed: %v", err)
	}
	got, err := store.Packages().Get(ctx, pkg.ID)
	if err != nil {
		t.Fatalf("Get package failed: %v", err)
	}
	if len(got.ServiceIDs) != 2 || got.ServiceIDs[1] != "band" {
		t.Errorf("ServiceIDs = %v", got.ServiceIDs)
	}

	if _, err := store.Services().Create(ctx, models.Service{ID: "bus", Name: "Bus", Category: models.CategoryTransport}); err != nil {
		t.Fatalf("Create service failed: %v", err)
	}
	transport, err := store.Services().Filter(ctx, storage.Filter{"category": models.CategoryTransport})
	if err != nil {
		t.Fatalf("Filter services failed: %v", err)
	}
	if len(transport) != 1 || transport[0].ID != "bus" {
		t.Errorf("Unexpected transport services: %+v", transport)
	}

	supplier, err := store.Suppliers().Create(ctx, models.Supplier{Name: "Sound Co", Emails: []string{"a@b.c"}})
	if err != nil {
		t.Fatalf("Create supplier failed: %v", err)
	}
	gotSupplier, err := store.Suppliers().Get(ctx, supplier.ID)
	if err != nil {
		t.Fatalf("Get supplier failed: %v", err)
	}
	if len(gotSupplier.Emails) != 1 {
		t.Errorf("Emails = %v", gotSupplier.Emails)
	}
}

func TestSQLiteStore_CreateDuplicateID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	supplier := models.Supplier{ID: "sup-1", Name: "Florist"}
	if _, err := store.Suppliers().Create(ctx, supplier); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	supplier.Name = "Other"
	_, err := store.Suppliers().Create(ctx, supplier)
	if !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	got, err := store.Suppliers().Get(ctx, "sup-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "Florist" {
		t.Errorf("Name = %q, want Florist", got.Name)
	}
}
