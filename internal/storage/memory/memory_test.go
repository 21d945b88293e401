package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/eventbook/internal/models"
	"github.com/mmynk/eventbook/internal/storage"
)

func TestCreateRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	suppliers := New().Suppliers()

	_, err := suppliers.Create(ctx, models.Supplier{ID: "sup-1", Name: "Florist"})
	require.NoError(t, err)

	_, err = suppliers.Create(ctx, models.Supplier{ID: "sup-1", Name: "Other"})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	got, err := suppliers.Get(ctx, "sup-1")
	require.NoError(t, err)
	assert.Equal(t, "Florist", got.Name)

	all, err := suppliers.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestServiceLinesRejectPlaceholderParent(t *testing.T) {
	ctx := context.Background()
	lines := New().ServiceLines()

	_, err := lines.Create(ctx, models.ServiceLine{ServiceID: "dj", ParentLineID: models.NewPlaceholderID()})
	assert.ErrorIs(t, err, storage.ErrPlaceholderReference)

	created, err := lines.Create(ctx, models.ServiceLine{ID: models.NewPlaceholderID(), EventID: "ev-1", ServiceID: "dj"})
	require.NoError(t, err)
	_, persisted := created.ID.Persisted()
	assert.True(t, persisted)

	byEvent, err := lines.Filter(ctx, storage.Filter{"event_id": "ev-1"})
	require.NoError(t, err)
	assert.Len(t, byEvent, 1)
}
