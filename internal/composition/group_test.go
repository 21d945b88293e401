package composition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/eventbook/internal/models"
)

func TestGroup_MixedStructures(t *testing.T) {
	mainID := models.PersistedID("P")
	lines := []models.ServiceLine{
		{ID: models.PersistedID("s1"), ServiceID: "photo", OrderIndex: 10},
		{ID: models.PersistedID("c2"), ServiceID: "dj", ParentLineID: mainID, OrderIndex: 300},
		{ID: mainID, IsPackageMainItem: true, PackageName: "Gold", CustomPrice: models.AmountPtr(5000), OrderIndex: 50},
		{ID: models.PersistedID("c1"), ServiceID: "band", ParentLineID: mainID, OrderIndex: 200},
		{ID: models.PersistedID("l1"), ServiceID: "flowers", PackageID: "L", PackageName: "Legacy", PackagePrice: models.AmountPtr(800)},
	}

	comp := Group(lines)

	require.Len(t, comp.Packages, 2)
	assert.Len(t, comp.Standalone, 1)
	assert.Equal(t, "s1", comp.Standalone[0].ID.String())

	current := comp.Packages[0]
	assert.Equal(t, "P", current.Key)
	assert.False(t, current.Legacy)
	require.NotNil(t, current.Main)
	assert.Equal(t, "Gold", current.Name)
	assert.Equal(t, 5000.0, current.Price)
	require.Len(t, current.Members, 2)
	assert.Equal(t, "c1", current.Members[0].ID.String())
	assert.Equal(t, "c2", current.Members[1].ID.String())

	legacy := comp.Packages[1]
	assert.Equal(t, "L", legacy.Key)
	assert.True(t, legacy.Legacy)
	assert.Nil(t, legacy.Main)
	assert.Equal(t, 800.0, legacy.Price)
	assert.Len(t, legacy.Members, 1)
}

func TestGroup_FirstSeenOrder(t *testing.T) {
	lines := []models.ServiceLine{
		{ID: models.PersistedID("b1"), PackageID: "B", OrderIndex: 2},
		{ID: models.PersistedID("A"), IsPackageMainItem: true},
		{ID: models.PersistedID("b2"), PackageID: "B", OrderIndex: 1},
	}

	comp := Group(lines)

	require.Len(t, comp.Packages, 2)
	assert.Equal(t, "B", comp.Packages[0].Key)
	assert.Equal(t, "A", comp.Packages[1].Key)
	assert.Equal(t, "b2", comp.Packages[0].Members[0].ID.String())
	assert.Empty(t, comp.Packages[1].Members)
}

func TestGroup_PlaceholderParent(t *testing.T) {
	mainID := models.NewPlaceholderID()
	lines := []models.ServiceLine{
		{ID: mainID, IsPackageMainItem: true},
		{ID: models.NewPlaceholderID(), ParentLineID: mainID},
	}

	comp := Group(lines)

	require.Len(t, comp.Packages, 1)
	assert.Len(t, comp.Packages[0].Members, 1)
	assert.Empty(t, comp.Standalone)
}

func TestGroup_OrphanChildStaysVisible(t *testing.T) {
	lines := []models.ServiceLine{
		{ID: models.PersistedID("c1"), ParentLineID: models.PersistedID("gone")},
	}

	comp := Group(lines)

	assert.Empty(t, comp.Packages)
	require.Len(t, comp.Standalone, 1)
	assert.Equal(t, "c1", comp.Standalone[0].ID.String())
}

func TestGroup_Empty(t *testing.T) {
	comp := Group(nil)
	assert.Empty(t, comp.Packages)
	assert.Empty(t, comp.Standalone)
}
