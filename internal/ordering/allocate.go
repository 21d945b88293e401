// Package ordering owns every change to a line's order index and the variant
// rewrite that goes with moving a line between standalone and package context.
package ordering

import (
	"slices"

	"github.com/mmynk/eventbook/internal/composition"
	"github.com/mmynk/eventbook/internal/models"
)

const (
	// InitialIndex is the order index of the first line in an empty group.
	InitialIndex = 1000.0
	// Step is the gap left before the first or after the last line.
	Step = 100.0
)

// Allocate returns the order index for a line inserted at position within
// destination. Siblings are never renumbered: the result lies strictly between
// the neighbours (or one Step outside the ends).
func Allocate(destination []models.ServiceLine, position int) float64 {
	if len(destination) == 0 {
		return InitialIndex
	}

	sorted := slices.Clone(destination)
	composition.SortByOrder(sorted)

	switch {
	case position <= 0:
		return sorted[0].OrderIndex - Step
	case position >= len(sorted):
		return sorted[len(sorted)-1].OrderIndex + Step
	default:
		return (sorted[position-1].OrderIndex + sorted[position].OrderIndex) / 2
	}
}
