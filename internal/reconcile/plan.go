package reconcile

import (
	"github.com/mmynk/eventbook/internal/catalog"
	"github.com/mmynk/eventbook/internal/models"
)

// Plan is the set of store operations that turns the persisted lines into the
// desired ones.
type Plan struct {
	Creates []models.ServiceLine
	// Updates carry the persisted id they replace.
	Updates []models.ServiceLine
	Deletes []string
	// Unresolved lists children whose parent placeholder has no real id. They
	// are planned with an empty parent reference.
	Unresolved []models.LineID
}

// Len returns the number of store operations in the plan.
func (p Plan) Len() int {
	return len(p.Creates) + len(p.Updates) + len(p.Deletes)
}

// BuildPlan matches desired lines against persisted ones. Placeholder main
// lines belong to the parent creation step and are always skipped, whether or
// not they appear in tempIDs. Every other desired line is normalized and
// either claims a persisted line or is created.
//
// A desired line claims the persisted line with its id. Failing that it claims
// the first unclaimed persisted line with the same service id. When an event
// holds the same service twice, this fallback can pair a line with its twin's
// record.
func BuildPlan(eventID string, desired, persisted []models.ServiceLine, tempIDs map[models.LineID]string, snap *catalog.Snapshot) Plan {
	var plan Plan

	claimed := make([]bool, len(persisted))
	byID := make(map[string]int, len(persisted))
	for i, l := range persisted {
		if id, ok := l.ID.Persisted(); ok {
			byID[id] = i
		}
	}

	for _, line := range desired {
		if line.ID.IsPlaceholder() && line.Kind() == models.KindPackageMain {
			continue
		}

		var dangling bool
		if parent := line.ParentLineID; parent.IsPlaceholder() {
			if realID, ok := tempIDs[parent]; ok {
				line.ParentLineID = models.PersistedID(realID)
			} else {
				dangling = true
			}
		}

		normalized := Normalize(line, eventID, snap)
		if dangling {
			plan.Unresolved = append(plan.Unresolved, normalized.ID)
			normalized.ParentLineID = models.LineID{}
			normalized.CustomPrice = models.AmountPtr(0)
		}

		match := -1
		if id, ok := normalized.ID.Persisted(); ok {
			if i, found := byID[id]; found && !claimed[i] {
				match = i
			}
		}
		if match < 0 && normalized.ServiceID != "" {
			for i, p := range persisted {
				if !claimed[i] && p.ServiceID == normalized.ServiceID {
					match = i
					break
				}
			}
		}

		if match < 0 {
			normalized.ID = models.LineID{}
			plan.Creates = append(plan.Creates, normalized)
			continue
		}
		claimed[match] = true
		normalized.ID = persisted[match].ID
		plan.Updates = append(plan.Updates, normalized)
	}

	for i, l := range persisted {
		if claimed[i] {
			continue
		}
		if id, ok := l.ID.Persisted(); ok {
			plan.Deletes = append(plan.Deletes, id)
		}
	}
	return plan
}
