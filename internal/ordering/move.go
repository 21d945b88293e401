package ordering

import (
	"errors"
	"fmt"

	"github.com/mmynk/eventbook/internal/catalog"
	"github.com/mmynk/eventbook/internal/composition"
	"github.com/mmynk/eventbook/internal/models"
)

var (
	// ErrLineNotFound is returned when the moved line is not in the list.
	ErrLineNotFound = errors.New("line not found")
	// ErrUnknownPackage is returned when the destination package does not exist.
	ErrUnknownPackage = errors.New("unknown package")
	// ErrInvalidMove is returned for moves that would nest a package.
	ErrInvalidMove = errors.New("package main line cannot join a package")
)

// Destination names where a line is dropped. The zero value is the standalone
// list; Package holds a composition.PackageGroup key.
type Destination struct {
	Package string `json:"package,omitempty"`
}

// Move repositions the line with the given id at position inside dest and
// rewrites its variant fields when it changes context. The input is not
// modified; the returned list is a copy.
//
// Package main lines are only reordered among other main lines.
func Move(lines []models.ServiceLine, id models.LineID, dest Destination, position int, snap *catalog.Snapshot) ([]models.ServiceLine, error) {
	idx := indexOf(lines, id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrLineNotFound, id)
	}

	out := models.CloneLines(lines)
	line := out[idx]
	others := append(models.CloneLines(lines[:idx]), models.CloneLines(lines[idx+1:])...)

	if line.Kind() == models.KindPackageMain {
		if dest.Package != "" {
			return nil, ErrInvalidMove
		}
		line.OrderIndex = Allocate(mainLines(others), position)
		out[idx] = line
		return out, nil
	}

	comp := composition.Group(others)
	if dest.Package == "" {
		line.OrderIndex = Allocate(comp.Standalone, position)
		if kind := line.Kind(); kind != models.KindStandalone {
			toStandalone(&line, kind == models.KindPackageChild, snap)
		}
		out[idx] = line
		return out, nil
	}

	group, ok := comp.Find(dest.Package)
	if !ok {
		// A legacy group whose only member is the moved line.
		group, ok = composition.Group(lines).Find(dest.Package)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPackage, dest.Package)
		}
		group.Members = nil
	}
	line.OrderIndex = Allocate(group.Members, position)
	intoPackage(&line, group)
	out[idx] = line
	return out, nil
}

// toStandalone clears every package reference and restores catalog defaults.
// A former child's own price is never meaningful, so it always gets the
// catalog base price.
func toStandalone(line *models.ServiceLine, wasChild bool, snap *catalog.Snapshot) {
	clearPackageFields(line)
	line.ParentLineID = models.LineID{}

	svc, _ := snap.Service(line.ServiceID)
	line.IncludesVAT = models.BoolPtr(svc.DefaultIncludesVAT)
	if line.CustomPrice == nil || wasChild {
		line.CustomPrice = models.AmountPtr(svc.BasePrice.Float())
	}
}

// intoPackage makes the line a member of group. Its own price and VAT
// override are dropped because the package carries the price.
func intoPackage(line *models.ServiceLine, group composition.PackageGroup) {
	clearPackageFields(line)
	line.CustomPrice = nil
	line.IncludesVAT = nil

	if group.Legacy {
		line.ParentLineID = models.LineID{}
		line.PackageID = group.Key
		line.PackageName = group.Name
		line.PackageDescription = group.Description
		line.PackagePrice = models.AmountPtr(group.Price)
		line.PackageIncludesVAT = models.BoolPtr(group.IncludesVAT)
		return
	}
	line.ParentLineID = group.Main.ID
}

func clearPackageFields(line *models.ServiceLine) {
	line.IsPackageMainItem = false
	line.PackageID = ""
	line.PackageName = ""
	line.PackageDescription = ""
	line.PackagePrice = nil
	line.PackageIncludesVAT = nil
}

func indexOf(lines []models.ServiceLine, id models.LineID) int {
	for i, l := range lines {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func mainLines(lines []models.ServiceLine) []models.ServiceLine {
	var mains []models.ServiceLine
	for _, l := range lines {
		if l.Kind() == models.KindPackageMain {
			mains = append(mains, l)
		}
	}
	return mains
}
