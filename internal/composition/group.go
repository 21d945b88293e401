// Package composition organizes a flat list of service lines into packages and
// standalone items.
package composition

import (
	"cmp"
	"slices"

	"github.com/mmynk/eventbook/internal/models"
)

// PackageGroup is one package as displayed and priced: a current-structure
// package headed by its main line, or a synthetic group of legacy members.
type PackageGroup struct {
	// Key is the main line's id for current packages, the shared package id for
	// legacy ones.
	Key string `json:"key"`

	// Legacy is true for groups rebuilt from legacy members.
	Legacy bool `json:"legacy"`

	// Main is the package main line. Nil for legacy groups.
	Main *models.ServiceLine `json:"main,omitempty"`

	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	IncludesVAT bool    `json:"includes_vat"`

	// Members are the bundled lines sorted by order index.
	Members []models.ServiceLine `json:"members"`
}

// Composition is the grouped view of an event's lines.
type Composition struct {
	Packages   []PackageGroup       `json:"packages"`
	Standalone []models.ServiceLine `json:"standalone"`
}

// Group partitions lines by variant. Groups appear in the order their defining
// line (main line, or first legacy member) was seen; members are sorted by
// order index. Standalone lines keep their input order. Children whose main
// line is missing are returned as standalone so they stay visible.
func Group(lines []models.ServiceLine) Composition {
	var (
		comp     Composition
		index    = make(map[string]int)
		children []models.ServiceLine
	)

	for _, line := range lines {
		switch line.Kind() {
		case models.KindPackageMain:
			key := line.ID.String()
			if _, ok := index[key]; ok {
				continue
			}
			main := line
			index[key] = len(comp.Packages)
			comp.Packages = append(comp.Packages, PackageGroup{
				Key:         key,
				Main:        &main,
				Name:        line.PackageName,
				Description: line.PackageDescription,
				Price:       line.Price(),
				Quantity:    line.Qty(),
				IncludesVAT: line.VATIncluded(),
			})
		case models.KindPackageChild:
			children = append(children, line)
		case models.KindLegacyMember:
			key := legacyKey(line.PackageID)
			pos, ok := index[key]
			if !ok {
				pos = len(comp.Packages)
				index[key] = pos
				comp.Packages = append(comp.Packages, PackageGroup{
					Key:         line.PackageID,
					Legacy:      true,
					Name:        line.PackageName,
					Description: line.PackageDescription,
					Price:       line.PackagePriceValue(),
					Quantity:    1,
					IncludesVAT: line.PackageVATIncluded(),
				})
			}
			comp.Packages[pos].Members = append(comp.Packages[pos].Members, line)
		default:
			comp.Standalone = append(comp.Standalone, line)
		}
	}

	for _, child := range children {
		pos, ok := index[child.ParentLineID.String()]
		if !ok {
			comp.Standalone = append(comp.Standalone, child)
			continue
		}
		comp.Packages[pos].Members = append(comp.Packages[pos].Members, child)
	}

	for i := range comp.Packages {
		SortByOrder(comp.Packages[i].Members)
	}
	return comp
}

// SortByOrder sorts lines by order index, keeping the relative order of ties.
func SortByOrder(lines []models.ServiceLine) {
	slices.SortStableFunc(lines, func(a, b models.ServiceLine) int {
		return cmp.Compare(a.OrderIndex, b.OrderIndex)
	})
}

// Find returns the group with the given key.
func (c Composition) Find(key string) (PackageGroup, bool) {
	for _, g := range c.Packages {
		if g.Key == key {
			return g, true
		}
	}
	return PackageGroup{}, false
}

// legacyKey keeps legacy package ids from colliding with main line ids in the
// lookup index.
func legacyKey(packageID string) string {
	return "legacy:" + packageID
}
