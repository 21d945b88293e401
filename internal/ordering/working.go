package ordering

import (
	"github.com/mmynk/eventbook/internal/catalog"
	"github.com/mmynk/eventbook/internal/composition"
	"github.com/mmynk/eventbook/internal/models"
)

// AddService appends a standalone line for svc at the end of the standalone list.
func AddService(lines []models.ServiceLine, eventID string, svc models.Service) []models.ServiceLine {
	comp := composition.Group(lines)
	line := models.ServiceLine{
		ID:           models.NewPlaceholderID(),
		EventID:      eventID,
		ServiceID:    svc.ID,
		CustomPrice:  models.AmountPtr(svc.BasePrice.Float()),
		Quantity:     1,
		IncludesVAT:  models.BoolPtr(svc.DefaultIncludesVAT),
		OrderIndex:   Allocate(comp.Standalone, len(comp.Standalone)),
		MinSuppliers: svc.DefaultMinSuppliers,
	}
	return append(models.CloneLines(lines), line)
}

// AddPackage instantiates a catalog package as a placeholder main line plus
// one child per member service, in catalog order.
func AddPackage(lines []models.ServiceLine, eventID string, pkg models.Package, snap *catalog.Snapshot) []models.ServiceLine {
	out := models.CloneLines(lines)
	mains := mainLines(lines)

	main := models.ServiceLine{
		ID:                 models.NewPlaceholderID(),
		EventID:            eventID,
		CustomPrice:        models.AmountPtr(pkg.PackagePrice.Float()),
		Quantity:           1,
		IncludesVAT:        models.BoolPtr(pkg.PackageIncludesVAT),
		OrderIndex:         Allocate(mains, len(mains)),
		IsPackageMainItem:  true,
		PackageID:          pkg.ID,
		PackageName:        pkg.Name,
		PackageDescription: pkg.Description,
		PackagePrice:       models.AmountPtr(pkg.PackagePrice.Float()),
		PackageIncludesVAT: models.BoolPtr(pkg.PackageIncludesVAT),
	}
	out = append(out, main)

	var members []models.ServiceLine
	for _, serviceID := range pkg.ServiceIDs {
		svc, _ := snap.Service(serviceID)
		child := models.ServiceLine{
			ID:           models.NewPlaceholderID(),
			EventID:      eventID,
			ServiceID:    serviceID,
			Quantity:     1,
			OrderIndex:   Allocate(members, len(members)),
			ParentLineID: main.ID,
			MinSuppliers: svc.DefaultMinSuppliers,
		}
		members = append(members, child)
		out = append(out, child)
	}
	return out
}

// RemoveLine deletes a line from the working list. Removing a package main
// line also removes its children.
func RemoveLine(lines []models.ServiceLine, id models.LineID) []models.ServiceLine {
	out := make([]models.ServiceLine, 0, len(lines))
	for _, l := range lines {
		if l.ID == id || (!l.ParentLineID.IsZero() && l.ParentLineID == id) {
			continue
		}
		out = append(out, l.Clone())
	}
	return out
}
