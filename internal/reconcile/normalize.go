package reconcile

import (
	"slices"
	"strings"

	"github.com/mmynk/eventbook/internal/catalog"
	"github.com/mmynk/eventbook/internal/models"
)

// Normalize fills a line's fields for its variant so the stored record is
// self-describing. Price, VAT flag and description fall back from the
// explicit value to the package-level value to the catalog default.
func Normalize(line models.ServiceLine, eventID string, snap *catalog.Snapshot) models.ServiceLine {
	out := line.Clone()
	out.EventID = eventID
	if out.Quantity < 1 {
		out.Quantity = 1
	}

	svc, hasService := snap.Service(out.ServiceID)
	switch out.Kind() {
	case models.KindPackageMain:
		normalizeMain(&out, snap)
	case models.KindPackageChild:
		normalizeChild(&out)
	case models.KindLegacyMember:
		normalizeLegacy(&out, snap)
	default:
		normalizeStandalone(&out, svc, hasService)
	}

	if out.MinSuppliers <= 0 {
		out.MinSuppliers = svc.DefaultMinSuppliers
	}
	normalizeSuppliers(&out)
	// Units survive when the service is unknown to a possibly stale catalog.
	if !hasService || svc.Category == models.CategoryTransport {
		sortPickups(out.TransportUnits)
	} else {
		out.TransportUnits = nil
	}
	return out
}

func normalizeMain(l *models.ServiceLine, snap *catalog.Snapshot) {
	l.ParentLineID = models.LineID{}
	pkg, ok := snap.Package(l.PackageID)

	if l.PackagePrice == nil && ok {
		l.PackagePrice = models.AmountPtr(pkg.PackagePrice.Float())
	}
	if l.PackageIncludesVAT == nil && ok {
		l.PackageIncludesVAT = models.BoolPtr(pkg.PackageIncludesVAT)
	}
	if l.CustomPrice == nil {
		l.CustomPrice = models.AmountPtr(l.PackagePriceValue())
	}
	if l.IncludesVAT == nil {
		l.IncludesVAT = models.BoolPtr(l.PackageVATIncluded())
	}
	if l.PackageName == "" {
		l.PackageName = pkg.Name
	}
	if l.PackageDescription == "" {
		l.PackageDescription = pkg.Description
	}
}

// normalizeChild clears the child's own price and VAT override; the main line
// carries them.
func normalizeChild(l *models.ServiceLine) {
	l.PackageID = ""
	l.PackageName = ""
	l.PackageDescription = ""
	l.PackagePrice = nil
	l.PackageIncludesVAT = nil
	l.CustomPrice = nil
	l.IncludesVAT = nil
}

func normalizeLegacy(l *models.ServiceLine, snap *catalog.Snapshot) {
	pkg, ok := snap.Package(l.PackageID)
	if !ok {
		return
	}
	if l.PackagePrice == nil {
		l.PackagePrice = models.AmountPtr(pkg.PackagePrice.Float())
	}
	if l.PackageIncludesVAT == nil {
		l.PackageIncludesVAT = models.BoolPtr(pkg.PackageIncludesVAT)
	}
	if l.PackageName == "" {
		l.PackageName = pkg.Name
	}
	if l.PackageDescription == "" {
		l.PackageDescription = pkg.Description
	}
}

func normalizeStandalone(l *models.ServiceLine, svc models.Service, hasService bool) {
	if l.CustomPrice == nil {
		l.CustomPrice = models.AmountPtr(svc.BasePrice.Float())
	}
	if l.IncludesVAT == nil {
		l.IncludesVAT = models.BoolPtr(svc.DefaultIncludesVAT)
	}
	if l.OrderIndex == 0 && hasService {
		l.OrderIndex = svc.DefaultOrderIndex
	}
}

// normalizeSuppliers drops duplicate assignments and the statuses and notes
// of suppliers no longer assigned. New assignments start as pending.
func normalizeSuppliers(l *models.ServiceLine) {
	var ids []string
	for _, id := range l.SupplierIDs {
		if id != "" && !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	l.SupplierIDs = ids

	if len(ids) == 0 {
		l.SupplierStatuses = nil
		l.SupplierNotes = nil
		return
	}

	statuses := make(map[string]models.SupplierStatus, len(ids))
	notes := make(map[string]string)
	for _, id := range ids {
		switch status := l.SupplierStatuses[id]; status {
		case models.SupplierConfirmed, models.SupplierRejected:
			statuses[id] = status
		default:
			statuses[id] = models.SupplierPending
		}
		if note := l.SupplierNotes[id]; note != "" {
			notes[id] = note
		}
	}
	l.SupplierStatuses = statuses
	l.SupplierNotes = notes
	if len(notes) == 0 {
		l.SupplierNotes = nil
	}
}

func sortPickups(units []models.TransportUnit) {
	for i := range units {
		slices.SortStableFunc(units[i].Pickups, func(a, b models.PickupPoint) int {
			return strings.Compare(a.Time, b.Time)
		})
	}
}
