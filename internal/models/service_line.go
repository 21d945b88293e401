package models

import "slices"

// LineKind tags which of the mutually exclusive shapes a ServiceLine has.
type LineKind int

const (
	// KindStandalone is a line priced on its own.
	KindStandalone LineKind = iota
	// KindPackageMain is the priced head of a package.
	KindPackageMain
	// KindPackageChild is a service bundled under a package main line.
	KindPackageChild
	// KindLegacyMember is a pre-refactor package member grouped by PackageID.
	KindLegacyMember
)

func (k LineKind) String() string {
	switch k {
	case KindPackageMain:
		return "package_main"
	case KindPackageChild:
		return "package_child"
	case KindLegacyMember:
		return "legacy_member"
	default:
		return "standalone"
	}
}

// SupplierStatus is a supplier's answer for one service line.
type SupplierStatus string

const (
	SupplierPending   SupplierStatus = "pending"
	SupplierConfirmed SupplierStatus = "confirmed"
	SupplierRejected  SupplierStatus = "rejected"
)

// PickupPoint is one stop of a transport unit.
type PickupPoint struct {
	Time     string `json:"time"`
	Location string `json:"location"`
	Contact  string `json:"contact"`
}

// TransportUnit is one vehicle of a transport service with its ordered stops.
type TransportUnit struct {
	Name    string        `json:"name"`
	Pickups []PickupPoint `json:"pickups"`
}

// ServiceLine is a catalog Service instantiated for a single event.
type ServiceLine struct {
	// ID is either a persisted id or a placeholder for unsaved lines.
	ID LineID `json:"id"`

	// EventID is the owning event.
	EventID string `json:"event_id"`

	// ServiceID references the catalog Service. Package main lines may leave it empty.
	ServiceID string `json:"service_id"`

	// CustomPrice overrides the catalog price. Nil means "use the default".
	CustomPrice *Amount `json:"custom_price"`

	// Quantity multiplies the price. Values below 1 count as 1.
	Quantity int `json:"quantity"`

	// IncludesVAT tells whether CustomPrice already contains VAT. Nil means unset.
	IncludesVAT *bool `json:"includes_vat"`

	// OrderIndex is a float sort key; only relative order matters.
	OrderIndex float64 `json:"order_index"`

	// IsPackageMainItem marks the priced head of a package.
	IsPackageMainItem bool `json:"is_package_main_item"`

	// ParentLineID links a package child to its main line (real or placeholder).
	ParentLineID LineID `json:"parent_package_event_service_id"`

	// PackageID is the shared key of legacy package members, or the catalog
	// package a main line was created from.
	PackageID string `json:"package_id,omitempty"`

	PackageName        string  `json:"package_name,omitempty"`
	PackageDescription string  `json:"package_description,omitempty"`
	PackagePrice       *Amount `json:"package_price,omitempty"`
	PackageIncludesVAT *bool   `json:"package_includes_vat,omitempty"`

	// SupplierIDs are the suppliers assigned to this line.
	SupplierIDs []string `json:"supplier_ids,omitempty"`

	// SupplierStatuses holds each assigned supplier's answer.
	SupplierStatuses map[string]SupplierStatus `json:"supplier_statuses,omitempty"`

	// SupplierNotes holds free-text notes per supplier.
	SupplierNotes map[string]string `json:"supplier_notes,omitempty"`

	// MinSuppliers is the required supplier headcount.
	MinSuppliers int `json:"min_suppliers"`

	ClientNotes string `json:"client_notes,omitempty"`

	// TransportUnits is only meaningful for services in the transport category.
	TransportUnits []TransportUnit `json:"transport_units,omitempty"`
}

// Kind classifies the line. When stored fields overlap, main wins over child,
// child over legacy member.
func (l ServiceLine) Kind() LineKind {
	switch {
	case l.IsPackageMainItem:
		return KindPackageMain
	case !l.ParentLineID.IsZero():
		return KindPackageChild
	case l.PackageID != "":
		return KindLegacyMember
	default:
		return KindStandalone
	}
}

// Qty returns the effective quantity (at least 1).
func (l ServiceLine) Qty() int {
	if l.Quantity < 1 {
		return 1
	}
	return l.Quantity
}

// Price returns the line's own price, 0 when unset.
func (l ServiceLine) Price() float64 {
	return ValueOf(l.CustomPrice)
}

// VATIncluded reports the line's VAT flag, false when unset.
func (l ServiceLine) VATIncluded() bool {
	return l.IncludesVAT != nil && *l.IncludesVAT
}

// PackagePriceValue returns the package price carried on the line.
func (l ServiceLine) PackagePriceValue() float64 {
	return ValueOf(l.PackagePrice)
}

// PackageVATIncluded reports the package-level VAT flag, false when unset.
func (l ServiceLine) PackageVATIncluded() bool {
	return l.PackageIncludesVAT != nil && *l.PackageIncludesVAT
}

// SupplierCoverage returns how many assigned suppliers confirmed and how many
// are required.
func (l ServiceLine) SupplierCoverage() (confirmed, required int) {
	for _, id := range l.SupplierIDs {
		if l.SupplierStatuses[id] == SupplierConfirmed {
			confirmed++
		}
	}
	return confirmed, l.MinSuppliers
}

// Clone returns a deep copy so callers can rewrite a line without aliasing the
// original's maps and slices.
func (l ServiceLine) Clone() ServiceLine {
	out := l
	if l.CustomPrice != nil {
		out.CustomPrice = AmountPtr(l.CustomPrice.Float())
	}
	if l.IncludesVAT != nil {
		out.IncludesVAT = BoolPtr(*l.IncludesVAT)
	}
	if l.PackagePrice != nil {
		out.PackagePrice = AmountPtr(l.PackagePrice.Float())
	}
	if l.PackageIncludesVAT != nil {
		out.PackageIncludesVAT = BoolPtr(*l.PackageIncludesVAT)
	}
	out.SupplierIDs = slices.Clone(l.SupplierIDs)
	if l.SupplierStatuses != nil {
		out.SupplierStatuses = make(map[string]SupplierStatus, len(l.SupplierStatuses))
		for k, v := range l.SupplierStatuses {
			out.SupplierStatuses[k] = v
		}
	}
	if l.SupplierNotes != nil {
		out.SupplierNotes = make(map[string]string, len(l.SupplierNotes))
		for k, v := range l.SupplierNotes {
			out.SupplierNotes[k] = v
		}
	}
	if l.TransportUnits != nil {
		out.TransportUnits = make([]TransportUnit, len(l.TransportUnits))
		for i, u := range l.TransportUnits {
			out.TransportUnits[i] = TransportUnit{Name: u.Name, Pickups: slices.Clone(u.Pickups)}
		}
	}
	return out
}

// CloneLines deep-copies a slice of lines.
func CloneLines(lines []ServiceLine) []ServiceLine {
	if lines == nil {
		return nil
	}
	out := make([]ServiceLine, len(lines))
	for i, l := range lines {
		out[i] = l.Clone()
	}
	return out
}
