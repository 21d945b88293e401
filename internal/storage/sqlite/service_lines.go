package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/mmynk/eventbook/internal/models"
	"github.com/mmynk/eventbook/internal/storage"
)

func newServiceLineTable(db *sql.DB) *table[models.ServiceLine] {
	return &table[models.ServiceLine]{
		db:   db,
		name: "service_lines",
		columns: []string{
			"id", "event_id", "service_id", "custom_price", "quantity", "includes_vat", "order_index",
			"is_package_main_item", "parent_line_id", "package_id", "package_name",
			"package_description", "package_price", "package_includes_vat",
			"supplier_ids", "supplier_statuses", "supplier_notes", "min_suppliers",
			"client_notes", "transport_units",
		},
		orderBy: "order_index, rowid",
		filters: []string{"event_id", "service_id", "parent_line_id", "package_id"},
		id: func(l models.ServiceLine) string {
			id, _ := l.ID.Persisted()
			return id
		},
		withID: func(l models.ServiceLine, id string) models.ServiceLine {
			l.ID = models.PersistedID(id)
			return l
		},
		prepare: func(l models.ServiceLine) (models.ServiceLine, error) {
			if l.ParentLineID.IsPlaceholder() {
				return l, fmt.Errorf("%w: parent %s", storage.ErrPlaceholderReference, l.ParentLineID)
			}
			if l.Quantity < 1 {
				l.Quantity = 1
			}
			return l, nil
		},
		values: serviceLineValues,
		scan:   scanServiceLine,
	}
}

func serviceLineValues(l models.ServiceLine) ([]any, error) {
	supplierIDs, err := encodeJSON(nonNil(l.SupplierIDs))
	if err != nil {
		return nil, err
	}
	statuses, err := encodeJSON(nonNilMap(l.SupplierStatuses))
	if err != nil {
		return nil, err
	}
	notes, err := encodeJSON(nonNilMap(l.SupplierNotes))
	if err != nil {
		return nil, err
	}
	units, err := encodeJSON(nonNil(l.TransportUnits))
	if err != nil {
		return nil, err
	}
	parentID, _ := l.ParentLineID.Persisted()

	return []any{
		l.EventID, l.ServiceID, nullAmount(l.CustomPrice), l.Quantity, nullBool(l.IncludesVAT), l.OrderIndex,
		l.IsPackageMainItem, parentID, l.PackageID, l.PackageName,
		l.PackageDescription, nullAmount(l.PackagePrice), nullBool(l.PackageIncludesVAT),
		supplierIDs, statuses, notes, l.MinSuppliers,
		l.ClientNotes, units,
	}, nil
}

func scanServiceLine(row scanner) (models.ServiceLine, error) {
	var (
		l                                   models.ServiceLine
		id, parentID                        string
		customPrice, packagePrice           sql.NullFloat64
		includesVAT, packageIncludesVAT     sql.NullBool
		supplierIDs, statuses, notes, units string
	)
	err := row.Scan(
		&id, &l.EventID, &l.ServiceID, &customPrice, &l.Quantity, &includesVAT, &l.OrderIndex,
		&l.IsPackageMainItem, &parentID, &l.PackageID, &l.PackageName,
		&l.PackageDescription, &packagePrice, &packageIncludesVAT,
		&supplierIDs, &statuses, &notes, &l.MinSuppliers,
		&l.ClientNotes, &units,
	)
	if err != nil {
		return l, err
	}

	l.ID = models.PersistedID(id)
	if parentID != "" {
		l.ParentLineID = models.PersistedID(parentID)
	}
	l.CustomPrice = amountFromNull(customPrice)
	l.PackagePrice = amountFromNull(packagePrice)
	l.IncludesVAT = boolFromNull(includesVAT)
	l.PackageIncludesVAT = boolFromNull(packageIncludesVAT)

	for _, col := range []struct {
		raw  string
		dest any
	}{
		{supplierIDs, &l.SupplierIDs},
		{statuses, &l.SupplierStatuses},
		{notes, &l.SupplierNotes},
		{units, &l.TransportUnits},
	} {
		if err := decodeJSON(col.raw, col.dest); err != nil {
			return l, err
		}
	}
	return l, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func nonNilMap[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return map[K]V{}
	}
	return m
}
