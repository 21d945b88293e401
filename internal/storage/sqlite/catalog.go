package sqlite

import (
	"database/sql"

	"github.com/mmynk/eventbook/internal/models"
)

func newServiceTable(db *sql.DB) *table[models.Service] {
	return &table[models.Service]{
		db:   db,
		name: "services",
		columns: []string{
			"id", "name", "base_price", "default_includes_vat",
			"default_min_suppliers", "default_order_index", "category",
		},
		orderBy: "default_order_index, name",
		filters: []string{"category"},
		id:      func(s models.Service) string { return s.ID },
		withID: func(s models.Service, id string) models.Service {
			s.ID = id
			return s
		},
		values: func(s models.Service) ([]any, error) {
			return []any{
				s.Name, s.BasePrice.Float(), s.DefaultIncludesVAT,
				s.DefaultMinSuppliers, s.DefaultOrderIndex, s.Category,
			}, nil
		},
		scan: func(row scanner) (models.Service, error) {
			var (
				s         models.Service
				basePrice float64
			)
			err := row.Scan(&s.ID, &s.Name, &basePrice, &s.DefaultIncludesVAT,
				&s.DefaultMinSuppliers, &s.DefaultOrderIndex, &s.Category)
			s.BasePrice = models.Amount(basePrice)
			return s, err
		},
	}
}

func newPackageTable(db *sql.DB) *table[models.Package] {
	return &table[models.Package]{
		db:      db,
		name:    "packages",
		columns: []string{"id", "name", "description", "package_price", "package_includes_vat", "service_ids"},
		orderBy: "name",
		id:      func(p models.Package) string { return p.ID },
		withID: func(p models.Package, id string) models.Package {
			p.ID = id
			return p
		},
		values: func(p models.Package) ([]any, error) {
			serviceIDs, err := encodeJSON(nonNil(p.ServiceIDs))
			if err != nil {
				return nil, err
			}
			return []any{p.Name, p.Description, p.PackagePrice.Float(), p.PackageIncludesVAT, serviceIDs}, nil
		},
		scan: func(row scanner) (models.Package, error) {
			var (
				p          models.Package
				price      float64
				serviceIDs string
			)
			if err := row.Scan(&p.ID, &p.Name, &p.Description, &price, &p.PackageIncludesVAT, &serviceIDs); err != nil {
				return p, err
			}
			p.PackagePrice = models.Amount(price)
			return p, decodeJSON(serviceIDs, &p.ServiceIDs)
		},
	}
}

func newSupplierTable(db *sql.DB) *table[models.Supplier] {
	return &table[models.Supplier]{
		db:      db,
		name:    "suppliers",
		columns: []string{"id", "name", "phone", "emails"},
		orderBy: "name",
		filters: []string{"name"},
		id:      func(s models.Supplier) string { return s.ID },
		withID: func(s models.Supplier, id string) models.Supplier {
			s.ID = id
			return s
		},
		values: func(s models.Supplier) ([]any, error) {
			emails, err := encodeJSON(nonNil(s.Emails))
			if err != nil {
				return nil, err
			}
			return []any{s.Name, s.Phone, emails}, nil
		},
		scan: func(row scanner) (models.Supplier, error) {
			var (
				s      models.Supplier
				emails string
			)
			if err := row.Scan(&s.ID, &s.Name, &s.Phone, &emails); err != nil {
				return s, err
			}
			return s, decodeJSON(emails, &s.Emails)
		},
	}
}
