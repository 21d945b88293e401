package models

// CategoryTransport enables transport units on a service line.
const CategoryTransport = "transport"

// Service is a catalog entry. Lines reference it, they never own it.
type Service struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	BasePrice           Amount  `json:"base_price"`
	DefaultIncludesVAT  bool    `json:"default_includes_vat"`
	DefaultMinSuppliers int     `json:"default_min_suppliers"`
	DefaultOrderIndex   float64 `json:"default_order_index"`
	Category            string  `json:"category"`
}

// Package is a catalog bundle of services sold for one price.
type Package struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	PackagePrice       Amount   `json:"package_price"`
	PackageIncludesVAT bool     `json:"package_includes_vat"`
	ServiceIDs         []string `json:"service_ids"`
}

// Supplier provides services and is assigned to lines by id.
type Supplier struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Phone  string   `json:"phone"`
	Emails []string `json:"emails"`
}
