// Package catalog loads the service and package catalog used for defaults
// when lines are normalized or moved.
package catalog

import "github.com/mmynk/eventbook/internal/models"

// Snapshot is an immutable, indexed copy of the catalog. A nil Snapshot is
// valid and behaves as an empty catalog.
type Snapshot struct {
	services map[string]models.Service
	packages map[string]models.Package
}

// NewSnapshot indexes services and packages by id.
func NewSnapshot(services []models.Service, packages []models.Package) *Snapshot {
	s := &Snapshot{
		services: make(map[string]models.Service, len(services)),
		packages: make(map[string]models.Package, len(packages)),
	}
	for _, svc := range services {
		s.services[svc.ID] = svc
	}
	for _, pkg := range packages {
		s.packages[pkg.ID] = pkg
	}
	return s
}

// Service looks up a catalog service.
func (s *Snapshot) Service(id string) (models.Service, bool) {
	if s == nil || id == "" {
		return models.Service{}, false
	}
	svc, ok := s.services[id]
	return svc, ok
}

// Package looks up a catalog package.
func (s *Snapshot) Package(id string) (models.Package, bool) {
	if s == nil || id == "" {
		return models.Package{}, false
	}
	pkg, ok := s.packages[id]
	return pkg, ok
}

// Len returns the number of services and packages.
func (s *Snapshot) Len() (services, packages int) {
	if s == nil {
		return 0, 0
	}
	return len(s.services), len(s.packages)
}

// snapshotData is the cached wire form of a Snapshot.
type snapshotData struct {
	Services []models.Service `json:"services"`
	Packages []models.Package `json:"packages"`
}

func (s *Snapshot) data() snapshotData {
	var d snapshotData
	for _, svc := range s.services {
		d.Services = append(d.Services, svc)
	}
	for _, pkg := range s.packages {
		d.Packages = append(d.Packages, pkg)
	}
	return d
}
