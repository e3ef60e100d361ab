package port

import "apidoc/internal/domain"

// Introspector exposes the classes an external introspection run captured.
type Introspector interface {
	// Packages returns the package names in load order.
	Packages() []string

	// Classes returns every class exported by a package.
	Classes(pkg string) ([]domain.ClassInfo, error)

	// LookupClass finds a class by name in any package. Used for ancestor lookups.
	LookupClass(name string) (domain.ClassInfo, bool)
}
