package port

import "apidoc/internal/domain"

// ModelStore holds the finished documentation model for the external assembler.
type ModelStore interface {
	// Reset drops everything from a previous build.
	Reset() error

	PutClass(model domain.ClassModel) error

	GetClass(pkg, name string) (domain.ClassModel, error)

	ListClasses(pkg string) ([]string, error)

	PutPackage(index domain.PackageIndex) error

	GetPackage(pkg string) (domain.PackageIndex, error)

	PutBuildInfo(info domain.BuildInfo) error

	GetBuildInfo() (domain.BuildInfo, error)

	Close() error
}
