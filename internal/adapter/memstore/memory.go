package memstore

import (
	"fmt"
	"sort"
	"sync"

	"apidoc/internal/domain"
	"apidoc/internal/port"
)

// MemoryStore keeps the model in memory. Used for dry runs and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	classes  map[string]map[string]domain.ClassModel
	packages map[string]domain.PackageIndex
	info     *domain.BuildInfo
}

var _ port.ModelStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		classes:  make(map[string]map[string]domain.ClassModel),
		packages: make(map[string]domain.PackageIndex),
	}
}

func (s *MemoryStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.classes = make(map[string]map[string]domain.ClassModel)
	s.packages = make(map[string]domain.PackageIndex)
	s.info = nil
	return nil
}

func (s *MemoryStore) PutClass(model domain.ClassModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byName, ok := s.classes[model.Package]
	if !ok {
		byName = make(map[string]domain.ClassModel)
		s.classes[model.Package] = byName
	}
	byName[model.Name] = model
	return nil
}

func (s *MemoryStore) GetClass(pkg, name string) (domain.ClassModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	model, ok := s.classes[pkg][name]
	if !ok {
		return domain.ClassModel{}, fmt.Errorf("class %s.%s: %w", pkg, name, domain.ErrNotFound)
	}
	return model, nil
}

func (s *MemoryStore) ListClasses(pkg string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.classes[pkg]))
	for name := range s.classes[pkg] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryStore) PutPackage(index domain.PackageIndex) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.packages[index.Package] = index
	return nil
}

func (s *MemoryStore) GetPackage(pkg string) (domain.PackageIndex, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	index, ok := s.packages[pkg]
	if !ok {
		return domain.PackageIndex{}, fmt.Errorf("package %s: %w", pkg, domain.ErrNotFound)
	}
	return index, nil
}

func (s *MemoryStore) PutBuildInfo(info domain.BuildInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.info = &info
	return nil
}

func (s *MemoryStore) GetBuildInfo() (domain.BuildInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.info == nil {
		return domain.BuildInfo{}, fmt.Errorf("build info: %w", domain.ErrNotFound)
	}
	return *s.info, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
