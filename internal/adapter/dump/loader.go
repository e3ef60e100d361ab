// Package dump reads introspection dumps produced by running the binding layer
// under its own interpreter. A dump file describes one package:
//
//	package: core
//	module: qgis.core
//	classes:
//	  - name: QgsMapLayer
//	    bases: [QObject]
//	    members: [...]
//
// JSON dumps with the same shape are accepted too.
package dump

import (
	"fmt"
	"log/slog"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"apidoc/internal/domain"
	"apidoc/internal/port"
)

// File is the on-disk layout of one dump.
type File struct {
	Package string             `yaml:"package"`
	Module  string             `yaml:"module"`
	Classes []domain.ClassInfo `yaml:"classes"`
}

// Introspector serves classes loaded from dump files.
type Introspector struct {
	order    []string
	packages map[string][]domain.ClassInfo
	byName   map[string]domain.ClassInfo
}

var _ port.Introspector = (*Introspector)(nil)

// Load walks root for dump files and merges them. Files naming the same package are
// concatenated in walk order.
func Load(root string, walker port.FileWalker) (*Introspector, error) {
	files, err := walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk dump dir: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no dump files found under %s", root)
	}

	in := New()
	for _, f := range files {
		data, err := os.ReadFile(f.Path)
		if err != nil {
			return nil, err
		}
		var df File
		if err := yaml.Unmarshal(data, &df); err != nil {
			return nil, fmt.Errorf("failed to parse dump %s: %w", f.Path, err)
		}
		if df.Package == "" {
			return nil, fmt.Errorf("dump %s has no package", f.Path)
		}
		slog.Debug("loaded dump", "path", f.Path, "package", df.Package, "classes", len(df.Classes))
		in.Add(df)
	}
	return in, nil
}

func New() *Introspector {
	return &Introspector{
		packages: make(map[string][]domain.ClassInfo),
		byName:   make(map[string]domain.ClassInfo),
	}
}

// Add registers the classes of one dump. Classes inherit the dump's package and
// module when they do not name their own.
func (in *Introspector) Add(df File) {
	if _, ok := in.packages[df.Package]; !ok {
		in.order = append(in.order, df.Package)
	}
	for _, c := range df.Classes {
		if c.Package == "" {
			c.Package = df.Package
		}
		if c.Module == "" {
			c.Module = df.Module
		}
		in.packages[df.Package] = append(in.packages[df.Package], c)
		if _, dup := in.byName[c.Name]; !dup {
			in.byName[c.Name] = c
		}
	}
}

func (in *Introspector) Packages() []string {
	out := make([]string, len(in.order))
	copy(out, in.order)
	return out
}

func (in *Introspector) Classes(pkg string) ([]domain.ClassInfo, error) {
	classes, ok := in.packages[pkg]
	if !ok {
		return nil, fmt.Errorf("package %s: %w", pkg, domain.ErrNotFound)
	}
	out := make([]domain.ClassInfo, len(classes))
	copy(out, classes)
	return out, nil
}

func (in *Introspector) LookupClass(name string) (domain.ClassInfo, bool) {
	c, ok := in.byName[name]
	return c, ok
}

// ClassNames lists every loaded class name, sorted.
func (in *Introspector) ClassNames() []string {
	names := make([]string, 0, len(in.byName))
	for n := range in.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
