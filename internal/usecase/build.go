package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"apidoc/internal/domain"
	"apidoc/internal/port"
)

// BuildUseCase documents every selected class and hands the model to the store.
type BuildUseCase struct {
	source     port.Introspector
	store      port.ModelStore
	documenter *Documenter
	tables     domain.SideTables
	marker     string
}

// NewBuildUseCase creates a new build use case. marker is the privacy prefix that hides
// whole classes.
func NewBuildUseCase(
	source port.Introspector,
	store port.ModelStore,
	documenter *Documenter,
	tables domain.SideTables,
	marker string,
) *BuildUseCase {
	if marker == "" {
		marker = "_"
	}
	return &BuildUseCase{
		source:     source,
		store:      store,
		documenter: documenter,
		tables:     tables,
		marker:     marker,
	}
}

// BuildOptions selects what to build.
type BuildOptions struct {
	Packages      []string // empty means every package the source knows
	Classes       []string // name prefixes or doublestar patterns
	ConfigHash    string
	SchemaVersion int
}

// BuildResult contains the results of a build.
type BuildResult struct {
	Info     domain.BuildInfo
	Skipped  int
	Duration time.Duration
}

// ProgressFunc is called after each documented class.
type ProgressFunc func(done, total int, class string)

type packageClasses struct {
	pkg     string
	classes []domain.ClassInfo
}

// Build resets the store and rebuilds the model. Classes are documented one at a time;
// the first signature error aborts the build.
func (u *BuildUseCase) Build(ctx context.Context, opts BuildOptions, progress ProgressFunc) (*BuildResult, error) {
	start := time.Now()
	result := &BuildResult{}

	packages := opts.Packages
	if len(packages) == 0 {
		packages = u.source.Packages()
	}

	var selected []packageClasses
	total := 0
	for _, pkg := range packages {
		all, err := u.source.Classes(pkg)
		if err != nil {
			return nil, fmt.Errorf("failed to list classes: %w", err)
		}
		classes := u.ExtractClasses(all, opts.Classes)
		result.Skipped += len(all) - len(classes)
		total += len(classes)
		selected = append(selected, packageClasses{pkg: pkg, classes: classes})
	}

	if err := u.store.Reset(); err != nil {
		return nil, fmt.Errorf("failed to reset store: %w", err)
	}

	done := 0
	for _, sel := range selected {
		index := domain.PackageIndex{Package: sel.pkg}
		groups := make(map[string]*domain.GroupIndex)

		for _, class := range sel.classes {
			model, err := u.documenter.Document(ctx, class)
			if err != nil {
				return nil, fmt.Errorf("failed to document %s: %w", class.QualifiedName(), err)
			}
			if err := u.store.PutClass(model); err != nil {
				return nil, fmt.Errorf("failed to store %s: %w", class.QualifiedName(), err)
			}
			slog.Debug("documented class", "class", model.QualifiedName, "members", len(model.Members))

			key := class.GroupKey()
			g, ok := groups[key]
			if !ok {
				g = u.newGroup(sel.pkg, key)
				groups[key] = g
			}
			g.Rows = append(g.Rows, domain.ClassRow{Name: class.Name, Summary: model.Summary})

			done++
			if progress != nil {
				progress(done, total, class.Name)
			}
		}

		for _, g := range groups {
			index.Groups = append(index.Groups, *g)
		}
		sort.Slice(index.Groups, func(i, j int) bool {
			a, b := index.Groups[i], index.Groups[j]
			if a.Title != b.Title {
				return a.Title < b.Title
			}
			return a.Key < b.Key
		})
		if err := u.store.PutPackage(index); err != nil {
			return nil, fmt.Errorf("failed to store package %s: %w", sel.pkg, err)
		}
	}

	result.Info = domain.BuildInfo{
		ID:            uuid.NewString(),
		StartedAt:     start.UTC(),
		Packages:      packages,
		Classes:       done,
		SchemaVersion: opts.SchemaVersion,
		ConfigHash:    opts.ConfigHash,
	}
	if err := u.store.PutBuildInfo(result.Info); err != nil {
		return nil, fmt.Errorf("failed to store build info: %w", err)
	}

	result.Duration = time.Since(start)
	return result, nil
}

// ExtractClasses drops private, skipped and aliased classes, applies the class filters
// and sorts the rest by name.
func (u *BuildUseCase) ExtractClasses(classes []domain.ClassInfo, filters []string) []domain.ClassInfo {
	var out []domain.ClassInfo
	for _, c := range classes {
		switch {
		case strings.HasPrefix(c.Name, u.marker):
		case u.tables.IsSkipped(c.Name):
		case c.IsAlias():
			slog.Debug("skipping alias", "class", c.Name, "exported_as", c.ExportedName)
		case !matchesFilters(c.Name, filters):
		default:
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func matchesFilters(name string, filters []string) bool {
	if len(filters) == 0 {
		return true
	}
	for _, f := range filters {
		if strings.ContainsAny(f, "*?[{") {
			if ok, err := doublestar.Match(f, name); err == nil && ok {
				return true
			}
			continue
		}
		if strings.HasPrefix(name, f) {
			return true
		}
	}
	return false
}

// newGroup creates the index group for a group key. Ungrouped classes are listed under
// the package itself.
func (u *BuildUseCase) newGroup(pkg, key string) *domain.GroupIndex {
	bare := strings.ReplaceAll(pkg, "_", "")
	if key == "" {
		return &domain.GroupIndex{Title: pkg, Anchor: bare}
	}
	return &domain.GroupIndex{
		Key:    key,
		Title:  u.tables.GroupTitle(key),
		Anchor: GroupAnchor(pkg, key),
	}
}

// GroupAnchor derives the link target of a group: the package without underscores and
// the group path, joined and with dots replaced by underscores.
func GroupAnchor(pkg, group string) string {
	return strings.ReplaceAll(strings.ReplaceAll(pkg, "_", "")+"."+group, ".", "_")
}
