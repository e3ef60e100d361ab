package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apidoc/config"
	"apidoc/internal/domain"
)

func openStore(t *testing.T) *BoltStore {
	t.Helper()
	s, err := NewBoltStore(filepath.Join(t.TempDir(), "model.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBoltStore_ClassRoundTrip(t *testing.T) {
	s := openStore(t)

	model := domain.ClassModel{
		Package:       "core",
		Name:          "QgsPoint",
		QualifiedName: "qgis.core.QgsPoint",
		Summary:       "A point.",
		Listings:      []domain.Listing{{Category: "Methods", Names: []string{"x", "y"}}},
		Members: []domain.CallableDoc{{
			Name: "x",
			Kind: domain.KindMethod,
			Overloads: []domain.DocumentedOverload{{
				SignatureText: "x(self) -> float",
				Signature:     &domain.Signature{Name: "x", Params: []domain.Param{{Name: "self"}}, ReturnType: "float"},
				Description:   []string{"", ":rtype: float"},
			}},
		}},
	}
	require.NoError(t, s.PutClass(model))

	got, err := s.GetClass("core", "QgsPoint")
	require.NoError(t, err)
	assert.Equal(t, model, got)
}

func TestBoltStore_ListClassesByPackage(t *testing.T) {
	s := openStore(t)
	for _, m := range []domain.ClassModel{
		{Package: "core", Name: "QgsPoint"},
		{Package: "core", Name: "QgsLine"},
		{Package: "core_extra", Name: "QgsOther"},
		{Package: "gui", Name: "QgsMapCanvas"},
	} {
		require.NoError(t, s.PutClass(m))
	}

	names, err := s.ListClasses("core")
	require.NoError(t, err)
	assert.Equal(t, []string{"QgsLine", "QgsPoint"}, names)
}

func TestBoltStore_NotFound(t *testing.T) {
	s := openStore(t)

	_, err := s.GetClass("core", "QgsNope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.GetPackage("core")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.GetBuildInfo()
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBoltStore_ResetKeepsSchemaInfo(t *testing.T) {
	s := openStore(t)
	cfg := config.DefaultConfig()
	require.NoError(t, s.Stamp(cfg))
	require.NoError(t, s.PutClass(domain.ClassModel{Package: "core", Name: "QgsPoint"}))
	require.NoError(t, s.PutPackage(domain.PackageIndex{Package: "core"}))
	require.NoError(t, s.PutBuildInfo(domain.BuildInfo{ID: "b1", StartedAt: time.Unix(100, 0).UTC()}))

	require.NoError(t, s.Reset())

	_, err := s.GetClass("core", "QgsPoint")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.GetBuildInfo()
	assert.ErrorIs(t, err, domain.ErrNotFound)

	info, err := s.GetSchemaInfo()
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, info.Version)
}

func TestBoltStore_BuildInfo(t *testing.T) {
	s := openStore(t)
	info := domain.BuildInfo{
		ID:            "b1",
		StartedAt:     time.Unix(100, 0).UTC(),
		Packages:      []string{"core"},
		Classes:       3,
		SchemaVersion: CurrentSchemaVersion,
	}
	require.NoError(t, s.PutBuildInfo(info))

	got, err := s.GetBuildInfo()
	require.NoError(t, err)
	assert.Equal(t, info, got)
}

func TestCheckStaleness(t *testing.T) {
	s := openStore(t)
	cfg := config.DefaultConfig()

	res, err := s.CheckStaleness(cfg)
	require.NoError(t, err)
	assert.True(t, res.Stale, "fresh database has no model")

	require.NoError(t, s.Stamp(cfg))
	res, err = s.CheckStaleness(cfg)
	require.NoError(t, err)
	assert.False(t, res.Stale)

	changed := config.DefaultConfig()
	changed.SideTables.Skipped = []string{"QgsInternal"}
	res, err = s.CheckStaleness(changed)
	require.NoError(t, err)
	assert.True(t, res.Stale)
	assert.Contains(t, res.Reason, "configuration changed")
}

func TestComputeConfigHash_IgnoresCacheSize(t *testing.T) {
	a := config.DefaultConfig()
	b := config.DefaultConfig()
	b.Naming.CacheSize = 1

	assert.Equal(t, ComputeConfigHash(a), ComputeConfigHash(b))
}
