package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Naming.Role != ":py:class:" {
		t.Errorf("expected Role=:py:class:, got %s", cfg.Naming.Role)
	}
	if cfg.Naming.Constructor != "__init__" {
		t.Errorf("expected Constructor=__init__, got %s", cfg.Naming.Constructor)
	}
	if len(cfg.SideTables.HiddenBases) != 3 {
		t.Errorf("expected 3 hidden bases, got %d", len(cfg.SideTables.HiddenBases))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "apidoc.yaml")

	content := `
build:
  dump_dir: out/dump
  classes: [QgsMapLayer]
naming:
  role: ":ref-to:"
side_tables:
  non-instantiable: [QgsAbstractThing]
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Build.DumpDir != "out/dump" {
		t.Errorf("expected DumpDir=out/dump, got %s", cfg.Build.DumpDir)
	}
	if cfg.Naming.Role != ":ref-to:" {
		t.Errorf("expected Role=:ref-to:, got %s", cfg.Naming.Role)
	}
	if cfg.Naming.PrivacyMarker != "_" {
		t.Errorf("expected default PrivacyMarker to survive, got %q", cfg.Naming.PrivacyMarker)
	}
	if !cfg.SideTables.IsNonInstantiable("QgsAbstractThing") {
		t.Error("expected QgsAbstractThing to be non-instantiable")
	}
}

func TestLoad_SideTablesFile(t *testing.T) {
	tmpDir := t.TempDir()

	tables := `
skipped: [QgsInternal]
group-names:
  core.Processing: Processing
`
	if err := os.WriteFile(filepath.Join(tmpDir, "pyqgis_conf.yml"), []byte(tables), 0644); err != nil {
		t.Fatal(err)
	}
	content := `
build:
  side_tables_file: pyqgis_conf.yml
side_tables:
  skipped: [QgsOther]
`
	configPath := filepath.Join(tmpDir, "apidoc.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !cfg.SideTables.IsSkipped("QgsInternal") || !cfg.SideTables.IsSkipped("QgsOther") {
		t.Errorf("expected both skip lists merged, got %v", cfg.SideTables.Skipped)
	}
	if cfg.SideTables.GroupNames["core.Processing"] != "Processing" {
		t.Errorf("expected group name merged, got %v", cfg.SideTables.GroupNames)
	}
}

func TestLoad_MissingSideTablesFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "apidoc.yaml")
	if err := os.WriteFile(configPath, []byte("build:\n  side_tables_file: missing.yml\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("expected error for missing side tables file")
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, ".apidoc"), 0755); err != nil {
		t.Fatal(err)
	}
	configPath := filepath.Join(tmpDir, ".apidoc", "config.yaml")

	content := `
logging:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected Level=debug, got %s", cfg.Logging.Level)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Naming.ClassPattern = "Qgs[A-Z"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for bad class pattern")
	}

	cfg = DefaultConfig()
	cfg.Logging.Level = "loud"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown log level")
	}

	cfg = DefaultConfig()
	cfg.Build.Includes = nil
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty includes")
	}
}

func TestModelDBPath(t *testing.T) {
	cfg := DefaultConfig()
	path := cfg.ModelDBPath("/home/user/project")
	expected := filepath.Join("/home/user/project", ".apidoc", "model.db")
	if path != expected {
		t.Errorf("expected %s, got %s", expected, path)
	}

	cfg.Store.Path = "build/model.db"
	path = cfg.ModelDBPath("/home/user/project")
	expected = filepath.Join("/home/user/project", "build", "model.db")
	if path != expected {
		t.Errorf("expected %s, got %s", expected, path)
	}
}
