package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"apidoc/internal/domain"
)

// Config holds all configuration for the documentation model builder.
type Config struct {
	Build      BuildConfig       `yaml:"build"`
	Naming     NamingConfig      `yaml:"naming"`
	SideTables domain.SideTables `yaml:"side_tables"`
	Store      StoreConfig       `yaml:"store"`
	Logging    LoggingConfig     `yaml:"logging"`
}

// BuildConfig selects what gets documented.
type BuildConfig struct {
	DumpDir        string   `yaml:"dump_dir" validate:"required"`
	Includes       []string `yaml:"includes" validate:"min=1"`
	Excludes       []string `yaml:"excludes"`
	Packages       []string `yaml:"packages"`        // empty means every dumped package
	Classes        []string `yaml:"classes"`         // prefixes or doublestar patterns
	SideTablesFile string   `yaml:"side_tables_file"` // e.g. pyqgis_conf.yml
}

// NamingConfig describes the binding layer's naming conventions.
type NamingConfig struct {
	ClassPattern         string `yaml:"class_pattern" validate:"required"`
	PrivateModulePattern string `yaml:"private_module_pattern"`
	Role                 string `yaml:"role" validate:"required"`
	PrivacyMarker        string `yaml:"privacy_marker" validate:"required"`
	Constructor          string `yaml:"constructor" validate:"required"`
	CacheSize            int    `yaml:"cache_size" validate:"gte=0"`
}

// StoreConfig holds model store configuration.
type StoreConfig struct {
	Path string `yaml:"path"` // relative paths resolve against the working directory
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Build: BuildConfig{
			DumpDir:  "dump",
			Includes: []string{"**/*.yaml", "**/*.yml", "**/*.json"},
			Excludes: []string{"**/.git/**"},
		},
		Naming: NamingConfig{
			ClassPattern:         `Qgi?s[A-Z]\w+`,
			PrivateModulePattern: `qgis\._(?:core|gui|analysis|processing|server|3d)\.`,
			Role:                 ":py:class:",
			PrivacyMarker:        "_",
			Constructor:          "__init__",
			CacheSize:            4096,
		},
		SideTables: domain.SideTables{
			SkipMembers: []string{"staticMetaObject", "baseClass"},
			HiddenBases: []string{"wrapper", "simplewrapper", "object"},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if cfg.Build.SideTablesFile != "" {
		file := cfg.Build.SideTablesFile
		if !filepath.IsAbs(file) {
			file = filepath.Join(filepath.Dir(path), file)
		}
		if err := cfg.MergeSideTables(file); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for apidoc.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "apidoc.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".apidoc", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// MergeSideTables reads a standalone side-table file and merges it over the tables
// already configured. Lists are appended, maps are overlaid key by key.
func (c *Config) MergeSideTables(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read side tables: %w", err)
	}

	var t domain.SideTables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return fmt.Errorf("failed to parse side tables %s: %w", path, err)
	}

	st := &c.SideTables
	st.NonInstantiable = append(st.NonInstantiable, t.NonInstantiable...)
	st.Skipped = append(st.Skipped, t.Skipped...)
	st.SkipMembers = append(st.SkipMembers, t.SkipMembers...)
	st.HiddenBases = append(st.HiddenBases, t.HiddenBases...)
	st.SignalArguments = mergeMap(st.SignalArguments, t.SignalArguments)
	st.ExcludeMembers = mergeMap(st.ExcludeMembers, t.ExcludeMembers)
	st.GroupNames = mergeMap(st.GroupNames, t.GroupNames)
	return nil
}

func mergeMap[V any](dst, src map[string]V) map[string]V {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]V, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

var validate = validator.New()

// Validate checks struct constraints and that the naming patterns compile.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := regexp.Compile(c.Naming.ClassPattern); err != nil {
		return fmt.Errorf("invalid naming.class_pattern: %w", err)
	}
	if c.Naming.PrivateModulePattern != "" {
		if _, err := regexp.Compile(c.Naming.PrivateModulePattern); err != nil {
			return fmt.Errorf("invalid naming.private_module_pattern: %w", err)
		}
	}
	return nil
}

// ModelDBPath returns the path to the model database.
func (c *Config) ModelDBPath(dir string) string {
	if c.Store.Path != "" {
		if filepath.IsAbs(c.Store.Path) {
			return c.Store.Path
		}
		return filepath.Join(dir, c.Store.Path)
	}
	return filepath.Join(dir, ".apidoc", "model.db")
}

// EnsureDir ensures the directory holding the model database exists.
func EnsureDir(dbPath string) error {
	return os.MkdirAll(filepath.Dir(dbPath), 0755)
}
