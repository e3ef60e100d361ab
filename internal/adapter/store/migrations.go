package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"apidoc/config"
)

// CurrentSchemaVersion is the layout version of stored models.
// Increment this when making breaking changes to the storage format.
const CurrentSchemaVersion = 1

var (
	keySchemaVersion = []byte("schema_version")
	keyConfigHash    = []byte("config_hash")
)

// SchemaInfo stores schema version and configuration hash.
type SchemaInfo struct {
	Version    int    `json:"version"`
	ConfigHash string `json:"config_hash"`
}

// GetSchemaInfo retrieves the schema info from the database. A fresh database
// reports version 0.
func (s *BoltStore) GetSchemaInfo() (*SchemaInfo, error) {
	var info SchemaInfo
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketMeta)
		if data := b.Get(keySchemaVersion); data != nil {
			if err := json.Unmarshal(data, &info.Version); err != nil {
				return fmt.Errorf("corrupt schema version: %w", err)
			}
		}
		if data := b.Get(keyConfigHash); data != nil {
			info.ConfigHash = string(data)
		}
		return nil
	})
	return &info, err
}

// SetSchemaInfo stores the schema info in the database.
func (s *BoltStore) SetSchemaInfo(info *SchemaInfo) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketMeta)

		versionData, err := json.Marshal(info.Version)
		if err != nil {
			return err
		}
		if err := b.Put(keySchemaVersion, versionData); err != nil {
			return err
		}
		return b.Put(keyConfigHash, []byte(info.ConfigHash))
	})
}

// ComputeConfigHash hashes the configuration that shapes the model: naming
// conventions and side tables. A different hash means the stored model is stale.
func ComputeConfigHash(cfg *config.Config) string {
	relevant := struct {
		Naming     config.NamingConfig `json:"naming"`
		SideTables any                 `json:"side_tables"`
	}{
		Naming:     cfg.Naming,
		SideTables: cfg.SideTables,
	}
	relevant.Naming.CacheSize = 0

	// json.Marshal sorts map keys, so the hash is stable.
	data, _ := json.Marshal(relevant)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}

// Staleness describes whether a stored model still matches the running binary and config.
type Staleness struct {
	Stale      bool
	OldVersion int
	NewVersion int
	Reason     string
}

// CheckStaleness compares the recorded schema info against the current version and config.
func (s *BoltStore) CheckStaleness(cfg *config.Config) (*Staleness, error) {
	info, err := s.GetSchemaInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to get schema info: %w", err)
	}

	result := &Staleness{
		OldVersion: info.Version,
		NewVersion: CurrentSchemaVersion,
	}

	switch {
	case info.Version == 0:
		result.Stale = true
		result.Reason = "no model has been built"
	case info.Version < CurrentSchemaVersion:
		result.Stale = true
		result.Reason = fmt.Sprintf("model built with schema v%d, current is v%d", info.Version, CurrentSchemaVersion)
	case info.Version > CurrentSchemaVersion:
		result.Stale = true
		result.Reason = fmt.Sprintf("model created by newer version (v%d > v%d)", info.Version, CurrentSchemaVersion)
	case info.ConfigHash != ComputeConfigHash(cfg):
		result.Stale = true
		result.Reason = "naming or side-table configuration changed"
	}
	return result, nil
}

// Stamp records the current schema version and config hash.
func (s *BoltStore) Stamp(cfg *config.Config) error {
	return s.SetSchemaInfo(&SchemaInfo{
		Version:    CurrentSchemaVersion,
		ConfigHash: ComputeConfigHash(cfg),
	})
}
