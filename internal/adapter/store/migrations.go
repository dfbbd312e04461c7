package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"go.etcd.io/bbolt"

	"pinterf/config"
)

// CurrentSchemaVersion is the current schema version.
// Increment this when making breaking changes to the storage format.
const CurrentSchemaVersion = 1

var (
	keySchemaVersion = []byte("schema_version")
	keyFingerprint   = []byte("fingerprint")
)

// SchemaInfo stores the schema version and the fingerprint of the inputs
// the stored cells belong to.
type SchemaInfo struct {
	Version     int    `json:"version"`
	Fingerprint string `json:"fingerprint"`
}

// GetSchemaInfo retrieves the current schema info from the database.
func (s *BoltStore) GetSchemaInfo() (*SchemaInfo, error) {
	var info SchemaInfo
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketMeta)
		if b == nil {
			return nil
		}

		if versionData := b.Get(keySchemaVersion); versionData != nil {
			if err := json.Unmarshal(versionData, &info.Version); err != nil {
				return fmt.Errorf("corrupt schema version: %w", err)
			}
		}
		if fp := b.Get(keyFingerprint); fp != nil {
			info.Fingerprint = string(fp)
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
		return b.Put(keyFingerprint, []byte(info.Fingerprint))
	})
}

// ComputeConfigHash hashes the configuration that changes cell values.
// It is folded into the input fingerprint.
func ComputeConfigHash(cfg *config.Config) string {
	relevant := struct {
		DistanceScale float64 `json:"distance_scale"`
	}{
		DistanceScale: cfg.Score.DistanceScale,
	}

	data, _ := json.Marshal(relevant)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}

// MigrationResult describes the result of a migration check.
type MigrationResult struct {
	NeedsMigration bool
	NeedsRebuild   bool
	OldVersion     int
	NewVersion     int
	Reason         string
}

// CheckMigration compares the stored schema and fingerprint with the
// current ones.
func (s *BoltStore) CheckMigration(fingerprint string) (*MigrationResult, error) {
	info, err := s.GetSchemaInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to get schema info: %w", err)
	}

	result := &MigrationResult{
		OldVersion: info.Version,
		NewVersion: CurrentSchemaVersion,
	}

	switch {
	case info.Version == 0:
		result.NeedsMigration = true
		result.Reason = "initializing schema version"
	case info.Version < CurrentSchemaVersion:
		result.NeedsMigration = true
		result.Reason = fmt.Sprintf("schema upgrade from v%d to v%d", info.Version, CurrentSchemaVersion)
	case info.Version > CurrentSchemaVersion:
		result.NeedsRebuild = true
		result.Reason = fmt.Sprintf("checkpoint created by newer version (v%d > v%d)", info.Version, CurrentSchemaVersion)
		return result, nil
	}

	if info.Fingerprint != "" && info.Fingerprint != fingerprint {
		result.NeedsRebuild = true
		result.Reason = "matrix inputs changed"
	}

	return result, nil
}

// Migrate performs any necessary schema migrations and records fingerprint.
func (s *BoltStore) Migrate(fingerprint string) error {
	info, err := s.GetSchemaInfo()
	if err != nil {
		return err
	}

	if info.Version <= CurrentSchemaVersion {
		for v := info.Version; v < CurrentSchemaVersion; v++ {
			if err := s.runMigration(v, v+1); err != nil {
				return fmt.Errorf("migration from v%d to v%d failed: %w", v, v+1, err)
			}
		}
	}

	return s.SetSchemaInfo(&SchemaInfo{
		Version:     CurrentSchemaVersion,
		Fingerprint: fingerprint,
	})
}

func (s *BoltStore) runMigration(from, to int) error {
	switch {
	case from == 0 && to == 1:
		return s.db.Update(func(tx *bbolt.Tx) error {
			_, err := tx.CreateBucketIfNotExists(bucketCells)
			return err
		})
	default:
		return nil
	}
}

// Clear removes all cells. Schema info is kept.
func (s *BoltStore) Clear() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketCells); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
			return err
		}
		_, err := tx.CreateBucket(bucketCells)
		return err
	})
}

// NeedsRebuild reports whether stored cells would be discarded for fingerprint.
func (s *BoltStore) NeedsRebuild(fingerprint string) (bool, string, error) {
	result, err := s.CheckMigration(fingerprint)
	if err != nil {
		return false, "", err
	}
	return result.NeedsRebuild, result.Reason, nil
}
