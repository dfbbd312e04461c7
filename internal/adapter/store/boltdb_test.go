package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"pinterf/config"
	"pinterf/internal/port"
)

func openStore(t *testing.T, path string) *BoltStore {
	t.Helper()
	s, err := NewBoltStore(path)
	require.NoError(t, err)
	return s
}

func TestBoltStoreRoundTrip(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "matrix.db"))
	defer s.Close()

	kept, err := s.Prepare("fp1")
	require.NoError(t, err)
	assert.False(t, kept)

	cells := []port.Cell{{Row: 0, Col: 1, Value: 0.25}, {Row: 1, Col: 0, Value: 0.25}, {Row: 3, Col: 70000, Value: 1}}
	require.NoError(t, s.PutCells(cells))
	require.NoError(t, s.PutCells(nil))

	got, err := s.Cells()
	require.NoError(t, err)
	assert.ElementsMatch(t, cells, got)

	n, err := s.Len()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestBoltStoreResume(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matrix.db")

	s := openStore(t, path)
	_, err := s.Prepare("fp1")
	require.NoError(t, err)
	require.NoError(t, s.PutCells([]port.Cell{{Row: 0, Col: 1, Value: 0.5}}))
	require.NoError(t, s.Close())

	s = openStore(t, path)
	defer s.Close()

	kept, err := s.Prepare("fp1")
	require.NoError(t, err)
	assert.True(t, kept)
	cells, err := s.Cells()
	require.NoError(t, err)
	assert.Equal(t, []port.Cell{{Row: 0, Col: 1, Value: 0.5}}, cells)
}

func TestBoltStoreFingerprintMismatchClears(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "matrix.db"))
	defer s.Close()

	_, err := s.Prepare("fp1")
	require.NoError(t, err)
	require.NoError(t, s.PutCells([]port.Cell{{Row: 0, Col: 1, Value: 0.5}}))

	rebuild, reason, err := s.NeedsRebuild("fp2")
	require.NoError(t, err)
	assert.True(t, rebuild)
	assert.Equal(t, "matrix inputs changed", reason)

	kept, err := s.Prepare("fp2")
	require.NoError(t, err)
	assert.False(t, kept)

	cells, err := s.Cells()
	require.NoError(t, err)
	assert.Empty(t, cells)

	info, err := s.GetSchemaInfo()
	require.NoError(t, err)
	assert.Equal(t, "fp2", info.Fingerprint)
	assert.Equal(t, CurrentSchemaVersion, info.Version)
}

func TestBoltStoreNewerSchemaClears(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "matrix.db"))
	defer s.Close()

	require.NoError(t, s.SetSchemaInfo(&SchemaInfo{Version: CurrentSchemaVersion + 1, Fingerprint: "fp1"}))
	require.NoError(t, s.PutCells([]port.Cell{{Row: 0, Col: 1, Value: 0.5}}))

	result, err := s.CheckMigration("fp1")
	require.NoError(t, err)
	assert.True(t, result.NeedsRebuild)

	kept, err := s.Prepare("fp1")
	require.NoError(t, err)
	assert.False(t, kept)
	n, err := s.Len()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestBoltStoreCorruptCell(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "matrix.db"))
	defer s.Close()

	require.NoError(t, s.DB().Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketCells).Put([]byte("bad"), []byte("x"))
	}))
	_, err := s.Cells()
	assert.ErrorContains(t, err, "corrupt checkpoint cell")
}

func TestComputeConfigHash(t *testing.T) {
	a := config.DefaultConfig()
	b := config.DefaultConfig()
	assert.Equal(t, ComputeConfigHash(a), ComputeConfigHash(b))

	b.Score.DistanceScale = 2
	assert.NotEqual(t, ComputeConfigHash(a), ComputeConfigHash(b))
}
