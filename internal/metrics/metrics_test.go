package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.EntryProcessed()
	m.EntryProcessed()
	m.InterfaceConsidered()
	m.InterfaceDropped(ReasonArea)
	m.InterfaceRetained()
	m.CellsScored(20)
	m.CellsRestored(0)

	path := filepath.Join(t.TempDir(), "pinterf.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "pinterf_entries_processed_total 2")
	assert.Contains(t, out, `pinterf_interfaces_dropped_total{reason="area"} 1`)
	assert.Contains(t, out, "pinterf_matrix_cells_scored_total 20")
	assert.Contains(t, out, "pinterf_matrix_cells_restored_total 0")
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.EntryProcessed()
		m.InterfaceDropped(ReasonSearch)
		m.CellsScored(3)
	})
	assert.NoError(t, m.WriteTextfile("ignored.prom"))
	assert.NoError(t, New().WriteTextfile(""))
}
