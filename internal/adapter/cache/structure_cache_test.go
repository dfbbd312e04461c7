package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinterf/internal/domain"
	"pinterf/internal/port"
)

type countingLoader struct {
	calls map[string]int
}

func (l *countingLoader) Load(path string) (*domain.Structure, error) {
	l.calls[path]++
	if path == "missing.pdb" {
		return nil, errors.New("no such file")
	}
	s := domain.NewStructure(path)
	s.Model(0, true)
	return s, nil
}

type stubIndex struct{}

func (stubIndex) Residues(res *domain.Residue, _ float64) []*domain.Residue {
	return []*domain.Residue{res}
}

type countingIndexer struct {
	builds int
}

func (i *countingIndexer) Build(*domain.Model) port.NeighborIndex {
	i.builds++
	return stubIndex{}
}

func TestStructureCacheHitsAndEviction(t *testing.T) {
	loader := &countingLoader{calls: map[string]int{}}
	c := NewStructureCache(loader, &countingIndexer{}, 2)

	_, err := c.Load("a.pdb")
	require.NoError(t, err)
	_, err = c.Load("b.pdb")
	require.NoError(t, err)
	_, err = c.Load("a.pdb")
	require.NoError(t, err)
	assert.Equal(t, 1, loader.calls["a.pdb"])

	// b is least recently used
	_, err = c.Load("c.pdb")
	require.NoError(t, err)
	assert.Equal(t, 2, c.Size())

	_, err = c.Load("b.pdb")
	require.NoError(t, err)
	assert.Equal(t, 2, loader.calls["b.pdb"])
	_, err = c.Load("a.pdb")
	require.NoError(t, err)
	assert.Equal(t, 2, loader.calls["a.pdb"])

	hits, misses := c.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 5, misses)
}

func TestStructureCacheModelIndexBuiltOnce(t *testing.T) {
	indexer := &countingIndexer{}
	c := NewStructureCache(&countingLoader{calls: map[string]int{}}, indexer, 4)

	m, idx, err := c.Model("a.pdb", 0)
	require.NoError(t, err)
	assert.Equal(t, 0, m.ID)
	assert.NotNil(t, idx)

	_, _, err = c.Model("a.pdb", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, indexer.builds)

	_, _, err = c.Model("a.pdb", 3)
	assert.ErrorIs(t, err, domain.ErrModelNotFound)
}

func TestStructureCacheLoadError(t *testing.T) {
	c := NewStructureCache(&countingLoader{calls: map[string]int{}}, &countingIndexer{}, 4)
	_, err := c.Load("missing.pdb")
	assert.Error(t, err)
	assert.Zero(t, c.Size())

	c.Invalidate()
	assert.Zero(t, c.Size())
}
