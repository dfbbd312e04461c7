package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shardA = `
/data/1abc.pdb:
  A:
    1:
      area: 512.5
      iso: true
      path: interfaces/1abc_A_1.pdb
      contact_residues: [12, 13, 52A]
      partner_chain: B
    "2":
      area: 90
      path: /abs/1abc_A_2.pdb
      contact_residues: "30, 31"
`

const shardB = `
/data/1abc.pdb:
  A:
    "2":
      area: 250
      path: /abs/1abc_A_2b.pdb
      contact_residues: [30]
/data/2xyz.pdb:
  C:
    "1":
      area: 300
      path: /abs/2xyz_C_1.pdb
`

func TestParse(t *testing.T) {
	ix, err := Parse([]byte(shardA), "/shards")
	require.NoError(t, err)
	require.Equal(t, 2, ix.Len())

	c, ok := ix.Get("/data/1abc.pdb", "A", "1")
	require.True(t, ok)
	assert.Equal(t, 512.5, c.Area)
	assert.True(t, c.Isoform)
	assert.Equal(t, filepath.Join("/shards", "interfaces/1abc_A_1.pdb"), c.Path)
	assert.Equal(t, []string{"12", "13", "52A"}, c.ContactResidues)
	assert.Equal(t, "B", c.Extra["partner_chain"])

	c, ok = ix.Get("/data/1abc.pdb", "A", "2")
	require.True(t, ok)
	assert.False(t, c.Isoform)
	assert.Equal(t, "/abs/1abc_A_2.pdb", c.Path)
	assert.Equal(t, []string{"30", "31"}, c.ContactResidues)
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte("a: [1, 2"), "")
	assert.Error(t, err)
}

func TestLoaderDirectoryMerge(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "skip"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.yaml"), []byte(shardA), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b.yml"), []byte(shardB), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "skip", "c.yaml"), []byte("not: [valid"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("ignored"), 0644))

	loader := NewLoader(NewWalker(nil, []string{"skip/**"}))
	ix, err := loader.Load(root)
	require.NoError(t, err)

	assert.Equal(t, 3, ix.Len())
	c, ok := ix.Get("/data/1abc.pdb", "A", "2")
	require.True(t, ok)
	assert.Equal(t, 250.0, c.Area, "later shard wins")

	_, err = loader.Load(filepath.Join(root, "missing"))
	assert.Error(t, err)
}
