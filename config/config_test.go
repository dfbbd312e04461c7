package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 5.0, cfg.Contacts.Cutoff)
	assert.Equal(t, 200.0, cfg.Table.MinArea)
	assert.Equal(t, 0.7, cfg.Table.SearchMaxDist)
	assert.Equal(t, "coord_path", cfg.Table.CoordPathColumn)
	assert.Equal(t, 1.0, cfg.Score.DistanceScale)
	assert.True(t, cfg.Matrix.Resume)
	require.NoError(t, cfg.Validate())
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, 200.0, cfg.Table.MinArea)
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "pinterf.yaml")

	content := `
contacts:
  cutoff: 4.5
table:
  min_area: 150
  coord_path_column: renum_path
matrix:
  resume: false
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 4.5, cfg.Contacts.Cutoff)
	assert.Equal(t, 150.0, cfg.Table.MinArea)
	assert.Equal(t, "renum_path", cfg.Table.CoordPathColumn)
	assert.False(t, cfg.Matrix.Resume)
	// untouched keys keep their defaults
	assert.Equal(t, 0.7, cfg.Table.SearchMaxDist)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("PINTERF_TABLE_MIN_AREA", "320")
	t.Setenv("PINTERF_LOGGING_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 320.0, cfg.Table.MinArea)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()

	content := `
score:
  distance_scale: 2.5
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "pinterf.yaml"), []byte(content), 0644))

	cfg, err := LoadFromDir(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, 2.5, cfg.Score.DistanceScale)
}

func TestLoadFromDir_DotEnv(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".env"), []byte("PINTERF_CONTACTS_CUTOFF=6.5\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("PINTERF_CONTACTS_CUTOFF") })

	cfg, err := LoadFromDir(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, 6.5, cfg.Contacts.Cutoff)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"cutoff", func(c *Config) { c.Contacts.Cutoff = 0 }, ErrInvalidCutoff},
		{"min area", func(c *Config) { c.Table.MinArea = -1 }, ErrInvalidMinArea},
		{"search max dist", func(c *Config) { c.Table.SearchMaxDist = 1.5 }, ErrInvalidSearchMaxDist},
		{"coord path column", func(c *Config) { c.Table.CoordPathColumn = "" }, ErrInvalidCoordPathColumn},
		{"distance scale", func(c *Config) { c.Score.DistanceScale = 0 }, ErrInvalidDistanceScale},
		{"checkpoint every", func(c *Config) { c.Matrix.CheckpointEvery = 0 }, ErrInvalidCheckpointEvery},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, ErrInvalidLogFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := DefaultConfig()
	cfg.Table.MinArea = 99

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 99.0, loaded.Table.MinArea)
}

func TestCheckpointPath(t *testing.T) {
	path := CheckpointPath("/home/user/project")
	assert.Equal(t, filepath.Join("/home/user/project", ".pinterf", "matrix.db"), path)
}
