package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables that override file settings.
const EnvPrefix = "PINTERF"

// Config holds all configuration for the interface tool.
type Config struct {
	Contacts ContactsConfig `yaml:"contacts" envconfig:"CONTACTS"`
	Table    TableConfig    `yaml:"table" envconfig:"TABLE"`
	Score    ScoreConfig    `yaml:"score" envconfig:"SCORE"`
	Matrix   MatrixConfig   `yaml:"matrix" envconfig:"MATRIX"`
	Index    IndexConfig    `yaml:"index" envconfig:"INDEX"`
	Cache    CacheConfig    `yaml:"cache" envconfig:"CACHE"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Metrics  MetricsConfig  `yaml:"metrics" envconfig:"METRICS"`
}

// ContactsConfig holds contact extraction configuration.
type ContactsConfig struct {
	Cutoff float64 `yaml:"cutoff" envconfig:"CUTOFF"` // Angstrom, any-atom residue contact
}

// TableConfig holds interface table assembly configuration.
type TableConfig struct {
	MinArea         float64 `yaml:"min_area" envconfig:"MIN_AREA"`
	SearchMaxDist   float64 `yaml:"search_max_dist" envconfig:"SEARCH_MAX_DIST"`
	CoordPathColumn string  `yaml:"coord_path_column" envconfig:"COORD_PATH_COLUMN"`
}

// ScoreConfig holds similarity metric configuration.
type ScoreConfig struct {
	DistanceScale float64 `yaml:"distance_scale" envconfig:"DISTANCE_SCALE"`
}

// MatrixConfig holds matrix build configuration.
type MatrixConfig struct {
	CheckpointEvery int  `yaml:"checkpoint_every" envconfig:"CHECKPOINT_EVERY"`
	Resume          bool `yaml:"resume" envconfig:"RESUME"`
}

// IndexConfig holds candidate interface index discovery patterns.
type IndexConfig struct {
	Includes []string `yaml:"includes" envconfig:"INCLUDES"`
	Excludes []string `yaml:"excludes" envconfig:"EXCLUDES"`
}

// CacheConfig holds structure cache configuration.
type CacheConfig struct {
	MaxStructures int `yaml:"max_structures" envconfig:"MAX_STRUCTURES"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL"`
	Format string `yaml:"format" envconfig:"FORMAT"` // "console" or "json"
}

// MetricsConfig holds metrics export configuration.
type MetricsConfig struct {
	Textfile string `yaml:"textfile" envconfig:"TEXTFILE"` // empty disables export
}

// Validation errors.
var (
	ErrInvalidCutoff          = errors.New("contacts.cutoff must be positive")
	ErrInvalidMinArea         = errors.New("table.min_area cannot be negative")
	ErrInvalidSearchMaxDist   = errors.New("table.search_max_dist must be within [0, 1]")
	ErrInvalidCoordPathColumn = errors.New("table.coord_path_column cannot be empty")
	ErrInvalidDistanceScale   = errors.New("score.distance_scale must be positive")
	ErrInvalidCheckpointEvery = errors.New("matrix.checkpoint_every must be positive")
	ErrInvalidLogFormat       = errors.New("logging.format must be 'console' or 'json'")
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Contacts: ContactsConfig{
			Cutoff: 5.0,
		},
		Table: TableConfig{
			MinArea:         200,
			SearchMaxDist:   0.7,
			CoordPathColumn: "coord_path",
		},
		Score: ScoreConfig{
			DistanceScale: 1.0,
		},
		Matrix: MatrixConfig{
			CheckpointEvery: 500,
			Resume:          true,
		},
		Index: IndexConfig{
			Includes: []string{"**/*.yaml", "**/*.yml"},
			Excludes: []string{"**/.pinterf/**", "**/.git/**"},
		},
		Cache: CacheConfig{
			MaxStructures: 32,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for pinterf.yaml).
// A .env file in the directory is loaded into the environment first.
func LoadFromDir(dir string) (*Config, error) {
	if err := LoadDotEnv(dir); err != nil {
		return nil, err
	}

	path := filepath.Join(dir, "pinterf.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".pinterf", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	// Defaults plus environment
	return Load("")
}

// LoadDotEnv loads dir/.env if present. Variables already set are kept.
func LoadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Validate checks that all values are within range.
func (c *Config) Validate() error {
	if c.Contacts.Cutoff <= 0 {
		return ErrInvalidCutoff
	}
	if c.Table.MinArea < 0 {
		return ErrInvalidMinArea
	}
	if c.Table.SearchMaxDist < 0 || c.Table.SearchMaxDist > 1 {
		return ErrInvalidSearchMaxDist
	}
	if c.Table.CoordPathColumn == "" {
		return ErrInvalidCoordPathColumn
	}
	if c.Score.DistanceScale <= 0 {
		return ErrInvalidDistanceScale
	}
	if c.Matrix.CheckpointEvery <= 0 {
		return ErrInvalidCheckpointEvery
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}
	return nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// CheckpointPath returns the default path of the matrix checkpoint database.
func CheckpointPath(dir string) string {
	return filepath.Join(dir, ".pinterf", "matrix.db")
}

// EnsureStateDir ensures the .pinterf directory exists.
func EnsureStateDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".pinterf"), 0755)
}
