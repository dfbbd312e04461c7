package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"pinterf/config"
	"pinterf/internal/logging"
	"pinterf/internal/metrics"
)

var (
	cfgFile  string
	cfg      *config.Config
	rootDir  string
	logLevel string
	logger   zerolog.Logger
	stats    *metrics.Metrics
)

var rootCmd = &cobra.Command{
	Use:   "pinterf",
	Short: "Protein interface tables and interface similarity matrices",
	Long: `pinterf extracts residue contacts at protein-protein interfaces, assembles
them into an interface table and compares interfaces pairwise with a Q-score
dissimilarity.

Example usage:
  pinterf table --entries entries.tsv --interfaces interfaces/ -o interf.parquet
  pinterf matrix --table interf.parquet -o matrix.parquet
  pinterf score --table interf.parquet 1ABC1 2XYZ3`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			if err := config.LoadDotEnv(rootDir); err != nil {
				return fmt.Errorf("failed to load .env: %w", err)
			}
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		logger, err = logging.New(cfg.Logging, os.Stderr)
		if err != nil {
			return err
		}
		stats = metrics.New()
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return stats.WriteTextfile(cfg.Metrics.Textfile)
	},
}

// Execute runs the root command; SIGINT and SIGTERM cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./pinterf.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}
