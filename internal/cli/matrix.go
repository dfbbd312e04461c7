package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pinterf/config"
	"pinterf/internal/adapter/memstore"
	"pinterf/internal/adapter/qscore"
	"pinterf/internal/adapter/store"
	"pinterf/internal/adapter/tablefile"
	"pinterf/internal/domain"
	"pinterf/internal/port"
	"pinterf/internal/usecase"
)

var (
	matrixTable        string
	matrixRemoved      string
	matrixOutput       string
	matrixCheckpoint   string
	matrixNoCheckpoint bool
	matrixFresh        bool
)

var matrixCmd = &cobra.Command{
	Use:   "matrix",
	Short: "Build the interface dissimilarity matrix",
	Long: `Compare interfaces pairwise with the Q-score dissimilarity.

Without --removed every interface of the table is compared with every other
one and a symmetric matrix with a zero diagonal is written. With --removed the
rows are the removed interfaces and the columns the table's interfaces.

Computed cells are checkpointed to .pinterf/matrix.db so an interrupted build
resumes where it stopped.

Examples:
  pinterf matrix --table interf.parquet -o matrix.parquet
  pinterf matrix --table kept.parquet --removed dropped.parquet -o ref.tsv
  pinterf matrix --table interf.parquet -o matrix.parquet --fresh`,
	RunE: runMatrix,
}

func init() {
	rootCmd.AddCommand(matrixCmd)
	f := matrixCmd.Flags()
	f.StringVar(&matrixTable, "table", "", "interface table of included interfaces (required)")
	f.StringVar(&matrixRemoved, "removed", "", "interface table of removed interfaces (reference mode)")
	f.StringVarP(&matrixOutput, "output", "o", "", "output matrix path (required)")
	f.StringVar(&matrixCheckpoint, "checkpoint", "", "checkpoint database (default .pinterf/matrix.db)")
	f.BoolVar(&matrixNoCheckpoint, "no-checkpoint", false, "keep computed cells in memory only")
	f.BoolVar(&matrixFresh, "fresh", false, "discard any checkpoint before building")
	matrixCmd.MarkFlagRequired("table")
	matrixCmd.MarkFlagRequired("output")
	matrixCmd.MarkFlagsMutuallyExclusive("checkpoint", "no-checkpoint")
}

func runMatrix(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	included, err := tablefile.LoadTable(matrixTable)
	if err != nil {
		return fmt.Errorf("failed to load interface table: %w", err)
	}
	var removed []domain.InterfaceRecord
	if matrixRemoved != "" {
		removed, err = tablefile.LoadTable(matrixRemoved)
		if err != nil {
			return fmt.Errorf("failed to load removed interfaces: %w", err)
		}
		if removed == nil {
			removed = []domain.InterfaceRecord{}
		}
	}

	checkpoint, err := openCheckpoint(cfg)
	if err != nil {
		return err
	}
	defer checkpoint.Close()

	builder := usecase.NewMatrixBuilder(
		qscore.NewScorer(cfg.Score.DistanceScale),
		checkpoint,
		usecase.MatrixOptions{
			CheckpointEvery: cfg.Matrix.CheckpointEvery,
			Resume:          cfg.Matrix.Resume && !matrixFresh,
			Salt:            store.ComputeConfigHash(cfg),
		},
		logger,
		stats,
	)

	m, err := builder.Build(cmd.Context(), included, removed, newProgress("Building interface matrix"))
	if err != nil {
		return fmt.Errorf("failed to build interface matrix: %w", err)
	}

	if err := tablefile.SaveMatrix(matrixOutput, m); err != nil {
		return fmt.Errorf("failed to save interface matrix: %w", err)
	}

	fmt.Println("Built interface matrix!")
	return nil
}

func openCheckpoint(cfg *config.Config) (port.CheckpointStore, error) {
	if matrixNoCheckpoint {
		return memstore.NewMemoryStore(), nil
	}

	path := matrixCheckpoint
	if path == "" {
		if err := config.EnsureStateDir(GetRootDir()); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
		path = config.CheckpointPath(GetRootDir())
	}

	st, err := store.NewBoltStore(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint: %w", err)
	}
	return st, nil
}
