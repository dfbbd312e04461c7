package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pinterf/internal/adapter/cache"
	"pinterf/internal/adapter/index"
	"pinterf/internal/adapter/listfmt"
	"pinterf/internal/adapter/neighbor"
	"pinterf/internal/adapter/pdb"
	"pinterf/internal/adapter/qscore"
	"pinterf/internal/adapter/tablefile"
	"pinterf/internal/domain"
	"pinterf/internal/usecase"
)

var (
	tableEntries      string
	tableInterfaces   string
	tableOutput       string
	tableMinArea      float64
	tableCutoff       float64
	tableResids       string
	tableIso          bool
	tableHet          bool
	tableSearchPath   string
	tableSearchChain  string
	tableSearchInterf string
	tableSearchMax    float64
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Build the interface table",
	Long: `Build the interface table from an entry collection and the candidate
interface index. Each retained interface becomes one row with its contact
pairs and representative-atom distances.

The output format follows the file extension (.parquet, .tsv, .csv).

Examples:
  pinterf table --entries entries.tsv --interfaces interfaces/ -o interf.parquet
  pinterf table --entries entries.tsv --interfaces interfaces.yaml --resids 32-40,57-75 --het -o interf.tsv
  pinterf table --entries entries.tsv --interfaces interfaces/ \
      --search-path 6gj8.pdb --search-chain A --search-interf 1 -o similar.parquet`,
	RunE: runTable,
}

func init() {
	rootCmd.AddCommand(tableCmd)
	f := tableCmd.Flags()
	f.StringVar(&tableEntries, "entries", "", "entry collection (.tsv or .csv, required)")
	f.StringVar(&tableInterfaces, "interfaces", "", "candidate interface index file or directory (required)")
	f.StringVarP(&tableOutput, "output", "o", "", "output table path (required)")
	f.Float64Var(&tableMinArea, "min-area", 0, "minimum interface area (default from config)")
	f.Float64Var(&tableCutoff, "cutoff", 0, "contact cutoff in Angstrom (default from config)")
	f.StringVar(&tableResids, "resids", "", "residue numbers that must be reached, e.g. 32-40,57")
	f.BoolVar(&tableIso, "iso", false, "keep isoform interfaces only")
	f.BoolVar(&tableHet, "het", false, "keep heteromer interfaces only")
	f.StringVar(&tableSearchPath, "search-path", "", "coordinate path of the search reference")
	f.StringVar(&tableSearchChain, "search-chain", "", "chain of the search reference")
	f.StringVar(&tableSearchInterf, "search-interf", "", "interface id of the search reference")
	f.Float64Var(&tableSearchMax, "search-max-dist", 0, "maximum dissimilarity to the search reference (default from config)")
	tableCmd.MarkFlagRequired("entries")
	tableCmd.MarkFlagRequired("interfaces")
	tableCmd.MarkFlagRequired("output")
	tableCmd.MarkFlagsMutuallyExclusive("iso", "het")
	tableCmd.MarkFlagsRequiredTogether("search-path", "search-chain", "search-interf")
}

func runTable(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	opts, err := tableOptions(cmd)
	if err != nil {
		return err
	}

	entries, err := tablefile.LoadEntries(tableEntries, cfg.Table.CoordPathColumn)
	if err != nil {
		return fmt.Errorf("failed to load entries: %w", err)
	}

	loader := index.NewLoader(index.NewWalker(cfg.Index.Includes, cfg.Index.Excludes))
	ix, err := loader.Load(tableInterfaces)
	if err != nil {
		return fmt.Errorf("failed to load interface index: %w", err)
	}
	logger.Info().
		Int("entries", len(entries)).
		Int("candidates", ix.Len()).
		Msg("Loaded inputs")

	structures := cache.NewStructureCache(pdb.NewReader(), neighbor.NewIndexer(neighbor.DefaultCellSize), cfg.Cache.MaxStructures)
	builder := usecase.NewTableBuilder(structures, qscore.NewScorer(cfg.Score.DistanceScale), logger, stats)

	records, err := builder.Build(cmd.Context(), entries, ix, opts, newProgress("Building interface table"))
	if err != nil {
		return fmt.Errorf("failed to build interface table: %w", err)
	}

	if err := tablefile.SaveTable(tableOutput, records); err != nil {
		return fmt.Errorf("failed to save interface table: %w", err)
	}

	hits, misses := structures.Stats()
	logger.Debug().Int("hits", hits).Int("misses", misses).Msg("Structure cache")
	fmt.Println("Built interface table!")
	return nil
}

// tableOptions merges flags over config defaults.
func tableOptions(cmd *cobra.Command) (usecase.TableOptions, error) {
	cfg := GetConfig()

	selection, err := domain.NewSelection(tableIso, tableHet)
	if err != nil {
		return usecase.TableOptions{}, err
	}

	opts := usecase.TableOptions{
		MinArea:       cfg.Table.MinArea,
		Cutoff:        cfg.Contacts.Cutoff,
		Selection:     selection,
		Residues:      domain.NoResidueFilter(),
		SearchMaxDist: cfg.Table.SearchMaxDist,
	}
	if cmd.Flags().Changed("min-area") {
		opts.MinArea = tableMinArea
	}
	if cmd.Flags().Changed("cutoff") {
		opts.Cutoff = tableCutoff
	}
	if cmd.Flags().Changed("search-max-dist") {
		opts.SearchMaxDist = tableSearchMax
	}
	if tableResids != "" {
		nums, err := listfmt.ParseResidueRanges(tableResids)
		if err != nil {
			return usecase.TableOptions{}, fmt.Errorf("invalid --resids: %w", err)
		}
		opts.Residues = domain.SubsetFilter(nums)
	}
	if tableSearchPath != "" {
		opts.Search = &usecase.SearchSpec{
			CoordPath:   tableSearchPath,
			ChainID:     tableSearchChain,
			InterfaceID: tableSearchInterf,
		}
	}
	return opts, nil
}
