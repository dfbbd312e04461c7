package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pinterf/internal/adapter/qscore"
	"pinterf/internal/adapter/tablefile"
	"pinterf/internal/usecase"
)

var (
	scoreTable string
	scoreJSON  bool
)

var scoreCmd = &cobra.Command{
	Use:   "score <interf_id> <interf_id>",
	Short: "Dissimilarity between two interfaces of a table",
	Long: `Print the Q-score dissimilarity between two interfaces of an interface
table, identified by their interface ids (PDB id + interface).

Examples:
  pinterf score --table interf.parquet 1ABC1 2XYZ3
  pinterf score --table interf.tsv 1ABC1 2XYZ3 --json`,
	Args: cobra.ExactArgs(2),
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreCmd.Flags().StringVar(&scoreTable, "table", "", "interface table (required)")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "output as JSON")
	scoreCmd.MarkFlagRequired("table")
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	records, err := tablefile.LoadTable(scoreTable)
	if err != nil {
		return fmt.Errorf("failed to load interface table: %w", err)
	}

	a, ok := usecase.FindRecord(records, args[0])
	if !ok {
		return fmt.Errorf("interface %s not in %s", args[0], scoreTable)
	}
	b, ok := usecase.FindRecord(records, args[1])
	if !ok {
		return fmt.Errorf("interface %s not in %s", args[1], scoreTable)
	}

	score := qscore.NewScorer(cfg.Score.DistanceScale).Score(a.Contacts, b.Contacts)

	if scoreJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"a":        a.InterfaceKey,
			"b":        b.InterfaceKey,
			"contacts": []int{a.Contacts.Len(), b.Contacts.Len()},
			"score":    score,
		})
	}

	fmt.Printf("%s\t%s\t%.4f\n", a.InterfaceKey, b.InterfaceKey, score)
	return nil
}
