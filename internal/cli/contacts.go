package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pinterf/internal/adapter/cache"
	"pinterf/internal/adapter/listfmt"
	"pinterf/internal/adapter/neighbor"
	"pinterf/internal/adapter/pdb"
	"pinterf/internal/domain"
	"pinterf/internal/usecase"
)

var (
	contactsStructure string
	contactsChain     string
	contactsModel     int
	contactsCutoff    float64
	contactsResids    string
)

var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "List inter-chain contacts of one chain",
	Long: `Extract the contacts of every residue of one chain with residues of
other chains and print one pair per line with its representative-atom
distance.

Examples:
  pinterf contacts --structure 6gj8.pdb --chain A
  pinterf contacts --structure 6gj8.pdb.gz --chain A --model 1 --resids 32-40`,
	RunE: runContacts,
}

func init() {
	rootCmd.AddCommand(contactsCmd)
	f := contactsCmd.Flags()
	f.StringVar(&contactsStructure, "structure", "", "coordinate file (required)")
	f.StringVar(&contactsChain, "chain", "", "target chain (required)")
	f.IntVar(&contactsModel, "model", 0, "model id")
	f.Float64Var(&contactsCutoff, "cutoff", 0, "contact cutoff in Angstrom (default from config)")
	f.StringVar(&contactsResids, "resids", "", "residue numbers that start extraction, e.g. 32-40")
	contactsCmd.MarkFlagRequired("structure")
	contactsCmd.MarkFlagRequired("chain")
}

func runContacts(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	cutoff := cfg.Contacts.Cutoff
	if cmd.Flags().Changed("cutoff") {
		cutoff = contactsCutoff
	}
	filter := domain.NoResidueFilter()
	if contactsResids != "" {
		nums, err := listfmt.ParseResidueRanges(contactsResids)
		if err != nil {
			return fmt.Errorf("invalid --resids: %w", err)
		}
		filter = domain.SubsetFilter(nums)
	}

	structures := cache.NewStructureCache(pdb.NewReader(), neighbor.NewIndexer(neighbor.DefaultCellSize), 1)
	model, idx, err := structures.Model(contactsStructure, contactsModel)
	if err != nil {
		return err
	}
	residues, err := usecase.ChainResidueIDs(model, contactsChain)
	if err != nil {
		return err
	}

	cs, retained, err := usecase.NewContactExtractor().Extract(usecase.ExtractRequest{
		Model:    model,
		Index:    idx,
		ChainID:  contactsChain,
		Cutoff:   cutoff,
		Residues: residues,
		Filter:   filter,
	})
	if err != nil {
		return err
	}
	if !retained {
		logger.Warn().Str("resids", contactsResids).Msg("No listed residue found in chain")
	}

	for i, pair := range cs.Pairs() {
		fmt.Printf("%s\t%.3f\n", pair, cs.Distances()[i])
	}
	logger.Info().Int("contacts", cs.Len()).Msg("Contacts extracted")
	return nil
}
