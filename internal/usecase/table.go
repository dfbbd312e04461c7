package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"pinterf/internal/domain"
	"pinterf/internal/metrics"
	"pinterf/internal/port"
)

// SearchSpec names the reference interface of a similarity search.
type SearchSpec struct {
	CoordPath   string
	ChainID     string
	InterfaceID string
}

// TableOptions controls which candidate interfaces become table rows.
type TableOptions struct {
	MinArea       float64
	Cutoff        float64
	Selection     domain.Selection
	Residues      domain.ResidueFilter
	Search        *SearchSpec
	SearchMaxDist float64
}

// TableBuilder assembles the interface table from entries and the
// candidate interface index.
type TableBuilder struct {
	models    port.ModelProvider
	scorer    port.Scorer
	extractor *ContactExtractor
	log       zerolog.Logger
	metrics   *metrics.Metrics
}

func NewTableBuilder(models port.ModelProvider, scorer port.Scorer, log zerolog.Logger, m *metrics.Metrics) *TableBuilder {
	return &TableBuilder{
		models:    models,
		scorer:    scorer,
		extractor: NewContactExtractor(),
		log:       log,
		metrics:   m,
	}
}

// Build runs every entry through EntryInterfaces and concatenates the rows
// in entry order. A requested search reference is resolved once up front.
func (b *TableBuilder) Build(ctx context.Context, entries []domain.Entry, index domain.InterfaceIndex, opts TableOptions, progress port.ProgressFunc) ([]domain.InterfaceRecord, error) {
	var reference *domain.ContactSet
	if opts.Search != nil {
		ref, err := b.ResolveSearch(entries, index, opts)
		if err != nil {
			return nil, err
		}
		reference = &ref
		b.log.Info().
			Str("path", opts.Search.CoordPath).
			Str("chain", opts.Search.ChainID).
			Str("interface", opts.Search.InterfaceID).
			Int("contacts", ref.Len()).
			Msg("Resolved search interface")
	}

	var records []domain.InterfaceRecord
	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := b.EntryInterfaces(entry, index, opts, reference)
		if err != nil {
			return nil, fmt.Errorf("entry %s %s chain %s: %w", entry.PDBID, entry.CoordPath, entry.ChainID, err)
		}
		records = append(records, rows...)
		b.metrics.EntryProcessed()
		progress.Report(i+1, len(entries))
	}

	b.log.Info().
		Int("entries", len(entries)).
		Int("interfaces", len(records)).
		Msg("Interface table built")
	return records, nil
}

// EntryInterfaces returns the retained interfaces of one entry in natural
// interface id order. reference enables the similarity search filter.
func (b *TableBuilder) EntryInterfaces(entry domain.Entry, index domain.InterfaceIndex, opts TableOptions, reference *domain.ContactSet) ([]domain.InterfaceRecord, error) {
	candidates := index.Lookup(entry.CoordPath, entry.ChainID)
	if candidates == nil {
		b.log.Debug().Str("path", entry.CoordPath).Str("chain", entry.ChainID).Msg("No candidate interfaces")
		return nil, nil
	}

	var out []domain.InterfaceRecord
	for _, c := range candidates {
		b.metrics.InterfaceConsidered()

		if c.Area < opts.MinArea {
			b.drop(entry, c, metrics.ReasonArea)
			continue
		}
		if !opts.Selection.Keep(c.Isoform) {
			b.drop(entry, c, metrics.ReasonSelection)
			continue
		}

		contacts, retained, err := b.contacts(entry, c, opts)
		if err != nil {
			return nil, fmt.Errorf("interface %s: %w", c.ID, err)
		}
		if !retained {
			b.drop(entry, c, metrics.ReasonResidues)
			continue
		}
		if reference != nil && b.scorer.Score(*reference, contacts) > opts.SearchMaxDist {
			b.drop(entry, c, metrics.ReasonSearch)
			continue
		}

		rec, err := domain.NewInterfaceRecord(entry, c, contacts)
		if err != nil {
			return nil, fmt.Errorf("interface %s: %w", c.ID, err)
		}
		out = append(out, rec)
		b.metrics.InterfaceRetained()
	}
	return out, nil
}

// ResolveSearch extracts the reference interface's contacts. Only the area
// filter applies to the reference entry.
func (b *TableBuilder) ResolveSearch(entries []domain.Entry, index domain.InterfaceIndex, opts TableOptions) (domain.ContactSet, error) {
	spec := opts.Search
	if spec == nil {
		return domain.ContactSet{}, fmt.Errorf("%w: no search requested", domain.ErrSearchInterfaceNotFound)
	}

	var entry *domain.Entry
	for i := range entries {
		if entries[i].CoordPath == spec.CoordPath && entries[i].ChainID == spec.ChainID {
			entry = &entries[i]
			break
		}
	}
	if entry == nil {
		return domain.ContactSet{}, fmt.Errorf("%w: no entry for %s chain %s", domain.ErrSearchInterfaceNotFound, spec.CoordPath, spec.ChainID)
	}

	refOpts := TableOptions{
		MinArea:   opts.MinArea,
		Cutoff:    opts.Cutoff,
		Selection: domain.SelectAll,
		Residues:  domain.NoResidueFilter(),
	}
	rows, err := b.EntryInterfaces(*entry, index, refOpts, nil)
	if err != nil {
		return domain.ContactSet{}, fmt.Errorf("search interface: %w", err)
	}
	for _, rec := range rows {
		if domain.CompareNatural(rec.Interface.ID, spec.InterfaceID) == 0 {
			return rec.Contacts, nil
		}
	}
	return domain.ContactSet{}, fmt.Errorf("%w: interface %s of %s chain %s", domain.ErrSearchInterfaceNotFound, spec.InterfaceID, spec.CoordPath, spec.ChainID)
}

func (b *TableBuilder) contacts(entry domain.Entry, c domain.CandidateInterface, opts TableOptions) (domain.ContactSet, bool, error) {
	req := ExtractRequest{
		ChainID:  entry.ChainID,
		Cutoff:   opts.Cutoff,
		Residues: c.ContactResidues,
		Filter:   opts.Residues,
	}

	// interfaces without a sub-model are read from the entry's own file
	path := c.Path
	if path == "" {
		path = entry.CoordPath
	}

	model, idx, err := b.models.Model(path, entry.ModelID)
	switch {
	case errors.Is(err, domain.ErrModelNotFound):
		b.log.Debug().Str("path", path).Int("model", entry.ModelID).Msg("Model not in interface structure")
	case err != nil:
		return domain.ContactSet{}, false, err
	default:
		req.Model, req.Index = model, idx
	}

	return b.extractor.Extract(req)
}

func (b *TableBuilder) drop(entry domain.Entry, c domain.CandidateInterface, reason string) {
	b.metrics.InterfaceDropped(reason)
	b.log.Debug().
		Str("pdb", entry.PDBID).
		Str("chain", entry.ChainID).
		Str("interface", c.ID).
		Str("reason", reason).
		Msg("Interface dropped")
}
