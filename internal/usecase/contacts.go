package usecase

import (
	"fmt"
	"strings"

	"pinterf/internal/adapter/listfmt"
	"pinterf/internal/domain"
	"pinterf/internal/port"
)

// ExtractRequest describes one interface's contact extraction.
type ExtractRequest struct {
	// Model is the interface sub-model; nil means no residue resolves.
	Model   *domain.Model
	Index   port.NeighborIndex
	ChainID string
	Cutoff  float64
	// Residues are the candidate residue identifiers of the target chain.
	Residues []string
	Filter   domain.ResidueFilter
}

// ContactExtractor turns an interface's candidate residues into canonical
// inter-chain contact pairs with representative-atom distances.
type ContactExtractor struct{}

func NewContactExtractor() *ContactExtractor {
	return &ContactExtractor{}
}

// Extract returns the contact set and whether the residue filter retained
// the interface. With a subset filter extraction is off until the first
// residue whose number is listed; from then on every residue is extracted.
func (e *ContactExtractor) Extract(req ExtractRequest) (domain.ContactSet, bool, error) {
	enabled := req.Filter.Mode == domain.FilterNone
	b := domain.NewContactSetBuilder()

	for _, raw := range req.Residues {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := domain.ParseResidueID(raw)
		if err != nil {
			return domain.ContactSet{}, false, fmt.Errorf("candidate residue: %w", err)
		}
		if !enabled && req.Filter.Allows(id.Num) {
			enabled = true
		}
		if !enabled || req.Model == nil || req.Index == nil {
			continue
		}

		res, ok := req.Model.Residue(req.ChainID, id)
		if !ok {
			continue
		}
		e.addContacts(b, req, res)
	}

	return b.Build(), enabled, nil
}

func (e *ContactExtractor) addContacts(b *domain.ContactSetBuilder, req ExtractRequest, res *domain.Residue) {
	atom, ok := res.RepresentativeAtom()
	if !ok {
		return
	}
	for _, other := range req.Index.Residues(res, req.Cutoff) {
		if other.ChainID == req.ChainID || !other.IsAminoAcid() {
			continue
		}
		pair := listfmt.PairToken(res.ID, other.ID)
		if b.Has(pair) {
			continue
		}
		otherAtom, ok := other.RepresentativeAtom()
		if !ok {
			continue
		}
		b.Add(pair, atom.Coord.Dist(otherAtom.Coord))
	}
}

// ChainResidueIDs lists the residue identifiers of one chain in file order.
func ChainResidueIDs(model *domain.Model, chainID string) ([]string, error) {
	chain, ok := model.Chain(chainID, false)
	if !ok {
		return nil, fmt.Errorf("chain %q not found in model %d", chainID, model.ID)
	}
	ids := make([]string, len(chain.Residues))
	for i, r := range chain.Residues {
		ids[i] = r.ID.String()
	}
	return ids, nil
}
