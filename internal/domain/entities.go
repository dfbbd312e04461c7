package domain

import (
	"fmt"
	"sort"
	"strconv"
)

// Column is one named cell of a source row, kept in source order.
type Column struct {
	Name  string
	Value string
}

// Entry is one row of the entry collection: a structure model and chain.
type Entry struct {
	CoordPath string
	ModelID   int
	ChainID   string
	PDBID     string
	Columns   []Column // the complete source row, including the fields above
}

// Validate checks the fields every downstream step relies on.
func (e Entry) Validate() error {
	switch {
	case e.CoordPath == "":
		return fmt.Errorf("%w: coord path", ErrMissingColumn)
	case e.ChainID == "":
		return fmt.Errorf("%w: chain id", ErrMissingColumn)
	case e.PDBID == "":
		return fmt.Errorf("%w: pdb id", ErrMissingColumn)
	}
	return nil
}

// CandidateInterface is one interface of a (structure, chain) listed in the
// interface index.
type CandidateInterface struct {
	ID              string
	Area            float64
	Isoform         bool
	Path            string   // interface sub-model
	ContactResidues []string // target-chain residue ids at the interface
	Extra           map[string]string
}

// InterfaceIndex maps structure path -> chain id -> interface id -> candidate.
type InterfaceIndex map[string]map[string]map[string]CandidateInterface

// Put adds or replaces a candidate.
func (ix InterfaceIndex) Put(path, chainID string, c CandidateInterface) {
	chains, ok := ix[path]
	if !ok {
		chains = make(map[string]map[string]CandidateInterface)
		ix[path] = chains
	}
	interfaces, ok := chains[chainID]
	if !ok {
		interfaces = make(map[string]CandidateInterface)
		chains[chainID] = interfaces
	}
	interfaces[c.ID] = c
}

// Get returns a single candidate.
func (ix InterfaceIndex) Get(path, chainID, id string) (CandidateInterface, bool) {
	c, ok := ix[path][chainID][id]
	return c, ok
}

// Lookup returns the candidates of (path, chain) in natural id order, or
// nil when the pair is not indexed.
func (ix InterfaceIndex) Lookup(path, chainID string) []CandidateInterface {
	interfaces, ok := ix[path][chainID]
	if !ok {
		return nil
	}
	out := make([]CandidateInterface, 0, len(interfaces))
	for _, c := range interfaces {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return CompareNatural(out[i].ID, out[j].ID) < 0
	})
	return out
}

// Merge copies every candidate of other into ix; other wins on collisions.
func (ix InterfaceIndex) Merge(other InterfaceIndex) {
	for path, chains := range other {
		for chainID, interfaces := range chains {
			for _, c := range interfaces {
				ix.Put(path, chainID, c)
			}
		}
	}
}

// Len returns the number of candidates.
func (ix InterfaceIndex) Len() int {
	n := 0
	for _, chains := range ix {
		for _, interfaces := range chains {
			n += len(interfaces)
		}
	}
	return n
}

// CompareNatural compares two identifiers numerically when both are
// integers and lexically otherwise.
func CompareNatural(a, b string) int {
	ai, aErr := strconv.Atoi(a)
	bi, bErr := strconv.Atoi(b)
	if aErr == nil && bErr == nil {
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		}
		return 0
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// ContactSet is an ordered sequence of canonical contact pairs with their
// representative-atom distances at matching positions.
type ContactSet struct {
	pairs     []string
	distances []float64
}

// NewContactSet validates alignment and returns a ContactSet over the given slices.
func NewContactSet(pairs []string, distances []float64) (ContactSet, error) {
	if len(pairs) != len(distances) {
		return ContactSet{}, fmt.Errorf("%w: %d pairs, %d distances", ErrMisalignedContacts, len(pairs), len(distances))
	}
	for i, d := range distances {
		if d < 0 {
			return ContactSet{}, fmt.Errorf("%w: %s=%g", ErrNegativeDistance, pairs[i], d)
		}
	}
	return ContactSet{pairs: pairs, distances: distances}, nil
}

func (c ContactSet) Len() int { return len(c.pairs) }

func (c ContactSet) Pairs() []string { return c.pairs }

func (c ContactSet) Distances() []float64 { return c.distances }

// ContactSetBuilder accumulates unique contacts in insertion order.
type ContactSetBuilder struct {
	seen      map[string]struct{}
	pairs     []string
	distances []float64
}

func NewContactSetBuilder() *ContactSetBuilder {
	return &ContactSetBuilder{seen: make(map[string]struct{})}
}

// Has reports whether the pair was already recorded.
func (b *ContactSetBuilder) Has(pair string) bool {
	_, ok := b.seen[pair]
	return ok
}

// Add records a pair; duplicates are ignored.
func (b *ContactSetBuilder) Add(pair string, distance float64) {
	if b.Has(pair) {
		return
	}
	b.seen[pair] = struct{}{}
	b.pairs = append(b.pairs, pair)
	b.distances = append(b.distances, distance)
}

func (b *ContactSetBuilder) Build() ContactSet {
	return ContactSet{pairs: b.pairs, distances: b.distances}
}

// InterfaceRecord is one row of the interface table.
type InterfaceRecord struct {
	Entry        Entry
	Interface    CandidateInterface
	Contacts     ContactSet
	InterfaceKey string
}

// NewInterfaceRecord builds a complete record and derives its key.
func NewInterfaceRecord(entry Entry, iface CandidateInterface, contacts ContactSet) (InterfaceRecord, error) {
	if err := entry.Validate(); err != nil {
		return InterfaceRecord{}, err
	}
	if iface.ID == "" {
		return InterfaceRecord{}, fmt.Errorf("%w: interface id", ErrMissingColumn)
	}
	return InterfaceRecord{
		Entry:        entry,
		Interface:    iface,
		Contacts:     contacts,
		InterfaceKey: InterfaceKey(entry.PDBID, iface.ID),
	}, nil
}

// InterfaceKey derives the global interface identifier.
func InterfaceKey(pdbID, interfaceID string) string {
	return pdbID + interfaceID
}

// Selection restricts interfaces by isoform status.
type Selection int

const (
	SelectAll Selection = iota
	SelectIsoform
	SelectHeteromer
)

// NewSelection maps the isoform/heteromer flags to a Selection.
func NewSelection(iso, het bool) (Selection, error) {
	switch {
	case iso && het:
		return SelectAll, ErrConflictingSelection
	case iso:
		return SelectIsoform, nil
	case het:
		return SelectHeteromer, nil
	}
	return SelectAll, nil
}

// Keep reports whether an interface with the given isoform flag is selected.
func (s Selection) Keep(isoform bool) bool {
	switch s {
	case SelectIsoform:
		return isoform
	case SelectHeteromer:
		return !isoform
	}
	return true
}

func (s Selection) String() string {
	switch s {
	case SelectIsoform:
		return "isoform"
	case SelectHeteromer:
		return "heteromer"
	}
	return "all"
}

// FilterMode tags how a ResidueFilter gates extraction.
type FilterMode int

const (
	// FilterNone extracts every residue and always retains the interface.
	FilterNone FilterMode = iota
	// FilterSubset retains the interface only once a listed residue is met.
	FilterSubset
)

// ResidueFilter is an optional allow-list of residue numbers.
type ResidueFilter struct {
	Mode    FilterMode
	allowed map[int]struct{}
}

func NoResidueFilter() ResidueFilter {
	return ResidueFilter{Mode: FilterNone}
}

// SubsetFilter builds a FilterSubset over the given residue numbers. An
// empty list is still a subset filter and admits nothing.
func SubsetFilter(nums []int) ResidueFilter {
	allowed := make(map[int]struct{}, len(nums))
	for _, n := range nums {
		allowed[n] = struct{}{}
	}
	return ResidueFilter{Mode: FilterSubset, allowed: allowed}
}

// Allows reports whether a residue number is on the list. Always true for FilterNone.
func (f ResidueFilter) Allows(num int) bool {
	if f.Mode == FilterNone {
		return true
	}
	_, ok := f.allowed[num]
	return ok
}

// Nums returns the listed residue numbers in ascending order.
func (f ResidueFilter) Nums() []int {
	out := make([]int, 0, len(f.allowed))
	for n := range f.allowed {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}
