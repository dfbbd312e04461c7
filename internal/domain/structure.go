package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Vec3 is a Cartesian coordinate in Angstrom.
type Vec3 struct {
	X, Y, Z float64
}

// Dist returns the Euclidean distance between two points.
func (v Vec3) Dist(o Vec3) float64 {
	dx, dy, dz := v.X-o.X, v.Y-o.Y, v.Z-o.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

type Atom struct {
	Name  string
	Coord Vec3
}

// ResidueID identifies a residue within a chain: sequence number plus
// optional insertion code.
type ResidueID struct {
	Num   int
	ICode string
}

// ParseResidueID parses identifiers such as "12", "-3" or "52A".
func ParseResidueID(s string) (ResidueID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ResidueID{}, fmt.Errorf("%w: empty residue id", ErrInvalidResidueID)
	}
	end := len(s)
	for end > 0 {
		c := s[end-1]
		if c >= '0' && c <= '9' {
			break
		}
		end--
	}
	num, err := strconv.Atoi(s[:end])
	if err != nil {
		return ResidueID{}, fmt.Errorf("%w: %q", ErrInvalidResidueID, s)
	}
	return ResidueID{Num: num, ICode: s[end:]}, nil
}

func (r ResidueID) String() string {
	return strconv.Itoa(r.Num) + r.ICode
}

// Less orders residue ids by number, then insertion code.
func (r ResidueID) Less(o ResidueID) bool {
	if r.Num != o.Num {
		return r.Num < o.Num
	}
	return r.ICode < o.ICode
}

type Residue struct {
	ID      ResidueID
	Name    string // three-letter code
	ChainID string
	Het     bool
	Atoms   []Atom
}

// Atom returns the named atom, if present.
func (r *Residue) Atom(name string) (Atom, bool) {
	for _, a := range r.Atoms {
		if a.Name == name {
			return a, true
		}
	}
	return Atom{}, false
}

// IsAminoAcid reports whether the residue is a standard or common modified
// amino acid.
func (r *Residue) IsAminoAcid() bool {
	_, ok := aminoAcids[r.Name]
	return ok
}

// RepresentativeAtom returns the beta carbon, or the alpha carbon for glycine.
// A non-glycine residue without a beta carbon falls back to its alpha carbon.
func (r *Residue) RepresentativeAtom() (Atom, bool) {
	if r.Name != "GLY" {
		if a, ok := r.Atom("CB"); ok {
			return a, true
		}
	}
	return r.Atom("CA")
}

var aminoAcids = map[string]struct{}{
	"ALA": {}, "ARG": {}, "ASN": {}, "ASP": {}, "CYS": {},
	"GLN": {}, "GLU": {}, "GLY": {}, "HIS": {}, "ILE": {},
	"LEU": {}, "LYS": {}, "MET": {}, "PHE": {}, "PRO": {},
	"SER": {}, "THR": {}, "TRP": {}, "TYR": {}, "VAL": {},
	"MSE": {}, "SEC": {}, "PYL": {}, "SEP": {}, "TPO": {},
	"PTR": {}, "HID": {}, "HIE": {}, "HIP": {}, "CSO": {},
}

// Chain holds residues in file order with O(1) lookup by id.
type Chain struct {
	ID       string
	Residues []*Residue
	byID     map[ResidueID]*Residue
}

func NewChain(id string) *Chain {
	return &Chain{ID: id, byID: make(map[ResidueID]*Residue)}
}

// Add appends a residue. A residue whose id is already present is ignored.
func (c *Chain) Add(r *Residue) {
	if _, ok := c.byID[r.ID]; ok {
		return
	}
	r.ChainID = c.ID
	c.Residues = append(c.Residues, r)
	c.byID[r.ID] = r
}

func (c *Chain) Residue(id ResidueID) (*Residue, bool) {
	r, ok := c.byID[id]
	return r, ok
}

type Model struct {
	ID     int
	Chains []*Chain
	byID   map[string]*Chain
}

func NewModel(id int) *Model {
	return &Model{ID: id, byID: make(map[string]*Chain)}
}

// Chain returns the chain with the given id, creating it when create is set.
func (m *Model) Chain(id string, create bool) (*Chain, bool) {
	if c, ok := m.byID[id]; ok {
		return c, true
	}
	if !create {
		return nil, false
	}
	c := NewChain(id)
	m.Chains = append(m.Chains, c)
	m.byID[id] = c
	return c, true
}

// Residue resolves a residue by chain and residue id.
func (m *Model) Residue(chainID string, id ResidueID) (*Residue, bool) {
	c, ok := m.byID[chainID]
	if !ok {
		return nil, false
	}
	return c.Residue(id)
}

// Structure is a parsed coordinate file: model id -> chain id -> residue id -> atom.
type Structure struct {
	Path   string
	Models []*Model
	byID   map[int]*Model
}

func NewStructure(path string) *Structure {
	return &Structure{Path: path, byID: make(map[int]*Model)}
}

// Model returns the model with the given id, creating it when create is set.
func (s *Structure) Model(id int, create bool) (*Model, bool) {
	if m, ok := s.byID[id]; ok {
		return m, true
	}
	if !create {
		return nil, false
	}
	m := NewModel(id)
	s.Models = append(s.Models, m)
	s.byID[id] = m
	return m, true
}
