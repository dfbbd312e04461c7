// Package listfmt serializes contact pairs and value lists to the flat
// string tokens stored in tables.
package listfmt

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"pinterf/internal/domain"
)

const (
	// PairSep joins the two residues of a contact pair.
	PairSep = ":"
	// ListSep joins list elements.
	ListSep = ","
)

// PairToken returns the canonical token of an unordered residue pair.
func PairToken(a, b domain.ResidueID) string {
	if b.Less(a) {
		a, b = b, a
	}
	return a.String() + PairSep + b.String()
}

// ParsePairToken splits a pair token into its two residue ids.
func ParsePairToken(token string) (domain.ResidueID, domain.ResidueID, error) {
	left, right, ok := strings.Cut(token, PairSep)
	if !ok {
		return domain.ResidueID{}, domain.ResidueID{}, fmt.Errorf("invalid pair token %q", token)
	}
	a, err := domain.ParseResidueID(left)
	if err != nil {
		return domain.ResidueID{}, domain.ResidueID{}, err
	}
	b, err := domain.ParseResidueID(right)
	if err != nil {
		return domain.ResidueID{}, domain.ResidueID{}, err
	}
	return a, b, nil
}

// Join returns the list token of a string collection.
func Join(items []string) string {
	return strings.Join(items, ListSep)
}

// JoinFloats returns the list token of a float collection.
func JoinFloats(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return Join(parts)
}

// Split parses a list token into strings. Whitespace around elements is
// trimmed and an empty token yields an empty list.
func Split(token string) []string {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	parts := strings.Split(token, ListSep)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// SplitFloats parses a list token into floats.
func SplitFloats(token string) ([]float64, error) {
	parts := Split(token)
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float %q in list: %w", p, err)
		}
		out[i] = v
	}
	return out, nil
}

// SplitInts parses a list token into ints.
func SplitInts(token string) ([]int, error) {
	parts := Split(token)
	out := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid int %q in list: %w", p, err)
		}
		out[i] = v
	}
	return out, nil
}

// ContactSet parses a pair list token and a distance list token.
func ContactSet(pairs, distances string) (domain.ContactSet, error) {
	ds, err := SplitFloats(distances)
	if err != nil {
		return domain.ContactSet{}, err
	}
	return domain.NewContactSet(Split(pairs), ds)
}

// ParseResidueRanges parses residue selections such as "32-40,57,59-67"
// into a sorted, de-duplicated list of residue numbers.
func ParseResidueRanges(ranges string) ([]int, error) {
	seen := make(map[int]struct{})
	for _, part := range Split(ranges) {
		if part == "" {
			continue
		}
		// a leading '-' belongs to a negative start number
		idx := strings.Index(part[1:], "-")
		if idx < 0 {
			n, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("invalid residue %q: %w", part, err)
			}
			seen[n] = struct{}{}
			continue
		}
		lo, err := strconv.Atoi(part[:idx+1])
		if err != nil {
			return nil, fmt.Errorf("invalid residue range %q: %w", part, err)
		}
		hi, err := strconv.Atoi(part[idx+2:])
		if err != nil {
			return nil, fmt.Errorf("invalid residue range %q: %w", part, err)
		}
		if hi < lo {
			return nil, fmt.Errorf("invalid residue range %q: end before start", part)
		}
		for n := lo; n <= hi; n++ {
			seen[n] = struct{}{}
		}
	}
	out := make([]int, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Ints(out)
	return out, nil
}
