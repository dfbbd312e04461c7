// Package qscore implements the interface dissimilarity metric.
//
// For contact sets A and B with union U:
//
//	Q     = (1/|U|) Σ_{c ∈ A∩B} exp(-|dA(c) - dB(c)| / scale)
//	score = 1 - Q
//
// An empty union scores 1, the maximum dissimilarity.
package qscore

import (
	"math"
	"sort"

	"pinterf/internal/domain"
)

// MaxDissimilarity is the score of disjoint or empty contact sets.
const MaxDissimilarity = 1.0

// Scorer computes Q-score dissimilarities.
type Scorer struct {
	scale float64
}

// NewScorer creates a scorer; scale is the distance discrepancy (Angstrom)
// at which a shared contact's weight decays to 1/e. Non-positive values
// fall back to 1.
func NewScorer(scale float64) *Scorer {
	if scale <= 0 {
		scale = 1
	}
	return &Scorer{scale: scale}
}

// Score returns the dissimilarity between two contact sets.
func (s *Scorer) Score(a, b domain.ContactSet) float64 {
	da := distanceMap(a)
	db := distanceMap(b)

	union := len(da)
	for pair := range db {
		if _, ok := da[pair]; !ok {
			union++
		}
	}
	if union == 0 {
		return MaxDissimilarity
	}

	// sum in sorted pair order so the result is bit-identical for (a, b) and (b, a)
	shared := make([]string, 0, len(da))
	for pair := range da {
		if _, ok := db[pair]; ok {
			shared = append(shared, pair)
		}
	}
	sort.Strings(shared)

	var q float64
	for _, pair := range shared {
		q += math.Exp(-math.Abs(da[pair]-db[pair]) / s.scale)
	}

	score := 1 - q/float64(union)
	// clamp float noise
	if score < 0 {
		return 0
	}
	if score > MaxDissimilarity {
		return MaxDissimilarity
	}
	return score
}

// distanceMap keeps the first distance of each pair.
func distanceMap(cs domain.ContactSet) map[string]float64 {
	pairs := cs.Pairs()
	dists := cs.Distances()
	m := make(map[string]float64, len(pairs))
	for i, p := range pairs {
		if _, ok := m[p]; ok {
			continue
		}
		m[p] = dists[i]
	}
	return m
}
