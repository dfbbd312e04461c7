package port

import "pinterf/internal/domain"

// Scorer compares two interfaces' contact sets.
type Scorer interface {
	// Score returns a dissimilarity in [0, 1]; 0 means identical contacts
	// and distances. It must be symmetric in its arguments.
	Score(a, b domain.ContactSet) float64
}
