package qscore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinterf/internal/domain"
)

func contacts(t *testing.T, pairs []string, dists []float64) domain.ContactSet {
	t.Helper()
	cs, err := domain.NewContactSet(pairs, dists)
	require.NoError(t, err)
	return cs
}

func TestScoreIdentity(t *testing.T) {
	s := NewScorer(1)
	a := contacts(t, []string{"1:10", "2:11", "5:30"}, []float64{3.0, 4.0, 7.5})

	assert.Equal(t, 0.0, s.Score(a, a))

	// same membership in another order
	b := contacts(t, []string{"5:30", "1:10", "2:11"}, []float64{7.5, 3.0, 4.0})
	assert.Equal(t, 0.0, s.Score(a, b))
}

func TestScoreSymmetry(t *testing.T) {
	s := NewScorer(1)
	a := contacts(t, []string{"1:10", "2:11", "3:12", "4:13"}, []float64{3.1, 4.7, 5.2, 6.6})
	b := contacts(t, []string{"2:11", "3:12", "9:20"}, []float64{4.0, 8.9, 5.5})

	assert.Equal(t, s.Score(a, b), s.Score(b, a))
}

func TestScoreDisjointAndEmpty(t *testing.T) {
	s := NewScorer(1)
	a := contacts(t, []string{"1:10"}, []float64{3})
	b := contacts(t, []string{"2:11"}, []float64{3})
	empty := domain.ContactSet{}

	assert.Equal(t, MaxDissimilarity, s.Score(a, b))
	assert.Equal(t, MaxDissimilarity, s.Score(a, empty))
	assert.Equal(t, MaxDissimilarity, s.Score(empty, empty))
}

func TestScoreMonotonicity(t *testing.T) {
	s := NewScorer(1)
	ref := contacts(t, []string{"1:10", "2:11"}, []float64{3, 4})

	closeDist := contacts(t, []string{"1:10", "2:11"}, []float64{3, 4.5})
	farDist := contacts(t, []string{"1:10", "2:11"}, []float64{3, 6})
	assert.Less(t, s.Score(ref, closeDist), s.Score(ref, farDist))

	lessOverlap := contacts(t, []string{"1:10", "7:19"}, []float64{3, 4})
	assert.Less(t, s.Score(ref, ref), s.Score(ref, lessOverlap))

	extra := contacts(t, []string{"1:10", "2:11", "8:40"}, []float64{3, 4, 5})
	assert.Greater(t, s.Score(ref, extra), 0.0)
}

func TestScoreBounded(t *testing.T) {
	s := NewScorer(0.25)
	a := contacts(t, []string{"1:10", "2:11"}, []float64{0, 100})
	b := contacts(t, []string{"1:10", "2:11"}, []float64{100, 0})

	got := s.Score(a, b)
	assert.GreaterOrEqual(t, got, 0.0)
	assert.LessOrEqual(t, got, MaxDissimilarity)
}

func TestScoreKnownValue(t *testing.T) {
	s := NewScorer(1)
	a := contacts(t, []string{"1:10", "2:11"}, []float64{3, 4})
	b := contacts(t, []string{"1:10", "3:12"}, []float64{3, 4})

	// one exact shared contact over a union of three
	assert.InDelta(t, 1-1.0/3.0, s.Score(a, b), 1e-12)
}
