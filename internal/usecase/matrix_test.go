package usecase

import (
	"context"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinterf/internal/adapter/memstore"
	"pinterf/internal/adapter/qscore"
	"pinterf/internal/domain"
)

func record(t *testing.T, pdb, id string, pairs []string, dists []float64) domain.InterfaceRecord {
	t.Helper()
	cs, err := domain.NewContactSet(pairs, dists)
	require.NoError(t, err)
	rec, err := domain.NewInterfaceRecord(
		domain.Entry{CoordPath: pdb + ".pdb", ChainID: "A", PDBID: pdb},
		domain.CandidateInterface{ID: id},
		cs,
	)
	require.NoError(t, err)
	return rec
}

func fiveRecords(t *testing.T) []domain.InterfaceRecord {
	return []domain.InterfaceRecord{
		record(t, "5EEE", "1", []string{"1:2", "3:4"}, []float64{4, 5}),
		record(t, "1AAA", "1", []string{"1:2"}, []float64{4}),
		record(t, "2BBB", "10", []string{"1:2", "3:4", "5:6"}, []float64{4, 6, 7}),
		record(t, "2BBB", "2", []string{"7:8"}, []float64{3}),
		record(t, "3CCC", "1", nil, nil),
	}
}

// countingScorer counts Score calls and can cancel a context after n calls.
type countingScorer struct {
	inner    *qscore.Scorer
	calls    int
	cancelAt int
	cancel   context.CancelFunc
}

func (s *countingScorer) Score(a, b domain.ContactSet) float64 {
	s.calls++
	if s.cancel != nil && s.calls == s.cancelAt {
		s.cancel()
	}
	return s.inner.Score(a, b)
}

func newCounting() *countingScorer {
	return &countingScorer{inner: qscore.NewScorer(1)}
}

func TestSortRecords(t *testing.T) {
	sorted := SortRecords(fiveRecords(t))
	assert.Equal(t, []string{"1AAA1", "2BBB2", "2BBB10", "3CCC1", "5EEE1"}, keys(sorted))
}

func TestMatrixSelf(t *testing.T) {
	scorer := newCounting()
	b := NewMatrixBuilder(scorer, nil, MatrixOptions{}, zerolog.Nop(), nil)

	var last [2]int
	m, err := b.Build(context.Background(), fiveRecords(t), nil, func(done, total int) { last = [2]int{done, total} })
	require.NoError(t, err)

	assert.Equal(t, 5, m.Rows())
	assert.Equal(t, 5, m.Cols())
	assert.Equal(t, 10, scorer.calls)
	assert.Equal(t, [2]int{10, 10}, last)
	assert.Equal(t, []string{"1AAA1", "2BBB2", "2BBB10", "3CCC1", "5EEE1"}, m.RowLabels)
	assert.Equal(t, m.RowLabels, m.ColLabels)

	written := 0
	for i := 0; i < 5; i++ {
		d, _ := m.At(i, i)
		assert.Zero(t, d)
		for j := 0; j < 5; j++ {
			upper, _ := m.At(i, j)
			lower, _ := m.At(j, i)
			assert.Equal(t, upper, lower)
			if i != j && upper > 0 {
				written++
			}
		}
	}
	assert.Equal(t, 20, written)

	// 1AAA1 and 2BBB10 share 1:2 at equal distance out of three pairs
	v, _ := m.At(0, 2)
	assert.InDelta(t, 1-1.0/3, v, 1e-12)
	// anything against the empty 3CCC1 is maximal
	v, _ = m.At(3, 0)
	assert.Equal(t, qscore.MaxDissimilarity, v)
}

func TestMatrixReference(t *testing.T) {
	all := fiveRecords(t)
	removed := []domain.InterfaceRecord{all[0], all[4]}
	included := all[1:4]

	scorer := qscore.NewScorer(1)
	m, err := NewMatrixBuilder(scorer, nil, MatrixOptions{}, zerolog.Nop(), nil).Build(context.Background(), included, removed, nil)
	require.NoError(t, err)

	require.Equal(t, 2, m.Rows())
	require.Equal(t, 3, m.Cols())
	assert.Equal(t, []string{"3CCC1", "5EEE1"}, m.RowLabels)
	assert.Equal(t, []string{"1AAA1", "2BBB2", "2BBB10"}, m.ColLabels)

	rows := SortRecords(removed)
	cols := SortRecords(included)
	for i := range rows {
		for j := range cols {
			got, err := m.At(i, j)
			require.NoError(t, err)
			assert.Equal(t, scorer.Score(rows[i].Contacts, cols[j].Contacts), got)
		}
	}

	// 5EEE1 {1:2 4, 3:4 5} vs 2BBB10 {1:2 4, 3:4 6, 5:6 7}
	v, _ := m.At(1, 2)
	assert.InDelta(t, 1-(1+math.Exp(-1))/3, v, 1e-12)
}

func TestMatrixIdenticalInterfaces(t *testing.T) {
	a := record(t, "1AAA", "1", []string{"10:50", "11:51"}, []float64{2, 3})
	b := record(t, "1BBB", "1", []string{"10:50", "11:51"}, []float64{2, 3})

	m, err := NewMatrixBuilder(qscore.NewScorer(1), nil, MatrixOptions{}, zerolog.Nop(), nil).Build(context.Background(), []domain.InterfaceRecord{a, b}, nil, nil)
	require.NoError(t, err)
	v, _ := m.At(0, 1)
	assert.Zero(t, v)
}

func TestMatrixEmpty(t *testing.T) {
	m, err := NewMatrixBuilder(qscore.NewScorer(1), nil, MatrixOptions{}, zerolog.Nop(), nil).Build(context.Background(), nil, nil, nil)
	require.NoError(t, err)
	assert.Zero(t, m.Rows())
	assert.Zero(t, m.Cols())
}

func TestMatrixResume(t *testing.T) {
	store := memstore.NewMemoryStore()
	opts := MatrixOptions{CheckpointEvery: 3, Resume: true}

	ctx, cancel := context.WithCancel(context.Background())
	interrupted := newCounting()
	interrupted.cancelAt, interrupted.cancel = 4, cancel
	_, err := NewMatrixBuilder(interrupted, store, opts, zerolog.Nop(), nil).Build(ctx, fiveRecords(t), nil, nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 8, store.Len())

	resumed := newCounting()
	m, err := NewMatrixBuilder(resumed, store, opts, zerolog.Nop(), nil).Build(context.Background(), fiveRecords(t), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 6, resumed.calls)
	assert.Equal(t, 20, store.Len())

	fresh, err := NewMatrixBuilder(qscore.NewScorer(1), nil, opts, zerolog.Nop(), nil).Build(context.Background(), fiveRecords(t), nil, nil)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		want, _ := fresh.Row(i)
		got, _ := m.Row(i)
		assert.Equal(t, want, got)
	}
}

func TestMatrixResumeDisabledOrInputsChanged(t *testing.T) {
	store := memstore.NewMemoryStore()
	_, err := NewMatrixBuilder(qscore.NewScorer(1), store, MatrixOptions{Resume: true}, zerolog.Nop(), nil).Build(context.Background(), fiveRecords(t), nil, nil)
	require.NoError(t, err)

	again := newCounting()
	_, err = NewMatrixBuilder(again, store, MatrixOptions{Resume: false}, zerolog.Nop(), nil).Build(context.Background(), fiveRecords(t), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 10, again.calls)

	changed := newCounting()
	_, err = NewMatrixBuilder(changed, store, MatrixOptions{Resume: true}, zerolog.Nop(), nil).Build(context.Background(), fiveRecords(t)[:4], nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 6, changed.calls)
}

func TestFingerprint(t *testing.T) {
	recs := SortRecords(fiveRecords(t))
	base := Fingerprint(recs, recs, true, "")
	assert.Equal(t, base, Fingerprint(recs, recs, true, ""))
	assert.NotEqual(t, base, Fingerprint(recs, recs, true, "scale=2"))
	assert.NotEqual(t, base, Fingerprint(recs, recs, false, ""))
	assert.NotEqual(t, base, Fingerprint(recs[:4], recs[:4], true, ""))
}

func TestFindRecord(t *testing.T) {
	r, ok := FindRecord(fiveRecords(t), "2BBB10")
	require.True(t, ok)
	assert.Equal(t, "10", r.Interface.ID)

	_, ok = FindRecord(fiveRecords(t), "nope")
	assert.False(t, ok)
}
