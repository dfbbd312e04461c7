package listfmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinterf/internal/domain"
)

func TestPairTokenIsCanonical(t *testing.T) {
	a := domain.ResidueID{Num: 10}
	b := domain.ResidueID{Num: 2}

	assert.Equal(t, "2:10", PairToken(a, b))
	assert.Equal(t, PairToken(a, b), PairToken(b, a))

	ins := domain.ResidueID{Num: 52, ICode: "A"}
	plain := domain.ResidueID{Num: 52}
	assert.Equal(t, "52:52A", PairToken(ins, plain))

	x, y, err := ParsePairToken("52:52A")
	require.NoError(t, err)
	assert.Equal(t, plain, x)
	assert.Equal(t, ins, y)

	_, _, err = ParsePairToken("52")
	assert.Error(t, err)
}

func TestSplitTyped(t *testing.T) {
	assert.Nil(t, Split(""))
	assert.Equal(t, []string{"1:10", "2:11"}, Split("1:10, 2:11"))

	fs, err := SplitFloats(JoinFloats([]float64{3, 4.25}))
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 4.25}, fs)

	is, err := SplitInts("5,7")
	require.NoError(t, err)
	assert.Equal(t, []int{5, 7}, is)

	_, err = SplitFloats("1,x")
	assert.Error(t, err)
}

func TestContactSet(t *testing.T) {
	cs, err := ContactSet("1:10,2:11", "3,4")
	require.NoError(t, err)
	assert.Equal(t, 2, cs.Len())

	_, err = ContactSet("1:10,2:11", "3")
	assert.ErrorIs(t, err, domain.ErrMisalignedContacts)
}

func TestParseResidueRanges(t *testing.T) {
	got, err := ParseResidueRanges("32-35,57,33,-2--1")
	require.NoError(t, err)
	assert.Equal(t, []int{-2, -1, 32, 33, 34, 35, 57}, got)

	_, err = ParseResidueRanges("40-32")
	assert.Error(t, err)

	_, err = ParseResidueRanges("a-b")
	assert.Error(t, err)
}
