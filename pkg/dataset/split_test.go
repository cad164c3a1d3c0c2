package dataset

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func sequenceNames(n int) []string {
	names := []string{}
	for i := 0; i < n; i++ {
		names = append(names, fmt.Sprintf("MVI_%05d", 20000+i))
	}
	return names
}

func TestSplitDeterministic(t *testing.T) {
	seqs := sequenceNames(60)
	a := SplitSequences(seqs, DefaultSeed, DefaultTrainFraction)
	b := SplitSequences(seqs, DefaultSeed, DefaultTrainFraction)
	require.Equal(t, a, b)
	require.Len(t, a.Train, 48)
	require.Len(t, a.Val, 12)
	// The input is not modified
	require.Equal(t, sequenceNames(60), seqs)
}

func TestSplitPartition(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3, 5, 10, 61} {
		seqs := sequenceNames(n)
		split := SplitSequences(seqs, DefaultSeed, DefaultTrainFraction)
		require.Len(t, split.Train, n*8/10, "n = %v", n)

		all := append(append([]string{}, split.Train...), split.Val...)
		sort.Strings(all)
		if n == 0 {
			require.Empty(t, all)
		} else {
			require.Equal(t, seqs, all, "n = %v", n)
		}

		inTrain := map[string]bool{}
		for _, s := range split.Train {
			inTrain[s] = true
		}
		for _, s := range split.Val {
			require.False(t, inTrain[s], "%v is in both train and val", s)
		}
	}
}

func TestSplitBoundaries(t *testing.T) {
	split := SplitSequences(nil, DefaultSeed, DefaultTrainFraction)
	require.Empty(t, split.Train)
	require.Empty(t, split.Val)

	// floor(0.8 * 1) = 0, so the only sequence goes to validation
	split = SplitSequences([]string{"MVI_20011"}, DefaultSeed, DefaultTrainFraction)
	require.Empty(t, split.Train)
	require.Equal(t, []string{"MVI_20011"}, split.Val)

	split = SplitSequences(sequenceNames(4), DefaultSeed, 1)
	require.Len(t, split.Train, 4)
	require.Empty(t, split.Val)
}

func TestSplitAppendDoesNotAlias(t *testing.T) {
	split := SplitSequences(sequenceNames(10), DefaultSeed, DefaultTrainFraction)
	val0 := split.Val[0]
	_ = append(split.Train, "extra")
	require.Equal(t, val0, split.Val[0])
}
