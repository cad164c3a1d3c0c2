package dataset

import (
	"math"
	"math/rand"
)

// Split is a partition of sequence names into a training and validation set
type Split struct {
	Train []string `json:"train"`
	Val   []string `json:"val"`
}

// SplitSequences shuffles a copy of sequences with a Fisher-Yates shuffle (math/rand, seeded with seed),
// and then cuts it at floor(trainFraction * len). The first part is the training set.
// The caller is expected to pass a sorted slice, so that the result does not depend on directory iteration order.
// Go's seeded math/rand sources are stable across releases, so a given input and seed always produces the same split.
func SplitSequences(sequences []string, seed int64, trainFraction float64) Split {
	shuffled := make([]string, len(sequences))
	copy(shuffled, sequences)

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	cut := int(math.Floor(trainFraction * float64(len(shuffled))))
	cut = max(0, min(cut, len(shuffled)))
	return Split{
		Train: shuffled[:cut:cut],
		Val:   shuffled[cut:],
	}
}
