package classifier

import (
	"cmp"
	"fmt"
	"math"
	"math/big"
	"slices"
	"strconv"
)

// Rank pairs scores with labels by index, sorts them by descending
// confidence keeping label order among ties, drops every prediction whose
// rounded percentage is 0.00 and keeps the first topK. NaN scores sort last.
// topK < 1 means DefaultTopK.
func Rank(scores []float32, labels Labels, topK int) (Result, error) {
	if len(scores) != len(labels) {
		return nil, fmt.Errorf("%w: %d scores for %d labels", ErrShapeMismatch, len(scores), len(labels))
	}

	items := make([]Prediction, len(scores))
	for i, v := range scores {
		items[i] = Prediction{Label: labels[i], Confidence: v}
	}

	if topK < 1 {
		topK = DefaultTopK
	}

	slices.SortStableFunc(items, func(a, b Prediction) int {
		return cmp.Compare(b.Confidence, a.Confidence)
	})

	result := make(Result, 0, min(topK, len(items)))
	for _, it := range items {
		if len(result) == topK {
			break
		}
		if RoundedPercent(it.Confidence) > 0 {
			result = append(result, it)
		}
	}
	return result, nil
}

// RoundedPercent returns confidence*100, computed in float32, rounded half up
// to two decimal places. Rounding is applied to the shortest decimal form of
// the percentage, so 0.0000499 gives 0 and 0.0001 gives 0.01.
func RoundedPercent(confidence float32) float64 {
	p := float64(confidence * 100)
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return p
	}
	r, ok := new(big.Rat).SetString(strconv.FormatFloat(p, 'f', -1, 64))
	if !ok {
		return p
	}
	neg := r.Sign() < 0
	r.Abs(r)
	r.Mul(r, big.NewRat(100, 1))
	r.Add(r, big.NewRat(1, 2))
	cents := new(big.Int).Quo(r.Num(), r.Denom())
	if neg {
		cents.Neg(cents)
	}
	f, _ := new(big.Rat).SetFrac(cents, big.NewInt(100)).Float64()
	return f
}
