package inference

import "math"

// probabilityTolerance bounds how far the sum of an output vector may drift
// from 1 and still be taken as probabilities.
const probabilityTolerance = 1e-3

// toProbabilities returns out unchanged (as float64) when it already is a
// probability vector, otherwise its softmax.
func toProbabilities(out []float32) []float64 {
	probs := make([]float64, len(out))
	if len(out) == 0 {
		return probs
	}

	sum := 0.0
	isDistribution := true
	for i, v := range out {
		f := float64(v)
		if f < 0 || f > 1 || math.IsNaN(f) {
			isDistribution = false
		}
		probs[i] = f
		sum += f
	}
	if isDistribution && math.Abs(sum-1) <= probabilityTolerance {
		return probs
	}

	maxLogit := probs[0]
	for _, v := range probs[1:] {
		maxLogit = max(maxLogit, v)
	}
	sum = 0
	for i, v := range probs {
		probs[i] = math.Exp(v - maxLogit)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// topTwo returns the indexes of the largest and second largest values.
// second is -1 when probs has fewer than two entries. Ties resolve to the
// lower index.
func topTwo(probs []float64) (first, second int) {
	first, second = -1, -1
	for i, p := range probs {
		switch {
		case first < 0 || p > probs[first]:
			second = first
			first = i
		case second < 0 || p > probs[second]:
			second = i
		}
	}
	return first, second
}

// allFinite reports whether probs holds no NaN or infinite entry.
func allFinite(probs []float64) bool {
	for _, p := range probs {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return false
		}
	}
	return true
}
