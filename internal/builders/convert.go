package builders

import (
	"math"
	"sort"
)

// toFloat coerces JSON-decoded numeric values.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func floatOrZero(v any) float64 {
	f, _ := toFloat(v)
	return f
}

// toFloatSlice coerces a JSON-decoded array of numbers. Non-numeric
// elements are skipped.
func toFloatSlice(v any) []float64 {
	switch vals := v.(type) {
	case []float64:
		return append([]float64(nil), vals...)
	case []any:
		out := make([]float64, 0, len(vals))
		for _, item := range vals {
			if f, ok := toFloat(item); ok {
				out = append(out, f)
			}
		}
		return out
	}
	return nil
}

// diff returns successive differences of a position sequence.
func diff(positions []float64) []float64 {
	if len(positions) < 2 {
		return nil
	}
	out := make([]float64, len(positions)-1)
	for i := 1; i < len(positions); i++ {
		out[i-1] = positions[i] - positions[i-1]
	}
	return out
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

func stdDev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

// median interpolates between the two middle values for even lengths.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func minMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// binaryEntropy computes the Shannon entropy of a two-class distribution.
func binaryEntropy(p, q float64) float64 {
	entropy := 0.0
	if p > 0 {
		entropy -= p * math.Log2(p)
	}
	if q > 0 {
		entropy -= q * math.Log2(q)
	}
	return entropy
}
