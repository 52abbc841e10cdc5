package core

import "math"

const defaultEpsilon = 1e-12

// NearlyEqual reports whether a and b are equal within eps, either absolutely
// or relative to the larger magnitude.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	return diff/largest <= eps
}

// IsFinite reports whether x is neither NaN nor infinite.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// GridLen returns the number of points of the uniform grid min, min+step, ...
// not exceeding max. A max that lies within rounding of a grid point is
// included. It returns 0 for invalid parameters.
func GridLen(min, max, step float64) int {
	if !IsFinite(min) || !IsFinite(max) || !(step > 0) || max < min {
		return 0
	}
	n := (max - min) / step
	k := math.Floor(n)
	if NearlyEqual(n, k+1, 1e-9) {
		k++
	}
	return int(k) + 1
}

// Linspace returns n points starting at min spaced by step.
func Linspace(min, step float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = min + float64(i)*step
	}
	return out
}
