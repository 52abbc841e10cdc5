package interp

import (
	"math"
	"sort"
)

// Lerp returns a + t*(b-a).
func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Table evaluates the piecewise-linear function through (xs, ys) at x.
// xs must be strictly increasing. Outside [xs[0], xs[n-1]] the end values
// are returned. An empty or inconsistent table yields 0.
func Table(xs, ys []float64, x float64) float64 {
	n := len(xs)
	if n == 0 || n != len(ys) {
		return 0
	}
	if x <= xs[0] {
		return ys[0]
	}
	if x >= xs[n-1] {
		return ys[n-1]
	}

	j := sort.SearchFloat64s(xs, x)
	t := (x - xs[j-1]) / (xs[j] - xs[j-1])
	return Lerp(ys[j-1], ys[j], t)
}

// Deposit adds v to dst at fractional index pos, split linearly between the
// two neighbouring samples. Weight that falls outside dst is dropped.
func Deposit(dst []float64, pos, v float64) {
	j := int(math.Floor(pos))
	u := pos - float64(j)
	if j >= 0 && j < len(dst) {
		dst[j] += (1 - u) * v
	}
	if j+1 >= 0 && j+1 < len(dst) {
		dst[j+1] += u * v
	}
}
