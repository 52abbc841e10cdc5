// Package broaden turns discrete spectral lines into a continuous spectrum on
// a uniform frequency grid.
//
// Each line contributes a profile centred at its frequency whose peak height
// equals the line intensity and whose half-width at half-maximum equals the
// line's linewidth:
//
//	Lorentzian: I * w^2 / ((f - f0)^2 + w^2)
//	Gaussian:   I * exp(-ln2 * (f - f0)^2 / w^2)
//
// The Lorentzian integrates to pi*I*w over the whole axis.
//
// Linewidths are resolved per line from, in order of precedence, a per-mode
// mapping, a frequency-dependent [LinewidthTable], or the global default.
//
// Two evaluation methods are available. [Direct] evaluates every profile at
// every grid point and is exact. [Convolution] distributes each line onto its
// two neighbouring grid points and convolves the stick spectrum with a sampled
// profile (FFT-based for long grids); lines sitting exactly on grid points are
// reproduced to rounding.
//
// # Usage
//
//	grid := broaden.Grid{Min: 400, Max: 4000, Step: 0.5}
//	s, err := broaden.Broaden(lines, grid, broaden.DefaultOptions())
//	for f, y := range s.All() {
//		fmt.Println(f, y)
//	}
package broaden
