// Package conv provides the linear convolution backend used for line-shape
// broadening on uniform frequency grids.
//
// Two strategies are available:
//
//   - Direct convolution: O(N*M) accumulation, best for short kernels (<= 64 samples)
//   - Overlap-add (OLA): FFT-based block convolution for long kernels
//
// [Convolve] selects between them by kernel length. [Centered] convolves a
// signal with a symmetric kernel given by its non-negative half, returning a
// result aligned with the input grid. This is the shape needed to spread
// stick spectra with a Lorentzian or Gaussian profile.
//
// # Usage
//
//	full, err := conv.Convolve(signal, kernel)
//	same, err := conv.Centered(sticks, halfProfile)
//
// For repeated convolution with the same kernel, create a reusable convolver:
//
//	oa, err := conv.NewOverlapAdd(kernel, 0)
//	result, err := oa.Process(signal)
package conv
