// Package interp provides linear interpolation on sample grids and tables.
//
//   - [Lerp]:    2-point linear interpolation
//   - [Table]:   piecewise-linear lookup in a tabulated function, clamped
//   - [Deposit]: linear splitting of a value onto a grid, the adjoint of
//     interpolation (used to place spectral lines between grid points)
package interp
