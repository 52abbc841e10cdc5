// Package displace generates finite-displacement structures along phonon
// eigendisplacements.
//
// Each retained mode's eigendisplacement is rescaled to unit Euclidean norm
// over all 3N components, multiplied by the step length, and added to (and
// optionally subtracted from) the equilibrium positions. The step therefore
// bounds the total displacement of a mode independently of its
// mass-weighted normalisation, and one step value applies uniformly to all
// modes. Fractional coordinates of periodic structures are recomputed but not
// wrapped into the cell.
//
// By default acoustic modes (|f| below a threshold) and unstable modes
// (negative frequency) are skipped; unstable and zero-norm modes are reported
// as warnings in the [Result].
package displace
