package phonon

import (
	"fmt"
	"math"
)

// DefaultAcousticThreshold is the |frequency| below which a mode is treated
// as a rigid translation, in the caller's frequency unit (typically cm^-1).
const DefaultAcousticThreshold = 1.0

// Mode is a zone-centre phonon mode.
//
// Eigenvector holds one mass-weighted complex amplitude triple per atom and is
// normalised so that the squared moduli of all 3N components sum to 1. A
// negative Frequency denotes an imaginary (unstable) mode.
type Mode struct {
	Frequency   float64
	Eigenvector [][3]complex128
}

// Masses holds one positive atomic mass per atom, aligned with Structure.
type Masses []float64

// Eigendisplacement is the real-space displacement pattern of one mode,
// one Cartesian vector per atom.
type Eigendisplacement []Vec3

// Flatten returns the 3N components in atom-major order.
func (e Eigendisplacement) Flatten() []float64 {
	out := make([]float64, 0, 3*len(e))
	for _, v := range e {
		out = append(out, v[0], v[1], v[2])
	}
	return out
}

// IsAcoustic reports whether freq lies within threshold of zero.
// A non-positive threshold selects DefaultAcousticThreshold.
func IsAcoustic(freq, threshold float64) bool {
	if threshold <= 0 {
		threshold = DefaultAcousticThreshold
	}
	return math.Abs(freq) < threshold
}

// IsUnstable reports whether freq is negative and not acoustic.
func IsUnstable(freq, threshold float64) bool {
	return freq < 0 && !IsAcoustic(freq, threshold)
}

// Frequencies returns the frequency of every mode.
func Frequencies(modes []Mode) []float64 {
	out := make([]float64, len(modes))
	for i, m := range modes {
		out[i] = m.Frequency
	}
	return out
}

// ValidateMasses checks that every mass is positive.
func ValidateMasses(masses Masses) error {
	for i, m := range masses {
		if !(m > 0) {
			return fmt.Errorf("%w: atom %d has mass %g", ErrInvalidMass, i+1, m)
		}
	}
	return nil
}

// ValidateModes checks that there are 3N modes with N eigenvector entries each.
func ValidateModes(modes []Mode, natoms int) error {
	if len(modes) != 3*natoms {
		return shapeError("mode count", len(modes), 3*natoms)
	}
	for i, m := range modes {
		if len(m.Eigenvector) != natoms {
			return fmt.Errorf("mode %d: %w", i+1, shapeError("eigenvector atoms", len(m.Eigenvector), natoms))
		}
	}
	return nil
}

// EigendisplacementOf converts a mass-weighted eigenvector into real-space
// atomic displacements, u[i][a] = Re(e[i][a]) / sqrt(m[i]).
//
// At the zone centre the eigenvectors can always be chosen real; only the real
// part of each component is used.
func EigendisplacementOf(mode Mode, masses Masses) (Eigendisplacement, error) {
	if len(mode.Eigenvector) != len(masses) {
		return nil, shapeError("eigenvector atoms vs masses", len(mode.Eigenvector), len(masses))
	}
	if err := ValidateMasses(masses); err != nil {
		return nil, err
	}
	return eigendisplacement(mode, masses), nil
}

func eigendisplacement(mode Mode, masses Masses) Eigendisplacement {
	out := make(Eigendisplacement, len(masses))
	for i, v := range mode.Eigenvector {
		inv := 1 / math.Sqrt(masses[i])
		out[i] = Vec3{real(v[0]) * inv, real(v[1]) * inv, real(v[2]) * inv}
	}
	return out
}

// Eigendisplacements converts every mode. It fails if any eigenvector does not
// match the mass array.
func Eigendisplacements(modes []Mode, masses Masses) ([]Eigendisplacement, error) {
	if err := ValidateMasses(masses); err != nil {
		return nil, err
	}
	out := make([]Eigendisplacement, len(modes))
	for i, m := range modes {
		if len(m.Eigenvector) != len(masses) {
			return nil, fmt.Errorf("mode %d: %w", i+1, shapeError("eigenvector atoms vs masses", len(m.Eigenvector), len(masses)))
		}
		out[i] = eigendisplacement(m, masses)
	}
	return out, nil
}
