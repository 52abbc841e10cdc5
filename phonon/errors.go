package phonon

import (
	"errors"
	"fmt"
)

// Errors shared by the post-processing pipeline.
//
// ErrShapeMismatch, ErrMissingBornData and ErrAmbiguousGrouping are fatal.
// ErrUnstableMode and ErrNormalization are recoverable and only appear as the
// Kind of a [Warning].
var (
	ErrShapeMismatch     = errors.New("phonon: shape mismatch")
	ErrMissingBornData   = errors.New("phonon: missing Born charge data")
	ErrAmbiguousGrouping = errors.New("phonon: ambiguous degenerate-mode grouping")
	ErrUnstableMode      = errors.New("phonon: unstable mode")
	ErrNormalization     = errors.New("phonon: zero-norm eigendisplacement")
	ErrInvalidMass       = errors.New("phonon: atomic mass must be > 0")
	ErrSingularLattice   = errors.New("phonon: lattice vectors are linearly dependent")
)

// Warning reports a recoverable condition affecting a single mode.
type Warning struct {
	Kind      error // ErrUnstableMode or ErrNormalization
	Mode      int   // zero-based mode index
	Frequency float64
	Message   string
}

func (w Warning) Error() string {
	return fmt.Sprintf("mode %d (%.4f): %s", w.Mode+1, w.Frequency, w.Message)
}

func (w Warning) Unwrap() error {
	return w.Kind
}

// UnstableWarning builds the warning issued for a mode with negative frequency.
func UnstableWarning(mode int, freq float64) Warning {
	return Warning{
		Kind:      ErrUnstableMode,
		Mode:      mode,
		Frequency: freq,
		Message:   "imaginary frequency, mode excluded",
	}
}

// NormalizationWarning builds the warning issued for a zero-norm mode.
func NormalizationWarning(mode int, freq float64) Warning {
	return Warning{
		Kind:      ErrNormalization,
		Mode:      mode,
		Frequency: freq,
		Message:   "eigendisplacement has zero norm, mode excluded",
	}
}

func shapeError(what string, got, want int) error {
	return fmt.Errorf("%w: %s: got %d, want %d", ErrShapeMismatch, what, got, want)
}
