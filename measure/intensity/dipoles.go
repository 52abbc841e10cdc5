package intensity

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-irspec/displace"
	"github.com/cwbudde/algo-irspec/phonon"
)

var (
	ErrMissingDipole   = errors.New("intensity: missing dipole for finite difference")
	ErrDuplicateDipole = errors.New("intensity: duplicate displacement")
	ErrInvalidStep     = errors.New("intensity: displacement step must be > 0")
)

// Derivatives holds dipole derivatives obtained by finite differences.
//
// Values are per Angstrom along the unit-norm displacement direction used by
// package displace, so they differ from the Born-charge route by the norm of
// the mode's eigendisplacement.
type Derivatives struct {
	Modes   []int   // ascending
	Members [][]int // degenerate partners represented by each mode
	Values  []phonon.Vec3
}

type pair struct {
	plus, minus *phonon.Vec3
	step        float64
	members     []int
}

// FromDipoles differentiates externally computed dipoles of displaced
// structures. dipoles[i] belongs to disps[i]. A mode with both signs uses the
// central difference; a mode with one sign uses the one-sided difference
// against ref, which must then be non-nil.
func FromDipoles(disps []displace.Displacement, dipoles []phonon.Vec3, ref *phonon.Vec3) (Derivatives, error) {
	if len(disps) != len(dipoles) {
		return Derivatives{}, fmt.Errorf("%w: %d displacements, %d dipoles", phonon.ErrShapeMismatch, len(disps), len(dipoles))
	}

	byMode := make(map[int]*pair)
	for i, d := range disps {
		if d.Step <= 0 {
			return Derivatives{}, fmt.Errorf("%w: mode %d has step %g", ErrInvalidStep, d.Mode+1, d.Step)
		}
		p := byMode[d.Mode]
		if p == nil {
			p = &pair{step: d.Step, members: d.Members}
			byMode[d.Mode] = p
		}
		if d.Step != p.step {
			return Derivatives{}, fmt.Errorf("%w: mode %d has steps %g and %g", ErrInvalidStep, d.Mode+1, p.step, d.Step)
		}

		slot := &p.plus
		if d.Sign < 0 {
			slot = &p.minus
		}
		if *slot != nil {
			return Derivatives{}, fmt.Errorf("%w: mode %d sign %+d", ErrDuplicateDipole, d.Mode+1, d.Sign)
		}
		*slot = &dipoles[i]
	}

	out := Derivatives{Modes: make([]int, 0, len(byMode))}
	for m := range byMode {
		out.Modes = append(out.Modes, m)
	}
	slices.Sort(out.Modes)

	for _, m := range out.Modes {
		p := byMode[m]
		var v phonon.Vec3
		switch {
		case p.plus != nil && p.minus != nil:
			v = p.plus.Sub(*p.minus).Scale(1 / (2 * p.step))
		case ref == nil:
			return Derivatives{}, fmt.Errorf("%w: mode %d has one sign and no reference dipole", ErrMissingDipole, m+1)
		case p.plus != nil:
			v = p.plus.Sub(*ref).Scale(1 / p.step)
		default:
			v = ref.Sub(*p.minus).Scale(1 / p.step)
		}

		members := p.members
		if len(members) == 0 {
			members = []int{m}
		}
		out.Values = append(out.Values, v)
		out.Members = append(out.Members, members)
	}
	return out, nil
}

// CalculateFromDerivatives computes intensities from finite-difference dipole
// derivatives. Each value is rescaled by the norm of its mode's
// eigendisplacement so that the result matches [Calculate] for a linear
// dipole response. Degenerate partners listed in Members but not displaced
// inherit their representative's derivative.
func CalculateFromDerivatives(freqs []float64, disps []phonon.Eigendisplacement, d Derivatives, opts Options) (Result, error) {
	if len(freqs) != len(disps) {
		return Result{}, fmt.Errorf("%w: %d frequencies, %d eigendisplacements", phonon.ErrShapeMismatch, len(freqs), len(disps))
	}
	if len(d.Modes) != len(d.Values) || len(d.Modes) != len(d.Members) {
		return Result{}, fmt.Errorf("%w: derivative set is inconsistent", phonon.ErrShapeMismatch)
	}

	derivs := make([]phonon.Vec3, len(freqs))
	var candidates []int
	for k, m := range d.Modes {
		if m < 0 || m >= len(freqs) {
			return Result{}, fmt.Errorf("%w: mode %d not in [1,%d]", phonon.ErrShapeMismatch, m+1, len(freqs))
		}
		norm := floats.Norm(disps[m].Flatten(), 2)
		v := d.Values[k].Scale(norm)
		for _, member := range d.Members[k] {
			if member < 0 || member >= len(freqs) {
				return Result{}, fmt.Errorf("%w: partner %d not in [1,%d]", phonon.ErrShapeMismatch, member+1, len(freqs))
			}
			derivs[member] = v
			candidates = append(candidates, member)
		}
		if !slices.Contains(d.Members[k], m) {
			derivs[m] = v
			candidates = append(candidates, m)
		}
	}
	slices.Sort(candidates)
	candidates = slices.Compact(candidates)
	if candidates == nil {
		candidates = []int{}
	}

	return fromDerivatives(freqs, derivs, candidates, opts)
}
