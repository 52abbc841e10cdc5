package displace

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-irspec/phonon"
)

// Errors returned by Generate.
var (
	ErrModeOutOfRange = errors.New("displace: mode index out of range")
	ErrInvalidStep    = errors.New("displace: step must be > 0")
)

// DefaultStep is the default displacement step in Angstrom.
const DefaultStep = 0.01

// zeroNorm is the norm below which an eigendisplacement cannot be normalised.
const zeroNorm = 1e-12

// Options configures displacement generation.
type Options struct {
	// Step is the Euclidean norm of each mode displacement, in Angstrom.
	// Zero selects DefaultStep.
	Step float64

	// Symmetric generates both +step and -step structures.
	Symmetric bool

	// Modes restricts generation to the given zero-based mode indices.
	// nil selects every mode.
	Modes []int

	// AcousticThreshold bounds |f| for acoustic modes. Zero selects
	// phonon.DefaultAcousticThreshold.
	AcousticThreshold float64

	IncludeAcoustic bool
	IncludeUnstable bool

	// Irreps and ReduceDegenerate displace only the first member of each
	// degenerate group. Irreps may be nil, in which case frequencies alone
	// decide degeneracy.
	Irreps              *phonon.IrrepAssignment
	ReduceDegenerate    bool
	DegeneracyTolerance float64
}

// DefaultOptions returns symmetric displacements with DefaultStep.
func DefaultOptions() Options {
	return Options{
		Step:      DefaultStep,
		Symmetric: true,
	}
}

// Displacement is one displaced structure tagged with its origin.
type Displacement struct {
	Mode      int   // zero-based mode index
	Sign      int   // +1 or -1
	Members   []int // degenerate modes represented, including Mode
	Frequency float64
	Step      float64
	Structure phonon.Structure
}

// Result holds the generated structures in mode order, + before -.
type Result struct {
	Displacements []Displacement
	Modes         []int // retained mode indices
	Warnings      []phonon.Warning
}

// Generate builds the displaced structures for s.
// freqs and disps are indexed by mode; each eigendisplacement must have one
// vector per atom of s.
func Generate(s phonon.Structure, freqs []float64, disps []phonon.Eigendisplacement, opts Options) (Result, error) {
	if len(freqs) != len(disps) {
		return Result{}, fmt.Errorf("%w: %d frequencies, %d eigendisplacements", phonon.ErrShapeMismatch, len(freqs), len(disps))
	}
	for i, d := range disps {
		if len(d) != s.Len() {
			return Result{}, fmt.Errorf("%w: mode %d has %d atoms, structure has %d", phonon.ErrShapeMismatch, i+1, len(d), s.Len())
		}
	}
	if opts.Step == 0 {
		opts.Step = DefaultStep
	}
	if !(opts.Step > 0) || math.IsInf(opts.Step, 1) {
		return Result{}, fmt.Errorf("%w: got %g", ErrInvalidStep, opts.Step)
	}

	selected, err := selectModes(len(freqs), opts.Modes)
	if err != nil {
		return Result{}, err
	}

	var res Result
	var scales []float64
	for _, m := range selected {
		f := freqs[m]
		switch {
		case phonon.IsAcoustic(f, opts.AcousticThreshold) && !opts.IncludeAcoustic:
			continue
		case phonon.IsUnstable(f, opts.AcousticThreshold) && !opts.IncludeUnstable:
			res.Warnings = append(res.Warnings, phonon.UnstableWarning(m, f))
			continue
		}

		norm := floats.Norm(disps[m].Flatten(), 2)
		if norm < zeroNorm {
			res.Warnings = append(res.Warnings, phonon.NormalizationWarning(m, f))
			continue
		}
		res.Modes = append(res.Modes, m)
		scales = append(scales, opts.Step/norm)
	}

	members := make([][]int, len(res.Modes))
	for i, m := range res.Modes {
		members[i] = []int{m}
	}
	if opts.ReduceDegenerate {
		res.Modes, scales, members, err = reduce(freqs, res.Modes, scales, opts)
		if err != nil {
			return Result{}, err
		}
	}

	signs := []int{1}
	if opts.Symmetric {
		signs = append(signs, -1)
	}

	res.Displacements = make([]Displacement, len(res.Modes)*len(signs))
	eq := s.Positions()

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for k, m := range res.Modes {
		for j, sign := range signs {
			g.Go(func() error {
				scale := float64(sign) * scales[k]
				pos := make([]phonon.Vec3, len(eq))
				for i, p := range eq {
					pos[i] = p.Add(disps[m][i].Scale(scale))
				}
				moved, err := s.WithPositions(pos)
				if err != nil {
					return fmt.Errorf("mode %d: %w", m+1, err)
				}
				res.Displacements[k*len(signs)+j] = Displacement{
					Mode:      m,
					Sign:      sign,
					Members:   members[k],
					Frequency: freqs[m],
					Step:      opts.Step,
					Structure: moved,
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	return res, nil
}

func selectModes(n int, modes []int) ([]int, error) {
	if modes == nil {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out, nil
	}

	out := slices.Clone(modes)
	slices.Sort(out)
	out = slices.Compact(out)
	for _, m := range out {
		if m < 0 || m >= n {
			return nil, fmt.Errorf("%w: %d not in [0,%d)", ErrModeOutOfRange, m, n)
		}
	}
	return out, nil
}

// reduce keeps the first retained member of each degenerate group.
func reduce(freqs []float64, modes []int, scales []float64, opts Options) ([]int, []float64, [][]int, error) {
	groups, err := phonon.GroupDegenerate(freqs, opts.Irreps, opts.DegeneracyTolerance, modes)
	if err != nil {
		return nil, nil, nil, err
	}

	scaleOf := make(map[int]float64, len(modes))
	for i, m := range modes {
		scaleOf[m] = scales[i]
	}

	outModes := make([]int, len(groups))
	outScales := make([]float64, len(groups))
	for i, g := range groups {
		outModes[i] = g[0]
		outScales[i] = scaleOf[g[0]]
	}
	return outModes, outScales, groups, nil
}
