package intensity

import (
	"fmt"
	"runtime"

	"github.com/cwbudde/algo-vecmath"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-irspec/dsp/broaden"
	"github.com/cwbudde/algo-irspec/phonon"
)

// Options configures an intensity calculation.
type Options struct {
	// Irreps, when set, restricts degenerate groups to modes sharing a label.
	Irreps *phonon.IrrepAssignment

	// DegeneracyTolerance is the largest frequency gap inside a group.
	// Zero selects phonon.DefaultDegeneracyTolerance.
	DegeneracyTolerance float64

	// AcousticThreshold bounds |f| for acoustic modes. Zero selects
	// phonon.DefaultAcousticThreshold.
	AcousticThreshold float64

	IncludeAcoustic bool
	IncludeUnstable bool

	// Scale multiplies every intensity.
	Scale float64
}

// DefaultOptions returns unit scale with acoustic and unstable modes excluded.
func DefaultOptions() Options {
	return Options{Scale: 1}
}

// Peak is one reported line: a single mode or a degenerate group.
type Peak struct {
	Modes     []int // zero-based, ascending
	Frequency float64
	Intensity float64
	Irrep     string
}

// Result holds the per-mode and grouped intensities.
type Result struct {
	Peaks []Peak

	// Intensities and Derivatives are indexed by mode. Excluded modes keep
	// their computed values; only Peaks reflects the filtering.
	Intensities []float64
	Derivatives []phonon.Vec3

	Warnings []phonon.Warning
}

// Lines converts the peaks to broadening input.
func (r Result) Lines() []broaden.Line {
	out := make([]broaden.Line, len(r.Peaks))
	for i, p := range r.Peaks {
		out[i] = broaden.Line{Modes: p.Modes, Frequency: p.Frequency, Intensity: p.Intensity}
	}
	return out
}

// Calculate projects the Born charges onto each eigendisplacement.
func Calculate(freqs []float64, disps []phonon.Eigendisplacement, born phonon.BornCharges, opts Options) (Result, error) {
	if len(freqs) != len(disps) {
		return Result{}, fmt.Errorf("%w: %d frequencies, %d eigendisplacements", phonon.ErrShapeMismatch, len(freqs), len(disps))
	}
	if len(disps) == 0 {
		return Result{}, fmt.Errorf("%w: no modes", phonon.ErrShapeMismatch)
	}
	natoms := len(disps[0])
	for i, d := range disps {
		if len(d) != natoms {
			return Result{}, fmt.Errorf("%w: mode %d has %d atoms, mode 1 has %d", phonon.ErrShapeMismatch, i+1, len(d), natoms)
		}
	}
	if err := born.Validate(natoms); err != nil {
		return Result{}, err
	}

	derivs, err := dipoleDerivatives(disps, born)
	if err != nil {
		return Result{}, err
	}
	return fromDerivatives(freqs, derivs, nil, opts)
}

// dipoleDerivatives evaluates sum_i Z_i u_i for every mode in parallel.
func dipoleDerivatives(disps []phonon.Eigendisplacement, born phonon.BornCharges) ([]phonon.Vec3, error) {
	tensors := make([]*mat.Dense, len(born))
	for i, z := range born {
		tensors[i] = z.Dense()
	}

	out := make([]phonon.Vec3, len(disps))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for m, d := range disps {
		g.Go(func() error {
			acc := mat.NewVecDense(3, nil)
			var zu mat.VecDense
			for i, u := range d {
				zu.MulVec(tensors[i], mat.NewVecDense(3, []float64{u[0], u[1], u[2]}))
				acc.AddVec(acc, &zu)
			}
			out[m] = phonon.Vec3{acc.AtVec(0), acc.AtVec(1), acc.AtVec(2)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// squaredNorms returns scale*|d|^2 for every derivative vector.
func squaredNorms(derivs []phonon.Vec3, scale float64) []float64 {
	n := len(derivs)
	px := make([]float64, n)
	py := make([]float64, n)
	pz := make([]float64, n)
	for i, d := range derivs {
		px[i], py[i], pz[i] = d[0], d[1], d[2]
	}

	out := make([]float64, n)
	zz := make([]float64, n)
	vecmath.Power(out, px, py)
	vecmath.MulBlock(zz, pz, pz)
	floats.Add(out, zz)
	floats.Scale(scale, out)
	return out
}

// fromDerivatives filters, groups and sums. candidates restricts the modes
// that may appear in peaks; nil means all.
func fromDerivatives(freqs []float64, derivs []phonon.Vec3, candidates []int, opts Options) (Result, error) {
	if opts.Scale == 0 {
		opts.Scale = 1
	}

	res := Result{
		Derivatives: derivs,
		Intensities: squaredNorms(derivs, opts.Scale),
	}
	if candidates == nil {
		candidates = make([]int, len(freqs))
		for i := range candidates {
			candidates[i] = i
		}
	}

	var keep []int
	for _, m := range candidates {
		f := freqs[m]
		switch {
		case phonon.IsAcoustic(f, opts.AcousticThreshold) && !opts.IncludeAcoustic:
			continue
		case phonon.IsUnstable(f, opts.AcousticThreshold) && !opts.IncludeUnstable:
			res.Warnings = append(res.Warnings, phonon.UnstableWarning(m, f))
			continue
		}
		keep = append(keep, m)
	}
	if keep == nil {
		keep = []int{}
	}

	groups, err := phonon.GroupDegenerate(freqs, opts.Irreps, opts.DegeneracyTolerance, keep)
	if err != nil {
		return Result{}, err
	}

	res.Peaks = make([]Peak, len(groups))
	for k, g := range groups {
		p := Peak{Modes: g, Irrep: opts.Irreps.Label(g[0])}
		for _, m := range g {
			p.Frequency += freqs[m]
			p.Intensity += res.Intensities[m]
		}
		p.Frequency /= float64(len(g))
		res.Peaks[k] = p
	}
	return res, nil
}
