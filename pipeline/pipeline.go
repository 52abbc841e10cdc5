// Package pipeline wires the readers and calculators into the three run
// modes of irspec: generating displaced structures, collecting Born charges
// and post-processing intensities into a spectrum. Post-processing accepts
// either Born charges or dipoles computed for the displaced structures.
package pipeline

import (
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-irspec/displace"
	"github.com/cwbudde/algo-irspec/dsp/broaden"
	"github.com/cwbudde/algo-irspec/format/outcar"
	"github.com/cwbudde/algo-irspec/format/phonopy"
	"github.com/cwbudde/algo-irspec/measure/intensity"
	"github.com/cwbudde/algo-irspec/phonon"
)

// ErrUnmatchedDipole is returned when a dipole names a mode and sign that the
// displacement options do not generate.
var ErrUnmatchedDipole = errors.New("pipeline: dipole has no matching displacement")

// DisplacementInput is the input of Displacements.
type DisplacementInput struct {
	Data    phonopy.Data
	Options displace.Options
}

// Displacements converts the phonon modes to eigendisplacements and generates
// the displaced structures.
func Displacements(in DisplacementInput) (displace.Result, error) {
	disps, err := phonon.Eigendisplacements(in.Data.Modes, in.Data.Masses)
	if err != nil {
		return displace.Result{}, err
	}
	return displace.Generate(in.Data.Structure, phonon.Frequencies(in.Data.Modes), disps, in.Options)
}

// ReadBorn reads the Born charges of every OUTCAR in paths, in order.
func ReadBorn(paths []string) ([]phonopy.BornSet, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no OUTCAR files given", phonon.ErrMissingBornData)
	}

	sets := make([]phonopy.BornSet, len(paths))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range paths {
		g.Go(func() error {
			born, err := outcar.ReadFile(p)
			if err != nil {
				return err
			}
			sets[i] = phonopy.BornSet{Source: p, Charges: born}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sets, nil
}

// PostProcessInput is the input of PostProcess.
type PostProcessInput struct {
	Data      phonopy.Data
	Born      phonon.BornCharges
	Intensity intensity.Options
	Spectrum  broaden.Options
	Grid      broaden.Grid
}

// PostProcessOutput holds the intensities and the broadened spectrum.
type PostProcessOutput struct {
	Intensity intensity.Result
	Spectrum  broaden.Spectrum
}

// PostProcess computes mode intensities from Born charges and broadens them.
func PostProcess(in PostProcessInput) (PostProcessOutput, error) {
	disps, err := phonon.Eigendisplacements(in.Data.Modes, in.Data.Masses)
	if err != nil {
		return PostProcessOutput{}, err
	}
	if err := in.Born.Validate(in.Data.Structure.Len()); err != nil {
		return PostProcessOutput{}, err
	}

	res, err := intensity.Calculate(phonon.Frequencies(in.Data.Modes), disps, in.Born, in.Intensity)
	if err != nil {
		return PostProcessOutput{}, err
	}
	spectrum, err := broaden.Broaden(res.Lines(), in.Grid, in.Spectrum)
	if err != nil {
		return PostProcessOutput{}, err
	}
	return PostProcessOutput{Intensity: res, Spectrum: spectrum}, nil
}

// DipoleInput is the input of PostProcessDipoles. Displacement must carry the
// step and degenerate reduction used when the displaced structures were
// written.
type DipoleInput struct {
	Data         phonopy.Data
	Dipoles      phonopy.DipoleSet
	Displacement displace.Options
	Intensity    intensity.Options
	Spectrum     broaden.Options
	Grid         broaden.Grid
}

// PostProcessDipoles computes mode intensities by finite differences of the
// dipoles of displaced structures and broadens them.
//
// The displacement set is regenerated from in.Displacement to recover each
// structure's step and degenerate partners. Mode selection, one-sided
// generation and the acoustic and unstable filters are ignored there, so any
// structure disp could have written is matched; intensity options decide which
// modes are reported.
func PostProcessDipoles(in DipoleInput) (PostProcessOutput, error) {
	disps, err := phonon.Eigendisplacements(in.Data.Modes, in.Data.Masses)
	if err != nil {
		return PostProcessOutput{}, err
	}
	freqs := phonon.Frequencies(in.Data.Modes)

	dopts := in.Displacement
	dopts.Modes = nil
	dopts.Symmetric = true
	dopts.IncludeAcoustic = true
	dopts.IncludeUnstable = true
	gen, err := displace.Generate(in.Data.Structure, freqs, disps, dopts)
	if err != nil {
		return PostProcessOutput{}, err
	}

	type key struct{ mode, sign int }
	byKey := make(map[key]displace.Displacement, len(gen.Displacements))
	for _, d := range gen.Displacements {
		byKey[key{d.Mode, d.Sign}] = d
	}

	tagged := make([]displace.Displacement, len(in.Dipoles.Dipoles))
	values := make([]phonon.Vec3, len(in.Dipoles.Dipoles))
	for i, p := range in.Dipoles.Dipoles {
		d, ok := byKey[key{p.Mode, p.Sign}]
		if !ok {
			return PostProcessOutput{}, fmt.Errorf("%w: mode %d sign %+d", ErrUnmatchedDipole, p.Mode+1, p.Sign)
		}
		tagged[i] = d
		values[i] = p.Value
	}

	derivs, err := intensity.FromDipoles(tagged, values, in.Dipoles.Reference)
	if err != nil {
		return PostProcessOutput{}, err
	}
	res, err := intensity.CalculateFromDerivatives(freqs, disps, derivs, in.Intensity)
	if err != nil {
		return PostProcessOutput{}, err
	}
	spectrum, err := broaden.Broaden(res.Lines(), in.Grid, in.Spectrum)
	if err != nil {
		return PostProcessOutput{}, err
	}
	return PostProcessOutput{Intensity: res, Spectrum: spectrum}, nil
}
