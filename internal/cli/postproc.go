package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-irspec/dsp/broaden"
	"github.com/cwbudde/algo-irspec/format/phonopy"
	"github.com/cwbudde/algo-irspec/format/table"
	"github.com/cwbudde/algo-irspec/measure/intensity"
	"github.com/cwbudde/algo-irspec/phonon"
	"github.com/cwbudde/algo-irspec/pipeline"
)

type postProcOptions struct {
	*RootOptions

	born     string
	bornSet  int
	dipoles  string
	dispStep float64
	reduce   bool
	irreps   string
	unit     string
	peaks    string
	spectrum string

	linewidth float64
	shape     string
	method    string
	min       float64
	max       float64
	step      float64
	normalize bool
	unstable  bool
}

// NewPostProcCommand creates the postproc command.
func NewPostProcCommand(root *RootOptions) *cobra.Command {
	opts := &postProcOptions{RootOptions: root}

	cmd := &cobra.Command{
		Use:   "postproc <phonopy.yaml>",
		Short: "Compute IR intensities and the broadened spectrum",
		Long: `Projects Born effective charges onto the Gamma-point modes, groups
degenerate modes and writes a peak table and a broadened spectrum.

With --dipoles the dipole derivatives are taken by finite differences of the
dipoles computed for the structures written by disp instead. --disp-step and
--reduce must then match the disp run (or come from the same --config).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPostProc(cmd, opts, args[0])
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.born, "born", "born.yaml", "Born charge YAML written by read")
	f.IntVar(&opts.bornSet, "born-set", 0, "one-based Born charge set to use")
	f.StringVar(&opts.dipoles, "dipoles", "", "dipole YAML of the displaced structures (replaces --born)")
	f.Float64Var(&opts.dispStep, "disp-step", 0, "displacement step used by disp, in Angstrom")
	f.BoolVar(&opts.reduce, "reduce", false, "disp was run with --reduce")
	f.StringVar(&opts.irreps, "irreps", "", "phonopy irreps.yaml for degenerate grouping")
	f.StringVar(&opts.unit, "unit", "", "frequency unit of the phonopy file (THz|cm-1|meV)")
	f.StringVar(&opts.peaks, "peaks", "peaks.dat", "peak table output")
	f.StringVar(&opts.spectrum, "spectrum", "spectrum.dat", "spectrum output")
	f.Float64Var(&opts.linewidth, "linewidth", 0, "default half-width in cm^-1")
	f.StringVar(&opts.shape, "shape", "", "line shape (lorentzian|gaussian)")
	f.StringVar(&opts.method, "method", "", "evaluation method (direct|convolution)")
	f.Float64Var(&opts.min, "min", 0, "spectrum minimum frequency")
	f.Float64Var(&opts.max, "max", 0, "spectrum maximum frequency")
	f.Float64Var(&opts.step, "step", 0, "spectrum frequency step")
	f.BoolVar(&opts.normalize, "normalize", false, "scale the spectrum to unit maximum")
	f.BoolVar(&opts.unstable, "include-unstable", false, "keep modes with imaginary frequency")
	cmd.MarkFlagsMutuallyExclusive("born", "dipoles")
	cmd.MarkFlagsMutuallyExclusive("born-set", "dipoles")

	return cmd
}

func runPostProc(cmd *cobra.Command, opts *postProcOptions, input string) error {
	cfg := opts.Config
	f := cmd.Flags()
	s := &cfg.Spectrum
	if f.Changed("linewidth") {
		s.Linewidth = opts.linewidth
	}
	if f.Changed("shape") {
		s.Shape = opts.shape
	}
	if f.Changed("method") {
		s.Method = opts.method
	}
	if f.Changed("min") {
		s.Min = opts.min
	}
	if f.Changed("max") {
		s.Max = opts.max
	}
	if f.Changed("step") {
		s.Step = opts.step
	}
	if f.Changed("normalize") {
		s.Normalize = opts.normalize
	}
	if f.Changed("include-unstable") {
		cfg.Intensity.IncludeUnstable = opts.unstable
	}
	if f.Changed("born-set") {
		cfg.Intensity.BornSet = opts.bornSet
	}
	if f.Changed("unit") {
		cfg.Phonopy.FrequencyUnit = opts.unit
	}
	if f.Changed("disp-step") {
		cfg.Displacement.Step = opts.dispStep
	}
	if f.Changed("reduce") {
		cfg.Displacement.ReduceDegenerate = opts.reduce
	}
	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid options", err)
	}
	sopts, grid, err := cfg.SpectrumOptions()
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid options", err)
	}

	data, err := phonopy.ReadFile(input, cfg.FrequencyUnit())
	if err != nil {
		return inputError("phonon modes", err)
	}
	irreps, err := readIrreps(opts.irreps, len(data.Modes))
	if err != nil {
		return err
	}

	var (
		out    pipeline.PostProcessOutput
		source string
	)
	if opts.dipoles != "" {
		out, source, err = postProcDipoles(opts, data, irreps, sopts, grid)
	} else {
		out, source, err = postProcBorn(opts, data, irreps, sopts, grid)
	}
	if err != nil {
		return err
	}
	opts.logWarnings(out.Intensity.Warnings)
	opts.Logger.Debug("intensities computed",
		zap.String("source", source),
		zap.Int("peaks", len(out.Intensity.Peaks)),
		zap.Int("points", out.Spectrum.Len()),
	)

	if err := table.WritePeaksFile(opts.peaks, out.Intensity.Peaks); err != nil {
		return WrapExitError(ExitFailure, "writing peak table", err)
	}
	if err := table.WriteSpectrumFile(opts.spectrum, out.Spectrum); err != nil {
		return WrapExitError(ExitFailure, "writing spectrum", err)
	}

	return table.WritePeaks(cmd.OutOrStdout(), out.Intensity.Peaks)
}

func postProcBorn(opts *postProcOptions, data phonopy.Data, irreps *phonon.IrrepAssignment,
	sopts broaden.Options, grid broaden.Grid,
) (pipeline.PostProcessOutput, string, error) {
	cfg := opts.Config
	sets, err := phonopy.ReadBornFile(opts.born)
	if err != nil {
		return pipeline.PostProcessOutput{}, "", inputError("Born charges", err)
	}
	if cfg.Intensity.BornSet > len(sets) {
		return pipeline.PostProcessOutput{}, "", WrapExitError(ExitCommandError, "selecting Born charges",
			fmt.Errorf("set %d requested, %s has %d", cfg.Intensity.BornSet, opts.born, len(sets)))
	}
	born := sets[cfg.Intensity.BornSet-1]

	out, err := pipeline.PostProcess(pipeline.PostProcessInput{
		Data:      data,
		Born:      born.Charges,
		Intensity: cfg.IntensityOptions(irreps),
		Spectrum:  sopts,
		Grid:      grid,
	})
	if err != nil {
		return pipeline.PostProcessOutput{}, "", WrapExitError(ExitFailure, "post-processing", err)
	}
	return out, born.Source, nil
}

func postProcDipoles(opts *postProcOptions, data phonopy.Data, irreps *phonon.IrrepAssignment,
	sopts broaden.Options, grid broaden.Grid,
) (pipeline.PostProcessOutput, string, error) {
	cfg := opts.Config
	set, err := phonopy.ReadDipolesFile(opts.dipoles)
	if err != nil {
		return pipeline.PostProcessOutput{}, "", inputError("dipoles", err)
	}

	out, err := pipeline.PostProcessDipoles(pipeline.DipoleInput{
		Data:         data,
		Dipoles:      set,
		Displacement: cfg.DisplacementOptions(irreps),
		Intensity:    cfg.IntensityOptions(irreps),
		Spectrum:     sopts,
		Grid:         grid,
	})
	if err != nil {
		code := ExitFailure
		if errors.Is(err, pipeline.ErrUnmatchedDipole) || errors.Is(err, intensity.ErrMissingDipole) {
			code = ExitCommandError
		}
		return pipeline.PostProcessOutput{}, "", WrapExitError(code, "post-processing dipoles", err)
	}
	return out, opts.dipoles, nil
}
