package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-irspec/format/phonopy"
	"github.com/cwbudde/algo-irspec/format/poscar"
	"github.com/cwbudde/algo-irspec/phonon"
	"github.com/cwbudde/algo-irspec/pipeline"
)

type dispOptions struct {
	*RootOptions

	irreps          string
	outDir          string
	prefix          string
	unit            string
	step            float64
	oneSided        bool
	modes           []int
	reduce          bool
	includeAcoustic bool
	includeUnstable bool
}

// NewDispCommand creates the disp command.
func NewDispCommand(root *RootOptions) *cobra.Command {
	opts := &dispOptions{RootOptions: root}

	cmd := &cobra.Command{
		Use:   "disp <phonopy.yaml>",
		Short: "Write structures displaced along each phonon mode",
		Long: `Reads Gamma-point modes from a phonopy YAML file and writes one POSCAR
per displaced structure, named <prefix>-<mode>-<p|m>.vasp.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDisp(cmd, opts, args[0])
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.irreps, "irreps", "", "phonopy irreps.yaml used with --reduce")
	f.StringVarP(&opts.outDir, "output", "o", ".", "output directory")
	f.StringVar(&opts.prefix, "prefix", "", "file-name prefix")
	f.StringVar(&opts.unit, "unit", "", "frequency unit of the phonopy file (THz|cm-1|meV)")
	f.Float64Var(&opts.step, "step", 0, "displacement step in Angstrom")
	f.BoolVar(&opts.oneSided, "one-sided", false, "write only +step structures")
	f.IntSliceVar(&opts.modes, "modes", nil, "one-based mode indices to displace")
	f.BoolVar(&opts.reduce, "reduce", false, "displace one member per degenerate group")
	f.BoolVar(&opts.includeAcoustic, "include-acoustic", false, "also displace acoustic modes")
	f.BoolVar(&opts.includeUnstable, "include-unstable", false, "also displace modes with imaginary frequency")

	return cmd
}

func runDisp(cmd *cobra.Command, opts *dispOptions, input string) error {
	cfg := opts.Config
	f := cmd.Flags()
	d := &cfg.Displacement
	if f.Changed("step") {
		d.Step = opts.step
	}
	if f.Changed("one-sided") {
		d.Symmetric = !opts.oneSided
	}
	if f.Changed("modes") {
		d.Modes = opts.modes
	}
	if f.Changed("reduce") {
		d.ReduceDegenerate = opts.reduce
	}
	if f.Changed("include-acoustic") {
		d.IncludeAcoustic = opts.includeAcoustic
	}
	if f.Changed("include-unstable") {
		d.IncludeUnstable = opts.includeUnstable
	}
	if f.Changed("prefix") {
		d.Prefix = opts.prefix
	}
	if f.Changed("unit") {
		cfg.Phonopy.FrequencyUnit = opts.unit
	}
	if err := cfg.Validate(); err != nil {
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

	res, err := pipeline.Displacements(pipeline.DisplacementInput{
		Data:    data,
		Options: cfg.DisplacementOptions(irreps),
	})
	if err != nil {
		return WrapExitError(ExitFailure, "generating displacements", err)
	}
	opts.logWarnings(res.Warnings)

	paths, err := poscar.WriteSet(opts.outDir, d.Prefix, res.Displacements)
	if err != nil {
		return WrapExitError(ExitFailure, "writing structures", err)
	}
	opts.Logger.Debug("displacements written",
		zap.Int("modes", len(res.Modes)),
		zap.Int("files", len(paths)),
		zap.String("dir", opts.outDir),
	)

	out := cmd.OutOrStdout()
	for _, p := range paths {
		fmt.Fprintln(out, p)
	}
	return nil
}

func readIrreps(path string, nmodes int) (*phonon.IrrepAssignment, error) {
	if path == "" {
		return nil, nil
	}
	a, err := phonopy.ReadIrrepsFile(path, nmodes)
	if err != nil {
		return nil, inputError("irreducible representations", err)
	}
	return a, nil
}
