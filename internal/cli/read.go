package cli

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-irspec/format/phonopy"
	"github.com/cwbudde/algo-irspec/phonon"
	"github.com/cwbudde/algo-irspec/pipeline"
)

// sumRuleTolerance is the largest |sum_i Z_i| element accepted silently.
const sumRuleTolerance = 0.05

// NewReadCommand creates the read command.
func NewReadCommand(root *RootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "read <OUTCAR> [OUTCAR...]",
		Short: "Collect Born effective charges from VASP OUTCAR files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sets, err := pipeline.ReadBorn(args)
			if err != nil {
				return inputError("Born charges", err)
			}
			for _, s := range sets {
				root.Logger.Debug("Born charges read",
					zap.String("source", s.Source),
					zap.Int("ions", len(s.Charges)),
				)
				if dev := sumRuleDeviation(s.Charges); dev > sumRuleTolerance {
					root.Logger.Warn("Born charges violate the acoustic sum rule",
						zap.String("source", s.Source),
						zap.Float64("max_deviation", dev),
					)
				}
			}

			if err := phonopy.WriteBornFile(output, sets); err != nil {
				return WrapExitError(ExitFailure, "writing Born charges", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d Born charge set(s) written to %s\n", len(sets), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "born.yaml", "output YAML file")
	return cmd
}

// sumRuleDeviation returns the largest absolute element of the summed tensors.
func sumRuleDeviation(b phonon.BornCharges) float64 {
	var dev float64
	for _, row := range b.AcousticSum() {
		for _, v := range row {
			dev = math.Max(dev, math.Abs(v))
		}
	}
	return dev
}
