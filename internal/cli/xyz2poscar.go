package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-irspec/format/poscar"
	"github.com/cwbudde/algo-irspec/format/xyz"
)

// NewXYZ2POSCARCommand creates the xyz2poscar command.
func NewXYZ2POSCARCommand(_ *RootOptions) *cobra.Command {
	var (
		output string
		vacuum float64
	)

	cmd := &cobra.Command{
		Use:   "xyz2poscar <input.xyz>",
		Short: "Convert an XYZ molecule to a POSCAR in a cubic box",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			if output == "" {
				output = strings.TrimSuffix(input, filepath.Ext(input)) + ".poscar"
			}

			s, comment, err := xyz.ReadFile(input)
			if err != nil {
				return inputError("XYZ file", err)
			}
			boxed, err := xyz.Box(s, vacuum)
			if err != nil {
				return WrapExitError(ExitFailure, "building cell", err)
			}
			if comment == "" {
				comment = filepath.Base(input)
			}
			if err := poscar.WriteFile(output, boxed, comment); err != nil {
				return WrapExitError(ExitFailure, "writing POSCAR", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output POSCAR (default <input>.poscar)")
	cmd.Flags().Float64Var(&vacuum, "vacuum", xyz.DefaultVacuum, "vacuum padding in Angstrom")
	return cmd
}
