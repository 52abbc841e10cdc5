// Command irspec simulates infrared spectra from phonon calculations.
//
// Usage:
//
//	irspec disp [flags] mesh.yaml
//	irspec read [flags] OUTCAR [OUTCAR...]
//	irspec postproc [flags] mesh.yaml
//	irspec xyz2poscar [flags] molecule.xyz
//	irspec config
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/algo-irspec/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "irspec:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
