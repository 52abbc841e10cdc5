package poscar

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cwbudde/algo-irspec/displace"
)

// DefaultPrefix is the file-name prefix of displaced structures.
const DefaultPrefix = "ir-disp"

// FileName returns the base name of the file holding d:
// <prefix>-<mode>-<p|m>.vasp with a one-based, zero-padded mode index.
func FileName(prefix string, d displace.Displacement) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	sign := "p"
	if d.Sign < 0 {
		sign = "m"
	}
	return fmt.Sprintf("%s-%04d-%s.vasp", prefix, d.Mode+1, sign)
}

// Comment returns the POSCAR comment line identifying d.
func Comment(d displace.Displacement) string {
	sign := "+"
	if d.Sign < 0 {
		sign = "-"
	}
	return fmt.Sprintf("IR displacement: mode %d, sign %s, frequency %.4f, step %.4f", d.Mode+1, sign, d.Frequency, d.Step)
}

// WriteSet writes every displacement to its own file in dir and returns the
// paths in input order.
func WriteSet(dir, prefix string, disps []displace.Displacement) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	paths := make([]string, len(disps))
	for i, d := range disps {
		paths[i] = filepath.Join(dir, FileName(prefix, d))
		if err := WriteFile(paths[i], d.Structure, Comment(d)); err != nil {
			return nil, err
		}
	}
	return paths, nil
}
