package phonopy

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-irspec/phonon"
)

type irrepsDocument struct {
	PointGroup  string       `yaml:"point_group"`
	NormalModes []normalMode `yaml:"normal_modes"`
}

type normalMode struct {
	BandIndices []int   `yaml:"band_indices"`
	Frequency   float64 `yaml:"frequency"`
	Label       string  `yaml:"ir_label"`
}

// ReadIrreps parses an irreps.yaml document for a calculation with nmodes
// modes. Modes phonopy could not label keep an empty label, which makes the
// assignment fail validation when it is used for grouping.
func ReadIrreps(r io.Reader, nmodes int) (*phonon.IrrepAssignment, error) {
	var doc irrepsDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("phonopy: decode irreps: %w", err)
	}

	a := &phonon.IrrepAssignment{
		PointGroup: doc.PointGroup,
		Labels:     make([]string, nmodes),
	}
	for _, nm := range doc.NormalModes {
		for _, b := range nm.BandIndices {
			if b < 1 || b > nmodes {
				return nil, fmt.Errorf("%w: band index %d not in [1,%d]", phonon.ErrShapeMismatch, b, nmodes)
			}
			a.Labels[b-1] = nm.Label
		}
	}
	return a, nil
}

// ReadIrrepsFile parses the irreps.yaml file at path.
func ReadIrrepsFile(path string, nmodes int) (*phonon.IrrepAssignment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	a, err := ReadIrreps(f, nmodes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}
