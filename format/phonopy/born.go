package phonopy

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-irspec/phonon"
)

// BornSet is one set of Born charges and the file it was read from.
type BornSet struct {
	Source  string
	Charges phonon.BornCharges
}

type bornDocument struct {
	Sets []bornSet `yaml:"born_charges"`
}

type bornSet struct {
	Source string    `yaml:"source"`
	Ions   []bornIon `yaml:"ions"`
}

type bornIon struct {
	Tensor [][]float64 `yaml:"tensor,flow"`
}

// WriteBorn writes sets as a YAML document.
func WriteBorn(w io.Writer, sets []BornSet) error {
	doc := bornDocument{Sets: make([]bornSet, len(sets))}
	for i, s := range sets {
		doc.Sets[i].Source = s.Source
		doc.Sets[i].Ions = make([]bornIon, len(s.Charges))
		for j, z := range s.Charges {
			doc.Sets[i].Ions[j].Tensor = [][]float64{z[0][:], z[1][:], z[2][:]}
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

// ReadBorn parses a document written by WriteBorn.
func ReadBorn(r io.Reader) ([]BornSet, error) {
	var doc bornDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("phonopy: decode Born charges: %w", err)
	}
	if len(doc.Sets) == 0 {
		return nil, phonon.ErrMissingBornData
	}

	out := make([]BornSet, len(doc.Sets))
	for i, s := range doc.Sets {
		out[i].Source = s.Source
		out[i].Charges = make(phonon.BornCharges, len(s.Ions))
		for j, ion := range s.Ions {
			if len(ion.Tensor) != 3 {
				return nil, fmt.Errorf("%w: set %d ion %d has %d rows", phonon.ErrShapeMismatch, i+1, j+1, len(ion.Tensor))
			}
			for a, row := range ion.Tensor {
				if len(row) != 3 {
					return nil, fmt.Errorf("%w: set %d ion %d row %d has %d columns", phonon.ErrShapeMismatch, i+1, j+1, a+1, len(row))
				}
				copy(out[i].Charges[j][a][:], row)
			}
		}
	}
	return out, nil
}

// WriteBornFile writes sets to path.
func WriteBornFile(path string, sets []BornSet) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteBorn(f, sets); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

// ReadBornFile parses the Born charge document at path.
func ReadBornFile(path string) ([]BornSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sets, err := ReadBorn(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sets, nil
}
