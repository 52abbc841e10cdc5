package phonopy

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-irspec/phonon"
)

// ErrBadDipole is returned for a malformed dipole document.
var ErrBadDipole = errors.New("phonopy: invalid dipole entry")

// Dipole is the dipole moment computed for one displaced structure.
type Dipole struct {
	Mode  int // zero-based
	Sign  int // +1 or -1
	Value phonon.Vec3
}

// DipoleSet holds the dipoles of a displacement set and, optionally, the
// dipole of the undisplaced structure.
type DipoleSet struct {
	Reference *phonon.Vec3
	Dipoles   []Dipole
}

type dipoleDocument struct {
	Reference []float64     `yaml:"reference,flow"`
	Dipoles   []dipoleEntry `yaml:"dipoles"`
}

type dipoleEntry struct {
	Mode   int       `yaml:"mode"`
	Sign   string    `yaml:"sign"`
	Dipole []float64 `yaml:"dipole,flow"`
}

// ReadDipoles parses a dipole document:
//
//	reference: [0.0, 0.0, 0.0]
//	dipoles:
//	- mode: 4
//	  sign: "+"
//	  dipole: [0.0125, 0.0, 0.0]
//
// Modes are one-based and signs are "+" or "-" ("p" and "m" as in the
// displaced file names are accepted too). reference is optional.
func ReadDipoles(r io.Reader) (DipoleSet, error) {
	var doc dipoleDocument
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return DipoleSet{}, fmt.Errorf("phonopy: decode dipoles: %w", err)
	}
	if len(doc.Dipoles) == 0 {
		return DipoleSet{}, fmt.Errorf("%w: document has no dipoles", ErrBadDipole)
	}

	var set DipoleSet
	if doc.Reference != nil {
		ref, err := vec3(doc.Reference)
		if err != nil {
			return DipoleSet{}, fmt.Errorf("%w: reference: %w", ErrBadDipole, err)
		}
		set.Reference = &ref
	}

	set.Dipoles = make([]Dipole, len(doc.Dipoles))
	for i, e := range doc.Dipoles {
		if e.Mode < 1 {
			return DipoleSet{}, fmt.Errorf("%w: entry %d: modes are one-based, got %d", ErrBadDipole, i+1, e.Mode)
		}
		var sign int
		switch e.Sign {
		case "+", "p":
			sign = 1
		case "-", "m":
			sign = -1
		default:
			return DipoleSet{}, fmt.Errorf("%w: entry %d: sign %q", ErrBadDipole, i+1, e.Sign)
		}
		v, err := vec3(e.Dipole)
		if err != nil {
			return DipoleSet{}, fmt.Errorf("%w: entry %d: %w", ErrBadDipole, i+1, err)
		}
		set.Dipoles[i] = Dipole{Mode: e.Mode - 1, Sign: sign, Value: v}
	}
	return set, nil
}

// ReadDipolesFile parses the dipole document at path.
func ReadDipolesFile(path string) (DipoleSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return DipoleSet{}, err
	}
	defer f.Close()

	set, err := ReadDipoles(f)
	if err != nil {
		return DipoleSet{}, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

func vec3(x []float64) (phonon.Vec3, error) {
	if len(x) != 3 {
		return phonon.Vec3{}, fmt.Errorf("want 3 components, got %d", len(x))
	}
	return phonon.Vec3{x[0], x[1], x[2]}, nil
}
