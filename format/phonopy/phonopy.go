package phonopy

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-irspec/phonon"
)

var (
	ErrNoGamma        = errors.New("phonopy: no Gamma point in file")
	ErrNoEigenvectors = errors.New("phonopy: file has no eigenvectors")
	ErrUnknownUnit    = errors.New("phonopy: unknown frequency unit")
)

// Unit is the frequency unit used in a phonopy file.
type Unit int

const (
	THz Unit = iota
	InvCm
	MeV
)

// Conversion factors to cm^-1.
const (
	thzToInvCm = 33.35640951981521
	mevToInvCm = 8.065543937349212
)

func (u Unit) String() string {
	switch u {
	case THz:
		return "THz"
	case InvCm:
		return "cm-1"
	case MeV:
		return "meV"
	default:
		return fmt.Sprintf("Unit(%d)", int(u))
	}
}

// ParseUnit parses "THz", "cm-1" or "meV", ignoring case.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "thz", "":
		return THz, nil
	case "cm-1", "cm^-1", "invcm":
		return InvCm, nil
	case "mev":
		return MeV, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, s)
}

func (u Unit) toInvCm() float64 {
	switch u {
	case InvCm:
		return 1
	case MeV:
		return mevToInvCm
	default:
		return thzToInvCm
	}
}

// Data is the Gamma-point content of a phonopy file.
type Data struct {
	Structure phonon.Structure
	Masses    phonon.Masses
	Modes     []phonon.Mode // frequencies in cm^-1
}

type document struct {
	Lattice [][]float64 `yaml:"lattice"`
	Points  []point     `yaml:"points"`
	Phonon  []qpoint    `yaml:"phonon"`
}

type point struct {
	Symbol      string    `yaml:"symbol"`
	Coordinates []float64 `yaml:"coordinates"`
	Mass        float64   `yaml:"mass"`
}

type qpoint struct {
	Position []float64 `yaml:"q-position"`
	Band     []band    `yaml:"band"`
}

type band struct {
	Frequency   float64        `yaml:"frequency"`
	Eigenvector [][][2]float64 `yaml:"eigenvector"`
}

const gammaTol = 1e-8

// Read parses a phonopy YAML document from r.
func Read(r io.Reader, unit Unit) (Data, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return Data{}, fmt.Errorf("phonopy: decode: %w", err)
	}
	return doc.data(unit)
}

// ReadFile parses the phonopy YAML file at path.
func ReadFile(path string, unit Unit) (Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return Data{}, err
	}
	defer f.Close()

	d, err := Read(f, unit)
	if err != nil {
		return Data{}, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

func (doc document) data(unit Unit) (Data, error) {
	natoms := len(doc.Points)
	if natoms == 0 {
		return Data{}, fmt.Errorf("%w: no atoms in points", phonon.ErrShapeMismatch)
	}

	var lat *phonon.Lattice
	if doc.Lattice != nil {
		if len(doc.Lattice) != 3 {
			return Data{}, fmt.Errorf("%w: %d lattice vectors", phonon.ErrShapeMismatch, len(doc.Lattice))
		}
		lat = new(phonon.Lattice)
		for k, v := range doc.Lattice {
			if len(v) != 3 {
				return Data{}, fmt.Errorf("%w: lattice vector %d has %d components", phonon.ErrShapeMismatch, k+1, len(v))
			}
			lat[k] = phonon.Vec3{v[0], v[1], v[2]}
		}
	}

	out := Data{
		Structure: phonon.Structure{Atoms: make([]phonon.Atom, natoms), Lattice: lat},
		Masses:    make(phonon.Masses, natoms),
	}
	pos := make([]phonon.Vec3, natoms)
	for i, p := range doc.Points {
		if len(p.Coordinates) != 3 {
			return Data{}, fmt.Errorf("%w: atom %d has %d coordinates", phonon.ErrShapeMismatch, i+1, len(p.Coordinates))
		}
		c := phonon.Vec3{p.Coordinates[0], p.Coordinates[1], p.Coordinates[2]}
		if lat != nil {
			c = lat.Cartesian(c)
		}
		pos[i] = c
		out.Structure.Atoms[i].Species = p.Symbol
		out.Masses[i] = p.Mass
	}
	if err := phonon.ValidateMasses(out.Masses); err != nil {
		return Data{}, err
	}
	var err error
	if out.Structure, err = out.Structure.WithPositions(pos); err != nil {
		return Data{}, err
	}

	q, err := doc.gamma()
	if err != nil {
		return Data{}, err
	}

	factor := unit.toInvCm()
	out.Modes = make([]phonon.Mode, len(q.Band))
	for m, b := range q.Band {
		if b.Eigenvector == nil {
			return Data{}, ErrNoEigenvectors
		}
		if len(b.Eigenvector) != natoms {
			return Data{}, fmt.Errorf("%w: band %d has %d atoms, want %d", phonon.ErrShapeMismatch, m+1, len(b.Eigenvector), natoms)
		}
		mode := phonon.Mode{
			Frequency:   b.Frequency * factor,
			Eigenvector: make([][3]complex128, natoms),
		}
		for i, atom := range b.Eigenvector {
			if len(atom) != 3 {
				return Data{}, fmt.Errorf("%w: band %d atom %d has %d components", phonon.ErrShapeMismatch, m+1, i+1, len(atom))
			}
			for k, c := range atom {
				mode.Eigenvector[i][k] = complex(c[0], c[1])
			}
		}
		out.Modes[m] = mode
	}

	if err := phonon.ValidateModes(out.Modes, natoms); err != nil {
		return Data{}, err
	}
	return out, nil
}

func (doc document) gamma() (qpoint, error) {
	for _, q := range doc.Phonon {
		// Files without q-position carry a single Gamma calculation.
		if q.Position == nil {
			return q, nil
		}
		var norm float64
		for _, c := range q.Position {
			norm += c * c
		}
		if math.Sqrt(norm) < gammaTol {
			return q, nil
		}
	}
	return qpoint{}, ErrNoGamma
}
