package phonon

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Vec3 is a Cartesian 3-vector.
type Vec3 [3]float64

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

// Scale returns s*v.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{s * v[0], s * v[1], s * v[2]}
}

// Dot returns the scalar product of v and o.
func (v Vec3) Dot(o Vec3) float64 {
	return v[0]*o[0] + v[1]*o[1] + v[2]*o[2]
}

// Atom is one site of a structure.
type Atom struct {
	Species  string
	Position Vec3 // Cartesian, Angstrom

	// Fractional holds fractional coordinates for periodic structures.
	// It is nil for molecules.
	Fractional *Vec3
}

// Lattice holds the three lattice vectors as rows.
type Lattice [3]Vec3

// Cartesian converts fractional coordinates f to Cartesian coordinates.
func (l Lattice) Cartesian(f Vec3) Vec3 {
	var out Vec3
	for k := 0; k < 3; k++ {
		out = out.Add(l[k].Scale(f[k]))
	}
	return out
}

// Fractional converts Cartesian positions to fractional coordinates.
// The lattice is inverted once for the whole batch.
func (l Lattice) Fractional(cart []Vec3) ([]Vec3, error) {
	a := mat.NewDense(3, 3, []float64{
		l[0][0], l[0][1], l[0][2],
		l[1][0], l[1][1], l[1][2],
		l[2][0], l[2][1], l[2][2],
	})

	var inv mat.Dense
	if err := inv.Inverse(a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingularLattice, err)
	}

	out := make([]Vec3, len(cart))
	for i, c := range cart {
		// Row-vector convention: cart = frac * L, so frac = cart * L^-1.
		for k := 0; k < 3; k++ {
			out[i][k] = c[0]*inv.At(0, k) + c[1]*inv.At(1, k) + c[2]*inv.At(2, k)
		}
	}
	return out, nil
}

// Structure is an ordered list of atoms with optional lattice vectors.
// Structures are treated as immutable; derived structures are fresh copies.
type Structure struct {
	Atoms   []Atom
	Lattice *Lattice // nil for non-periodic structures
}

// Len returns the number of atoms.
func (s Structure) Len() int { return len(s.Atoms) }

// Periodic reports whether the structure carries lattice vectors.
func (s Structure) Periodic() bool { return s.Lattice != nil }

// Positions returns the Cartesian positions in atom order.
func (s Structure) Positions() []Vec3 {
	out := make([]Vec3, len(s.Atoms))
	for i, a := range s.Atoms {
		out[i] = a.Position
	}
	return out
}

// WithPositions returns a copy of s with the given Cartesian positions.
// Fractional coordinates are recomputed for periodic structures and are not
// wrapped into the unit cell.
func (s Structure) WithPositions(pos []Vec3) (Structure, error) {
	if len(pos) != len(s.Atoms) {
		return Structure{}, shapeError("positions", len(pos), len(s.Atoms))
	}

	out := Structure{Atoms: make([]Atom, len(s.Atoms))}
	if s.Lattice != nil {
		lat := *s.Lattice
		out.Lattice = &lat
	}

	var frac []Vec3
	if s.Lattice != nil {
		var err error
		frac, err = s.Lattice.Fractional(pos)
		if err != nil {
			return Structure{}, err
		}
	}

	for i, a := range s.Atoms {
		out.Atoms[i] = Atom{Species: a.Species, Position: pos[i]}
		if frac != nil {
			f := frac[i]
			out.Atoms[i].Fractional = &f
		}
	}
	return out, nil
}
