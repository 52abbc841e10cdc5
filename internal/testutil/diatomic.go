package testutil

import (
	"math"

	"github.com/cwbudde/algo-irspec/phonon"
)

// Diatomic is a linear two-atom toy system aligned with the z axis.
//
// Modes 0-2 are rigid translations along x, y and z at zero frequency.
// Modes 3 and 4 are the degenerate antisymmetric bends along x and y and
// mode 5 is the antisymmetric stretch along z. Both atoms carry the same
// mass; their Born tensors are diag(QPerp, QPerp, Q) and its negative.
type Diatomic struct {
	Structure phonon.Structure
	Modes     []phonon.Mode
	Masses    phonon.Masses
	Born      phonon.BornCharges
	Irreps    *phonon.IrrepAssignment
}

// Toy mode frequencies in cm^-1.
const (
	DiatomicBend    = 500.0
	DiatomicStretch = 1200.0
)

// NewDiatomic builds the toy system with bond length 1.2 Angstrom.
func NewDiatomic(q, qPerp, mass float64) Diatomic {
	h := 1 / math.Sqrt2
	vec := func(axis int, a, b float64) [][3]complex128 {
		ev := make([][3]complex128, 2)
		ev[0][axis] = complex(a, 0)
		ev[1][axis] = complex(b, 0)
		return ev
	}

	d := Diatomic{
		Structure: phonon.Structure{Atoms: []phonon.Atom{
			{Species: "C", Position: phonon.Vec3{0, 0, 0}},
			{Species: "O", Position: phonon.Vec3{0, 0, 1.2}},
		}},
		Modes: []phonon.Mode{
			{Frequency: 0, Eigenvector: vec(0, h, h)},
			{Frequency: 0, Eigenvector: vec(1, h, h)},
			{Frequency: 0, Eigenvector: vec(2, h, h)},
			{Frequency: DiatomicBend, Eigenvector: vec(0, h, -h)},
			{Frequency: DiatomicBend, Eigenvector: vec(1, h, -h)},
			{Frequency: DiatomicStretch, Eigenvector: vec(2, h, -h)},
		},
		Masses: phonon.Masses{mass, mass},
		Born: phonon.BornCharges{
			{{qPerp, 0, 0}, {0, qPerp, 0}, {0, 0, q}},
			{{-qPerp, 0, 0}, {0, -qPerp, 0}, {0, 0, -q}},
		},
		Irreps: &phonon.IrrepAssignment{
			PointGroup: "D*h",
			Labels:     []string{"Pi_u", "Pi_u", "Sigma_u+", "Pi_u", "Pi_u", "Sigma_u+"},
		},
	}
	return d
}

// Cubic wraps the diatomic in a cubic box of edge a, making it periodic.
func (d Diatomic) Cubic(a float64) Diatomic {
	lat := phonon.Lattice{{a, 0, 0}, {0, a, 0}, {0, 0, a}}
	s, err := phonon.Structure{Atoms: d.Structure.Atoms, Lattice: &lat}.WithPositions(d.Structure.Positions())
	if err != nil {
		panic(err)
	}
	d.Structure = s
	return d
}
