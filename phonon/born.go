package phonon

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Tensor3 is a 3x3 real tensor. For Born charges, element [a][b] is the
// derivative of the dipole component a with respect to displacement along b.
type Tensor3 [3][3]float64

// Dense returns the tensor as a gonum matrix.
func (t Tensor3) Dense() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		t[0][0], t[0][1], t[0][2],
		t[1][0], t[1][1], t[1][2],
		t[2][0], t[2][1], t[2][2],
	})
}

// Apply returns t·v.
func (t Tensor3) Apply(v Vec3) Vec3 {
	return Vec3{
		t[0][0]*v[0] + t[0][1]*v[1] + t[0][2]*v[2],
		t[1][0]*v[0] + t[1][1]*v[1] + t[1][2]*v[2],
		t[2][0]*v[0] + t[2][1]*v[1] + t[2][2]*v[2],
	}
}

// BornCharges holds one Born effective-charge tensor per atom.
type BornCharges []Tensor3

// Validate checks that one tensor is present for each of natoms atoms.
func (b BornCharges) Validate(natoms int) error {
	if len(b) == 0 {
		return fmt.Errorf("%w: no tensors supplied", ErrMissingBornData)
	}
	if len(b) != natoms {
		return fmt.Errorf("%w: %w", ErrMissingBornData, shapeError("Born tensors", len(b), natoms))
	}
	return nil
}

// AcousticSum returns the sum of all tensors. For a charge-neutral set it is
// the zero tensor.
func (b BornCharges) AcousticSum() Tensor3 {
	var sum Tensor3
	for _, t := range b {
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				sum[r][c] += t[r][c]
			}
		}
	}
	return sum
}
