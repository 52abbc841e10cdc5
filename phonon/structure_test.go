package phonon_test

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-irspec/internal/testutil"
	"github.com/cwbudde/algo-irspec/phonon"
)

func TestLatticeFractionalRoundTrip(t *testing.T) {
	lat := phonon.Lattice{{4, 0, 0}, {2, 3.4641016151377544, 0}, {0, 0, 6}}
	cart := []phonon.Vec3{{1, 1, 1}, {-3, 7.5, 12.2}}

	frac, err := lat.Fractional(cart)
	if err != nil {
		t.Fatal(err)
	}

	for i, f := range frac {
		testutil.RequireVec3NearlyEqual(t, lat.Cartesian(f), cart[i], 1e-12)
	}
}

func TestLatticeSingular(t *testing.T) {
	lat := phonon.Lattice{{1, 0, 0}, {2, 0, 0}, {0, 0, 1}}
	_, err := lat.Fractional([]phonon.Vec3{{0, 0, 0}})
	if !errors.Is(err, phonon.ErrSingularLattice) {
		t.Fatalf("err = %v, want ErrSingularLattice", err)
	}
}

func TestWithPositionsDoesNotWrapOrMutate(t *testing.T) {
	lat := phonon.Lattice{{5, 0, 0}, {0, 5, 0}, {0, 0, 5}}
	s := phonon.Structure{
		Atoms:   []phonon.Atom{{Species: "Na", Position: phonon.Vec3{0, 0, 0}}},
		Lattice: &lat,
	}

	moved, err := s.WithPositions([]phonon.Vec3{{-0.5, 6, 2.5}})
	if err != nil {
		t.Fatal(err)
	}

	if s.Atoms[0].Position != (phonon.Vec3{}) {
		t.Fatal("input structure was mutated")
	}
	f := *moved.Atoms[0].Fractional
	testutil.RequireVec3NearlyEqual(t, f, phonon.Vec3{-0.1, 1.2, 0.5}, 1e-12)
	if moved.Lattice == s.Lattice {
		t.Fatal("lattice should be copied")
	}
}

func TestBornValidate(t *testing.T) {
	var empty phonon.BornCharges
	if err := empty.Validate(2); !errors.Is(err, phonon.ErrMissingBornData) {
		t.Fatalf("err = %v, want ErrMissingBornData", err)
	}

	one := phonon.BornCharges{{}}
	err := one.Validate(2)
	if !errors.Is(err, phonon.ErrMissingBornData) || !errors.Is(err, phonon.ErrShapeMismatch) {
		t.Fatalf("err = %v, want ErrMissingBornData and ErrShapeMismatch", err)
	}
}

func TestTensorApplyMatchesDense(t *testing.T) {
	z := phonon.Tensor3{{1, 2, 3}, {-1, 0.5, 4}, {2, -2, 1}}
	v := phonon.Vec3{0.3, -1.2, 2}

	got := z.Apply(v)
	d := z.Dense()
	for r := 0; r < 3; r++ {
		want := d.At(r, 0)*v[0] + d.At(r, 1)*v[1] + d.At(r, 2)*v[2]
		if math.Abs(got[r]-want) > 1e-14 {
			t.Fatalf("row %d: %v, want %v", r, got[r], want)
		}
	}
}
