package testutil

import (
	"math"
	"testing"
)

func TestDiatomicEigenvectorsNormalized(t *testing.T) {
	d := NewDiatomic(1, 0.5, 12)
	for i, m := range d.Modes {
		sum := 0.0
		for _, v := range m.Eigenvector {
			for _, c := range v {
				sum += real(c)*real(c) + imag(c)*imag(c)
			}
		}
		if math.Abs(sum-1) > 1e-12 {
			t.Fatalf("mode %d: norm^2 = %v, want 1", i, sum)
		}
	}
}

func TestDiatomicShape(t *testing.T) {
	d := NewDiatomic(1, 0.5, 12)
	if len(d.Modes) != 3*d.Structure.Len() {
		t.Fatalf("modes = %d, want %d", len(d.Modes), 3*d.Structure.Len())
	}
	if len(d.Born) != d.Structure.Len() || len(d.Masses) != d.Structure.Len() {
		t.Fatal("Born/masses not aligned with structure")
	}
	if sum := d.Born.AcousticSum(); sum != [3][3]float64{} {
		t.Fatalf("acoustic sum = %v, want zero", sum)
	}
}

func TestDiatomicCubic(t *testing.T) {
	d := NewDiatomic(1, 0.5, 12).Cubic(10)
	if !d.Structure.Periodic() {
		t.Fatal("expected periodic structure")
	}
	f := d.Structure.Atoms[1].Fractional
	if f == nil || math.Abs(f[2]-0.12) > 1e-12 {
		t.Fatalf("fractional = %v, want z=0.12", f)
	}
}
