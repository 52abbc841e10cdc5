package interp

import "testing"

func TestLerp(t *testing.T) {
	for _, tc := range []struct {
		a, b, t, want float64
	}{
		{2, 4, 0, 2},
		{2, 4, 0.25, 2.5},
		{2, 4, 1, 4},
		{-1, 1, 0.5, 0},
	} {
		if got := Lerp(tc.a, tc.b, tc.t); got != tc.want {
			t.Fatalf("Lerp(%v, %v, %v) = %v, want %v", tc.a, tc.b, tc.t, got, tc.want)
		}
	}
}

func TestTable(t *testing.T) {
	xs := []float64{0, 100, 300}
	ys := []float64{10, 20, 40}

	for _, tc := range []struct {
		x, want float64
	}{
		{-50, 10},
		{0, 10},
		{50, 15},
		{100, 20},
		{250, 35},
		{300, 40},
		{1e6, 40},
	} {
		got := Table(xs, ys, tc.x)
		if diff := got - tc.want; diff < -1e-12 || diff > 1e-12 {
			t.Fatalf("Table(%v) = %v, want %v", tc.x, got, tc.want)
		}
	}

	if got := Table(nil, nil, 1); got != 0 {
		t.Fatalf("empty table = %v, want 0", got)
	}
	if got := Table(xs, ys[:2], 1); got != 0 {
		t.Fatalf("inconsistent table = %v, want 0", got)
	}
}

func TestDeposit(t *testing.T) {
	tests := []struct {
		name string
		pos  float64
		want []float64
	}{
		{"on sample", 1, []float64{0, 2, 0, 0}},
		{"between", 1.25, []float64{0, 1.5, 0.5, 0}},
		{"last interval", 2.5, []float64{0, 0, 1, 1}},
		{"past end", 3.5, []float64{0, 0, 0, 1}},
		{"before start", -0.5, []float64{1, 0, 0, 0}},
		{"far outside", 10, []float64{0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := make([]float64, 4)
			Deposit(dst, tt.pos, 2)
			for i := range dst {
				if diff := dst[i] - tt.want[i]; diff < -1e-12 || diff > 1e-12 {
					t.Fatalf("dst = %v, want %v", dst, tt.want)
				}
			}
		})
	}
}
