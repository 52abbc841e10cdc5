package conv

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-irspec/internal/testutil"
)

func TestDirect(t *testing.T) {
	tests := []struct {
		name     string
		a        []float64
		b        []float64
		expected []float64
	}{
		{
			name:     "box",
			a:        []float64{1, 2, 3},
			b:        []float64{1, 1, 1},
			expected: []float64{1, 3, 6, 5, 3},
		},
		{
			name:     "impulse",
			a:        []float64{1, 2, 3, 4, 5},
			b:        []float64{1},
			expected: []float64{1, 2, 3, 4, 5},
		},
		{
			name:     "delayed impulse",
			a:        []float64{1, 2, 3},
			b:        []float64{0, 0, 1},
			expected: []float64{0, 0, 1, 2, 3},
		},
		{
			name:     "symmetric",
			a:        []float64{1, 2, 1},
			b:        []float64{1, 2, 1},
			expected: []float64{1, 4, 6, 4, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Direct(tt.a, tt.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.RequireSliceNearlyEqual(t, got, tt.expected, 1e-12)
		})
	}
}

func TestDirectErrors(t *testing.T) {
	if _, err := Direct(nil, []float64{1}); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("err = %v, want ErrEmptyInput", err)
	}
	if _, err := Direct([]float64{1}, nil); !errors.Is(err, ErrEmptyKernel) {
		t.Fatalf("err = %v, want ErrEmptyKernel", err)
	}
}

func lorentzHalf(n int, width float64) []float64 {
	out := make([]float64, n)
	for d := range out {
		x := float64(d)
		out[d] = width * width / (x*x + width*width)
	}
	return out
}

func TestOverlapAddMatchesDirect(t *testing.T) {
	signal := make([]float64, 700)
	for _, i := range []int{3, 150, 151, 420, 699} {
		signal[i] = float64(i%7) + 0.5
	}
	kernel := lorentzHalf(300, 4)

	want, err := Direct(signal, kernel)
	if err != nil {
		t.Fatal(err)
	}
	got, err := OverlapAddConvolve(signal, kernel)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-9)
}

func TestConvolveSelectsByKernelLength(t *testing.T) {
	signal := []float64{0, 1, 0, 0, 2, 0, 0, 0}
	short := lorentzHalf(8, 2)
	long := lorentzHalf(100, 2)

	for _, k := range [][]float64{short, long} {
		want, _ := Direct(signal, k)
		got, err := Convolve(signal, k)
		if err != nil {
			t.Fatal(err)
		}
		testutil.RequireSliceNearlyEqual(t, got, want, 1e-9)
	}
}

func TestConvolveCommutative(t *testing.T) {
	a := []float64{1, -2, 3, 0.5}
	b := []float64{0.25, 4, -1}

	ab, _ := Convolve(a, b)
	ba, _ := Convolve(b, a)
	testutil.RequireSliceNearlyEqual(t, ab, ba, 1e-12)
}

func TestCentered(t *testing.T) {
	signal := []float64{0, 0, 3, 0, 0, 0, 1}
	half := []float64{1, 0.5, 0.25}

	got, err := Centered(signal, half)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0.75, 1.5, 3, 1.5, 1, 0.5, 1}
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)
}

func TestCenteredLongKernelFFT(t *testing.T) {
	n := 400
	signal := make([]float64, n)
	signal[120] = 2
	signal[121] = 1
	half := lorentzHalf(n, 6)

	got, err := Centered(signal, half)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireFinite(t, got)

	for i := range got {
		want := 2*half[abs(i-120)] + half[abs(i-121)]
		if math.Abs(got[i]-want) > 1e-9 {
			t.Fatalf("index %d: got %v, want %v", i, got[i], want)
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func TestNewOverlapAddErrors(t *testing.T) {
	if _, err := NewOverlapAdd(nil, 0); !errors.Is(err, ErrEmptyKernel) {
		t.Fatalf("err = %v, want ErrEmptyKernel", err)
	}

	oa, err := NewOverlapAdd([]float64{1, 2}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if oa.BlockSize() != 256 || oa.FFTSize() != 512 {
		t.Fatalf("block/fft = %d/%d, want 256/512", oa.BlockSize(), oa.FFTSize())
	}
	if _, err := oa.Process(nil); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("err = %v, want ErrEmptyInput", err)
	}
}
