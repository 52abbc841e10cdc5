package broaden

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/integrate"

	"github.com/cwbudde/algo-irspec/internal/testutil"
)

func TestLorentzianPeakAndHalfWidth(t *testing.T) {
	lines := []Line{{Modes: []int{5}, Frequency: 1000, Intensity: 3}}
	grid := Grid{Min: 900, Max: 1100, Step: 0.5}
	opts := DefaultOptions()
	opts.Linewidth = 8

	s, err := Broaden(lines, grid, opts)
	if err != nil {
		t.Fatal(err)
	}

	at := func(f float64) float64 {
		return s.Intensities[int(math.Round((f-grid.Min)/grid.Step))]
	}
	if got := at(1000); math.Abs(got-3) > 1e-12 {
		t.Fatalf("peak = %v, want 3", got)
	}
	if got := at(1008); math.Abs(got-1.5) > 1e-12 {
		t.Fatalf("value at f0+w = %v, want 1.5", got)
	}
	if f, v := s.Max(); f != 1000 || math.Abs(v-3) > 1e-12 {
		t.Fatalf("Max() = (%v, %v), want (1000, 3)", f, v)
	}
}

func TestGaussianPeakAndHalfWidth(t *testing.T) {
	lines := []Line{{Frequency: 700, Intensity: 2}}
	opts := Options{Shape: Gaussian, Linewidth: 10}

	s, err := Broaden(lines, Grid{Min: 600, Max: 800, Step: 1}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Intensities[100]; math.Abs(got-2) > 1e-12 {
		t.Fatalf("peak = %v, want 2", got)
	}
	if got := s.Intensities[110]; math.Abs(got-1) > 1e-12 {
		t.Fatalf("value at f0+w = %v, want 1", got)
	}
}

func TestBroadeningIntegral(t *testing.T) {
	const (
		f0    = 1500.0
		inten = 10.0
		w     = 4.0
		r     = 400.0
	)
	want := 2 * inten * w * math.Atan(r/w)
	lines := []Line{{Frequency: f0, Intensity: inten}}
	opts := Options{Linewidth: w}

	prev := math.Inf(1)
	for _, step := range []float64{2, 1, 0.5} {
		s, err := Broaden(lines, Grid{Min: f0 - r, Max: f0 + r, Step: step}, opts)
		if err != nil {
			t.Fatal(err)
		}
		area := integrate.Trapezoidal(s.Frequencies, s.Intensities)
		rel := math.Abs(area-want) / want
		if rel > 1e-4 {
			t.Fatalf("step %v: area = %v, want %v (rel err %v)", step, area, want, rel)
		}
		if rel > prev+1e-12 {
			t.Fatalf("step %v: error %v did not shrink from %v", step, rel, prev)
		}
		prev = rel
	}

	// Over the whole axis the Lorentzian area approaches pi*I*w.
	if math.Abs(want-math.Pi*inten*w)/want > 0.01 {
		t.Fatalf("truncated area %v too far from pi*I*w", want)
	}
}

func TestNonPositiveIntensityContributesNothing(t *testing.T) {
	grid := Grid{Min: 0, Max: 200, Step: 1}
	base := []Line{{Frequency: 100, Intensity: 1}}
	extra := append([]Line{}, base...)
	extra = append(extra, Line{Frequency: 50, Intensity: 0}, Line{Frequency: 150, Intensity: -4})

	for _, m := range []Method{Direct, Convolution} {
		opts := Options{Method: m, Linewidth: 5}
		a, err := Broaden(base, grid, opts)
		if err != nil {
			t.Fatal(err)
		}
		b, err := Broaden(extra, grid, opts)
		if err != nil {
			t.Fatal(err)
		}
		testutil.RequireSliceNearlyEqual(t, b.Intensities, a.Intensities, 0)
	}
}

func TestBroadenIsRepeatable(t *testing.T) {
	lines := []Line{{Frequency: 400, Intensity: 1}, {Frequency: 420.3, Intensity: 0.2}}
	grid := Grid{Min: 300, Max: 500, Step: 0.7}

	a, err := Broaden(lines, grid, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Broaden(lines, grid, DefaultOptions())
	testutil.RequireSliceNearlyEqual(t, a.Intensities, b.Intensities, 0)

	count := func() (n int) {
		for range a.All() {
			n++
		}
		return n
	}
	if first, second := count(), count(); first != a.Len() || second != a.Len() {
		t.Fatalf("iteration counts %d, %d, want %d", first, second, a.Len())
	}
}

func TestConvolutionMatchesDirectOnGrid(t *testing.T) {
	lines := []Line{
		{Modes: []int{3}, Frequency: 250, Intensity: 2},
		{Modes: []int{4}, Frequency: 262.5, Intensity: 0.7},
		{Modes: []int{5}, Frequency: 180, Intensity: 1}, // below the grid
	}
	grid := Grid{Min: 200, Max: 400, Step: 0.5}

	for _, shape := range []LineShape{Lorentzian, Gaussian} {
		opts := Options{Shape: shape, Linewidth: 6, Linewidths: map[int]float64{4: 3}}

		want, err := Broaden(lines, grid, opts)
		if err != nil {
			t.Fatal(err)
		}
		opts.Method = Convolution
		got, err := Broaden(lines, grid, opts)
		if err != nil {
			t.Fatal(err)
		}
		testutil.RequireSliceNearlyEqual(t, got.Intensities, want.Intensities, 1e-9)
	}
}

func TestConvolutionOffGridApproximation(t *testing.T) {
	lines := []Line{{Frequency: 1000.37, Intensity: 1}}
	grid := Grid{Min: 900, Max: 1100, Step: 1}
	opts := Options{Linewidth: 4}

	want, _ := Broaden(lines, grid, opts)
	opts.Method = Convolution
	got, err := Broaden(lines, grid, opts)
	if err != nil {
		t.Fatal(err)
	}

	d, err := testutil.MaxAbsDiff(got.Intensities, want.Intensities)
	if err != nil {
		t.Fatal(err)
	}
	if d > 0.03 {
		t.Fatalf("max deviation = %v, want < 0.03", d)
	}
}

func TestConvolutionDistantLines(t *testing.T) {
	lines := []Line{
		{Frequency: 2000, Intensity: 1},
		{Frequency: 8000, Intensity: 3},
		{Frequency: 5e7, Intensity: 2},
		{Frequency: -1e6, Intensity: 1},
	}
	grid := Grid{Min: 0, Max: 4000, Step: 1}
	opts := Options{Linewidth: 16.5}

	want, err := Broaden(lines, grid, opts)
	if err != nil {
		t.Fatal(err)
	}
	opts.Method = Convolution
	got, err := Broaden(lines, grid, opts)
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireSliceNearlyEqual(t, got.Intensities, want.Intensities, 1e-9)
}

func TestLinewidthResolution(t *testing.T) {
	table := &LinewidthTable{Frequencies: []float64{0, 1000}, Widths: []float64{2, 12}}

	tests := []struct {
		name string
		line Line
		opts Options
		want float64
	}{
		{name: "default", line: Line{Frequency: 10}, opts: Options{}, want: DefaultLinewidth},
		{name: "global", line: Line{Frequency: 10}, opts: Options{Linewidth: 3}, want: 3},
		{
			name: "per mode mean",
			line: Line{Modes: []int{1, 2, 7}, Frequency: 10},
			opts: Options{Linewidth: 3, Linewidths: map[int]float64{1: 4, 2: 6}},
			want: 5,
		},
		{name: "table", line: Line{Frequency: 250}, opts: Options{Linewidth: 3, Table: table}, want: 4.5},
		{name: "table clamps", line: Line{Frequency: 5000}, opts: Options{Table: table}, want: 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.opts.linewidth(tt.line)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Fatalf("linewidth = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBroadenErrors(t *testing.T) {
	lines := []Line{{Modes: []int{0}, Frequency: 10, Intensity: 1}}

	if _, err := Broaden(lines, Grid{Min: 10, Max: 0, Step: 1}, DefaultOptions()); !errors.Is(err, ErrInvalidGrid) {
		t.Fatalf("err = %v, want ErrInvalidGrid", err)
	}
	if _, err := Broaden(lines, Grid{Min: 0, Max: 10, Step: 0}, DefaultOptions()); !errors.Is(err, ErrInvalidGrid) {
		t.Fatalf("err = %v, want ErrInvalidGrid", err)
	}

	opts := DefaultOptions()
	opts.Linewidths = map[int]float64{0: -1}
	if _, err := Broaden(lines, Grid{Min: 0, Max: 10, Step: 1}, opts); !errors.Is(err, ErrInvalidLinewidth) {
		t.Fatalf("err = %v, want ErrInvalidLinewidth", err)
	}

	opts = DefaultOptions()
	opts.Table = &LinewidthTable{Frequencies: []float64{2, 1}, Widths: []float64{1, 1}}
	if _, err := Broaden(lines, Grid{Min: 0, Max: 10, Step: 1}, opts); !errors.Is(err, ErrInvalidTable) {
		t.Fatalf("err = %v, want ErrInvalidTable", err)
	}
}

func TestNormalize(t *testing.T) {
	lines := []Line{{Frequency: 50, Intensity: 7}, {Frequency: 80, Intensity: 2}}
	opts := Options{Linewidth: 2, Normalize: true}

	s, err := Broaden(lines, Grid{Min: 0, Max: 100, Step: 1}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if _, v := s.Max(); math.Abs(v-1) > 1e-12 {
		t.Fatalf("max = %v, want 1", v)
	}
	testutil.RequireFinite(t, s.Intensities)
}

func TestParseNames(t *testing.T) {
	if s, err := ParseLineShape("gaussian"); err != nil || s != Gaussian {
		t.Fatalf("ParseLineShape = %v, %v", s, err)
	}
	if _, err := ParseLineShape("voigt"); err == nil {
		t.Fatal("expected error for unknown shape")
	}
	if m, err := ParseMethod("fft"); err != nil || m != Convolution {
		t.Fatalf("ParseMethod = %v, %v", m, err)
	}
	if Lorentzian.String() != "lorentzian" || Convolution.String() != "convolution" {
		t.Fatal("unexpected String() output")
	}
}
