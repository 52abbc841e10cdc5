package phonon_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/cwbudde/algo-irspec/internal/testutil"
	"github.com/cwbudde/algo-irspec/phonon"
)

func TestGroupDegenerate(t *testing.T) {
	freqs := []float64{0, 0, 0, 500, 500.001, 520, 1200}

	tests := []struct {
		name   string
		irreps *phonon.IrrepAssignment
		tol    float64
		subset []int
		want   [][]int
	}{
		{
			name: "frequency only",
			tol:  1e-2,
			want: [][]int{{0, 1, 2}, {3, 4}, {5}, {6}},
		},
		{
			name: "tight tolerance splits pair",
			tol:  1e-4,
			want: [][]int{{0, 1, 2}, {3}, {4}, {5}, {6}},
		},
		{
			name: "labels split accidental degeneracy",
			irreps: &phonon.IrrepAssignment{
				Labels: []string{"T1u", "T1u", "T1u", "Eg", "Eu", "A1", "A1"},
			},
			tol:  1e-2,
			want: [][]int{{0, 1, 2}, {3}, {4}, {5}, {6}},
		},
		{
			name:   "subset",
			tol:    1e-2,
			subset: []int{6, 4, 3},
			want:   [][]int{{3, 4}, {6}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := phonon.GroupDegenerate(freqs, tt.irreps, tt.tol, tt.subset)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("groups = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGroupDegenerateSameLabelDifferentFrequency(t *testing.T) {
	d := testutil.NewDiatomic(1, 0.5, 12)
	d.Irreps.Labels[5] = "Pi_u"

	got, err := phonon.GroupDegenerate(phonon.Frequencies(d.Modes), d.Irreps, 0, []int{3, 4, 5})
	if err != nil {
		t.Fatal(err)
	}
	want := [][]int{{3, 4}, {5}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("groups = %v, want %v", got, want)
	}
}

func TestGroupDegenerateInterleavedLabels(t *testing.T) {
	tests := []struct {
		name   string
		freqs  []float64
		labels []string
		want   [][]int
	}{
		{
			name:   "equal frequencies",
			freqs:  []float64{100, 100, 100},
			labels: []string{"E", "A", "E"},
			want:   [][]int{{0, 2}, {1}},
		},
		{
			name:   "other label sorts between",
			freqs:  []float64{100, 100.004, 100.002, 300},
			labels: []string{"E", "E", "A", "E"},
			want:   [][]int{{0, 1}, {2}, {3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := phonon.GroupDegenerate(tt.freqs, &phonon.IrrepAssignment{Labels: tt.labels}, 1e-2, nil)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("groups = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGroupDegenerateAmbiguous(t *testing.T) {
	freqs := []float64{100, 100, 200}

	tests := []struct {
		name   string
		labels []string
	}{
		{name: "short", labels: []string{"E", "E"}},
		{name: "missing label", labels: []string{"E", "", "A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := phonon.GroupDegenerate(freqs, &phonon.IrrepAssignment{Labels: tt.labels}, 0, nil)
			if !errors.Is(err, phonon.ErrAmbiguousGrouping) {
				t.Fatalf("err = %v, want ErrAmbiguousGrouping", err)
			}
		})
	}
}

func TestGroupDegenerateOutOfRange(t *testing.T) {
	_, err := phonon.GroupDegenerate([]float64{1, 2}, nil, 0, []int{2})
	if !errors.Is(err, phonon.ErrShapeMismatch) {
		t.Fatalf("err = %v, want ErrShapeMismatch", err)
	}
}
