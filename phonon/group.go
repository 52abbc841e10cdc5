package phonon

import (
	"fmt"
	"math"
	"sort"
)

// DefaultDegeneracyTolerance is the frequency difference below which modes are
// treated as degenerate.
const DefaultDegeneracyTolerance = 1e-2

// IrrepAssignment labels each mode with an irreducible representation.
type IrrepAssignment struct {
	PointGroup string
	Labels     []string // one per mode, in mode order
}

// Validate checks that every one of nmodes modes carries a label.
func (a *IrrepAssignment) Validate(nmodes int) error {
	if len(a.Labels) != nmodes {
		return fmt.Errorf("%w: %d labels for %d modes", ErrAmbiguousGrouping, len(a.Labels), nmodes)
	}
	for i, l := range a.Labels {
		if l == "" {
			return fmt.Errorf("%w: mode %d has no label", ErrAmbiguousGrouping, i+1)
		}
	}
	return nil
}

// Label returns the label of mode i, or "" when a is nil.
func (a *IrrepAssignment) Label(i int) string {
	if a == nil || i < 0 || i >= len(a.Labels) {
		return ""
	}
	return a.Labels[i]
}

// GroupDegenerate partitions modes into degenerate groups.
//
// Modes are visited in order of increasing frequency. If irreps is non-nil,
// only modes with the same label can share a group. A mode joins the open
// group of its label when its frequency is within tol of that group's last
// member. subset restricts the
// modes considered; nil means all of freqs. Groups are returned ordered by
// their lowest mode index, members in ascending order.
func GroupDegenerate(freqs []float64, irreps *IrrepAssignment, tol float64, subset []int) ([][]int, error) {
	if irreps != nil {
		if err := irreps.Validate(len(freqs)); err != nil {
			return nil, err
		}
	}
	if tol <= 0 {
		tol = DefaultDegeneracyTolerance
	}

	idx := subset
	if idx == nil {
		idx = make([]int, len(freqs))
		for i := range idx {
			idx[i] = i
		}
	} else {
		idx = append([]int(nil), subset...)
	}
	for _, i := range idx {
		if i < 0 || i >= len(freqs) {
			return nil, fmt.Errorf("%w: mode index %d out of range [0,%d)", ErrShapeMismatch, i, len(freqs))
		}
	}

	sort.SliceStable(idx, func(a, b int) bool {
		if freqs[idx[a]] == freqs[idx[b]] {
			return idx[a] < idx[b]
		}
		return freqs[idx[a]] < freqs[idx[b]]
	})

	// Chains run per label, so modes of another label sorting in between do
	// not break a group.
	var groups [][]int
	open := make(map[string]int)
	for _, i := range idx {
		l := irreps.Label(i)
		if g, ok := open[l]; ok {
			cur := groups[g]
			if math.Abs(freqs[i]-freqs[cur[len(cur)-1]]) < tol {
				groups[g] = append(cur, i)
				continue
			}
		}
		open[l] = len(groups)
		groups = append(groups, []int{i})
	}

	for _, g := range groups {
		sort.Ints(g)
	}
	sort.Slice(groups, func(a, b int) bool { return groups[a][0] < groups[b][0] })
	return groups, nil
}
