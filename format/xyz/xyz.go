// Package xyz reads XYZ molecule files and places molecules in a cubic box.
package xyz

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-irspec/phonon"
)

var ErrFormat = errors.New("xyz: malformed file")

// DefaultVacuum is the default padding, in Angstrom, between the molecule
// and the box faces.
const DefaultVacuum = 10.0

// Read parses the first frame of an XYZ file. The returned comment is the
// second line of the frame.
func Read(r io.Reader) (phonon.Structure, string, error) {
	sc := bufio.NewScanner(r)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return phonon.Structure{}, "", err
		}
		return phonon.Structure{}, "", fmt.Errorf("%w: empty input", ErrFormat)
	}
	n, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
	if err != nil || n <= 0 {
		return phonon.Structure{}, "", fmt.Errorf("%w: line 1: bad atom count %q", ErrFormat, sc.Text())
	}
	if !sc.Scan() {
		return phonon.Structure{}, "", fmt.Errorf("%w: missing comment line", ErrFormat)
	}
	comment := strings.TrimSpace(sc.Text())

	s := phonon.Structure{Atoms: make([]phonon.Atom, 0, n)}
	for line := 3; len(s.Atoms) < n; line++ {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return phonon.Structure{}, "", err
			}
			return phonon.Structure{}, "", fmt.Errorf("%w: %d of %d atoms read", ErrFormat, len(s.Atoms), n)
		}
		f := strings.Fields(sc.Text())
		if len(f) < 4 {
			return phonon.Structure{}, "", fmt.Errorf("%w: line %d: want species and 3 coordinates", ErrFormat, line)
		}
		a := phonon.Atom{Species: f[0]}
		for k := range 3 {
			if a.Position[k], err = strconv.ParseFloat(f[k+1], 64); err != nil {
				return phonon.Structure{}, "", fmt.Errorf("%w: line %d: %v", ErrFormat, line, err)
			}
		}
		s.Atoms = append(s.Atoms, a)
	}
	return s, comment, nil
}

// ReadFile reads an XYZ file from path.
func ReadFile(path string) (phonon.Structure, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return phonon.Structure{}, "", err
	}
	defer f.Close()

	s, comment, err := Read(f)
	if err != nil {
		return phonon.Structure{}, "", fmt.Errorf("%s: %w", path, err)
	}
	return s, comment, nil
}

// Box centres the molecule in a cubic cell whose edge is the largest extent
// of the molecule plus twice vacuum. vacuum <= 0 selects DefaultVacuum.
func Box(s phonon.Structure, vacuum float64) (phonon.Structure, error) {
	if s.Len() == 0 {
		return phonon.Structure{}, fmt.Errorf("%w: no atoms", ErrFormat)
	}
	if vacuum <= 0 {
		vacuum = DefaultVacuum
	}

	lo := phonon.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := phonon.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, a := range s.Atoms {
		for k := range 3 {
			lo[k] = math.Min(lo[k], a.Position[k])
			hi[k] = math.Max(hi[k], a.Position[k])
		}
	}
	extent := hi.Sub(lo)
	edge := math.Max(extent[0], math.Max(extent[1], extent[2])) + 2*vacuum

	centre := lo.Add(hi).Scale(0.5)
	shift := phonon.Vec3{edge / 2, edge / 2, edge / 2}.Sub(centre)
	pos := s.Positions()
	for i := range pos {
		pos[i] = pos[i].Add(shift)
	}

	lat := phonon.Lattice{{edge, 0, 0}, {0, edge, 0}, {0, 0, edge}}
	return phonon.Structure{Atoms: s.Atoms, Lattice: &lat}.WithPositions(pos)
}
