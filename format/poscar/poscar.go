package poscar

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

var (
	ErrFormat    = errors.New("poscar: malformed file")
	ErrNoLattice = errors.New("poscar: structure has no lattice vectors")
)

// Read parses a POSCAR from r. The returned comment is the first line.
func Read(r io.Reader) (phonon.Structure, string, error) {
	sc := bufio.NewScanner(r)
	line := 0
	next := func(what string) ([]string, error) {
		for sc.Scan() {
			line++
			if f := strings.Fields(sc.Text()); len(f) > 0 {
				return f, nil
			}
		}
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: unexpected end of file reading %s", ErrFormat, what)
	}

	if !sc.Scan() {
		return phonon.Structure{}, "", fmt.Errorf("%w: empty input", ErrFormat)
	}
	line++
	comment := strings.TrimSpace(sc.Text())

	f, err := next("scale")
	if err != nil {
		return phonon.Structure{}, "", err
	}
	scale, err := strconv.ParseFloat(f[0], 64)
	if err != nil || scale == 0 {
		return phonon.Structure{}, "", fmt.Errorf("%w: line %d: bad scale factor %q", ErrFormat, line, f[0])
	}

	var lat phonon.Lattice
	for k := range lat {
		f, err := next("lattice")
		if err != nil {
			return phonon.Structure{}, "", err
		}
		if lat[k], err = parseVec(f); err != nil {
			return phonon.Structure{}, "", fmt.Errorf("%w: line %d: %v", ErrFormat, line, err)
		}
	}
	if scale < 0 {
		// Negative scale gives the cell volume.
		vol := math.Abs(volume(lat))
		if vol == 0 {
			return phonon.Structure{}, "", phonon.ErrSingularLattice
		}
		scale = math.Cbrt(-scale / vol)
	}
	for k := range lat {
		lat[k] = lat[k].Scale(scale)
	}

	species, err := next("species")
	if err != nil {
		return phonon.Structure{}, "", err
	}
	if _, err := strconv.Atoi(species[0]); err == nil {
		return phonon.Structure{}, "", fmt.Errorf("%w: line %d: species names are required (VASP 5 format)", ErrFormat, line)
	}
	countFields, err := next("counts")
	if err != nil {
		return phonon.Structure{}, "", err
	}
	if len(countFields) != len(species) {
		return phonon.Structure{}, "", fmt.Errorf("%w: line %d: %d counts for %d species", ErrFormat, line, len(countFields), len(species))
	}

	var labels []string
	for i, c := range countFields {
		n, err := strconv.Atoi(c)
		if err != nil || n < 0 {
			return phonon.Structure{}, "", fmt.Errorf("%w: line %d: bad atom count %q", ErrFormat, line, c)
		}
		for range n {
			labels = append(labels, species[i])
		}
	}

	mode, err := next("coordinate mode")
	if err != nil {
		return phonon.Structure{}, "", err
	}
	if strings.HasPrefix(strings.ToLower(mode[0]), "s") {
		if mode, err = next("coordinate mode"); err != nil {
			return phonon.Structure{}, "", err
		}
	}
	direct := true
	switch strings.ToLower(mode[0][:1]) {
	case "d":
	case "c", "k":
		direct = false
	default:
		return phonon.Structure{}, "", fmt.Errorf("%w: line %d: unknown coordinate mode %q", ErrFormat, line, mode[0])
	}

	pos := make([]phonon.Vec3, len(labels))
	for i := range pos {
		f, err := next("positions")
		if err != nil {
			return phonon.Structure{}, "", err
		}
		v, err := parseVec(f)
		if err != nil {
			return phonon.Structure{}, "", fmt.Errorf("%w: line %d: %v", ErrFormat, line, err)
		}
		if direct {
			pos[i] = lat.Cartesian(v)
		} else {
			pos[i] = v.Scale(scale)
		}
	}

	s := phonon.Structure{Atoms: make([]phonon.Atom, len(labels)), Lattice: &lat}
	for i, l := range labels {
		s.Atoms[i].Species = l
	}
	s, err = s.WithPositions(pos)
	if err != nil {
		return phonon.Structure{}, "", err
	}
	return s, comment, nil
}

// ReadFile reads a POSCAR from path.
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

// Write writes s as a POSCAR with direct coordinates.
func Write(w io.Writer, s phonon.Structure, comment string) error {
	if !s.Periodic() {
		return ErrNoLattice
	}
	frac, err := s.Lattice.Fractional(s.Positions())
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	comment = strings.ReplaceAll(comment, "\n", " ")
	fmt.Fprintln(bw, comment)
	fmt.Fprintf(bw, "  %.14f\n", 1.0)
	for _, v := range s.Lattice {
		fmt.Fprintf(bw, "  %20.14f  %20.14f  %20.14f\n", v[0]+0, v[1]+0, v[2]+0)
	}

	names, counts := runs(s.Atoms)
	for _, n := range names {
		fmt.Fprintf(bw, "  %4s", n)
	}
	fmt.Fprintln(bw)
	for _, c := range counts {
		fmt.Fprintf(bw, "  %4d", c)
	}
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, "Direct")
	for _, f := range frac {
		// +0 folds negative zero.
		fmt.Fprintf(bw, "  %20.14f  %20.14f  %20.14f\n", f[0]+0, f[1]+0, f[2]+0)
	}
	return bw.Flush()
}

// WriteFile writes s to path.
func WriteFile(path string, s phonon.Structure, comment string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, s, comment); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

// runs groups consecutive atoms of equal species.
func runs(atoms []phonon.Atom) ([]string, []int) {
	var names []string
	var counts []int
	for _, a := range atoms {
		if n := len(names); n > 0 && names[n-1] == a.Species {
			counts[n-1]++
			continue
		}
		names = append(names, a.Species)
		counts = append(counts, 1)
	}
	return names, counts
}

func parseVec(f []string) (phonon.Vec3, error) {
	var v phonon.Vec3
	if len(f) < 3 {
		return v, fmt.Errorf("want 3 numbers, got %d fields", len(f))
	}
	for k := range v {
		x, err := strconv.ParseFloat(f[k], 64)
		if err != nil {
			return v, err
		}
		v[k] = x
	}
	return v, nil
}

func volume(l phonon.Lattice) float64 {
	a, b, c := l[0], l[1], l[2]
	cross := phonon.Vec3{
		b[1]*c[2] - b[2]*c[1],
		b[2]*c[0] - b[0]*c[2],
		b[0]*c[1] - b[1]*c[0],
	}
	return a.Dot(cross)
}
