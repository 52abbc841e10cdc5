// Package outcar extracts Born effective charges from VASP OUTCAR files.
//
// OUTCAR files written by linear-response runs contain one or more blocks
// headed "BORN EFFECTIVE CHARGES". The last complete block is returned. Row
// k of each tensor holds the derivative of the dipole component k, so a block
// maps directly onto phonon.Tensor3.
package outcar

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-irspec/phonon"
)

var (
	ErrNoBornCharges = errors.New("outcar: no Born effective charges found")
	ErrFormat        = errors.New("outcar: malformed Born effective charge block")
)

const header = "BORN EFFECTIVE CHARGES"

// Read returns the last Born effective charge block in r.
func Read(r io.Reader) (phonon.BornCharges, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	var last phonon.BornCharges
	line := 0
	for sc.Scan() {
		line++
		if !strings.Contains(sc.Text(), header) {
			continue
		}
		block, n, err := readBlock(sc, line)
		line = n
		if err != nil {
			return nil, err
		}
		if len(block) > 0 {
			last = block
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if last == nil {
		return nil, ErrNoBornCharges
	}
	return last, nil
}

// readBlock consumes "ion N" headers, each followed by three rows
// "k zx zy zz", until the block ends.
func readBlock(sc *bufio.Scanner, line int) (phonon.BornCharges, int, error) {
	var out phonon.BornCharges
	for sc.Scan() {
		line++
		f := strings.Fields(sc.Text())
		switch {
		case len(f) == 0:
			if out != nil {
				return out, line, nil
			}
			continue
		case strings.HasPrefix(f[0], "---"):
			if out != nil {
				return out, line, nil
			}
			continue
		case f[0] != "ion":
			return out, line, nil
		}

		if len(f) < 2 {
			return nil, line, fmt.Errorf("%w: line %d: ion header without index", ErrFormat, line)
		}
		idx, err := strconv.Atoi(f[1])
		if err != nil || idx != len(out)+1 {
			return nil, line, fmt.Errorf("%w: line %d: expected ion %d, got %q", ErrFormat, line, len(out)+1, f[1])
		}

		var z phonon.Tensor3
		for k := range 3 {
			if !sc.Scan() {
				return nil, line, fmt.Errorf("%w: ion %d truncated", ErrFormat, idx)
			}
			line++
			row := strings.Fields(sc.Text())
			if len(row) != 4 {
				return nil, line, fmt.Errorf("%w: line %d: want 4 fields, got %d", ErrFormat, line, len(row))
			}
			for c := range 3 {
				if z[k][c], err = strconv.ParseFloat(row[c+1], 64); err != nil {
					return nil, line, fmt.Errorf("%w: line %d: %v", ErrFormat, line, err)
				}
			}
		}
		out = append(out, z)
	}
	return out, line, nil
}

// ReadFile reads the Born charges from the OUTCAR at path.
func ReadFile(path string) (phonon.BornCharges, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}
