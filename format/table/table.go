// Package table writes peak tables and broadened spectra as plain text.
package table

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-irspec/dsp/broaden"
	"github.com/cwbudde/algo-irspec/measure/intensity"
)

// WritePeaks writes one aligned row per peak. Mode indices are one-based.
func WritePeaks(w io.Writer, peaks []intensity.Peak) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "# Mode(s)\tFrequency\tIntensity\tIrrep")
	for _, p := range peaks {
		irrep := p.Irrep
		if irrep == "" {
			irrep = "-"
		}
		fmt.Fprintf(tw, "%s\t%.4f\t%.6e\t%s\n", modeList(p.Modes), p.Frequency, p.Intensity, irrep)
	}
	return tw.Flush()
}

// WriteSpectrum writes two tab-separated columns, frequency and intensity.
func WriteSpectrum(w io.Writer, s broaden.Spectrum) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "# Frequency\tIntensity")
	for f, v := range s.All() {
		fmt.Fprintf(bw, "%.6f\t%.8e\n", f, v)
	}
	return bw.Flush()
}

// WritePeaksFile writes the peak table to path.
func WritePeaksFile(path string, peaks []intensity.Peak) error {
	return writeFile(path, func(w io.Writer) error { return WritePeaks(w, peaks) })
}

// WriteSpectrumFile writes the spectrum to path.
func WriteSpectrumFile(path string, s broaden.Spectrum) error {
	return writeFile(path, func(w io.Writer) error { return WriteSpectrum(w, s) })
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

func modeList(modes []int) string {
	parts := make([]string, len(modes))
	for i, m := range modes {
		parts[i] = strconv.Itoa(m + 1)
	}
	return strings.Join(parts, ",")
}
