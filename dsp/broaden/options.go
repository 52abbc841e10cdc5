package broaden

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-irspec/dsp/core"
	"github.com/cwbudde/algo-irspec/dsp/interp"
)

// Errors returned by spectrum broadening.
var (
	ErrInvalidGrid      = errors.New("broaden: invalid frequency grid")
	ErrInvalidLinewidth = errors.New("broaden: linewidth must be > 0")
	ErrInvalidTable     = errors.New("broaden: invalid linewidth table")
)

// DefaultLinewidth is the half-width applied when no other linewidth is given,
// in cm^-1.
const DefaultLinewidth = 16.5

// LineShape selects the broadening profile.
type LineShape int

const (
	Lorentzian LineShape = iota
	Gaussian
)

func (s LineShape) String() string {
	switch s {
	case Lorentzian:
		return "lorentzian"
	case Gaussian:
		return "gaussian"
	default:
		return fmt.Sprintf("LineShape(%d)", int(s))
	}
}

// ParseLineShape converts a profile name to a LineShape.
func ParseLineShape(name string) (LineShape, error) {
	switch name {
	case "lorentzian", "lorentz", "":
		return Lorentzian, nil
	case "gaussian", "gauss":
		return Gaussian, nil
	default:
		return 0, fmt.Errorf("broaden: unknown line shape %q", name)
	}
}

// Method selects how the spectrum is evaluated.
type Method int

const (
	Direct Method = iota
	Convolution
)

func (m Method) String() string {
	switch m {
	case Direct:
		return "direct"
	case Convolution:
		return "convolution"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod converts a method name to a Method.
func ParseMethod(name string) (Method, error) {
	switch name {
	case "direct", "":
		return Direct, nil
	case "convolution", "fft":
		return Convolution, nil
	default:
		return 0, fmt.Errorf("broaden: unknown method %q", name)
	}
}

// Grid is a uniform frequency grid from Min to Max (inclusive when Max falls
// on a grid point) in steps of Step.
type Grid struct {
	Min, Max, Step float64
}

// Len returns the number of grid points, or 0 for an invalid grid.
func (g Grid) Len() int {
	return core.GridLen(g.Min, g.Max, g.Step)
}

// Points returns the grid frequencies.
func (g Grid) Points() ([]float64, error) {
	n := g.Len()
	if n == 0 {
		return nil, fmt.Errorf("%w: min=%g max=%g step=%g", ErrInvalidGrid, g.Min, g.Max, g.Step)
	}
	return core.Linspace(g.Min, g.Step, n), nil
}

// Options configures broadening.
type Options struct {
	Shape  LineShape
	Method Method

	// Linewidth is the default half-width. Zero selects DefaultLinewidth.
	Linewidth float64

	// Linewidths overrides the half-width per mode index. A line spanning
	// several modes uses the mean of the entries present for its modes.
	Linewidths map[int]float64

	// Table supplies frequency-dependent half-widths for lines without a
	// per-mode entry.
	Table *LinewidthTable

	// Normalize scales the spectrum to unit maximum.
	Normalize bool
}

// DefaultOptions returns Lorentzian direct broadening with DefaultLinewidth.
func DefaultOptions() Options {
	return Options{
		Shape:     Lorentzian,
		Method:    Direct,
		Linewidth: DefaultLinewidth,
	}
}

// linewidth resolves the half-width of line l.
func (o Options) linewidth(l Line) (float64, error) {
	var w float64
	var found []float64
	for _, m := range l.Modes {
		if v, ok := o.Linewidths[m]; ok {
			found = append(found, v)
		}
	}

	switch {
	case len(found) > 0:
		w = core.Mean(found)
	case o.Table != nil:
		w = o.Table.At(l.Frequency)
	case o.Linewidth != 0:
		w = o.Linewidth
	default:
		w = DefaultLinewidth
	}

	if !(w > 0) || !core.IsFinite(w) {
		return 0, fmt.Errorf("%w: line at %g has width %g", ErrInvalidLinewidth, l.Frequency, w)
	}
	return w, nil
}

// LinewidthTable tabulates half-widths against frequency. Lookups interpolate
// linearly and clamp to the end values outside the table.
type LinewidthTable struct {
	Frequencies []float64 // strictly increasing
	Widths      []float64
}

// Validate checks the table for consistent, increasing entries.
func (t *LinewidthTable) Validate() error {
	if len(t.Frequencies) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidTable)
	}
	if len(t.Frequencies) != len(t.Widths) {
		return fmt.Errorf("%w: %d frequencies, %d widths", ErrInvalidTable, len(t.Frequencies), len(t.Widths))
	}
	for i := 1; i < len(t.Frequencies); i++ {
		if !(t.Frequencies[i] > t.Frequencies[i-1]) {
			return fmt.Errorf("%w: frequencies must be strictly increasing at index %d", ErrInvalidTable, i)
		}
	}
	return nil
}

// At returns the interpolated half-width at freq.
func (t *LinewidthTable) At(freq float64) float64 {
	return interp.Table(t.Frequencies, t.Widths, freq)
}
