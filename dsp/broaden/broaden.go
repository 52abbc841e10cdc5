package broaden

import (
	"iter"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-irspec/dsp/conv"
	"github.com/cwbudde/algo-irspec/dsp/core"
	"github.com/cwbudde/algo-irspec/dsp/interp"
)

// Line is one discrete spectral line.
type Line struct {
	Modes     []int // mode indices represented by the line
	Frequency float64
	Intensity float64
}

// Spectrum is a sampled spectrum on a uniform grid.
type Spectrum struct {
	Frequencies []float64
	Intensities []float64
}

// Len returns the number of samples.
func (s Spectrum) Len() int { return len(s.Frequencies) }

// All iterates over (frequency, intensity) samples in grid order. The sequence
// may be ranged over any number of times.
func (s Spectrum) All() iter.Seq2[float64, float64] {
	return func(yield func(float64, float64) bool) {
		for i, f := range s.Frequencies {
			if !yield(f, s.Intensities[i]) {
				return
			}
		}
	}
}

// Max returns the largest intensity and its frequency.
func (s Spectrum) Max() (freq, value float64) {
	if len(s.Intensities) == 0 {
		return 0, 0
	}
	i := floats.MaxIdx(s.Intensities)
	return s.Frequencies[i], s.Intensities[i]
}

// Broaden evaluates the lines on grid. Lines with zero or negative intensity
// are accepted and contribute nothing. The result depends only on the inputs.
func Broaden(lines []Line, grid Grid, opts Options) (Spectrum, error) {
	freqs, err := grid.Points()
	if err != nil {
		return Spectrum{}, err
	}
	if opts.Table != nil {
		if err := opts.Table.Validate(); err != nil {
			return Spectrum{}, err
		}
	}

	widths := make([]float64, len(lines))
	for i, l := range lines {
		if widths[i], err = opts.linewidth(l); err != nil {
			return Spectrum{}, err
		}
	}

	var out []float64
	switch opts.Method {
	case Convolution:
		out, err = convolve(lines, widths, grid, freqs, opts.Shape)
		if err != nil {
			return Spectrum{}, err
		}
	default:
		out = direct(lines, widths, freqs, opts.Shape)
	}

	if opts.Normalize {
		if m := floats.Max(out); m > 0 {
			floats.Scale(1/m, out)
		}
	}

	return Spectrum{Frequencies: freqs, Intensities: out}, nil
}

// direct sums the exact profile of every line at every grid point.
func direct(lines []Line, widths, freqs []float64, shape LineShape) []float64 {
	out := make([]float64, len(freqs))
	offset := make([]float64, len(freqs))
	width := make([]float64, len(freqs))
	profile := make([]float64, len(freqs))

	for i, l := range lines {
		if !(l.Intensity > 0) {
			continue
		}
		for k, f := range freqs {
			offset[k] = f - l.Frequency
		}
		core.Fill(width, widths[i])
		evalProfile(profile, offset, width, shape)
		floats.AddScaled(out, l.Intensity, profile)
	}
	return out
}

// evalProfile writes the unit-height profile at the given offsets into dst.
// width holds the half-width replicated to len(offset).
func evalProfile(dst, offset, width []float64, shape LineShape) {
	switch shape {
	case Gaussian:
		w := width[0]
		c := -math.Ln2 / (w * w)
		for k, x := range offset {
			dst[k] = math.Exp(c * x * x)
		}
	default:
		// dst = x^2 + w^2, then w^2 / dst.
		vecmath.Power(dst, offset, width)
		w2 := width[0] * width[0]
		for k, d := range dst {
			dst[k] = w2 / d
		}
	}
}

// convolutionReach is the distance from the grid, in half-widths, beyond
// which convolve evaluates a line directly instead of placing it on the
// extended stick axis.
const convolutionReach = 200

// convolve distributes lines onto the grid and convolves each linewidth batch
// with its sampled profile.
func convolve(lines []Line, widths []float64, grid Grid, freqs []float64, shape LineShape) ([]float64, error) {
	out := make([]float64, len(freqs))

	// Extend the stick axis so lines just outside the grid still contribute
	// tails. Lines beyond convolutionReach half-widths are summed directly.
	lo, hi := 0, len(freqs)-1
	var near []int
	var far []Line
	var farWidths []float64
	for i, l := range lines {
		if !(l.Intensity > 0) {
			continue
		}
		pos := (l.Frequency - grid.Min) / grid.Step
		reach := convolutionReach * widths[i] / grid.Step
		if pos < -reach || pos > float64(len(freqs)-1)+reach {
			far = append(far, l)
			farWidths = append(farWidths, widths[i])
			continue
		}
		near = append(near, i)
		lo = min(lo, int(math.Floor(pos)))
		hi = max(hi, int(math.Floor(pos))+1)
	}
	n := hi - lo + 1

	batches := make(map[float64][]int)
	var order []float64
	for _, i := range near {
		w := widths[i]
		if _, ok := batches[w]; !ok {
			order = append(order, w)
		}
		batches[w] = append(batches[w], i)
	}

	sticks := make([]float64, n)
	offset := core.Linspace(0, grid.Step, n)
	width := make([]float64, n)
	half := make([]float64, n)

	for _, w := range order {
		core.Fill(sticks, 0)
		for _, i := range batches[w] {
			pos := (lines[i].Frequency-grid.Min)/grid.Step - float64(lo)
			interp.Deposit(sticks, pos, lines[i].Intensity)
		}

		core.Fill(width, w)
		evalProfile(half, offset, width, shape)

		spread, err := conv.Centered(sticks, half)
		if err != nil {
			return nil, err
		}
		floats.Add(out, spread[-lo:-lo+len(freqs)])
	}

	if len(far) > 0 {
		floats.Add(out, direct(far, farWidths, freqs, shape))
	}
	return out, nil
}
