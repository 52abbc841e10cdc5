// Package config holds the YAML run configuration of irspec.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-irspec/displace"
	"github.com/cwbudde/algo-irspec/dsp/broaden"
	"github.com/cwbudde/algo-irspec/format/phonopy"
	"github.com/cwbudde/algo-irspec/format/poscar"
	"github.com/cwbudde/algo-irspec/measure/intensity"
	"github.com/cwbudde/algo-irspec/phonon"
)

var ErrInvalid = errors.New("config: invalid value")

// Config is the run configuration. Mode indices are one-based, as in the
// output files.
type Config struct {
	Phonopy      PhonopyConfig      `yaml:"phonopy"`
	Displacement DisplacementConfig `yaml:"displacement"`
	Intensity    IntensityConfig    `yaml:"intensity"`
	Spectrum     SpectrumConfig     `yaml:"spectrum"`
}

type PhonopyConfig struct {
	FrequencyUnit string `yaml:"frequency_unit"` // THz, cm-1 or meV
}

type DisplacementConfig struct {
	Step              float64 `yaml:"step"` // Angstrom
	Symmetric         bool    `yaml:"symmetric"`
	Modes             []int   `yaml:"modes,omitempty"`
	AcousticThreshold float64 `yaml:"acoustic_threshold"`
	IncludeAcoustic   bool    `yaml:"include_acoustic"`
	IncludeUnstable   bool    `yaml:"include_unstable"`
	ReduceDegenerate  bool    `yaml:"reduce_degenerate"`
	Prefix            string  `yaml:"prefix"`
}

type IntensityConfig struct {
	AcousticThreshold   float64 `yaml:"acoustic_threshold"`
	DegeneracyTolerance float64 `yaml:"degeneracy_tolerance"`
	IncludeUnstable     bool    `yaml:"include_unstable"`
	Scale               float64 `yaml:"scale"`
	BornSet             int     `yaml:"born_set"`
}

type SpectrumConfig struct {
	Min            float64         `yaml:"min"`
	Max            float64         `yaml:"max"`
	Step           float64         `yaml:"step"`
	Linewidth      float64         `yaml:"linewidth"`
	Linewidths     map[int]float64 `yaml:"linewidths,omitempty"`
	LinewidthTable [][2]float64    `yaml:"linewidth_table,omitempty,flow"`
	Shape          string          `yaml:"shape"`
	Method         string          `yaml:"method"`
	Normalize      bool            `yaml:"normalize"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Phonopy: PhonopyConfig{
			FrequencyUnit: "THz",
		},
		Displacement: DisplacementConfig{
			Step:              displace.DefaultStep,
			Symmetric:         true,
			AcousticThreshold: phonon.DefaultAcousticThreshold,
			Prefix:            poscar.DefaultPrefix,
		},
		Intensity: IntensityConfig{
			AcousticThreshold:   phonon.DefaultAcousticThreshold,
			DegeneracyTolerance: phonon.DefaultDegeneracyTolerance,
			Scale:               1,
			BornSet:             1,
		},
		Spectrum: SpectrumConfig{
			Min:       0,
			Max:       4000,
			Step:      1,
			Linewidth: broaden.DefaultLinewidth,
			Shape:     broaden.Lorentzian.String(),
			Method:    broaden.Direct.String(),
		},
	}
}

// Load reads path over the defaults. Unknown keys are rejected. An empty
// path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Write encodes c as YAML.
func (c *Config) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

// Validate checks every section.
func (c *Config) Validate() error {
	if _, err := phonopy.ParseUnit(c.Phonopy.FrequencyUnit); err != nil {
		return err
	}

	d := c.Displacement
	if !(d.Step > 0) {
		return fmt.Errorf("%w: displacement.step must be > 0, got %g", ErrInvalid, d.Step)
	}
	for _, m := range d.Modes {
		if m < 1 {
			return fmt.Errorf("%w: displacement.modes are one-based, got %d", ErrInvalid, m)
		}
	}
	if d.AcousticThreshold < 0 || c.Intensity.AcousticThreshold < 0 {
		return fmt.Errorf("%w: acoustic_threshold must be >= 0", ErrInvalid)
	}

	in := c.Intensity
	if !(in.Scale > 0) {
		return fmt.Errorf("%w: intensity.scale must be > 0, got %g", ErrInvalid, in.Scale)
	}
	if in.DegeneracyTolerance < 0 {
		return fmt.Errorf("%w: intensity.degeneracy_tolerance must be >= 0", ErrInvalid)
	}
	if in.BornSet < 1 {
		return fmt.Errorf("%w: intensity.born_set is one-based, got %d", ErrInvalid, in.BornSet)
	}

	_, _, err := c.SpectrumOptions()
	return err
}

// DisplacementOptions converts the displacement section.
func (c *Config) DisplacementOptions(irreps *phonon.IrrepAssignment) displace.Options {
	d := c.Displacement
	opts := displace.Options{
		Step:              d.Step,
		Symmetric:         d.Symmetric,
		AcousticThreshold: d.AcousticThreshold,
		IncludeAcoustic:   d.IncludeAcoustic,
		IncludeUnstable:   d.IncludeUnstable,
		ReduceDegenerate:  d.ReduceDegenerate,
		Irreps:            irreps,
	}
	if d.Modes != nil {
		opts.Modes = make([]int, len(d.Modes))
		for i, m := range d.Modes {
			opts.Modes[i] = m - 1
		}
	}
	return opts
}

// IntensityOptions converts the intensity section.
func (c *Config) IntensityOptions(irreps *phonon.IrrepAssignment) intensity.Options {
	in := c.Intensity
	return intensity.Options{
		Irreps:              irreps,
		DegeneracyTolerance: in.DegeneracyTolerance,
		AcousticThreshold:   in.AcousticThreshold,
		IncludeUnstable:     in.IncludeUnstable,
		Scale:               in.Scale,
	}
}

// SpectrumOptions converts the spectrum section.
func (c *Config) SpectrumOptions() (broaden.Options, broaden.Grid, error) {
	s := c.Spectrum
	grid := broaden.Grid{Min: s.Min, Max: s.Max, Step: s.Step}
	if _, err := grid.Points(); err != nil {
		return broaden.Options{}, broaden.Grid{}, err
	}

	shape, err := broaden.ParseLineShape(s.Shape)
	if err != nil {
		return broaden.Options{}, broaden.Grid{}, err
	}
	method, err := broaden.ParseMethod(s.Method)
	if err != nil {
		return broaden.Options{}, broaden.Grid{}, err
	}
	if !(s.Linewidth > 0) {
		return broaden.Options{}, broaden.Grid{}, fmt.Errorf("%w: spectrum.linewidth must be > 0, got %g", ErrInvalid, s.Linewidth)
	}

	opts := broaden.Options{
		Shape:     shape,
		Method:    method,
		Linewidth: s.Linewidth,
		Normalize: s.Normalize,
	}
	if len(s.Linewidths) > 0 {
		opts.Linewidths = make(map[int]float64, len(s.Linewidths))
		for m, w := range s.Linewidths {
			if m < 1 {
				return broaden.Options{}, broaden.Grid{}, fmt.Errorf("%w: spectrum.linewidths keys are one-based, got %d", ErrInvalid, m)
			}
			opts.Linewidths[m-1] = w
		}
	}
	if len(s.LinewidthTable) > 0 {
		t := &broaden.LinewidthTable{}
		for _, row := range s.LinewidthTable {
			t.Frequencies = append(t.Frequencies, row[0])
			t.Widths = append(t.Widths, row[1])
		}
		if err := t.Validate(); err != nil {
			return broaden.Options{}, broaden.Grid{}, err
		}
		opts.Table = t
	}
	return opts, grid, nil
}

// FrequencyUnit returns the parsed phonopy frequency unit.
func (c *Config) FrequencyUnit() phonopy.Unit {
	u, _ := phonopy.ParseUnit(c.Phonopy.FrequencyUnit)
	return u
}
