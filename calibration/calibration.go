// Package calibration provides YAML configuration loading for the
// solver: model selection, model parameters, fixed-point tuning, and
// the stationary-distribution strategy, with validated defaults.
package calibration

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/greimel/hjbflow/hjb"
	"github.com/greimel/hjbflow/huggett"
	"github.com/greimel/hjbflow/kfe"
	"github.com/greimel/hjbflow/twoasset"
)

// Config is the top-level document. Model selects which parameter
// block applies; the unused block may be omitted entirely.
type Config struct {
	// Model is "huggett" or "twoasset".
	Model string `yaml:"model"`

	// Solver tunes the implicit fixed-point loop.
	Solver SolverConfig `yaml:"solver"`

	// Stationary tunes the distribution solve run after convergence.
	Stationary StationaryConfig `yaml:"stationary"`

	Huggett  *HuggettConfig  `yaml:"huggett,omitempty"`
	TwoAsset *TwoAssetConfig `yaml:"twoasset,omitempty"`
}

// SolverConfig mirrors hjb.Options.
type SolverConfig struct {
	Delta   float64 `yaml:"delta"`
	Tol     float64 `yaml:"tol"`
	MaxIter int     `yaml:"max_iter"`
}

// StationaryConfig selects and tunes the distribution strategy.
type StationaryConfig struct {
	// Strategy is "direct", "death", "eigen", or "iterative".
	Strategy       string  `yaml:"strategy"`
	Pin            int     `yaml:"pin"`
	Regularization float64 `yaml:"regularization"`
	DeathRate      float64 `yaml:"death_rate"`
	Tol            float64 `yaml:"tol"`
	MaxIter        int     `yaml:"max_iter"`
	TimeStep       float64 `yaml:"time_step"`
}

// HuggettConfig mirrors huggett.Params.
type HuggettConfig struct {
	Gamma   float64     `yaml:"gamma"`
	Rho     float64     `yaml:"rho"`
	Rate    float64     `yaml:"rate"`
	AMin    float64     `yaml:"a_min"`
	AMax    float64     `yaml:"a_max"`
	Points  int         `yaml:"points"`
	Incomes []float64   `yaml:"incomes"`
	Switch  [][]float64 `yaml:"switch"`
}

// TwoAssetConfig mirrors twoasset.Params.
type TwoAssetConfig struct {
	Gamma     float64     `yaml:"gamma"`
	Rho       float64     `yaml:"rho"`
	RLiquid   float64     `yaml:"r_liquid"`
	RIlliquid float64     `yaml:"r_illiquid"`
	Wage      float64     `yaml:"wage"`
	Incomes   []float64   `yaml:"incomes"`
	Switch    [][]float64 `yaml:"switch"`
	Chi0      float64     `yaml:"chi0"`
	Chi1      float64     `yaml:"chi1"`
	AFloor    float64     `yaml:"a_floor"`
	BMax      float64     `yaml:"b_max"`
	AMax      float64     `yaml:"a_max"`
	BPoints   int         `yaml:"b_points"`
	APoints   int         `yaml:"a_points"`
}

// Default returns the configuration used when a field is absent from
// the document: the Huggett benchmark with solver and stationary
// defaults.
func Default() *Config {
	hp := huggett.DefaultParams()
	so := hjb.DefaultOptions()
	ko := kfe.DefaultOptions()
	return &Config{
		Model:  "huggett",
		Solver: SolverConfig{Delta: so.Delta, Tol: so.Tol, MaxIter: so.MaxIter},
		Stationary: StationaryConfig{
			Strategy:       "direct",
			Pin:            ko.Pin,
			Regularization: ko.Regularization,
			DeathRate:      ko.DeathRate,
			Tol:            ko.Tol,
			MaxIter:        ko.MaxIter,
			TimeStep:       ko.TimeStep,
		},
		Huggett: &HuggettConfig{
			Gamma:   hp.Gamma,
			Rho:     hp.Rho,
			Rate:    hp.Rate,
			AMin:    hp.AMin,
			AMax:    hp.AMax,
			Points:  hp.Points,
			Incomes: hp.Incomes,
			Switch:  hp.Switch,
		},
	}
}

// Load reads and parses a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return Parse(data)
}

// Parse unmarshals a YAML document over the defaults and validates the
// result. Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := unmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func unmarshalStrict(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && err != io.EOF {
		return err
	}
	// io.EOF means an empty document, which keeps the defaults.
	return nil
}

// Validate checks the cross-field consistency the YAML schema cannot
// express. Parameter-level validation is left to the model
// constructors.
func (c *Config) Validate() error {
	switch c.Model {
	case "huggett":
		if c.Huggett == nil {
			return fmt.Errorf("%w: model %q without a huggett block", ErrInvalid, c.Model)
		}
	case "twoasset":
		if c.TwoAsset == nil {
			return fmt.Errorf("%w: model %q without a twoasset block", ErrInvalid, c.Model)
		}
	default:
		return fmt.Errorf("%w: unknown model %q", ErrInvalid, c.Model)
	}
	if _, err := c.StationaryOptions(); err != nil {
		return err
	}
	if c.Solver.Delta <= 0 || c.Solver.Tol <= 0 || c.Solver.MaxIter < 1 {
		return fmt.Errorf("%w: solver {delta=%g tol=%g max_iter=%d}",
			ErrInvalid, c.Solver.Delta, c.Solver.Tol, c.Solver.MaxIter)
	}
	return nil
}

// BuildModel constructs the configured model.
func (c *Config) BuildModel() (hjb.Model, error) {
	switch c.Model {
	case "huggett":
		h := c.Huggett
		return huggett.NewModel(huggett.Params{
			Gamma:   h.Gamma,
			Rho:     h.Rho,
			Rate:    h.Rate,
			AMin:    h.AMin,
			AMax:    h.AMax,
			Points:  h.Points,
			Incomes: h.Incomes,
			Switch:  h.Switch,
		})
	case "twoasset":
		w := c.TwoAsset
		return twoasset.NewModel(twoasset.Params{
			Gamma:     w.Gamma,
			Rho:       w.Rho,
			RLiquid:   w.RLiquid,
			RIlliquid: w.RIlliquid,
			Wage:      w.Wage,
			Incomes:   w.Incomes,
			Switch:    w.Switch,
			Chi0:      w.Chi0,
			Chi1:      w.Chi1,
			AFloor:    w.AFloor,
			BMax:      w.BMax,
			AMax:      w.AMax,
			BPoints:   w.BPoints,
			APoints:   w.APoints,
		})
	default:
		return nil, fmt.Errorf("%w: unknown model %q", ErrInvalid, c.Model)
	}
}

// SolverOptions maps the solver block to hjb.Options.
func (c *Config) SolverOptions() hjb.Options {
	return hjb.Options{
		Delta:   c.Solver.Delta,
		Tol:     c.Solver.Tol,
		MaxIter: c.Solver.MaxIter,
	}
}

// StationaryOptions maps the stationary block to kfe.Options.
func (c *Config) StationaryOptions() (kfe.Options, error) {
	opts := kfe.DefaultOptions()
	switch c.Stationary.Strategy {
	case "direct":
		opts.Strategy = kfe.Direct
	case "death":
		opts.Strategy = kfe.Death
	case "eigen":
		opts.Strategy = kfe.Eigen
	case "iterative":
		opts.Strategy = kfe.Iterative
	default:
		return opts, fmt.Errorf("%w: unknown stationary strategy %q", ErrInvalid, c.Stationary.Strategy)
	}
	opts.Pin = c.Stationary.Pin
	opts.Regularization = c.Stationary.Regularization
	opts.DeathRate = c.Stationary.DeathRate
	opts.Tol = c.Stationary.Tol
	opts.MaxIter = c.Stationary.MaxIter
	opts.TimeStep = c.Stationary.TimeStep
	return opts, nil
}
