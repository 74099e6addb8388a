// Command hjbsolve solves a configured model to convergence and prints
// a summary of the value function and the stationary distribution.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/greimel/hjbflow/calibration"
	"github.com/greimel/hjbflow/hjb"
	"github.com/greimel/hjbflow/kfe"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "hjbsolve",
		Short: "Implicit finite-difference solver for continuous-time models",
		Long: `hjbsolve solves heterogeneous-agent control problems on a state grid:
the value function by an implicit upwind fixed point, and the implied
stationary distribution from the resolved Markov generator.

Models and tuning are read from a YAML configuration file; every flag
overrides its configured counterpart.`,
	}

	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")

	rootCmd.AddCommand(
		newVersionCmd(),
		newSolveCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]string{"version": version})
			} else {
				fmt.Printf("hjbsolve version %s\n", version)
			}
		},
	}
}

// summary is the output of one full solve, shaped for both renderings.
type summary struct {
	Model       string    `json:"model"`
	States      int       `json:"states"`
	Iterations  int       `json:"iterations"`
	Residual    float64   `json:"residual"`
	ValueMin    float64   `json:"value_min"`
	ValueMax    float64   `json:"value_max"`
	Strategy    string    `json:"strategy,omitempty"`
	Mass        float64   `json:"mass,omitempty"`
	Warnings    []string  `json:"warnings,omitempty"`
	AuxAverages []auxPair `json:"aux_averages,omitempty"`
}

type auxPair struct {
	Name string  `json:"name"`
	Mean float64 `json:"mean"`
}

func newSolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve the configured model and its stationary distribution",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := loadConfig(cmd, path)
			if err != nil {
				return err
			}
			out, err := runSolve(cfg)
			if out != nil {
				// A budget overrun still produced partial numbers
				// worth inspecting before the error.
				if jsonOut {
					if encErr := json.NewEncoder(os.Stdout).Encode(out); encErr != nil {
						return encErr
					}
				} else {
					printSummary(out)
				}
			}
			return err
		},
	}
	cmd.Flags().String("config", "", "Path to the YAML configuration (defaults apply when empty)")
	cmd.Flags().Float64("delta", 0, "Override the implicit step size")
	cmd.Flags().Float64("tol", 0, "Override the convergence tolerance")
	cmd.Flags().Int("max-iter", 0, "Override the iteration budget")
	cmd.Flags().String("strategy", "", "Override the stationary strategy (direct|death|eigen|iterative)")
	return cmd
}

// loadConfig reads the configured document and layers the flag
// overrides on top, re-validating the result.
func loadConfig(cmd *cobra.Command, path string) (*calibration.Config, error) {
	var cfg *calibration.Config
	var err error
	if path == "" {
		cfg, err = calibration.Parse(nil)
	} else {
		cfg, err = calibration.Load(path)
	}
	if err != nil {
		return nil, err
	}

	if v, _ := cmd.Flags().GetFloat64("delta"); v > 0 {
		cfg.Solver.Delta = v
	}
	if v, _ := cmd.Flags().GetFloat64("tol"); v > 0 {
		cfg.Solver.Tol = v
	}
	if v, _ := cmd.Flags().GetInt("max-iter"); v > 0 {
		cfg.Solver.MaxIter = v
	}
	if v, _ := cmd.Flags().GetString("strategy"); v != "" {
		cfg.Stationary.Strategy = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSolve(cfg *calibration.Config) (*summary, error) {
	model, err := cfg.BuildModel()
	if err != nil {
		return nil, err
	}
	g := model.Grid()

	res, err := hjb.Solve(model, make([]float64, g.Size()), cfg.SolverOptions())
	if err != nil && !errors.Is(err, hjb.ErrNoConvergence) {
		return nil, err
	}

	out := &summary{
		Model:      cfg.Model,
		States:     g.Size(),
		Iterations: res.Iterations,
	}
	if len(res.Residuals) > 0 {
		out.Residual = res.Residuals[len(res.Residuals)-1]
	}
	out.ValueMin, out.ValueMax = math.Inf(1), math.Inf(-1)
	for _, v := range res.V {
		out.ValueMin = math.Min(out.ValueMin, v)
		out.ValueMax = math.Max(out.ValueMax, v)
	}

	// An exhausted budget leaves no generator or policy arrays; the
	// partial value numbers above are everything there is to report.
	if err != nil {
		return out, err
	}

	kopts, err := cfg.StationaryOptions()
	if err != nil {
		return nil, err
	}
	dist, err := kfe.Stationary(res.Generator, g, kopts)
	if err != nil {
		return nil, err
	}
	out.Strategy = dist.Strategy.String()
	out.Warnings = dist.Warnings

	probs := dist.Probabilities()
	for _, p := range probs {
		out.Mass += p
	}
	for _, name := range model.AuxNames() {
		mean := 0.0
		for flat, p := range probs {
			mean += p * res.Aux[name][flat]
		}
		out.AuxAverages = append(out.AuxAverages, auxPair{Name: name, Mean: mean})
	}
	return out, nil
}

func printSummary(s *summary) {
	fmt.Printf("model:       %s (%d states)\n", s.Model, s.States)
	fmt.Printf("iterations:  %d (residual %.3g)\n", s.Iterations, s.Residual)
	fmt.Printf("value range: [%.6g, %.6g]\n", s.ValueMin, s.ValueMax)
	if s.Strategy != "" {
		fmt.Printf("stationary:  %s (mass %.6f)\n", s.Strategy, s.Mass)
	}
	for _, a := range s.AuxAverages {
		fmt.Printf("  mean %-12s %.6g\n", a.Name, a.Mean)
	}
	for _, w := range s.Warnings {
		fmt.Printf("warning: %s\n", w)
	}
}
