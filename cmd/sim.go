package cmd

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/epidemic-sim/epidemic-sim/sim"
	"github.com/epidemic-sim/epidemic-sim/sim/report"
)

var (
	// CLI flags for the stochastic engine
	workers        int     // Day-step worker pool size (0 = one per CPU)
	calibrate      bool    // Fit free parameters against the target epicurve first
	replicates     int     // Stochastic runs averaged per calibration evaluation
	calibrationCap int     // Max coordinate-descent sweeps
	calibrationTol float64 // Relative improvement below which calibration stops
)

// simCmd runs the agent-based stochastic engine, optionally calibrated
// against the configured target epicurve.
var simCmd = &cobra.Command{
	Use:   "sim <config>",
	Short: "Run the stochastic agent-based simulation",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := sim.LoadConfig(args[0])
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		setupLogging(cfg.Verbose)

		params, err := cfg.Parameters()
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		startTime := time.Now()

		if calibrate {
			opts := sim.DefaultCalibrationOptions()
			opts.Replicates = replicates
			opts.MaxIters = calibrationCap
			opts.Tolerance = calibrationTol
			opts.Workers = workers

			cal := sim.NewCalibrator(params, seed, opts)
			result, err := cal.Run(sim.Candidate{
				ProbInfection:     params.ProbInfection,
				InitialInfections: params.InitialInfections,
			})
			if err != nil {
				logrus.Fatalf("calibration: %v", err)
			}
			logrus.Infof("Calibration: prob_infection=%.4f initial_infections=%d residual=%.3f converged=%v (%d evaluations)",
				result.Best.ProbInfection, result.Best.InitialInfections,
				result.Residual, result.Converged, result.Evaluations)
			params.ProbInfection = result.Best.ProbInfection
			params.InitialInfections = result.Best.InitialInfections
		}

		res, err := sim.Simulate(&params, seed, workers)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		res.Summary.Log()

		if err := report.WriteFile(output, res.Curve.Records()); err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Infof("Simulation complete in %s.", time.Since(startTime))
	},
}

// init sets up simulation CLI flags
func init() {
	simCmd.Flags().IntVar(&workers, "workers", 0, "Worker pool size for the day step (0 = one per CPU)")
	simCmd.Flags().BoolVar(&calibrate, "calibrate", false, "Calibrate free parameters against the target epicurve before the final run")
	simCmd.Flags().IntVar(&replicates, "replicates", 5, "Replicate runs averaged per calibration evaluation")
	simCmd.Flags().IntVar(&calibrationCap, "max-calibration-iters", 25, "Calibration sweep budget")
	simCmd.Flags().Float64Var(&calibrationTol, "calibration-tolerance", 1e-3, "Relative improvement below which calibration stops")

	rootCmd.AddCommand(simCmd)
}
