package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/epidemic-sim/epidemic-sim/sim"
	"github.com/epidemic-sim/epidemic-sim/sim/compartmental"
	"github.com/epidemic-sim/epidemic-sim/sim/report"
)

// sirCmd runs the deterministic compartmental reference model on the same
// configuration document as the stochastic engine.
var sirCmd = &cobra.Command{
	Use:   "sir <config>",
	Short: "Run the deterministic compartmental (SEIR) reference model",
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

		model, err := compartmental.FromParameters(&params)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Infof("Compartmental model: beta=%.4f sigma=%.4f gamma=%.4f cfr=%.4f",
			model.Beta, model.Sigma, model.Gamma, model.CFR)

		if err := report.WriteFile(output, model.Run()); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(sirCmd)
}
