// Command planview renders dismantling plans in the terminal and talks to the
// decision service directly.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"vehicle-dismantling/backend/internal/config"
)

var (
	verbose bool
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "planview",
	Short: "Inspect vehicle dismantling plans",
	Long: `planview presents decision service responses as a terminal dashboard.

Available subcommands:
  render - Present a stored or piped decision response
  submit - Send an intake to the decision service and present the plan
  ping   - Probe the decision service test endpoint`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		logrus.SetLevel(cfg.LogLevel)
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
		logrus.SetOutput(cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.AddCommand(renderCmd, submitCmd, pingCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
