package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"vehicle-dismantling/backend/internal/decision"
	"vehicle-dismantling/backend/internal/intake"
	"vehicle-dismantling/backend/internal/plan"
)

var (
	submitReq  intake.Request
	submitJSON bool
	pingText   string
)

// submitCmd sends an intake straight to the decision service.
var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Request a plan from the decision service",
	Long: `Validate an intake built from flags, post it to the decision service and
print the resulting dashboard. Validation failures list every invalid field.`,
	Args: cobra.NoArgs,
	RunE: runSubmit,
}

// pingCmd probes the decision service test endpoint.
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Probe the decision service",
	Args:  cobra.NoArgs,
	RunE:  runPing,
}

func init() {
	f := submitCmd.Flags()
	f.StringVar(&submitReq.Brand, "brand", "", "Vehicle brand")
	f.IntVar(&submitReq.Year, "year", 0, "Model year")
	f.IntVar(&submitReq.Odometer, "odometer", 0, "Odometer reading in km")
	f.StringVar(&submitReq.VehicleType, "type", intake.TypeCombustion, "Vehicle type (combustion, ev, hybrid)")
	f.StringVar(&submitReq.AccidentZone, "zone", intake.ZoneNone, "Accident zone (none, front, rear, side)")
	f.IntVar(&submitReq.GradeOfRust, "rust", 0, "Grade of rust, 0-5")
	f.IntVar(&submitReq.Severity, "severity", 0, "Severity of accident, 0-5")
	f.BoolVar(&submitReq.IsFlooded, "flooded", false, "Vehicle was flooded")
	f.IntVar(&submitReq.TimeBudget, "budget", 60, "Time budget in minutes")
	f.BoolVar(&submitJSON, "json", false, "Print the dashboard view model as JSON")

	pingCmd.Flags().StringVar(&pingText, "text", "ping", "Text sent to the test endpoint")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	prepared, err := intake.Prepare(submitReq)
	if err != nil {
		return err
	}

	client := decision.NewClient(cfg.Decision)
	result, err := client.Submit(contextOf(cmd), prepared)
	if err != nil {
		return err
	}
	logrus.WithField("duration", result.Duration).Debug("plan received")
	return writeDashboard(cmd.OutOrStdout(), plan.Present(result.Response), submitJSON)
}

func runPing(cmd *cobra.Command, args []string) error {
	client := decision.NewClient(cfg.Decision)
	ack, err := client.TestConnection(contextOf(cmd), strings.TrimSpace(pingText))
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(ack, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ack: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
