package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"vehicle-dismantling/backend/internal/plan"
	"vehicle-dismantling/backend/internal/render"
)

var renderJSON bool

// renderCmd presents a decision response read from a file or stdin.
var renderCmd = &cobra.Command{
	Use:   "render [file|-]",
	Short: "Present a decision response",
	Long: `Read a decision service response and print its dashboard.

With no argument, or "-", the response is read from stdin. An empty input
prints the empty-state message.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().BoolVar(&renderJSON, "json", false, "Print the dashboard view model as JSON")
}

func runRender(cmd *cobra.Command, args []string) error {
	in := cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open response: %w", err)
		}
		defer f.Close()
		in = f
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return render.Empty(cmd.OutOrStdout())
	}

	resp, err := plan.Decode(data)
	if err != nil {
		return err
	}
	return writeDashboard(cmd.OutOrStdout(), plan.Present(resp), renderJSON)
}

func writeDashboard(w io.Writer, d plan.Dashboard, asJSON bool) error {
	if !asJSON {
		return render.Dashboard(w, d)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}
