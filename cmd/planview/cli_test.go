package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"vehicle-dismantling/backend/internal/intake"
	"vehicle-dismantling/backend/internal/render"
)

const response = `{
  "vehicle": {"brand": "Volkswagen", "year": 2015, "vehicletype": "combustion"},
  "selected_order": [{"component": "alternator", "pred_time_min": 12, "success_prob": 0.8, "reuse_profit_eur": 40, "decision": "reuse"}],
  "totals": {"time_min": 12, "expected_profit_eur": 32},
  "ui": {"time_budget_min": 60}
}`

func TestRenderFromStdin(t *testing.T) {
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(response))
	cmd.SetOut(&out)

	if err := runRender(cmd, nil); err != nil {
		t.Fatalf("runRender failed: %v", err)
	}
	for _, want := range []string{"Volkswagen • 2015", "[combustion]", "alternator", "20%"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRenderFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	if err := os.WriteFile(path, []byte(response), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)

	renderJSON = true
	defer func() { renderJSON = false }()
	if err := runRender(cmd, []string{path}); err != nil {
		t.Fatalf("runRender failed: %v", err)
	}
	if !strings.Contains(out.String(), `"used_pct": 20`) {
		t.Errorf("expected JSON view model:\n%s", out.String())
	}
}

func TestRenderEmptyInput(t *testing.T) {
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader("  \n"))
	cmd.SetOut(&out)

	if err := runRender(cmd, []string{"-"}); err != nil {
		t.Fatalf("runRender failed: %v", err)
	}
	if strings.TrimSpace(out.String()) != render.EmptyMessage {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestRenderRejectsNonObject(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader(`["not", "a", "plan"]`))
	cmd.SetOut(&bytes.Buffer{})
	if err := runRender(cmd, nil); err == nil {
		t.Error("expected error for non-object response")
	}
}

func TestSubmitValidatesBeforeSending(t *testing.T) {
	submitReq = intake.Request{Brand: "", Year: 2015, Odometer: 1000, VehicleType: "ev", AccidentZone: "none", TimeBudget: 60}
	defer func() { submitReq = intake.Request{} }()

	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})
	err := runSubmit(cmd, nil)
	var verr *intake.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error got %v", err)
	}
	if verr.First().Field != "brand" {
		t.Errorf("expected brand focus got %+v", verr.First())
	}
}
