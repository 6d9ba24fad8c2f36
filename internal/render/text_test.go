package render

import (
	"bytes"
	"strings"
	"testing"

	"vehicle-dismantling/backend/internal/plan"
)

func present(t *testing.T, payload string) plan.Dashboard {
	t.Helper()
	r, err := plan.Decode([]byte(payload))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return plan.Present(r)
}

func TestDashboardRendersSections(t *testing.T) {
	d := present(t, `{
	  "vehicle": {"brand": "Toyota", "year": 2010, "vehicletype": "hybrid", "odometer_km": 210500},
	  "mandatory_first": ["isolate_12v_battery", "pull_hv_service_disconnect"],
	  "selected_order": [{"component": "seat_front", "pred_time_min": 29.59, "success_prob": 0.5, "expected_profit_eur": 7.37, "decision": "reuse"}],
	  "skipped": {"door_rear": "negative expected profit"},
	  "totals": {"time_min": 29.59, "expected_profit_eur": 7.37},
	  "ui": {"time_budget_min": 60}
	}`)

	var buf bytes.Buffer
	if err := Dashboard(&buf, d); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Toyota • 2010",
		"[hybrid] [210,500 km]",
		"49%",
		"€7.37",
		"Mandatory Initial Steps",
		"1. Isolate 12v battery",
		"2. Pull hv service disconnect",
		"seat front",
		"reuse",
		"29.59 min",
		"50%",
		"Skipped Components",
		"door rear — negative expected profit",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDashboardOmitsOptionalSections(t *testing.T) {
	var buf bytes.Buffer
	if err := Dashboard(&buf, present(t, `{"skipped": {}}`)); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, plan.GenericHeading) {
		t.Fatalf("expected generic heading:\n%s", out)
	}
	for _, unwanted := range []string{"Mandatory Initial Steps", "Skipped Components", "•"} {
		if strings.Contains(out, unwanted) {
			t.Fatalf("output should not contain %q:\n%s", unwanted, out)
		}
	}
}

func TestEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Empty(&buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.TrimSpace(buf.String()) != EmptyMessage {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
