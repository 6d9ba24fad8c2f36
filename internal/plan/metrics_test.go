package plan

import "testing"

func ptr(v float64) *float64 { return &v }

func TestUsedPct(t *testing.T) {
	tests := []struct {
		name     string
		timeMin  *float64
		budget   *float64
		expected int
	}{
		{"overrun clamps", ptr(90.08), ptr(90), 100},
		{"budget absent falls back to time", ptr(45), nil, 100},
		{"zero time zero budget", ptr(0), ptr(0), 0},
		{"zero budget falls back to time", ptr(30), ptr(0), 100},
		{"half used", ptr(45), ptr(90), 50},
		{"rounds half up", ptr(1), ptr(200), 1},
		{"rounds down", ptr(1), ptr(300), 0},
		{"negative budget ignored", ptr(20), ptr(-5), 100},
		{"negative time clamps", ptr(-10), ptr(90), 0},
		{"no totals", nil, ptr(90), 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := Response{Totals: &Totals{TimeMin: tc.timeMin}, UI: &UI{TimeBudgetMin: tc.budget}}
			got := UsedPct(r)
			if got != tc.expected {
				t.Fatalf("expected %d got %d", tc.expected, got)
			}
			if got < 0 || got > 100 {
				t.Fatalf("used pct %d out of range", got)
			}
		})
	}
}

func TestUsedPctWithoutBlocks(t *testing.T) {
	if got := UsedPct(Response{}); got != 0 {
		t.Fatalf("expected 0 got %d", got)
	}
}

func TestTotalCO2(t *testing.T) {
	items := []ComponentDecision{
		{Component: "battery", CO2SavedKg: ptr(1.2)},
		{Component: "headlight"},
		{Component: "mirror_side", CO2SavedKg: ptr(0.5)},
	}

	t.Run("sums selected when totals lack co2", func(t *testing.T) {
		r := Response{SelectedOrder: items, Totals: &Totals{TimeMin: ptr(10)}}
		if got := Fixed2(TotalCO2(r)); got != "1.70" {
			t.Fatalf("expected 1.70 got %s", got)
		}
	})

	t.Run("prefers totals", func(t *testing.T) {
		r := Response{SelectedOrder: items, Totals: &Totals{CO2SavedKg: ptr(9.99)}}
		if got := TotalCO2(r); got != 9.99 {
			t.Fatalf("expected 9.99 got %v", got)
		}
	})

	t.Run("totals zero is still preferred", func(t *testing.T) {
		r := Response{SelectedOrder: items, Totals: &Totals{CO2SavedKg: ptr(0)}}
		if got := TotalCO2(r); got != 0 {
			t.Fatalf("expected 0 got %v", got)
		}
	})

	t.Run("empty plan", func(t *testing.T) {
		if got := TotalCO2(Response{}); got != 0 {
			t.Fatalf("expected 0 got %v", got)
		}
	})
}

func TestResolveProfit(t *testing.T) {
	tests := []struct {
		name     string
		item     ComponentDecision
		expected string
	}{
		{"reuse only", ComponentDecision{ReuseProfitEUR: ptr(5.6)}, "5.60"},
		{"negative candidates", ComponentDecision{RecycleProfitEUR: ptr(-2.0), ExpectedProfitEUR: ptr(-3.0)}, "-2.00"},
		{"single negative beats missing", ComponentDecision{ExpectedProfitEUR: ptr(-3.2)}, "-3.20"},
		{"max of three", ComponentDecision{ReuseProfitEUR: ptr(1), RecycleProfitEUR: ptr(7.37), ExpectedProfitEUR: ptr(2)}, "7.37"},
		{"none present", ComponentDecision{}, "0.00"},
		{"zero present", ComponentDecision{RecycleProfitEUR: ptr(0)}, "0.00"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Fixed2(ResolveProfit(tc.item))
			if got != tc.expected {
				t.Fatalf("expected %s got %s", tc.expected, got)
			}
		})
	}
}

func TestSuccessPct(t *testing.T) {
	tests := []struct {
		prob     *float64
		expected int
	}{
		{ptr(0.43), 43},
		{ptr(0.195), 20},
		{ptr(1), 100},
		{ptr(1.7), 100},
		{ptr(-0.2), 0},
		{nil, 0},
	}
	for _, tc := range tests {
		if got := SuccessPct(ComponentDecision{SuccessProb: tc.prob}); got != tc.expected {
			t.Fatalf("expected %d got %d", tc.expected, got)
		}
	}
}
