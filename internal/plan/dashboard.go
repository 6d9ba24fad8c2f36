package plan

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// GenericHeading is shown when the response does not name a brand.
const GenericHeading = "Plan Summary"

// Tone classifies a decision for styling.
type Tone string

const (
	ToneOK    Tone = "ok"
	ToneWarn  Tone = "warn"
	ToneMuted Tone = "muted"
)

const (
	DecisionReuse   = "reuse"
	DecisionRecycle = "recycle"
)

// Dashboard is the display-ready summary of a decision response.
type Dashboard struct {
	Vehicle        VehicleStrip   `json:"vehicle"`
	KPIs           KPIs           `json:"kpis"`
	ShowMandatory  bool           `json:"show_mandatory"`
	MandatorySteps []string       `json:"mandatory_steps"`
	Components     []ComponentRow `json:"components"`
	ShowSkipped    bool           `json:"show_skipped"`
	Skipped        []SkippedRow   `json:"skipped"`
}

// VehicleStrip is the heading block of the dashboard.
type VehicleStrip struct {
	Heading     string `json:"heading"`
	Brand       string `json:"brand,omitempty"`
	Model       string `json:"model,omitempty"`
	LogoPath    string `json:"logo_path,omitempty"`
	DefaultLogo string `json:"default_logo"`
	Year        int    `json:"year,omitempty"`
	VehicleType string `json:"vehicle_type,omitempty"`
	Odometer    string `json:"odometer,omitempty"`
}

// KPIs are the headline figures of a plan.
type KPIs struct {
	UsedPct           int     `json:"used_pct"`
	UsedPctLabel      string  `json:"used_pct_label"`
	TimeBudgetMin     float64 `json:"time_budget_min"`
	ExpectedProfitEUR float64 `json:"expected_profit_eur"`
	ExpectedProfit    string  `json:"expected_profit"`
	ReuseProfit       string  `json:"reuse_profit,omitempty"`
	RecycleProfit     string  `json:"recycle_profit,omitempty"`
	CO2SavedKg        float64 `json:"co2_saved_kg"`
	CO2Saved          string  `json:"co2_saved"`
	TotalTimeMin      float64 `json:"total_time_min"`
	TotalTime         string  `json:"total_time"`
}

// ComponentRow is one entry of the selected order.
type ComponentRow struct {
	Component     string  `json:"component"`
	Name          string  `json:"name"`
	Decision      string  `json:"decision"`
	DecisionLabel string  `json:"decision_label"`
	Tone          Tone    `json:"tone"`
	TimeMin       float64 `json:"time_min"`
	Time          string  `json:"time"`
	SuccessPct    int     `json:"success_pct"`
	Success       string  `json:"success"`
	ProfitEUR     float64 `json:"profit_eur"`
	Profit        string  `json:"profit"`
	CO2SavedKg    float64 `json:"co2_saved_kg"`
	CO2Saved      string  `json:"co2_saved"`
}

// SkippedRow is one skipped component with its reason.
type SkippedRow struct {
	Component string `json:"component"`
	Name      string `json:"name"`
	Reason    string `json:"reason"`
}

var odometerPrinter = message.NewPrinter(language.English)

// Present derives every display value from a decision response. It is a pure
// function of r.
func Present(r Response) Dashboard {
	n := Normalize(r)

	steps := MandatorySteps(n)
	skipped := ListSkipped(n)
	rows := make([]ComponentRow, 0, len(n.SelectedOrder))
	for _, item := range n.SelectedOrder {
		rows = append(rows, componentRow(item))
	}

	return Dashboard{
		Vehicle:        vehicleStrip(*n.Vehicle),
		KPIs:           kpis(n),
		ShowMandatory:  len(steps) > 0,
		MandatorySteps: steps,
		Components:     rows,
		ShowSkipped:    len(skipped) > 0,
		Skipped:        skipped,
	}
}

func vehicleStrip(v Vehicle) VehicleStrip {
	strip := VehicleStrip{Heading: GenericHeading, DefaultLogo: DefaultLogo}
	if v.Brand != nil {
		strip.Brand = *v.Brand
		strip.Heading = *v.Brand
		strip.LogoPath = LogoPath(*v.Brand)
	}
	if v.Model != nil {
		strip.Model = *v.Model
	}
	if v.Year != nil {
		strip.Year = *v.Year
	}
	if v.VehicleType != nil {
		strip.VehicleType = strings.TrimSpace(*v.VehicleType)
	}
	if v.OdometerKm != nil {
		strip.Odometer = FormatKm(*v.OdometerKm)
	}
	return strip
}

func kpis(n Response) KPIs {
	used := UsedPct(n)
	timeMin := value(n.Totals.TimeMin)
	budget := timeMin
	if b := n.UI.TimeBudgetMin; b != nil && *b > 0 {
		budget = *b
	}
	profit := value(n.Totals.ExpectedProfitEUR)
	co2 := TotalCO2(n)

	k := KPIs{
		UsedPct:           used,
		UsedPctLabel:      strconv.Itoa(used) + "%",
		TimeBudgetMin:     budget,
		ExpectedProfitEUR: profit,
		ExpectedProfit:    FormatEUR(profit),
		CO2SavedKg:        co2,
		CO2Saved:          FormatKg(co2),
		TotalTimeMin:      timeMin,
		TotalTime:         FormatMinutes(timeMin),
	}
	if n.Totals.ReuseProfitEUR != nil {
		k.ReuseProfit = FormatEUR(*n.Totals.ReuseProfitEUR)
	}
	if n.Totals.RecycleProfitEUR != nil {
		k.RecycleProfit = FormatEUR(*n.Totals.RecycleProfitEUR)
	}
	return k
}

func componentRow(item ComponentDecision) ComponentRow {
	timeMin := value(item.PredTimeMin)
	success := SuccessPct(item)
	profit := ResolveProfit(item)
	co2 := value(item.CO2SavedKg)

	label := item.Decision
	if label == "" {
		label = "—"
	}

	return ComponentRow{
		Component:     item.Component,
		Name:          ComponentName(item.Component),
		Decision:      item.Decision,
		DecisionLabel: label,
		Tone:          ToneFor(item.Decision),
		TimeMin:       timeMin,
		Time:          FormatMinutes(timeMin),
		SuccessPct:    success,
		Success:       strconv.Itoa(success) + "%",
		ProfitEUR:     profit,
		Profit:        FormatEUR(profit),
		CO2SavedKg:    co2,
		CO2Saved:      FormatKg(co2),
	}
}

// ToneFor maps a decision onto its status tone; anything but reuse or recycle is muted.
func ToneFor(decision string) Tone {
	switch decision {
	case DecisionReuse:
		return ToneOK
	case DecisionRecycle:
		return ToneWarn
	default:
		return ToneMuted
	}
}

// FormatEUR renders an amount as "€5.60" or "€-3.20".
func FormatEUR(v float64) string {
	return "€" + Fixed2(v)
}

// FormatKg renders a mass as "1.70 kg".
func FormatKg(v float64) string {
	return Fixed2(v) + " kg"
}

// FormatMinutes renders a duration as "13.50 min".
func FormatMinutes(v float64) string {
	return Fixed2(v) + " min"
}

// FormatKm renders an odometer reading with digit grouping, e.g. "123,456 km".
func FormatKm(v float64) string {
	return odometerPrinter.Sprint(number.Decimal(v, number.MaxFractionDigits(3))) + " km"
}
