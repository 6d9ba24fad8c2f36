package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"vehicle-dismantling/backend/internal/plan"
)

// EmptyMessage is printed when no plan has been received.
const EmptyMessage = "No data received yet."

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	sectionStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	labelStyle   = lipgloss.NewStyle().Faint(true)
	alertStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ef8354"))

	toneStyles = map[plan.Tone]lipgloss.Style{
		plan.ToneOK:    lipgloss.NewStyle().Foreground(lipgloss.Color("#2e9e5b")),
		plan.ToneWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("#d9a400")),
		plan.ToneMuted: lipgloss.NewStyle().Faint(true),
	}
)

// Dashboard writes a plain-terminal rendition of d to w.
func Dashboard(w io.Writer, d plan.Dashboard) error {
	var b strings.Builder

	heading := d.Vehicle.Heading
	if d.Vehicle.Year != 0 {
		heading += fmt.Sprintf(" • %d", d.Vehicle.Year)
	}
	b.WriteString(titleStyle.Render(heading))
	b.WriteString("\n")

	var badges []string
	if d.Vehicle.VehicleType != "" {
		badges = append(badges, "["+d.Vehicle.VehicleType+"]")
	}
	if d.Vehicle.Odometer != "" {
		badges = append(badges, "["+d.Vehicle.Odometer+"]")
	}
	if len(badges) > 0 {
		b.WriteString(strings.Join(badges, " "))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	kpi(&b, "Time used", d.KPIs.UsedPctLabel)
	kpi(&b, "Expected Profit", d.KPIs.ExpectedProfit)
	kpi(&b, "CO₂ Saved", d.KPIs.CO2Saved)
	kpi(&b, "Total Time", d.KPIs.TotalTime)

	if d.ShowMandatory {
		b.WriteString("\n")
		b.WriteString(alertStyle.Render("Mandatory Initial Steps ⚠"))
		b.WriteString("\n")
		for i, step := range d.MandatorySteps {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, step)
		}
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Selected Components"))
	b.WriteString("\n")
	for _, row := range d.Components {
		style, ok := toneStyles[row.Tone]
		if !ok {
			style = toneStyles[plan.ToneMuted]
		}
		fmt.Fprintf(&b, "  %s  %s\n", row.Name, style.Render(row.DecisionLabel))
		fmt.Fprintf(&b, "    %s %s  %s %s  %s %s  %s %s\n",
			labelStyle.Render("Time"), row.Time,
			labelStyle.Render("Success"), row.Success,
			labelStyle.Render("Profit"), row.Profit,
			labelStyle.Render("CO₂ Saved"), row.CO2Saved,
		)
	}

	if d.ShowSkipped {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render("Skipped Components"))
		b.WriteString("\n")
		for _, row := range d.Skipped {
			fmt.Fprintf(&b, "  %s — %s\n", row.Name, row.Reason)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Empty writes the placeholder shown before any plan arrives.
func Empty(w io.Writer) error {
	_, err := fmt.Fprintln(w, EmptyMessage)
	return err
}

func kpi(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "%s %s\n", labelStyle.Render(label+":"), value)
}
