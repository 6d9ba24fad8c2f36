package plan

import "strings"

// Normalize returns a copy of r with every optional block filled in, so callers
// can dereference Vehicle, Totals and UI without nil checks. Slices are copied;
// r itself is never modified. Skipped stays nil when it was absent.
func Normalize(r Response) Response {
	out := Response{
		Vehicle:        &Vehicle{},
		MandatoryFirst: append([]string{}, r.MandatoryFirst...),
		SelectedOrder:  append([]ComponentDecision{}, r.SelectedOrder...),
		Totals:         &Totals{},
		UI:             &UI{},
	}
	if r.Skipped != nil {
		out.Skipped = append([]SkippedEntry{}, r.Skipped...)
	}
	if r.Vehicle != nil {
		v := *r.Vehicle
		if v.Brand != nil && strings.TrimSpace(*v.Brand) == "" {
			v.Brand = nil
		}
		out.Vehicle = &v
	}
	if r.Totals != nil {
		t := *r.Totals
		out.Totals = &t
	}
	if r.UI != nil {
		u := *r.UI
		out.UI = &u
	}
	return out
}

// MandatorySteps returns the cleaned labels of the required preliminary steps.
func MandatorySteps(r Response) []string {
	steps := make([]string, 0, len(r.MandatoryFirst))
	for _, s := range r.MandatoryFirst {
		steps = append(steps, CleanStep(s))
	}
	return steps
}

// ListSkipped returns display rows for the skipped mapping in document order.
func ListSkipped(r Response) []SkippedRow {
	rows := make([]SkippedRow, 0, len(r.Skipped))
	for _, entry := range r.Skipped {
		rows = append(rows, SkippedRow{
			Component: entry.Component,
			Name:      ComponentName(entry.Component),
			Reason:    entry.Reason,
		})
	}
	return rows
}
