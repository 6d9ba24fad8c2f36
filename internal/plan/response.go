package plan

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrNotObject is returned when a decision payload is not a JSON object.
var ErrNotObject = errors.New("decision response is not a json object")

// Vehicle carries the descriptive vehicle block echoed by the decision service.
type Vehicle struct {
	Brand       *string
	Model       *string
	Year        *int
	VehicleType *string
	OdometerKm  *float64
}

// ComponentDecision is one planned action in execution order.
type ComponentDecision struct {
	Component         string
	Decision          string
	PredTimeMin       *float64
	SuccessProb       *float64
	ReuseProfitEUR    *float64
	RecycleProfitEUR  *float64
	ExpectedProfitEUR *float64
	CO2SavedKg        *float64
}

// SkippedEntry pairs a skipped component with the reason it was left out.
type SkippedEntry struct {
	Component string
	Reason    string
}

// Totals holds the aggregate figures of a plan.
type Totals struct {
	TimeMin           *float64
	ExpectedProfitEUR *float64
	CO2SavedKg        *float64
	ReuseProfitEUR    *float64
	RecycleProfitEUR  *float64
}

// UI holds presentation hints supplied by the decision service.
type UI struct {
	TimeBudgetMin *float64
}

// Response is a decoded decision service payload. Optional blocks are nil when
// absent or malformed. Skipped is nil when the key is absent and non-nil (possibly
// empty) when it was supplied as an object.
type Response struct {
	Vehicle        *Vehicle
	MandatoryFirst []string
	SelectedOrder  []ComponentDecision
	Skipped        []SkippedEntry
	Totals         *Totals
	UI             *UI
}

// Decode parses a decision payload leniently: the document has to be a JSON
// object, but any field with an unexpected type is treated as absent.
func Decode(data []byte) (Response, error) {
	fields, err := decodeObject(data)
	if err != nil {
		return Response{}, err
	}

	var resp Response
	if raw, ok := fields["vehicle"]; ok {
		resp.Vehicle = decodeVehicle(raw)
	}
	if raw, ok := fields["mandatory_first"]; ok {
		resp.MandatoryFirst = decodeSteps(raw)
	}
	if raw, ok := fields["selected_order"]; ok {
		resp.SelectedOrder = decodeSelected(raw)
	}
	if raw, ok := fields["skipped"]; ok {
		resp.Skipped = decodeSkipped(raw)
	}
	if raw, ok := fields["totals"]; ok {
		resp.Totals = decodeTotals(raw)
	}
	if raw, ok := fields["ui"]; ok {
		resp.UI = decodeUI(raw)
	}
	return resp, nil
}

// UnmarshalJSON lets Response be used directly with encoding/json.
func (r *Response) UnmarshalJSON(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	*r = decoded
	return nil
}

func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, ErrNotObject
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, fmt.Errorf("decode decision response: %w", err)
	}
	return fields, nil
}

// object decodes raw into a field map, returning nil for anything but an object.
func object(raw json.RawMessage) map[string]json.RawMessage {
	fields, err := decodeObject(raw)
	if err != nil {
		return nil
	}
	return fields
}

func decodeVehicle(raw json.RawMessage) *Vehicle {
	fields := object(raw)
	if fields == nil {
		return nil
	}
	return &Vehicle{
		Brand:       optString(fields["brand"]),
		Model:       optString(fields["model"]),
		Year:        optInt(fields["year"]),
		VehicleType: optString(fields["vehicletype"]),
		OdometerKm:  optFloat(fields["odometer_km"]),
	}
}

func decodeSteps(raw json.RawMessage) []string {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return nil
	}
	steps := make([]string, 0, len(items))
	for _, item := range items {
		if s := optString(item); s != nil {
			steps = append(steps, *s)
		}
	}
	return steps
}

func decodeSelected(raw json.RawMessage) []ComponentDecision {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return nil
	}
	out := make([]ComponentDecision, 0, len(items))
	for _, item := range items {
		fields := object(item)
		if fields == nil {
			continue
		}
		cd := ComponentDecision{
			PredTimeMin:       optFloat(fields["pred_time_min"]),
			SuccessProb:       optFloat(fields["success_prob"]),
			ReuseProfitEUR:    optFloat(fields["reuse_profit_eur"]),
			RecycleProfitEUR:  optFloat(fields["recycle_profit_eur"]),
			ExpectedProfitEUR: optFloat(fields["expected_profit_eur"]),
			CO2SavedKg:        optFloat(fields["co2_saved_kg"]),
		}
		if s := optString(fields["component"]); s != nil {
			cd.Component = *s
		}
		if s := optString(fields["decision"]); s != nil {
			cd.Decision = *s
		}
		out = append(out, cd)
	}
	return out
}

// decodeSkipped walks the object token by token so entries keep document order.
func decodeSkipped(raw json.RawMessage) []SkippedEntry {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil
	}

	entries := make([]SkippedEntry, 0)
	index := make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return entries
		}
		key, _ := keyTok.(string)
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return entries
		}
		reason := ""
		if s := optString(value); s != nil {
			reason = *s
		}
		// duplicate keys keep their first position and the last value
		if i, seen := index[key]; seen {
			entries[i].Reason = reason
			continue
		}
		index[key] = len(entries)
		entries = append(entries, SkippedEntry{Component: key, Reason: reason})
	}
	return entries
}

func decodeTotals(raw json.RawMessage) *Totals {
	fields := object(raw)
	if fields == nil {
		return nil
	}
	return &Totals{
		TimeMin:           optFloat(fields["time_min"]),
		ExpectedProfitEUR: optFloat(fields["expected_profit_eur"]),
		CO2SavedKg:        optFloat(fields["co2_saved_kg"]),
		ReuseProfitEUR:    optFloat(fields["reuse_profit_eur"]),
		RecycleProfitEUR:  optFloat(fields["recycle_profit_eur"]),
	}
}

func decodeUI(raw json.RawMessage) *UI {
	fields := object(raw)
	if fields == nil {
		return nil
	}
	return &UI{TimeBudgetMin: optFloat(fields["time_budget_min"])}
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func optString(raw json.RawMessage) *string {
	if isNull(raw) {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return &s
}

func optFloat(raw json.RawMessage) *float64 {
	if isNull(raw) {
		return nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func optInt(raw json.RawMessage) *int {
	v := optFloat(raw)
	if v == nil || *v != math.Trunc(*v) || math.Abs(*v) > math.MaxInt32 {
		return nil
	}
	n := int(*v)
	return &n
}
