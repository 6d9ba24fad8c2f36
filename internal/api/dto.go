package api

import (
	"encoding/json"
	"strings"
	"time"

	"vehicle-dismantling/backend/internal/intake"
	"vehicle-dismantling/backend/internal/plan"
	"vehicle-dismantling/backend/internal/render"
	"vehicle-dismantling/backend/internal/session"
	"vehicle-dismantling/backend/internal/store"
)

const emptyMessage = render.EmptyMessage

// SubmitResponse is returned after a plan was received and loaded.
type SubmitResponse struct {
	SubmissionID string         `json:"submission_id"`
	Dashboard    plan.Dashboard `json:"dashboard"`
}

// ValidationErrorResponse lists invalid intake fields; Focus names the first one.
type ValidationErrorResponse struct {
	Error  string              `json:"error"`
	Focus  string              `json:"focus"`
	Fields []intake.FieldError `json:"fields"`
}

// DashboardResponse describes the current plan slot.
type DashboardResponse struct {
	State        session.State   `json:"state"`
	Message      string          `json:"message,omitempty"`
	SubmissionID string          `json:"submission_id,omitempty"`
	ReceivedAt   *time.Time      `json:"received_at,omitempty"`
	Dashboard    *plan.Dashboard `json:"dashboard,omitempty"`
}

// TestConnectionRequest is the diagnostic probe payload.
type TestConnectionRequest struct {
	Text string `json:"text"`
}

// SubmissionDTO is the API representation of a stored submission.
type SubmissionDTO struct {
	ID            string          `json:"id"`
	Brand         string          `json:"brand"`
	VehicleType   string          `json:"vehicle_type"`
	TimeBudgetMin int             `json:"time_budget_min"`
	Status        string          `json:"status"`
	Error         string          `json:"error,omitempty"`
	DurationMs    int64           `json:"duration_ms"`
	CreatedAt     time.Time       `json:"created_at"`
	Intake        json.RawMessage `json:"intake,omitempty"`
	Dashboard     *plan.Dashboard `json:"dashboard,omitempty"`
}

// SubmissionsResponse is the paginated submission history.
type SubmissionsResponse struct {
	Items []SubmissionDTO `json:"items"`
	Total int64           `json:"total"`
}

// SubmissionFromModel converts a store.Submission. With detail set the intake
// and a freshly presented dashboard are included.
func SubmissionFromModel(s store.Submission, detail bool) SubmissionDTO {
	dto := SubmissionDTO{
		ID:            s.ID,
		Brand:         s.Brand,
		VehicleType:   s.VehicleType,
		TimeBudgetMin: s.TimeBudgetMin,
		Status:        s.Status,
		Error:         strings.TrimSpace(s.Error),
		DurationMs:    s.DurationMs,
		CreatedAt:     s.CreatedAt,
	}
	if !detail {
		return dto
	}
	if json.Valid([]byte(s.IntakeJSON)) {
		dto.Intake = json.RawMessage(s.IntakeJSON)
	}
	if s.HasResponse() {
		if resp, err := plan.Decode([]byte(s.ResponseJSON)); err == nil {
			d := plan.Present(resp)
			dto.Dashboard = &d
		}
	}
	return dto
}
