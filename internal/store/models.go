package store

import (
	"encoding/json"
	"strings"
	"time"
)

// Submission outcome values.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Submission records one intake posted to the decision service and what came back.
type Submission struct {
	ID            string `gorm:"primaryKey;size:36"`
	Brand         string `gorm:"size:128;index"`
	VehicleType   string `gorm:"size:32;index"`
	TimeBudgetMin int
	IntakeJSON    string `gorm:"type:text"`
	ResponseJSON  string `gorm:"type:text"`
	Status        string `gorm:"size:16;index"`
	Error         string `gorm:"type:text"`
	DurationMs    int64
	CreatedAt     time.Time `gorm:"autoCreateTime;index"`
}

// SetIntake stores the intake payload as JSON.
func (s *Submission) SetIntake(v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		s.IntakeJSON = "{}"
		return
	}
	s.IntakeJSON = string(payload)
}

// Intake decodes the stored intake into out.
func (s *Submission) Intake(out any) error {
	if strings.TrimSpace(s.IntakeJSON) == "" {
		return nil
	}
	return json.Unmarshal([]byte(s.IntakeJSON), out)
}

// HasResponse reports whether a plan body was stored.
func (s *Submission) HasResponse() bool {
	return strings.TrimSpace(s.ResponseJSON) != ""
}
