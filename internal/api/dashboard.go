package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"vehicle-dismantling/backend/internal/decision"
	"vehicle-dismantling/backend/internal/intake"
	"vehicle-dismantling/backend/internal/plan"
	"vehicle-dismantling/backend/internal/session"
	"vehicle-dismantling/backend/internal/store"
	"vehicle-dismantling/backend/internal/util"
)

const maxPlanBody = 1 << 20

// handleSubmit validates an intake, forwards it to the decision service and, on
// success, replaces the current plan. Failed attempts leave the slot untouched.
func (s *Server) handleSubmit(c *gin.Context) {
	var req intake.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}

	prepared, err := intake.Prepare(req)
	if err != nil {
		var verr *intake.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, ValidationErrorResponse{
				Error:  verr.Error(),
				Focus:  verr.First().Field,
				Fields: verr.Fields,
			})
			return
		}
		s.renderError(c, http.StatusBadRequest, err)
		return
	}

	timer := util.StartTimer()
	record := &store.Submission{
		ID:            uuid.NewString(),
		Brand:         prepared.Brand,
		VehicleType:   prepared.VehicleType,
		TimeBudgetMin: prepared.TimeBudget,
	}
	record.SetIntake(prepared)

	result, err := s.planner.Submit(c.Request.Context(), prepared)
	if err != nil {
		record.Status = store.StatusFailed
		record.Error = err.Error()
		record.DurationMs = timer.ElapsedMs()
		s.saveSubmission(record)

		logrus.WithError(err).WithFields(logrus.Fields{
			"submission_id": record.ID,
			"brand":         prepared.Brand,
		}).Warn("decision request failed")

		payload := gin.H{"error": err.Error(), "submission_id": record.ID}
		var statusErr *decision.StatusError
		if errors.As(err, &statusErr) {
			payload["upstream_status"] = statusErr.StatusCode
		}
		c.JSON(http.StatusBadGateway, payload)
		return
	}

	record.Status = store.StatusSucceeded
	record.ResponseJSON = string(result.Raw)
	record.DurationMs = timer.ElapsedMs()

	snap := session.Snapshot{SubmissionID: record.ID, Response: result.Response, Raw: result.Raw}
	version := s.slot.Replace(snap)
	s.saveSubmission(record)

	dashboard := plan.Present(result.Response)
	s.notifier.Broadcast(DashboardEvent{
		Type:         "dashboard",
		SubmissionID: record.ID,
		Version:      version,
		Dashboard:    &dashboard,
	})

	logrus.WithFields(logrus.Fields{
		"submission_id": record.ID,
		"used_pct":      dashboard.KPIs.UsedPct,
		"components":    len(dashboard.Components),
		"duration_ms":   record.DurationMs,
	}).Info("plan loaded")

	c.JSON(http.StatusOK, SubmitResponse{SubmissionID: record.ID, Dashboard: dashboard})
}

// handlePresent derives a dashboard from a posted decision response without
// touching the current plan.
func (s *Server) handlePresent(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPlanBody))
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	resp, err := plan.Decode(body)
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, plan.Present(resp))
}

func (s *Server) handleDashboard(c *gin.Context) {
	state, snap := s.slot.Current()
	if state == session.StateEmpty {
		c.JSON(http.StatusOK, DashboardResponse{State: state, Message: emptyMessage})
		return
	}
	dashboard := plan.Present(snap.Response)
	c.JSON(http.StatusOK, DashboardResponse{
		State:        state,
		SubmissionID: snap.SubmissionID,
		ReceivedAt:   &snap.ReceivedAt,
		Dashboard:    &dashboard,
	})
}

func (s *Server) handleTestConnection(c *gin.Context) {
	var req TestConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	ack, err := s.planner.TestConnection(c.Request.Context(), req.Text)
	if err != nil {
		if errors.Is(err, decision.ErrEmptyText) {
			s.renderError(c, http.StatusBadRequest, err)
			return
		}
		logrus.WithError(err).Warn("test connection failed")
		s.renderError(c, http.StatusBadGateway, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": ack})
}

func (s *Server) saveSubmission(record *store.Submission) {
	if err := s.db.SaveSubmission(record); err != nil {
		logrus.WithError(err).WithField("submission_id", record.ID).Warn("store submission")
	}
}

// restoreLatest loads the newest successful plan into the slot.
func (s *Server) restoreLatest() {
	sub, err := s.db.LatestSucceeded()
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logrus.WithError(err).Warn("restore latest plan")
		}
		return
	}
	resp, err := plan.Decode([]byte(sub.ResponseJSON))
	if err != nil {
		logrus.WithError(err).WithField("submission_id", sub.ID).Warn("stored plan unreadable")
		return
	}
	s.slot.Replace(session.Snapshot{
		SubmissionID: sub.ID,
		Response:     resp,
		Raw:          json.RawMessage(sub.ResponseJSON),
		ReceivedAt:   sub.CreatedAt,
	})
	logrus.WithField("submission_id", sub.ID).Info("restored latest plan")
}
