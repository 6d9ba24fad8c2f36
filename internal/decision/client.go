package decision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"vehicle-dismantling/backend/internal/intake"
	"vehicle-dismantling/backend/internal/plan"
	"vehicle-dismantling/backend/internal/util"
)

const (
	// DefaultBaseURL is the hosted decision service.
	DefaultBaseURL = "https://vehicle-dismantling-api.azurewebsites.net"

	planPath           = "/api/post-data"
	testConnectionPath = "/api/test-connection"
	maxErrorBody       = 4 << 10
)

// Config holds decision service connection settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Planner is the contract the HTTP layer relies on.
type Planner interface {
	Submit(ctx context.Context, req intake.Request) (Result, error)
	TestConnection(ctx context.Context, text string) (any, error)
}

// Result is a successfully received plan.
type Result struct {
	Response plan.Response
	Raw      json.RawMessage
	Duration time.Duration
}

// StatusError reports a non-2xx reply from the decision service.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, e.Status, e.Body)
}

// ErrEmptyText is returned when a connectivity probe carries no text.
var ErrEmptyText = errors.New("test connection text is empty")

// Client talks to the external decision service.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient constructs a Client, applying defaults for empty settings.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

// BaseURL reports the service root the client posts to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Submit posts a validated intake request and decodes the returned plan. The
// request is sent as given; callers run intake.Prepare first.
func (c *Client) Submit(ctx context.Context, req intake.Request) (Result, error) {
	timer := util.StartTimer()
	body, err := c.post(ctx, planPath, req)
	if err != nil {
		return Result{}, err
	}

	resp, err := plan.Decode(body)
	if err != nil {
		return Result{}, fmt.Errorf("decode plan: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"brand":      req.Brand,
		"selected":   len(resp.SelectedOrder),
		"skipped":    len(resp.Skipped),
		"elapsed_ms": timer.ElapsedMs(),
	}).Info("decision plan received")

	return Result{Response: resp, Raw: json.RawMessage(body), Duration: timer.Elapsed()}, nil
}

// TestConnection sends {"text": text} to the diagnostic endpoint and returns the
// decoded acknowledgement.
func (c *Client) TestConnection(ctx context.Context, text string) (any, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	body, err := c.post(ctx, testConnectionPath, map[string]string{"text": text})
	if err != nil {
		return nil, err
	}
	var ack any
	if err := json.Unmarshal(body, &ack); err != nil {
		return nil, fmt.Errorf("decode acknowledgement: %w", err)
	}
	return ack, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("decision request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}
