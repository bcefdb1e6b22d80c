package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pmboard/internal/domain"
	"pmboard/internal/logging"
	"pmboard/internal/ports"
)

// DefaultBaseURL is where the automation backend listens by default
const DefaultBaseURL = "http://localhost:5678"

// DefaultTimeout bounds every webhook call
const DefaultTimeout = 60 * time.Second

// Endpoints are the webhook paths relative to the base URL
type Endpoints struct {
	Table    string `mapstructure:"table"`
	Update   string `mapstructure:"update"`
	Analysis string `mapstructure:"analysis"`
	Chat     string `mapstructure:"chat"`
	Summary  string `mapstructure:"summary"`
}

// DefaultEndpoints returns the backend's standard webhook paths
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Table:    "/webhook/table",
		Update:   "/webhook/update_on_gantt",
		Analysis: "/webhook/analysis",
		Chat:     "/webhook/chatbot",
		Summary:  "/webhook/ab",
	}
}

// withDefaults fills empty paths from DefaultEndpoints
func (e Endpoints) withDefaults() Endpoints {
	d := DefaultEndpoints()
	if e.Table == "" {
		e.Table = d.Table
	}
	if e.Update == "" {
		e.Update = d.Update
	}
	if e.Analysis == "" {
		e.Analysis = d.Analysis
	}
	if e.Chat == "" {
		e.Chat = d.Chat
	}
	if e.Summary == "" {
		e.Summary = d.Summary
	}
	return e
}

// TransportError is a non-2xx response from the backend
type TransportError struct {
	Endpoint string
	Status   int
	Body     string
}

func (e *TransportError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	if body == "" {
		return fmt.Sprintf("%s returned status %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Endpoint, e.Status, body)
}

// Client talks to the automation backend's webhooks. It implements
// RecordSource, TaskSink, ProjectAnalyzer and ChatRelay.
type Client struct {
	baseURL   string
	endpoints Endpoints
	http      *http.Client
}

var (
	_ ports.RecordSource    = (*Client)(nil)
	_ ports.TaskSink        = (*Client)(nil)
	_ ports.ProjectAnalyzer = (*Client)(nil)
	_ ports.ChatRelay       = (*Client)(nil)
)

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the transport
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithEndpoints overrides webhook paths; empty paths keep their defaults
func WithEndpoints(e Endpoints) Option {
	return func(c *Client) { c.endpoints = e.withDefaults() }
}

// NewClient creates a Client for baseURL (DefaultBaseURL when empty)
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		endpoints: DefaultEndpoints(),
		http:      &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend address
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchRecords reads the full project table
func (c *Client) FetchRecords(ctx context.Context) ([]domain.TaskRecord, error) {
	var records []domain.TaskRecord
	if err := c.do(ctx, http.MethodGet, c.endpoints.Table, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

type updateRequest struct {
	ProjectName string              `json:"projectName"`
	Tasks       []domain.TaskRecord `json:"tasks"`
}

// ReplaceProjectTasks submits the whole draft for one project
func (c *Client) ReplaceProjectTasks(ctx context.Context, projectName string, tasks []domain.TaskRecord) error {
	if tasks == nil {
		tasks = []domain.TaskRecord{}
	}
	return c.do(ctx, http.MethodPost, c.endpoints.Update, updateRequest{ProjectName: projectName, Tasks: tasks}, nil)
}

type analysisRequest struct {
	ProjectName string `json:"projectName"`
}

type analysisResponse struct {
	AnalysisText *string `json:"analysis_text"`
}

// AnalyzeProject requests the analysis text for one project. A response
// without analysis_text is an error.
func (c *Client) AnalyzeProject(ctx context.Context, projectName string) (string, error) {
	var resp analysisResponse
	if err := c.do(ctx, http.MethodPost, c.endpoints.Analysis, analysisRequest{ProjectName: projectName}, &resp); err != nil {
		return "", err
	}
	if resp.AnalysisText == nil {
		return "", fmt.Errorf("%s: response has no analysis_text", c.endpoints.Analysis)
	}
	return *resp.AnalysisText, nil
}

type chatRequest struct {
	Message     string           `json:"message"`
	SessionID   string           `json:"sessionId"`
	ChatHistory []ports.ChatTurn `json:"chatHistory"`
}

type outputResponse struct {
	Output string `json:"output"`
}

// Send relays one chat message
func (c *Client) Send(ctx context.Context, req ports.ChatRequest) (string, error) {
	history := req.History
	if history == nil {
		history = []ports.ChatTurn{}
	}
	var resp outputResponse
	body := chatRequest{Message: req.Message, SessionID: req.SessionID, ChatHistory: history}
	if err := c.do(ctx, http.MethodPost, c.endpoints.Chat, body, &resp); err != nil {
		return "", err
	}
	return resp.Output, nil
}

// Summary fetches the assistant's opening summary
func (c *Client) Summary(ctx context.Context) (string, error) {
	var resp outputResponse
	if err := c.do(ctx, http.MethodGet, c.endpoints.Summary, nil, &resp); err != nil {
		return "", err
	}
	return resp.Output, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, target any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", path, err)
	}
	logging.LogDebug("%s %s -> %d in %v (%d bytes)", method, path, resp.StatusCode, time.Since(start), len(data))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &TransportError{Endpoint: path, Status: resp.StatusCode, Body: string(data)}
	}
	if target == nil {
		return nil
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
