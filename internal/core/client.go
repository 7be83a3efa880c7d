package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Client is the command interface exposed by the core service. Every call
// is one asynchronous request/response round-trip; errors carry the raw
// message the core service returned.
type Client interface {
	DashboardStats(ctx context.Context, timeRange, backend string) (*DashboardStats, error)
	DetectionStats(ctx context.Context, timeRange, backend string) (*DetectionStats, error)
	ToolCallInsights(ctx context.Context, timeRange, backend string) (*ToolInsights, error)
	MessageLogs(ctx context.Context, q LogQuery) (*PageResult, error)
	DetectionsForRequest(ctx context.Context, requestID int64) ([]DetectionRecord, error)
	Backends(ctx context.Context) ([]string, error)
	Models(ctx context.Context) ([]string, error)
	ExportMessageLogs(ctx context.Context, q LogQuery) ([]ExportRecord, error)
}

// HTTPClient talks to the core service over its HTTP command endpoint:
// POST {base}/commands/{name} with a JSON parameter object.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates a client against the given core service base URL.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type scopeParams struct {
	TimeRange string `json:"time_range"`
	Backend   string `json:"backend"`
}

type requestIDParams struct {
	RequestID int64 `json:"request_id"`
}

func (c *HTTPClient) DashboardStats(ctx context.Context, timeRange, backend string) (*DashboardStats, error) {
	var out DashboardStats
	if err := c.call(ctx, "get_dashboard_stats", scopeParams{timeRange, backend}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DetectionStats(ctx context.Context, timeRange, backend string) (*DetectionStats, error) {
	var out DetectionStats
	if err := c.call(ctx, "get_dlp_detection_stats", scopeParams{timeRange, backend}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ToolCallInsights(ctx context.Context, timeRange, backend string) (*ToolInsights, error) {
	var out ToolInsights
	if err := c.call(ctx, "get_tool_call_insights", scopeParams{timeRange, backend}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) MessageLogs(ctx context.Context, q LogQuery) (*PageResult, error) {
	var out PageResult
	if err := c.call(ctx, "get_message_logs", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DetectionsForRequest(ctx context.Context, requestID int64) ([]DetectionRecord, error) {
	var out []DetectionRecord
	if err := c.call(ctx, "get_dlp_detections_for_request", requestIDParams{requestID}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Backends(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.call(ctx, "get_backends", struct{}{}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Models(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.call(ctx, "get_models", struct{}{}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) ExportMessageLogs(ctx context.Context, q LogQuery) ([]ExportRecord, error) {
	var out []ExportRecord
	if err := c.call(ctx, "export_message_logs", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) call(ctx context.Context, command string, params, result interface{}) error {
	start := time.Now()

	body, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("encode %s params: %w", command, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/commands/"+command, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", command, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		observeCommand(command, "error", time.Since(start))
		return fmt.Errorf("%s: %w", command, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		observeCommand(command, "error", time.Since(start))
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s: %s", command, strings.TrimSpace(string(msg)))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		observeCommand(command, "error", time.Since(start))
		return fmt.Errorf("decode %s response: %w", command, err)
	}

	observeCommand(command, "ok", time.Since(start))
	log.Debug().Str("command", command).Dur("elapsed", time.Since(start)).Msg("Core command completed")
	return nil
}
