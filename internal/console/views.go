package console

import (
	"github.com/llmwatch/console/internal/core"
	"github.com/llmwatch/console/internal/filters"
	"github.com/llmwatch/console/internal/logview"
	"github.com/llmwatch/console/internal/pagination"
)

// ChartPanel is one dashboard chart slot. Panels without data render a
// textual placeholder instead of a blank chart.
type ChartPanel struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	HasData     bool   `json:"has_data"`
	Placeholder string `json:"placeholder,omitempty"`
}

// DashboardView is the renderable dashboard state. Exactly one of Empty,
// Error, or the populated fields is meaningful.
type DashboardView struct {
	Empty           bool              `json:"empty"`
	Error           string            `json:"error,omitempty"`
	Criteria        filters.Criteria  `json:"criteria"`
	TotalRequests   int64             `json:"total_requests"`
	AvgLatencyMS    float64           `json:"avg_latency_ms"`
	TotalDetections int64             `json:"total_detections"`
	TokenTotals     core.TokenTotals  `json:"token_totals"`
	Features        core.FeatureStats `json:"features"`
	Charts          []ChartPanel      `json:"charts,omitempty"`
	Backends        []string          `json:"backends,omitempty"`
}

// CardView is one log record card with its current pane.
type CardView struct {
	ID           int64        `json:"id"`
	Timestamp    string       `json:"timestamp"`
	Backend      string       `json:"backend"`
	Model        string       `json:"model"`
	InputTokens  int64        `json:"input_tokens"`
	OutputTokens int64        `json:"output_tokens"`
	LatencyMS    int64        `json:"latency_ms"`
	Status       string       `json:"status"`
	Pane         logview.Pane `json:"pane"`
}

// LogsView is the renderable logs-browser state. Controls is nil in the
// empty and error states; the empty state shows no pagination bar.
type LogsView struct {
	Empty    bool                 `json:"empty"`
	Error    string               `json:"error,omitempty"`
	Criteria filters.Criteria     `json:"criteria"`
	Controls *pagination.Controls `json:"controls,omitempty"`
	Cards    []CardView           `json:"cards,omitempty"`
	Backends []string             `json:"backends,omitempty"`
	Models   []string             `json:"models,omitempty"`
}

// Bundle caches the last successfully loaded dashboard payloads so the
// full-screen view can re-render without re-fetching.
type Bundle struct {
	Stats      *core.DashboardStats
	Detections *core.DetectionStats
	Tools      *core.ToolInsights
}
