package core

// Wire types for the core service command interface. The core service owns
// detection, proxying, rate limiting and storage; the console only reads.

// ModelStat is one model's request count within the active time range.
type ModelStat struct {
	Model string `json:"model"`
	Count int64  `json:"count"`
}

// FeatureStats counts requests carrying notable request features.
type FeatureStats struct {
	WithSystemPrompt int64 `json:"with_system_prompt"`
	WithTools        int64 `json:"with_tools"`
	WithThinking     int64 `json:"with_thinking"`
	TotalRequests    int64 `json:"total_requests"`
}

// TokenTotals aggregates token usage over the active time range.
type TokenTotals struct {
	Input         int64 `json:"input"`
	Output        int64 `json:"output"`
	CacheRead     int64 `json:"cache_read"`
	CacheCreation int64 `json:"cache_creation"`
}

// RecentRequest is one intercepted request in most-recent-first order,
// carrying the per-request token counts the token chart is built from.
type RecentRequest struct {
	ID                  int64  `json:"id"`
	Timestamp           string `json:"timestamp"`
	Model               string `json:"model"`
	InputTokens         int64  `json:"input_tokens"`
	OutputTokens        int64  `json:"output_tokens"`
	CacheReadTokens     int64  `json:"cache_read_tokens"`
	CacheCreationTokens int64  `json:"cache_creation_tokens"`
	LatencyMS           int64  `json:"latency_ms"`
	StopReason          string `json:"stop_reason"`
	HasThinking         bool   `json:"has_thinking"`
}

// LatencyPoint is one latency sample, most-recent-first.
type LatencyPoint struct {
	ID        int64 `json:"id"`
	LatencyMS int64 `json:"latency_ms"`
}

// DashboardStats is the get_dashboard_stats response.
type DashboardStats struct {
	Models         []ModelStat     `json:"models"`
	Features       FeatureStats    `json:"features"`
	TokenTotals    TokenTotals     `json:"token_totals"`
	RecentRequests []RecentRequest `json:"recent_requests"`
	LatencyPoints  []LatencyPoint  `json:"latency_points"`
	TotalRequests  int64           `json:"total_requests"`
	AvgLatencyMS   float64         `json:"avg_latency_ms"`
}

// PatternCount is one detection pattern's hit count.
type PatternCount struct {
	PatternName string `json:"pattern_name"`
	Count       int64  `json:"count"`
}

// DetectionStats is the get_dlp_detection_stats response.
type DetectionStats struct {
	TotalDetections     int64          `json:"total_detections"`
	DetectionsByPattern []PatternCount `json:"detections_by_pattern"`
}

// ToolTarget is one target a tool acted on, with its count.
type ToolTarget struct {
	Target string `json:"target"`
	Count  int64  `json:"count"`
}

// ToolInsight aggregates one tool's invocations broken down by target.
// The targets may cover less than Count; the shortfall is untracked usage.
type ToolInsight struct {
	ToolName string       `json:"tool_name"`
	Count    int64        `json:"count"`
	Targets  []ToolTarget `json:"targets"`
}

// ToolInsights is the get_tool_call_insights response.
type ToolInsights struct {
	Tools []ToolInsight `json:"tools"`
}

// DLP action dispositions assigned by the core service.
const (
	DLPActionPassed = iota
	DLPActionRedacted
	DLPActionBlocked
	DLPActionRatelimited
	DLPActionNotifyRatelimit
)

// LogRecord is an immutable snapshot of one intercepted request. Body and
// header fields are opaque serialized text, parsed lazily for display.
type LogRecord struct {
	ID                  int64  `json:"id"`
	Timestamp           string `json:"timestamp"`
	Backend             string `json:"backend"`
	Model               string `json:"model"`
	InputTokens         int64  `json:"input_tokens"`
	OutputTokens        int64  `json:"output_tokens"`
	CacheReadTokens     int64  `json:"cache_read_tokens"`
	CacheCreationTokens int64  `json:"cache_creation_tokens"`
	LatencyMS           int64  `json:"latency_ms"`
	RequestBody         string `json:"request_body"`
	ResponseBody        string `json:"response_body"`
	RequestHeaders      string `json:"request_headers"`
	ResponseHeaders     string `json:"response_headers"`
	DLPAction           int    `json:"dlp_action"`
}

// PageResult is one page of log records, most-recent-first. Total is the
// count across all pages for the active filters.
type PageResult struct {
	Logs  []LogRecord `json:"logs"`
	Total int64       `json:"total"`
}

// DetectionRecord is one redaction/detection outcome for a request.
type DetectionRecord struct {
	PatternName   string `json:"pattern_name"`
	PatternType   string `json:"pattern_type"`
	OriginalValue string `json:"original_value"`
	Placeholder   string `json:"placeholder"`
	MessageIndex  int    `json:"message_index"`
}

// ExportRecord is the trimmed record shape returned by export_message_logs.
type ExportRecord struct {
	ID           int64  `json:"id"`
	Timestamp    string `json:"timestamp"`
	Backend      string `json:"backend"`
	Model        string `json:"model"`
	InputTokens  int64  `json:"input_tokens"`
	OutputTokens int64  `json:"output_tokens"`
	LatencyMS    int64  `json:"latency_ms"`
	RequestBody  string `json:"request_body"`
	ResponseBody string `json:"response_body"`
	DLPAction    int    `json:"dlp_action"`
}

// LogQuery carries the filter parameters for get_message_logs and
// export_message_logs. Search is free text; the core service sanitizes it.
type LogQuery struct {
	TimeRange string `json:"time_range"`
	Backend   string `json:"backend"`
	Model     string `json:"model"`
	DLPAction string `json:"dlp_action"`
	Search    string `json:"search"`
	Page      int    `json:"page"`
	PageSize  int    `json:"page_size"`
}
