package charts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/llmwatch/console/internal/core"
)

// Chart identities. One live instance exists per key at most.
const (
	KeyModels     = "models"
	KeyTokens     = "tokens"
	KeyLatency    = "latency"
	KeyTools      = "tools"
	KeyDetections = "detections"
)

// Inline/full-screen shaping limits.
const (
	ModelsInlineLimit     = 5
	ModelsFullscreenLimit = 10
	TokensInlineLimit     = 15
	// Unbounded disables truncation for full-screen token charts.
	Unbounded = 0
)

// ModelUsage builds the per-model request count bar chart, keeping the
// top limit models by count.
func ModelUsage(models []core.ModelStat, limit int) Spec {
	sorted := make([]core.ModelStat, len(models))
	copy(sorted, models)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Count > sorted[j].Count })
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	labels := make([]string, len(sorted))
	points := make([]float64, len(sorted))
	segments := make([]Segment, len(sorted))
	for i, m := range sorted {
		labels[i] = ShortModel(m.Model)
		points[i] = float64(m.Count)
		segments[i] = Segment{Label: ShortModel(m.Model), Value: float64(m.Count), Color: Color(i), Opacity: 1}
	}

	return Spec{
		Key:    KeyModels,
		Title:  "Requests by Model",
		Labels: labels,
		Series: []Series{{Name: "requests", Type: SeriesBar, Points: points, Segments: segments}},
	}
}

// TokenUsage builds the stacked per-request token chart. The input arrives
// most-recent-first; the chart reads oldest-first. A positive limit keeps
// only the most recent requests before reordering.
func TokenUsage(recent []core.RecentRequest, limit int) Spec {
	window := recent
	if limit > 0 && len(window) > limit {
		window = window[:limit]
	}

	n := len(window)
	labels := make([]string, n)
	input := make([]float64, n)
	output := make([]float64, n)
	cacheRead := make([]float64, n)
	for i, r := range window {
		// Reverse into oldest-first order.
		j := n - 1 - i
		labels[j] = fmt.Sprintf("#%d", r.ID)
		input[j] = float64(r.InputTokens)
		output[j] = float64(r.OutputTokens)
		cacheRead[j] = float64(r.CacheReadTokens)
	}

	return Spec{
		Key:    KeyTokens,
		Title:  "Token Usage per Request",
		Labels: labels,
		Series: []Series{
			{Name: "input", Type: SeriesBar, Stack: "tokens", Points: input},
			{Name: "output", Type: SeriesBar, Stack: "tokens", Points: output},
			{Name: "cache read", Type: SeriesBar, Stack: "tokens", Points: cacheRead},
		},
	}
}

// Latency builds the per-request latency line, reordered oldest-first.
// No truncation: every sample in the range is plotted.
func Latency(points []core.LatencyPoint) Spec {
	n := len(points)
	labels := make([]string, n)
	values := make([]float64, n)
	for i, p := range points {
		j := n - 1 - i
		labels[j] = fmt.Sprintf("#%d", p.ID)
		values[j] = float64(p.LatencyMS)
	}

	return Spec{
		Key:    KeyLatency,
		Title:  "Latency per Request",
		Labels: labels,
		Series: []Series{{Name: "latency_ms", Type: SeriesLine, Points: values}},
	}
}

// DetectionPatterns builds the detections-by-pattern ring. Percentages are
// a label-time concern and are not stored in the spec.
func DetectionPatterns(patterns []core.PatternCount) Spec {
	segments := make([]Segment, len(patterns))
	for i, p := range patterns {
		segments[i] = Segment{Label: p.PatternName, Value: float64(p.Count), Color: Color(i), Opacity: 1}
	}

	return Spec{
		Key:    KeyDetections,
		Title:  "Detections by Pattern",
		Series: []Series{{Name: "detections", Type: SeriesRing, Segments: segments}},
	}
}

// ToolUsage builds the two aligned rings of the tool-insight chart.
//
// The inner ring has one segment per tool. The outer ring flattens each
// tool's targets in order, topping each tool up with a synthetic "other"
// segment when the targets sum to less than the tool's count, so that the
// outer sub-sequence for a tool always sums exactly to its inner value and
// the rings stay angularly aligned. Meta mirrors the outer segments
// one-to-one for label and tooltip lookup.
func ToolUsage(tools []core.ToolInsight) Spec {
	inner := make([]Segment, len(tools))
	var outer []Segment
	var meta []SegmentMeta

	for i, tool := range tools {
		base := Color(i)
		inner[i] = Segment{Label: tool.ToolName, Value: float64(tool.Count), Color: base, Opacity: 1}

		var covered int64
		for j, target := range tool.Targets {
			outer = append(outer, Segment{
				Label:   target.Target,
				Value:   float64(target.Count),
				Color:   base,
				Opacity: TargetOpacity(j),
			})
			meta = append(meta, SegmentMeta{Tool: tool.ToolName, Target: target.Target})
			covered += target.Count
		}

		if len(tool.Targets) == 0 {
			outer = append(outer, Segment{Label: "other", Value: float64(tool.Count), Color: base, Opacity: otherOpacity})
			meta = append(meta, SegmentMeta{Tool: tool.ToolName, Target: "other"})
		} else if rest := tool.Count - covered; rest > 0 {
			outer = append(outer, Segment{Label: "other", Value: float64(rest), Color: base, Opacity: otherOpacity})
			meta = append(meta, SegmentMeta{Tool: tool.ToolName, Target: "other"})
		}
	}

	return Spec{
		Key:   KeyTools,
		Title: "Tool Usage",
		Series: []Series{
			{Name: "tools", Type: SeriesRing, Segments: inner},
			{Name: "targets", Type: SeriesRing, Segments: outer},
		},
		Meta: meta,
	}
}

// ShortModel trims a model identifier for axis labels: the last path
// segment, with a trailing -YYYYMMDD date stamp removed.
func ShortModel(model string) string {
	if idx := strings.LastIndex(model, "/"); idx >= 0 {
		model = model[idx+1:]
	}
	if len(model) > 9 {
		suffix := model[len(model)-9:]
		if suffix[0] == '-' && strings.HasPrefix(suffix[1:], "20") && isDigits(suffix[1:]) {
			model = model[:len(model)-9]
		}
	}
	return model
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
