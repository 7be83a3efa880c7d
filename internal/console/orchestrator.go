package console

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/llmwatch/console/internal/charts"
	"github.com/llmwatch/console/internal/core"
	"github.com/llmwatch/console/internal/filters"
	"github.com/llmwatch/console/internal/logview"
	"github.com/llmwatch/console/internal/pagination"
)

// ErrSuperseded marks a load whose response resolved after a newer load had
// already started. The stale result is discarded, never rendered.
var ErrSuperseded = errors.New("load superseded by a newer one")

// Orchestrator coordinates the dashboard and logs views: it issues the
// remote queries, chooses empty-state vs. populated rendering, and drives
// the transformer, registry and card renderer.
type Orchestrator struct {
	client   core.Client
	registry *charts.Registry
	pageSize int

	dashFilters *filters.State
	logFilters  *filters.State

	dashGen atomic.Uint64
	logsGen atomic.Uint64

	mu     sync.Mutex
	bundle *Bundle
	page   *logview.Page

	notify func(view string)
}

// New creates an orchestrator with fresh filter state for both views.
func New(client core.Client, registry *charts.Registry, logsPageSize int) *Orchestrator {
	return &Orchestrator{
		client:      client,
		registry:    registry,
		pageSize:    logsPageSize,
		dashFilters: filters.NewState(),
		logFilters:  filters.NewState(),
	}
}

// DashboardFilters returns the dashboard view's filter state.
func (o *Orchestrator) DashboardFilters() *filters.State { return o.dashFilters }

// LogFilters returns the logs view's filter state.
func (o *Orchestrator) LogFilters() *filters.State { return o.logFilters }

// SetNotify registers a hook invoked after a view renders successfully.
func (o *Orchestrator) SetNotify(fn func(view string)) { o.notify = fn }

// LoadDashboard issues the three aggregate queries concurrently, joins
// them, and renders either the empty state or the populated layout with
// its charts. Any query failure replaces the whole view with an error
// panel; the other payloads are not partially rendered.
func (o *Orchestrator) LoadDashboard(ctx context.Context) (*DashboardView, error) {
	gen := o.dashGen.Add(1)
	crit := o.dashFilters.Criteria()
	tr, backend := string(crit.TimeRange), crit.Backend

	var (
		stats *core.DashboardStats
		det   *core.DetectionStats
		tools *core.ToolInsights
	)
	errc := make(chan error, 3)
	go func() {
		var err error
		stats, err = o.client.DashboardStats(ctx, tr, backend)
		errc <- err
	}()
	go func() {
		var err error
		det, err = o.client.DetectionStats(ctx, tr, backend)
		errc <- err
	}()
	go func() {
		var err error
		tools, err = o.client.ToolCallInsights(ctx, tr, backend)
		errc <- err
	}()

	var firstErr error
	for i := 0; i < 3; i++ {
		if err := <-errc; err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if gen != o.dashGen.Load() {
		log.Debug().Uint64("generation", gen).Msg("Discarding stale dashboard load")
		return nil, ErrSuperseded
	}

	if firstErr != nil {
		observeLoad("dashboard", "error")
		log.Error().Err(firstErr).Msg("Dashboard load failed")
		// The error panel replaces the whole view; nothing from the
		// previous render may survive into it.
		o.clearDashboard()
		return &DashboardView{Error: firstErr.Error(), Criteria: crit}, nil
	}

	// At most one live instance per chart identity across reloads.
	o.registry.DestroyAll()

	view := &DashboardView{
		Criteria:        crit,
		TotalRequests:   stats.TotalRequests,
		AvgLatencyMS:    stats.AvgLatencyMS,
		TotalDetections: det.TotalDetections,
		TokenTotals:     stats.TokenTotals,
		Features:        stats.Features,
	}

	if stats.TotalRequests == 0 && det.TotalDetections == 0 && len(tools.Tools) == 0 {
		view.Empty = true
		o.mu.Lock()
		o.bundle = nil
		o.mu.Unlock()
		observeLoad("dashboard", "empty")
		o.broadcast("dashboard")
		return view, nil
	}

	o.mu.Lock()
	o.bundle = &Bundle{Stats: stats, Detections: det, Tools: tools}
	o.mu.Unlock()

	view.Charts = []ChartPanel{
		o.createPanel(charts.KeyModels, "Requests by Model", len(stats.Models) > 0,
			func() charts.Spec { return charts.ModelUsage(stats.Models, charts.ModelsInlineLimit) }),
		o.createPanel(charts.KeyTokens, "Token Usage per Request", len(stats.RecentRequests) > 0,
			func() charts.Spec { return charts.TokenUsage(stats.RecentRequests, charts.TokensInlineLimit) }),
		o.createPanel(charts.KeyLatency, "Latency per Request", len(stats.LatencyPoints) > 0,
			func() charts.Spec { return charts.Latency(stats.LatencyPoints) }),
		o.createPanel(charts.KeyTools, "Tool Usage", len(tools.Tools) > 0,
			func() charts.Spec { return charts.ToolUsage(tools.Tools) }),
		o.createPanel(charts.KeyDetections, "Detections by Pattern", len(det.DetectionsByPattern) > 0,
			func() charts.Spec { return charts.DetectionPatterns(det.DetectionsByPattern) }),
	}

	if backends, err := o.client.Backends(ctx); err == nil {
		view.Backends = backends
	} else {
		log.Debug().Err(err).Msg("Failed to load backend options")
	}

	observeLoad("dashboard", "ok")
	o.broadcast("dashboard")
	return view, nil
}

// createPanel creates one chart instance when its payload is non-empty,
// otherwise returns a textual placeholder panel.
func (o *Orchestrator) createPanel(key, title string, hasData bool, build func() charts.Spec) ChartPanel {
	panel := ChartPanel{Key: key, Title: title, HasData: hasData}
	if !hasData {
		panel.Placeholder = "No data for this range"
		return panel
	}
	if err := o.registry.Create(build()); err != nil {
		log.Error().Err(err).Str("chart", key).Msg("Failed to create chart instance")
		panel.HasData = false
		panel.Placeholder = "Chart unavailable"
	}
	return panel
}

// LoadMessageLogs issues the paged logs query and renders the page body.
func (o *Orchestrator) LoadMessageLogs(ctx context.Context) (*LogsView, error) {
	gen := o.logsGen.Add(1)
	crit := o.logFilters.Criteria()

	q := core.LogQuery{
		TimeRange: string(crit.TimeRange),
		Backend:   crit.Backend,
		Model:     crit.Model,
		DLPAction: string(crit.DLPAction),
		Search:    crit.Search,
		Page:      crit.Page,
		PageSize:  o.pageSize,
	}

	result, err := o.client.MessageLogs(ctx, q)

	if gen != o.logsGen.Load() {
		log.Debug().Uint64("generation", gen).Msg("Discarding stale logs load")
		return nil, ErrSuperseded
	}

	if err != nil {
		observeLoad("logs", "error")
		log.Error().Err(err).Msg("Message logs load failed")
		return &LogsView{Error: err.Error(), Criteria: crit}, nil
	}

	view := &LogsView{Criteria: crit}

	// Only an empty first page means there is nothing to browse at all.
	// The empty state renders without a pagination bar.
	if crit.Page == 0 && result.Total == 0 {
		view.Empty = true
		o.mu.Lock()
		o.page = nil
		o.mu.Unlock()
		observeLoad("logs", "empty")
		o.broadcast("logs")
		return view, nil
	}

	controls := pagination.Build(crit.Page, o.pageSize, result.Total)
	view.Controls = &controls

	page := logview.NewPage(o.client, result.Logs)
	o.mu.Lock()
	o.page = page
	o.mu.Unlock()

	view.Cards = make([]CardView, 0, len(page.Cards()))
	for _, card := range page.Cards() {
		rec := card.Record()
		view.Cards = append(view.Cards, CardView{
			ID:           rec.ID,
			Timestamp:    rec.Timestamp,
			Backend:      rec.Backend,
			Model:        rec.Model,
			InputTokens:  rec.InputTokens,
			OutputTokens: rec.OutputTokens,
			LatencyMS:    rec.LatencyMS,
			Status:       logview.StatusLabel(rec.DLPAction),
			Pane:         card.Pane(),
		})
	}

	if backends, err := o.client.Backends(ctx); err == nil {
		view.Backends = backends
	} else {
		log.Debug().Err(err).Msg("Failed to load backend options")
	}
	if models, err := o.client.Models(ctx); err == nil {
		view.Models = models
	} else {
		log.Debug().Err(err).Msg("Failed to load model options")
	}

	observeLoad("logs", "ok")
	o.broadcast("logs")
	return view, nil
}

// ExpandChart creates the full-screen instance for a chart from the cached
// dashboard payloads. It never re-fetches.
func (o *Orchestrator) ExpandChart(key string) (charts.Spec, error) {
	o.mu.Lock()
	bundle := o.bundle
	o.mu.Unlock()
	if bundle == nil {
		return charts.Spec{}, fmt.Errorf("no dashboard data loaded")
	}

	var spec charts.Spec
	switch key {
	case charts.KeyModels:
		spec = charts.ModelUsage(bundle.Stats.Models, charts.ModelsFullscreenLimit)
	case charts.KeyTokens:
		spec = charts.TokenUsage(bundle.Stats.RecentRequests, charts.Unbounded)
	case charts.KeyLatency:
		spec = charts.Latency(bundle.Stats.LatencyPoints)
	case charts.KeyTools:
		spec = charts.ToolUsage(bundle.Tools.Tools)
	case charts.KeyDetections:
		spec = charts.DetectionPatterns(bundle.Detections.DetectionsByPattern)
	default:
		return charts.Spec{}, fmt.Errorf("unknown chart: %s", key)
	}

	if err := o.registry.Expand(spec); err != nil {
		return charts.Spec{}, err
	}
	return spec, nil
}

// DismissFullscreen tears down the full-screen instance.
func (o *Orchestrator) DismissFullscreen() {
	o.registry.DismissFullscreen()
}

// SelectTab applies a primary tab selection to one card of the current page.
func (o *Orchestrator) SelectTab(ctx context.Context, id int64, tab logview.PrimaryTab) (logview.Pane, error) {
	page, err := o.currentPage()
	if err != nil {
		return logview.Pane{}, err
	}
	return page.SelectTab(ctx, id, tab)
}

// SelectSubTab applies a sub-tab selection to one card of the current page.
func (o *Orchestrator) SelectSubTab(id int64, sub logview.SubTab) (logview.Pane, error) {
	page, err := o.currentPage()
	if err != nil {
		return logview.Pane{}, err
	}
	return page.SelectSubTab(id, sub)
}

// CopyCard serializes the active tab of one card for the clipboard.
func (o *Orchestrator) CopyCard(id int64) (string, error) {
	page, err := o.currentPage()
	if err != nil {
		return "", err
	}
	card, ok := page.Card(id)
	if !ok {
		return "", fmt.Errorf("no card for record %d", id)
	}
	return card.CopyPayload()
}

// ExportQuery builds the unpaged query matching the logs view's filters.
func (o *Orchestrator) ExportQuery() core.LogQuery {
	crit := o.logFilters.Criteria()
	return core.LogQuery{
		TimeRange: string(crit.TimeRange),
		Backend:   crit.Backend,
		Model:     crit.Model,
		DLPAction: string(crit.DLPAction),
		Search:    crit.Search,
	}
}

// clearDashboard drops the cached payload bundle and every live chart
// instance. Expansion is unavailable until the next successful apply.
func (o *Orchestrator) clearDashboard() {
	o.registry.DestroyAll()
	o.mu.Lock()
	o.bundle = nil
	o.mu.Unlock()
}

func (o *Orchestrator) currentPage() (*logview.Page, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.page == nil {
		return nil, fmt.Errorf("no log page loaded")
	}
	return o.page, nil
}

func (o *Orchestrator) broadcast(view string) {
	if o.notify != nil {
		o.notify(view)
	}
}
