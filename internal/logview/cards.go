package logview

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/llmwatch/console/internal/core"
)

// PrimaryTab selects what a card's content pane shows.
type PrimaryTab string

const (
	TabData       PrimaryTab = "data"
	TabHeaders    PrimaryTab = "headers"
	TabDetections PrimaryTab = "detections"
)

// SubTab selects the direction for the data/headers tabs. It has no effect
// while the detections tab is active.
type SubTab string

const (
	SubRequest  SubTab = "request"
	SubResponse SubTab = "response"
)

// FetchState is the detection-fetch lifecycle of one card.
type FetchState string

const (
	FetchIdle    FetchState = "idle"
	FetchLoading FetchState = "loading"
	FetchLoaded  FetchState = "loaded"
	FetchFailed  FetchState = "failed"
)

// Card renders one log record with its own tab state, independent of every
// other card on the page.
type Card struct {
	mu         sync.Mutex
	record     core.LogRecord
	primary    PrimaryTab
	sub        SubTab
	detState   FetchState
	detections []core.DetectionRecord
	detErr     string
}

// NewCard creates a card on its initial Data/Request tabs.
func NewCard(record core.LogRecord) *Card {
	return &Card{
		record:   record,
		primary:  TabData,
		sub:      SubRequest,
		detState: FetchIdle,
	}
}

// Record returns the card's immutable log record.
func (c *Card) Record() core.LogRecord {
	return c.record
}

// Pane is the renderable content of a card for its current tab state.
type Pane struct {
	Primary     PrimaryTab             `json:"primary"`
	Sub         SubTab                 `json:"sub"`
	ShowSubTabs bool                   `json:"show_sub_tabs"`
	Status      string                 `json:"status"`
	Text        string                 `json:"text,omitempty"`
	FetchState  FetchState             `json:"fetch_state,omitempty"`
	Detections  []core.DetectionRecord `json:"detections,omitempty"`
	Error       string                 `json:"error,omitempty"`
}

// SelectPrimary switches the primary tab. Data and Headers render
// synchronously from the loaded record; Detections flips the card to its
// loading state and reports that a fetch is required.
func (c *Card) SelectPrimary(tab PrimaryTab) (needsFetch bool, err error) {
	switch tab {
	case TabData, TabHeaders:
		c.mu.Lock()
		c.primary = tab
		c.mu.Unlock()
		return false, nil
	case TabDetections:
		c.mu.Lock()
		c.primary = tab
		c.detState = FetchLoading
		c.detections = nil
		c.detErr = ""
		c.mu.Unlock()
		return true, nil
	default:
		return false, fmt.Errorf("invalid tab: %s", tab)
	}
}

// SelectSub switches the request/response sub-tab.
func (c *Card) SelectSub(sub SubTab) error {
	if sub != SubRequest && sub != SubResponse {
		return fmt.Errorf("invalid sub-tab: %s", sub)
	}
	c.mu.Lock()
	c.sub = sub
	c.mu.Unlock()
	return nil
}

// FetchDetections resolves a pending detections load for this card. A
// failure stays local to the card; other cards and tabs are unaffected.
func (c *Card) FetchDetections(ctx context.Context, client core.Client) {
	detections, err := client.DetectionsForRequest(ctx, c.record.ID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.detState = FetchFailed
		c.detErr = err.Error()
		return
	}
	c.detState = FetchLoaded
	c.detections = detections
}

// Pane renders the content for the current tab state.
func (c *Card) Pane() Pane {
	c.mu.Lock()
	defer c.mu.Unlock()

	pane := Pane{
		Primary:     c.primary,
		Sub:         c.sub,
		ShowSubTabs: c.primary != TabDetections,
		Status:      StatusLabel(c.record.DLPAction),
	}

	switch c.primary {
	case TabData:
		if c.sub == SubRequest {
			pane.Text = prettyPrint(c.record.RequestBody)
		} else {
			pane.Text = prettyPrint(c.record.ResponseBody)
		}
	case TabHeaders:
		if c.sub == SubRequest {
			pane.Text = prettyPrint(c.record.RequestHeaders)
		} else {
			pane.Text = prettyPrint(c.record.ResponseHeaders)
		}
	case TabDetections:
		pane.FetchState = c.detState
		switch c.detState {
		case FetchLoaded:
			pane.Detections = c.detections
			if len(c.detections) == 0 {
				pane.Text = "No detections for this request"
			}
		case FetchFailed:
			pane.Error = c.detErr
		}
	}

	return pane
}

// StatusLabel maps a DLP action code to its display label. Unrecognized
// codes read as Passed.
func StatusLabel(action int) string {
	switch action {
	case core.DLPActionRedacted:
		return "Redacted"
	case core.DLPActionBlocked:
		return "Blocked"
	case core.DLPActionRatelimited:
		return "Ratelimited"
	case core.DLPActionNotifyRatelimit:
		return "Notify-Ratelimit"
	default:
		return "Passed"
	}
}

// prettyPrint indents parseable JSON and leaves everything else verbatim.
// Empty content reads as the literal "null".
func prettyPrint(raw string) string {
	if raw == "" {
		return "null"
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(raw), "", "  "); err != nil {
		return raw
	}
	return buf.String()
}
