package logview

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/llmwatch/console/internal/core"
)

// fakeClient serves canned detection results; the other commands are never
// reached from this package.
type fakeClient struct {
	detections map[int64][]core.DetectionRecord
	detErr     error
	calls      int
}

func (f *fakeClient) DashboardStats(context.Context, string, string) (*core.DashboardStats, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeClient) DetectionStats(context.Context, string, string) (*core.DetectionStats, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeClient) ToolCallInsights(context.Context, string, string) (*core.ToolInsights, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeClient) MessageLogs(context.Context, core.LogQuery) (*core.PageResult, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeClient) DetectionsForRequest(_ context.Context, requestID int64) ([]core.DetectionRecord, error) {
	f.calls++
	if f.detErr != nil {
		return nil, f.detErr
	}
	return f.detections[requestID], nil
}

func (f *fakeClient) Backends(context.Context) ([]string, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeClient) Models(context.Context) ([]string, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeClient) ExportMessageLogs(context.Context, core.LogQuery) ([]core.ExportRecord, error) {
	return nil, errors.New("not implemented")
}

func testRecord(id int64) core.LogRecord {
	return core.LogRecord{
		ID:              id,
		Model:           "claude-sonnet-4",
		RequestBody:     `{"messages":[{"role":"user","content":"hi"}]}`,
		ResponseBody:    `{"content":"hello"}`,
		RequestHeaders:  `{"content-type":"application/json"}`,
		ResponseHeaders: `{"x-request-id":"abc"}`,
	}
}

func TestCardInitialState(t *testing.T) {
	card := NewCard(testRecord(1))
	pane := card.Pane()

	if pane.Primary != TabData || pane.Sub != SubRequest {
		t.Fatalf("initial tabs = %s/%s, want data/request", pane.Primary, pane.Sub)
	}
	if !pane.ShowSubTabs {
		t.Fatalf("sub-tabs hidden on initial data tab")
	}
	if !strings.Contains(pane.Text, `"role": "user"`) {
		t.Fatalf("request body not pretty-printed: %q", pane.Text)
	}
}

func TestCardSubTabSwitch(t *testing.T) {
	card := NewCard(testRecord(1))
	if err := card.SelectSub(SubResponse); err != nil {
		t.Fatalf("select sub: %v", err)
	}

	pane := card.Pane()
	if !strings.Contains(pane.Text, `"content": "hello"`) {
		t.Fatalf("response body not shown: %q", pane.Text)
	}

	needsFetch, err := card.SelectPrimary(TabHeaders)
	if err != nil || needsFetch {
		t.Fatalf("headers tab: needsFetch=%v err=%v", needsFetch, err)
	}
	// Sub-tab selection survives the primary switch.
	pane = card.Pane()
	if !strings.Contains(pane.Text, "x-request-id") {
		t.Fatalf("response headers not shown: %q", pane.Text)
	}
}

func TestCardInvalidTabsRejected(t *testing.T) {
	card := NewCard(testRecord(1))
	if _, err := card.SelectPrimary("summary"); err == nil {
		t.Fatalf("expected error for invalid primary tab")
	}
	if err := card.SelectSub("sideways"); err == nil {
		t.Fatalf("expected error for invalid sub-tab")
	}
}

func TestDetectionsTabHidesSubTabs(t *testing.T) {
	card := NewCard(testRecord(1))
	needsFetch, err := card.SelectPrimary(TabDetections)
	if err != nil {
		t.Fatalf("select detections: %v", err)
	}
	if !needsFetch {
		t.Fatalf("detections tab should require a fetch")
	}

	pane := card.Pane()
	if pane.ShowSubTabs {
		t.Fatalf("sub-tabs shown on detections tab")
	}
	if pane.FetchState != FetchLoading {
		t.Fatalf("fetch state = %s, want loading", pane.FetchState)
	}
}

func TestDetectionsFetchSuccess(t *testing.T) {
	client := &fakeClient{detections: map[int64][]core.DetectionRecord{
		1: {{PatternName: "email", PatternType: "regex", Placeholder: "[EMAIL-1]", MessageIndex: 2}},
	}}
	card := NewCard(testRecord(1))
	card.SelectPrimary(TabDetections)
	card.FetchDetections(context.Background(), client)

	pane := card.Pane()
	if pane.FetchState != FetchLoaded {
		t.Fatalf("fetch state = %s, want loaded", pane.FetchState)
	}
	if len(pane.Detections) != 1 || pane.Detections[0].PatternName != "email" {
		t.Fatalf("unexpected detections: %+v", pane.Detections)
	}
}

func TestDetectionsFetchEmpty(t *testing.T) {
	card := NewCard(testRecord(1))
	card.SelectPrimary(TabDetections)
	card.FetchDetections(context.Background(), &fakeClient{})

	pane := card.Pane()
	if pane.FetchState != FetchLoaded {
		t.Fatalf("fetch state = %s, want loaded", pane.FetchState)
	}
	if pane.Text != "No detections for this request" {
		t.Fatalf("empty detections text = %q", pane.Text)
	}
}

func TestDetectionsFetchFailureStaysLocal(t *testing.T) {
	page := NewPage(&fakeClient{detErr: errors.New("core unavailable")}, []core.LogRecord{testRecord(1), testRecord(2)})

	pane, err := page.SelectTab(context.Background(), 1, TabDetections)
	if err != nil {
		t.Fatalf("select tab: %v", err)
	}
	if pane.FetchState != FetchFailed || pane.Error != "core unavailable" {
		t.Fatalf("failed pane = %+v", pane)
	}

	// The other card is untouched.
	other, _ := page.Card(2)
	if got := other.Pane(); got.Primary != TabData || got.Error != "" {
		t.Fatalf("sibling card affected: %+v", got)
	}
}

func TestReselectingDetectionsRefetches(t *testing.T) {
	client := &fakeClient{}
	page := NewPage(client, []core.LogRecord{testRecord(1)})

	page.SelectTab(context.Background(), 1, TabDetections)
	page.SelectTab(context.Background(), 1, TabData)
	page.SelectTab(context.Background(), 1, TabDetections)

	if client.calls != 2 {
		t.Fatalf("expected 2 detection fetches, got %d", client.calls)
	}
}

func TestPageUnknownRecord(t *testing.T) {
	page := NewPage(&fakeClient{}, nil)
	if _, err := page.SelectTab(context.Background(), 42, TabData); err == nil {
		t.Fatalf("expected error for unknown record")
	}
	if _, err := page.SelectSubTab(42, SubResponse); err == nil {
		t.Fatalf("expected error for unknown record")
	}
}

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		action int
		want   string
	}{
		{core.DLPActionPassed, "Passed"},
		{core.DLPActionRedacted, "Redacted"},
		{core.DLPActionBlocked, "Blocked"},
		{core.DLPActionRatelimited, "Ratelimited"},
		{core.DLPActionNotifyRatelimit, "Notify-Ratelimit"},
		{99, "Passed"},
	}
	for _, tt := range tests {
		if got := StatusLabel(tt.action); got != tt.want {
			t.Fatalf("StatusLabel(%d) = %q, want %q", tt.action, got, tt.want)
		}
	}
}

func TestPrettyPrint(t *testing.T) {
	if got := prettyPrint(""); got != "null" {
		t.Fatalf("empty content = %q, want null", got)
	}
	if got := prettyPrint("not json {"); got != "not json {" {
		t.Fatalf("unparseable content changed: %q", got)
	}
	if got := prettyPrint(`{"a":1}`); got != "{\n  \"a\": 1\n}" {
		t.Fatalf("indent output = %q", got)
	}
}

func TestCopyDataPairsBothDirections(t *testing.T) {
	card := NewCard(testRecord(1))
	text, err := card.CopyPayload()
	if err != nil {
		t.Fatalf("copy: %v", err)
	}

	var pair struct {
		Request  map[string]interface{} `json:"request"`
		Response map[string]interface{} `json:"response"`
	}
	if err := json.Unmarshal([]byte(text), &pair); err != nil {
		t.Fatalf("copy payload is not valid JSON: %v", err)
	}
	if _, ok := pair.Request["messages"]; !ok {
		t.Fatalf("request side missing: %v", pair.Request)
	}
	if pair.Response["content"] != "hello" {
		t.Fatalf("response side wrong: %v", pair.Response)
	}
}

func TestCopyUnparseableBodyBecomesEmptyObject(t *testing.T) {
	rec := testRecord(1)
	rec.RequestBody = "garbage {"
	card := NewCard(rec)

	text, err := card.CopyPayload()
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	var pair struct {
		Request map[string]interface{} `json:"request"`
	}
	if err := json.Unmarshal([]byte(text), &pair); err != nil {
		t.Fatalf("copy payload is not valid JSON: %v", err)
	}
	if len(pair.Request) != 0 {
		t.Fatalf("unparseable body should copy as empty object, got %v", pair.Request)
	}
}

func TestCopyDetectionsAfterFailureIsEmptyList(t *testing.T) {
	card := NewCard(testRecord(1))
	card.SelectPrimary(TabDetections)
	card.FetchDetections(context.Background(), &fakeClient{detErr: errors.New("down")})

	text, err := card.CopyPayload()
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if strings.TrimSpace(text) != "[]" {
		t.Fatalf("expected empty list, got %q", text)
	}
}
