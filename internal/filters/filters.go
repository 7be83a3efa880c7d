package filters

import (
	"fmt"
	"sync"
)

// TimeRange is the window the remote queries aggregate over.
type TimeRange string

const (
	Range15m TimeRange = "15m"
	Range1h  TimeRange = "1h"
	Range6h  TimeRange = "6h"
	Range24h TimeRange = "24h"
	Range7d  TimeRange = "7d"
)

var validRanges = map[TimeRange]bool{
	Range15m: true,
	Range1h:  true,
	Range6h:  true,
	Range24h: true,
	Range7d:  true,
}

// Action filters log records by their DLP disposition.
type Action string

const (
	ActionAll             Action = "all"
	ActionPassed          Action = "passed"
	ActionRedacted        Action = "redacted"
	ActionBlocked         Action = "blocked"
	ActionRatelimited     Action = "ratelimited"
	ActionNotifyRatelimit Action = "notify-ratelimit"
)

var validActions = map[Action]bool{
	ActionAll:             true,
	ActionPassed:          true,
	ActionRedacted:        true,
	ActionBlocked:         true,
	ActionRatelimited:     true,
	ActionNotifyRatelimit: true,
}

// Criteria is the current query state for one view. Search is passed through
// to the core service unescaped; sanitization is the core's concern.
type Criteria struct {
	TimeRange TimeRange `json:"time_range"`
	Backend   string    `json:"backend"`
	Model     string    `json:"model"`
	DLPAction Action    `json:"dlp_action"`
	Search    string    `json:"search"`
	Page      int       `json:"page"`
}

// State holds one view's criteria for the lifetime of the session. Mutating
// any field other than the page snaps the page back to 0 so a changed result
// set is always browsed from the top.
type State struct {
	mu sync.Mutex
	c  Criteria
}

// NewState creates a state holding the default criteria.
func NewState() *State {
	return &State{c: defaultCriteria()}
}

func defaultCriteria() Criteria {
	return Criteria{
		TimeRange: Range1h,
		Backend:   "all",
		Model:     "all",
		DLPAction: ActionAll,
	}
}

// Criteria returns the current criteria by value.
func (s *State) Criteria() Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c
}

// SetTimeRange updates the time range and resets the page.
func (s *State) SetTimeRange(tr TimeRange) error {
	if !validRanges[tr] {
		return fmt.Errorf("invalid time range: %s", tr)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.TimeRange = tr
	s.c.Page = 0
	return nil
}

// SetBackend updates the backend filter and resets the page.
func (s *State) SetBackend(backend string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.Backend = backend
	s.c.Page = 0
}

// SetModel updates the model filter and resets the page.
func (s *State) SetModel(model string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.Model = model
	s.c.Page = 0
}

// SetDLPAction updates the action filter and resets the page.
func (s *State) SetDLPAction(a Action) error {
	if !validActions[a] {
		return fmt.Errorf("invalid dlp action: %s", a)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.DLPAction = a
	s.c.Page = 0
	return nil
}

// SetSearch updates the free-text search and resets the page.
func (s *State) SetSearch(search string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.Search = search
	s.c.Page = 0
}

// SetPage moves to the given page without touching the other fields.
func (s *State) SetPage(page int) {
	if page < 0 {
		page = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.Page = page
}

// Reset restores the default criteria.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c = defaultCriteria()
}
