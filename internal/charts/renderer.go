package charts

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Handle identifies one live visualization instance. Handles are owned by
// the Registry and never leave it except for destruction.
type Handle string

// SeriesType selects the visual form of one series.
type SeriesType string

const (
	SeriesBar  SeriesType = "bar"
	SeriesLine SeriesType = "line"
	SeriesRing SeriesType = "ring"
)

// Segment is one proportional slice of a ring series.
type Segment struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
}

// Series is one data series of a chart.
type Series struct {
	Name     string     `json:"name"`
	Type     SeriesType `json:"type"`
	Stack    string     `json:"stack,omitempty"`
	Points   []float64  `json:"points,omitempty"`
	Segments []Segment  `json:"segments,omitempty"`
}

// SegmentMeta resolves a flattened outer-ring index back to its hierarchy.
type SegmentMeta struct {
	Tool   string `json:"tool"`
	Target string `json:"target"`
}

// Spec is everything a renderer needs to draw one chart.
type Spec struct {
	Key    string        `json:"key"`
	Title  string        `json:"title"`
	Labels []string      `json:"labels,omitempty"`
	Series []Series      `json:"series"`
	Meta   []SegmentMeta `json:"meta,omitempty"`
}

// Renderer is the rendering port. The console drives chart lifecycles
// through it without knowing the visualization library behind it.
type Renderer interface {
	Create(spec Spec) (Handle, error)
	Destroy(h Handle) error
}

// SpecSource lets callers read back the spec a handle was created from.
type SpecSource interface {
	Spec(h Handle) (Spec, bool)
}

// SpecRenderer is the default renderer: it keeps the created specs in memory
// keyed by handle so the attached UI surface can fetch and draw them.
type SpecRenderer struct {
	mu    sync.RWMutex
	specs map[Handle]Spec
}

// NewSpecRenderer creates an empty spec renderer.
func NewSpecRenderer() *SpecRenderer {
	return &SpecRenderer{specs: make(map[Handle]Spec)}
}

// Create records the spec under a fresh handle.
func (r *SpecRenderer) Create(spec Spec) (Handle, error) {
	if spec.Key == "" {
		return "", fmt.Errorf("chart spec has no key")
	}
	h := Handle(uuid.New().String())
	r.mu.Lock()
	r.specs[h] = spec
	r.mu.Unlock()
	return h, nil
}

// Destroy forgets the instance behind the handle.
func (r *SpecRenderer) Destroy(h Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.specs[h]; !ok {
		return fmt.Errorf("unknown chart handle: %s", h)
	}
	delete(r.specs, h)
	return nil
}

// Spec returns the spec behind a live handle.
func (r *SpecRenderer) Spec(h Handle) (Spec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spec, ok := r.specs[h]
	return spec, ok
}

// Live reports the number of live instances. Used by health reporting.
func (r *SpecRenderer) Live() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.specs)
}
