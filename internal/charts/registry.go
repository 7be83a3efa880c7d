package charts

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Registry owns every live visualization instance. At most one instance
// exists per chart key, plus a single detachable full-screen slot rendered
// from already-loaded data.
type Registry struct {
	mu       sync.Mutex
	renderer Renderer
	charts   map[string]Handle
	fsKey    string
	fsHandle Handle
}

// NewRegistry creates a registry rendering through the given port.
func NewRegistry(renderer Renderer) *Registry {
	return &Registry{
		renderer: renderer,
		charts:   make(map[string]Handle),
	}
}

// Create instantiates a chart for the spec and records it under its key.
// An instance already tracked under the key is destroyed first.
func (g *Registry) Create(spec Spec) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if old, ok := g.charts[spec.Key]; ok {
		if err := g.renderer.Destroy(old); err != nil {
			log.Warn().Err(err).Str("chart", spec.Key).Msg("Failed to destroy stale chart instance")
		}
		delete(g.charts, spec.Key)
	}

	h, err := g.renderer.Create(spec)
	if err != nil {
		return fmt.Errorf("create chart %s: %w", spec.Key, err)
	}
	g.charts[spec.Key] = h
	return nil
}

// DestroyAll disposes every tracked instance, the full-screen one included,
// and clears the registry. Called at the start of every dashboard load so
// repeated navigation never leaks instances.
func (g *Registry) DestroyAll() {
	g.mu.Lock()
	defer g.mu.Unlock()

	for key, h := range g.charts {
		if err := g.renderer.Destroy(h); err != nil {
			log.Warn().Err(err).Str("chart", key).Msg("Failed to destroy chart instance")
		}
		delete(g.charts, key)
	}
	g.dismissFullscreenLocked()
}

// Expand creates the full-screen instance for a spec, replacing any
// previous one. The inline instance is untouched.
func (g *Registry) Expand(spec Spec) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.dismissFullscreenLocked()

	h, err := g.renderer.Create(spec)
	if err != nil {
		return fmt.Errorf("expand chart %s: %w", spec.Key, err)
	}
	g.fsKey = spec.Key
	g.fsHandle = h
	return nil
}

// DismissFullscreen destroys the full-screen instance, if any.
func (g *Registry) DismissFullscreen() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.dismissFullscreenLocked()
}

func (g *Registry) dismissFullscreenLocked() {
	if g.fsHandle == "" {
		return
	}
	if err := g.renderer.Destroy(g.fsHandle); err != nil {
		log.Warn().Err(err).Str("chart", g.fsKey).Msg("Failed to destroy full-screen chart instance")
	}
	g.fsKey = ""
	g.fsHandle = ""
}

// Spec returns the live spec for a chart key, when the renderer can read
// specs back.
func (g *Registry) Spec(key string) (Spec, bool) {
	g.mu.Lock()
	h, ok := g.charts[key]
	g.mu.Unlock()
	if !ok {
		return Spec{}, false
	}
	return g.resolve(h)
}

// FullscreenSpec returns the live full-screen spec, if one exists.
func (g *Registry) FullscreenSpec() (Spec, bool) {
	g.mu.Lock()
	h := g.fsHandle
	g.mu.Unlock()
	if h == "" {
		return Spec{}, false
	}
	return g.resolve(h)
}

func (g *Registry) resolve(h Handle) (Spec, bool) {
	src, ok := g.renderer.(SpecSource)
	if !ok {
		return Spec{}, false
	}
	return src.Spec(h)
}

// Size reports the number of tracked inline instances.
func (g *Registry) Size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.charts)
}

// Keys lists the tracked chart keys.
func (g *Registry) Keys() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	keys := make([]string, 0, len(g.charts))
	for k := range g.charts {
		keys = append(keys, k)
	}
	return keys
}
