// Package render maps an item's component tag to the function that draws it.
package render

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/CrestNiraj12/pagedlist/domain"
)

// Renderer draws one item as terminal text no wider than width.
type Renderer interface {
	Render(item domain.Item, index, width int, selected bool) string
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(item domain.Item, index, width int, selected bool) string

// Render calls f.
func (f RendererFunc) Render(item domain.Item, index, width int, selected bool) string {
	return f(item, index, width, selected)
}

// Registry resolves component tags to renderers.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
	warned    map[string]struct{} // Misconfigured items already logged
	log       zerolog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(log zerolog.Logger) *Registry {
	return &Registry{
		renderers: make(map[string]Renderer),
		warned:    make(map[string]struct{}),
		log:       log,
	}
}

// Register binds tag to r, replacing any previous binding.
func (r *Registry) Register(tag string, rr Renderer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renderers[tag] = rr
}

// Lookup returns the renderer bound to tag.
func (r *Registry) Lookup(tag string) (Renderer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rr, ok := r.renderers[tag]
	return rr, ok
}

// Tags lists the registered tags in no particular order.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.renderers))
	for tag := range r.renderers {
		out = append(out, tag)
	}
	return out
}

// Render draws item. Items without a tag or with an unknown tag yield an
// error; callers skip them and carry on with the rest. Each such item is
// logged once, however often it is drawn.
func (r *Registry) Render(item domain.Item, index, width int, selected bool) (string, error) {
	rr, err := r.resolve(item, index)
	if err != nil {
		return "", err
	}
	return rr.Render(item, index, width, selected), nil
}

// Check reports whether item can be drawn without rendering it.
func (r *Registry) Check(item domain.Item, index int) error {
	_, err := r.resolve(item, index)
	return err
}

func (r *Registry) resolve(item domain.Item, index int) (Renderer, error) {
	key := item.Key(index)
	if item.Component == "" {
		if r.firstWarning(key) {
			r.log.Warn().
				Str("key", key).
				Int("index", index).
				Msg("item has no component tag; skipping")
		}
		return nil, fmt.Errorf("item %s: %w", key, domain.ErrMisconfiguredItem)
	}
	rr, ok := r.Lookup(item.Component)
	if !ok {
		if r.firstWarning(key + "/" + item.Component) {
			r.log.Warn().
				Str("key", key).
				Str("component", item.Component).
				Msg("no renderer for component; skipping")
		}
		return nil, fmt.Errorf("item %s: %w: %q", key, domain.ErrUnknownComponent, item.Component)
	}
	return rr, nil
}

// firstWarning records key and reports whether it was new.
func (r *Registry) firstWarning(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.warned[key]; ok {
		return false
	}
	r.warned[key] = struct{}{}
	return true
}
