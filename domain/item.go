package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Item is one record of a paged list. Records are owned by the caller; the
// pager only counts them.
type Item struct {
	ID        *int64         // Optional identity, unique within a sequence
	Component string         // Renderer tag
	Fields    map[string]any // Everything else, passed through to the renderer
}

// NewItem builds an item with a numeric identity.
func NewItem(id int64, component string, fields map[string]any) Item {
	return Item{ID: &id, Component: component, Fields: fields}
}

// Key identifies the item within its sequence. Without an ID the positional
// index is used, which is not stable across insertions.
func (it Item) Key(index int) string {
	if it.ID != nil {
		return "id:" + strconv.FormatInt(*it.ID, 10)
	}
	return "idx:" + strconv.Itoa(index)
}

// Field returns a pass-through field.
func (it Item) Field(name string) (any, bool) {
	v, ok := it.Fields[name]
	return v, ok
}

// String returns a pass-through field formatted as text, or "" if absent.
func (it Item) String(name string) string {
	v, ok := it.Fields[name]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// UnmarshalJSON reads a flat object: "id" and "component" are lifted out,
// every other key lands in Fields. A non-integer id stays in Fields.
func (it *Item) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decoding item: %w", err)
	}
	if raw == nil {
		return fmt.Errorf("decoding item: expected object")
	}

	*it = Item{}
	if c, ok := raw["component"].(string); ok {
		it.Component = c
		delete(raw, "component")
	}
	if n, ok := raw["id"].(json.Number); ok {
		if id, err := n.Int64(); err == nil {
			it.ID = &id
			delete(raw, "id")
		}
	}
	if len(raw) > 0 {
		it.Fields = raw
	}
	return nil
}

// MarshalJSON writes the item back as a flat object.
func (it Item) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(it.Fields)+2)
	for k, v := range it.Fields {
		out[k] = v
	}
	if it.ID != nil {
		out["id"] = *it.ID
	}
	if it.Component != "" {
		out["component"] = it.Component
	}
	return json.Marshal(out)
}
