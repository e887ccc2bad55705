package render

import (
	"sort"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog"

	"github.com/CrestNiraj12/pagedlist/domain"
	"github.com/CrestNiraj12/pagedlist/tui/common"
)

const (
	TagText   = "text"
	TagFields = "fields"
)

// Defaults returns a registry with the built-in renderers.
func Defaults(log zerolog.Logger) *Registry {
	r := NewRegistry(log)
	r.Register(TagText, RendererFunc(renderText))
	r.Register(TagFields, RendererFunc(renderFields))
	return r
}

// renderText shows the "title" field with an optional "body" line below.
func renderText(item domain.Item, index, width int, _ bool) string {
	title := singleLine(item.String("title"))
	if title == "" {
		title = item.Key(index)
	}
	out := common.ItemTitleStyle.Render(clip(title, width))
	if body := singleLine(item.String("body")); body != "" {
		out += "\n" + common.ItemBodyStyle.Render(clip(body, width))
	}
	return out
}

// renderFields shows every pass-through field as key=value, sorted by key.
func renderFields(item domain.Item, index, width int, _ bool) string {
	keys := make([]string, 0, len(item.Fields))
	for k := range item.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys)+1)
	parts = append(parts, common.FieldKeyStyle.Render(item.Key(index)))
	for _, k := range keys {
		parts = append(parts, common.FieldKeyStyle.Render(k+"=")+singleLine(item.String(k)))
	}
	return clip(strings.Join(parts, " "), width)
}

func clip(s string, width int) string {
	if width <= 0 {
		return s
	}
	return ansi.Truncate(s, width, "…")
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
