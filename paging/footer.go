package paging

// FooterState is what the list footer should show.
type FooterState int

const (
	FooterNone      FooterState = iota // Empty list, no footer
	FooterLoading                      // Incremental fetch in flight
	FooterLoadMore                     // Idle with more to load; activating it loads the next page
	FooterExhausted                    // Idle with nothing left
)

func (f FooterState) String() string {
	switch f {
	case FooterLoading:
		return "loading"
	case FooterLoadMore:
		return "load-more"
	case FooterExhausted:
		return "exhausted"
	default:
		return "none"
	}
}

// Footer selects the footer for s.
func Footer(s State, nonEmpty bool) FooterState {
	switch {
	case !nonEmpty:
		return FooterNone
	case s.LoadingMore:
		return FooterLoading
	case s.HasMore:
		return FooterLoadMore
	default:
		return FooterExhausted
	}
}

// Prompts holds the footer texts.
type Prompts struct {
	Loading  string
	LoadMore string
	NoMore   string
}

// DefaultPrompts returns the built-in English prompts.
func DefaultPrompts() Prompts {
	return Prompts{
		Loading:  "Loading…",
		LoadMore: "Load more",
		NoMore:   "All loaded",
	}
}

// WithDefaults fills empty prompts from DefaultPrompts.
func (p Prompts) WithDefaults() Prompts {
	d := DefaultPrompts()
	if p.Loading == "" {
		p.Loading = d.Loading
	}
	if p.LoadMore == "" {
		p.LoadMore = d.LoadMore
	}
	if p.NoMore == "" {
		p.NoMore = d.NoMore
	}
	return p
}

// Text returns the prompt for f, or "" for FooterNone.
func (p Prompts) Text(f FooterState) string {
	switch f {
	case FooterLoading:
		return p.Loading
	case FooterLoadMore:
		return p.LoadMore
	case FooterExhausted:
		return p.NoMore
	default:
		return ""
	}
}
