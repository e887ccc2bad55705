package paging

// State is the loading state of one list.
type State struct {
	Refreshing  bool // A refresh fetch is in flight
	HasMore     bool // The last fetch suggested more data exists
	LoadingMore bool // An incremental fetch is in flight

	// Gen increments on every Reset. Incremental completions carry the Gen
	// they were started under and are ignored once it moves on.
	Gen uint64
}

// Initial is the state of a freshly built list.
func Initial() State {
	return State{HasMore: true}
}

// Action is a state transition request. See Config.Reduce.
type Action interface {
	action()
}

// RequestLoadMore asks to start an incremental fetch.
type RequestLoadMore struct{}

// FetchSucceeded completes an incremental fetch.
type FetchSucceeded struct {
	Gen         uint64
	Count       int
	NotSequence bool // The fetcher returned no list at all
}

// FetchFailed completes an incremental fetch with an error.
type FetchFailed struct {
	Gen uint64
}

// Refresh asks to start a refresh fetch.
type Refresh struct{}

// RefreshComplete completes a refresh fetch.
type RefreshComplete struct {
	Count       int
	NotSequence bool
	Failed      bool
}

// Reset clears the incremental guard and the exhausted flag.
type Reset struct{}

func (RequestLoadMore) action() {}
func (FetchSucceeded) action()  {}
func (FetchFailed) action()     {}
func (Refresh) action()         {}
func (RefreshComplete) action() {}
func (Reset) action()           {}

// Reduce applies a to s. The bool reports whether the action was accepted;
// a rejected action returns s unchanged.
//
// RequestLoadMore is the in-flight guard: checking LoadingMore and setting it
// happen in this one call, so callers serialising Reduce can never start two
// incremental fetches.
func (c Config) Reduce(s State, a Action) (State, bool) {
	switch a := a.(type) {
	case RequestLoadMore:
		if s.LoadingMore || !s.HasMore {
			return s, false
		}
		s.LoadingMore = true
		return s, true

	case FetchSucceeded:
		if a.Gen != s.Gen {
			return s, false
		}
		s.LoadingMore = false
		s.HasMore = c.hasMore(a.Count, a.NotSequence)
		return s, true

	case FetchFailed:
		if a.Gen != s.Gen {
			return s, false
		}
		s.LoadingMore = false
		return s, true

	case Refresh:
		if s.Refreshing {
			return s, false
		}
		s.Refreshing = true
		s.HasMore = true
		return s, true

	case RefreshComplete:
		s.Refreshing = false
		if !a.Failed {
			s.HasMore = c.hasMore(a.Count, a.NotSequence)
		}
		return s, true

	case Reset:
		s.LoadingMore = false
		s.HasMore = true
		s.Gen++
		return s, true
	}
	return s, false
}

func (c Config) hasMore(count int, notSequence bool) bool {
	return !notSequence && count >= c.PageSize
}
