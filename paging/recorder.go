package paging

import "time"

// FetchKind labels which path started a fetch.
type FetchKind string

const (
	KindInitial     FetchKind = "initial"
	KindIncremental FetchKind = "incremental"
	KindRefresh     FetchKind = "refresh"
)

// KindFor returns the kind of a load-more fetch.
func KindFor(initial bool) FetchKind {
	if initial {
		return KindInitial
	}
	return KindIncremental
}

// Recorder observes fetch activity. Implementations must be safe for
// concurrent use.
type Recorder interface {
	FetchStarted(kind FetchKind)
	FetchFinished(kind FetchKind, count int, err error, elapsed time.Duration)
	GuardRejected(kind FetchKind)
}

// NopRecorder discards everything.
type NopRecorder struct{}

func (NopRecorder) FetchStarted(FetchKind)                             {}
func (NopRecorder) FetchFinished(FetchKind, int, error, time.Duration) {}
func (NopRecorder) GuardRejected(FetchKind)                            {}

// EndReachedEvent is a scroll-near-end signal from a list.
type EndReachedEvent struct {
	Index int // Row that triggered the signal
	Count int // Items in the list at the time
}
