package session

import "cocktailnerd/internal/sanitize"

// Phase is the lifecycle position of the current or most recent request.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePending
	PhaseSucceeded
	PhaseFailed
)

// String returns the display name for each phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePending:
		return "pending"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// RequestState is a tagged value: Recommendation is only meaningful when
// Phase is PhaseSucceeded and ErrorMessage only when Phase is PhaseFailed.
type RequestState struct {
	Phase          Phase
	Recommendation sanitize.Recommendation
	ErrorMessage   string
}

// Idle is the state of a session that has not submitted anything yet.
func Idle() RequestState { return RequestState{Phase: PhaseIdle} }

// Pending is the state while a request is in flight.
func Pending() RequestState { return RequestState{Phase: PhasePending} }

// Succeeded holds a sanitized recommendation.
func Succeeded(rec sanitize.Recommendation) RequestState {
	return RequestState{Phase: PhaseSucceeded, Recommendation: rec}
}

// Failed holds a user-presentable error message.
func Failed(message string) RequestState {
	return RequestState{Phase: PhaseFailed, ErrorMessage: message}
}

// Snapshot is an immutable view of a session at one point in time.
type Snapshot struct {
	available CategorySet
	selection Selection
	query     string
	request   RequestState
	requestID string
	version   uint64
}

// Available returns the session vocabulary.
func (s Snapshot) Available() CategorySet { return s.available }

// Selection returns the selected categories.
func (s Snapshot) Selection() Selection { return s.selection }

// IsSelected reports whether c was selected when the snapshot was taken.
func (s Snapshot) IsSelected(c Category) bool { return s.selection.Contains(c) }

// Query returns the raw query text as the user typed it.
func (s Snapshot) Query() string { return s.query }

// Request returns the request lifecycle state.
func (s Snapshot) Request() RequestState { return s.request }

// RequestID identifies the current or most recent request; empty before the
// first submit.
func (s Snapshot) RequestID() string { return s.requestID }

// Version increases with every published state change.
func (s Snapshot) Version() uint64 { return s.version }

// Loading reports whether a request is in flight.
func (s Snapshot) Loading() bool { return s.request.Phase == PhasePending }

// HasError reports whether the most recent request failed.
func (s Snapshot) HasError() bool { return s.request.Phase == PhaseFailed }

// ErrorMessage returns the failure message, or "" when there is none.
func (s Snapshot) ErrorMessage() string {
	if s.request.Phase != PhaseFailed {
		return ""
	}
	return s.request.ErrorMessage
}

// Recommendation returns the latest recommendation, or nil unless the most
// recent request succeeded.
func (s Snapshot) Recommendation() *sanitize.Recommendation {
	if s.request.Phase != PhaseSucceeded {
		return nil
	}
	rec := s.request.Recommendation
	return &rec
}
