package preview

// State represents the current state of a Session.
type State int32

const (
	// StateLoading indicates the Session has not yet delivered any preview.
	StateLoading State = iota

	// StateHealthy indicates the most recent authoritative job delivered its output.
	StateHealthy

	// StateDegraded indicates the most recent authoritative job failed to format.
	// The previously displayed preview remains visible.
	StateDegraded

	// StateEmpty indicates formatting failed and no preview has ever been
	// delivered. The display falls back to the raw source text.
	StateEmpty

	// StateFaulted indicates a configuration rollback failed. The store was
	// forced back to its durable state and the Session rejects requests
	// until Reset is called.
	StateFaulted
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateHealthy:
		return "healthy"
	case StateDegraded:
		return "degraded"
	case StateEmpty:
		return "empty"
	case StateFaulted:
		return "faulted"
	default:
		return "unknown"
	}
}
