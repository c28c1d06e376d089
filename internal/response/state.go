// Package response models the lifecycle of a single fetch as a stream of states.
package response

// State is one emission of a fetch stream. The only implementations are
// Loading, Success and Error; the unexported marker keeps the set closed.
type State[T any] interface {
	isState()
}

// Loading signals that a fetch has started
type Loading[T any] struct{}

// Success is the terminal state carrying the fetched data
type Success[T any] struct {
	Data T
}

// Error is the terminal state of a failed fetch. Data optionally carries
// a partial result; nil when there is none.
type Error[T any] struct {
	Err  error
	Data *T
}

func (Loading[T]) isState() {}
func (Success[T]) isState() {}
func (Error[T]) isState()   {}

// Name returns "loading", "success" or "error"
func Name[T any](s State[T]) string {
	switch s.(type) {
	case Loading[T]:
		return "loading"
	case Success[T]:
		return "success"
	case Error[T]:
		return "error"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether s ends a stream
func IsTerminal[T any](s State[T]) bool {
	switch s.(type) {
	case Success[T], Error[T]:
		return true
	default:
		return false
	}
}
