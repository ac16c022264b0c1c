package pipeline

import (
	"errors"
	"fmt"
)

// ErrTaskPanic is wrapped by TaskError when a task panicked.
var ErrTaskPanic = errors.New("task panicked")

// TaskError describes a task that failed outside the fetcher: a recovered
// panic, a cancelled context, or an extraction failure.
type TaskError struct {
	// URL is the seed the task was processing.
	URL string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *TaskError) Error() string {
	return fmt.Sprintf("task %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying error.
func (e *TaskError) Unwrap() error {
	return e.Err
}
