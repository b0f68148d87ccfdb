package archive

import (
	"fmt"

	"github.com/nhle/taskdesk/internal/model"
)

// ErrNoOwner is returned when an archive operation is attempted without an
// authenticated owner. Nothing is read or written.
var ErrNoOwner = model.ErrNoOwner

// ReadError reports that the tasks or projects needed for selection could
// not be loaded. The invocation aborts before any mutation.
type ReadError struct {
	What string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.What, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Inconsistency is a task whose archive record was written but whose
// active copy could not be deleted. The task is visible in both sets until
// the next run deletes the active copy, reusing the existing record, or the
// user deletes it manually.
type Inconsistency struct {
	TaskID     string
	ArchivedID string
	Err        error
}

func (i Inconsistency) Error() string {
	return fmt.Sprintf("task %s archived as %s but not removed: %v", i.TaskID, i.ArchivedID, i.Err)
}

// Failure is a task whose archive record could not be written. The active
// task is untouched and will be picked up again by the next run.
type Failure struct {
	TaskID string
	Err    error
}

func (f Failure) Error() string {
	return fmt.Sprintf("archiving task %s: %v", f.TaskID, f.Err)
}
