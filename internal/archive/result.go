package archive

import "fmt"

// Outcome classifies a whole invocation for the single user notification.
type Outcome string

const (
	OutcomeNoop    Outcome = "noop"
	OutcomeSuccess Outcome = "success"
	OutcomePartial Outcome = "partial"
	OutcomeFailed  Outcome = "failed"
)

// Result is what one ArchivePastDue call did.
type Result struct {
	// Selected is the number of overdue tasks found in the active set.
	Selected int

	// Moved counts tasks that were both inserted into the archive and
	// deleted from the active set.
	Moved int

	Inconsistencies []Inconsistency
	Failures        []Failure
}

// Outcome summarizes the result.
func (r Result) Outcome() Outcome {
	switch {
	case r.Selected == 0:
		return OutcomeNoop
	case r.Moved == r.Selected:
		return OutcomeSuccess
	case r.Moved == 0 && len(r.Inconsistencies) == 0:
		return OutcomeFailed
	default:
		return OutcomePartial
	}
}

// Message is the one-line notification shown to the user for the call.
func (r Result) Message() string {
	switch r.Outcome() {
	case OutcomeNoop:
		return "No past-due tasks to archive."
	case OutcomeSuccess:
		return fmt.Sprintf("Archived %d past-due %s.", r.Moved, plural(r.Moved, "task", "tasks"))
	case OutcomeFailed:
		return fmt.Sprintf("Could not archive %d past-due %s; try again.", r.Selected, plural(r.Selected, "task", "tasks"))
	}

	msg := fmt.Sprintf("Archived %d of %d past-due tasks", r.Moved, r.Selected)
	if n := len(r.Inconsistencies); n > 0 {
		msg += fmt.Sprintf("; %d %s now in both active and archive", n, plural(n, "is", "are"))
	}
	if n := len(r.Failures); n > 0 {
		msg += fmt.Sprintf("; %d failed and will be retried", n)
	}
	return msg + "."
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
