package maint

import "fmt"

// Outcome classifies how a maintenance operation ended.
type Outcome int

const (
	// Success: the operation completed fully.
	Success Outcome = iota
	// Cancelled: the user cancelled before any live data changed.
	Cancelled
	// PartialFailure: restore passed the point of no return and some
	// staged items could not be moved into place.
	PartialFailure
	// Failed: the operation aborted; staging artifacts were cleaned up
	// and no live data changed (except as noted in the message).
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Cancelled:
		return "cancelled"
	case PartialFailure:
		return "partial"
	case Failed:
		return "error"
	}
	return "unknown"
}

// MoveError records one staged item that could not be moved into place
// during the final phase of restore.
type MoveError struct {
	Item  string
	Cause error
}

func (e MoveError) String() string {
	return fmt.Sprintf("%s: %v", e.Item, e.Cause)
}

// maxReportedMoveErrors bounds the error list shown to the user; the
// full detail always goes to the log.
const maxReportedMoveErrors = 8

// OpResult is the sole way a public operation reports back. Nothing
// from the core escapes as a fault: every entry point contains its own
// failures and turns them into one of these.
type OpResult struct {
	Outcome Outcome
	// Message is a user-facing summary.
	Message string
	// BadEntry names the archive entry that failed the integrity check,
	// when Outcome is Failed for that reason.
	BadEntry string
	// MoveErrors lists items that failed the move-into-place phase,
	// when Outcome is PartialFailure.
	MoveErrors []MoveError
}

func success(message string) OpResult {
	return OpResult{Outcome: Success, Message: message}
}

func cancelled(message string) OpResult {
	return OpResult{Outcome: Cancelled, Message: message}
}

func failed(message string) OpResult {
	return OpResult{Outcome: Failed, Message: message}
}

// Summary renders the result for display, truncating a long move-error
// list to the first few entries plus an overflow count.
func (r OpResult) Summary() string {
	if r.Outcome != PartialFailure || len(r.MoveErrors) == 0 {
		return r.Message
	}
	s := r.Message + "\n"
	n := len(r.MoveErrors)
	shown := n
	if shown > maxReportedMoveErrors {
		shown = maxReportedMoveErrors
	}
	for _, e := range r.MoveErrors[:shown] {
		s += "\n" + e.String()
	}
	if n > shown {
		s += fmt.Sprintf("\n...and %d more (see log)", n-shown)
	}
	return s
}
