package status_watcher

import "github.com/NordCoder/homework-watcher/internal/domain/review"

type OutcomeKind int

const (
	OutcomeNoUpdate OutcomeKind = iota
	OutcomeUpdate
	OutcomeError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeNoUpdate:
		return "no_update"
	case OutcomeUpdate:
		return "update"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// Outcome is the result of one poll cycle.
// Text is the message sent for OutcomeUpdate; Err is set for OutcomeError.
type Outcome struct {
	Kind OutcomeKind
	Text string
	Err  error
}

// FailureKind returns the review error kind of an OutcomeError.
func (o Outcome) FailureKind() review.Kind {
	if o.Kind != OutcomeError {
		return review.KindUnknown
	}
	return review.KindOf(o.Err)
}
