package status_watcher

import (
	"fmt"

	"github.com/NordCoder/homework-watcher/internal/domain/review"
)

var verdicts = map[review.Status]string{
	review.StatusApproved:  "The work has been reviewed: the reviewer liked everything. Hooray!",
	review.StatusReviewing: "The work has been taken for review by the reviewer.",
	review.StatusRejected:  "The work has been reviewed: the reviewer found mistakes.",
}

// Render turns a submission status into the chat message.
func Render(name string, status review.Status) string {
	verdict, ok := verdicts[status]
	if !ok {
		return fmt.Sprintf("Unknown status - %s", status)
	}
	return fmt.Sprintf(`Changed status of submission "%s". %s`, name, verdict)
}
