package status_watcher

import "github.com/NordCoder/homework-watcher/internal/domain/review"

// Validate checks the payload shape and picks the submission to report.
// ok is false when the payload carries no submissions at all.
// Only the first submission is considered; unknown statuses pass through untouched.
func Validate(p *review.Payload) (hw review.Homework, ok bool, err error) {
	if p == nil || p.Homeworks == nil {
		return review.Homework{}, false, &review.Error{
			Kind:   review.KindMissingKey,
			Detail: `invalid response: no "homeworks" key`,
		}
	}
	if len(*p.Homeworks) == 0 {
		return review.Homework{}, false, nil
	}

	hw = (*p.Homeworks)[0]
	if hw.Name == "" {
		return review.Homework{}, false, &review.Error{
			Kind:   review.KindMissingName,
			Detail: "homework name is not defined",
		}
	}
	if hw.Status == "" {
		return review.Homework{}, false, &review.Error{
			Kind:   review.KindMissingStatus,
			Detail: "homework status is not defined",
		}
	}
	return hw, true, nil
}
