package review

import "time"

type Status string

const (
	StatusApproved  Status = "approved"
	StatusReviewing Status = "reviewing"
	StatusRejected  Status = "rejected"
)

// Known reports whether s is one of the statuses the review API documents.
func (s Status) Known() bool {
	switch s {
	case StatusApproved, StatusReviewing, StatusRejected:
		return true
	}
	return false
}

type Homework struct {
	Name   string `json:"homework_name"`
	Status Status `json:"status"`
}

// Payload is the decoded body of the review API.
// Homeworks is nil when the key is absent (or null) and empty when there are no updates.
type Payload struct {
	Homeworks   *[]Homework `json:"homeworks"`
	CurrentDate *int64      `json:"current_date"`
}

// StatusChange is the event mirrored to the event stream for every detected change.
type StatusChange struct {
	HomeworkName string    `json:"homework_name"`
	Status       Status    `json:"status"`
	Known        bool      `json:"known"`
	Message      string    `json:"message"`
	At           time.Time `json:"at"`
}
