package review

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindUnreachable
	KindMalformedPayload
	KindMissingKey
	KindMissingName
	KindMissingStatus
)

func (k Kind) String() string {
	switch k {
	case KindUnreachable:
		return "unreachable"
	case KindMalformedPayload:
		return "malformed_payload"
	case KindMissingKey:
		return "missing_key"
	case KindMissingName:
		return "missing_name"
	case KindMissingStatus:
		return "missing_status"
	default:
		return "unknown"
	}
}

// Error is a failure of one poll cycle. It never stops the loop.
type Error struct {
	Kind       Kind
	Detail     string
	StatusCode int
	Err        error
}

var (
	ErrUnreachable      = &Error{Kind: KindUnreachable}
	ErrMalformedPayload = &Error{Kind: KindMalformedPayload}
	ErrMissingKey       = &Error{Kind: KindMissingKey}
	ErrMissingName      = &Error{Kind: KindMissingName}
	ErrMissingStatus    = &Error{Kind: KindMissingStatus}
)

// Reason describes the failure without its underlying cause. Causes such as dial
// errors vary between attempts (resolved addresses, ports) while the reason stays put.
func (e *Error) Reason() string {
	if e.Detail == "" {
		return e.Kind.String()
	}
	return e.Detail
}

func (e *Error) Error() string {
	msg := e.Reason()
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrMissingKey) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// ReasonOf returns the stable reason of the first *Error in err's chain,
// or err's own text when there is none.
func ReasonOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason()
	}
	return err.Error()
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
