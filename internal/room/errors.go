package room

import "errors"

// Kind classifies an operation failure so the transport layer can report
// it to the offending connection without disturbing room state.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindAuthorization Kind = "authorization"
	KindState         Kind = "state"
	KindRole          Kind = "role"
	KindSelfTarget    Kind = "self_target"
	KindNotFound      Kind = "not_found"
	KindToken         Kind = "token"
)

// Error is a recoverable room operation failure. It is returned to the
// caller and never broadcast.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func opErr(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

// KindOf returns the failure kind, or "" for non-room errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
