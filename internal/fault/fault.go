package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a failed capture or dispatch cycle. Everything below
// the control loop translates its failures into one of these before
// they reach the error handler.
type Kind string

const (
	// ListenTimeout: no speech started within the capture wait window.
	ListenTimeout Kind = "listen_timeout"
	// RecognitionError: speech was captured but could not be understood.
	RecognitionError Kind = "recognition_error"
	// ConnectionError: a remote collaborator is unreachable.
	ConnectionError Kind = "connection_error"
	// Unclassified: anything that could not be translated.
	Unclassified Kind = "unclassified"
)

type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf reports the kind carried by err, or Unclassified when err was
// never translated.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return Unclassified
}
