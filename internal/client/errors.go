package client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/campusai/teachassist/internal/domain/learning"
)

// ErrEmptyInput rejects a request locally, before any network call.
var ErrEmptyInput = errors.New("input is required")

const connectMessage = "failed to connect to the server"

// ConnectError is a transport failure: the backend was never reached or the
// connection broke before a response arrived.
type ConnectError struct {
	Op  string
	Err error
}

func (e *ConnectError) Error() string {
	if e == nil {
		return connectMessage
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, connectMessage, e.Err)
}

func (e *ConnectError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BackendError is a failure the backend declared: an ERROR or NOT_FOUND
// stage, an {error} payload, a non-2xx status or a malformed body.
type BackendError struct {
	Op      string
	Status  int
	Stage   learning.Stage
	Code    string
	Message string
}

func (e *BackendError) Error() string {
	if e == nil {
		return "backend error"
	}
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	if e.Stage != "" {
		b.WriteString(string(e.Stage))
		b.WriteString(": ")
	} else if e.Status != 0 {
		fmt.Fprintf(&b, "http %d: ", e.Status)
	}
	b.WriteString(e.Message)
	return b.String()
}

// NotFound reports a NOT_FOUND stage.
func (e *BackendError) NotFound() bool {
	return e != nil && e.Stage == learning.StageNotFound
}

// UserMessage is the text shown to a user for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ce *ConnectError
	if errors.As(err, &ce) {
		return connectMessage
	}
	var be *BackendError
	if errors.As(err, &be) && strings.TrimSpace(be.Message) != "" {
		return be.Message
	}
	if errors.Is(err, ErrEmptyInput) {
		return "Please fill in the required field."
	}
	return err.Error()
}
