// Package outcome classifies command results into the four kinds callers see:
// Success, Error, NotFound and InvalidPayload.
package outcome

import "errors"

type Kind string

const (
	Success        Kind = "Success"
	Error          Kind = "Error"
	NotFound       Kind = "NotFound"
	InvalidPayload Kind = "InvalidPayload"
)

// Base sentinels. Each bounded context wraps these in its own errors so that
// adapters can classify failures without importing every context.
var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidPayload = errors.New("invalid payload")
)

// Message is the discriminated result returned on failure.
type Message struct {
	Kind Kind   `json:"kind"`
	Text string `json:"message"`
}

// Of classifies err. A nil error is a Success.
func Of(err error) Kind {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, ErrInvalidPayload):
		return InvalidPayload
	case errors.Is(err, ErrNotFound):
		return NotFound
	default:
		return Error
	}
}

func FromError(err error) Message {
	if err == nil {
		return Message{Kind: Success}
	}
	return Message{Kind: Of(err), Text: err.Error()}
}
