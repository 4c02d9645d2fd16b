// Package errors renders command failures as RFC 7807 Problem Details.
package errors

import (
	"fmt"
	"net/http"

	"github.com/Apurer/agrovet-registry/internal/shared/outcome"
)

// ProblemDetail represents an RFC 7807 Problem Details response.
// See: https://www.rfc-editor.org/rfc/rfc7807
type ProblemDetail struct {
	// Type is a URI reference that identifies the problem type.
	Type string `json:"type"`
	// Title is a short, human-readable summary of the problem type.
	Title string `json:"title"`
	// Status is the HTTP status code for this occurrence.
	Status int `json:"status"`
	// Detail is a human-readable explanation specific to this occurrence.
	Detail string `json:"detail,omitempty"`
	// Instance is a URI reference that identifies the specific occurrence.
	Instance string `json:"instance,omitempty"`
	// Extensions holds additional problem-specific properties.
	Extensions map[string]any `json:"extensions,omitempty"`
}

func (p ProblemDetail) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s: %s", p.Title, p.Detail)
	}
	return p.Title
}

// WithDetail returns a copy with the given detail message.
func (p ProblemDetail) WithDetail(detail string) ProblemDetail {
	p.Detail = detail
	return p
}

// WithExtension returns a copy with an additional extension property.
// The receiver's extension map is never mutated.
func (p ProblemDetail) WithExtension(key string, value any) ProblemDetail {
	ext := make(map[string]any, len(p.Extensions)+1)
	for k, v := range p.Extensions {
		ext[k] = v
	}
	ext[key] = value
	p.Extensions = ext
	return p
}

const (
	TypeInvalidPayload = "/problems/invalid-payload"
	TypeNotFound       = "/problems/not-found"
	TypeInternal       = "/problems/internal-error"
	TypeBadRequest     = "/problems/bad-request"
)

var (
	// ErrInvalidPayload is a command rejected by field or reference validation.
	ErrInvalidPayload = ProblemDetail{
		Type:   TypeInvalidPayload,
		Title:  "Invalid Payload",
		Status: http.StatusBadRequest,
	}

	// ErrNotFound indicates the requested record or collection is absent.
	ErrNotFound = ProblemDetail{
		Type:   TypeNotFound,
		Title:  "Resource Not Found",
		Status: http.StatusNotFound,
	}

	// ErrBadRequest indicates the request could not be decoded.
	ErrBadRequest = ProblemDetail{
		Type:   TypeBadRequest,
		Title:  "Bad Request",
		Status: http.StatusBadRequest,
	}

	// ErrInternal indicates a storage or infrastructure failure.
	ErrInternal = ProblemDetail{
		Type:   TypeInternal,
		Title:  "Internal Server Error",
		Status: http.StatusInternalServerError,
	}
)

// FromOutcome builds the problem for a failed command. The outcome kind is
// carried in the "outcome" extension so clients can branch on it directly.
func FromOutcome(msg outcome.Message) ProblemDetail {
	var base ProblemDetail
	switch msg.Kind {
	case outcome.InvalidPayload:
		base = ErrInvalidPayload
	case outcome.NotFound:
		base = ErrNotFound
	default:
		base = ErrInternal
	}
	return base.WithDetail(msg.Text).WithExtension("outcome", string(msg.Kind))
}
