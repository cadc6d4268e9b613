package apperr

import (
	"net/http"
	"time"
)

// Envelope is the body of every error response: {"error": {...}}.
type Envelope struct {
	Error Payload `json:"error"`
}

// Payload is the rendered error object.
type Payload struct {
	Name      string       `json:"name"`
	Type      string       `json:"type"`
	Message   string       `json:"message"`
	Errors    []FieldError `json:"errors,omitempty"`
	ExpiredAt *time.Time   `json:"expiredAt,omitempty"`
	Date      *time.Time   `json:"date,omitempty"`
}

// Render maps err to an HTTP status and response body. Unknown errors render
// as a generic 500 without any detail of the cause.
func Render(err error) (int, Envelope) {
	ae, ok := As(err)
	if !ok {
		return http.StatusInternalServerError, Envelope{Error: Payload{
			Name:    "Error",
			Type:    "internal",
			Message: "Internal Server Error",
		}}
	}

	p := Payload{
		Name:    ae.Kind.Name(),
		Type:    ae.Kind.Tag(),
		Message: ae.Message,
	}
	switch ae.Kind {
	case KindValidation:
		p.Errors = ae.Fields
		if p.Errors == nil {
			p.Errors = []FieldError{}
		}
	case KindTokenExpired:
		if !ae.At.IsZero() {
			at := ae.At.UTC()
			p.ExpiredAt = &at
		}
	case KindTokenNotActive:
		if !ae.At.IsZero() {
			at := ae.At.UTC()
			p.Date = &at
		}
	case KindPersistence:
		// storage details stay in the logs
		p.Message = "Internal Server Error"
	}
	return ae.Status(), Envelope{Error: p}
}
