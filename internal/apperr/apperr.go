// Package apperr defines the closed set of error kinds the API can return and
// how each one is rendered on the wire.
//
// Every failure leaving a handler is either an *Error or something unknown;
// unknown errors always render as a generic 500. The HTTP status lives on the
// Go value only and is never part of the response body.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind is the machine-readable category of an error.
type Kind int

const (
	KindAuthMissing Kind = iota + 1
	KindAuthInvalid
	KindTokenExpired
	KindTokenNotActive
	KindMalformedSubject
	KindBadCredentials
	KindForbidden
	KindValidation
	KindNotFound
	KindMalformedID
	KindUnsupportedMediaType
	KindFileMissing
	KindInvalidFileType
	KindFileTooLarge
	KindTooManyRequests
	KindPersistence
)

// Kinds lists every defined kind in declaration order.
var Kinds = []Kind{
	KindAuthMissing,
	KindAuthInvalid,
	KindTokenExpired,
	KindTokenNotActive,
	KindMalformedSubject,
	KindBadCredentials,
	KindForbidden,
	KindValidation,
	KindNotFound,
	KindMalformedID,
	KindUnsupportedMediaType,
	KindFileMissing,
	KindInvalidFileType,
	KindFileTooLarge,
	KindTooManyRequests,
	KindPersistence,
}

type descriptor struct {
	status int
	tag    string
	name   string
}

func describe(k Kind) (descriptor, bool) {
	switch k {
	case KindAuthMissing:
		return descriptor{http.StatusUnauthorized, "authentication_missing", "UnauthorizedError"}, true
	case KindAuthInvalid:
		return descriptor{http.StatusUnauthorized, "authentication_invalid", "JsonWebTokenError"}, true
	case KindTokenExpired:
		return descriptor{http.StatusUnauthorized, "token_expired", "TokenExpiredError"}, true
	case KindTokenNotActive:
		return descriptor{http.StatusUnauthorized, "token_not_active", "NotBeforeError"}, true
	case KindMalformedSubject:
		return descriptor{http.StatusUnauthorized, "malformed_subject", "UnauthorizedError"}, true
	case KindBadCredentials:
		return descriptor{http.StatusUnauthorized, "bad_credentials", "UnauthorizedError"}, true
	case KindForbidden:
		return descriptor{http.StatusForbidden, "forbidden", "ForbiddenError"}, true
	case KindValidation:
		return descriptor{http.StatusBadRequest, "validation_failed", "ValidationError"}, true
	case KindNotFound:
		return descriptor{http.StatusNotFound, "not_found", "NotFoundError"}, true
	case KindMalformedID:
		return descriptor{http.StatusBadRequest, "malformed_identifier", "CastError"}, true
	case KindUnsupportedMediaType:
		return descriptor{http.StatusUnsupportedMediaType, "unsupported_media_type", "UnsupportedMediaTypeError"}, true
	case KindFileMissing:
		return descriptor{http.StatusBadRequest, "file_missing", "FileError"}, true
	case KindInvalidFileType:
		return descriptor{http.StatusBadRequest, "invalid_file_type", "FileError"}, true
	case KindFileTooLarge:
		return descriptor{http.StatusBadRequest, "file_too_large", "FileError"}, true
	case KindTooManyRequests:
		return descriptor{http.StatusTooManyRequests, "too_many_requests", "RateLimitError"}, true
	case KindPersistence:
		return descriptor{http.StatusInternalServerError, "persistence_failure", "DatabaseError"}, true
	}
	return descriptor{}, false
}

// Status returns the HTTP status code for k. Undefined kinds map to 500.
func (k Kind) Status() int {
	if d, ok := describe(k); ok {
		return d.status
	}
	return http.StatusInternalServerError
}

// Tag returns the stable type tag rendered in error bodies.
func (k Kind) Tag() string {
	if d, ok := describe(k); ok {
		return d.tag
	}
	return "internal"
}

// Name returns the display name rendered in error bodies.
func (k Kind) Name() string {
	if d, ok := describe(k); ok {
		return d.name
	}
	return "Error"
}

func (k Kind) String() string { return k.Tag() }

// FieldError locates one validation failure.
//
// Location is where the value came from ("body", "params", "form"); Path is a
// JSON-pointer-like path inside that location ("/heat") or a route parameter
// name (":id").
type FieldError struct {
	Location string `json:"location"`
	Path     string `json:"path"`
	Message  string `json:"message"`
}

// Error is a classified failure.
type Error struct {
	Kind    Kind
	Message string
	// Fields is set for KindValidation.
	Fields []FieldError
	// At is the expiry instant for KindTokenExpired and the activation
	// instant for KindTokenNotActive.
	At time.Time
	// Err is the underlying cause. It is logged, never rendered.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind.Tag(), e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind.Tag(), e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Status returns the HTTP status code of the error's kind.
func (e *Error) Status() int { return e.Kind.Status() }

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// IsKind reports whether err carries an *Error of kind k.
func IsKind(err error, k Kind) bool {
	ae, ok := As(err)
	return ok && ae.Kind == k
}

func AuthMissing() *Error {
	return &Error{Kind: KindAuthMissing, Message: "authorization header required"}
}

func AuthInvalid(msg string, cause error) *Error {
	return &Error{Kind: KindAuthInvalid, Message: msg, Err: cause}
}

func TokenExpired(expiredAt time.Time, cause error) *Error {
	return &Error{Kind: KindTokenExpired, Message: "token expired", At: expiredAt, Err: cause}
}

func TokenNotActive(date time.Time, cause error) *Error {
	return &Error{Kind: KindTokenNotActive, Message: "token not active", At: date, Err: cause}
}

func MalformedSubject() *Error {
	return &Error{Kind: KindMalformedSubject, Message: "token does not identify a user"}
}

func BadCredentials() *Error {
	return &Error{Kind: KindBadCredentials, Message: "incorrect email or password"}
}

func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// Validation builds a KindValidation error carrying every field failure.
func Validation(fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: "request validation failed", Fields: fields}
}

func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: resource + " not found"}
}

func MalformedID(id string) *Error {
	return &Error{Kind: KindMalformedID, Message: fmt.Sprintf("%q is not a valid identifier", id)}
}

func UnsupportedMediaType(contentType string) *Error {
	if contentType == "" {
		contentType = "none"
	}
	return &Error{Kind: KindUnsupportedMediaType, Message: "unsupported content type: " + contentType}
}

func FileMissing(field string) *Error {
	return &Error{Kind: KindFileMissing, Message: fmt.Sprintf("file %q is required", field)}
}

func InvalidFileType(contentType string) *Error {
	return &Error{Kind: KindInvalidFileType, Message: "invalid file type: " + contentType}
}

func FileTooLarge(size, max int64) *Error {
	return &Error{Kind: KindFileTooLarge, Message: fmt.Sprintf("file size too large: %d bytes (max: %d bytes)", size, max)}
}

func TooManyRequests() *Error {
	return &Error{Kind: KindTooManyRequests, Message: "too many requests"}
}

func Persistence(cause error) *Error {
	return &Error{Kind: KindPersistence, Message: "storage operation failed", Err: cause}
}
