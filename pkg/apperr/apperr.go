package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies application failures.
type Kind string

const (
	KindAuth            Kind = "AUTH_FAILED"
	KindNotFound        Kind = "NOT_FOUND"
	KindProfileNotFound Kind = "PROFILE_NOT_FOUND"
	KindDecode          Kind = "DECODE_FAILED"
	KindInsert          Kind = "INSERT_REJECTED"
	KindNetwork         Kind = "NETWORK_FAILURE"
	KindDelivery        Kind = "DELIVERY_FAILED"
)

// Error standardizes application errors.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New constructs an Error of the given kind.
func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Auth(message string, err error) error {
	return New(KindAuth, message, err)
}

func NotFound(resource string) error {
	return New(KindNotFound, fmt.Sprintf("%s not found", resource), nil)
}

func ProfileNotFound(userID string) error {
	return New(KindProfileNotFound, fmt.Sprintf("no profile row for user %s", userID), nil)
}

func Decode(message string, err error) error {
	return New(KindDecode, message, err)
}

func Insert(message string, err error) error {
	return New(KindInsert, message, err)
}

func Network(err error) error {
	return New(KindNetwork, "request failed", err)
}

func Delivery(message string, err error) error {
	return New(KindDelivery, message, err)
}

// KindOf extracts the Kind from err, or "" when err carries none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// IsKind reports whether err is an application error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
