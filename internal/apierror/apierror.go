// Package apierror provides the error types shared by the checkout core, the
// backend client and the local API. Every failure the UI can see carries a
// Kind so the surface can decide between an inline warning and a modal
// without parsing messages.
package apierror

import (
	"errors"
	"net/http"
)

// APIError is the canonical error envelope for all 4xx/5xx responses of the
// local API.
type APIError struct {
	Detail string `json:"detail"`
	Kind   Kind   `json:"kind,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Validation error", Fields: fields}
}

// Kind classifies a client-side failure.
type Kind string

const (
	// KindValidation: bad user input, never sent to the network.
	KindValidation Kind = "validation"
	// KindNetwork: unreachable server or unparseable response.
	KindNetwork Kind = "network"
	// KindBusiness: the backend rejected the request with its own message.
	KindBusiness Kind = "business"
	// KindStock: the soft client-side stock guard blocked an add.
	KindStock Kind = "stock"
	// KindDuplicate: a scanned tag is still in the cart.
	KindDuplicate Kind = "duplicate"
	// KindNotFound: a line, product or transaction does not exist.
	KindNotFound Kind = "not_found"
)

// Error is a categorized failure. Message is safe to show to the cashier.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }

func Network(msg string, err error) *Error { return &Error{Kind: KindNetwork, Message: msg, Err: err} }

func Business(msg string) *Error { return &Error{Kind: KindBusiness, Message: msg} }

func Stock(msg string) *Error { return &Error{Kind: KindStock, Message: msg} }

func Duplicate(msg string) *Error { return &Error{Kind: KindDuplicate, Message: msg} }

func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

// KindOf returns the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Message returns the user-facing message of err. Uncategorized errors get a
// generic message so internals never reach the screen.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Unexpected error"
}

// HTTPStatus maps a Kind to the status code used by the local API.
func HTTPStatus(k Kind) int {
	switch k {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindStock, KindDuplicate, KindBusiness:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
