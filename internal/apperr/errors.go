// Package apperr holds the error kinds shared by the analyze and post
// endpoints. Every failure that reaches a handler is an *Error so it can be
// mapped onto an HTTP status and a user-facing message in one place.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindUnsupportedSource
	KindNotFound
	KindTransport
	KindUpstream
	KindDecode
	KindModelEmptyResponse
	KindInvalidModelOutput
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnsupportedSource:
		return "unsupported_source"
	case KindNotFound:
		return "not_found"
	case KindTransport:
		return "transport"
	case KindUpstream:
		return "upstream"
	case KindDecode:
		return "decode"
	case KindModelEmptyResponse:
		return "model_empty_response"
	case KindInvalidModelOutput:
		return "invalid_model_output"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind    Kind
	Message string
	// Status is the HTTP status reported by an upstream dependency, zero otherwise.
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func UnsupportedSource(msg string) *Error {
	return &Error{Kind: KindUnsupportedSource, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Transport(msg string, err error) *Error {
	return &Error{Kind: KindTransport, Message: msg, Err: err}
}

func Upstream(status int, msg string) *Error {
	return &Error{Kind: KindUpstream, Message: msg, Status: status}
}

func Decode(msg string, err error) *Error {
	return &Error{Kind: KindDecode, Message: msg, Err: err}
}

func ModelEmptyResponse(msg string) *Error {
	return &Error{Kind: KindModelEmptyResponse, Message: msg}
}

func InvalidModelOutput(msg string, err error) *Error {
	return &Error{Kind: KindInvalidModelOutput, Message: msg, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps an error onto the status code returned to callers.
// Upstream, transport, decode and model failures all surface as 500.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindUnsupportedSource:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the user-facing message carried by err, without the
// wrapped cause.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
