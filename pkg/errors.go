package soaprouter

import (
	"fmt"
	"net/http"
)

// Error codes for the router's transport/parse error domain (spec §7
// domain 1: malformed XML, non-SOAP root, missing Body).
const (
	ErrCodeMalformedXML    = "MALFORMED_XML"
	ErrCodeNotSoapEnvelope = "NOT_SOAP_ENVELOPE"
	ErrCodeMissingBody     = "MISSING_BODY"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// RouterError is the router's typed error, in the shape of the
// ambient framework's FrameworkError: a stable code, a human message,
// the HTTP status it maps to, and an optional wrapped cause.
type RouterError struct {
	Code       string
	Message    string
	StatusCode int
	Cause      error
}

func (e *RouterError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *RouterError) Unwrap() error { return e.Cause }

// WithCause attaches an underlying error and returns the receiver.
func (e *RouterError) WithCause(cause error) *RouterError {
	e.Cause = cause
	return e
}

// NewMalformedXMLError reports that the request body did not parse as
// well-formed XML.
func NewMalformedXMLError(cause error) *RouterError {
	return &RouterError{
		Code:       ErrCodeMalformedXML,
		Message:    "request body is not well-formed XML",
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewNotSoapEnvelopeError reports that the parsed document's root is
// not a SOAP 1.2 Envelope.
func NewNotSoapEnvelopeError() *RouterError {
	return &RouterError{
		Code:       ErrCodeNotSoapEnvelope,
		Message:    "request root element is not an env:Envelope in the SOAP 1.2 namespace",
		StatusCode: http.StatusBadRequest,
	}
}

// NewMissingBodyError reports that the envelope has no Body child.
func NewMissingBodyError() *RouterError {
	return &RouterError{
		Code:       ErrCodeMissingBody,
		Message:    "SOAP envelope has no env:Body child",
		StatusCode: http.StatusBadRequest,
	}
}

// NewInternalError wraps an unexpected error as a 500.
func NewInternalError(cause error) *RouterError {
	return &RouterError{
		Code:       ErrCodeInternal,
		Message:    "internal router error",
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// ProgrammerError reports a violated invariant that must abort the
// current request loudly rather than be treated as a recoverable
// condition (spec §7: empty SoapFault.Reason, a SoapMessage missing
// its Body after construction, etc). Call sites panic with this type;
// the deferred recover at the top of Router.ServeHTTP logs it, answers
// 500 and re-panics so the failure is not swallowed. A ProgrammerError
// raised inside an operation handler is carried back to ServeHTTP and
// handled the same way.
type ProgrammerError struct {
	Message string
}

func (e *ProgrammerError) Error() string { return "programmer error: " + e.Message }
