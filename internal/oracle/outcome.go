// Package oracle is the boundary to an optional remote analysis service.
//
// An Oracle never returns a Go error. Every call yields an Outcome that either carries a
// value or names the FallbackReason, so callers decide to fall back by inspecting the
// reason while the underlying cause stays available for logs and metrics.
package oracle

import (
	"context"
	"errors"
	"net"

	"github.com/googleapis/gax-go/v2/apierror"
)

// FallbackReason says why an oracle call produced no usable value.
type FallbackReason string

// Fallback reasons. ReasonNone marks a successful call.
const (
	ReasonNone          FallbackReason = ""
	ReasonNotConfigured FallbackReason = "not_configured"
	ReasonTimeout       FallbackReason = "timeout"
	ReasonCanceled      FallbackReason = "canceled"
	ReasonTransport     FallbackReason = "transport"
	ReasonBadStatus     FallbackReason = "bad_status"
	ReasonMalformed     FallbackReason = "malformed_response"
)

// Outcome is either a value or a fallback reason with its cause.
type Outcome[T any] struct {
	Value  T
	Reason FallbackReason
	Err    error
}

// OK reports whether the outcome carries a value.
func (o Outcome[T]) OK() bool {
	return o.Reason == ReasonNone
}

// Success wraps a value.
func Success[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v}
}

// Fallback records why no value was produced.
func Fallback[T any](reason FallbackReason, err error) Outcome[T] {
	return Outcome[T]{Reason: reason, Err: err}
}

// failed classifies err into a fallback outcome.
func failed[T any](err error) Outcome[T] {
	return Fallback[T](Classify(err), err)
}

// Classify maps an error from a remote call to the reason a caller falls back.
func Classify(err error) FallbackReason {
	var (
		statusErr    *StatusError
		malformedErr *MalformedError
		apiErr       *apierror.APIError
		netErr       net.Error
	)
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, ErrNotConfigured):
		return ReasonNotConfigured
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.Is(err, context.Canceled):
		return ReasonCanceled
	case errors.As(err, &statusErr), errors.As(err, &apiErr):
		return ReasonBadStatus
	case errors.As(err, &malformedErr):
		return ReasonMalformed
	case errors.As(err, &netErr) && netErr.Timeout():
		return ReasonTimeout
	default:
		return ReasonTransport
	}
}
