package kattis

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// AuthErrorReason classifies authentication failures.
type AuthErrorReason string

const (
	// ReasonInvalidCredentials means the site rejected the username/password
	// pair outright.
	ReasonInvalidCredentials AuthErrorReason = "invalid_credentials"
	// ReasonSessionLost means an established session expired and the single
	// re-authentication attempt failed.
	ReasonSessionLost AuthErrorReason = "session_lost"
	// ReasonNetwork means the login exchange itself never completed.
	ReasonNetwork AuthErrorReason = "network"
)

type AuthError struct {
	Reason AuthErrorReason
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("auth: %s", e.Reason)
}

func (e *AuthError) Unwrap() error { return e.Err }

// FetchErrorReason classifies page fetch failures.
type FetchErrorReason string

const (
	FetchReasonHTTPStatus FetchErrorReason = "http_status"
	FetchReasonTimeout    FetchErrorReason = "timeout"
	FetchReasonNetwork    FetchErrorReason = "network"
)

type FetchError struct {
	Reason     FetchErrorReason
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Reason {
	case FetchReasonHTTPStatus:
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	default:
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Reason, e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// classifyTransportError wraps a transport failure as a FetchError,
// distinguishing timeouts from other network faults.
func classifyTransportError(url string, err error) *FetchError {
	reason := FetchReasonNetwork
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		reason = FetchReasonTimeout
	}
	return &FetchError{Reason: reason, URL: url, Err: err}
}
