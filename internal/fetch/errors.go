// SPDX-License-Identifier: MPL-2.0

package fetch

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork is the sentinel for transport level failures.
	ErrNetwork = errors.New("network error")
	// ErrAuthentication is the sentinel for rejected credentials.
	ErrAuthentication = errors.New("authentication failed")
	// ErrUnexpectedResponse is the sentinel for responses that cannot be used.
	ErrUnexpectedResponse = errors.New("unexpected response")
	// ErrCircuitOpen is returned, wrapped in a NetworkError, while a host's
	// circuit breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker open")
)

type (
	// NetworkError reports that URL could not be reached.
	NetworkError struct {
		URL string
		Err error
	}

	// AuthenticationError reports that the server rejected the request
	// credentials with StatusCode.
	AuthenticationError struct {
		URL        string
		StatusCode int
	}

	// UnexpectedResponseError reports a response that carries no usable body.
	UnexpectedResponseError struct {
		URL        string
		StatusCode int
		Reason     string
	}
)

// Error implements the error interface.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

// Unwrap returns ErrNetwork and the transport error.
func (e *NetworkError) Unwrap() []error { return []error{ErrNetwork, e.Err} }

// Error implements the error interface.
func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("fetch %s: authentication failed (status %d)", e.URL, e.StatusCode)
}

// Unwrap returns ErrAuthentication for errors.Is() compatibility.
func (e *AuthenticationError) Unwrap() error { return ErrAuthentication }

// Error implements the error interface.
func (e *UnexpectedResponseError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("fetch %s: %s", e.URL, e.Reason)
	}
	return fmt.Sprintf("fetch %s: %s (status %d)", e.URL, e.Reason, e.StatusCode)
}

// Unwrap returns ErrUnexpectedResponse for errors.Is() compatibility.
func (e *UnexpectedResponseError) Unwrap() error { return ErrUnexpectedResponse }

// retryableError marks statuses worth another attempt. It never escapes Fetch.
type retryableError struct {
	cause *UnexpectedResponseError
}

func (e *retryableError) Error() string { return e.cause.Error() }
