// SPDX-License-Identifier: MPL-2.0

// Package fetch downloads course documents, component artifacts and settings
// archives over HTTP.
//
// Failures are classified so callers can react to them: transport failures
// are NetworkError, 401 and 403 are AuthenticationError, every other
// unusable response is UnexpectedResponseError. Rate limiting and server
// errors are retried with exponential backoff a bounded number of times
// before being classified. BreakerFetcher adds per-host circuit breaking on
// top of a Fetcher.
package fetch
