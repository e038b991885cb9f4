// SPDX-License-Identifier: MPL-2.0

package fetch

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	"github.com/cenk/backoff"
	circuit "github.com/rubyist/circuitbreaker"
)

// DefaultTripThreshold is the number of consecutive failures that opens a
// host's breaker.
const DefaultTripThreshold = 5

// BreakerFetcher wraps a Fetcher with one circuit breaker per host. Only
// network errors and server side failures count against a host; rejected
// credentials and missing resources do not.
type BreakerFetcher struct {
	fetcher   *Fetcher
	threshold int64

	mu       sync.RWMutex
	breakers map[string]*circuit.Breaker
}

// NewBreakerFetcher wraps f. threshold <= 0 selects DefaultTripThreshold.
func NewBreakerFetcher(f *Fetcher, threshold int64) *BreakerFetcher {
	if threshold <= 0 {
		threshold = DefaultTripThreshold
	}
	return &BreakerFetcher{
		fetcher:   f,
		threshold: threshold,
		breakers:  make(map[string]*circuit.Breaker),
	}
}

func (b *BreakerFetcher) breaker(host string) *circuit.Breaker {
	b.mu.RLock()
	br, ok := b.breakers[host]
	b.mu.RUnlock()
	if ok {
		return br
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if br, ok := b.breakers[host]; ok {
		return br
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 30 * time.Second
	expBackoff.MaxInterval = 5 * time.Minute
	expBackoff.Multiplier = 2.0
	expBackoff.Reset()

	br = circuit.NewBreakerWithOptions(&circuit.Options{
		BackOff:    expBackoff,
		ShouldTrip: circuit.ThresholdTripFunc(b.threshold),
	})
	b.breakers[host] = br
	return br
}

// Fetch downloads url unless the breaker of its host is open.
func (b *BreakerFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	br := b.breaker(hostKey(rawURL))
	if !br.Ready() {
		return nil, &NetworkError{URL: rawURL, Err: ErrCircuitOpen}
	}

	data, err := b.fetcher.Fetch(ctx, rawURL)
	switch {
	case err == nil:
		br.Success()
	case countsAgainstHost(err):
		br.Fail()
	default:
		br.Success()
	}
	return data, err
}

// Close releases the wrapped fetcher.
func (b *BreakerFetcher) Close() { b.fetcher.Close() }

// States reports "open" or "closed" per host seen so far.
func (b *BreakerFetcher) States() map[string]string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	states := make(map[string]string, len(b.breakers))
	for host, br := range b.breakers {
		if br.Tripped() {
			states[host] = "open"
		} else {
			states[host] = "closed"
		}
	}
	return states
}

func countsAgainstHost(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, ErrNetwork) {
		return true
	}
	var unexpected *UnexpectedResponseError
	return errors.As(err, &unexpected) && unexpected.StatusCode >= 500
}

func hostKey(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		if len(rawURL) > 50 {
			return rawURL[:50]
		}
		return rawURL
	}
	return parsed.Host
}
