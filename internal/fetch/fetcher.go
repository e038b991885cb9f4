// SPDX-License-Identifier: MPL-2.0

package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/cenk/backoff"
	"github.com/rs/dnscache"
)

const (
	// DefaultUserAgent identifies coursekit to servers.
	DefaultUserAgent = "coursekit/1.0"
	// DefaultMaxRetries bounds retries of rate limited and server errors.
	DefaultMaxRetries = 3
	// DefaultMaxSize bounds the size of a downloaded body.
	DefaultMaxSize int64 = 512 << 20

	defaultTimeout     = 5 * time.Minute
	dnsRefreshInterval = 5 * time.Minute
)

type (
	// Fetcher downloads whole documents over HTTP.
	Fetcher struct {
		client     *http.Client
		timeout    *time.Duration
		resolver   *dnscache.Resolver
		userAgent  string
		maxRetries int
		baseDelay  time.Duration
		maxDelay   time.Duration
		maxSize    int64
		auth       Authentication
		logger     *slog.Logger

		stopOnce sync.Once
		stop     chan struct{}
	}

	// Option configures a Fetcher.
	Option func(*Fetcher)
)

// WithHTTPClient replaces the default client and its DNS caching transport.
// The client is not modified; WithTimeout applies to a copy.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithTimeout sets the overall timeout of a single request.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.timeout = &d }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) { f.userAgent = ua }
}

// WithMaxRetries sets how many times a retryable response is retried.
func WithMaxRetries(n int) Option {
	return func(f *Fetcher) { f.maxRetries = max(n, 0) }
}

// WithBackoff sets the first and the largest delay between retries.
func WithBackoff(base, maxDelay time.Duration) Option {
	return func(f *Fetcher) {
		f.baseDelay = base
		f.maxDelay = maxDelay
	}
}

// WithMaxSize bounds the accepted body size.
func WithMaxSize(n int64) Option {
	return func(f *Fetcher) { f.maxSize = n }
}

// WithAuthentication attaches credentials to every request. nil disables it.
func WithAuthentication(a Authentication) Option {
	return func(f *Fetcher) { f.auth = a }
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

// NewFetcher creates a Fetcher. Without WithHTTPClient its transport
// resolves hosts through a DNS cache refreshed in the background until Close
// is called.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		userAgent:  DefaultUserAgent,
		maxRetries: DefaultMaxRetries,
		baseDelay:  500 * time.Millisecond,
		maxDelay:   10 * time.Second,
		maxSize:    DefaultMaxSize,
		logger:     slog.Default(),
		stop:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(f)
	}

	switch {
	case f.client == nil:
		f.client = &http.Client{Timeout: defaultTimeout, Transport: f.newTransport()}
		if f.timeout != nil {
			f.client.Timeout = *f.timeout
		}
	case f.timeout != nil:
		c := *f.client
		c.Timeout = *f.timeout
		f.client = &c
	}
	return f
}

func (f *Fetcher) newTransport() *http.Transport {
	resolver := &dnscache.Resolver{}
	f.resolver = resolver
	go func() {
		ticker := time.NewTicker(dnsRefreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-f.stop:
				return
			case <-ticker.C:
				resolver.Refresh(true)
			}
		}
	}()

	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			host, port, err := net.SplitHostPort(addr)
			if err != nil {
				return nil, err
			}
			ips, err := resolver.LookupHost(ctx, host)
			if err != nil {
				return nil, err
			}
			var lastErr error
			for _, ip := range ips {
				conn, err := dialer.DialContext(ctx, network, net.JoinHostPort(ip, port))
				if err == nil {
					return conn, nil
				}
				lastErr = err
			}
			if lastErr == nil {
				lastErr = fmt.Errorf("no addresses for %s", host)
			}
			return nil, lastErr
		},
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

// Close stops the DNS cache refresher.
func (f *Fetcher) Close() {
	f.stopOnce.Do(func() { close(f.stop) })
}

// Fetch downloads the body at url.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = f.baseDelay
	b.MaxInterval = f.maxDelay
	b.MaxElapsedTime = 0
	b.Reset()

	for attempt := 0; ; attempt++ {
		data, err := f.doFetch(ctx, url)
		if err == nil {
			return data, nil
		}

		var retry *retryableError
		if !errors.As(err, &retry) {
			return nil, err
		}
		if attempt >= f.maxRetries {
			return nil, retry.cause
		}

		delay := b.NextBackOff()
		f.logger.Debug("retrying fetch", "url", url, "attempt", attempt+1, "delay", delay, "status", retry.cause.StatusCode)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, &NetworkError{URL: url, Err: ctx.Err()}
		case <-timer.C:
		}
	}
}

func (f *Fetcher) doFetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &UnexpectedResponseError{URL: url, Reason: fmt.Sprintf("invalid request: %v", err)}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "*/*")
	if f.auth != nil {
		f.auth.Apply(req)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, &AuthenticationError{URL: url, StatusCode: resp.StatusCode}
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= 500:
		return nil, &retryableError{cause: &UnexpectedResponseError{
			URL: url, StatusCode: resp.StatusCode, Reason: http.StatusText(resp.StatusCode),
		}}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &UnexpectedResponseError{URL: url, StatusCode: resp.StatusCode, Reason: http.StatusText(resp.StatusCode)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize+1))
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	if int64(len(data)) > f.maxSize {
		return nil, &UnexpectedResponseError{
			URL: url, StatusCode: resp.StatusCode, Reason: fmt.Sprintf("body exceeds %d bytes", f.maxSize),
		}
	}
	if len(data) == 0 {
		return nil, &UnexpectedResponseError{URL: url, StatusCode: resp.StatusCode, Reason: "empty body"}
	}
	return data, nil
}
