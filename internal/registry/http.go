// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenk/backoff"
	"github.com/rs/dnscache"
	circuit "github.com/rubyist/circuitbreaker"

	"github.com/mcpkg/mcpkg/pkg/cueutil"
	"github.com/mcpkg/mcpkg/pkg/pkgdecl"
	"github.com/mcpkg/mcpkg/pkg/types"
)

const (
	defaultUserAgent  = "mcpkg"
	defaultMaxRetries = 3
	defaultBaseDelay  = 500 * time.Millisecond
	// breakerThreshold is the number of consecutive failures that opens a
	// host's circuit breaker.
	breakerThreshold = 5
)

type (
	// HTTPRepository fetches packages with GET <base>/<name>. The response
	// Content-Type selects the document format. Rate limiting and server
	// errors are retried with exponential backoff, and each host has a
	// circuit breaker that opens after repeated failures.
	HTTPRepository struct {
		base       *url.URL
		client     *http.Client
		userAgent  string
		maxRetries uint64
		baseDelay  time.Duration

		resolver *dnscache.Resolver
		stop     chan struct{}
		stopOnce sync.Once

		mu       sync.RWMutex
		breakers map[string]*circuit.Breaker
	}

	// HTTPOption configures an HTTPRepository.
	HTTPOption func(*HTTPRepository)
)

// WithHTTPClient sets the HTTP client. The DNS cache is not used with a
// custom client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(r *HTTPRepository) {
		r.client = c
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) HTTPOption {
	return func(r *HTTPRepository) {
		r.userAgent = ua
	}
}

// WithMaxRetries sets how many times a retryable failure is retried.
func WithMaxRetries(n uint64) HTTPOption {
	return func(r *HTTPRepository) {
		r.maxRetries = n
	}
}

// WithBaseDelay sets the first retry delay.
func WithBaseDelay(d time.Duration) HTTPOption {
	return func(r *HTTPRepository) {
		r.baseDelay = d
	}
}

// NewHTTPRepository creates a repository for the given base URL. Call Close
// to stop the DNS cache refresh.
func NewHTTPRepository(baseURL string, opts ...HTTPOption) (*HTTPRepository, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid repository URL %q: %w", baseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid repository URL %q: scheme must be http or https", baseURL)
	}
	base.Path = strings.TrimSuffix(base.Path, "/")

	r := &HTTPRepository{
		base:       base,
		userAgent:  defaultUserAgent,
		maxRetries: defaultMaxRetries,
		baseDelay:  defaultBaseDelay,
		stop:       make(chan struct{}),
		breakers:   make(map[string]*circuit.Breaker),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.client == nil {
		r.client = r.cachingClient()
	}
	return r, nil
}

// cachingClient returns a client whose dialer resolves hosts through a
// DNS cache refreshed every five minutes.
func (r *HTTPRepository) cachingClient() *http.Client {
	r.resolver = &dnscache.Resolver{}
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.resolver.Refresh(true)
			case <-r.stop:
				return
			}
		}
	}()

	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	return &http.Client{
		Timeout: time.Minute,
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				host, port, err := net.SplitHostPort(addr)
				if err != nil {
					return nil, err
				}
				ips, err := r.resolver.LookupHost(ctx, host)
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
				return nil, fmt.Errorf("dialing %s: %w", host, lastErr)
			},
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: time.Second,
		},
	}
}

// Close stops background work. It is safe to call more than once.
func (r *HTTPRepository) Close() error {
	r.stopOnce.Do(func() { close(r.stop) })
	return nil
}

// Name returns the base URL.
func (r *HTTPRepository) Name() string { return r.base.String() }

// Fetch downloads a package document.
func (r *HTTPRepository) Fetch(ctx context.Context, name string) (*Document, error) {
	if !types.IsValidIdentifier(name) {
		return nil, &NotFoundError{Name: name}
	}

	target := r.base.JoinPath(name).String()
	host := r.base.Host
	breaker := r.breaker(host)
	if !breaker.Ready() {
		return nil, fmt.Errorf("circuit breaker open for %s: %w", host, ErrUpstreamDown)
	}

	var (
		doc      *Document
		notFound bool
	)
	err := breaker.Call(func() error {
		d, err := r.fetchWithRetry(ctx, target, name)
		if errors.Is(err, ErrNotFound) {
			// A missing package says nothing about the health of the host.
			notFound = true
			return nil
		}
		doc = d
		return err
	}, 0)
	if err != nil {
		return nil, err
	}
	if notFound {
		return nil, &NotFoundError{Name: name}
	}
	return doc, nil
}

// BreakerStates returns "open" or "closed" for every host contacted so far.
func (r *HTTPRepository) BreakerStates() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	states := make(map[string]string, len(r.breakers))
	for host, b := range r.breakers {
		if b.Tripped() {
			states[host] = "open"
		} else {
			states[host] = "closed"
		}
	}
	return states
}

func (r *HTTPRepository) breaker(host string) *circuit.Breaker {
	r.mu.RLock()
	b, ok := r.breakers[host]
	r.mu.RUnlock()
	if ok {
		return b
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.breakers[host]; ok {
		return b
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 30 * time.Second
	expBackoff.MaxInterval = 5 * time.Minute
	expBackoff.Multiplier = 2.0
	expBackoff.Reset()

	b = circuit.NewBreakerWithOptions(&circuit.Options{
		BackOff:    expBackoff,
		ShouldTrip: circuit.ThresholdTripFunc(breakerThreshold),
	})
	r.breakers[host] = b
	return b
}

func (r *HTTPRepository) fetchWithRetry(ctx context.Context, target, name string) (*Document, error) {
	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = r.baseDelay
	expBackoff.RandomizationFactor = 0.1
	expBackoff.Multiplier = 2.0
	expBackoff.MaxElapsedTime = 0
	expBackoff.Reset()
	policy := backoff.WithContext(backoff.WithMaxRetries(expBackoff, r.maxRetries), ctx)

	var doc *Document
	err := backoff.Retry(func() error {
		d, err := r.do(ctx, target, name)
		switch {
		case err == nil:
			doc = d
			return nil
		case errors.Is(err, ErrRateLimited), errors.Is(err, ErrUpstreamDown):
			return err
		default:
			return backoff.Permanent(err)
		}
	}, policy)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			err = permanent.Err
		}
		return nil, err
	}
	return doc, nil
}

func (r *HTTPRepository) do(ctx context.Context, target, name string) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", strings.Join([]string{mimeScript, mimeCUE, mimeJSON, mimeYAML}, ", "))

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", target, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", ErrUpstreamDown, resp.StatusCode)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("unexpected status %d from %s: %s", resp.StatusCode, target, strings.TrimSpace(string(body)))
	}

	format, err := formatFromContentType(resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", target, err)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, cueutil.DefaultMaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", target, err)
	}
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, target); err != nil {
		return nil, err
	}
	return &Document{Name: name, Format: format, Source: target, Data: data}, nil
}

// Media types of package documents.
const (
	mimeScript = "text/x-mcpkg-script"
	mimeCUE    = "application/cue"
	mimeJSON   = "application/json"
	mimeYAML   = "application/yaml"
)

func formatFromContentType(contentType string) (Format, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", fmt.Errorf("invalid content type %q: %w", contentType, err)
	}
	switch mediaType {
	case mimeScript, "text/plain":
		return FormatScript, nil
	case mimeCUE, "text/x-cue":
		return Format(pkgdecl.FormatCUE), nil
	case mimeJSON:
		return Format(pkgdecl.FormatJSON), nil
	case mimeYAML, "application/x-yaml", "text/yaml":
		return Format(pkgdecl.FormatYAML), nil
	default:
		return "", fmt.Errorf("unsupported content type %q", mediaType)
	}
}
