// Package network provides the shared HTTP session used for every request
// of a run: browser-like headers and TLS fingerprint, manual redirect
// handling that keeps the Referer intact, transparent decompression, stall
// detection on streaming bodies, and the anti-ban request pacer.
package network

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/sdl-cli/sdl/constant"
	"github.com/sdl-cli/sdl/key"
	"github.com/spf13/viper"
)

// Request describes one logical fetch. The zero Method means GET. Body is
// kept as a string so redirected or downgraded requests can be replayed.
type Request struct {
	Method  string
	URL     string
	Referer string
	Headers map[string]string
	Body    string
}

// Options configure a Session.
type Options struct {
	UserAgent      string
	ConnectTimeout time.Duration
	StreamTimeout  time.Duration
	Proxy          string
	Throttle       *Throttle
}

// Session is a shared, concurrency-safe HTTP client.
type Session struct {
	client        *http.Client
	userAgent     string
	streamTimeout time.Duration
	throttle      *Throttle
}

// New builds a session. An empty proxy selects the fingerprinted direct
// transport.
func New(opts Options) (*Session, error) {
	if opts.UserAgent == "" {
		opts.UserAgent = constant.UserAgent
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 20 * time.Second
	}

	var transport http.RoundTripper
	if opts.Proxy != "" {
		proxyURL, err := url.Parse(opts.Proxy)
		if err != nil {
			return nil, fmt.Errorf("failed to parse proxy url: %w", err)
		}
		transport = proxyTransport(proxyURL, opts.ConnectTimeout)
	} else {
		transport = newFingerprintTransport(opts.ConnectTimeout)
	}

	return &Session{
		client: &http.Client{
			Transport: transport,
			// Redirects are handled in Do, because the stock client
			// rewrites the Referer header on redirection.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		userAgent:     opts.UserAgent,
		streamTimeout: opts.StreamTimeout,
		throttle:      opts.Throttle,
	}, nil
}

// FromConfig builds the run session from the active configuration.
func FromConfig() (*Session, error) {
	return New(Options{
		ConnectTimeout: time.Duration(viper.GetInt(key.NetworkConnectTimeout)) * time.Second,
		StreamTimeout:  time.Duration(viper.GetInt(key.NetworkStreamTimeout)) * time.Second,
		Proxy:          viper.GetString(key.NetworkProxy),
		Throttle: NewThrottle(
			uint64(viper.GetInt(key.ThrottleRequests)),
			time.Duration(viper.GetInt(key.ThrottleWait))*time.Second,
		),
	})
}

// Throttle exposes the session's request pacer.
func (s *Session) Throttle() *Throttle {
	return s.throttle
}

var redirectCodes = []int{301, 308, 302, 303, 307}

func isRedirectCode(code int) bool {
	for _, c := range redirectCodes {
		if c == code {
			return true
		}
	}
	return false
}

// Do performs the request, following up to ten redirects itself so the
// caller's Referer survives every hop. The response body is wrapped with
// the stall watchdog and transparently decompressed.
func (s *Session) Do(ctx context.Context, req Request) (*http.Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	currentURL := req.URL
	body := req.Body
	redirects := 0

	for {
		if err := s.throttle.Tick(ctx); err != nil {
			return nil, err
		}

		hopCtx, cancel := context.WithCancel(ctx)
		httpReq, err := s.buildRequest(hopCtx, method, currentURL, body, req)
		if err != nil {
			cancel()
			return nil, err
		}

		resp, err := s.client.Do(httpReq)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("failed to request url: %w", err)
		}

		location := resp.Header.Get("Location")
		if isRedirectCode(resp.StatusCode) && location != "" {
			io.Copy(io.Discard, io.LimitReader(resp.Body, 16<<10))
			resp.Body.Close()
			cancel()

			if redirects >= 10 {
				return nil, ErrTooManyRedirects
			}
			redirects++

			next, err := resp.Request.URL.Parse(location)
			if err != nil {
				return nil, fmt.Errorf("redirect url could not be parsed: %w", err)
			}
			currentURL = next.String()

			// 303 and the legacy codes demote the request to a bodyless GET.
			if resp.StatusCode == http.StatusSeeOther ||
				((resp.StatusCode == http.StatusMovedPermanently || resp.StatusCode == http.StatusFound) && method != http.MethodGet) {
				method = http.MethodGet
				body = ""
			}
			continue
		}

		return s.wrapResponse(resp, cancel)
	}
}

// Get is Do for a plain page fetch.
func (s *Session) Get(ctx context.Context, rawURL, referer string) (*http.Response, error) {
	return s.Do(ctx, Request{URL: rawURL, Referer: referer})
}

// Bytes fetches the full body of a successful response.
func (s *Session) Bytes(ctx context.Context, req Request) ([]byte, error) {
	resp, err := s.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := EnsureSuccess(resp); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return data, nil
}

// Text fetches the full body of a successful response as a string.
func (s *Session) Text(ctx context.Context, req Request) (string, error) {
	data, err := s.Bytes(ctx, req)
	return string(data), err
}

// JSON fetches and decodes a JSON response, requiring a success status.
func (s *Session) JSON(ctx context.Context, req Request, v any) error {
	resp, err := s.Do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := EnsureSuccess(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to parse response body as json: %w", err)
	}
	return nil
}

func (s *Session) buildRequest(ctx context.Context, method, rawURL, body string, req Request) (*http.Request, error) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	httpReq.Header.Set("User-Agent", s.userAgent)
	httpReq.Header.Set("Accept-Language", "en-US,en;q=0.5")
	if req.Referer != "" {
		httpReq.Header.Set("Referer", req.Referer)
	}
	for name, value := range req.Headers {
		httpReq.Header.Set(name, value)
	}
	// Ranged fetches stay identity-encoded so byte offsets keep meaning.
	if httpReq.Header.Get("Accept-Encoding") == "" && httpReq.Header.Get("Range") == "" {
		httpReq.Header.Set("Accept-Encoding", "gzip, br")
	}
	return httpReq, nil
}

func (s *Session) wrapResponse(resp *http.Response, cancel context.CancelFunc) (*http.Response, error) {
	var body io.ReadCloser = resp.Body

	switch strings.ToLower(resp.Header.Get("Content-Encoding")) {
	case "gzip":
		gz, err := gzip.NewReader(body)
		if err != nil {
			body.Close()
			cancel()
			return nil, fmt.Errorf("failed to read gzip response: %w", err)
		}
		body = &decodedBody{Reader: gz, closers: []io.Closer{gz, resp.Body}}
		resp.Header.Del("Content-Encoding")
		resp.ContentLength = -1
		resp.Uncompressed = true
	case "br":
		body = &decodedBody{Reader: brotli.NewReader(body), closers: []io.Closer{resp.Body}}
		resp.Header.Del("Content-Encoding")
		resp.ContentLength = -1
		resp.Uncompressed = true
	}

	resp.Body = newWatchedBody(body, s.streamTimeout, cancel)
	return resp, nil
}

// decodedBody reads through a decompressor and closes the whole chain.
type decodedBody struct {
	io.Reader
	closers []io.Closer
}

func (d *decodedBody) Close() error {
	var firstErr error
	for _, c := range d.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// watchedBody cancels the request when no bytes arrive for the configured
// stream timeout, surfacing the breakdown as ErrStreamStall.
type watchedBody struct {
	rc        io.ReadCloser
	cancel    context.CancelFunc
	timer     *time.Timer
	timeout   time.Duration
	stalled   atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

func newWatchedBody(rc io.ReadCloser, timeout time.Duration, cancel context.CancelFunc) *watchedBody {
	b := &watchedBody{rc: rc, cancel: cancel, timeout: timeout}
	if timeout > 0 {
		b.timer = time.AfterFunc(timeout, func() {
			b.stalled.Store(true)
			cancel()
		})
	}
	return b
}

func (b *watchedBody) Read(p []byte) (int, error) {
	n, err := b.rc.Read(p)
	if b.timer != nil {
		b.timer.Reset(b.timeout)
	}
	if err != nil && err != io.EOF && b.stalled.Load() {
		return n, fmt.Errorf("%w after %s", ErrStreamStall, b.timeout)
	}
	return n, err
}

func (b *watchedBody) Close() error {
	b.closeOnce.Do(func() {
		if b.timer != nil {
			b.timer.Stop()
		}
		b.closeErr = b.rc.Close()
		b.cancel()
	})
	return b.closeErr
}
