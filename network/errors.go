package network

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"syscall"
)

// ErrTooManyRedirects is returned when a request chains through more than
// ten redirects.
var ErrTooManyRedirects = errors.New("more than 10 redirects")

// ErrStreamStall is reported when a response body stops delivering bytes for
// longer than the configured stream timeout.
var ErrStreamStall = errors.New("stream stalled")

// StatusError reports a non-success HTTP status.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %s", e.Status)
}

// EnsureSuccess turns a non-2xx response into a StatusError, consuming and
// closing the body in that case.
func EnsureSuccess(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
	return &StatusError{Code: resp.StatusCode, Status: resp.Status}
}

// Transient reports whether a failed attempt may succeed if repeated.
// Server errors, 408, 429, timeouts, stalls, truncated responses and
// connection breakdowns count as transient; everything else is fatal.
func Transient(err error) bool {
	if err == nil {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.Code >= 500:
			return true
		case statusErr.Code == http.StatusRequestTimeout, statusErr.Code == http.StatusTooManyRequests:
			return true
		default:
			return false
		}
	}

	if errors.Is(err, ErrStreamStall) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNABORTED) || errors.Is(err, syscall.EPIPE) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return false
}
