package network

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

// fingerprintTransport performs requests with a Chrome TLS Client Hello.
// Sites behind aggressive protection reject the default Go handshake, so
// every HTTPS connection is dialed through utls. HTTP/2 is attempted first;
// servers that refuse it are transparently retried over HTTP/1.1.
type fingerprintTransport struct {
	h2 *http2.Transport
	h1 *http.Transport
}

func newFingerprintTransport(connectTimeout time.Duration) *fingerprintTransport {
	dialer := &net.Dialer{Timeout: connectTimeout}

	h2 := &http2.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
			return dialChromeTLS(ctx, dialer, network, addr, nil)
		},
	}

	h1 := &http.Transport{
		DialContext: dialer.DialContext,
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialChromeTLS(ctx, dialer, network, addr, []string{"http/1.1"})
		},
	}

	return &fingerprintTransport{h2: h2, h1: h1}
}

func (t *fingerprintTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Plain HTTP never negotiates h2 here.
	if req.URL.Scheme != "https" {
		return t.h1.RoundTrip(req)
	}

	resp, err := t.h2.RoundTrip(req)
	if err == nil {
		return resp, nil
	}

	retry := req
	if req.Body != nil {
		if req.GetBody == nil {
			return nil, err
		}
		body, bodyErr := req.GetBody()
		if bodyErr != nil {
			return nil, err
		}
		retry = req.Clone(req.Context())
		retry.Body = body
	}
	return t.h1.RoundTrip(retry)
}

// dialChromeTLS establishes a TLS connection presenting the Chrome 120
// Client Hello. nextProtos forces ALPN when set.
func dialChromeTLS(ctx context.Context, dialer *net.Dialer, network, addr string, nextProtos []string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	tlsConn := utls.UClient(conn, &utls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
		NextProtos: nextProtos,
	}, utls.HelloChrome_120)

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	return tlsConn, nil
}

// proxyTransport routes everything through the given proxy with the standard
// library handshake. Fingerprint parity is not available when proxying.
func proxyTransport(proxy *url.URL, connectTimeout time.Duration) *http.Transport {
	dialer := &net.Dialer{Timeout: connectTimeout}
	return &http.Transport{
		Proxy:             http.ProxyURL(proxy),
		DialContext:       dialer.DialContext,
		ForceAttemptHTTP2: true,
	}
}
