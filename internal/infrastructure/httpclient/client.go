// Package httpclient builds the single outbound *http.Client shared by the
// search discoverer and the article extractors. It is read-only after
// construction and safe for concurrent use.
package httpclient

import (
	"context"
	"crypto/x509"
	"fmt"
	"net"
	"net/http"
	"time"

	utls "github.com/refraction-networking/utls"
)

// Profile names a TLS ClientHello fingerprint.
type Profile string

const (
	ProfileGo      Profile = "go"
	ProfileChrome  Profile = "chrome"
	ProfileFirefox Profile = "firefox"
	ProfileSafari  Profile = "safari"
)

// Config defines the client setup.
type Config struct {
	Timeout     time.Duration
	UserAgent   string
	Fingerprint Profile
	// RootCAs replaces the system trust store for fingerprinted handshakes.
	RootCAs *x509.CertPool
	// Transport overrides the fingerprinted transport, mostly for tests.
	Transport http.RoundTripper
}

// New creates a client with a fixed timeout and browser-like default headers.
func New(cfg Config) (*http.Client, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	base := cfg.Transport
	if base == nil {
		t, err := transport(cfg.Fingerprint, cfg.RootCAs)
		if err != nil {
			return nil, err
		}
		base = t
	}

	return &http.Client{
		Timeout:   cfg.Timeout,
		Transport: &headerTransport{base: base, userAgent: cfg.UserAgent},
	}, nil
}

// transport returns a standard transport for ProfileGo (or empty) and a uTLS
// handshaking transport for browser profiles.
func transport(p Profile, roots *x509.CertPool) (http.RoundTripper, error) {
	std := http.DefaultTransport.(*http.Transport).Clone()

	var helloID utls.ClientHelloID
	switch p {
	case "", ProfileGo:
		return std, nil
	case ProfileChrome:
		helloID = utls.HelloChrome_Auto
	case ProfileFirefox:
		helloID = utls.HelloFirefox_Auto
	case ProfileSafari:
		helloID = utls.HelloIOS_Auto
	default:
		return nil, fmt.Errorf("httpclient: unknown fingerprint profile %q", p)
	}
	if _, err := http1Spec(helloID); err != nil {
		return nil, err
	}

	std.ForceAttemptHTTP2 = false
	dialer := &net.Dialer{Timeout: 30 * time.Second, KeepAlive: 30 * time.Second}
	std.DialTLSContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		raw, err := dialer.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}

		host, _, err := net.SplitHostPort(addr)
		if err != nil {
			host = addr
		}

		// Presets carry their own extension objects, so every dial gets a fresh spec.
		spec, err := http1Spec(helloID)
		if err != nil {
			_ = raw.Close()
			return nil, err
		}
		conn := utls.UClient(raw, &utls.Config{ServerName: host, RootCAs: roots}, utls.HelloCustom)
		if err := conn.ApplyPreset(&spec); err != nil {
			_ = raw.Close()
			return nil, fmt.Errorf("httpclient: utls preset: %w", err)
		}
		if err := conn.HandshakeContext(ctx); err != nil {
			_ = raw.Close()
			return nil, fmt.Errorf("httpclient: utls handshake: %w", err)
		}
		return conn, nil
	}
	return std, nil
}

// http1Spec returns the browser ClientHello with ALPN narrowed to http/1.1.
// The presets advertise h2, which the HTTP/1.1 transport cannot speak.
func http1Spec(id utls.ClientHelloID) (utls.ClientHelloSpec, error) {
	spec, err := utls.UTLSIdToSpec(id)
	if err != nil {
		return utls.ClientHelloSpec{}, fmt.Errorf("httpclient: utls spec %s: %w", id.Str(), err)
	}
	for _, ext := range spec.Extensions {
		if alpn, ok := ext.(*utls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
		}
	}
	return spec, nil
}

// headerTransport sets User-Agent and Accept headers the caller did not set.
type headerTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	if t.userAgent != "" && clone.Header.Get("User-Agent") == "" {
		clone.Header.Set("User-Agent", t.userAgent)
	}
	if clone.Header.Get("Accept") == "" {
		clone.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	}
	if clone.Header.Get("Accept-Language") == "" {
		clone.Header.Set("Accept-Language", "ko-KR,ko;q=0.9,en-US;q=0.8,en;q=0.7")
	}
	return t.base.RoundTrip(clone)
}
