package narou

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pders01/narou/internal/debuglog"
	"github.com/pders01/narou/internal/validation"
)

const (
	DefaultBaseURL   = "https://api.syosetu.com"
	DefaultUserAgent = "narou/1.0 (Syosetu API client; github.com/pders01/narou)"

	maxBodySize = 10 << 20
)

// Client fetches user profiles and feeds from the Syosetu API. It is
// immutable after construction and safe for concurrent use; every call opens
// and tears down its own transport session.
type Client struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
	proxies   ProxyConfig
	transport http.RoundTripper
}

type Option func(*Client) error

// WithProxies validates and installs proxy URLs keyed by role.
func WithProxies(proxies map[ProxyRole]string) Option {
	return func(c *Client) error {
		cfg, err := NewProxyConfig(proxies)
		if err != nil {
			return err
		}
		return WithProxyConfig(cfg)(c)
	}
}

// WithProxyConfig installs an already validated proxy configuration.
func WithProxyConfig(cfg ProxyConfig) Option {
	return func(c *Client) error {
		c.proxies = cfg
		return nil
	}
}

// WithBaseURL points the client at another API host, e.g. a mirror or a
// test server.
func WithBaseURL(base string) Option {
	return func(c *Client) error {
		normalized, err := validation.NewEndpointValidator().ValidateBaseURL(base)
		if err != nil {
			return &ConfigurationError{Field: "base URL", Value: base, Err: err}
		}
		c.baseURL = normalized
		return nil
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) error {
		if strings.TrimSpace(ua) == "" {
			return &ConfigurationError{Field: "user agent", Err: errors.New("cannot be empty")}
		}
		c.userAgent = ua
		return nil
	}
}

// WithTimeout bounds each request. Zero means no client-side timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d < 0 {
			return &ConfigurationError{Field: "timeout", Value: d.String(), Err: errors.New("must not be negative")}
		}
		c.timeout = d
		return nil
	}
}

// WithTransport replaces the per-call transport. Proxy routing is then up to
// the supplied RoundTripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) error {
		c.transport = rt
		return nil
	}
}

// NewClient builds a client. Invalid options fail construction with a
// *ConfigurationError; nothing is applied partially.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Client) Proxies() ProxyConfig { return c.proxies }

func (c *Client) BaseURL() string { return c.baseURL }

// newSession returns a short-lived http.Client and a teardown func that
// releases its idle connections.
func (c *Client) newSession() (*http.Client, func()) {
	if c.transport != nil {
		return &http.Client{Transport: c.transport, Timeout: c.timeout}, func() {}
	}

	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.Proxy = c.proxies.ProxyFunc()
	// Bodies are gzip payloads in their own right; never let the transport
	// negotiate or strip an encoding.
	tr.DisableCompression = true

	return &http.Client{Transport: tr, Timeout: c.timeout}, tr.CloseIdleConnections
}

// get performs a single GET and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, endpoint, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &TransportError{URL: endpoint, Err: fmt.Errorf("creating request: %w", err)}
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", accept)

	client, teardown := c.newSession()
	defer teardown()

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		debuglog.Warnf("GET %s failed: %v", endpoint, err)
		return nil, &TransportError{URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	debuglog.WithFields(map[string]interface{}{
		"status":  resp.StatusCode,
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Debugf("GET %s", endpoint)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{URL: endpoint, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, &TransportError{URL: endpoint, Err: fmt.Errorf("reading response: %w", err)}
	}
	if len(body) > maxBodySize {
		return nil, &DecodeError{Resource: endpoint, Err: fmt.Errorf("response exceeds %d bytes", maxBodySize)}
	}

	return body, nil
}
