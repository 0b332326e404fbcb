package narou

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"

	"github.com/pders01/narou/internal/validation"
)

// ProxyRole is the bucket a proxy URL is registered under. It selects which
// outbound requests use the proxy, independent of the proxy URL's own scheme.
type ProxyRole int

const (
	ProxyHTTP ProxyRole = iota + 1
	ProxyHTTPS
)

func (r ProxyRole) String() string {
	switch r {
	case ProxyHTTP:
		return "http"
	case ProxyHTTPS:
		return "https"
	default:
		return fmt.Sprintf("ProxyRole(%d)", int(r))
	}
}

// ParseProxyRole maps "http" or "https" to its role.
func ParseProxyRole(s string) (ProxyRole, error) {
	switch s {
	case "http":
		return ProxyHTTP, nil
	case "https":
		return ProxyHTTPS, nil
	default:
		return 0, &ConfigurationError{Field: "proxy role", Value: s, Err: errors.New("must be http or https")}
	}
}

// ProxyConfig is an immutable, validated mapping from role to proxy URL.
// The zero value routes nothing through a proxy.
type ProxyConfig struct {
	urls map[ProxyRole]*url.URL
	raw  map[ProxyRole]string
}

// NewProxyConfig validates every URL and builds the configuration. A single
// invalid entry fails the whole construction.
func NewProxyConfig(proxies map[ProxyRole]string) (ProxyConfig, error) {
	if len(proxies) == 0 {
		return ProxyConfig{}, nil
	}

	validator := validation.NewEndpointValidator()
	urls := make(map[ProxyRole]*url.URL, len(proxies))
	raw := make(map[ProxyRole]string, len(proxies))

	// Sorted so the reported error is deterministic.
	roles := make([]ProxyRole, 0, len(proxies))
	for role := range proxies {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })

	for _, role := range roles {
		if role != ProxyHTTP && role != ProxyHTTPS {
			return ProxyConfig{}, &ConfigurationError{Field: "proxy role", Value: role.String(), Err: errors.New("must be http or https")}
		}
		literal := proxies[role]
		parsed, err := validator.Validate(literal)
		if err != nil {
			return ProxyConfig{}, &ConfigurationError{Field: role.String() + " proxy", Value: literal, Err: err}
		}
		urls[role] = parsed
		raw[role] = literal
	}

	return ProxyConfig{urls: urls, raw: raw}, nil
}

// URL returns the literal proxy URL registered for role.
func (p ProxyConfig) URL(role ProxyRole) (string, bool) {
	u, ok := p.raw[role]
	return u, ok
}

func (p ProxyConfig) Len() int { return len(p.raw) }

func (p ProxyConfig) IsZero() bool { return len(p.raw) == 0 }

// ProxyFunc returns an http.Transport Proxy function that routes each
// request through the proxy registered for the request's scheme.
func (p ProxyConfig) ProxyFunc() func(*http.Request) (*url.URL, error) {
	return func(req *http.Request) (*url.URL, error) {
		switch req.URL.Scheme {
		case "http":
			return p.urls[ProxyHTTP], nil
		case "https":
			return p.urls[ProxyHTTPS], nil
		}
		return nil, nil
	}
}
