package validation

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// EndpointValidator checks the URLs the client talks to: proxy URLs and the
// API base URL. Only http and https endpoints with a host are accepted.
type EndpointValidator struct {
	// MaxLength is the maximum allowed URL length
	MaxLength int
}

// NewEndpointValidator creates a validator with the default length limit.
// Userinfo and a path are tolerated since some proxies are addressed that way.
func NewEndpointValidator() *EndpointValidator {
	return &EndpointValidator{
		MaxLength: 2048,
	}
}

// Validate parses input and checks scheme and host. The input is not
// normalized; callers keep the literal string they were given.
func (v *EndpointValidator) Validate(input string) (*url.URL, error) {
	if input == "" {
		return nil, fmt.Errorf("URL cannot be empty")
	}
	if v.MaxLength > 0 && len(input) > v.MaxLength {
		return nil, fmt.Errorf("URL too long (max %d characters)", v.MaxLength)
	}
	if strings.ContainsAny(input, " \t\r\n") {
		return nil, fmt.Errorf("URL contains whitespace")
	}

	parsed, err := url.Parse(input)
	if err != nil {
		return nil, fmt.Errorf("invalid URL format: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("URL must use http or https protocol")
	}

	if parsed.Host == "" || parsed.Hostname() == "" {
		return nil, fmt.Errorf("URL must have a valid hostname")
	}

	if err := validatePort(parsed.Host); err != nil {
		return nil, err
	}

	return parsed, nil
}

// ValidateBaseURL validates an API base URL and returns it without a
// trailing slash so resource paths can be appended directly.
func (v *EndpointValidator) ValidateBaseURL(input string) (string, error) {
	parsed, err := v.Validate(input)
	if err != nil {
		return "", err
	}
	if parsed.RawQuery != "" || parsed.Fragment != "" {
		return "", fmt.Errorf("base URL must not contain a query or fragment")
	}
	return strings.TrimRight(input, "/"), nil
}

// validatePort rejects ports that are not a number in range
func validatePort(host string) error {
	if !strings.Contains(host, ":") || strings.HasSuffix(host, "]") {
		return nil
	}
	_, port, err := net.SplitHostPort(host)
	if err != nil {
		return fmt.Errorf("invalid host format: %w", err)
	}
	if port == "" {
		return nil
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("invalid port %q", port)
	}
	return nil
}
