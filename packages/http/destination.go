package http

import (
	"fmt"
	neturl "net/url"
	"strings"
)

// DefaultScheme is used when a destination does not name one.
const DefaultScheme = "https"

// ParseDestination normalizes a destination of the form
// [scheme://]host[:port][/path] into scheme://host[:port][/path].
func ParseDestination(destination string) (string, error) {
	d := strings.TrimSpace(destination)
	if d == "" {
		return "", fmt.Errorf("%w: expected at least a host, got %q", ErrInvalidDestination, destination)
	}
	if !strings.Contains(d, "://") {
		d = DefaultScheme + "://" + d
	}

	u, err := neturl.Parse(d)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidDestination, err)
	}
	if err := validateURL(u); err != nil {
		return "", fmt.Errorf("%w: %v (got %q)", ErrInvalidDestination, err, destination)
	}

	normalized := u.Scheme + "://" + u.Host + strings.TrimSuffix(u.EscapedPath(), "/")
	return normalized, nil
}

// validateURL checks that a URL uses an allowed scheme and has a host
func validateURL(u *neturl.URL) error {
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme: %s (only http and https are allowed)", u.Scheme)
	}
	if u.Hostname() == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
