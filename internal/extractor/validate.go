package extractor

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxRedirects = 10

func newSafeHTTPClient(timeout time.Duration, allowPrivate bool) *http.Client {
	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("%w: stopped after %d redirects", ErrFetch, maxRedirects)
			}
			return validateParsedURL(req.Context(), req.URL, allowPrivate)
		},
	}
}

func validateFetchURL(ctx context.Context, rawURL string, allowPrivate bool) (*url.URL, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if err := validateParsedURL(ctx, parsedURL, allowPrivate); err != nil {
		return nil, err
	}
	return parsedURL, nil
}

// validateParsedURL rejects malformed URLs with ErrInvalidURL and hosts that
// must not be fetched with ErrFetch.
func validateParsedURL(ctx context.Context, parsedURL *url.URL, allowPrivate bool) error {
	if parsedURL == nil {
		return fmt.Errorf("%w: empty", ErrInvalidURL)
	}

	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return fmt.Errorf("%w: missing scheme or host", ErrInvalidURL)
	}

	scheme := strings.ToLower(parsedURL.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, scheme)
	}

	if parsedURL.User != nil {
		return fmt.Errorf("%w: userinfo not allowed", ErrInvalidURL)
	}

	host := parsedURL.Hostname()
	if host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	if allowPrivate {
		return nil
	}

	if isLocalhost(host) {
		return fmt.Errorf("%w: host is not allowed", ErrFetch)
	}

	if ip := net.ParseIP(host); ip != nil {
		if isPrivateIP(ip) {
			return fmt.Errorf("%w: host resolves to private IP", ErrFetch)
		}
		return nil
	}

	if ctx == nil {
		ctx = context.Background()
	}
	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return fmt.Errorf("%w: failed to resolve host %s: %v", ErrFetch, host, err)
	}
	if len(addrs) == 0 {
		return fmt.Errorf("%w: host %s has no addresses", ErrFetch, host)
	}
	for _, addr := range addrs {
		if isPrivateIP(addr.IP) {
			return fmt.Errorf("%w: host resolves to private IP", ErrFetch)
		}
	}

	return nil
}

func isLocalhost(host string) bool {
	host = strings.ToLower(strings.TrimSpace(host))
	return host == "localhost" || strings.HasSuffix(host, ".localhost")
}

func isPrivateIP(ip net.IP) bool {
	if ip == nil {
		return true
	}
	return ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsMulticast() ||
		ip.IsUnspecified()
}
