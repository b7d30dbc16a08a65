package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

const (
	defaultTimeout      = 15 * time.Second
	defaultMaxBodyBytes = 2 * 1024 * 1024

	// Elements that never carry article text
	chromeSelector = "script, style, nav, footer, header, aside"

	// Conventional article containers, matched in document order
	articleSelector = `article, main, [class="content"], [class="post"]`
)

var (
	// ErrInvalidURL is returned when the URL is not an absolute http(s) URL
	ErrInvalidURL = errors.New("invalid URL")

	// ErrFetch is returned when the page cannot be retrieved
	ErrFetch = errors.New("failed to fetch URL")

	// ErrEmptyContent is returned when the page yields no usable text
	ErrEmptyContent = errors.New("no content extracted")
)

// Options configures an Extractor
type Options struct {
	Timeout      time.Duration
	MaxBodyBytes int64

	// AllowPrivateHosts disables the loopback/private address guard.
	AllowPrivateHosts bool
}

// Extractor fetches web pages and reduces them to plain text
type Extractor struct {
	client       *http.Client
	maxBodyBytes int64
	allowPrivate bool
}

// New creates a new Extractor. The returned value is safe for concurrent use.
func New(opts Options) *Extractor {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}

	return &Extractor{
		client:       newSafeHTTPClient(opts.Timeout, opts.AllowPrivateHosts),
		maxBodyBytes: opts.MaxBodyBytes,
		allowPrivate: opts.AllowPrivateHosts,
	}
}

// Extract fetches rawURL and returns its cleaned, whitespace-normalized text
func (e *Extractor) Extract(ctx context.Context, rawURL string) (string, error) {
	parsedURL, err := validateFetchURL(ctx, rawURL, e.allowPrivate)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsedURL.String(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrFetch, err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: HTTP status %d", ErrFetch, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %v", ErrFetch, err)
	}

	doc, err := parseHTML(body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("%w: failed to parse HTML: %v", ErrFetch, err)
	}

	content := extractText(doc)
	if content == "" {
		return "", ErrEmptyContent
	}

	slog.Info("extracted content", "url", rawURL, "length", len(content))

	return content, nil
}

// parseHTML transcodes body to UTF-8 and parses it permissively
func parseHTML(body []byte, contentType string) (*html.Node, error) {
	var r io.Reader = bytes.NewReader(body)
	if decoded, err := charset.NewReader(r, contentType); err == nil {
		r = decoded
	} else {
		slog.Debug("charset detection failed, assuming utf-8", "content_type", contentType, "error", err)
		r = bytes.NewReader(body)
	}

	// Scripting off so <noscript> children parse as elements, not raw markup
	return html.ParseWithOptions(r, html.ParseOptionEnableScripting(false))
}

// extractText strips page chrome and returns the primary text of the document.
// Article containers win; otherwise the body (or whole document) is used.
func extractText(root *html.Node) string {
	if root == nil {
		return ""
	}

	doc := goquery.NewDocumentFromNode(root)
	doc.Find(chromeSelector).Remove()

	var content string
	articles := doc.Find(articleSelector)
	if articles.Length() > 0 {
		parts := make([]string, 0, articles.Length())
		articles.Each(func(_ int, s *goquery.Selection) {
			parts = append(parts, s.Text())
		})
		content = strings.Join(parts, "\n")
	} else if body := doc.Find("body").First(); body.Length() > 0 {
		content = body.Text()
	} else {
		content = doc.Text()
	}

	return normalizeWhitespace(sanitizeUTF8(content))
}

// sanitizeUTF8 removes invalid UTF-8 byte sequences left by pages that
// misdeclare their encoding.
func sanitizeUTF8(s string) string {
	return strings.ToValidUTF8(s, "")
}

// normalizeWhitespace collapses every whitespace run into one space and trims.
// Entities are already decoded by the HTML tokenizer.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
