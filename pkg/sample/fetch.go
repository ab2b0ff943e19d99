package sample

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-formschema/pkg/schema"
)

const defaultTimeout = 10 * time.Second

// maxBody caps how much of a sample response is read.
const maxBody = 1 << 20

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient overrides the client used for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithTimeout bounds each fetch. Zero disables the timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = timeout
	}
}

// Fetcher retrieves the sample schema over HTTP.
type Fetcher struct {
	client  *http.Client
	url     string
	timeout time.Duration
}

// NewFetcher targets baseURL + Path. A baseURL that already names a path
// ending in .json is used as is.
func NewFetcher(baseURL string, options ...Option) (*Fetcher, error) {
	target, err := resolveURL(baseURL)
	if err != nil {
		return nil, err
	}
	f := &Fetcher{
		client:  http.DefaultClient,
		url:     target,
		timeout: defaultTimeout,
	}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}
	return f, nil
}

// URL returns the resolved sample location.
func (f *Fetcher) URL() string {
	return f.url
}

// Fetch downloads the sample and returns it re-indented with two spaces,
// ready for the editor. Every failure is a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context) (string, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return "", &FetchError{URL: f.url, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: f.url, Err: err}
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &FetchError{URL: f.url, StatusCode: resp.StatusCode, ContentType: contentType}
	}
	if !strings.Contains(strings.ToLower(contentType), "application/json") {
		return "", &FetchError{URL: f.url, StatusCode: resp.StatusCode, ContentType: contentType, Err: ErrNotJSON}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", &FetchError{URL: f.url, StatusCode: resp.StatusCode, ContentType: contentType, Err: err}
	}
	indented, err := schema.Indent(body)
	if err != nil {
		return "", &FetchError{URL: f.url, StatusCode: resp.StatusCode, ContentType: contentType, Err: err}
	}
	return string(indented), nil
}

func resolveURL(baseURL string) (string, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return "", errors.New("sample: base url is required")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("sample: parse base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("sample: unsupported scheme %q", parsed.Scheme)
	}
	if strings.HasSuffix(parsed.Path, ".json") {
		return parsed.String(), nil
	}
	parsed.Path = strings.TrimRight(parsed.Path, "/") + Path
	return parsed.String(), nil
}
