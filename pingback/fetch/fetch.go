// Package fetch is the HTTP client used by both pingback flows.
package fetch

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/net/http2"
	"golang.org/x/time/rate"
)

const (
	// Timeout bounds every request, redirects included
	Timeout = 10 * time.Second

	// MaxRedirects is how many redirects a request may follow
	MaxRedirects = 10

	// MaxBodySize caps how much of a response body is read
	MaxBodySize = 10 << 20
)

/* Result is the outcome of one fetch
 * Headers holds the raw response lines in order, status line first. It is
 * nil when no response arrived. Err records transport problems but the
 * pingback flows only look at Body and Headers.
 */
type Result struct {
	Body    string
	Headers []string
	Err     error
}

// Fetcher performs a single HTTP exchange
type Fetcher interface {
	Fetch(ctx context.Context, url string, opts ...Option) Result
}

type request struct {
	method string
	body   []byte
	header http.Header
}

// Option overrides a default of a single fetch
type Option func(*request)

// WithMethod sets the request method, GET by default
func WithMethod(method string) Option {
	return func(r *request) {
		r.method = method
	}
}

// WithBody sets the request payload
func WithBody(body []byte) Option {
	return func(r *request) {
		r.body = body
	}
}

// WithHeader sets a request header, replacing any default
func WithHeader(key, value string) Option {
	return func(r *request) {
		r.header.Set(key, value)
	}
}

// HTTPFetcher is the net/http implementation of Fetcher, safe for concurrent use
type HTTPFetcher struct {
	client  *http.Client
	limiter *rate.Limiter
}

// FetcherOption configures an HTTPFetcher
type FetcherOption func(*HTTPFetcher)

// WithRateLimit spaces outgoing requests to perSecond, zero or less means unlimited
func WithRateLimit(perSecond float64) FetcherOption {
	return func(f *HTTPFetcher) {
		if perSecond <= 0 {
			f.limiter = nil
			return
		}
		f.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// NewHTTPFetcher creates a fetcher with certificate verification disabled and HTTP/2 enabled
func NewHTTPFetcher(opts ...FetcherOption) (*HTTPFetcher, error) {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		TLSClientConfig:     &tls.Config{InsecureSkipVerify: true},
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: Timeout,
	}
	// a custom TLS config turns off net/http's automatic HTTP/2
	if err := http2.ConfigureTransport(transport); err != nil {
		return nil, fmt.Errorf("configuring http2 transport: %w", err)
	}

	f := &HTTPFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= MaxRedirects {
					return fmt.Errorf("stopped after %d redirects", MaxRedirects)
				}
				return nil
			},
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Fetch runs the request and never returns an error directly, failures land in Result.Err
func (f *HTTPFetcher) Fetch(ctx context.Context, url string, opts ...Option) Result {
	r := request{
		method: http.MethodGet,
		header: http.Header{"Accept": []string{"application/xml"}},
	}
	for _, opt := range opts {
		opt(&r)
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return Result{Err: fmt.Errorf("waiting for rate limiter: %w", err)}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, Timeout)
	defer cancel()

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, url, body)
	if err != nil {
		return Result{Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header = r.header

	resp, err := f.client.Do(req)
	if err != nil {
		return Result{Err: fmt.Errorf("sending request: %w", err)}
	}
	defer resp.Body.Close()

	headers := headerLines(resp)

	reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if errors.Is(err, io.EOF) {
		// empty body, nothing to sniff
		return Result{Headers: headers}
	}
	if err != nil {
		return Result{Headers: headers, Err: fmt.Errorf("detecting charset: %w", err)}
	}
	data, err := io.ReadAll(io.LimitReader(reader, MaxBodySize))
	if err != nil {
		return Result{Headers: headers, Err: fmt.Errorf("reading body: %w", err)}
	}

	return Result{Body: string(data), Headers: headers}
}

// headerLines renders the response head as raw lines, keys in canonical form
func headerLines(resp *http.Response) []string {
	lines := []string{resp.Proto + " " + resp.Status}

	var b bytes.Buffer
	// Header.Write only fails when the writer does
	_ = resp.Header.Write(&b)
	for _, line := range strings.Split(b.String(), "\r\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
