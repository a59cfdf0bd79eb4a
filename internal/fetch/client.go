package fetch

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// defaultMaxBodySize bounds the response body read when no limit is set.
const defaultMaxBodySize = 5 * 1024 * 1024 // 5MB

// Client fetches pages from the aggregator site.
// It performs exactly one attempt per URL: retry policy, if any, is a
// caller-level decision.
type Client struct {
	// http is the underlying resty client, configured with the timeout
	// and default headers.
	http *resty.Client

	// maxBodySize limits the response body size read per page.
	maxBodySize int64
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each request, covering connection and body read.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(d)
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.http.SetHeader("User-Agent", ua)
	}
}

// WithAcceptLanguage sets the Accept-Language header sent with every request.
func WithAcceptLanguage(lang string) Option {
	return func(c *Client) {
		c.http.SetHeader("Accept-Language", lang)
	}
}

// WithMaxBodySize limits the response body size read per page.
func WithMaxBodySize(size int64) Option {
	return func(c *Client) {
		if size > 0 {
			c.maxBodySize = size
		}
	}
}

// New creates a Client with a 30 second timeout and the default body limit.
// Options override both.
func New(opts ...Option) *Client {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	c := &Client{
		http:        client,
		maxBodySize: defaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Fetch retrieves the page at the given URL and returns the raw markup.
// Failures come back as *Error with a Kind of network, timeout, or status.
//
// The response is read through the raw body so the size limit applies
// before the bytes are buffered.
func (c *Client) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(pageURL)
	if err != nil {
		return nil, classify(pageURL, err)
	}
	defer func() { _ = res.RawBody().Close() }()

	if res.StatusCode() < http.StatusOK || res.StatusCode() >= http.StatusMultipleChoices {
		return nil, &Error{Kind: KindStatus, URL: pageURL, StatusCode: res.StatusCode()}
	}

	body, err := io.ReadAll(io.LimitReader(res.RawBody(), c.maxBodySize))
	if err != nil {
		return nil, classify(pageURL, err)
	}

	return body, nil
}

// classify maps a transport error to a typed Error.
func classify(pageURL string, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, URL: pageURL, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, URL: pageURL, Err: err}
	}

	return &Error{Kind: KindNetwork, URL: pageURL, Err: err}
}
