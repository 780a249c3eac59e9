package httpclient

import (
	"context"
	"net/url"
	"time"
)

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
	// URL is the final request URL, query string included.
	URL() string
}

// RequestOptions carries transport-level settings forwarded unchanged to the request.
type RequestOptions struct {
	Headers map[string]string
	Query   url.Values
	Body    any
	Timeout time.Duration
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
type Client interface {
	Execute(ctx context.Context, method, url string, opts RequestOptions) (Response, error)
}
