// Package apiclient binds a REST resource of the manager API and normalizes
// every response into a decoded JSON payload or an HTTPFailure.
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/samvad-hq/fixturekit/pkg/httpclient"
)

const defaultTimeout = 30 * time.Second

// Client issues requests against one resource endpoint. It is immutable after
// New and safe for concurrent use when its transport is.
type Client struct {
	baseURL  string
	http     httpclient.Client
	log      Logger
	defaults []RequestOption
}

// ClientOption configures a Client at construction time.
type ClientOption func(*Client)

// WithHTTPClient replaces the default resty transport.
func WithHTTPClient(c httpclient.Client) ClientOption {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithLogger sets the sink for failure diagnostics.
func WithLogger(log Logger) ClientOption {
	return func(cl *Client) {
		cl.log = ensureLogger(log)
	}
}

// WithDefaults applies opts to every request before the per-call options.
func WithDefaults(opts ...RequestOption) ClientOption {
	return func(cl *Client) {
		cl.defaults = append(cl.defaults, opts...)
	}
}

// New binds a client to host + pathPrefix + resource. The fragments are
// concatenated as given; callers supply the separators.
func New(resource, host, pathPrefix string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: host + pathPrefix + resource,
		log:     noopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.http == nil {
		c.http = httpclient.NewRestyClient(defaultTimeout)
	}
	c.defaults = append([]RequestOption(nil), c.defaults...)
	return c
}

// BaseURL returns the bound resource URL.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) itemURL(id string) string { return c.baseURL + "/" + id }

// Get fetches base/id.
func (c *Client) Get(ctx context.Context, id string, opts ...RequestOption) (Result, error) {
	return c.do(ctx, http.MethodGet, c.itemURL(id), opts)
}

// Put sends a PUT to base/id.
func (c *Client) Put(ctx context.Context, id string, opts ...RequestOption) (Result, error) {
	return c.do(ctx, http.MethodPut, c.itemURL(id), opts)
}

// Delete sends a DELETE to base/id.
func (c *Client) Delete(ctx context.Context, id string, opts ...RequestOption) (Result, error) {
	return c.do(ctx, http.MethodDelete, c.itemURL(id), opts)
}

// Patch sends a PATCH to the base URL, without an id.
func (c *Client) Patch(ctx context.Context, opts ...RequestOption) (Result, error) {
	return c.do(ctx, http.MethodPatch, c.baseURL, opts)
}

// Post sends a POST to the base URL and discards the response, whatever its
// status. Unlike the other verbs nothing is normalized or logged; only a
// transport error is returned. Use PostResult to inspect the outcome.
func (c *Client) Post(ctx context.Context, opts ...RequestOption) error {
	_, err := c.http.Execute(ctx, http.MethodPost, c.baseURL, buildRequestOptions(c.defaults, opts))
	if err != nil {
		return fmt.Errorf("POST %s: %w", c.baseURL, err)
	}
	return nil
}

// PostResult sends a POST to the base URL and normalizes the response like
// Get. Post keeps its fire-and-forget behavior for existing callers.
func (c *Client) PostResult(ctx context.Context, opts ...RequestOption) (Result, error) {
	return c.do(ctx, http.MethodPost, c.baseURL, opts)
}

func (c *Client) do(ctx context.Context, method, url string, opts []RequestOption) (Result, error) {
	resp, err := c.http.Execute(ctx, method, url, buildRequestOptions(c.defaults, opts))
	if err != nil {
		return Result{}, fmt.Errorf("%s %s: %w", method, url, err)
	}
	return c.normalize(method, url, resp)
}

func (c *Client) normalize(method, url string, resp httpclient.Response) (Result, error) {
	status := resp.StatusCode()
	body := resp.Body()

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		reqURL := resp.URL()
		if reqURL == "" {
			reqURL = url
		}
		reqURL = redactURL(reqURL)
		failure := &HTTPFailure{Status: status, Body: string(body), URL: reqURL}
		c.log.WarnObj("api request failed", "api_response", map[string]any{
			"status": status,
			"body":   failure.Body,
		})
		c.log.WarnObj("api request failed url", "url", reqURL)
		return Result{Status: status, Failure: failure}, nil
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return Result{}, fmt.Errorf("decode %s %s response (status %d, body: %s): %w", method, url, status, bodySnippet(body), err)
	}
	return Result{Status: status, Payload: payload}, nil
}
