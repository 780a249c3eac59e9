package apiclient

import (
	"net/url"
	"time"

	"github.com/samvad-hq/fixturekit/pkg/httpclient"
)

// AccessTokenParam is the query parameter the manager API reads its token from.
const AccessTokenParam = "access_token"

// RequestOption adjusts the transport options of a single request.
type RequestOption func(*httpclient.RequestOptions)

// WithHeader sets one request header.
func WithHeader(key, value string) RequestOption {
	return func(o *httpclient.RequestOptions) {
		if o.Headers == nil {
			o.Headers = make(map[string]string)
		}
		o.Headers[key] = value
	}
}

// WithHeaders merges headers into the request.
func WithHeaders(headers map[string]string) RequestOption {
	return func(o *httpclient.RequestOptions) {
		if len(headers) == 0 {
			return
		}
		if o.Headers == nil {
			o.Headers = make(map[string]string, len(headers))
		}
		for k, v := range headers {
			o.Headers[k] = v
		}
	}
}

// WithQuery sets one query parameter, replacing earlier values for key.
func WithQuery(key, value string) RequestOption {
	return func(o *httpclient.RequestOptions) {
		if o.Query == nil {
			o.Query = url.Values{}
		}
		o.Query.Set(key, value)
	}
}

// WithQueryValues adds all values to the query string.
func WithQueryValues(values url.Values) RequestOption {
	return func(o *httpclient.RequestOptions) {
		if len(values) == 0 {
			return
		}
		if o.Query == nil {
			o.Query = url.Values{}
		}
		for k, vs := range values {
			for _, v := range vs {
				o.Query.Add(k, v)
			}
		}
	}
}

// WithBody sets the request body. Maps and structs are sent as JSON.
func WithBody(body any) RequestOption {
	return func(o *httpclient.RequestOptions) {
		o.Body = body
	}
}

// WithTimeout bounds a single request.
func WithTimeout(d time.Duration) RequestOption {
	return func(o *httpclient.RequestOptions) {
		o.Timeout = d
	}
}

// WithAccessToken adds the access_token query parameter. An empty token is ignored.
func WithAccessToken(token string) RequestOption {
	return func(o *httpclient.RequestOptions) {
		if token == "" {
			return
		}
		WithQuery(AccessTokenParam, token)(o)
	}
}

func buildRequestOptions(defaults, opts []RequestOption) httpclient.RequestOptions {
	var out httpclient.RequestOptions
	for _, opt := range defaults {
		if opt != nil {
			opt(&out)
		}
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&out)
		}
	}
	return out
}
