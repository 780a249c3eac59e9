package apiclient

import (
	"fmt"
	"strings"
)

// HTTPFailure describes a request that completed with a status outside [200, 300).
// URL is the final request URL with any access token value masked.
type HTTPFailure struct {
	Status int
	Body   string
	URL    string
}

func (f *HTTPFailure) String() string {
	if f == nil {
		return "<nil>"
	}
	return fmt.Sprintf("status %d from %s: %s", f.Status, f.URL, bodySnippet([]byte(f.Body)))
}

// Result is the normalized outcome of a request: either a decoded JSON payload
// or an HTTP failure. Exactly one of Payload and Failure is meaningful.
type Result struct {
	Status  int
	Payload any
	Failure *HTTPFailure
}

// OK reports whether the request completed with a 2xx status.
func (r Result) OK() bool { return r.Failure == nil }

// Field returns the top-level key of an object payload.
func (r Result) Field(key string) (any, bool) {
	if !r.OK() {
		return nil, false
	}
	obj, ok := r.Payload.(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := obj[key]
	return v, ok
}

func bodySnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
