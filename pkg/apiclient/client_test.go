package apiclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samvad-hq/fixturekit/pkg/httpclient"
)

type capturedEntry struct {
	msg string
	key string
	obj interface{}
}

type capturingLogger struct {
	mu      sync.Mutex
	entries []capturedEntry
}

func (l *capturingLogger) add(msg, key string, obj interface{}) {
	l.mu.Lock()
	l.entries = append(l.entries, capturedEntry{msg: msg, key: key, obj: obj})
	l.mu.Unlock()
}

func (l *capturingLogger) InfoObj(msg, key string, obj interface{})  { l.add(msg, key, obj) }
func (l *capturingLogger) DebugObj(msg, key string, obj interface{}) { l.add(msg, key, obj) }
func (l *capturingLogger) WarnObj(msg, key string, obj interface{})  { l.add(msg, key, obj) }
func (l *capturingLogger) ErrorObj(msg, key string, obj interface{}) { l.add(msg, key, obj) }

type fakeResponse struct {
	status int
	body   string
	url    string
}

func (r fakeResponse) Body() []byte    { return []byte(r.body) }
func (r fakeResponse) StatusCode() int { return r.status }
func (r fakeResponse) URL() string     { return r.url }

type recordedCall struct {
	method string
	url    string
	opts   httpclient.RequestOptions
}

// fakeTransport answers every call with a fixed status and body.
type fakeTransport struct {
	status int
	body   string
	err    error
	calls  []recordedCall
}

func (f *fakeTransport) Execute(_ context.Context, method, url string, opts httpclient.RequestOptions) (httpclient.Response, error) {
	f.calls = append(f.calls, recordedCall{method: method, url: url, opts: opts})
	if f.err != nil {
		return nil, f.err
	}
	return fakeResponse{status: f.status, body: f.body, url: url}, nil
}

func TestNewConcatenatesFragmentsVerbatim(t *testing.T) {
	assert.Equal(t, "http://h/api/Task", New("Task", "http://h/", "api/").BaseURL())
	assert.Equal(t, "http://hapiTask", New("Task", "http://h", "api").BaseURL())
	assert.Equal(t, "http://h//api//Task", New("Task", "http://h/", "/api//").BaseURL())
}

func TestGetDecodesPayload(t *testing.T) {
	transport := &fakeTransport{status: http.StatusOK, body: `{"data": {"x":1}}`}
	log := &capturingLogger{}
	client := New("Task", "http://h/", "api/", WithHTTPClient(transport), WithLogger(log))

	res, err := client.Get(context.Background(), "123")
	require.NoError(t, err)
	require.True(t, res.OK())

	assert.Equal(t, map[string]any{"data": map[string]any{"x": float64(1)}}, res.Payload)
	require.Len(t, transport.calls, 1)
	assert.Equal(t, http.MethodGet, transport.calls[0].method)
	assert.Equal(t, "http://h/api/Task/123", transport.calls[0].url)
	assert.Empty(t, log.entries)

	data, ok := res.Field("data")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"x": float64(1)}, data)
}

func TestGetNotFoundReturnsFailure(t *testing.T) {
	transport := &fakeTransport{status: http.StatusNotFound, body: `{"code":"NotFound"}`}
	log := &capturingLogger{}
	client := New("Task", "http://h/", "api/", WithHTTPClient(transport), WithLogger(log))

	res, err := client.Get(context.Background(), "123")
	require.NoError(t, err)
	require.False(t, res.OK())
	assert.Nil(t, res.Payload)
	assert.Equal(t, &HTTPFailure{Status: 404, Body: `{"code":"NotFound"}`, URL: "http://h/api/Task/123"}, res.Failure)

	require.Len(t, log.entries, 2)
	assert.Equal(t, map[string]any{"status": 404, "body": `{"code":"NotFound"}`}, log.entries[0].obj)
	assert.Equal(t, "http://h/api/Task/123", log.entries[1].obj)

	_, ok := res.Field("code")
	assert.False(t, ok)
}

func TestVerbsUseExpectedMethodAndURL(t *testing.T) {
	transport := &fakeTransport{status: http.StatusOK, body: `[]`}
	client := New("Task", "http://h/", "api/", WithHTTPClient(transport))
	ctx := context.Background()

	_, err := client.Put(ctx, "7")
	require.NoError(t, err)
	_, err = client.Delete(ctx, "8")
	require.NoError(t, err)
	_, err = client.Patch(ctx)
	require.NoError(t, err)
	require.NoError(t, client.Post(ctx))
	_, err = client.PostResult(ctx)
	require.NoError(t, err)

	want := []struct{ method, url string }{
		{http.MethodPut, "http://h/api/Task/7"},
		{http.MethodDelete, "http://h/api/Task/8"},
		{http.MethodPatch, "http://h/api/Task"},
		{http.MethodPost, "http://h/api/Task"},
		{http.MethodPost, "http://h/api/Task"},
	}
	require.Len(t, transport.calls, len(want))
	for i, w := range want {
		assert.Equal(t, w.method, transport.calls[i].method, "call %d", i)
		assert.Equal(t, w.url, transport.calls[i].url, "call %d", i)
	}
}

func TestSuccessRangeReturnsPayloadVerbatim(t *testing.T) {
	body := `{"id":"a","nested":{"list":[1,"two",null,true]},"empty":{}}`
	want := map[string]any{
		"id":     "a",
		"nested": map[string]any{"list": []any{float64(1), "two", nil, true}},
		"empty":  map[string]any{},
	}
	for status := 200; status < 300; status++ {
		transport := &fakeTransport{status: status, body: body}
		client := New("Task", "http://h/", "api/", WithHTTPClient(transport))

		for name, call := range verbCalls(client) {
			res, err := call()
			require.NoError(t, err, "%s %d", name, status)
			require.True(t, res.OK(), "%s %d", name, status)
			assert.Equal(t, want, res.Payload, "%s %d", name, status)
			assert.Equal(t, status, res.Status)
		}
	}
}

func TestOutsideSuccessRangeReturnsFailure(t *testing.T) {
	for _, status := range []int{100, 199, 300, 301, 304, 400, 401, 404, 409, 500, 503} {
		transport := &fakeTransport{status: status, body: "not json"}
		client := New("Task", "http://h/", "api/", WithHTTPClient(transport))

		for name, call := range verbCalls(client) {
			res, err := call()
			require.NoError(t, err, "%s %d", name, status)
			require.False(t, res.OK(), "%s %d", name, status)
			assert.Equal(t, status, res.Failure.Status)
			assert.Equal(t, "not json", res.Failure.Body)
		}
	}
}

func verbCalls(c *Client) map[string]func() (Result, error) {
	ctx := context.Background()
	return map[string]func() (Result, error){
		"get":    func() (Result, error) { return c.Get(ctx, "1") },
		"put":    func() (Result, error) { return c.Put(ctx, "1") },
		"delete": func() (Result, error) { return c.Delete(ctx, "1") },
		"patch":  func() (Result, error) { return c.Patch(ctx) },
	}
}

func TestPostDiscardsResponse(t *testing.T) {
	for _, status := range []int{200, 201, 400, 500} {
		transport := &fakeTransport{status: status, body: "garbage"}
		log := &capturingLogger{}
		client := New("Task", "http://h/", "api/", WithHTTPClient(transport), WithLogger(log))

		require.NoError(t, client.Post(context.Background(), WithBody(map[string]any{"a": 1})))
		assert.Empty(t, log.entries)
	}
}

func TestPostReturnsTransportError(t *testing.T) {
	boom := errors.New("connection refused")
	client := New("Task", "http://h/", "api/", WithHTTPClient(&fakeTransport{err: boom}))

	err := client.Post(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestTransportErrorPropagates(t *testing.T) {
	boom := errors.New("dial tcp: lookup h: no such host")
	client := New("Task", "http://h/", "api/", WithHTTPClient(&fakeTransport{err: boom}))

	_, err := client.Get(context.Background(), "1")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestMalformedJSONOnSuccessIsAnError(t *testing.T) {
	for _, body := range []string{"", "{", "<html></html>"} {
		client := New("Task", "http://h/", "api/", WithHTTPClient(&fakeTransport{status: 200, body: body}))
		_, err := client.Get(context.Background(), "1")
		assert.Error(t, err, "body %q", body)
	}
}

func TestDefaultsApplyBeforeCallOptions(t *testing.T) {
	transport := &fakeTransport{status: http.StatusOK, body: `{}`}
	client := New("Task", "http://h/", "api/",
		WithHTTPClient(transport),
		WithDefaults(WithAccessToken("tok"), WithHeader("X-Env", "default"), WithTimeout(time.Second)),
	)

	_, err := client.Get(context.Background(), "1", WithHeader("X-Env", "override"), WithQuery("filter", "f"))
	require.NoError(t, err)

	opts := transport.calls[0].opts
	assert.Equal(t, "tok", opts.Query.Get(AccessTokenParam))
	assert.Equal(t, "f", opts.Query.Get("filter"))
	assert.Equal(t, "override", opts.Headers["X-Env"])
	assert.Equal(t, time.Second, opts.Timeout)
}

func TestWithAccessTokenIgnoresEmptyToken(t *testing.T) {
	opts := buildRequestOptions(nil, []RequestOption{WithAccessToken("")})
	assert.Nil(t, opts.Query)
}

func TestFailureDiagnosticsMaskAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"code":"Forbidden"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	log := &capturingLogger{}
	client := New("Task", srv.URL+"/", "api/", WithLogger(log), WithDefaults(WithAccessToken("s3cret")))

	res, err := client.Get(context.Background(), "9", WithQuery("filter", "x"))
	require.NoError(t, err)
	require.False(t, res.OK())

	require.Len(t, log.entries, 2)
	loggedURL, ok := log.entries[1].obj.(string)
	require.True(t, ok)
	assert.NotContains(t, loggedURL, "s3cret")
	assert.Contains(t, loggedURL, AccessTokenParam+"="+redacted)
	assert.Contains(t, loggedURL, "filter=x")
	assert.NotContains(t, res.Failure.URL, "s3cret")
	assert.NotContains(t, res.Failure.String(), "s3cret")
}

func TestRedactURL(t *testing.T) {
	cases := map[string]string{
		"http://h/api/Task/1":                      "http://h/api/Task/1",
		"http://h/api/Task/1?access_token=tok":     "http://h/api/Task/1?access_token=REDACTED",
		"http://h/api/Task/1?a=1&access_token=tok": "http://h/api/Task/1?a=1&access_token=REDACTED",
		"http://h/api/Task/1?not_access_token_x=1": "http://h/api/Task/1?not_access_token_x=1",
		"http://h/%zz?access_token=tok":            "http://h/%zz",
	}
	for in, want := range cases {
		assert.Equal(t, want, redactURL(in), in)
	}
}

func TestGetForwardsBodyOverHTTP(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		got = string(raw)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := New("Task", srv.URL+"/", "api/").Get(context.Background(), "1", WithBody(map[string]any{"where": 1}))
	require.NoError(t, err)
	assert.Equal(t, `{"where":1}`, got)
}

func TestClientAgainstHTTPServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/Task/123":
			if r.URL.Query().Get(AccessTokenParam) != "tok" {
				http.Error(w, `{"code":"Unauthorized"}`, http.StatusUnauthorized)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"data": {"x":1}}`))
		case r.Method == http.MethodPost && r.URL.Path == "/api/Task":
			raw, _ := io.ReadAll(r.Body)
			w.WriteHeader(http.StatusCreated)
			_, _ = fmt.Fprintf(w, `{"received":%s}`, raw)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	log := &capturingLogger{}
	client := New("Task", srv.URL+"/", "api/", WithLogger(log))
	ctx := context.Background()

	res, err := client.Get(ctx, "123", WithAccessToken("tok"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"data": map[string]any{"x": float64(1)}}, res.Payload)

	res, err = client.Get(ctx, "123")
	require.NoError(t, err)
	require.False(t, res.OK())
	assert.Equal(t, http.StatusUnauthorized, res.Failure.Status)
	assert.Equal(t, srv.URL+"/api/Task/123", res.Failure.URL)
	assert.Len(t, log.entries, 2)

	res, err = client.PostResult(ctx, WithBody(map[string]any{"name": "t"}))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"received": map[string]any{"name": "t"}}, res.Payload)
}
