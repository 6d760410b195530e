// Package apiclient is the caller side of the error protocol: a transport
// that reports every failure as one of three shapes, a normalizer that
// reduces them to a NormalizedError, and a typed client for the v1 routes.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/KirkDiggler/trainer-api/internal/errors"
)

//go:generate mockgen -destination=mock/mock_transport.go -package=apiclientmock github.com/KirkDiggler/trainer-api/internal/clients/apiclient Transport

const (
	// MaxBodyBytes caps how much of a response body is read
	MaxBodyBytes = 1 << 20

	defaultUserAgent = "trainer-api-client"
	defaultTimeout   = 30 * time.Second
)

// Failure is the error returned by Transport.Send. It is always one of
// HasResponse, NoResponse or LocalFault.
type Failure interface {
	error
	failure()
}

// HasResponse is a non-2xx reply. Body is the decoded JSON value (objects
// as map[string]any, numbers as json.Number), the raw text when the body is
// not JSON, or nil when there was no readable body.
type HasResponse struct {
	Status int
	Body   any
}

func (f HasResponse) Error() string { return fmt.Sprintf("request failed with status %d", f.Status) }
func (HasResponse) failure()        {}

// NoResponse means the request was dispatched but nothing came back
type NoResponse struct {
	Cause error
}

func (f NoResponse) Error() string {
	if f.Cause == nil {
		return "no response from server"
	}
	return "no response from server: " + f.Cause.Error()
}
func (f NoResponse) Unwrap() error { return f.Cause }
func (NoResponse) failure()        {}

// LocalFault means the request never left the process
type LocalFault struct {
	Message string
	Cause   error
}

func (f LocalFault) Error() string { return f.Message }
func (f LocalFault) Unwrap() error { return f.Cause }
func (LocalFault) failure()        {}

// AsFailure returns err when it already is a Failure and wraps anything
// else as a LocalFault.
func AsFailure(err error) Failure {
	if err == nil {
		return nil
	}
	if f, ok := err.(Failure); ok {
		return f
	}
	return LocalFault{Message: err.Error(), Cause: err}
}

// Request describes one call relative to the transport's base URL
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	// Body is encoded as JSON when non-nil
	Body any
}

// Response is a 2xx reply
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// DecodeJSON decodes the response body into v
func (r *Response) DecodeJSON(v any) error {
	if len(r.Body) == 0 {
		return nil
	}
	return json.Unmarshal(r.Body, v)
}

// Transport sends requests to the trainer API
type Transport interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

// TransportConfig holds the settings of an HTTP transport
type TransportConfig struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
	UserAgent  string
	Token      string
}

// Validate ensures the base URL is usable
func (c *TransportConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.BaseURL == "" {
		vb.RequiredField("BaseURL")
	} else if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		vb.InvalidField("BaseURL", "must be an absolute URL")
	}
	if c.Timeout < 0 {
		vb.Field("Timeout", "must not be negative")
	}

	return vb.Build()
}

type httpTransport struct {
	baseURL   *url.URL
	client    *http.Client
	userAgent string
	token     string
}

// NewTransport creates an HTTP transport. It is safe for concurrent use.
func NewTransport(cfg *TransportConfig) (Transport, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid transport config")
	}

	base, _ := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))

	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &httpTransport{
		baseURL:   base,
		client:    client,
		userAgent: userAgent,
		token:     cfg.Token,
	}, nil
}

func (t *httpTransport) Send(ctx context.Context, req *Request) (*Response, error) {
	httpReq, fault := t.build(ctx, req)
	if fault != nil {
		return nil, *fault
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, NoResponse{Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if readErr != nil {
			body = nil
		}
		return nil, HasResponse{Status: resp.StatusCode, Body: decodeBody(body)}
	}
	if readErr != nil {
		return nil, NoResponse{Cause: readErr}
	}

	return &Response{
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   body,
	}, nil
}

// build turns req into an *http.Request. Anything that fails here is a
// LocalFault, including a context that is already done.
func (t *httpTransport) build(ctx context.Context, req *Request) (*http.Request, *LocalFault) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, &LocalFault{Message: err.Error(), Cause: err}
	}
	if req == nil {
		return nil, &LocalFault{Message: "request is required"}
	}

	ref, err := url.Parse(req.Path)
	if err != nil {
		return nil, &LocalFault{Message: fmt.Sprintf("invalid request path %q", req.Path), Cause: err}
	}
	target := t.baseURL.JoinPath(ref.EscapedPath())
	if len(req.Query) > 0 {
		target.RawQuery = req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, &LocalFault{Message: "failed to encode request body: " + err.Error(), Cause: err}
		}
		body = bytes.NewReader(data)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, &LocalFault{Message: err.Error(), Cause: err}
	}

	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", t.userAgent)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if t.token != "" && httpReq.Header.Get("Authorization") == "" {
		httpReq.Header.Set("Authorization", "Bearer "+t.token)
	}

	return httpReq, nil
}

// decodeBody returns the JSON value in data, the text itself when it is not
// JSON, or nil when data is empty.
func decodeBody(data []byte) any {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return string(data)
	}
	return v
}
