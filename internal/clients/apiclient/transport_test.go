package apiclient_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/trainer-api/internal/clients/apiclient"
)

type TransportTestSuite struct {
	suite.Suite
	ctx     context.Context
	mu      sync.Mutex
	handler http.HandlerFunc
	server  *httptest.Server
}

func TestTransportSuite(t *testing.T) {
	suite.Run(t, new(TransportTestSuite))
}

func (s *TransportTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.handler = func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		h := s.handler
		s.mu.Unlock()
		h(w, r)
	}))
}

func (s *TransportTestSuite) handle(h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = h
}

func (s *TransportTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *TransportTestSuite) transport(cfg apiclient.TransportConfig) apiclient.Transport {
	if cfg.BaseURL == "" {
		cfg.BaseURL = s.server.URL
	}
	t, err := apiclient.NewTransport(&cfg)
	s.Require().NoError(err)
	return t
}

func (s *TransportTestSuite) TestNewTransportValidation() {
	_, err := apiclient.NewTransport(nil)
	s.Assert().Error(err)

	_, err = apiclient.NewTransport(&apiclient.TransportConfig{})
	s.Assert().ErrorContains(err, "BaseURL")

	_, err = apiclient.NewTransport(&apiclient.TransportConfig{BaseURL: "localhost"})
	s.Assert().ErrorContains(err, "BaseURL")

	_, err = apiclient.NewTransport(&apiclient.TransportConfig{BaseURL: "http://localhost", Timeout: -time.Second})
	s.Assert().ErrorContains(err, "Timeout")
}

func (s *TransportTestSuite) TestSuccess() {
	var got *http.Request
	var gotBody string
	s.handle(func(w http.ResponseWriter, r *http.Request) {
		got = r
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"cl_1"}`))
	})

	resp, err := s.transport(apiclient.TransportConfig{Token: "tok"}).Send(s.ctx, &apiclient.Request{
		Method: http.MethodPost,
		Path:   "/v1/clients",
		Query:  map[string][]string{"dry_run": {"true"}},
		Body:   map[string]string{"email": "a@b.co"},
	})
	s.Require().NoError(err)

	s.Assert().Equal(http.StatusCreated, resp.Status)
	var out struct {
		ID string `json:"id"`
	}
	s.Require().NoError(resp.DecodeJSON(&out))
	s.Assert().Equal("cl_1", out.ID)

	s.Require().NotNil(got)
	s.Assert().Equal(http.MethodPost, got.Method)
	s.Assert().Equal("/v1/clients", got.URL.Path)
	s.Assert().Equal("true", got.URL.Query().Get("dry_run"))
	s.Assert().Equal("Bearer tok", got.Header.Get("Authorization"))
	s.Assert().Equal("trainer-api-client", got.Header.Get("User-Agent"))
	s.Assert().Equal("application/json", got.Header.Get("Content-Type"))
	s.Assert().JSONEq(`{"email":"a@b.co"}`, gotBody)
}

func (s *TransportTestSuite) TestEscapedPath() {
	var rawPath string
	s.handle(func(w http.ResponseWriter, r *http.Request) {
		rawPath = r.URL.EscapedPath()
		w.WriteHeader(http.StatusNoContent)
	})

	_, err := s.transport(apiclient.TransportConfig{}).Send(s.ctx, &apiclient.Request{Path: "/v1/clients/a%2Fb"})
	s.Require().NoError(err)
	s.Assert().Equal("/v1/clients/a%2Fb", rawPath)
}

func (s *TransportTestSuite) TestHeaderOverridesToken() {
	var auth string
	s.handle(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	})

	_, err := s.transport(apiclient.TransportConfig{Token: "tok", UserAgent: "cli"}).Send(s.ctx, &apiclient.Request{
		Path:   "/v1/me",
		Header: http.Header{"Authorization": {"Bearer other"}},
	})
	s.Require().NoError(err)
	s.Assert().Equal("Bearer other", auth)
}

func (s *TransportTestSuite) TestHasResponse() {
	testCases := []struct {
		name        string
		status      int
		contentType string
		body        string
		wantBody    any
	}{
		{
			name:        "json envelope",
			status:      http.StatusConflict,
			contentType: "application/json",
			body:        `{"error":{"code":"DUPLICATE_EMAIL","message":"Email already used"}}`,
			wantBody: map[string]any{
				"error": map[string]any{"code": "DUPLICATE_EMAIL", "message": "Email already used"},
			},
		},
		{
			name:        "numeric code",
			status:      http.StatusInternalServerError,
			contentType: "application/json",
			body:        `{"error":{"code":500,"message":"Internal Server Error"}}`,
			wantBody: map[string]any{
				"error": map[string]any{"code": json.Number("500"), "message": "Internal Server Error"},
			},
		},
		{
			name:        "text",
			status:      http.StatusBadGateway,
			contentType: "text/html",
			body:        "<h1>Bad Gateway</h1>",
			wantBody:    "<h1>Bad Gateway</h1>",
		},
		{
			name:        "concatenated json is text",
			status:      http.StatusBadRequest,
			contentType: "application/json",
			body:        `{"a":1}{"b":2}`,
			wantBody:    `{"a":1}{"b":2}`,
		},
		{
			name:   "empty",
			status: http.StatusServiceUnavailable,
		},
		{
			name:        "not modified",
			status:      http.StatusNotModified,
			contentType: "application/json",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.handle(func(w http.ResponseWriter, _ *http.Request) {
				if tc.contentType != "" {
					w.Header().Set("Content-Type", tc.contentType)
				}
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			resp, err := s.transport(apiclient.TransportConfig{}).Send(s.ctx, &apiclient.Request{Path: "/v1/clients"})
			s.Assert().Nil(resp)

			var hr apiclient.HasResponse
			s.Require().ErrorAs(err, &hr)
			s.Assert().Equal(tc.status, hr.Status)
			s.Assert().Equal(tc.wantBody, hr.Body)
		})
	}
}

func (s *TransportTestSuite) TestNoResponse() {
	s.Run("server gone", func() {
		t := s.transport(apiclient.TransportConfig{})
		s.server.Close()

		_, err := t.Send(s.ctx, &apiclient.Request{Path: "/v1/me"})
		var nr apiclient.NoResponse
		s.Require().ErrorAs(err, &nr)
		s.Assert().Error(nr.Cause)
	})
}

func (s *TransportTestSuite) TestTimeoutIsNoResponse() {
	release := make(chan struct{})
	defer close(release)
	s.handle(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})

	_, err := s.transport(apiclient.TransportConfig{Timeout: 50 * time.Millisecond}).Send(s.ctx, &apiclient.Request{Path: "/v1/me"})
	var nr apiclient.NoResponse
	s.Assert().ErrorAs(err, &nr)
}

func (s *TransportTestSuite) TestLocalFault() {
	t := s.transport(apiclient.TransportConfig{})

	s.Run("context already canceled", func() {
		ctx, cancel := context.WithCancel(s.ctx)
		cancel()

		_, err := t.Send(ctx, &apiclient.Request{Path: "/v1/me"})
		var lf apiclient.LocalFault
		s.Require().ErrorAs(err, &lf)
		s.Assert().ErrorIs(err, context.Canceled)
	})

	s.Run("nil request", func() {
		_, err := t.Send(s.ctx, nil)
		var lf apiclient.LocalFault
		s.Require().ErrorAs(err, &lf)
		s.Assert().Equal("request is required", lf.Message)
	})

	s.Run("body cannot be encoded", func() {
		_, err := t.Send(s.ctx, &apiclient.Request{Method: http.MethodPost, Path: "/v1/clients", Body: make(chan int)})
		var lf apiclient.LocalFault
		s.Require().ErrorAs(err, &lf)
		s.Assert().Contains(lf.Message, "failed to encode request body")
	})

	s.Run("invalid method", func() {
		_, err := t.Send(s.ctx, &apiclient.Request{Method: "BAD METHOD", Path: "/v1/me"})
		var lf apiclient.LocalFault
		s.Assert().ErrorAs(err, &lf)
	})
}

func (s *TransportTestSuite) TestBodyIsCapped() {
	s.handle(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", apiclient.MaxBodyBytes+1024)))
	})

	resp, err := s.transport(apiclient.TransportConfig{}).Send(s.ctx, &apiclient.Request{Path: "/v1/me"})
	s.Require().NoError(err)
	s.Assert().Len(resp.Body, apiclient.MaxBodyBytes)
}

func (s *TransportTestSuite) TestAsFailure() {
	s.Assert().Nil(apiclient.AsFailure(nil))

	hr := apiclient.HasResponse{Status: 404}
	s.Assert().Equal(hr, apiclient.AsFailure(hr))

	f := apiclient.AsFailure(io.ErrUnexpectedEOF)
	lf, ok := f.(apiclient.LocalFault)
	s.Require().True(ok)
	s.Assert().Equal(io.ErrUnexpectedEOF.Error(), lf.Message)
	s.Assert().ErrorIs(f, io.ErrUnexpectedEOF)
}
