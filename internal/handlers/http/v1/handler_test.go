package v1_test

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/trainer-api/internal/auth"
	"github.com/KirkDiggler/trainer-api/internal/boundary"
	"github.com/KirkDiggler/trainer-api/internal/entities"
	"github.com/KirkDiggler/trainer-api/internal/envelope"
	"github.com/KirkDiggler/trainer-api/internal/errors"
	v1 "github.com/KirkDiggler/trainer-api/internal/handlers/http/v1"
	"github.com/KirkDiggler/trainer-api/internal/orchestrators/clients"
	clientsmock "github.com/KirkDiggler/trainer-api/internal/orchestrators/clients/mock"
)

const trainerID = "trainer_1"

type HandlerTestSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	mockService *clientsmock.MockService
	auth        *auth.Authenticator
	server      *httptest.Server
	token       string
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockService = clientsmock.NewMockService(s.ctrl)

	a, err := auth.New(&auth.Config{Secret: "test-secret", TTL: time.Hour})
	s.Require().NoError(err)
	s.auth = a
	s.token = s.issue(true)

	log, _ := test.NewNullLogger()
	registry := prometheus.NewRegistry()
	metrics, err := boundary.NewMetrics(registry)
	s.Require().NoError(err)

	b, err := boundary.New(&boundary.Config{Classifier: errors.NewClassifier(), Logger: log, Metrics: metrics})
	s.Require().NoError(err)

	h, err := v1.NewHandler(&v1.HandlerConfig{
		ClientService: s.mockService,
		Authenticator: a,
		Boundary:      b,
		Metrics:       promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})
	s.Require().NoError(err)

	s.server = httptest.NewServer(h.Routes())
}

func (s *HandlerTestSuite) TearDownTest() {
	s.server.Close()
	s.ctrl.Finish()
}

func (s *HandlerTestSuite) issue(verified bool) string {
	token, _, err := s.auth.Issue(entities.Trainer{ID: trainerID, Email: "coach@example.com", EmailVerified: verified})
	s.Require().NoError(err)
	return token
}

func (s *HandlerTestSuite) do(method, path, token, body string) (*http.Response, string) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, s.server.URL+path, reader)
	s.Require().NoError(err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.server.Client().Do(req)
	s.Require().NoError(err)
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp, string(data)
}

func (s *HandlerTestSuite) assertEnvelope(resp *http.Response, body string, status int, code, message string) {
	s.Assert().Equal(status, resp.StatusCode)
	s.Assert().Equal(envelope.ContentType, resp.Header.Get("Content-Type"))

	env, err := envelope.Decode([]byte(body))
	s.Require().NoError(err, body)
	s.Assert().Equal(code, env.Error.CodeString())
	if message != "" {
		s.Assert().Equal(message, env.Error.Message)
	}
}

func (s *HandlerTestSuite) TestHealth() {
	resp, body := s.do(http.MethodGet, "/healthz", "", "")
	s.Assert().Equal(http.StatusOK, resp.StatusCode)
	s.Assert().JSONEq(`{"status":"ok"}`, body)
	s.Assert().NotEmpty(resp.Header.Get(boundary.RequestIDHeader))
}

func (s *HandlerTestSuite) TestRouting() {
	s.Run("unknown route", func() {
		resp, body := s.do(http.MethodGet, "/v2/nothing", s.token, "")
		s.assertEnvelope(resp, body, http.StatusNotFound, "ROUTE_NOT_FOUND", "The requested resource does not exist.")
	})

	s.Run("wrong method", func() {
		resp, body := s.do(http.MethodPatch, "/v1/clients/cl_1", s.token, "")
		s.assertEnvelope(resp, body, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "")
		s.Assert().Equal("GET, PUT, DELETE", resp.Header.Get("Allow"))
	})

	s.Run("metrics", func() {
		s.do(http.MethodGet, "/v2/nothing", "", "")
		resp, body := s.do(http.MethodGet, "/metrics", "", "")
		s.Assert().Equal(http.StatusOK, resp.StatusCode)
		s.Assert().Contains(body, `trainer_api_faults_total{code="ROUTE_NOT_FOUND",kind="http_aware",status="404"}`)
	})
}

func (s *HandlerTestSuite) TestAuthFailures() {
	s.Run("missing token", func() {
		resp, body := s.do(http.MethodGet, "/v1/clients", "", "")
		s.assertEnvelope(resp, body, http.StatusUnauthorized, "TOKEN_MISSING", "Authentication is required.")
	})

	s.Run("invalid token", func() {
		resp, body := s.do(http.MethodGet, "/v1/clients", "not-a-token", "")
		s.assertEnvelope(resp, body, http.StatusUnauthorized, "TOKEN_INVALID", "")
	})

	s.Run("unverified email", func() {
		resp, body := s.do(http.MethodGet, "/v1/clients", s.issue(false), "")
		s.assertEnvelope(resp, body, http.StatusForbidden, "EMAIL_NOT_VERIFIED", "Please verify your email address before continuing.")
	})

	s.Run("me works without verification", func() {
		resp, body := s.do(http.MethodGet, "/v1/me", s.issue(false), "")
		s.Assert().Equal(http.StatusOK, resp.StatusCode)
		s.Assert().JSONEq(`{"id":"trainer_1","email":"coach@example.com","email_verified":false}`, body)
	})
}

func (s *HandlerTestSuite) TestCreateClient() {
	s.Run("created", func() {
		s.mockService.EXPECT().
			CreateClient(gomock.Any(), &clients.CreateClientInput{
				TrainerID: trainerID,
				Fields:    clients.ClientFields{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
			}).
			Return(&clients.CreateClientOutput{Client: &entities.Client{ID: "cl_1", TrainerID: trainerID, FirstName: "Ada"}}, nil)

		resp, body := s.do(http.MethodPost, "/v1/clients", s.token, `{"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com"}`)
		s.Assert().Equal(http.StatusCreated, resp.StatusCode)
		s.Assert().Contains(body, `"id":"cl_1"`)
	})

	s.Run("malformed body", func() {
		resp, body := s.do(http.MethodPost, "/v1/clients", s.token, `{"first_name":`)
		s.assertEnvelope(resp, body, http.StatusBadRequest, "MALFORMED_BODY", "The request body is not valid JSON.")
	})

	s.Run("unknown field", func() {
		resp, body := s.do(http.MethodPost, "/v1/clients", s.token, `{"first_name":"Ada","age":3}`)
		s.assertEnvelope(resp, body, http.StatusBadRequest, "MALFORMED_BODY", "")
	})

	s.Run("validation failure", func() {
		resp, body := s.do(http.MethodPost, "/v1/clients", s.token, `{"first_name":"Ada","last_name":"","email":"nope"}`)
		s.assertEnvelope(resp, body, http.StatusBadRequest, "VALIDATION_FAILED", "")
		s.Assert().Contains(body, "email: must be a valid email address")
	})

	s.Run("duplicate email", func() {
		s.mockService.EXPECT().
			CreateClient(gomock.Any(), gomock.Any()).
			Return(nil, errors.FromReason(errors.ReasonDuplicateEmail))

		resp, body := s.do(http.MethodPost, "/v1/clients", s.token, `{"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com"}`)
		s.assertEnvelope(resp, body, http.StatusConflict, "DUPLICATE_EMAIL", "A client with this email already exists.")
	})

	s.Run("storage fault", func() {
		s.mockService.EXPECT().
			CreateClient(gomock.Any(), gomock.Any()).
			Return(nil, errors.Storage(stderrors.New("READONLY"), "create", "Client records could not be saved right now."))

		resp, body := s.do(http.MethodPost, "/v1/clients", s.token, `{"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com"}`)
		s.assertEnvelope(resp, body, http.StatusBadRequest, "400", "Client records could not be saved right now.")
		s.Assert().NotContains(body, "READONLY")
	})
}

func (s *HandlerTestSuite) TestClientRoutes() {
	s.Run("list", func() {
		s.mockService.EXPECT().
			ListClients(gomock.Any(), &clients.ListClientsInput{TrainerID: trainerID}).
			Return(&clients.ListClientsOutput{}, nil)

		resp, body := s.do(http.MethodGet, "/v1/clients", s.token, "")
		s.Assert().Equal(http.StatusOK, resp.StatusCode)
		s.Assert().JSONEq(`{"clients":[]}`, body)
	})

	s.Run("get missing", func() {
		s.mockService.EXPECT().
			GetClient(gomock.Any(), &clients.GetClientInput{TrainerID: trainerID, ClientID: "cl_9"}).
			Return(nil, errors.FromReason(errors.ReasonClientNotFound))

		resp, body := s.do(http.MethodGet, "/v1/clients/cl_9", s.token, "")
		s.assertEnvelope(resp, body, http.StatusNotFound, "CLIENT_NOT_FOUND", "Client not found.")
	})

	s.Run("update", func() {
		s.mockService.EXPECT().
			UpdateClient(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, input *clients.UpdateClientInput) (*clients.UpdateClientOutput, error) {
				s.Assert().Equal("cl_1", input.ClientID)
				s.Assert().Equal("run 10k", input.Fields.Goal)
				return &clients.UpdateClientOutput{Client: &entities.Client{ID: "cl_1", Goal: "run 10k"}}, nil
			})

		resp, body := s.do(http.MethodPut, "/v1/clients/cl_1", s.token, `{"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com","goal":"run 10k"}`)
		s.Assert().Equal(http.StatusOK, resp.StatusCode)
		s.Assert().Contains(body, `"goal":"run 10k"`)
	})

	s.Run("delete", func() {
		s.mockService.EXPECT().
			DeleteClient(gomock.Any(), &clients.DeleteClientInput{TrainerID: trainerID, ClientID: "cl_1"}).
			Return(&clients.DeleteClientOutput{}, nil)

		resp, body := s.do(http.MethodDelete, "/v1/clients/cl_1", s.token, "")
		s.Assert().Equal(http.StatusNoContent, resp.StatusCode)
		s.Assert().Empty(body)
	})

	s.Run("unexpected failure", func() {
		s.mockService.EXPECT().
			DeleteClient(gomock.Any(), gomock.Any()).
			Return(nil, stderrors.New("lost connection to shard"))

		resp, body := s.do(http.MethodDelete, "/v1/clients/cl_1", s.token, "")
		s.assertEnvelope(resp, body, http.StatusInternalServerError, "500", "lost connection to shard")
	})
}
