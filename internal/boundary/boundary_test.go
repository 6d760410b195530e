package boundary_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/trainer-api/internal/boundary"
	"github.com/KirkDiggler/trainer-api/internal/envelope"
	"github.com/KirkDiggler/trainer-api/internal/errors"
)

type quotaFault struct{}

func (quotaFault) Error() string         { return "quota exceeded" }
func (quotaFault) HTTPStatus() int       { return http.StatusTooManyRequests }
func (quotaFault) PublicMessage() string { return "Slow down." }

type BoundaryTestSuite struct {
	suite.Suite
	hook     *test.Hook
	registry *prometheus.Registry
	b        *boundary.Boundary
}

func TestBoundarySuite(t *testing.T) {
	suite.Run(t, new(BoundaryTestSuite))
}

func (s *BoundaryTestSuite) SetupTest() {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	s.hook = hook

	s.registry = prometheus.NewRegistry()
	metrics, err := boundary.NewMetrics(s.registry)
	s.Require().NoError(err)

	b, err := boundary.New(&boundary.Config{
		Classifier: errors.NewClassifier(),
		Logger:     log,
		Metrics:    metrics,
	})
	s.Require().NoError(err)
	s.b = b
}

func (s *BoundaryTestSuite) serve(h boundary.HandlerFunc) (*httptest.ResponseRecorder, envelope.Body) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/clients/cl_1", nil)
	s.b.Middleware(s.b.Handle(h)).ServeHTTP(rec, req)

	body, err := envelope.Decode(rec.Body.Bytes())
	if rec.Code >= 400 {
		s.Require().NoError(err)
	}
	return rec, body
}

func (s *BoundaryTestSuite) TestConfigValidation() {
	_, err := boundary.New(&boundary.Config{})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *BoundaryTestSuite) TestFaultsBecomeEnvelopes() {
	testCases := []struct {
		name    string
		err     error
		status  int
		message string
		code    string
	}{
		{
			name:    "registered reason",
			err:     errors.FromReason(errors.ReasonDuplicateEmail),
			status:  http.StatusConflict,
			message: "A client with this email already exists.",
			code:    "DUPLICATE_EMAIL",
		},
		{
			name:    "foreign http-aware fault",
			err:     fmt.Errorf("limit: %w", quotaFault{}),
			status:  http.StatusTooManyRequests,
			message: "Slow down.",
			code:    "429",
		},
		{
			name:    "storage fault",
			err:     errors.Storage(stderrors.New("READONLY"), "create", "Client records could not be saved right now."),
			status:  http.StatusBadRequest,
			message: "Client records could not be saved right now.",
			code:    "400",
		},
		{
			name:    "unanticipated",
			err:     stderrors.New("template: missing key"),
			status:  http.StatusInternalServerError,
			message: "template: missing key",
			code:    "500",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			rec, body := s.serve(func(http.ResponseWriter, *http.Request) error { return tc.err })

			s.Assert().Equal(tc.status, rec.Code)
			s.Assert().Equal(envelope.ContentType, rec.Header().Get("Content-Type"))
			s.Assert().Equal(tc.message, body.Error.Message)
			s.Assert().Equal(tc.code, body.Error.CodeString())
		})
	}
}

func (s *BoundaryTestSuite) TestPanicsBecomeInternalErrors() {
	rec, body := s.serve(func(http.ResponseWriter, *http.Request) error {
		panic("nil pointer in handler")
	})

	s.Assert().Equal(http.StatusInternalServerError, rec.Code)
	s.Assert().Equal("Internal Server Error", body.Error.Message)
	s.Assert().NotContains(rec.Body.String(), "nil pointer")

	last := s.hook.LastEntry()
	s.Require().NotNil(last)
	s.Assert().Equal(logrus.ErrorLevel, last.Level)
	s.Assert().Contains(fmt.Sprint(last.Data[logrus.ErrorKey]), "nil pointer in handler")
}

func (s *BoundaryTestSuite) TestPanicsAreUnanticipated() {
	s.serve(func(http.ResponseWriter, *http.Request) error {
		panic(errors.NotFound("Client not found"))
	})

	last := s.hook.LastEntry()
	s.Require().NotNil(last)
	s.Assert().Equal("unanticipated", last.Data["kind"])
	s.Assert().Equal(http.StatusInternalServerError, last.Data["status"])

	expected := `
# HELP trainer_api_faults_total Faults converted into error responses, by status, error code and kind.
# TYPE trainer_api_faults_total counter
trainer_api_faults_total{code="none",kind="unanticipated",status="500"} 1
`
	s.Assert().NoError(testutil.GatherAndCompare(s.registry, strings.NewReader(expected), "trainer_api_faults_total"))
}

func (s *BoundaryTestSuite) TestPanickedFaultCannotDeclareStatus() {
	rec, body := s.serve(func(http.ResponseWriter, *http.Request) error {
		panic(errors.FromReason(errors.ReasonDuplicateEmail))
	})

	s.Assert().Equal(http.StatusInternalServerError, rec.Code)
	s.Assert().Equal("Internal Server Error", body.Error.Message)
	s.Assert().Equal("500", body.Error.CodeString())
}

func (s *BoundaryTestSuite) TestValidationMetaIsLogged() {
	s.serve(func(http.ResponseWriter, *http.Request) error {
		return errors.NewValidationBuilder().RequiredField("email").Build()
	})

	last := s.hook.LastEntry()
	s.Require().NotNil(last)
	s.Assert().Equal(logrus.WarnLevel, last.Level)
	meta, ok := last.Data["meta"].(map[string]interface{})
	s.Require().True(ok)
	s.Assert().Equal(map[string][]string{"email": {"is required"}}, meta["validation_errors"])
}

func (s *BoundaryTestSuite) TestNoMetaFieldWithoutMeta() {
	s.serve(func(http.ResponseWriter, *http.Request) error {
		return errors.FromReason(errors.ReasonClientNotFound)
	})

	last := s.hook.LastEntry()
	s.Require().NotNil(last)
	s.Assert().NotContains(last.Data, "meta")
}

func (s *BoundaryTestSuite) TestPanicOutsideHandle() {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	s.b.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(stderrors.New("boom"))
	})).ServeHTTP(rec, req)

	s.Assert().Equal(http.StatusInternalServerError, rec.Code)
}

func (s *BoundaryTestSuite) TestNoSecondEnvelope() {
	rec, _ := s.serve(func(w http.ResponseWriter, _ *http.Request) error {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"ok":true}`))
		return stderrors.New("late failure")
	})

	s.Assert().Equal(http.StatusAccepted, rec.Code)
	s.Assert().Equal(`{"ok":true}`, rec.Body.String())
	s.Assert().Equal(logrus.WarnLevel, s.hook.LastEntry().Level)
}

func (s *BoundaryTestSuite) TestRequestID() {
	s.Run("generated when absent", func() {
		rec, _ := s.serve(func(http.ResponseWriter, *http.Request) error { return nil })
		s.Assert().Len(rec.Header().Get(boundary.RequestIDHeader), 36)
	})

	s.Run("echoed and logged", func() {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(boundary.RequestIDHeader, "req-123")

		s.b.Middleware(s.b.Handle(func(http.ResponseWriter, *http.Request) error {
			return errors.FromReason(errors.ReasonClientNotFound)
		})).ServeHTTP(rec, req)

		s.Assert().Equal("req-123", rec.Header().Get(boundary.RequestIDHeader))
		entry := s.hook.LastEntry()
		s.Require().NotNil(entry)
		s.Assert().Equal(logrus.WarnLevel, entry.Level)
		s.Assert().Equal("req-123", entry.Data["request_id"])
		s.Assert().Equal("CLIENT_NOT_FOUND", entry.Data["error_code"])
		s.Assert().Equal(http.StatusNotFound, entry.Data["status"])
		s.Assert().Equal("http_aware", entry.Data["kind"])
	})
}

func (s *BoundaryTestSuite) TestMetrics() {
	s.serve(func(http.ResponseWriter, *http.Request) error { return errors.FromReason(errors.ReasonTokenMissing) })
	s.serve(func(http.ResponseWriter, *http.Request) error { return errors.FromReason(errors.ReasonTokenMissing) })
	s.serve(func(http.ResponseWriter, *http.Request) error { return stderrors.New("boom") })

	expected := `
# HELP trainer_api_faults_total Faults converted into error responses, by status, error code and kind.
# TYPE trainer_api_faults_total counter
trainer_api_faults_total{code="TOKEN_MISSING",kind="http_aware",status="401"} 2
trainer_api_faults_total{code="none",kind="unanticipated",status="500"} 1
`
	s.Assert().NoError(testutil.GatherAndCompare(s.registry, strings.NewReader(expected), "trainer_api_faults_total"))
}

func (s *BoundaryTestSuite) TestNilMetricsIsNoop() {
	log, _ := test.NewNullLogger()
	b, err := boundary.New(&boundary.Config{Classifier: errors.NewClassifier(), Logger: log})
	s.Require().NoError(err)

	rec := httptest.NewRecorder()
	b.Handle(func(http.ResponseWriter, *http.Request) error { return stderrors.New("boom") }).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	s.Assert().Equal(http.StatusInternalServerError, rec.Code)
}
