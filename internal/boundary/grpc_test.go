package boundary_test

import (
	"context"
	stderrors "errors"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/KirkDiggler/trainer-api/internal/errors"
)

var unaryInfo = &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

func (s *BoundaryTestSuite) errorInfo(err error) *errdetails.ErrorInfo {
	st, ok := status.FromError(err)
	s.Require().True(ok)
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok {
			return info
		}
	}
	s.FailNow("no ErrorInfo detail")
	return nil
}

func (s *BoundaryTestSuite) TestUnaryInterceptorClassifies() {
	interceptor := s.b.UnaryServerInterceptor()

	testCases := []struct {
		name   string
		err    error
		code   codes.Code
		reason string
		msg    string
	}{
		{name: "registered reason", err: errors.FromReason(errors.ReasonEmailNotVerified), code: codes.PermissionDenied, reason: "EMAIL_NOT_VERIFIED", msg: "Please verify your email address before continuing."},
		{name: "storage", err: errors.Storage(stderrors.New("EOF"), "get", "Client records could not be read right now."), code: codes.InvalidArgument, msg: "Client records could not be read right now."},
		{name: "unanticipated", err: stderrors.New("boom"), code: codes.Internal, msg: "boom"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := interceptor(context.Background(), nil, unaryInfo, func(context.Context, any) (any, error) {
				return nil, tc.err
			})

			st, ok := status.FromError(err)
			s.Require().True(ok)
			s.Assert().Equal(tc.code, st.Code())
			s.Assert().Equal(tc.msg, st.Message())
			s.Assert().Equal(tc.reason, s.errorInfo(err).GetReason())
		})
	}
}

func (s *BoundaryTestSuite) TestUnaryInterceptorPassesThrough() {
	interceptor := s.b.UnaryServerInterceptor()

	resp, err := interceptor(context.Background(), "req", unaryInfo, func(_ context.Context, req any) (any, error) {
		return req, nil
	})
	s.Require().NoError(err)
	s.Assert().Equal("req", resp)

	original := status.Error(codes.Unavailable, "draining")
	_, err = interceptor(context.Background(), nil, unaryInfo, func(context.Context, any) (any, error) {
		return nil, original
	})
	s.Assert().Equal(codes.Unavailable, status.Code(err))
}

func (s *BoundaryTestSuite) TestRecoveryReturnsInternalStatus() {
	interceptor := recovery.UnaryServerInterceptor(s.b.RecoveryOption())

	_, err := interceptor(context.Background(), nil, unaryInfo, func(context.Context, any) (any, error) {
		panic("index out of range")
	})

	st, ok := status.FromError(err)
	s.Require().True(ok)
	s.Assert().Equal(codes.Internal, st.Code())
	s.Assert().Equal("Internal Server Error", st.Message())

	last := s.hook.LastEntry()
	s.Require().NotNil(last)
	s.Assert().Equal("unanticipated", last.Data["kind"])
}

func (s *BoundaryTestSuite) TestUnaryInterceptorsChain() {
	s.Assert().Len(s.b.UnaryInterceptors(), 3)
}
