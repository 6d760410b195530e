package errors

import (
	"net/http"
	"strconv"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrorDomain is the domain reported in ErrorInfo details.
const ErrorDomain = "trainer-api"

const httpStatusMetaKey = "http_status"

// GRPCStatus classifies err and returns the matching gRPC status. The
// classified code travels as an ErrorInfo detail.
func (c *Classifier) GRPCStatus(err error) *status.Status {
	if err == nil {
		return status.New(codes.OK, "")
	}

	// Already a gRPC status, pass it through
	if st, ok := status.FromError(err); ok {
		return st
	}

	cl := c.Classify(err)
	st := status.New(GRPCCodeForHTTPStatus(cl.StatusCode), cl.Message)

	info := &errdetails.ErrorInfo{
		Reason: cl.ErrorCode,
		Domain: ErrorDomain,
		Metadata: map[string]string{
			httpStatusMetaKey: strconv.Itoa(cl.StatusCode),
		},
	}
	if detailed, detailErr := st.WithDetails(info); detailErr == nil {
		st = detailed
	}

	return st
}

// GRPCCodeForHTTPStatus maps an HTTP status to the closest gRPC code
func GRPCCodeForHTTPStatus(httpStatus int) codes.Code {
	switch httpStatus {
	case http.StatusOK:
		return codes.OK
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return codes.InvalidArgument
	case http.StatusUnauthorized:
		return codes.Unauthenticated
	case http.StatusForbidden:
		return codes.PermissionDenied
	case http.StatusNotFound:
		return codes.NotFound
	case http.StatusConflict:
		return codes.AlreadyExists
	case http.StatusPreconditionFailed:
		return codes.FailedPrecondition
	case http.StatusTooManyRequests:
		return codes.ResourceExhausted
	case http.StatusRequestTimeout:
		return codes.Canceled
	case http.StatusMethodNotAllowed, http.StatusNotImplemented:
		return codes.Unimplemented
	case http.StatusServiceUnavailable:
		return codes.Unavailable
	case http.StatusGatewayTimeout:
		return codes.DeadlineExceeded
	}
	if httpStatus >= 400 && httpStatus < 500 {
		return codes.InvalidArgument
	}
	return codes.Internal
}

