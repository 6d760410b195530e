package apiclient

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/KirkDiggler/trainer-api/internal/pkg/logger"
)

// FeedbackSink shows a normalized error to the user. Implementations must
// not panic and must not block on user interaction.
type FeedbackSink interface {
	Report(ctx context.Context, err *NormalizedError)
}

// SinkFunc adapts a function to FeedbackSink
type SinkFunc func(ctx context.Context, err *NormalizedError)

// Report calls f
func (f SinkFunc) Report(ctx context.Context, err *NormalizedError) {
	f(ctx, err)
}

// Discard drops every report
var Discard FeedbackSink = SinkFunc(func(context.Context, *NormalizedError) {})

// LogSink writes each report as one log entry: server errors and missing
// responses at error level, everything else at warn level.
type LogSink struct {
	log logrus.FieldLogger
}

// NewLogSink creates a LogSink. A nil logger uses the standard logger.
func NewLogSink(l logrus.FieldLogger) *LogSink {
	if l == nil {
		l = logger.StandardLogger()
	}
	return &LogSink{log: l}
}

// Report logs err
func (s *LogSink) Report(ctx context.Context, err *NormalizedError) {
	if err == nil {
		return
	}

	fields := logger.Fields{"code": err.ErrorCode()}
	if err.Status != nil {
		fields["status"] = *err.Status
	}
	e := s.log.WithFields(fields)
	if ctx != nil {
		e = logger.WithTraceEntry(e, ctx)
	}

	if err.Status == nil || *err.Status >= 500 {
		e.Error(err.Message)
		return
	}
	e.Warn(err.Message)
}
