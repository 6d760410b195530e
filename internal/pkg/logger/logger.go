// Package logger is a thin wrapper around the logrus standard logger.
//
// It is imported as `log` so every package shares the backend configured
// once by Init.
package logger

import (
	"context"
	"io"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

type Fields = log.Fields
type Entry = log.Entry
type Logger = log.Logger
type Level = log.Level

const (
	ErrorLevel = log.ErrorLevel
	WarnLevel  = log.WarnLevel
	InfoLevel  = log.InfoLevel
	DebugLevel = log.DebugLevel
)

func StandardLogger() *Logger                { return log.StandardLogger() }
func SetOutput(out io.Writer)                { log.SetOutput(out) }
func SetLevel(level Level)                   { log.SetLevel(level) }
func WithField(key string, value any) *Entry { return log.WithField(key, value) }
func WithFields(fields Fields) *Entry        { return log.WithFields(fields) }
func WithError(err error) *Entry             { return log.WithError(err) }
func Info(args ...any)                       { log.Info(args...) }
func Infof(format string, args ...any)       { log.Infof(format, args...) }
func Warnf(format string, args ...any)       { log.Warnf(format, args...) }
func Errorf(format string, args ...any)      { log.Errorf(format, args...) }

type fieldsKey struct{}

// NewContext returns a copy of ctx carrying fields for FromContext. Fields
// already in ctx are kept unless overwritten.
func NewContext(ctx context.Context, fields Fields) context.Context {
	merged := Fields{}
	if existing, ok := ctx.Value(fieldsKey{}).(Fields); ok {
		for k, v := range existing {
			merged[k] = v
		}
	}
	for k, v := range fields {
		merged[k] = v
	}
	return context.WithValue(ctx, fieldsKey{}, merged)
}

// FromContext returns an entry bound to ctx with the fields stored by
// NewContext and the trace id, if any.
func FromContext(ctx context.Context) *Entry {
	return FromContextWith(ctx, log.StandardLogger())
}

// FromContextWith is FromContext for a specific logger.
func FromContextWith(ctx context.Context, l *Logger) *Entry {
	if ctx == nil {
		return log.NewEntry(l)
	}
	e := l.WithContext(ctx)
	if fields, ok := ctx.Value(fieldsKey{}).(Fields); ok {
		e = e.WithFields(fields)
	}
	return WithTraceEntry(e, ctx)
}

// WithTrace binds ctx and adds "trace_id" when an OpenTelemetry span
// context is present.
func WithTrace(ctx context.Context) *Entry {
	return WithTraceEntry(log.WithContext(ctx), ctx)
}

// WithTraceEntry adds "trace_id" to e when ctx carries a span context.
func WithTraceEntry(e *Entry, ctx context.Context) *Entry {
	if ctx == nil {
		return e
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		e = e.WithField("trace_id", sc.TraceID().String())
	}
	return e
}
