// Package boundary is the one place where faults leave the process. HTTP
// handlers return errors (or panic); the boundary classifies them, logs
// and counts them, and writes exactly one envelope.
package boundary

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/google/uuid"

	"github.com/KirkDiggler/trainer-api/internal/envelope"
	"github.com/KirkDiggler/trainer-api/internal/errors"
	"github.com/KirkDiggler/trainer-api/internal/pkg/logger"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

const maxRequestIDLength = 128

// HandlerFunc is an HTTP handler that reports failure by returning it
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Config holds the dependencies of a Boundary
type Config struct {
	Classifier *errors.Classifier
	Logger     *logger.Logger
	// Metrics is optional
	Metrics *Metrics
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Classifier == nil {
		vb.RequiredField("Classifier")
	}
	if c.Logger == nil {
		vb.RequiredField("Logger")
	}

	return vb.Build()
}

// Boundary converts faults into envelopes
type Boundary struct {
	classifier *errors.Classifier
	log        *logger.Logger
	metrics    *Metrics
}

// New creates a Boundary
func New(cfg *Config) (*Boundary, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid boundary config")
	}

	return &Boundary{
		classifier: cfg.Classifier,
		log:        cfg.Logger,
		metrics:    cfg.Metrics,
	}, nil
}

// Handle adapts h to http.Handler. A returned error or a panic becomes an
// envelope unless h already started its response.
func (b *Boundary) Handle(h HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tw := track(w)
		defer b.recover(tw, r)

		if err := h(tw, r); err != nil {
			b.Fail(tw, r, err)
		}
	})
}

// Middleware assigns the request id and recovers panics from next, which
// may be any http.Handler.
func (b *Boundary) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := requestID(r)
		w.Header().Set(RequestIDHeader, id)

		ctx := logger.NewContext(r.Context(), logger.Fields{"request_id": id})
		r = r.WithContext(ctx)

		tw := track(w)
		defer b.recover(tw, r)

		next.ServeHTTP(tw, r)
	})
}

// Fail classifies err and writes its envelope. If the response was already
// started the fault is only logged.
func (b *Boundary) Fail(w http.ResponseWriter, r *http.Request, err error) {
	f := b.classifier.Inspect(err)

	if tw, ok := w.(*trackingWriter); ok && tw.started() {
		b.metrics.Observe(f)
		b.entry(r, f).WithError(err).Warn("fault after response started, envelope dropped")
		return
	}
	b.record(r, f)

	c := errors.Classification{StatusCode: f.Status, Message: f.Message, ErrorCode: f.ErrorCode}
	if writeErr := envelope.Write(w, c); writeErr != nil {
		b.entry(r, f).WithError(writeErr).Warn("failed to write error envelope")
	}
}

// Classifier returns the classifier used by the boundary
func (b *Boundary) Classifier() *errors.Classifier {
	return b.classifier
}

func (b *Boundary) recover(w *trackingWriter, r *http.Request) {
	p := recover()
	if p == nil {
		return
	}
	if p == http.ErrAbortHandler {
		panic(p)
	}
	b.Fail(w, r, panicFault(p))
}

func (b *Boundary) record(r *http.Request, f errors.Fault) {
	b.metrics.Observe(f)

	e := b.entry(r, f)
	if f.Status >= http.StatusInternalServerError {
		if f.Cause != nil {
			e = e.WithError(f.Cause)
		}
		e.Error(f.Message)
		return
	}
	e.Warn(f.Message)
}

func (b *Boundary) entry(r *http.Request, f errors.Fault) *logger.Entry {
	fields := logger.Fields{
		"method":     r.Method,
		"path":       r.URL.Path,
		"status":     f.Status,
		"error_code": f.ErrorCode,
		"kind":       f.Kind.String(),
	}
	if meta := errors.GetMeta(f.Cause); len(meta) > 0 {
		fields["meta"] = meta
	}
	return logger.FromContextWith(r.Context(), b.log).WithFields(fields)
}

// panicFault turns a recovered value into an unanticipated fault with a
// generic message. The panic value is flattened into text so nothing it
// declares can change the classification.
func panicFault(p any) error {
	return &errors.Error{
		Code:    errors.CodeUnknown,
		Message: http.StatusText(http.StatusInternalServerError),
		Cause:   fmt.Errorf("panic: %v\n%s", p, debug.Stack()),
	}
}

func requestID(r *http.Request) string {
	id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
	if id == "" || len(id) > maxRequestIDLength || strings.ContainsAny(id, "\r\n") {
		return uuid.NewString()
	}
	return id
}
