package errors

import (
	"net/http"
)

// HTTPAware is implemented by faults that declare their own HTTP status.
// A zero status means the fault declares none.
type HTTPAware interface {
	HTTPStatus() int
	PublicMessage() string
}

// Coded is implemented by faults that carry a stable error code.
type Coded interface {
	ErrorCode() string
}

type storageMarker interface {
	StorageFault()
}

type publicMessager interface {
	PublicMessage() string
}

// Kind tags how a fault was classified.
type Kind int

// Fault kinds, in precedence order after KindUnanticipated.
const (
	KindUnanticipated Kind = iota
	KindHTTPAware
	KindStorage
)

// String returns the label used in logs and metrics
func (k Kind) String() string {
	switch k {
	case KindHTTPAware:
		return "http_aware"
	case KindStorage:
		return "storage"
	default:
		return "unanticipated"
	}
}

// StorageRejectedMessage is shown for raw driver errors that reach the
// boundary without a repository-authored message.
const StorageRejectedMessage = "The request was rejected by the data store"

// Fault is the tagged view of an arbitrary error.
type Fault struct {
	Kind      Kind
	Status    int
	ErrorCode string
	Message   string
	Cause     error
}

// Classification is the status, message and optional code a fault is
// answered with. An empty ErrorCode means the fault declared none.
type Classification struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	ErrorCode  string `json:"error_code,omitempty"`
}

// HasErrorCode reports whether the fault declared a code
func (c Classification) HasErrorCode() bool {
	return c.ErrorCode != ""
}

// Rule inspects err and reports whether it recognized it.
type Rule func(err error) (Fault, bool)

// Classifier turns any error into a Classification. The zero value is not
// usable; build one with NewClassifier.
type Classifier struct {
	rules []Rule
}

// ClassifierOption configures a Classifier
type ClassifierOption func(*Classifier)

// WithStorageDetector treats errors matched by detect as storage faults,
// for driver errors that reach the boundary unwrapped.
func WithStorageDetector(detect func(error) bool) ClassifierOption {
	return func(c *Classifier) {
		if detect == nil {
			return
		}
		c.rules = append(c.rules, storageDetectorRule(detect))
	}
}

// WithRule appends a custom rule after the built-in ones.
func WithRule(rule Rule) ClassifierOption {
	return func(c *Classifier) {
		if rule != nil {
			c.rules = append(c.rules, rule)
		}
	}
}

// NewClassifier creates a classifier. HTTP-aware faults are checked first,
// then storage faults, then any rules added by options.
func NewClassifier(opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		rules: []Rule{httpAwareRule, storageRule},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultClassifier = NewClassifier()

// Classify classifies err with the default classifier
func Classify(err error) Classification {
	return defaultClassifier.Classify(err)
}

// Inspect classifies err with the default classifier
func Inspect(err error) Fault {
	return defaultClassifier.Inspect(err)
}

// Classify returns the classification of err. It never panics.
func (c *Classifier) Classify(err error) Classification {
	f := c.Inspect(err)
	return Classification{
		StatusCode: f.Status,
		Message:    f.Message,
		ErrorCode:  f.ErrorCode,
	}
}

// Inspect runs the rules in order and returns the first match, falling
// back to an unanticipated fault. Whatever rule matched, the first code
// declared anywhere in the chain is kept.
func (c *Classifier) Inspect(err error) (f Fault) {
	defer func() {
		if r := recover(); r != nil {
			f = Fault{
				Kind:    KindUnanticipated,
				Status:  http.StatusInternalServerError,
				Message: http.StatusText(http.StatusInternalServerError),
				Cause:   err,
			}
		}
	}()

	if err == nil {
		return Fault{
			Kind:    KindUnanticipated,
			Status:  http.StatusInternalServerError,
			Message: http.StatusText(http.StatusInternalServerError),
		}
	}

	matched := false
	for _, rule := range c.rules {
		if f, matched = rule(err); matched {
			break
		}
	}
	if !matched {
		f = unanticipated(err)
	}

	f.Cause = err
	f.ErrorCode = declaredCode(err)
	if f.Status < 100 || f.Status > 599 {
		f.Status = http.StatusInternalServerError
	}
	if f.Message == "" {
		f.Message = http.StatusText(f.Status)
	}
	return f
}

// httpAwareRule matches the first declared status above any storage fault.
// Statuses below a storage fault belong to the data store, not the caller.
func httpAwareRule(err error) (Fault, bool) {
	var found HTTPAware
	walk(err, func(e error) bool {
		if _, ok := e.(storageMarker); ok {
			return true
		}
		if h, ok := e.(HTTPAware); ok && h.HTTPStatus() != 0 {
			found = h
			return true
		}
		return false
	})
	if found == nil {
		return Fault{}, false
	}
	return Fault{
		Kind:    KindHTTPAware,
		Status:  found.HTTPStatus(),
		Message: found.PublicMessage(),
	}, true
}

func storageRule(err error) (Fault, bool) {
	isStorage := false
	walk(err, func(e error) bool {
		_, isStorage = e.(storageMarker)
		return isStorage
	})
	if !isStorage {
		return Fault{}, false
	}
	return storageFault(err), true
}

func storageDetectorRule(detect func(error) bool) Rule {
	return func(err error) (Fault, bool) {
		if !detect(err) {
			return Fault{}, false
		}
		return storageFault(err), true
	}
}

func storageFault(err error) Fault {
	msg := describe(err)
	if msg == "" {
		msg = StorageRejectedMessage
	}
	return Fault{
		Kind:    KindStorage,
		Status:  http.StatusBadRequest,
		Message: msg,
	}
}

// unanticipated answers 500. A fault with a public message keeps it, even
// an empty one, so Inspect falls back to the status text instead of the
// raw error string.
func unanticipated(err error) Fault {
	msg := err.Error()
	if pm, ok := err.(publicMessager); ok {
		msg = pm.PublicMessage()
	}
	return Fault{
		Kind:    KindUnanticipated,
		Status:  http.StatusInternalServerError,
		Message: msg,
	}
}

// describe returns the first caller-safe message in the chain, looking no
// deeper than the first storage fault.
func describe(err error) string {
	var msg string
	walk(err, func(e error) bool {
		if pm, ok := e.(publicMessager); ok && pm.PublicMessage() != "" {
			msg = pm.PublicMessage()
			return true
		}
		_, isStorage := e.(storageMarker)
		return isStorage
	})
	return msg
}

func declaredCode(err error) string {
	var code string
	walk(err, func(e error) bool {
		if c, ok := e.(Coded); ok && c.ErrorCode() != "" {
			code = c.ErrorCode()
			return true
		}
		return false
	})
	return code
}

const maxChainDepth = 64

// walk visits err and its causes depth first until visit returns true.
func walk(err error, visit func(error) bool) bool {
	return walkDepth(err, visit, 0)
}

func walkDepth(err error, visit func(error) bool, depth int) bool {
	if err == nil || depth > maxChainDepth {
		return false
	}
	if visit(err) {
		return true
	}
	switch u := err.(type) {
	case interface{ Unwrap() error }:
		return walkDepth(u.Unwrap(), visit, depth+1)
	case interface{ Unwrap() []error }:
		for _, inner := range u.Unwrap() {
			if walkDepth(inner, visit, depth+1) {
				return true
			}
		}
	}
	return false
}
