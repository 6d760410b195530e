package apiclient

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Codes and messages for failures that carry no server response
const (
	CodeNoResponse = "NO_RESPONSE"
	CodeUnknown    = "UNKNOWN"

	MessageNoResponse = "No response from server"
	MessageUnknown    = "Unknown error"
)

// NormalizedError is the single failure shape handed to callers. Status is
// nil when no response arrived; Code is nil when the server declared none.
type NormalizedError struct {
	Status  *int    `json:"status,omitempty"`
	Message string  `json:"message"`
	Code    *string `json:"code"`
}

// Error implements the error interface
func (e *NormalizedError) Error() string {
	switch {
	case e.Status != nil && e.Code != nil:
		return fmt.Sprintf("%d %s: %s", *e.Status, *e.Code, e.Message)
	case e.Status != nil:
		return fmt.Sprintf("%d: %s", *e.Status, e.Message)
	case e.Code != nil:
		return fmt.Sprintf("%s: %s", *e.Code, e.Message)
	}
	return e.Message
}

// StatusCode returns the HTTP status, or 0 when there was no response
func (e *NormalizedError) StatusCode() int {
	if e.Status == nil {
		return 0
	}
	return *e.Status
}

// ErrorCode returns the code, or "" when there is none
func (e *NormalizedError) ErrorCode() string {
	if e.Code == nil {
		return ""
	}
	return *e.Code
}

// Normalize reduces a transport failure to a NormalizedError. It never
// panics and never returns nil.
func Normalize(f Failure) *NormalizedError {
	switch v := f.(type) {
	case HasResponse:
		return fromResponse(v.Status, v.Body)
	case *HasResponse:
		if v != nil {
			return fromResponse(v.Status, v.Body)
		}
	case NoResponse, *NoResponse:
		return &NormalizedError{Message: MessageNoResponse, Code: ptr(CodeNoResponse)}
	case LocalFault:
		return fromLocal(v.Message)
	case *LocalFault:
		if v != nil {
			return fromLocal(v.Message)
		}
	}
	return fromLocal("")
}

// NormalizeError normalizes any error. Failures go through Normalize, an
// existing NormalizedError is returned unchanged and anything else is
// treated as a LocalFault.
func NormalizeError(err error) (n *NormalizedError) {
	if err == nil {
		return nil
	}
	defer func() {
		if recover() != nil {
			n = fromLocal("")
		}
	}()

	if ne, ok := err.(*NormalizedError); ok && ne != nil {
		return ne
	}
	if f, ok := err.(Failure); ok {
		return Normalize(f)
	}
	return fromLocal(err.Error())
}

func fromLocal(message string) *NormalizedError {
	if message == "" {
		message = MessageUnknown
	}
	return &NormalizedError{Message: message, Code: ptr(CodeUnknown)}
}

func fromResponse(status int, body any) *NormalizedError {
	return &NormalizedError{
		Status:  ptr(status),
		Message: responseMessage(status, body),
		Code:    responseCode(body),
	}
}

// responseMessage probes error.message, message, detail, then error as a
// string. Only non-empty strings count.
func responseMessage(status int, body any) string {
	obj, _ := body.(map[string]any)

	if inner, ok := obj["error"].(map[string]any); ok {
		if msg := nonEmptyString(inner["message"]); msg != "" {
			return msg
		}
	}
	for _, key := range []string{"message", "detail", "error"} {
		if msg := nonEmptyString(obj[key]); msg != "" {
			return msg
		}
	}
	return fmt.Sprintf("Request failed (%d)", status)
}

func responseCode(body any) *string {
	obj, _ := body.(map[string]any)
	inner, ok := obj["error"].(map[string]any)
	if !ok {
		return nil
	}

	switch c := inner["code"].(type) {
	case string:
		if c != "" {
			return ptr(c)
		}
	case json.Number:
		return ptr(c.String())
	case float64:
		if !math.IsNaN(c) && !math.IsInf(c, 0) {
			return ptr(strconv.FormatFloat(c, 'f', -1, 64))
		}
	case int:
		return ptr(strconv.Itoa(c))
	}
	return nil
}

func nonEmptyString(v any) string {
	s, _ := v.(string)
	return s
}

func ptr[T any](v T) *T {
	return &v
}
