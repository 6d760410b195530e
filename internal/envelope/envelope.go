// Package envelope writes the JSON error body every failed response carries:
//
//	{"error":{"code":<string|int>,"message":<string>}}
//
// The code is the fault's declared code when it has one, else the numeric
// HTTP status.
package envelope

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/KirkDiggler/trainer-api/internal/errors"
)

// ContentType of every envelope
const ContentType = "application/json; charset=utf-8"

// Body is the wire form of an error response
type Body struct {
	Error Detail `json:"error"`
}

// Detail holds the code and message. Code is a string or an int.
type Detail struct {
	Code    any    `json:"code"`
	Message string `json:"message"`
}

// CodeString returns the code as text, whether it was sent as a string or
// a number.
func (d Detail) CodeString() string {
	switch v := d.Code.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

// New builds the envelope for a classification
func New(c errors.Classification) Body {
	var code any = c.StatusCode
	if c.HasErrorCode() {
		code = c.ErrorCode
	}
	return Body{
		Error: Detail{
			Code:    code,
			Message: c.Message,
		},
	}
}

// Build returns the HTTP status and JSON body for a classification. Equal
// classifications produce byte-identical bodies.
func Build(c errors.Classification) (int, []byte) {
	// A string or int code never fails to marshal.
	body, _ := json.Marshal(New(c))
	return c.StatusCode, body
}

// Write sends the envelope as the response
func Write(w http.ResponseWriter, c errors.Classification) error {
	status, body := Build(c)

	h := w.Header()
	h.Set("Content-Type", ContentType)
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)

	_, err := w.Write(body)
	return err
}

// Decode parses an envelope. Numeric codes are kept as json.Number.
func Decode(data []byte) (Body, error) {
	var b Body
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&b); err != nil {
		return Body{}, err
	}
	return b, nil
}
