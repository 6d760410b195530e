package errors

import (
	"fmt"
	"net/http"
)

// Reason is a stable identifier for an anticipated failure condition. It is
// sent to callers as the envelope code and never changes with message text.
type Reason string

// Registered reasons
const (
	ReasonTokenMissing     Reason = "TOKEN_MISSING"
	ReasonTokenInvalid     Reason = "TOKEN_INVALID"
	ReasonEmailNotVerified Reason = "EMAIL_NOT_VERIFIED"
	ReasonValidationFailed Reason = "VALIDATION_FAILED"
	ReasonMalformedBody    Reason = "MALFORMED_BODY"
	ReasonClientNotFound   Reason = "CLIENT_NOT_FOUND"
	ReasonRouteNotFound    Reason = "ROUTE_NOT_FOUND"
	ReasonMethodNotAllowed Reason = "METHOD_NOT_ALLOWED"
	ReasonDuplicateEmail   Reason = "DUPLICATE_EMAIL"
)

// String returns the string representation of the reason
func (r Reason) String() string {
	return string(r)
}

// Definition describes a registered reason.
type Definition struct {
	Reason  Reason
	Numeric int
	Status  int
	Message string
}

var registry = []Definition{
	{Reason: ReasonValidationFailed, Numeric: 40001, Status: http.StatusBadRequest, Message: "The request contains invalid fields."},
	{Reason: ReasonMalformedBody, Numeric: 40002, Status: http.StatusBadRequest, Message: "The request body is not valid JSON."},
	{Reason: ReasonTokenMissing, Numeric: 40101, Status: http.StatusUnauthorized, Message: "Authentication is required."},
	{Reason: ReasonTokenInvalid, Numeric: 40102, Status: http.StatusUnauthorized, Message: "Your session is invalid or has expired."},
	{Reason: ReasonEmailNotVerified, Numeric: 40301, Status: http.StatusForbidden, Message: "Please verify your email address before continuing."},
	{Reason: ReasonClientNotFound, Numeric: 40401, Status: http.StatusNotFound, Message: "Client not found."},
	{Reason: ReasonRouteNotFound, Numeric: 40402, Status: http.StatusNotFound, Message: "The requested resource does not exist."},
	{Reason: ReasonMethodNotAllowed, Numeric: 40501, Status: http.StatusMethodNotAllowed, Message: "The request method is not supported for this resource."},
	{Reason: ReasonDuplicateEmail, Numeric: 40901, Status: http.StatusConflict, Message: "A client with this email already exists."},
}

var byReason map[Reason]Definition

func init() {
	if err := ValidateRegistry(registry); err != nil {
		panic(err)
	}
	byReason = make(map[Reason]Definition, len(registry))
	for _, def := range registry {
		byReason[def.Reason] = def
	}
}

// Definitions returns a copy of the registry
func Definitions() []Definition {
	out := make([]Definition, len(registry))
	copy(out, registry)
	return out
}

// Lookup returns the definition registered for reason
func Lookup(reason Reason) (Definition, bool) {
	def, ok := byReason[reason]
	return def, ok
}

// ValidateRegistry reports the first reason or numeric code that is
// registered twice, or a definition that is incomplete.
func ValidateRegistry(defs []Definition) error {
	reasons := make(map[Reason]struct{}, len(defs))
	numerics := make(map[int]Reason, len(defs))

	for _, def := range defs {
		if def.Reason == "" {
			return fmt.Errorf("registry: empty reason for numeric code %d", def.Numeric)
		}
		if def.Status < 100 || def.Status > 599 {
			return fmt.Errorf("registry: %s has invalid status %d", def.Reason, def.Status)
		}
		if def.Message == "" {
			return fmt.Errorf("registry: %s has no message", def.Reason)
		}
		if _, ok := reasons[def.Reason]; ok {
			return fmt.Errorf("registry: duplicate reason %s", def.Reason)
		}
		reasons[def.Reason] = struct{}{}

		if other, ok := numerics[def.Numeric]; ok {
			return fmt.Errorf("registry: numeric code %d used by %s and %s", def.Numeric, other, def.Reason)
		}
		numerics[def.Numeric] = def.Reason
	}

	return nil
}

// FromReason builds the fault registered for reason. Unregistered reasons
// produce an internal error that still carries the reason.
func FromReason(reason Reason) *Error {
	def, ok := Lookup(reason)
	if !ok {
		return Internalf("unregistered reason %s", reason).WithReason(reason)
	}
	return &Error{
		Code:    codeForStatus(def.Status),
		Status:  def.Status,
		Reason:  def.Reason,
		Message: def.Message,
	}
}
