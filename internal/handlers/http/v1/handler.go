// Package v1 serves the trainer-api JSON routes. Handlers return errors;
// the boundary turns them into envelopes.
package v1

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/KirkDiggler/trainer-api/internal/auth"
	"github.com/KirkDiggler/trainer-api/internal/boundary"
	"github.com/KirkDiggler/trainer-api/internal/entities"
	"github.com/KirkDiggler/trainer-api/internal/errors"
	"github.com/KirkDiggler/trainer-api/internal/orchestrators/clients"
)

const maxBodyBytes = 1 << 20

// HandlerConfig holds dependencies for the handler
type HandlerConfig struct {
	ClientService clients.Service
	Authenticator *auth.Authenticator
	Boundary      *boundary.Boundary
	// Metrics serves /metrics when set
	Metrics http.Handler
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.ClientService == nil {
		vb.RequiredField("ClientService")
	}
	if c.Authenticator == nil {
		vb.RequiredField("Authenticator")
	}
	if c.Boundary == nil {
		vb.RequiredField("Boundary")
	}

	return vb.Build()
}

// Handler implements the v1 HTTP routes
type Handler struct {
	clientService clients.Service
	auth          *auth.Authenticator
	boundary      *boundary.Boundary
	metrics       http.Handler
}

// NewHandler creates a new handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Handler{
		clientService: cfg.ClientService,
		auth:          cfg.Authenticator,
		boundary:      cfg.Boundary,
		metrics:       cfg.Metrics,
	}, nil
}

// Routes returns the full HTTP handler wrapped in the boundary middleware
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	h.Register(mux)
	return h.boundary.Middleware(mux)
}

// Register adds every route to mux. Paths that exist but were requested
// with an unsupported method answer METHOD_NOT_ALLOWED; anything else
// answers ROUTE_NOT_FOUND.
func (h *Handler) Register(mux *http.ServeMux) {
	handle := func(pattern string, fn boundary.HandlerFunc) {
		mux.Handle(pattern, h.boundary.Handle(fn))
	}

	handle("GET /healthz", h.health)
	if h.metrics != nil {
		mux.Handle("GET /metrics", h.metrics)
		handle("/metrics", methodNotAllowed(http.MethodGet))
	}

	handle("GET /v1/me", h.authenticated(h.me, false))

	handle("POST /v1/clients", h.authenticated(h.createClient, true))
	handle("GET /v1/clients", h.authenticated(h.listClients, true))
	handle("GET /v1/clients/{id}", h.authenticated(h.getClient, true))
	handle("PUT /v1/clients/{id}", h.authenticated(h.updateClient, true))
	handle("DELETE /v1/clients/{id}", h.authenticated(h.deleteClient, true))

	handle("/healthz", methodNotAllowed(http.MethodGet))
	handle("/v1/me", methodNotAllowed(http.MethodGet))
	handle("/v1/clients", methodNotAllowed(http.MethodGet, http.MethodPost))
	handle("/v1/clients/{id}", methodNotAllowed(http.MethodGet, http.MethodPut, http.MethodDelete))

	handle("/", func(http.ResponseWriter, *http.Request) error {
		return errors.FromReason(errors.ReasonRouteNotFound)
	})
}

type trainerHandlerFunc func(w http.ResponseWriter, r *http.Request, trainer *entities.Trainer) error

// authenticated resolves the bearer token before calling fn. Roster routes
// also require a verified email.
func (h *Handler) authenticated(fn trainerHandlerFunc, requireVerified bool) boundary.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		trainer, err := h.auth.Authenticate(r)
		if err != nil {
			return err
		}
		if requireVerified {
			if err := auth.RequireVerified(trainer); err != nil {
				return err
			}
		}
		return fn(w, r.WithContext(auth.NewContext(r.Context(), trainer)), trainer)
	}
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) error {
	return writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) me(w http.ResponseWriter, _ *http.Request, trainer *entities.Trainer) error {
	return writeJSON(w, http.StatusOK, trainer)
}

func methodNotAllowed(allowed ...string) boundary.HandlerFunc {
	allow := strings.Join(allowed, ", ")
	return func(w http.ResponseWriter, _ *http.Request) error {
		w.Header().Set("Allow", allow)
		return errors.FromReason(errors.ReasonMethodNotAllowed)
	}
}

// decodeJSON reads one JSON object from the request body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return errors.FromReason(errors.ReasonMalformedBody).WithCause(err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.FromReason(errors.ReasonMalformedBody).WithCause(errors.InvalidArgument("trailing data after JSON object"))
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "failed to encode response")
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, err = w.Write(data)
	return err
}
