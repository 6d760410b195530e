package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/KirkDiggler/trainer-api/internal/entities"
	"github.com/KirkDiggler/trainer-api/internal/errors"
)

// ClientInput is the body of create and update calls
type ClientInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Goal      string `json:"goal,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

type listClientsResponse struct {
	Clients []*entities.Client `json:"clients"`
}

// Config holds the dependencies of a Client
type Config struct {
	Transport Transport
	// Sink receives every failure; nil discards them
	Sink FeedbackSink
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Transport == nil {
		vb.RequiredField("Transport")
	}

	return vb.Build()
}

// Client calls the v1 routes. Every failure is returned as a
// *NormalizedError after being reported to the sink once.
type Client struct {
	transport Transport
	sink      FeedbackSink
}

// NewClient creates a Client
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid client config")
	}

	sink := cfg.Sink
	if sink == nil {
		sink = Discard
	}

	return &Client{transport: cfg.Transport, sink: sink}, nil
}

// Me returns the trainer named by the token
func (c *Client) Me(ctx context.Context) (*entities.Trainer, error) {
	var out entities.Trainer
	if err := c.do(ctx, &Request{Method: http.MethodGet, Path: "/v1/me"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateClient adds a client to the trainer's roster
func (c *Client) CreateClient(ctx context.Context, input *ClientInput) (*entities.Client, error) {
	var out entities.Client
	if err := c.do(ctx, &Request{Method: http.MethodPost, Path: "/v1/clients", Body: input}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetClient reads one client
func (c *Client) GetClient(ctx context.Context, id string) (*entities.Client, error) {
	var out entities.Client
	if err := c.do(ctx, &Request{Method: http.MethodGet, Path: clientPath(id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListClients returns the trainer's roster
func (c *Client) ListClients(ctx context.Context) ([]*entities.Client, error) {
	var out listClientsResponse
	if err := c.do(ctx, &Request{Method: http.MethodGet, Path: "/v1/clients"}, &out); err != nil {
		return nil, err
	}
	return out.Clients, nil
}

// UpdateClient replaces a client's editable fields
func (c *Client) UpdateClient(ctx context.Context, id string, input *ClientInput) (*entities.Client, error) {
	var out entities.Client
	if err := c.do(ctx, &Request{Method: http.MethodPut, Path: clientPath(id), Body: input}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteClient removes a client
func (c *Client) DeleteClient(ctx context.Context, id string) error {
	return c.do(ctx, &Request{Method: http.MethodDelete, Path: clientPath(id)}, nil)
}

func (c *Client) do(ctx context.Context, req *Request, out any) error {
	resp, err := c.transport.Send(ctx, req)
	if err != nil {
		return c.fail(ctx, err)
	}
	if out == nil {
		return nil
	}
	if err := resp.DecodeJSON(out); err != nil {
		return c.fail(ctx, LocalFault{Message: "failed to decode response: " + err.Error(), Cause: err})
	}
	return nil
}

func (c *Client) fail(ctx context.Context, err error) *NormalizedError {
	n := NormalizeError(err)
	c.sink.Report(ctx, n)
	return n
}

func clientPath(id string) string {
	return "/v1/clients/" + url.PathEscape(id)
}
