package clients

import (
	"github.com/KirkDiggler/trainer-api/internal/entities"
)

// ClientFields are the trainer-editable parts of a client
type ClientFields struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Goal      string
	Notes     string
}

// CreateClientInput defines the request for adding a client to a roster
type CreateClientInput struct {
	TrainerID string
	Fields    ClientFields
}

// CreateClientOutput defines the response for adding a client
type CreateClientOutput struct {
	Client *entities.Client
}

// GetClientInput defines the request for reading one client
type GetClientInput struct {
	TrainerID string
	ClientID  string
}

// GetClientOutput defines the response for reading one client
type GetClientOutput struct {
	Client *entities.Client
}

// ListClientsInput defines the request for a trainer's roster
type ListClientsInput struct {
	TrainerID string
}

// ListClientsOutput defines the response for a trainer's roster
type ListClientsOutput struct {
	Clients []*entities.Client
}

// UpdateClientInput replaces the editable fields of a client
type UpdateClientInput struct {
	TrainerID string
	ClientID  string
	Fields    ClientFields
}

// UpdateClientOutput defines the response for updating a client
type UpdateClientOutput struct {
	Client *entities.Client
}

// DeleteClientInput defines the request for removing a client
type DeleteClientInput struct {
	TrainerID string
	ClientID  string
}

// DeleteClientOutput defines the response for removing a client
type DeleteClientOutput struct{}
