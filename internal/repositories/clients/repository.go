// Package clients provides the repository interface and Redis implementation
// for a trainer's client roster.
package clients

import (
	"context"

	"github.com/KirkDiggler/trainer-api/internal/entities"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=clientsmock github.com/KirkDiggler/trainer-api/internal/repositories/clients Repository

// CreateInput contains the client to store. ID and TrainerID must be set.
type CreateInput struct {
	Client *entities.Client
}

// CreateOutput contains the stored client
type CreateOutput struct {
	Client *entities.Client
}

// GetInput identifies a client
type GetInput struct {
	ID string
}

// GetOutput contains the client found
type GetOutput struct {
	Client *entities.Client
}

// ListInput selects one trainer's roster
type ListInput struct {
	TrainerID string
}

// ListOutput contains the roster ordered by creation time
type ListOutput struct {
	Clients []*entities.Client
}

// UpdateInput contains the full replacement for an existing client
type UpdateInput struct {
	Client *entities.Client
}

// UpdateOutput contains the stored client
type UpdateOutput struct {
	Client *entities.Client
}

// DeleteInput identifies the client to remove
type DeleteInput struct {
	ID string
}

// DeleteOutput is empty for now
type DeleteOutput struct{}

// Repository defines the storage operations for clients.
//
// Errors: NotFound when the client does not exist, AlreadyExists when the
// email is already used in the trainer's roster, and a storage fault when
// Redis rejects or cannot serve the request.
type Repository interface {
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)
	Get(ctx context.Context, input GetInput) (*GetOutput, error)
	List(ctx context.Context, input ListInput) (*ListOutput, error)
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}
