// Package clients implements the roster orchestrator: a trainer's clients,
// their ownership and email uniqueness.
package clients

//go:generate mockgen -destination=mock/mock_service.go -package=clientsmock github.com/KirkDiggler/trainer-api/internal/orchestrators/clients Service

import (
	"context"
	"strings"

	"github.com/KirkDiggler/trainer-api/internal/entities"
	"github.com/KirkDiggler/trainer-api/internal/errors"
	"github.com/KirkDiggler/trainer-api/internal/pkg/idgen"
	"github.com/KirkDiggler/trainer-api/internal/pkg/logger"
	clientrepo "github.com/KirkDiggler/trainer-api/internal/repositories/clients"
)

const (
	maxNameLength  = 100
	maxEmailLength = 254
	maxPhoneLength = 32
	maxGoalLength  = 500
	maxNotesLength = 4000
)

// Service defines the interface for roster operations
type Service interface {
	CreateClient(ctx context.Context, input *CreateClientInput) (*CreateClientOutput, error)
	GetClient(ctx context.Context, input *GetClientInput) (*GetClientOutput, error)
	ListClients(ctx context.Context, input *ListClientsInput) (*ListClientsOutput, error)
	UpdateClient(ctx context.Context, input *UpdateClientInput) (*UpdateClientOutput, error)
	DeleteClient(ctx context.Context, input *DeleteClientInput) (*DeleteClientOutput, error)
}

// Config holds the dependencies for the roster orchestrator
type Config struct {
	ClientRepo  clientrepo.Repository
	IDGenerator idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.ClientRepo == nil {
		vb.RequiredField("ClientRepo")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}

	return vb.Build()
}

type orchestrator struct {
	clientRepo clientrepo.Repository
	idGen      idgen.Generator
}

// NewOrchestrator creates a new roster orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		clientRepo: cfg.ClientRepo,
		idGen:      cfg.IDGenerator,
	}, nil
}

func (o *orchestrator) CreateClient(ctx context.Context, input *CreateClientInput) (*CreateClientOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("trainer_id", input.TrainerID, vb)
	validateFields(input.Fields, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	client := &entities.Client{
		ID:        o.idGen.Generate(),
		TrainerID: input.TrainerID,
	}
	applyFields(client, input.Fields)

	out, err := o.clientRepo.Create(ctx, clientrepo.CreateInput{Client: client})
	if err != nil {
		if errors.IsAlreadyExists(err) {
			return nil, errors.FromReason(errors.ReasonDuplicateEmail).WithCause(err)
		}
		return nil, err
	}

	logger.WithTrace(ctx).WithFields(logger.Fields{
		"trainer_id": input.TrainerID,
		"client_id":  out.Client.ID,
	}).Info("client created")

	return &CreateClientOutput{Client: out.Client}, nil
}

func (o *orchestrator) GetClient(ctx context.Context, input *GetClientInput) (*GetClientOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	client, err := o.loadOwned(ctx, input.TrainerID, input.ClientID)
	if err != nil {
		return nil, err
	}

	return &GetClientOutput{Client: client}, nil
}

func (o *orchestrator) ListClients(ctx context.Context, input *ListClientsInput) (*ListClientsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("trainer_id", input.TrainerID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	out, err := o.clientRepo.List(ctx, clientrepo.ListInput{TrainerID: input.TrainerID})
	if err != nil {
		return nil, err
	}

	return &ListClientsOutput{Clients: out.Clients}, nil
}

func (o *orchestrator) UpdateClient(ctx context.Context, input *UpdateClientInput) (*UpdateClientOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	validateFields(input.Fields, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	existing, err := o.loadOwned(ctx, input.TrainerID, input.ClientID)
	if err != nil {
		return nil, err
	}

	next := *existing
	applyFields(&next, input.Fields)

	out, err := o.clientRepo.Update(ctx, clientrepo.UpdateInput{Client: &next})
	if err != nil {
		switch {
		case errors.IsAlreadyExists(err):
			return nil, errors.FromReason(errors.ReasonDuplicateEmail).WithCause(err)
		case errors.IsNotFound(err):
			// deleted between the ownership check and the write
			return nil, errors.FromReason(errors.ReasonClientNotFound).WithCause(err)
		}
		return nil, err
	}

	return &UpdateClientOutput{Client: out.Client}, nil
}

func (o *orchestrator) DeleteClient(ctx context.Context, input *DeleteClientInput) (*DeleteClientOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	if _, err := o.loadOwned(ctx, input.TrainerID, input.ClientID); err != nil {
		return nil, err
	}

	if _, err := o.clientRepo.Delete(ctx, clientrepo.DeleteInput{ID: input.ClientID}); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.FromReason(errors.ReasonClientNotFound).WithCause(err)
		}
		return nil, err
	}

	logger.WithTrace(ctx).WithFields(logger.Fields{
		"trainer_id": input.TrainerID,
		"client_id":  input.ClientID,
	}).Info("client deleted")

	return &DeleteClientOutput{}, nil
}

// loadOwned returns the client only when it belongs to trainerID. A client
// owned by someone else is reported exactly like a missing one.
func (o *orchestrator) loadOwned(ctx context.Context, trainerID, clientID string) (*entities.Client, error) {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("trainer_id", trainerID, vb)
	errors.ValidateRequired("client_id", clientID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	out, err := o.clientRepo.Get(ctx, clientrepo.GetInput{ID: clientID})
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.FromReason(errors.ReasonClientNotFound).WithCause(err)
		}
		return nil, err
	}

	if out.Client.TrainerID != trainerID {
		logger.WithTrace(ctx).WithFields(logger.Fields{
			"trainer_id": trainerID,
			"client_id":  clientID,
		}).Debug("client belongs to another trainer")
		return nil, errors.FromReason(errors.ReasonClientNotFound)
	}

	return out.Client, nil
}

func validateFields(f ClientFields, vb *errors.ValidationBuilder) {
	errors.ValidateRequired("first_name", f.FirstName, vb)
	errors.ValidateRequired("last_name", f.LastName, vb)
	errors.ValidateRequired("email", f.Email, vb)

	errors.ValidateMaxLength("first_name", f.FirstName, maxNameLength, vb)
	errors.ValidateMaxLength("last_name", f.LastName, maxNameLength, vb)
	errors.ValidateMaxLength("email", f.Email, maxEmailLength, vb)
	errors.ValidateMaxLength("phone", f.Phone, maxPhoneLength, vb)
	errors.ValidateMaxLength("goal", f.Goal, maxGoalLength, vb)
	errors.ValidateMaxLength("notes", f.Notes, maxNotesLength, vb)
}

func applyFields(c *entities.Client, f ClientFields) {
	c.FirstName = strings.TrimSpace(f.FirstName)
	c.LastName = strings.TrimSpace(f.LastName)
	c.Email = strings.TrimSpace(f.Email)
	c.Phone = strings.TrimSpace(f.Phone)
	c.Goal = strings.TrimSpace(f.Goal)
	c.Notes = f.Notes
}
