package clients

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/KirkDiggler/trainer-api/internal/entities"
	"github.com/KirkDiggler/trainer-api/internal/errors"
	"github.com/KirkDiggler/trainer-api/internal/pkg/clock"
	"github.com/KirkDiggler/trainer-api/internal/pkg/logger"
	redisclient "github.com/KirkDiggler/trainer-api/internal/redis"
)

const (
	// Key patterns:
	//   client:{id}                          -> client JSON
	//   trainer_clients:{trainer_id}         -> set of client ids
	//   trainer_email:{trainer_id}:{email}   -> client id
	clientKeyPrefix       = "client:"
	trainerIndexPrefix    = "trainer_clients:"
	trainerEmailKeyPrefix = "trainer_email:"

	errClientNil      = "client cannot be nil"
	errClientIDEmpty  = "client ID cannot be empty"
	errTrainerIDEmpty = "trainer ID cannot be empty"
	errEmailEmpty     = "client email cannot be empty"

	msgReadFailed  = "Client records could not be read right now."
	msgWriteFailed = "Client records could not be saved right now."
)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Client == nil {
		vb.RequiredField("Client")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}

	return vb.Build()
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// NewRedisRepository creates a new Redis repository for clients
func NewRedisRepository(cfg *Config) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
	}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

// Create claims the email for the trainer before writing the record so two
// concurrent creates with the same email cannot both succeed.
func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	c := input.Client
	if err := validateClient(c); err != nil {
		return nil, err
	}

	emailKey := emailKey(c.TrainerID, c.NormalizedEmail())
	claimed, err := r.client.SetNX(ctx, emailKey, c.ID, 0).Result()
	if err != nil {
		return nil, errors.Storage(err, "create", msgWriteFailed)
	}
	if !claimed {
		return nil, errors.AlreadyExistsf("client with email %s already exists", c.Email)
	}

	now := r.clock.Now()
	stored := *c
	stored.CreatedAt = now
	stored.UpdatedAt = now

	data, err := json.Marshal(&stored)
	if err != nil {
		r.releaseEmail(ctx, emailKey)
		return nil, errors.Wrapf(err, "failed to marshal client")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, clientKeyPrefix+stored.ID, data, 0)
	pipe.SAdd(ctx, trainerIndexPrefix+stored.TrainerID, stored.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		r.releaseEmail(ctx, emailKey)
		return nil, errors.Storage(err, "create", msgWriteFailed)
	}

	return &CreateOutput{Client: &stored}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errClientIDEmpty)
	}

	result, err := r.client.Get(ctx, clientKeyPrefix+input.ID).Result()
	if err != nil {
		if redisclient.IsNil(err) {
			return nil, errors.NotFoundf("client with ID %s not found", input.ID)
		}
		return nil, errors.Storage(err, "get", msgReadFailed)
	}

	var c entities.Client
	if err := json.Unmarshal([]byte(result), &c); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal client %s", input.ID)
	}

	return &GetOutput{Client: &c}, nil
}

func (r *redisRepository) List(ctx context.Context, input ListInput) (*ListOutput, error) {
	if input.TrainerID == "" {
		return nil, errors.InvalidArgument(errTrainerIDEmpty)
	}

	ids, err := r.client.SMembers(ctx, trainerIndexPrefix+input.TrainerID).Result()
	if err != nil {
		return nil, errors.Storage(err, "list", msgReadFailed)
	}
	if len(ids) == 0 {
		return &ListOutput{Clients: []*entities.Client{}}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = clientKeyPrefix + id
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.Storage(err, "list", msgReadFailed)
	}

	out := make([]*entities.Client, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// index entry without a record, left behind by an interrupted delete
			logger.WithTrace(ctx).WithField("client_id", ids[i]).Warn("client index points at missing record")
			continue
		}
		var c entities.Client
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal client %s", ids[i])
		}
		out = append(out, &c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return &ListOutput{Clients: out}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	c := input.Client
	if err := validateClient(c); err != nil {
		return nil, err
	}

	existing, err := r.Get(ctx, GetInput{ID: c.ID})
	if err != nil {
		return nil, err
	}
	prev := existing.Client

	oldEmailKey := emailKey(prev.TrainerID, prev.NormalizedEmail())
	newEmailKey := emailKey(c.TrainerID, c.NormalizedEmail())
	emailChanged := oldEmailKey != newEmailKey

	if emailChanged {
		claimed, err := r.client.SetNX(ctx, newEmailKey, c.ID, 0).Result()
		if err != nil {
			return nil, errors.Storage(err, "update", msgWriteFailed)
		}
		if !claimed {
			return nil, errors.AlreadyExistsf("client with email %s already exists", c.Email)
		}
	}

	stored := *c
	stored.CreatedAt = prev.CreatedAt
	stored.UpdatedAt = r.clock.Now()

	data, err := json.Marshal(&stored)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal client")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, clientKeyPrefix+stored.ID, data, 0)
	if emailChanged {
		pipe.Del(ctx, oldEmailKey)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		if emailChanged {
			r.releaseEmail(ctx, newEmailKey)
		}
		return nil, errors.Storage(err, "update", msgWriteFailed)
	}

	return &UpdateOutput{Client: &stored}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errClientIDEmpty)
	}

	existing, err := r.Get(ctx, GetInput(input))
	if err != nil {
		return nil, err
	}
	c := existing.Client

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, clientKeyPrefix+c.ID)
	pipe.SRem(ctx, trainerIndexPrefix+c.TrainerID, c.ID)
	pipe.Del(ctx, emailKey(c.TrainerID, c.NormalizedEmail()))

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Storage(err, "delete", msgWriteFailed)
	}

	return &DeleteOutput{}, nil
}

func (r *redisRepository) releaseEmail(ctx context.Context, key string) {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		logger.WithTrace(ctx).WithError(err).WithField("key", key).Warn("failed to release email claim")
	}
}

func validateClient(c *entities.Client) error {
	if c == nil {
		return errors.InvalidArgument(errClientNil)
	}
	if c.ID == "" {
		return errors.InvalidArgument(errClientIDEmpty)
	}
	if c.TrainerID == "" {
		return errors.InvalidArgument(errTrainerIDEmpty)
	}
	if c.NormalizedEmail() == "" {
		return errors.InvalidArgument(errEmailEmpty)
	}
	return nil
}

func emailKey(trainerID, email string) string {
	return trainerEmailKeyPrefix + trainerID + ":" + email
}
