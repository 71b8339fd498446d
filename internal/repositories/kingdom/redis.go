package kingdom

import (
	"context"
	"encoding/json"
	"log/slog"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/kingdom-api/internal/entities"
	"github.com/KirkDiggler/kingdom-api/internal/errors"
	"github.com/KirkDiggler/kingdom-api/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/kingdom-api/internal/redis"
)

const (
	kingdomKeyPrefix    = "kingdom:"
	usernameIndexPrefix = "kingdom:username:"
	kingdomIndexKey     = "kingdom:index"
)

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

var _ Repository = (*redisRepository)(nil)

// RedisConfig contains configuration for the Redis kingdom repository
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate validates the RedisConfig
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a Redis-backed kingdom repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  c,
	}, nil
}

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if err := validateKingdom(input.Kingdom); err != nil {
		return nil, err
	}

	k := input.Kingdom.Clone()
	now := r.clock.Now().Unix()
	if k.CreatedAt == 0 {
		k.CreatedAt = now
	}
	k.UpdatedAt = now
	k.Version = 1

	key := kingdomKeyPrefix + k.ID
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists > 0 {
		return nil, errors.AlreadyExistsf("kingdom with ID %s already exists", k.ID)
	}

	data, err := json.Marshal(k)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal kingdom")
	}

	// Claim the username first so two registrations cannot both win
	usernameKey := usernameIndexPrefix + k.Username
	claimed, err := r.client.SetNX(ctx, usernameKey, k.ID, 0).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to claim username")
	}
	if !claimed {
		return nil, errors.AlreadyExistsf("username %s is already taken", k.Username).
			WithMeta("username", k.Username)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, kingdomIndexKey, k.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		if delErr := r.client.Del(ctx, usernameKey).Err(); delErr != nil {
			slog.WarnContext(ctx, "failed to release username after create failure",
				"username", k.Username,
				"error", delErr)
		}
		return nil, errors.Wrapf(err, "failed to create kingdom")
	}

	return &CreateOutput{Kingdom: k.Clone()}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errKingdomIDEmpty)
	}

	k, err := r.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &GetOutput{Kingdom: k}, nil
}

func (r *redisRepository) GetByUsername(ctx context.Context, input GetByUsernameInput) (*GetByUsernameOutput, error) {
	if input.Username == "" {
		return nil, errors.InvalidArgument(errUsernameEmpty)
	}

	id, err := r.client.Get(ctx, usernameIndexPrefix+input.Username).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("kingdom for username %s not found", input.Username)
		}
		return nil, errors.Wrapf(err, "failed to look up username")
	}

	k, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}

	return &GetByUsernameOutput{Kingdom: k}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if err := validateKingdom(input.Kingdom); err != nil {
		return nil, err
	}

	key := kingdomKeyPrefix + input.Kingdom.ID
	var saved *entities.Kingdom

	// WATCH aborts the write if another client touches the key first
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		existing, err := decodeKingdom(tx.Get(ctx, key), input.Kingdom.ID)
		if err != nil {
			return err
		}
		if existing.Username != input.Kingdom.Username {
			return errors.InvalidArgument(errUsernameImmutable)
		}
		if existing.Version != input.Kingdom.Version {
			return versionConflict(existing.ID, input.Kingdom.Version, existing.Version)
		}

		k := input.Kingdom.Clone()
		k.CreatedAt = existing.CreatedAt
		k.UpdatedAt = r.clock.Now().Unix()
		k.Version = existing.Version + 1

		data, err := json.Marshal(k)
		if err != nil {
			return errors.Wrapf(err, "failed to marshal kingdom")
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		if err != nil {
			return err
		}
		saved = k
		return nil
	}, key)
	if err != nil {
		if err == redis.TxFailedErr {
			return nil, errors.FailedPreconditionf("kingdom %s was modified concurrently", input.Kingdom.ID).
				WithReason(ReasonVersionConflict)
		}
		var appErr *errors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, errors.Wrapf(err, "failed to update kingdom")
	}

	return &UpdateOutput{Kingdom: saved.Clone()}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errKingdomIDEmpty)
	}

	existing, err := r.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, kingdomKeyPrefix+input.ID)
	pipe.Del(ctx, usernameIndexPrefix+existing.Username)
	pipe.SRem(ctx, kingdomIndexKey, input.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to delete kingdom")
	}

	return &DeleteOutput{}, nil
}

func (r *redisRepository) List(ctx context.Context, input ListInput) (*ListOutput, error) {
	ids, err := r.client.SMembers(ctx, kingdomIndexKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list kingdom IDs")
	}
	if len(ids) == 0 {
		return &ListOutput{Kingdoms: []*entities.Kingdom{}}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = kingdomKeyPrefix + id
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load kingdoms")
	}

	kingdoms := make([]*entities.Kingdom, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Index entry without data; skip rather than fail the listing
			slog.WarnContext(ctx, "kingdom index references missing key", "kingdom_id", ids[i])
			continue
		}
		var k entities.Kingdom
		if err := json.Unmarshal([]byte(raw), &k); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal kingdom %s", ids[i])
		}
		kingdoms = append(kingdoms, &k)
	}

	return &ListOutput{Kingdoms: rank(kingdoms, input.Limit)}, nil
}

func (r *redisRepository) load(ctx context.Context, id string) (*entities.Kingdom, error) {
	return decodeKingdom(r.client.Get(ctx, kingdomKeyPrefix+id), id)
}

func decodeKingdom(cmd *redis.StringCmd, id string) (*entities.Kingdom, error) {
	result, err := cmd.Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("kingdom with ID %s not found", id)
		}
		return nil, errors.Wrapf(err, "failed to get kingdom")
	}

	var k entities.Kingdom
	if err := json.Unmarshal([]byte(result), &k); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal kingdom")
	}
	return &k, nil
}
