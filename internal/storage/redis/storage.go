package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/TheBigR/diceGame-back/internal/model"
	"github.com/TheBigR/diceGame-back/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Store = (*Storage)(nil)

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, userKey(user.ID), data, 0)
	pipe.Set(ctx, usernameIndexKey(user.Username), string(user.ID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	data, err := s.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	userIDStr, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	return s.GetUser(ctx, model.UserID(userIDStr))
}

// Game operations

// SaveGame performs the conditional write under WATCH so that a concurrent
// writer invalidates the transaction rather than being silently overwritten.
func (s *Storage) SaveGame(ctx context.Context, game *model.Game, expectedVersion int64) error {
	key := gameKey(game.ID)

	txFn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			if expectedVersion != 0 {
				return model.ErrGameNotFound
			}
		case err != nil:
			return err
		default:
			if expectedVersion == 0 {
				return model.ErrGameExists
			}
			var stored model.Game
			if err := json.Unmarshal(data, &stored); err != nil {
				return err
			}
			if stored.Version != expectedVersion {
				return model.ErrVersionConflict
			}
		}

		game.Version = expectedVersion + 1
		payload, err := json.Marshal(game)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, 0)
			pipe.SAdd(ctx, userGamesIndexKey(game.Player1.UserID), string(game.ID))
			pipe.SAdd(ctx, userGamesIndexKey(game.Player2.UserID), string(game.ID))
			return nil
		})
		return err
	}

	err := s.client.Watch(ctx, txFn, key)
	if errors.Is(err, redis.TxFailedErr) {
		// Key changed between WATCH and EXEC
		return model.ErrVersionConflict
	}
	return err
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	data, err := s.client.Get(ctx, gameKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}

	var game model.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *Storage) GetGamesForUser(ctx context.Context, userID model.UserID) ([]*model.Game, error) {
	indexKey := userGamesIndexKey(userID)

	gameIDs, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, err
	}

	if len(gameIDs) == 0 {
		return []*model.Game{}, nil
	}

	keys := make([]string, len(gameIDs))
	for i, id := range gameIDs {
		keys[i] = gameKey(model.GameID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	games := make([]*model.Game, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue // Game was deleted; index entry is stale
		}
		var game model.Game
		if err := json.Unmarshal([]byte(val.(string)), &game); err != nil {
			continue // Skip invalid data
		}
		games = append(games, &game)
	}

	return games, nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) (bool, error) {
	game, err := s.GetGame(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrGameNotFound) {
			return false, nil
		}
		return false, err
	}

	// Delete the record and both index entries in one pipeline
	pipe := s.client.Pipeline()
	del := pipe.Del(ctx, gameKey(id))
	pipe.SRem(ctx, userGamesIndexKey(game.Player1.UserID), string(id))
	pipe.SRem(ctx, userGamesIndexKey(game.Player2.UserID), string(id))
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	return del.Val() > 0, nil
}
