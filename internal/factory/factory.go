package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/TheBigR/diceGame-back/internal/dependencies/clock"
	"github.com/TheBigR/diceGame-back/internal/dependencies/random"
	"github.com/TheBigR/diceGame-back/internal/services/auth"
	"github.com/TheBigR/diceGame-back/internal/services/game"
	"github.com/TheBigR/diceGame-back/internal/storage"
	"github.com/TheBigR/diceGame-back/internal/storage/memory"
	redisstorage "github.com/TheBigR/diceGame-back/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Store storage.Store

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	GameController *game.Controller
	AuthService    *auth.Service
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Store
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, clk, rnd, cfg.AuthConfig, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Store, clk clock.Clock, rnd random.Random, authCfg auth.Config, logger *slog.Logger) *App {
	gameController := game.NewController(store, clk, rnd, logger)
	authService := auth.New(store, clk, rnd, authCfg, logger)

	return &App{
		Store:          store,
		Clock:          clk,
		Random:         rnd,
		GameController: gameController,
		AuthService:    authService,
	}
}
