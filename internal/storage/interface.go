package storage

import (
	"context"

	"github.com/TheBigR/diceGame-back/internal/model"
)

// Store defines the interface for data persistence.
//
// SaveGame is a conditional write: expectedVersion is the version the caller
// read before mutating. Zero means the game must not exist yet (insert);
// otherwise the stored version must match or the write fails with
// model.ErrVersionConflict. On success the implementation bumps game.Version
// to expectedVersion+1. This is the mechanism that keeps concurrent
// read-modify-write sequences against the same game from clobbering each other.
type Store interface {
	// User operations
	SaveUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)

	// Game operations
	SaveGame(ctx context.Context, game *model.Game, expectedVersion int64) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	GetGamesForUser(ctx context.Context, userID model.UserID) ([]*model.Game, error)
	DeleteGame(ctx context.Context, id model.GameID) (bool, error)
}
