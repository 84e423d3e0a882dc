package model

import "errors"

// Common errors used across the application
var (
	// User errors
	ErrUserNotFound = errors.New("user not found")

	// Game errors
	ErrGameNotFound        = errors.New("game not found")
	ErrGameNotActive       = errors.New("game is not active")
	ErrNotYourTurn         = errors.New("not this player's turn")
	ErrNotInGame           = errors.New("user is not part of this game")
	ErrGameExists          = errors.New("game id already exists")
	ErrInvalidWinningScore = errors.New("winning score must be greater than zero")

	// Storage errors
	ErrVersionConflict = errors.New("game was modified concurrently")
)
