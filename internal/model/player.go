package model

import "time"

// UserID uniquely identifies an account across the system
type UserID string

// PlayerSlotID identifies one seat in a game. It is derived from the owning
// user ID for presentation, but the owning user is always stored alongside it
// so lookups never need to parse the prefix back out.
type PlayerSlotID string

const playerSlotPrefix = "player-"

// SlotIDForUser derives the presentation slot ID for an account
func SlotIDForUser(userID UserID) PlayerSlotID {
	return PlayerSlotID(playerSlotPrefix + string(userID))
}

// PlayerSlot identifies one side of a game. Immutable once the game is created.
type PlayerSlot struct {
	ID       PlayerSlotID
	UserID   UserID
	Username string
}

// NewPlayerSlot builds a slot for the given account
func NewPlayerSlot(userID UserID, username string) PlayerSlot {
	return PlayerSlot{
		ID:       SlotIDForUser(userID),
		UserID:   userID,
		Username: username,
	}
}

// User is a registered account with login credentials
type User struct {
	ID           UserID
	Username     string // login username (immutable, unique)
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
}
