package model

import "time"

// GameID uniquely identifies a game
type GameID string

// GameStatus represents the lifecycle state of a game
type GameStatus string

const (
	GameStatusActive   GameStatus = "active"
	GameStatusFinished GameStatus = "finished"
	GameStatusWaiting  GameStatus = "waiting" // reserved; no transition produces it yet
)

// DefaultWinningScore is the banked-score threshold used when none is supplied
const DefaultWinningScore = 100

// Game represents a single two-player dice game
type Game struct {
	ID      GameID
	Player1 PlayerSlot
	Player2 PlayerSlot

	// CurrentPlayerID is the slot whose turn it is; always one of the two slot IDs
	CurrentPlayerID PlayerSlotID

	// Banked scores count toward WinningScore; round scores are the
	// in-progress tally for the current turn
	Player1Score      int
	Player2Score      int
	Player1RoundScore int
	Player2RoundScore int

	WinningScore int
	Status       GameStatus
	WinnerID     PlayerSlotID // empty unless Status is finished

	// Version is the optimistic concurrency token, incremented on every save
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CurrentSlot returns the slot whose turn it is
func (g *Game) CurrentSlot() PlayerSlot {
	if g.CurrentPlayerID == g.Player1.ID {
		return g.Player1
	}
	return g.Player2
}

// Opponent returns the slot opposite the given slot ID
func (g *Game) Opponent(id PlayerSlotID) PlayerSlot {
	if id == g.Player1.ID {
		return g.Player2
	}
	return g.Player1
}

// SlotForUser returns the slot owned by the given user, if any
func (g *Game) SlotForUser(userID UserID) (PlayerSlot, bool) {
	if g.Player1.UserID == userID {
		return g.Player1, true
	}
	if g.Player2.UserID == userID {
		return g.Player2, true
	}
	return PlayerSlot{}, false
}

// HasUser reports whether the given user occupies either slot
func (g *Game) HasUser(userID UserID) bool {
	_, ok := g.SlotForUser(userID)
	return ok
}

// RoundScoreFor returns the in-progress round score for the given slot
func (g *Game) RoundScoreFor(id PlayerSlotID) int {
	if id == g.Player1.ID {
		return g.Player1RoundScore
	}
	return g.Player2RoundScore
}

// BankedScoreFor returns the banked score for the given slot
func (g *Game) BankedScoreFor(id PlayerSlotID) int {
	if id == g.Player1.ID {
		return g.Player1Score
	}
	return g.Player2Score
}

// DiceRoll is the outcome of rolling both dice
type DiceRoll struct {
	Die1      int       `json:"die1"`
	Die2      int       `json:"die2"`
	Timestamp time.Time `json:"timestamp"`
}

// IsDoubleSix reports whether both dice show six, forfeiting the round
func (d DiceRoll) IsDoubleSix() bool {
	return d.Die1 == 6 && d.Die2 == 6
}
