package response

import (
	"time"

	"github.com/TheBigR/diceGame-back/internal/model"
	"github.com/TheBigR/diceGame-back/internal/services/game"
)

// User represents an account in API responses
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// UserFromModel converts a model.User to a response User
func UserFromModel(u *model.User) User {
	return User{
		ID:       string(u.ID),
		Username: u.Username,
	}
}

// AuthResponse is the response for register and login
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Player represents one game slot
type Player struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// PlayerFromModel converts a model.PlayerSlot
func PlayerFromModel(p model.PlayerSlot) Player {
	return Player{
		ID:       string(p.ID),
		UserID:   string(p.UserID),
		Username: p.Username,
	}
}

// Game represents a game in API responses
type Game struct {
	ID                string    `json:"id"`
	Player1           Player    `json:"player1"`
	Player2           Player    `json:"player2"`
	CurrentPlayerID   string    `json:"currentPlayerId"`
	Player1Score      int       `json:"player1Score"`
	Player2Score      int       `json:"player2Score"`
	Player1RoundScore int       `json:"player1RoundScore"`
	Player2RoundScore int       `json:"player2RoundScore"`
	WinningScore      int       `json:"winningScore"`
	Status            string    `json:"status"`
	WinnerID          *string   `json:"winnerId,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// GameFromModel converts a model.Game
func GameFromModel(g *model.Game) Game {
	resp := Game{
		ID:                string(g.ID),
		Player1:           PlayerFromModel(g.Player1),
		Player2:           PlayerFromModel(g.Player2),
		CurrentPlayerID:   string(g.CurrentPlayerID),
		Player1Score:      g.Player1Score,
		Player2Score:      g.Player2Score,
		Player1RoundScore: g.Player1RoundScore,
		Player2RoundScore: g.Player2RoundScore,
		WinningScore:      g.WinningScore,
		Status:            string(g.Status),
		CreatedAt:         g.CreatedAt,
		UpdatedAt:         g.UpdatedAt,
	}
	if g.WinnerID != "" {
		w := string(g.WinnerID)
		resp.WinnerID = &w
	}
	return resp
}

// GameList is the response for listing a user's games
type GameList struct {
	Games []Game `json:"games"`
}

// GameListFromModels converts a slice of games
func GameListFromModels(games []*model.Game) GameList {
	list := GameList{Games: make([]Game, 0, len(games))}
	for _, g := range games {
		list.Games = append(list.Games, GameFromModel(g))
	}
	return list
}

// RollResponse is the response for a dice roll
type RollResponse struct {
	Dice        model.DiceRoll `json:"dice"`
	RoundScore  int            `json:"roundScore"`
	IsDoubleSix bool           `json:"isDoubleSix"`
	GameState   Game           `json:"gameState"`
}

// RollResponseFromResult converts a game.RollResult
func RollResponseFromResult(r *game.RollResult) RollResponse {
	return RollResponse{
		Dice:        r.Dice,
		RoundScore:  r.RoundScore,
		IsDoubleSix: r.IsDoubleSix,
		GameState:   GameFromModel(r.Game),
	}
}

// HoldResponse is the response for banking a round score
type HoldResponse struct {
	GameState  Game    `json:"gameState"`
	IsGameOver bool    `json:"isGameOver"`
	WinnerID   *string `json:"winnerId,omitempty"`
}

// HoldResponseFromResult converts a game.HoldResult
func HoldResponseFromResult(r *game.HoldResult) HoldResponse {
	resp := HoldResponse{
		GameState:  GameFromModel(r.Game),
		IsGameOver: r.IsGameOver,
	}
	if r.IsGameOver {
		w := string(r.WinnerUserID)
		resp.WinnerID = &w
	}
	return resp
}

// DeleteResponse reports the outcome of a delete
type DeleteResponse struct {
	Message string `json:"message"`
}
