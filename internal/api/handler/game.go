package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/TheBigR/diceGame-back/internal/api/middleware"
	"github.com/TheBigR/diceGame-back/internal/api/request"
	"github.com/TheBigR/diceGame-back/internal/api/response"
	"github.com/TheBigR/diceGame-back/internal/model"
	"github.com/TheBigR/diceGame-back/internal/services/auth"
	"github.com/TheBigR/diceGame-back/internal/services/game"
)

// defaultOpponentPassword seeds accounts auto-registered when a game names an
// opponent that does not exist yet
const defaultOpponentPassword = "default-password"

// GameHandler handles game endpoints
type GameHandler struct {
	gameController *game.Controller
	authService    *auth.Service
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameController *game.Controller, authService *auth.Service) *GameHandler {
	return &GameHandler{
		gameController: gameController,
		authService:    authService,
	}
}

// Create handles POST /api/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.MustGetClaims(r.Context())

	var req request.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Player1Username == "" || req.Player2Username == "" {
		WriteError(w, NewInvalidRequestError("both player usernames are required"))
		return
	}

	winningScore := req.WinningScore
	if winningScore == 0 {
		winningScore = model.DefaultWinningScore
	}
	if winningScore <= 0 {
		WriteError(w, model.ErrInvalidWinningScore)
		return
	}

	player1User, err := h.authService.GetOrCreateUser(r.Context(), req.Player1Username, defaultOpponentPassword)
	if err != nil {
		WriteError(w, err)
		return
	}
	player2User, err := h.authService.GetOrCreateUser(r.Context(), req.Player2Username, defaultOpponentPassword)
	if err != nil {
		WriteError(w, err)
		return
	}

	// The caller must occupy one of the two slots
	if player1User.ID != claims.UserID && player2User.ID != claims.UserID {
		WriteError(w, model.ErrNotInGame)
		return
	}

	g, err := h.gameController.CreateGame(r.Context(),
		model.NewPlayerSlot(player1User.ID, player1User.Username),
		model.NewPlayerSlot(player2User.ID, player2User.Username),
		winningScore,
	)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameFromModel(g))
}

// Get handles GET /api/games/{gameId}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := middleware.MustGetClaims(r.Context())
	gameID := model.GameID(mux.Vars(r)["gameId"])

	g, err := h.gameController.GetGame(r.Context(), gameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	if !g.HasUser(claims.UserID) {
		WriteError(w, model.ErrNotInGame)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// GetMyGames handles GET /api/games/my-games
func (h *GameHandler) GetMyGames(w http.ResponseWriter, r *http.Request) {
	claims := middleware.MustGetClaims(r.Context())

	games, err := h.gameController.GetUserGames(r.Context(), claims.UserID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameListFromModels(games))
}

// Roll handles POST /api/games/{gameId}/roll
func (h *GameHandler) Roll(w http.ResponseWriter, r *http.Request) {
	claims := middleware.MustGetClaims(r.Context())
	gameID := model.GameID(mux.Vars(r)["gameId"])

	result, err := h.gameController.RollDice(r.Context(), gameID, claims.UserID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RollResponseFromResult(result))
}

// Hold handles POST /api/games/{gameId}/hold
func (h *GameHandler) Hold(w http.ResponseWriter, r *http.Request) {
	claims := middleware.MustGetClaims(r.Context())
	gameID := model.GameID(mux.Vars(r)["gameId"])

	result, err := h.gameController.Hold(r.Context(), gameID, claims.UserID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.HoldResponseFromResult(result))
}

// NewGame handles POST /api/games/{gameId}/new-game
func (h *GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	claims := middleware.MustGetClaims(r.Context())
	gameID := model.GameID(mux.Vars(r)["gameId"])

	var req request.NewGameRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, NewInvalidRequestError("invalid request body"))
			return
		}
	}

	g, err := h.gameController.NewGame(r.Context(), gameID, claims.UserID, req.WinningScore)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// End handles POST /api/games/{gameId}/end
func (h *GameHandler) End(w http.ResponseWriter, r *http.Request) {
	claims := middleware.MustGetClaims(r.Context())
	gameID := model.GameID(mux.Vars(r)["gameId"])

	g, err := h.gameController.EndGame(r.Context(), gameID, claims.UserID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// Delete handles DELETE /api/games/{gameId}
func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := middleware.MustGetClaims(r.Context())
	gameID := model.GameID(mux.Vars(r)["gameId"])

	g, err := h.gameController.GetGame(r.Context(), gameID)
	if err != nil {
		WriteError(w, err)
		return
	}
	if !g.HasUser(claims.UserID) {
		WriteError(w, model.ErrNotInGame)
		return
	}

	deleted, err := h.gameController.DeleteGame(r.Context(), gameID)
	if err != nil {
		WriteError(w, err)
		return
	}
	if !deleted {
		// Raced with another delete between the ownership check and here
		WriteError(w, model.ErrGameNotFound)
		return
	}

	response.JSON(w, http.StatusOK, response.DeleteResponse{Message: "Game deleted successfully"})
}
