package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheBigR/diceGame-back/internal/api"
	"github.com/TheBigR/diceGame-back/internal/api/response"
	"github.com/TheBigR/diceGame-back/internal/factory"
	"github.com/TheBigR/diceGame-back/internal/services/auth"
	"github.com/TheBigR/diceGame-back/internal/storage/memory"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	storage *memory.Storage
	auth    *auth.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// API tests are integration tests - use production factory with real random/clock
	app, err := factory.New(factory.Config{
		AuthConfig: auth.Config{Secret: "test-secret"},
	})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		AuthService:    app.AuthService,
		GameController: app.GameController,
	})

	return &testServer{
		handler: router,
		storage: app.Store.(*memory.Storage),
		auth:    app.AuthService,
	}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

// register creates an account and returns its auth response
func (ts *testServer) register(t *testing.T, username string) response.AuthResponse {
	t.Helper()

	body := map[string]string{"username": username, "password": "secret123"}
	rr := ts.request(http.MethodPost, "/api/auth/register", body, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp response.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

// createGame creates a game between two registered players, as player1
func (ts *testServer) createGame(t *testing.T, token, player1, player2 string, winningScore int) response.Game {
	t.Helper()

	body := map[string]any{
		"player1Username": player1,
		"player2Username": player2,
	}
	if winningScore > 0 {
		body["winningScore"] = winningScore
	}

	rr := ts.request(http.MethodPost, "/api/games", body, token)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp response.Game
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)

	registered := ts.register(t, "alice")
	assert.Equal(t, "alice", registered.User.Username)
	assert.NotEmpty(t, registered.User.ID)
	assert.NotEmpty(t, registered.Token)

	// Login
	loginBody := map[string]string{"username": "alice", "password": "secret123"}
	rr := ts.request(http.MethodPost, "/api/auth/login", loginBody, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var loginResp response.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &loginResp))
	assert.Equal(t, registered.User.ID, loginResp.User.ID)
	assert.NotEmpty(t, loginResp.Token)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "alice")

	body := map[string]string{"username": "alice", "password": "secret456"}
	rr := ts.request(http.MethodPost, "/api/auth/register", body, "")
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestRegisterShortPassword(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]string{"username": "alice", "password": "abc"}
	rr := ts.request(http.MethodPost, "/api/auth/register", body, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "alice")

	body := map[string]string{"username": "alice", "password": "wrong-password"}
	rr := ts.request(http.MethodPost, "/api/auth/login", body, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestGetMe(t *testing.T) {
	ts := newTestServer(t)
	registered := ts.register(t, "alice")

	rr := ts.request(http.MethodGet, "/api/auth/me", nil, registered.Token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var user response.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &user))
	assert.Equal(t, registered.User.ID, user.ID)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ts.request(http.MethodGet, "/api/games/my-games", nil, "garbage-token")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCreateGame(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")
	ts.register(t, "bob")

	game := ts.createGame(t, alice.Token, "alice", "bob", 0)

	assert.NotEmpty(t, game.ID)
	assert.Equal(t, "alice", game.Player1.Username)
	assert.Equal(t, "bob", game.Player2.Username)
	assert.Equal(t, game.Player1.ID, game.CurrentPlayerID)
	assert.Equal(t, 100, game.WinningScore)
	assert.Equal(t, "active", game.Status)
	assert.Nil(t, game.WinnerID)
}

func TestCreateGameAutoRegistersOpponent(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")

	game := ts.createGame(t, alice.Token, "alice", "newcomer", 0)
	assert.Equal(t, "newcomer", game.Player2.Username)

	_, err := ts.storage.GetUserByUsername(context.Background(), "newcomer")
	assert.NoError(t, err)
}

func TestCreateGameCallerMustBeParticipant(t *testing.T) {
	ts := newTestServer(t)
	carol := ts.register(t, "carol")
	ts.register(t, "alice")
	ts.register(t, "bob")

	body := map[string]any{
		"player1Username": "alice",
		"player2Username": "bob",
	}
	rr := ts.request(http.MethodPost, "/api/games", body, carol.Token)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestGetGame(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")
	bob := ts.register(t, "bob")
	game := ts.createGame(t, alice.Token, "alice", "bob", 0)

	// Both participants can fetch it
	for _, token := range []string{alice.Token, bob.Token} {
		rr := ts.request(http.MethodGet, "/api/games/"+game.ID, nil, token)
		assert.Equal(t, http.StatusOK, rr.Code)
	}
}

func TestGetGameByNonParticipant(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")
	carol := ts.register(t, "carol")
	game := ts.createGame(t, alice.Token, "alice", "bob", 0)

	rr := ts.request(http.MethodGet, "/api/games/"+game.ID, nil, carol.Token)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestGetMissingGame(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")

	rr := ts.request(http.MethodGet, "/api/games/nonexistent", nil, alice.Token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetMyGames(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")
	bob := ts.register(t, "bob")
	ts.createGame(t, alice.Token, "alice", "bob", 0)
	ts.createGame(t, alice.Token, "alice", "carol", 0)

	rr := ts.request(http.MethodGet, "/api/games/my-games", nil, alice.Token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var list response.GameList
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	assert.Len(t, list.Games, 2)

	rr = ts.request(http.MethodGet, "/api/games/my-games", nil, bob.Token)
	var bobList response.GameList
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &bobList))
	assert.Len(t, bobList.Games, 1)
}

func TestRollDice(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")
	game := ts.createGame(t, alice.Token, "alice", "bob", 0)

	rr := ts.request(http.MethodPost, "/api/games/"+game.ID+"/roll", nil, alice.Token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var roll response.RollResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &roll))

	assert.GreaterOrEqual(t, roll.Dice.Die1, 1)
	assert.LessOrEqual(t, roll.Dice.Die1, 6)
	assert.GreaterOrEqual(t, roll.Dice.Die2, 1)
	assert.LessOrEqual(t, roll.Dice.Die2, 6)

	if roll.IsDoubleSix {
		assert.Equal(t, 0, roll.RoundScore)
		assert.Equal(t, game.Player2.ID, roll.GameState.CurrentPlayerID)
	} else {
		assert.Equal(t, roll.Dice.Die1+roll.Dice.Die2, roll.RoundScore)
		assert.Equal(t, game.Player1.ID, roll.GameState.CurrentPlayerID)
	}
}

// Scripted dice through the mock factory pin down the exact double-six behavior
func TestRollDoubleSixScripted(t *testing.T) {
	app := factory.NewTestApp()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		AuthService:    app.AuthService,
		GameController: app.GameController,
	})
	ts := &testServer{
		handler: router,
		storage: app.Store.(*memory.Storage),
		auth:    app.AuthService,
	}

	// The frozen clock makes IDs collide unless every draw gets its own suffix
	app.MockRandom.QueueString("aliceid001", "bobid00002", "gameid0001")
	alice := ts.register(t, "alice")
	ts.register(t, "bob")
	game := ts.createGame(t, alice.Token, "alice", "bob", 0)

	app.MockRandom.QueueDice(3, 4)
	rr := ts.request(http.MethodPost, "/api/games/"+game.ID+"/roll", nil, alice.Token)
	require.Equal(t, http.StatusOK, rr.Code)

	var roll response.RollResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &roll))
	assert.Equal(t, 3, roll.Dice.Die1)
	assert.Equal(t, 4, roll.Dice.Die2)
	assert.Equal(t, 7, roll.RoundScore)
	assert.False(t, roll.IsDoubleSix)

	app.MockRandom.QueueDice(6, 6)
	rr = ts.request(http.MethodPost, "/api/games/"+game.ID+"/roll", nil, alice.Token)
	require.Equal(t, http.StatusOK, rr.Code)

	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &roll))
	assert.True(t, roll.IsDoubleSix)
	assert.Equal(t, 0, roll.RoundScore)
	assert.Equal(t, 0, roll.GameState.Player1RoundScore)
	assert.Equal(t, game.Player2.ID, roll.GameState.CurrentPlayerID)
}

func TestRollOutOfTurn(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")
	bob := ts.register(t, "bob")
	game := ts.createGame(t, alice.Token, "alice", "bob", 0)

	rr := ts.request(http.MethodPost, "/api/games/"+game.ID+"/roll", nil, bob.Token)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

// rollUntilScored rolls until a non-forfeit roll lands, so a hold will bank.
// A double six passes the turn to the opponent, who holds an empty round to
// pass it straight back.
func (ts *testServer) rollUntilScored(t *testing.T, token, opponentToken, gameID string) response.RollResponse {
	t.Helper()

	for i := 0; i < 100; i++ {
		rr := ts.request(http.MethodPost, "/api/games/"+gameID+"/roll", nil, token)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var roll response.RollResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &roll))
		if !roll.IsDoubleSix {
			return roll
		}

		rr = ts.request(http.MethodPost, "/api/games/"+gameID+"/hold", nil, opponentToken)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	}
	t.Fatal("no scoring roll")
	return response.RollResponse{}
}

func TestHoldBanksAndPassesTurn(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")
	bob := ts.register(t, "bob")
	game := ts.createGame(t, alice.Token, "alice", "bob", 0)

	roll := ts.rollUntilScored(t, alice.Token, bob.Token, game.ID)

	rr := ts.request(http.MethodPost, "/api/games/"+game.ID+"/hold", nil, alice.Token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var hold response.HoldResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &hold))

	assert.False(t, hold.IsGameOver)
	assert.Nil(t, hold.WinnerID)
	assert.Equal(t, roll.RoundScore, hold.GameState.Player1Score)
	assert.Equal(t, 0, hold.GameState.Player1RoundScore)
	assert.Equal(t, game.Player2.ID, hold.GameState.CurrentPlayerID)
}

func TestHoldWinsAtThreshold(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")
	bob := ts.register(t, "bob")
	// Any scoring roll banks at least 2, so a threshold of 2 wins immediately
	game := ts.createGame(t, alice.Token, "alice", "bob", 2)

	ts.rollUntilScored(t, alice.Token, bob.Token, game.ID)

	rr := ts.request(http.MethodPost, "/api/games/"+game.ID+"/hold", nil, alice.Token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var hold response.HoldResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &hold))

	assert.True(t, hold.IsGameOver)
	require.NotNil(t, hold.WinnerID)
	assert.Equal(t, game.Player1.UserID, *hold.WinnerID)
	assert.Equal(t, "finished", hold.GameState.Status)

	// No further moves allowed
	rr = ts.request(http.MethodPost, "/api/games/"+game.ID+"/roll", nil, alice.Token)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestNewGameResets(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")
	bob := ts.register(t, "bob")
	game := ts.createGame(t, alice.Token, "alice", "bob", 0)

	ts.rollUntilScored(t, alice.Token, bob.Token, game.ID)
	rr := ts.request(http.MethodPost, "/api/games/"+game.ID+"/hold", nil, alice.Token)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, "/api/games/"+game.ID+"/new-game", nil, alice.Token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var reset response.Game
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &reset))

	assert.Equal(t, game.ID, reset.ID)
	assert.Equal(t, 0, reset.Player1Score)
	assert.Equal(t, 0, reset.Player2Score)
	assert.Equal(t, game.Player1.ID, reset.CurrentPlayerID)
	assert.Equal(t, "active", reset.Status)
}

func TestNewGameWithWinningScoreOverride(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")
	game := ts.createGame(t, alice.Token, "alice", "bob", 0)

	body := map[string]any{"winningScore": 50}
	rr := ts.request(http.MethodPost, "/api/games/"+game.ID+"/new-game", body, alice.Token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var reset response.Game
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &reset))
	assert.Equal(t, 50, reset.WinningScore)
}

func TestNewGameRejectsInvalidWinningScore(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")
	game := ts.createGame(t, alice.Token, "alice", "bob", 0)

	body := map[string]any{"winningScore": -1}
	rr := ts.request(http.MethodPost, "/api/games/"+game.ID+"/new-game", body, alice.Token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestEndGameConcedes(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")
	game := ts.createGame(t, alice.Token, "alice", "bob", 0)

	rr := ts.request(http.MethodPost, "/api/games/"+game.ID+"/end", nil, alice.Token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var ended response.Game
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ended))
	assert.Equal(t, "finished", ended.Status)
	require.NotNil(t, ended.WinnerID)
	assert.Equal(t, game.Player2.ID, *ended.WinnerID)
}

func TestDeleteGame(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")
	game := ts.createGame(t, alice.Token, "alice", "bob", 0)

	rr := ts.request(http.MethodDelete, "/api/games/"+game.ID, nil, alice.Token)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "deleted")

	rr = ts.request(http.MethodGet, "/api/games/"+game.ID, nil, alice.Token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteGameByNonParticipant(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")
	carol := ts.register(t, "carol")
	game := ts.createGame(t, alice.Token, "alice", "bob", 0)

	rr := ts.request(http.MethodDelete, "/api/games/"+game.ID, nil, carol.Token)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// Still there
	rr = ts.request(http.MethodGet, "/api/games/"+game.ID, nil, alice.Token)
	assert.Equal(t, http.StatusOK, rr.Code)
}
