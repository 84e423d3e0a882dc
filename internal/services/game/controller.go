package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/TheBigR/diceGame-back/internal/dependencies/clock"
	"github.com/TheBigR/diceGame-back/internal/dependencies/random"
	"github.com/TheBigR/diceGame-back/internal/model"
	"github.com/TheBigR/diceGame-back/internal/storage"
)

const (
	gameIDSuffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	gameIDSuffixLength   = 9

	// maxSaveAttempts bounds the retry loop around each read-modify-write.
	// A conflict means another caller won the race; re-reading and
	// re-validating turn ownership is the correct response.
	maxSaveAttempts = 5
)

// RollResult is the outcome of a dice roll
type RollResult struct {
	Dice        model.DiceRoll
	RoundScore  int
	IsDoubleSix bool
	Game        *model.Game
}

// HoldResult is the outcome of banking a round score
type HoldResult struct {
	Game         *model.Game
	IsGameOver   bool
	WinnerUserID model.UserID // set only when IsGameOver
}

// Controller manages the dice game state machine and turn flow
type Controller struct {
	store  storage.Store
	clock  clock.Clock
	random random.Random
	logger *slog.Logger
}

// NewController creates a new game Controller
func NewController(store storage.Store, clock clock.Clock, random random.Random, logger *slog.Logger) *Controller {
	return &Controller{
		store:  store,
		clock:  clock,
		random: random,
		logger: logger,
	}
}

// CreateGame initializes a new game between two player slots.
// The first player always opens.
func (c *Controller) CreateGame(ctx context.Context, player1, player2 model.PlayerSlot, winningScore int) (*model.Game, error) {
	if winningScore <= 0 {
		return nil, model.ErrInvalidWinningScore
	}

	now := c.clock.Now()

	game := &model.Game{
		Player1:         player1,
		Player2:         player2,
		CurrentPlayerID: player1.ID,
		WinningScore:    winningScore,
		Status:          model.GameStatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// The timestamp plus random suffix makes collisions vanishingly rare;
	// the insert-only save catches the remainder and we just redraw.
	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		game.ID = c.newGameID(now)
		err := c.store.SaveGame(ctx, game, 0)
		if err == nil {
			c.logger.Info("game created",
				slog.String("game_id", string(game.ID)),
				slog.String("player1", string(player1.UserID)),
				slog.String("player2", string(player2.UserID)),
				slog.Int("winning_score", winningScore),
			)
			return game, nil
		}
		if !errors.Is(err, model.ErrGameExists) {
			return nil, err
		}
	}

	return nil, model.ErrGameExists
}

func (c *Controller) newGameID(now time.Time) model.GameID {
	suffix := c.random.String(gameIDSuffixLength, gameIDSuffixAlphabet)
	return model.GameID(fmt.Sprintf("game-%d-%s", now.UnixMilli(), suffix))
}

// GetGame retrieves a game by ID
func (c *Controller) GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	return c.store.GetGame(ctx, gameID)
}

// GetUserGames returns every game where the account occupies either slot
func (c *Controller) GetUserGames(ctx context.Context, userID model.UserID) ([]*model.Game, error) {
	return c.store.GetGamesForUser(ctx, userID)
}

// RollDice draws two dice for the caller's turn. A double six forfeits the
// round score and passes the turn; anything else accrues to the round score
// and the turn continues.
func (c *Controller) RollDice(ctx context.Context, gameID model.GameID, callerID model.UserID) (*RollResult, error) {
	var result RollResult

	game, err := c.updateGame(ctx, gameID, func(game *model.Game) error {
		if err := c.requireTurn(game, callerID); err != nil {
			return err
		}

		slot := game.CurrentSlot()
		dice := model.DiceRoll{
			Die1:      c.random.Intn(6) + 1,
			Die2:      c.random.Intn(6) + 1,
			Timestamp: c.clock.Now(),
		}

		if dice.IsDoubleSix() {
			// Forfeit the round and pass the turn
			if slot.ID == game.Player1.ID {
				game.Player1RoundScore = 0
			} else {
				game.Player2RoundScore = 0
			}
			game.CurrentPlayerID = game.Opponent(slot.ID).ID
		} else {
			if slot.ID == game.Player1.ID {
				game.Player1RoundScore += dice.Die1 + dice.Die2
			} else {
				game.Player2RoundScore += dice.Die1 + dice.Die2
			}
		}

		result.Dice = dice
		result.IsDoubleSix = dice.IsDoubleSix()
		result.RoundScore = game.RoundScoreFor(slot.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("dice rolled",
		slog.String("game_id", string(gameID)),
		slog.String("user_id", string(callerID)),
		slog.Int("die1", result.Dice.Die1),
		slog.Int("die2", result.Dice.Die2),
		slog.Bool("double_six", result.IsDoubleSix),
	)

	result.Game = game
	return &result, nil
}

// Hold banks the caller's round score and passes the turn. If the banked
// score reaches the winning threshold the game finishes and the caller wins.
func (c *Controller) Hold(ctx context.Context, gameID model.GameID, callerID model.UserID) (*HoldResult, error) {
	var result HoldResult

	game, err := c.updateGame(ctx, gameID, func(game *model.Game) error {
		if err := c.requireTurn(game, callerID); err != nil {
			return err
		}

		slot := game.CurrentSlot()
		if slot.ID == game.Player1.ID {
			game.Player1Score += game.Player1RoundScore
			game.Player1RoundScore = 0
		} else {
			game.Player2Score += game.Player2RoundScore
			game.Player2RoundScore = 0
		}
		game.CurrentPlayerID = game.Opponent(slot.ID).ID

		result.IsGameOver = false
		result.WinnerUserID = ""
		if game.BankedScoreFor(slot.ID) >= game.WinningScore {
			game.Status = model.GameStatusFinished
			game.WinnerID = slot.ID
			result.IsGameOver = true
			result.WinnerUserID = slot.UserID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.IsGameOver {
		c.logger.Info("game finished",
			slog.String("game_id", string(gameID)),
			slog.String("winner", string(result.WinnerUserID)),
		)
	}

	result.Game = game
	return &result, nil
}

// NewGame resets an existing game to a fresh active state. Either player may
// reset, regardless of whether the game finished. A supplied winningScore
// overrides the stored threshold and is validated like at creation.
func (c *Controller) NewGame(ctx context.Context, gameID model.GameID, callerID model.UserID, winningScore *int) (*model.Game, error) {
	if winningScore != nil && *winningScore <= 0 {
		return nil, model.ErrInvalidWinningScore
	}

	game, err := c.updateGame(ctx, gameID, func(game *model.Game) error {
		if !game.HasUser(callerID) {
			return model.ErrNotInGame
		}

		game.CurrentPlayerID = game.Player1.ID
		game.Player1Score = 0
		game.Player2Score = 0
		game.Player1RoundScore = 0
		game.Player2RoundScore = 0
		game.Status = model.GameStatusActive
		game.WinnerID = ""
		if winningScore != nil {
			game.WinningScore = *winningScore
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("game reset",
		slog.String("game_id", string(gameID)),
		slog.String("user_id", string(callerID)),
	)

	return game, nil
}

// EndGame force-terminates an active game as a concession by the caller:
// the game finishes and the opponent is recorded as winner.
func (c *Controller) EndGame(ctx context.Context, gameID model.GameID, callerID model.UserID) (*model.Game, error) {
	game, err := c.updateGame(ctx, gameID, func(game *model.Game) error {
		slot, ok := game.SlotForUser(callerID)
		if !ok {
			return model.ErrNotInGame
		}
		if game.Status != model.GameStatusActive {
			return model.ErrGameNotActive
		}

		game.Status = model.GameStatusFinished
		game.WinnerID = game.Opponent(slot.ID).ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("game conceded",
		slog.String("game_id", string(gameID)),
		slog.String("user_id", string(callerID)),
		slog.String("winner", string(game.WinnerID)),
	)

	return game, nil
}

// DeleteGame removes a game record. Reports whether a record existed.
func (c *Controller) DeleteGame(ctx context.Context, gameID model.GameID) (bool, error) {
	deleted, err := c.store.DeleteGame(ctx, gameID)
	if err != nil {
		return false, err
	}
	if deleted {
		c.logger.Info("game deleted", slog.String("game_id", string(gameID)))
	}
	return deleted, nil
}

// requireTurn validates that the game accepts moves and the caller owns the
// slot whose turn it is
func (c *Controller) requireTurn(game *model.Game, callerID model.UserID) error {
	if game.Status != model.GameStatusActive {
		return model.ErrGameNotActive
	}
	if game.CurrentSlot().UserID != callerID {
		return model.ErrNotYourTurn
	}
	return nil
}

// updateGame runs a read-validate-mutate-save sequence with optimistic
// retries. Each attempt re-reads the latest snapshot, so validation always
// runs against the state the save will be conditioned on.
func (c *Controller) updateGame(ctx context.Context, gameID model.GameID, mutate func(*model.Game) error) (*model.Game, error) {
	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		game, err := c.store.GetGame(ctx, gameID)
		if err != nil {
			return nil, err
		}

		if err := mutate(game); err != nil {
			return nil, err
		}

		game.UpdatedAt = c.clock.Now()

		err = c.store.SaveGame(ctx, game, game.Version)
		if err == nil {
			return game, nil
		}
		if !errors.Is(err, model.ErrVersionConflict) {
			return nil, err
		}

		c.logger.Debug("save conflict, retrying",
			slog.String("game_id", string(gameID)),
			slog.Int("attempt", attempt+1),
		)
	}

	return nil, model.ErrVersionConflict
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateGame(ctx context.Context, player1, player2 model.PlayerSlot, winningScore int) (*model.Game, error)
	GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error)
	GetUserGames(ctx context.Context, userID model.UserID) ([]*model.Game, error)
	RollDice(ctx context.Context, gameID model.GameID, callerID model.UserID) (*RollResult, error)
	Hold(ctx context.Context, gameID model.GameID, callerID model.UserID) (*HoldResult, error)
	NewGame(ctx context.Context, gameID model.GameID, callerID model.UserID, winningScore *int) (*model.Game, error)
	EndGame(ctx context.Context, gameID model.GameID, callerID model.UserID) (*model.Game, error)
	DeleteGame(ctx context.Context, gameID model.GameID) (bool, error)
}

var _ ControllerInterface = (*Controller)(nil)
