package memory

import (
	"context"
	"sync"

	"github.com/TheBigR/diceGame-back/internal/model"
	"github.com/TheBigR/diceGame-back/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	users         map[model.UserID]*model.User
	usernameIndex map[string]model.UserID
	games         map[model.GameID]*model.Game
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users:         make(map[model.UserID]*model.User),
		usernameIndex: make(map[string]model.UserID),
		games:         make(map[model.GameID]*model.Game),
	}
}

// Ensure Storage implements the interface
var _ storage.Store = (*Storage)(nil)

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := *user
	s.users[u.ID] = &u
	s.usernameIndex[u.Username] = u.ID
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

// Game operations
//
// Games are copied on the way in and out so callers can mutate their snapshot
// freely; the stored record only changes through SaveGame's version check.

func (s *Storage) SaveGame(ctx context.Context, game *model.Game, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.games[game.ID]
	if expectedVersion == 0 {
		if exists {
			return model.ErrGameExists
		}
	} else {
		if !exists {
			return model.ErrGameNotFound
		}
		if stored.Version != expectedVersion {
			return model.ErrVersionConflict
		}
	}

	game.Version = expectedVersion + 1
	g := *game
	s.games[g.ID] = &g
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	g := *game
	return &g, nil
}

func (s *Storage) GetGamesForUser(ctx context.Context, userID model.UserID) ([]*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var games []*model.Game
	for _, game := range s.games {
		if game.HasUser(userID) {
			g := *game
			games = append(games, &g)
		}
	}
	return games, nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.games[id]
	delete(s.games, id)
	return ok, nil
}
