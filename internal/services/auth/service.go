package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/TheBigR/diceGame-back/internal/dependencies/clock"
	"github.com/TheBigR/diceGame-back/internal/dependencies/random"
	"github.com/TheBigR/diceGame-back/internal/model"
	"github.com/TheBigR/diceGame-back/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUsernameExists     = errors.New("username already exists")
)

const userIDSuffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Claims is the verified identity carried by a token
type Claims struct {
	UserID   model.UserID
	Username string
}

// Config holds configuration for the auth service
type Config struct {
	// Secret signs issued tokens (HS256)
	Secret string
	// TokenExpiry is how long issued tokens remain valid
	TokenExpiry time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		TokenExpiry: 7 * 24 * time.Hour,
	}
}

// Service handles registration, login and token verification
type Service struct {
	store       storage.Store
	clock       clock.Clock
	random      random.Random
	logger      *slog.Logger
	secret      []byte
	tokenExpiry time.Duration
}

// New creates a new auth Service
func New(store storage.Store, clock clock.Clock, random random.Random, cfg Config, logger *slog.Logger) *Service {
	if cfg.TokenExpiry == 0 {
		cfg.TokenExpiry = DefaultConfig().TokenExpiry
	}
	return &Service{
		store:       store,
		clock:       clock,
		random:      random,
		logger:      logger,
		secret:      []byte(cfg.Secret),
		tokenExpiry: cfg.TokenExpiry,
	}
}

// Register creates a new account with a uniqueness-checked username and a
// bcrypt-hashed password, and issues a token for it
func (s *Service) Register(ctx context.Context, username, password string) (*model.User, string, error) {
	_, err := s.store.GetUserByUsername(ctx, username)
	if err == nil {
		return nil, "", ErrUsernameExists
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	now := s.clock.Now()
	user := &model.User{
		ID:           s.newUserID(now),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}

	if err := s.store.SaveUser(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user registered",
		slog.String("user_id", string(user.ID)),
		slog.String("username", username),
	)

	return user, token, nil
}

// Login verifies a password against its stored hash and issues a token
func (s *Service) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// GetUser retrieves an account by ID
func (s *Service) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	return s.store.GetUser(ctx, id)
}

// GetOrCreateUser returns the account for a username, registering it with the
// given password if it does not exist yet
func (s *Service) GetOrCreateUser(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return nil, err
	}

	user, _, err = s.Register(ctx, username, password)
	return user, err
}

// VerifyToken checks a bearer token and returns the identity it was issued for
func (s *Service) VerifyToken(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
	)

	token, err := parser.Parse(tokenString, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, ErrInvalidToken
	}
	username, _ := claims["username"].(string)

	return &Claims{
		UserID:   model.UserID(userID),
		Username: username,
	}, nil
}

// issueToken signs a new expiring token for the given account
func (s *Service) issueToken(user *model.User) (string, error) {
	now := s.clock.Now()
	claims := jwt.MapClaims{
		"user_id":  string(user.ID),
		"username": user.Username,
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"exp":      now.Add(s.tokenExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) newUserID(now time.Time) model.UserID {
	suffix := s.random.String(9, userIDSuffixAlphabet)
	return model.UserID(fmt.Sprintf("user-%d-%s", now.UnixMilli(), suffix))
}
