package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/TheBigR/diceGame-back/internal/dependencies/mocks"
	"github.com/TheBigR/diceGame-back/internal/model"
	"github.com/TheBigR/diceGame-back/internal/storage/memory"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = New(s.storage, s.clock, s.random, Config{
		Secret:      "test-secret",
		TokenExpiry: time.Hour,
	}, logger)
	s.ctx = context.Background()
}

// Register tests

func (s *ServiceSuite) TestRegisterSucceeds() {
	s.random.QueueString("abc123xyz")

	user, token, err := s.service.Register(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	s.Equal(model.UserID("user-1704110400000-abc123xyz"), user.ID)
	s.Equal("alice", user.Username)
	s.NotEmpty(user.PasswordHash)
	s.NotEqual("password123", user.PasswordHash)
	s.NotEmpty(token)
}

func (s *ServiceSuite) TestRegisterIsPersisted() {
	s.random.QueueString("abc123xyz")
	user, _, err := s.service.Register(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	retrieved, err := s.service.GetUser(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal("alice", retrieved.Username)
}

func (s *ServiceSuite) TestRegisterDuplicateUsernameFails() {
	s.random.QueueString("abc123xyz")
	_, _, err := s.service.Register(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	s.random.QueueString("def456uvw")
	_, _, err = s.service.Register(s.ctx, "alice", "other-password")
	s.ErrorIs(err, ErrUsernameExists)
}

// Login tests

func (s *ServiceSuite) TestLoginSucceeds() {
	s.random.QueueString("abc123xyz")
	registered, _, err := s.service.Register(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	user, token, err := s.service.Login(s.ctx, "alice", "password123")
	s.Require().NoError(err)
	s.Equal(registered.ID, user.ID)
	s.NotEmpty(token)
}

func (s *ServiceSuite) TestLoginWrongPasswordFails() {
	s.random.QueueString("abc123xyz")
	_, _, err := s.service.Register(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	_, _, err = s.service.Login(s.ctx, "alice", "wrong")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginUnknownUsernameFails() {
	_, _, err := s.service.Login(s.ctx, "nobody", "password123")
	s.ErrorIs(err, ErrInvalidCredentials)
}

// GetOrCreateUser tests

func (s *ServiceSuite) TestGetOrCreateUserCreates() {
	s.random.QueueString("abc123xyz")

	user, err := s.service.GetOrCreateUser(s.ctx, "bob", "password123")
	s.Require().NoError(err)
	s.Equal("bob", user.Username)

	retrieved, err := s.storage.GetUserByUsername(s.ctx, "bob")
	s.Require().NoError(err)
	s.Equal(user.ID, retrieved.ID)
}

func (s *ServiceSuite) TestGetOrCreateUserReturnsExisting() {
	s.random.QueueString("abc123xyz")
	registered, _, err := s.service.Register(s.ctx, "bob", "password123")
	s.Require().NoError(err)

	user, err := s.service.GetOrCreateUser(s.ctx, "bob", "different-password")
	s.Require().NoError(err)
	s.Equal(registered.ID, user.ID)
}

// Token tests

func (s *ServiceSuite) TestVerifyTokenRoundTrip() {
	s.random.QueueString("abc123xyz")
	user, token, err := s.service.Register(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	claims, err := s.service.VerifyToken(token)
	s.Require().NoError(err)
	s.Equal(user.ID, claims.UserID)
	s.Equal("alice", claims.Username)
}

func (s *ServiceSuite) TestVerifyGarbageTokenFails() {
	_, err := s.service.VerifyToken("not-a-token")
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *ServiceSuite) TestVerifyTokenWrongSecretFails() {
	s.random.QueueString("abc123xyz")
	_, token, err := s.service.Register(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	other := New(s.storage, s.clock, s.random, Config{
		Secret:      "other-secret",
		TokenExpiry: time.Hour,
	}, logger)

	_, err = other.VerifyToken(token)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *ServiceSuite) TestVerifyExpiredTokenFails() {
	s.random.QueueString("abc123xyz")
	_, token, err := s.service.Register(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	s.clock.Advance(2 * time.Hour)

	_, err = s.service.VerifyToken(token)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *ServiceSuite) TestVerifyTokenStillValidBeforeExpiry() {
	s.random.QueueString("abc123xyz")
	_, token, err := s.service.Register(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	s.clock.Advance(30 * time.Minute)

	_, err = s.service.VerifyToken(token)
	s.NoError(err)
}
