package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/TheBigR/diceGame-back/internal/api/handler"
	"github.com/TheBigR/diceGame-back/internal/api/middleware"
	"github.com/TheBigR/diceGame-back/internal/services/auth"
	"github.com/TheBigR/diceGame-back/internal/services/game"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	AuthService    *auth.Service
	GameController *game.Controller
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	userHandler := handler.NewUserHandler(cfg.AuthService)
	gameHandler := handler.NewGameHandler(cfg.GameController, cfg.AuthService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Auth routes (no auth required for register/login)
	api.HandleFunc("/auth/register", userHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", userHandler.Login).Methods(http.MethodPost)

	// Protected auth routes
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(authMiddleware)
	authProtected.HandleFunc("/me", userHandler.GetMe).Methods(http.MethodGet)

	// Game routes (all require auth)
	games := api.PathPrefix("/games").Subrouter()
	games.Use(authMiddleware)
	games.HandleFunc("", gameHandler.Create).Methods(http.MethodPost)
	games.HandleFunc("/my-games", gameHandler.GetMyGames).Methods(http.MethodGet)
	games.HandleFunc("/{gameId}", gameHandler.Get).Methods(http.MethodGet)
	games.HandleFunc("/{gameId}", gameHandler.Delete).Methods(http.MethodDelete)
	games.HandleFunc("/{gameId}/roll", gameHandler.Roll).Methods(http.MethodPost)
	games.HandleFunc("/{gameId}/hold", gameHandler.Hold).Methods(http.MethodPost)
	games.HandleFunc("/{gameId}/new-game", gameHandler.NewGame).Methods(http.MethodPost)
	games.HandleFunc("/{gameId}/end", gameHandler.End).Methods(http.MethodPost)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
