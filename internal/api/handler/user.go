package handler

import (
	"encoding/json"
	"net/http"

	"github.com/TheBigR/diceGame-back/internal/api/middleware"
	"github.com/TheBigR/diceGame-back/internal/api/request"
	"github.com/TheBigR/diceGame-back/internal/api/response"
	"github.com/TheBigR/diceGame-back/internal/services/auth"
)

const minPasswordLength = 6

// UserHandler handles account endpoints
type UserHandler struct {
	authService *auth.Service
}

// NewUserHandler creates a new user handler
func NewUserHandler(authService *auth.Service) *UserHandler {
	return &UserHandler{authService: authService}
}

// Register handles POST /api/auth/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" || req.Password == "" {
		WriteError(w, NewInvalidRequestError("username and password are required"))
		return
	}
	if len(req.Password) < minPasswordLength {
		WriteError(w, NewInvalidRequestError("password must be at least 6 characters"))
		return
	}

	user, token, err := h.authService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AuthResponse{
		Token: token,
		User:  response.UserFromModel(user),
	})
}

// Login handles POST /api/auth/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" || req.Password == "" {
		WriteError(w, NewInvalidRequestError("username and password are required"))
		return
	}

	user, token, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponse{
		Token: token,
		User:  response.UserFromModel(user),
	})
}

// GetMe handles GET /api/auth/me
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	claims := middleware.MustGetClaims(r.Context())

	user, err := h.authService.GetUser(r.Context(), claims.UserID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UserFromModel(user))
}
