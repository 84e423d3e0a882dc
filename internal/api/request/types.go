package request

// RegisterRequest is the request body for registering an account
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateGameRequest is the request body for creating a game
type CreateGameRequest struct {
	Player1Username string `json:"player1Username"`
	Player2Username string `json:"player2Username"`
	WinningScore    int    `json:"winningScore,omitempty"`
}

// NewGameRequest is the request body for resetting a game
type NewGameRequest struct {
	WinningScore *int `json:"winningScore,omitempty"`
}
