package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case User:
		o.printUser(v)
	case AuthResult:
		o.printAuthResult(v)
	case GameState:
		o.printGameState(v)
	case GameList:
		o.printGameList(v)
	case RollResult:
		o.printRollResult(v)
	case HoldResult:
		o.printHoldResult(v)
	case DeleteResult:
		o.PrintMessage(v.Message)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// User response type (matches API)
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// AuthResult combines user and token
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Player response type
type Player struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// GameState response type
type GameState struct {
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

// GameList response type
type GameList struct {
	Games []GameState `json:"games"`
}

// Dice response type
type Dice struct {
	Die1      int       `json:"die1"`
	Die2      int       `json:"die2"`
	Timestamp time.Time `json:"timestamp"`
}

// RollResult response type
type RollResult struct {
	Dice        Dice      `json:"dice"`
	RoundScore  int       `json:"roundScore"`
	IsDoubleSix bool      `json:"isDoubleSix"`
	GameState   GameState `json:"gameState"`
}

// HoldResult response type
type HoldResult struct {
	GameState  GameState `json:"gameState"`
	IsGameOver bool      `json:"isGameOver"`
	WinnerID   *string   `json:"winnerId,omitempty"`
}

// DeleteResult response type
type DeleteResult struct {
	Message string `json:"message"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printUser(u User) {
	fmt.Printf("User: %s (%s)\n", u.Username, u.ID)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printUser(a.User)
	fmt.Printf("Token: %s\n", a.Token)
}

func (o *Output) printGameState(g GameState) {
	fmt.Printf("Game: %s\n", g.ID)
	fmt.Printf("Status: %s\n", g.Status)
	fmt.Printf("Target: %d points\n", g.WinningScore)
	fmt.Println()

	o.printPlayerLine(g.Player1, g.Player1Score, g.Player1RoundScore, g.CurrentPlayerID)
	o.printPlayerLine(g.Player2, g.Player2Score, g.Player2RoundScore, g.CurrentPlayerID)

	if g.WinnerID != nil {
		fmt.Printf("\nWinner: %s\n", *g.WinnerID)
	}
}

func (o *Output) printPlayerLine(p Player, score, roundScore int, currentPlayerID string) {
	marker := " "
	if p.ID == currentPlayerID {
		marker = "*"
	}
	fmt.Printf("%s %s: %d banked", marker, p.Username, score)
	if roundScore > 0 {
		fmt.Printf(" (+%d this round)", roundScore)
	}
	fmt.Println()
}

func (o *Output) printGameList(l GameList) {
	if len(l.Games) == 0 {
		fmt.Println("No games")
		return
	}
	fmt.Printf("Games (%d):\n", len(l.Games))
	for _, g := range l.Games {
		line := fmt.Sprintf("  %s  %s vs %s  %d-%d  [%s]",
			g.ID, g.Player1.Username, g.Player2.Username,
			g.Player1Score, g.Player2Score, g.Status)
		if g.WinnerID != nil {
			line += fmt.Sprintf("  winner: %s", *g.WinnerID)
		}
		fmt.Println(line)
	}
}

func (o *Output) printRollResult(r RollResult) {
	fmt.Printf("Rolled: %d + %d\n", r.Dice.Die1, r.Dice.Die2)
	if r.IsDoubleSix {
		fmt.Println("Double six! Round score lost, turn passes.")
	} else {
		fmt.Printf("Round score: %d\n", r.RoundScore)
	}
	fmt.Println()
	o.printGameState(r.GameState)
}

func (o *Output) printHoldResult(h HoldResult) {
	if h.IsGameOver {
		fmt.Println("Game over!")
		if h.WinnerID != nil {
			fmt.Printf("Winner: %s\n", *h.WinnerID)
		}
	} else {
		fmt.Println("Score banked, turn passes.")
	}
	fmt.Println()
	o.printGameState(h.GameState)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
