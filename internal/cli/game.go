package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameCreateCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameListCmd())
	cmd.AddCommand(newGameRollCmd())
	cmd.AddCommand(newGameHoldCmd())
	cmd.AddCommand(newGameRestartCmd())
	cmd.AddCommand(newGameEndCmd())
	cmd.AddCommand(newGameDeleteCmd())

	return cmd
}

func newGameCreateCmd() *cobra.Command {
	var winningScore int

	cmd := &cobra.Command{
		Use:   "create <player1> <player2>",
		Short: "Create a new game between two players",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"player1Username": args[0],
				"player2Username": args[1],
			}
			if winningScore > 0 {
				body["winningScore"] = winningScore
			}

			var result GameState

			if err := client.Post("/api/games", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&winningScore, "winning-score", 0, "Points needed to win (default 100)")

	return cmd
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <game-id>",
		Short: "Get game state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameState

			if err := client.Get(fmt.Sprintf("/api/games/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your games",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameList

			if err := client.Get("/api/games/my-games", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameRollCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roll <game-id>",
		Short: "Roll the dice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result RollResult

			if err := client.Post(fmt.Sprintf("/api/games/%s/roll", args[0]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameHoldCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hold <game-id>",
		Short: "Bank the round score and pass the turn",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result HoldResult

			if err := client.Post(fmt.Sprintf("/api/games/%s/hold", args[0]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameRestartCmd() *cobra.Command {
	var winningScore int

	cmd := &cobra.Command{
		Use:   "restart <game-id>",
		Short: "Reset a game to a fresh state with the same players",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var body map[string]any
			if winningScore > 0 {
				body = map[string]any{"winningScore": winningScore}
			}

			var result GameState

			if err := client.Post(fmt.Sprintf("/api/games/%s/new-game", args[0]), body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&winningScore, "winning-score", 0, "New winning score (default: keep current)")

	return cmd
}

func newGameEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end <game-id>",
		Short: "Concede the game to your opponent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameState

			if err := client.Post(fmt.Sprintf("/api/games/%s/end", args[0]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <game-id>",
		Short: "Delete a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result DeleteResult

			if err := client.Delete(fmt.Sprintf("/api/games/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
