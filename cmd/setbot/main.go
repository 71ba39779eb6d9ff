// Command setbot plays the Set game against a running server and analyzes
// the game's rules by simulation.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/set-game/api"
	"github.com/wricardo/set-game/game/config"
	"github.com/wricardo/set-game/game/engine"
)

func main() {
	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "setbot: %v\n", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "setbot",
		Usage: "play and analyze the Set game",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Value:   "http://localhost:8000",
				Usage:   "base URL of the game server",
				Sources: cli.EnvVars("SET_SERVER"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			playCommand(out),
			roomsCommand(out),
			analyzeCommand(out),
		},
	}
}

func playCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "register a bot player and claim sets until the game is over",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "nickname", Value: "setbot", Usage: "bot nickname"},
			&cli.StringFlag{Name: "password", Value: "setbot", Usage: "bot password"},
			&cli.IntFlag{Name: "room", Value: NewRoom, Usage: "room to join, -1 creates a new one"},
			&cli.DurationFlag{Name: "delay", Value: 500 * time.Millisecond, Usage: "pause between turns"},
			&cli.IntFlag{Name: "max-turns", Value: 1000, Usage: "stop after this many turns, 0 for no limit"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logger, err := config.NewLogger(cmd.Bool("debug"))
			if err != nil {
				return err
			}
			defer logger.Sync()

			bot := NewBot(api.NewClient(cmd.String("server"), nil), logger,
				cmd.Duration("delay"), cmd.Int("max-turns"))

			summary, err := bot.Play(ctx, cmd.String("nickname"), cmd.String("password"), cmd.Int("room"))
			if summary != nil {
				printSummary(out, summary)
			}
			return err
		},
	}
}

func roomsCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "rooms",
		Usage: "list the rooms on the server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "token", Usage: "access token, a throwaway user is registered when empty"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			client := api.NewClient(cmd.String("server"), nil)

			token := cmd.String("token")
			if token == "" {
				reg, err := client.Register(ctx, "setbot-observer", "observer")
				if err != nil {
					return err
				}
				token = reg.AccessToken
			}

			rooms, err := client.ListRooms(ctx, token)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Rooms: %d\n", len(rooms))
			for _, r := range rooms {
				fmt.Fprintf(out, "  %d\n", r.ID)
			}
			return nil
		},
	}
}

func analyzeCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "simulate games locally and report how the rules play out",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "games", Value: 1000, Usage: "number of games to simulate"},
			&cli.Uint64Flag{Name: "seed", Value: 1, Usage: "random seed"},
			&cli.IntFlag{Name: "field-size", Value: engine.DefaultFieldSize, Usage: "cards dealt to the field"},
			&cli.IntFlag{Name: "draw-size", Value: engine.DefaultDrawSize, Usage: "cards added per draw"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			rules := engine.Rules{
				FieldSize: cmd.Int("field-size"),
				DrawSize:  cmd.Int("draw-size"),
			}
			stats, err := Simulate(cmd.Int("games"), cmd.Uint64("seed"), rules)
			if err != nil {
				return err
			}
			stats.Print(out)
			return nil
		},
	}
}

func printSummary(out io.Writer, s *Summary) {
	fmt.Fprintf(out, "Room %d: %s\n", s.RoomID, s.Reason)
	fmt.Fprintf(out, "Score %d (sets %d, misses %d, draws %d) in %s\n",
		s.Score, s.Sets, s.Misses, s.Draws, s.Duration.Round(time.Millisecond))
	for i, u := range s.Scores {
		fmt.Fprintf(out, "%d. %s: %d\n", i+1, u.Name, u.Score)
	}
}
