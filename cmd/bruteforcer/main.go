// Command bruteforcer plays Battleships against a running server through the
// REST API. It sweeps the board with a fixed strategy and resets the game
// until it wins or runs out of attempts.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/battleships/game/engine"
	"github.com/wricardo/battleships/game/service"
)

// Client talks to the game REST API for one session
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// CreateRequest mirrors the body of POST /api/sessions
type CreateRequest struct {
	ConfigID  string `json:"config_id,omitempty"`
	BoardSize int    `json:"board_size,omitempty"`
	NumShips  int    `json:"num_ships,omitempty"`
	Seed      uint64 `json:"seed,omitempty"`
}

type resetResponse struct {
	Message string            `json:"message"`
	State   *engine.GameState `json:"state"`
}

func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s failed: %s - %s", method, path, resp.Status, apiErr.Error)
		}
		return fmt.Errorf("%s %s failed: %s", method, path, resp.Status)
	}

	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

func (c *Client) sessionPath(suffix string) string {
	return "/api/sessions/" + url.PathEscape(c.sessionID) + suffix
}

func (c *Client) CreateSession(ctx context.Context, req CreateRequest) (*engine.GameState, error) {
	var info service.SessionInfo
	if err := c.do(ctx, http.MethodPost, "/api/sessions", req, &info); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	c.sessionID = info.ID
	return info.GameState, nil
}

func (c *Client) GetState(ctx context.Context) (*engine.GameState, error) {
	var state engine.GameState
	if err := c.do(ctx, http.MethodGet, c.sessionPath("/state"), nil, &state); err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	return &state, nil
}

// Guess fires at a zero-based cell; the API itself is one-based
func (c *Client) Guess(ctx context.Context, cell engine.Coordinate) (*service.GuessResult, error) {
	body := map[string]int{"row": cell.Row + 1, "col": cell.Col + 1}
	var result service.GuessResult
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/guess"), body, &result); err != nil {
		return nil, fmt.Errorf("guess: %w", err)
	}
	return &result, nil
}

func (c *Client) Reset(ctx context.Context) (*engine.GameState, error) {
	var resp resetResponse
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/reset"), nil, &resp); err != nil {
		return nil, fmt.Errorf("reset: %w", err)
	}
	return resp.State, nil
}

// Outcome summarizes a solve run
type Outcome struct {
	Attempts int
	Guesses  int
	Won      bool
	Final    *engine.GameState
}

// solve plays until a game is won or maxAttempts games have been lost.
// Every attempt after the first starts with a reset.
func solve(ctx context.Context, client *Client, state *engine.GameState, strategy Strategy, maxAttempts int, delay time.Duration) (*Outcome, error) {
	out := &Outcome{}
	for out.Attempts < maxAttempts {
		out.Attempts++

		if out.Attempts > 1 || state.IsTerminal() {
			var err error
			if state, err = client.Reset(ctx); err != nil {
				return out, err
			}
		}
		strategy.Reset()

		guesses := 0
		for !state.IsTerminal() {
			cell, ok := strategy.Next(state)
			if !ok {
				return out, errors.New("strategy ran out of cells before the game ended")
			}

			result, err := client.Guess(ctx, cell)
			if err != nil {
				return out, err
			}
			state = result.GameState
			guesses++
			out.Guesses++

			log.Debug().
				Int("row", result.Row).
				Int("col", result.Col).
				Bool("hit", result.Hit).
				Int("turns_left", state.RemainingTurns).
				Msg("guess")

			if delay > 0 {
				select {
				case <-ctx.Done():
					return out, ctx.Err()
				case <-time.After(delay):
				}
			}
		}

		out.Final = state
		log.Info().
			Int("attempt", out.Attempts).
			Int("guesses", guesses).
			Int("hits", state.Hits).
			Int("ships", state.NumShips).
			Str("status", string(state.Status)).
			Msg("attempt finished")

		if state.Status == engine.StatusWon {
			out.Won = true
			return out, nil
		}
	}
	return out, nil
}

func main() {
	cmd := &cli.Command{
		Name:  "bruteforcer",
		Usage: "play Battleships through the REST API until a game is won",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "game server URL"},
			&cli.StringFlag{Name: "config", Usage: "preset to play (classic, quick, ...)"},
			&cli.IntFlag{Name: "size", Usage: "board size override"},
			&cli.IntFlag{Name: "ships", Usage: "ship count override"},
			&cli.StringFlag{Name: "continue", Usage: "resume playing an existing session by ID"},
			&cli.StringFlag{Name: "order", Value: OrderRows, Usage: "sweep order: rows, checkerboard or random"},
			&cli.Uint64Flag{Name: "seed", Usage: "seed for the random sweep"},
			&cli.IntFlag{Name: "max-attempts", Value: 100, Usage: "games to play before giving up"},
			&cli.DurationFlag{Name: "delay", Usage: "pause between guesses"},
			&cli.BoolFlag{Name: "v", Usage: "log every guess"},
		},
		Action: run,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Error().Err(err).Msg("bruteforcer failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cmd.Bool("v") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	client := NewClient(cmd.String("url"))
	log.Info().Str("url", cmd.String("url")).Msg("Connecting to game server")

	var state *engine.GameState
	var err error
	if id := cmd.String("continue"); id != "" {
		client.sessionID = id
		state, err = client.GetState(ctx)
		if err != nil {
			return fmt.Errorf("resume session %s: %w", id, err)
		}
		log.Info().Str("session_id", id).Msg("Session resumed")
	} else {
		state, err = client.CreateSession(ctx, CreateRequest{
			ConfigID:  cmd.String("config"),
			BoardSize: int(cmd.Int("size")),
			NumShips:  int(cmd.Int("ships")),
		})
		if err != nil {
			return err
		}
		log.Info().Str("session_id", client.sessionID).Msg("Session created")
	}
	log.Info().
		Int("board_size", state.Size).
		Int("ships", state.NumShips).
		Int("turns", state.MaxTurns).
		Msg("Game loaded")

	var rng engine.Rand
	if cmd.IsSet("seed") {
		rng = engine.NewSeededRand(cmd.Uint64("seed"))
	}
	strategy, err := NewSweepStrategy(state.Size, cmd.String("order"), rng)
	if err != nil {
		return err
	}

	out, err := solve(ctx, client, state, strategy, int(cmd.Int("max-attempts")), cmd.Duration("delay"))
	if err != nil {
		return err
	}
	if !out.Won {
		return cli.Exit(fmt.Sprintf("failed to win after %d attempts (session %s)", out.Attempts, client.sessionID), 1)
	}
	log.Info().
		Int("attempts", out.Attempts).
		Int("guesses", out.Guesses).
		Str("session_id", client.sessionID).
		Msg("VICTORY")
	return nil
}
