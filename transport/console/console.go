// Package console plays Battleships over a line-oriented terminal.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/battleships/game/engine"
)

// ErrInterrupted is returned when input ends before the game is over
var ErrInterrupted = errors.New("game interrupted")

// Messages printed by the console that do not come from the engine
const (
	InterruptedMessage = "Game interrupted. Goodbye!"
	msgWholeNumber     = "Invalid input. Please enter a whole number."
)

// EngineFactory starts a game for the chosen settings
type EngineFactory func(config *engine.GameConfig) (*engine.GameEngine, error)

// Options controls a console game. Zero BoardSize or NumShips means the player is asked.
type Options struct {
	BoardSize int
	NumShips  int
	Rand      engine.Rand
	// NewEngine overrides how the game is created. Tests use it to fix the layout.
	NewEngine EngineFactory
}

// Console plays one game over a line-oriented reader and writer
type Console struct {
	in   *bufio.Scanner
	out  io.Writer
	opts Options
}

// New creates a console reading answers from in and writing prompts to out
func New(in io.Reader, out io.Writer, opts Options) *Console {
	if opts.NewEngine == nil {
		rng := opts.Rand
		opts.NewEngine = func(config *engine.GameConfig) (*engine.GameEngine, error) {
			return engine.NewEngine(config, rng)
		}
	}
	return &Console{
		in:   bufio.NewScanner(in),
		out:  out,
		opts: opts,
	}
}

// Run plays a full game and returns its final state.
// ErrInterrupted is returned if input runs out or ctx is canceled first.
func (c *Console) Run(ctx context.Context) (*engine.GameState, error) {
	c.println(engine.DefaultWelcomeMessage)
	c.println("")

	size, err := c.chooseBoardSize(ctx)
	if err != nil {
		return nil, err
	}
	ships, err := c.chooseShips(ctx, size)
	if err != nil {
		return nil, err
	}

	config := engine.DefaultGameConfig()
	config.Name = "Console"
	config.Description = fmt.Sprintf("%dx%d board with %d hidden ships", size, size, ships)
	config.BoardSize = size
	config.NumShips = ships

	game, err := c.opts.NewEngine(config)
	if err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}
	log.Debug().Int("board_size", size).Int("num_ships", ships).Msg("console: game started")

	state := game.GetState()
	c.println("")
	c.printf("The computer has hidden %d %s on a %dx%d board.\n", state.NumShips, plural(state.NumShips, "ship"), size, size)
	c.printf("You have %d turns to sink them all. Good luck!\n", state.MaxTurns)

	for !state.IsTerminal() {
		c.println("")
		c.printf("Turn %d of %d\n", state.MaxTurns-state.RemainingTurns+1, state.MaxTurns)
		c.print(engine.RenderBoard(state, engine.RenderOptions{HighlightLast: true}))
		c.println("Enter your guess (row and column).")

		row, err := c.askNumber(ctx, fmt.Sprintf("Row (1-%d): ", size), 1, size)
		if err != nil {
			return state, err
		}
		col, err := c.askNumber(ctx, fmt.Sprintf("Column (1-%d): ", size), 1, size)
		if err != nil {
			return state, err
		}

		outcome, err := game.Guess(engine.Coordinate{Row: row - 1, Col: col - 1})
		if err != nil {
			return state, err
		}
		state = game.GetState()
		log.Debug().
			Int("row", row).
			Int("col", col).
			Bool("hit", outcome.Hit).
			Bool("repeat", outcome.AlreadyGuessed).
			Int("remaining_turns", state.RemainingTurns).
			Msg("console: guess")

		c.println(feedback(outcome, game.GetConfig().Messages))
	}

	c.printOutcome(state, game.GetConfig().Messages)
	return state, nil
}

func (c *Console) printOutcome(state *engine.GameState, messages engine.Messages) {
	c.println("")
	if state.Status == engine.StatusWon {
		c.print(engine.RenderBoard(state, engine.RenderOptions{}))
		c.println(messages.Victory)
		return
	}

	c.println(messages.OutOfTurns)
	c.printf("Ships remaining: %d\n", state.ShipsRemaining)
	c.println("Here is where they were hidden:")
	c.print(engine.RenderBoard(state, engine.RenderOptions{RevealShips: true}))
}

func (c *Console) chooseBoardSize(ctx context.Context) (int, error) {
	if size := c.opts.BoardSize; size != 0 {
		if size < engine.MinBoardSize || size > engine.MaxBoardSize {
			return 0, fmt.Errorf("%w: board size must be between %d and %d, got %d",
				engine.ErrInvalidConfiguration, engine.MinBoardSize, engine.MaxBoardSize, size)
		}
		return size, nil
	}
	c.printf("Choose your board size. It must be between %d and %d.\n", engine.MinBoardSize, engine.MaxBoardSize)
	return c.askNumber(ctx, "Board size: ", engine.MinBoardSize, engine.MaxBoardSize)
}

func (c *Console) chooseShips(ctx context.Context, size int) (int, error) {
	maxShips := engine.RecommendedMaxShips(size)
	if ships := c.opts.NumShips; ships != 0 {
		if ships < engine.MinShips || ships > maxShips {
			return 0, fmt.Errorf("%w: number of ships must be between %d and %d, got %d",
				engine.ErrInvalidConfiguration, engine.MinShips, maxShips, ships)
		}
		return ships, nil
	}
	c.printf("Choose how many ships to hide (between %d and %d).\n", engine.MinShips, maxShips)
	return c.askNumber(ctx, "Number of ships: ", engine.MinShips, maxShips)
}

// askNumber prompts until the player enters a whole number in [lo, hi]
func (c *Console) askNumber(ctx context.Context, prompt string, lo, hi int) (int, error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInterrupted, err)
		}
		c.print(prompt)
		if !c.in.Scan() {
			if err := c.in.Err(); err != nil {
				return 0, fmt.Errorf("%w: %v", ErrInterrupted, err)
			}
			return 0, ErrInterrupted
		}

		n, err := strconv.Atoi(strings.TrimSpace(c.in.Text()))
		if err != nil {
			c.println(msgWholeNumber)
			continue
		}
		if n < lo || n > hi {
			c.printf("Please enter a number between %d and %d.\n", lo, hi)
			continue
		}
		return n, nil
	}
}

func (c *Console) print(s string) {
	fmt.Fprint(c.out, s)
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *Console) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

// feedback is the per-guess line; the final status line is printed separately
func feedback(outcome *engine.GuessOutcome, messages engine.Messages) string {
	switch {
	case outcome.AlreadyGuessed:
		return messages.AlreadyGuessed
	case outcome.Hit:
		return messages.Hit
	default:
		return messages.Miss
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
