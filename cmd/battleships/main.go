// Command battleships plays a game in the terminal.
//
//	battleships                  # asks for board size and ship count
//	battleships --size 6 --ships 4
//	battleships --seed 42        # reproducible ship placement
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/battleships/game/engine"
	"github.com/wricardo/battleships/transport/console"
)

var Version = "1.0.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand(os.Stdin, os.Stdout).Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

func newCommand(in io.Reader, out io.Writer) *cli.Command {
	return &cli.Command{
		Name:    "battleships",
		Usage:   "find the hidden ships before you run out of turns",
		Version: Version,
		// main decides the exit code
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "size",
				Aliases: []string{"s"},
				Usage:   fmt.Sprintf("board size (%d-%d); asked for when omitted", engine.MinBoardSize, engine.MaxBoardSize),
			},
			&cli.IntFlag{
				Name:    "ships",
				Aliases: []string{"n"},
				Usage:   "number of hidden ships; asked for when omitted",
			},
			&cli.Uint64Flag{
				Name:  "seed",
				Usage: "seed for ship placement",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "log game events to stderr",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			setupLogging(cmd.Bool("debug"))

			opts := console.Options{
				BoardSize: int(cmd.Int("size")),
				NumShips:  int(cmd.Int("ships")),
			}
			if cmd.IsSet("seed") {
				opts.Rand = engine.NewSeededRand(cmd.Uint64("seed"))
			}
			return play(ctx, console.New(in, out, opts), out)
		},
	}
}

func setupLogging(debug bool) {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

// play runs the game until it ends, input runs out, or ctx is canceled
func play(ctx context.Context, c *console.Console, out io.Writer) error {
	done := make(chan error, 1)
	go func() {
		_, err := c.Run(ctx)
		done <- err
	}()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = console.ErrInterrupted
	}

	switch {
	case err == nil:
		return nil
	case errors.Is(err, console.ErrInterrupted):
		fmt.Fprintln(out)
		fmt.Fprintln(out, console.InterruptedMessage)
		return nil
	case errors.Is(err, engine.ErrInvalidConfiguration):
		return cli.Exit(err.Error(), 2)
	default:
		return err
	}
}
