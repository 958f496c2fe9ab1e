package console

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/wricardo/battleships/game/engine"
)

func fixedLayout(ships ...engine.Coordinate) EngineFactory {
	return func(config *engine.GameConfig) (*engine.GameEngine, error) {
		return engine.NewEngineWithShips(config, ships)
	}
}

func lines(input ...string) *strings.Reader {
	return strings.NewReader(strings.Join(input, "\n") + "\n")
}

func TestRunVictory(t *testing.T) {
	var out bytes.Buffer
	c := New(lines("4", "2", "1", "1", "1", "1", "2", "2"), &out, Options{
		NewEngine: fixedLayout(engine.Coordinate{Row: 0, Col: 0}, engine.Coordinate{Row: 1, Col: 1}),
	})

	state, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if state.Status != engine.StatusWon {
		t.Fatalf("status = %s, want %s", state.Status, engine.StatusWon)
	}
	if state.RemainingTurns != 6 {
		t.Errorf("remaining turns = %d, want 6", state.RemainingTurns)
	}

	got := out.String()
	for _, want := range []string{
		"Choose your board size. It must be between 4 and 10.",
		"Choose how many ships to hide (between 1 and 4).",
		"The computer has hidden 2 ships on a 4x4 board.",
		"You have 8 turns to sink them all. Good luck!",
		"Turn 1 of 8",
		"Row (1-4): ",
		"Column (1-4): ",
		engine.DefaultHitMessage,
		engine.DefaultAlreadyGuessedMessage,
		engine.DefaultVictoryMessage,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q", want)
		}
	}

	// A repeated guess is free, so the same turn is shown again
	if n := strings.Count(got, "Turn 2 of 8"); n != 2 {
		t.Errorf("Turn 2 shown %d times, want 2", n)
	}
	if strings.Contains(got, "Turn 3 of 8") {
		t.Error("game should end on the second turn")
	}
}

func TestRunLoss(t *testing.T) {
	var out bytes.Buffer
	ships := []engine.Coordinate{{Row: 3, Col: 0}, {Row: 3, Col: 1}, {Row: 3, Col: 2}, {Row: 3, Col: 3}}
	c := New(lines("4", "4", "1", "1", "1", "2", "1", "3", "1", "4"), &out, Options{
		NewEngine: fixedLayout(ships...),
	})

	state, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if state.Status != engine.StatusLost {
		t.Fatalf("status = %s, want %s", state.Status, engine.StatusLost)
	}

	got := out.String()
	for _, want := range []string{
		"You have 4 turns to sink them all.",
		"Turn 4 of 4",
		engine.DefaultMissMessage,
		engine.DefaultOutOfTurnsMessage,
		"Ships remaining: 4",
		" 4| S  S  S  S ",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(got, engine.DefaultVictoryMessage) {
		t.Error("lost game printed the victory message")
	}
}

func TestRunRepromptsOnBadInput(t *testing.T) {
	var out bytes.Buffer
	c := New(lines("abc", "3", "11", "4", "", "0", "5", "1", "x", "9", "1", "1"), &out, Options{
		NewEngine: fixedLayout(engine.Coordinate{Row: 0, Col: 0}),
	})

	state, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if state.Status != engine.StatusWon {
		t.Errorf("status = %s, want %s", state.Status, engine.StatusWon)
	}

	got := out.String()
	tests := []struct {
		text string
		want int
	}{
		{"Invalid input. Please enter a whole number.", 3},
		{"Please enter a number between 4 and 10.", 2},
		{"Please enter a number between 1 and 4.", 3},
	}
	for _, tt := range tests {
		if n := strings.Count(got, tt.text); n != tt.want {
			t.Errorf("%q printed %d times, want %d", tt.text, n, tt.want)
		}
	}
}

func TestRunInterrupted(t *testing.T) {
	t.Run("input ends during setup", func(t *testing.T) {
		var out bytes.Buffer
		state, err := New(lines("4"), &out, Options{}).Run(context.Background())
		if !errors.Is(err, ErrInterrupted) {
			t.Fatalf("error = %v, want ErrInterrupted", err)
		}
		if state != nil {
			t.Error("no game should have started")
		}
	})

	t.Run("input ends mid game", func(t *testing.T) {
		var out bytes.Buffer
		c := New(strings.NewReader(""), &out, Options{
			BoardSize: 4,
			NumShips:  1,
			Rand:      engine.NewSeededRand(1),
		})
		state, err := c.Run(context.Background())
		if !errors.Is(err, ErrInterrupted) {
			t.Fatalf("error = %v, want ErrInterrupted", err)
		}
		if state == nil || state.NumShips != 1 || state.Status != engine.StatusInProgress {
			t.Fatalf("state = %+v, want an in-progress game with one ship", state)
		}
	})

	t.Run("context canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		var out bytes.Buffer
		_, err := New(lines("4", "1"), &out, Options{}).Run(ctx)
		if !errors.Is(err, ErrInterrupted) {
			t.Fatalf("error = %v, want ErrInterrupted", err)
		}
	})
}

func TestRunWithPresetSettings(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{name: "valid", opts: Options{BoardSize: 5, NumShips: 6}},
		{name: "board too small", opts: Options{BoardSize: 3, NumShips: 1}, wantErr: true},
		{name: "board too large", opts: Options{BoardSize: 11, NumShips: 1}, wantErr: true},
		{name: "too many ships", opts: Options{BoardSize: 4, NumShips: 5}, wantErr: true},
		{name: "negative ships", opts: Options{BoardSize: 4, NumShips: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			_, err := New(strings.NewReader(""), &out, tt.opts).Run(context.Background())
			if tt.wantErr {
				if !errors.Is(err, engine.ErrInvalidConfiguration) {
					t.Errorf("error = %v, want ErrInvalidConfiguration", err)
				}
				return
			}
			if !errors.Is(err, ErrInterrupted) {
				t.Errorf("error = %v, want ErrInterrupted once input runs out", err)
			}
			if strings.Contains(out.String(), "Board size: ") {
				t.Error("board size prompt shown although it was given")
			}
			if !strings.Contains(out.String(), "hidden 6 ships on a 5x5 board") {
				t.Errorf("unexpected intro: %s", out.String())
			}
		})
	}
}

func TestPlural(t *testing.T) {
	if got := plural(1, "ship"); got != "ship" {
		t.Errorf("plural(1) = %q", got)
	}
	if got := plural(3, "ship"); got != "ships" {
		t.Errorf("plural(3) = %q", got)
	}
}
