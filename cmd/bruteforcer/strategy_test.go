package main

import (
	"testing"

	"github.com/wricardo/battleships/game/engine"
)

func drain(t *testing.T, s Strategy, state *engine.GameState) []engine.Coordinate {
	t.Helper()
	var cells []engine.Coordinate
	for {
		c, ok := s.Next(state)
		if !ok {
			return cells
		}
		cells = append(cells, c)
	}
}

func TestSweepStrategyOrders(t *testing.T) {
	state := &engine.GameState{Board: engine.NewBoard(4), Size: 4}

	tests := []struct {
		order string
		first []engine.Coordinate
	}{
		{OrderRows, []engine.Coordinate{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2}}},
		{OrderCheckerboard, []engine.Coordinate{{Row: 0, Col: 0}, {Row: 0, Col: 2}, {Row: 1, Col: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.order, func(t *testing.T) {
			s, err := NewSweepStrategy(4, tt.order, nil)
			if err != nil {
				t.Fatalf("NewSweepStrategy() error = %v", err)
			}
			cells := drain(t, s, state)
			if len(cells) != 16 {
				t.Fatalf("swept %d cells, want 16", len(cells))
			}
			for i, want := range tt.first {
				if cells[i] != want {
					t.Errorf("cell %d = %+v, want %+v", i, cells[i], want)
				}
			}
		})
	}
}

func TestSweepStrategyRandomCoversBoard(t *testing.T) {
	state := &engine.GameState{Board: engine.NewBoard(5), Size: 5}
	s, err := NewSweepStrategy(5, OrderRandom, engine.NewSeededRand(11))
	if err != nil {
		t.Fatal(err)
	}

	seen := map[engine.Coordinate]bool{}
	for _, c := range drain(t, s, state) {
		if seen[c] {
			t.Fatalf("cell %+v swept twice", c)
		}
		seen[c] = true
	}
	if len(seen) != 25 {
		t.Errorf("swept %d distinct cells, want 25", len(seen))
	}
}

func TestSweepStrategySkipsGuessedCells(t *testing.T) {
	board := engine.NewBoard(4)
	board[0][0] = engine.Miss
	board[0][1] = engine.Hit
	state := &engine.GameState{Board: board, Size: 4}

	s, err := NewSweepStrategy(4, OrderRows, nil)
	if err != nil {
		t.Fatal(err)
	}
	c, ok := s.Next(state)
	if !ok || c != (engine.Coordinate{Row: 0, Col: 2}) {
		t.Errorf("Next() = %+v, %v, want (0, 2)", c, ok)
	}

	s.Reset()
	if got := len(drain(t, s, state)); got != 14 {
		t.Errorf("after reset swept %d cells, want 14", got)
	}
}

func TestNewSweepStrategyUnknownOrder(t *testing.T) {
	if _, err := NewSweepStrategy(4, "spiral", nil); err == nil {
		t.Error("expected error for unknown order")
	}
}
