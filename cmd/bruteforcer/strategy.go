package main

import (
	"fmt"

	"github.com/wricardo/battleships/game/engine"
)

// Strategy picks the next cell to fire at
type Strategy interface {
	// Next returns the next unguessed zero-based cell, or false when none is left
	Next(state *engine.GameState) (engine.Coordinate, bool)
	// Reset starts over for a new board
	Reset()
}

// Sweep orders
const (
	OrderRows         = "rows"
	OrderCheckerboard = "checkerboard"
	OrderRandom       = "random"
)

// SweepStrategy fires at every cell once in a fixed order
type SweepStrategy struct {
	size  int
	order string
	rng   engine.Rand

	cells []engine.Coordinate
	pos   int
}

// NewSweepStrategy creates a sweep over a size x size board
func NewSweepStrategy(size int, order string, rng engine.Rand) (*SweepStrategy, error) {
	switch order {
	case OrderRows, OrderCheckerboard, OrderRandom:
	default:
		return nil, fmt.Errorf("unknown order %q (use %s, %s or %s)", order, OrderRows, OrderCheckerboard, OrderRandom)
	}
	if rng == nil {
		rng = engine.DefaultRand()
	}

	s := &SweepStrategy{size: size, order: order, rng: rng}
	s.Reset()
	return s, nil
}

// Reset rebuilds the firing order. A random sweep gets a new shuffle.
func (s *SweepStrategy) Reset() {
	s.pos = 0
	s.cells = s.cells[:0]

	switch s.order {
	case OrderCheckerboard:
		for parity := 0; parity < 2; parity++ {
			for row := 0; row < s.size; row++ {
				for col := 0; col < s.size; col++ {
					if (row+col)%2 == parity {
						s.cells = append(s.cells, engine.Coordinate{Row: row, Col: col})
					}
				}
			}
		}
	default:
		for row := 0; row < s.size; row++ {
			for col := 0; col < s.size; col++ {
				s.cells = append(s.cells, engine.Coordinate{Row: row, Col: col})
			}
		}
	}

	if s.order == OrderRandom {
		for i := len(s.cells) - 1; i > 0; i-- {
			j := s.rng.IntN(i + 1)
			s.cells[i], s.cells[j] = s.cells[j], s.cells[i]
		}
	}
}

// Next skips cells the board already shows as guessed
func (s *SweepStrategy) Next(state *engine.GameState) (engine.Coordinate, bool) {
	for s.pos < len(s.cells) {
		c := s.cells[s.pos]
		s.pos++
		if !state.Board.Guessed(c) {
			return c, true
		}
	}
	return engine.Coordinate{}, false
}
