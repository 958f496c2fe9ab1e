package engine

import (
	"fmt"
	"slices"
	"strings"
)

// RenderOptions controls how a board is drawn as text
type RenderOptions struct {
	// RevealShips draws remaining ships as S. Ships are taken from the
	// live ship set, or from RevealedShips for a decoded finished game.
	RevealShips bool
	// HighlightLast wraps the last guess in brackets
	HighlightLast bool
}

// Cell symbols used by RenderBoard
const (
	SymbolEmpty = " "
	SymbolHit   = "X"
	SymbolMiss  = "O"
	SymbolShip  = "S"
)

// RenderBoard draws the board with one-based row and column headers
func RenderBoard(state *GameState, opts RenderOptions) string {
	var sb strings.Builder
	size := state.Board.Size()

	sb.WriteString("   ")
	for col := 1; col <= size; col++ {
		fmt.Fprintf(&sb, "%2d ", col)
	}
	sb.WriteString("\n")
	sb.WriteString("   " + strings.Repeat("―", 3*size) + "\n")

	for row := 0; row < size; row++ {
		fmt.Fprintf(&sb, "%2d|", row+1)
		for col := 0; col < size; col++ {
			c := Coordinate{Row: row, Col: col}
			symbol := cellSymbol(state, c, opts.RevealShips)
			if opts.HighlightLast && state.LastGuess != nil && *state.LastGuess == c {
				fmt.Fprintf(&sb, "[%s]", symbol)
			} else {
				fmt.Fprintf(&sb, " %s ", symbol)
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func cellSymbol(state *GameState, c Coordinate, reveal bool) string {
	switch state.Board.At(c) {
	case Hit:
		return SymbolHit
	case Miss:
		return SymbolMiss
	}
	if reveal && (state.Ships.Contains(c) || slices.Contains(state.RevealedShips, c)) {
		return SymbolShip
	}
	return SymbolEmpty
}
