package web

import (
	"slices"

	"github.com/wricardo/battleships/game/engine"
)

type cellView struct {
	Symbol string
	Class  string
	Last   bool
}

type gamePage struct {
	SessionID      string
	Size           int
	Columns        []int
	Rows           [][]cellView
	Message        string
	RemainingTurns int
	MaxTurns       int
	ShipsRemaining int
	NumShips       int
	Endgame        bool
	Won            bool
}

func newGamePage(sessionID string, state *engine.GameState, message string) gamePage {
	page := gamePage{
		SessionID:      sessionID,
		Size:           state.Size,
		Message:        message,
		RemainingTurns: state.RemainingTurns,
		MaxTurns:       state.MaxTurns,
		ShipsRemaining: state.ShipsRemaining,
		NumShips:       state.NumShips,
		Endgame:        state.IsTerminal(),
		Won:            state.Status == engine.StatusWon,
	}

	for col := 1; col <= state.Size; col++ {
		page.Columns = append(page.Columns, col)
	}

	page.Rows = make([][]cellView, state.Board.Size())
	for row := range page.Rows {
		page.Rows[row] = make([]cellView, state.Board.Size())
		for col := range page.Rows[row] {
			c := engine.Coordinate{Row: row, Col: col}
			page.Rows[row][col] = cellFor(state, c, page.Endgame)
		}
	}
	return page
}

func cellFor(state *engine.GameState, c engine.Coordinate, reveal bool) cellView {
	view := cellView{Symbol: engine.SymbolEmpty, Class: "empty"}
	switch state.Board.At(c) {
	case engine.Hit:
		view = cellView{Symbol: engine.SymbolHit, Class: "hit"}
	case engine.Miss:
		view = cellView{Symbol: engine.SymbolMiss, Class: "miss"}
	default:
		if reveal && slices.Contains(state.RevealedShips, c) {
			view = cellView{Symbol: engine.SymbolShip, Class: "ship"}
		}
	}
	view.Last = state.LastGuess != nil && *state.LastGuess == c
	return view
}
