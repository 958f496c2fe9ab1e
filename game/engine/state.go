package engine

// Clone returns a deep copy of the state that shares nothing with the original
func (gs *GameState) Clone() *GameState {
	if gs == nil {
		return nil
	}
	clone := *gs
	clone.Board = gs.Board.Clone()
	clone.Ships = NewShipSet(gs.Ships.Coordinates()...)
	if gs.LastGuess != nil {
		last := *gs.LastGuess
		clone.LastGuess = &last
	}
	if gs.RevealedShips != nil {
		clone.RevealedShips = append([]Coordinate(nil), gs.RevealedShips...)
	}
	clone.GuessHistory = append([]GuessEntry{}, gs.GuessHistory...)
	return &clone
}

// Accuracy returns hits as a percentage of non-repeat guesses
func (gs *GameState) Accuracy() float64 {
	total := gs.Hits + gs.Misses
	if total == 0 {
		return 0
	}
	return float64(gs.Hits) * 100 / float64(total)
}
