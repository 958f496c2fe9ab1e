package engine

import (
	"fmt"
	"time"
)

// UpdateBoard resolves a single guess against the board and the ship set.
// A cell that was already resolved returns (false, true) and nothing changes.
// A ship cell becomes Hit and leaves the ship set; any other cell becomes Miss.
func UpdateBoard(board Board, guess Coordinate, ships ShipSet) (hit, alreadyGuessed bool) {
	if board.Guessed(guess) {
		return false, true
	}
	if ships.Contains(guess) {
		board[guess.Row][guess.Col] = Hit
		ships.remove(guess)
		return true, false
	}
	board[guess.Row][guess.Col] = Miss
	return false, false
}

// IsTerminal reports whether the game has been won or lost
func (gs *GameState) IsTerminal() bool {
	return gs.Status == StatusWon || gs.Status == StatusLost
}

// ApplyGuess processes one guess and advances the game state
func (gs *GameState) ApplyGuess(c Coordinate, messages Messages) (*GuessOutcome, error) {
	if gs.IsTerminal() || gs.RemainingTurns <= 0 || gs.Ships.Empty() {
		return nil, ErrGameOver
	}
	if !gs.Board.InBounds(c) {
		return nil, fmt.Errorf("%w: (%d, %d) is outside the %dx%d board", ErrOutOfRange, c.Row, c.Col, gs.Size, gs.Size)
	}

	hit, already := UpdateBoard(gs.Board, c, gs.Ships)

	result := ResultMiss
	switch {
	case already:
		result = ResultRepeat
		gs.RepeatGuesses++
		gs.Message = messages.AlreadyGuessed
	case hit:
		result = ResultHit
		gs.Hits++
		gs.Message = messages.Hit
	default:
		gs.Misses++
		gs.Message = messages.Miss
	}

	if !already {
		gs.RemainingTurns--
		last := c
		gs.LastGuess = &last
	}

	gs.ShipsRemaining = gs.Ships.Len()
	gs.refreshStatus(messages)
	gs.addGuessToHistory(c, result)

	return &GuessOutcome{
		Coordinate:     c,
		Hit:            hit,
		AlreadyGuessed: already,
		Status:         gs.Status,
		RemainingTurns: gs.RemainingTurns,
		Message:        gs.Message,
	}, nil
}

// refreshStatus moves the game into Won or Lost when the end condition is met
func (gs *GameState) refreshStatus(messages Messages) {
	switch {
	case gs.Ships.Empty():
		gs.Status = StatusWon
		gs.Message = messages.Victory
	case gs.RemainingTurns <= 0:
		gs.Status = StatusLost
		gs.Message = messages.OutOfTurns
	default:
		gs.Status = StatusInProgress
		return
	}
	gs.RevealedShips = gs.Ships.Coordinates()
}

func (gs *GameState) addGuessToHistory(c Coordinate, result GuessResult) {
	gs.TotalGuesses++
	gs.GuessHistory = append(gs.GuessHistory, GuessEntry{
		Coordinate:     c,
		Result:         result,
		RemainingTurns: gs.RemainingTurns,
		Timestamp:      time.Now().Unix(),
		GuessNumber:    gs.TotalGuesses,
	})
}
