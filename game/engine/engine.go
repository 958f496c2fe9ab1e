package engine

import (
	"fmt"
)

// Engine defines the interface for game logic operations
type Engine interface {
	// Core game operations
	Guess(c Coordinate) (*GuessOutcome, error)
	Reset() (*GameState, error)
	GetState() *GameState
	SetState(state *GameState)

	// Game state queries
	Status() GameStatus
	IsGameOver() bool
	IsVictory() bool
	GetRemainingTurns() int
	GetBoardSize() int
	GetLastGuess() *Coordinate

	// Ship positions for presentation once the game has ended
	Ships() ShipSet

	// Configuration
	GetConfig() *GameConfig

	// History
	GetGuessHistory() []GuessEntry
}

// GameEngine implements the Engine interface
type GameEngine struct {
	state  *GameState
	config *GameConfig
	rng    Rand
}

// NewEngine validates config, places ships at random and starts a game.
// A nil rng uses the global math/rand/v2 source.
func NewEngine(config *GameConfig, rng Rand) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = DefaultRand()
	}

	ships, err := PlaceShips(rng, config.BoardSize, config.NumShips)
	if err != nil {
		return nil, fmt.Errorf("failed to place ships: %w", err)
	}

	return &GameEngine{
		state:  InitGameStateFromConfig(config, ships),
		config: config,
		rng:    rng,
	}, nil
}

// NewEngineWithShips starts a game with a fixed ship layout.
// Every coordinate must be on the board and distinct; NumShips is taken from the layout.
// The caller's config is left untouched.
func NewEngineWithShips(base *GameConfig, ships []Coordinate) (*GameEngine, error) {
	if base == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfiguration)
	}
	cfg := *base
	config := &cfg
	config.NumShips = len(ships)
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	set := NewShipSet(ships...)
	if set.Len() != len(ships) {
		return nil, fmt.Errorf("%w: duplicate ship coordinates", ErrInvalidConfiguration)
	}
	board := NewBoard(config.BoardSize)
	for _, c := range ships {
		if !board.InBounds(c) {
			return nil, fmt.Errorf("%w: ship at (%d, %d) is outside the %dx%d board",
				ErrInvalidConfiguration, c.Row, c.Col, config.BoardSize, config.BoardSize)
		}
	}

	return &GameEngine{
		state:  InitGameStateFromConfig(config, set),
		config: config,
		rng:    DefaultRand(),
	}, nil
}

// GetState returns the current game state
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// SetState replaces the current game state
func (e *GameEngine) SetState(state *GameState) {
	e.state = state
}

// GetConfig returns the game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// Reset starts a new game with the same settings and a fresh random layout
func (e *GameEngine) Reset() (*GameState, error) {
	ships, err := PlaceShips(e.rng, e.config.BoardSize, e.config.NumShips)
	if err != nil {
		return nil, fmt.Errorf("failed to place ships: %w", err)
	}
	e.state = InitGameStateFromConfig(e.config, ships)
	return e.state, nil
}

// Guess resolves a zero-based guess
func (e *GameEngine) Guess(c Coordinate) (*GuessOutcome, error) {
	return e.state.ApplyGuess(c, e.config.Messages)
}

func (e *GameEngine) Status() GameStatus {
	return e.state.Status
}

func (e *GameEngine) IsGameOver() bool {
	return e.state.IsTerminal()
}

func (e *GameEngine) IsVictory() bool {
	return e.state.Status == StatusWon
}

func (e *GameEngine) GetRemainingTurns() int {
	return e.state.RemainingTurns
}

func (e *GameEngine) GetBoardSize() int {
	return e.state.Size
}

func (e *GameEngine) GetLastGuess() *Coordinate {
	return e.state.LastGuess
}

func (e *GameEngine) Ships() ShipSet {
	return e.state.Ships
}

func (e *GameEngine) GetGuessHistory() []GuessEntry {
	return e.state.GuessHistory
}
