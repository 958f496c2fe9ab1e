package engine

import (
	"fmt"
)

// Default player messages
const (
	DefaultWelcomeMessage        = "Welcome to Battleships!"
	DefaultHitMessage            = "Hit! You sank a battleship!"
	DefaultMissMessage           = "Miss. No ship at that location."
	DefaultAlreadyGuessedMessage = "You already guessed that location. Try again."
	DefaultVictoryMessage        = "Congratulations! You sank all the battleships!"
	DefaultOutOfTurnsMessage     = "Game over! You ran out of turns."
)

// DefaultGameConfig returns the built-in 8x8 game with 8 ships
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Name:        "Classic",
		Description: "8x8 board with 8 hidden ships",
		BoardSize:   8,
		NumShips:    8,
		Messages:    DefaultMessages(),
	}
}

// DefaultMessages returns the built-in player messages
func DefaultMessages() Messages {
	return Messages{
		Welcome:        DefaultWelcomeMessage,
		Hit:            DefaultHitMessage,
		Miss:           DefaultMissMessage,
		AlreadyGuessed: DefaultAlreadyGuessedMessage,
		Victory:        DefaultVictoryMessage,
		OutOfTurns:     DefaultOutOfTurnsMessage,
	}
}

// ValidateGameConfig checks board size and ship count and fills in missing messages
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfiguration)
	}
	if config.Name == "" {
		return fmt.Errorf("%w: config name is required", ErrInvalidConfiguration)
	}
	if config.BoardSize < MinBoardSize || config.BoardSize > MaxBoardSize {
		return fmt.Errorf("%w: board size must be between %d and %d, got %d",
			ErrInvalidConfiguration, MinBoardSize, MaxBoardSize, config.BoardSize)
	}
	maxShips := config.BoardSize * config.BoardSize
	if config.NumShips < MinShips || config.NumShips > maxShips {
		return fmt.Errorf("%w: number of ships must be between %d and %d, got %d",
			ErrInvalidConfiguration, MinShips, maxShips, config.NumShips)
	}

	config.Messages = config.Messages.withDefaults()
	return nil
}

func (m Messages) withDefaults() Messages {
	defaults := DefaultMessages()
	if m.Welcome == "" {
		m.Welcome = defaults.Welcome
	}
	if m.Hit == "" {
		m.Hit = defaults.Hit
	}
	if m.Miss == "" {
		m.Miss = defaults.Miss
	}
	if m.AlreadyGuessed == "" {
		m.AlreadyGuessed = defaults.AlreadyGuessed
	}
	if m.Victory == "" {
		m.Victory = defaults.Victory
	}
	if m.OutOfTurns == "" {
		m.OutOfTurns = defaults.OutOfTurns
	}
	return m
}

// MaxTurns returns the turn budget for a board: max(size*size/numShips, size)
func MaxTurns(size, numShips int) int {
	if numShips <= 0 {
		return size
	}
	return max(size*size/numShips, size)
}

// RecommendedMaxShips is the largest ship count offered to players: max(size*size/4, 1)
func RecommendedMaxShips(size int) int {
	return max(size*size/4, 1)
}

// InitGameStateFromConfig creates a fresh game state for the given config and ship layout
func InitGameStateFromConfig(config *GameConfig, ships ShipSet) *GameState {
	state := &GameState{
		Board:          NewBoard(config.BoardSize),
		Ships:          ships,
		Size:           config.BoardSize,
		NumShips:       ships.Len(),
		MaxTurns:       MaxTurns(config.BoardSize, ships.Len()),
		Status:         StatusSetup,
		Message:        config.Messages.Welcome,
		ShipsRemaining: ships.Len(),
		ConfigName:     config.Name,
		GuessHistory:   []GuessEntry{},
	}
	state.RemainingTurns = state.MaxTurns

	state.refreshStatus(config.Messages)
	if state.Status == StatusInProgress {
		state.Message = config.Messages.Welcome
	}
	return state
}
