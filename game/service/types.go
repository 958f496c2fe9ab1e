package service

import (
	"time"

	"github.com/wricardo/battleships/game/engine"
)

// CreateOptions selects the settings for a new game.
// BoardSize and NumShips override the preset when non-zero; Seed fixes the ship layout when non-zero.
type CreateOptions struct {
	ConfigID  string `json:"config"`
	BoardSize int    `json:"board_size"`
	NumShips  int    `json:"num_ships"`
	Seed      uint64 `json:"seed"`
}

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// GuessResult contains the result of a guess. Row and Col are one-based.
type GuessResult struct {
	Hit            bool              `json:"hit"`
	AlreadyGuessed bool              `json:"already_guessed"`
	Row            int               `json:"row"`
	Col            int               `json:"col"`
	Status         engine.GameStatus `json:"status"`
	Message        string            `json:"message"`
	GameState      *engine.GameState `json:"game_state"`
	Events         []GameEvent       `json:"events,omitempty"`
}

// Event types
const (
	EventHit      = "hit"
	EventMiss     = "miss"
	EventRepeat   = "repeat"
	EventVictory  = "victory"
	EventGameOver = "game_over"
	EventReset    = "reset"
)

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Row       int       `json:"row,omitempty"`
	Col       int       `json:"col,omitempty"`
}

// HistoryOptions configures guess history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated guess history
type HistoryResponse struct {
	Guesses      []engine.GuessEntry `json:"guesses"`
	TotalGuesses int                 `json:"total_guesses"`
	Page         int                 `json:"page"`
	PageSize     int                 `json:"page_size"`
	TotalPages   int                 `json:"total_pages"`
	HasNext      bool                `json:"has_next"`
	HasPrevious  bool                `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`
	Description string `json:"description"`
	BoardSize   int    `json:"board_size"`
	NumShips    int    `json:"num_ships"`
	MaxTurns    int    `json:"max_turns"`
}
