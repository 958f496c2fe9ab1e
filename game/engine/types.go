package engine

import (
	"encoding/json"
	"errors"
)

// CellState represents what is known about a single board cell
type CellState string

const (
	Empty CellState = "empty"
	Hit   CellState = "hit"
	Miss  CellState = "miss"

	// Validation constants
	MinBoardSize = 4
	MaxBoardSize = 10
	MinShips     = 1
)

// GameStatus is the lifecycle state of a game
type GameStatus string

const (
	StatusSetup      GameStatus = "setup"
	StatusInProgress GameStatus = "in_progress"
	StatusWon        GameStatus = "won"
	StatusLost       GameStatus = "lost"
)

// GuessResult classifies a single guess in the history
type GuessResult string

const (
	ResultHit    GuessResult = "hit"
	ResultMiss   GuessResult = "miss"
	ResultRepeat GuessResult = "repeat"
)

var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrOutOfRange           = errors.New("coordinate out of range")
	ErrGameOver             = errors.New("game is over")
)

// Coordinate is a zero-based board position.
// Its JSON form is one-based, the numbering players use.
type Coordinate struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// wireCoordinate is the one-based JSON shape of a Coordinate
type wireCoordinate struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// MarshalJSON encodes c with one-based row and column
func (c Coordinate) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireCoordinate{Row: c.Row + 1, Col: c.Col + 1})
}

// UnmarshalJSON decodes a one-based row and column
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var w wireCoordinate
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*c = Coordinate{Row: w.Row - 1, Col: w.Col - 1}
	return nil
}

// Messages are the player-facing texts for game events
type Messages struct {
	Welcome        string `json:"welcome"`
	Hit            string `json:"hit"`
	Miss           string `json:"miss"`
	AlreadyGuessed string `json:"already_guessed"`
	Victory        string `json:"victory"`
	OutOfTurns     string `json:"out_of_turns"`
}

// GameConfig represents the game configuration from JSON
type GameConfig struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	BoardSize   int      `json:"board_size"`
	NumShips    int      `json:"num_ships"`
	Messages    Messages `json:"messages"`
}

// GameState represents the complete state of one playthrough
type GameState struct {
	Board          Board       `json:"board"`
	Ships          ShipSet     `json:"-"`
	Size           int         `json:"size"`
	NumShips       int         `json:"num_ships"`
	MaxTurns       int         `json:"max_turns"`
	RemainingTurns int         `json:"remaining_turns"`
	LastGuess      *Coordinate `json:"last_guess,omitempty"`
	Status         GameStatus  `json:"status"`
	Message        string      `json:"message"`
	Hits           int         `json:"hits"`
	Misses         int         `json:"misses"`
	RepeatGuesses  int         `json:"repeat_guesses"`
	ShipsRemaining int         `json:"ships_remaining"`
	ConfigName     string      `json:"config_name"`

	// RevealedShips is only populated once the game is won or lost.
	RevealedShips []Coordinate `json:"revealed_ships,omitempty"`

	GuessHistory []GuessEntry `json:"guess_history"`
	TotalGuesses int          `json:"total_guesses"`
}

// GuessEntry represents a single guess in the game history
type GuessEntry struct {
	Coordinate     Coordinate  `json:"coordinate"`
	Result         GuessResult `json:"result"`
	RemainingTurns int         `json:"remaining_turns"`
	Timestamp      int64       `json:"timestamp"`
	GuessNumber    int         `json:"guess_number"`
}

// GuessOutcome is returned for every processed guess
type GuessOutcome struct {
	Coordinate     Coordinate `json:"coordinate"`
	Hit            bool       `json:"hit"`
	AlreadyGuessed bool       `json:"already_guessed"`
	Status         GameStatus `json:"status"`
	RemainingTurns int        `json:"remaining_turns"`
	Message        string     `json:"message"`
}
