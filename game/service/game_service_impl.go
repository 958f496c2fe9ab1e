package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/battleships/game/engine"
)

// ErrConfigNotFound is returned when a named preset does not exist
var ErrConfigNotFound = errors.New("configuration not found")

// gameServiceImpl implements the GameService interface.
// It holds no lock of its own: session storage is guarded by the SessionManager
// and every game mutation by the lock of the session it touches.
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, opts CreateOptions) (*SessionInfo, error) {
	base, err := s.resolveConfig(opts.ConfigID)
	if err != nil {
		return nil, err
	}

	config, err := applyOverrides(base, opts)
	if err != nil {
		return nil, err
	}

	var rng engine.Rand
	if opts.Seed != 0 {
		rng = engine.NewSeededRand(opts.Seed)
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", config, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := opts.ConfigID
	if configID == "" {
		configID = s.getConfigID(base.Name)
	}

	log.Info().
		Str("session_id", sess.ID).
		Str("config", configID).
		Int("board_size", config.BoardSize).
		Int("num_ships", config.NumShips).
		Msg("session created")

	sess.Lock()
	defer sess.Unlock()
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID, // Return the config_id, not the display name
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState().Clone(),
		GameConfig:     sess.Config,
	}, nil
}

// resolveConfig loads a preset by ID, or the default preset when id is empty
func (s *gameServiceImpl) resolveConfig(id string) (*engine.GameConfig, error) {
	if id == "" {
		return s.configs.GetDefault(), nil
	}

	config, err := s.configs.LoadConfig(id)
	if err == nil {
		return config, nil
	}
	if !errors.Is(err, ErrConfigNotFound) {
		return nil, fmt.Errorf("failed to load config %s: %w", id, err)
	}

	// Provide helpful error message with available options
	availableConfigs, listErr := s.configs.ListConfigs()
	if listErr == nil && len(availableConfigs) > 0 {
		var configIDs []string
		for _, cfg := range availableConfigs {
			configIDs = append(configIDs, cfg.ConfigID)
		}
		return nil, fmt.Errorf("%w: '%s'. Available configs: %v", ErrConfigNotFound, id, configIDs)
	}
	return nil, fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", ErrConfigNotFound, id)
}

// applyOverrides copies base and applies explicit board size and ship count.
// Explicit ship counts are held to the recommended cap for the board.
func applyOverrides(base *engine.GameConfig, opts CreateOptions) (*engine.GameConfig, error) {
	config := *base

	if opts.BoardSize != 0 {
		if opts.BoardSize < engine.MinBoardSize || opts.BoardSize > engine.MaxBoardSize {
			return nil, fmt.Errorf("%w: board size must be between %d and %d",
				engine.ErrInvalidConfiguration, engine.MinBoardSize, engine.MaxBoardSize)
		}
		config.BoardSize = opts.BoardSize
		if opts.NumShips == 0 && config.NumShips > engine.RecommendedMaxShips(config.BoardSize) {
			config.NumShips = engine.RecommendedMaxShips(config.BoardSize)
		}
	}

	if opts.NumShips != 0 {
		maxShips := engine.RecommendedMaxShips(config.BoardSize)
		if opts.NumShips < engine.MinShips || opts.NumShips > maxShips {
			return nil, fmt.Errorf("%w: number of ships must be between %d and %d",
				engine.ErrInvalidConfiguration, engine.MinShips, maxShips)
		}
		config.NumShips = opts.NumShips
	}

	return &config, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}
	return result, nil
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	sess.Lock()
	defer sess.Unlock()
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     s.getConfigID(sess.Config.Name), // Return config_id consistently
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState().Clone(),
		GameConfig:     sess.Config,
	}
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	log.Info().Str("session_id", sessionID).Msg("session deleted")
	return nil
}

// Guess submits a one-based guess for a session
func (s *gameServiceImpl) Guess(ctx context.Context, sessionID string, row, col int) (*GuessResult, error) {
	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}

	size := sess.Config.BoardSize
	if row < 1 || row > size || col < 1 || col > size {
		return nil, fmt.Errorf("%w: please choose numbers between 1 and %d", engine.ErrOutOfRange, size)
	}

	sess.Lock()
	outcome, err := sess.Engine.Guess(engine.Coordinate{Row: row - 1, Col: col - 1})
	state := sess.Engine.GetState().Clone()
	sess.Unlock()

	if err != nil {
		return nil, fmt.Errorf("guess rejected: %w", err)
	}

	log.Debug().
		Str("session_id", sessionID).
		Int("row", row).
		Int("col", col).
		Bool("hit", outcome.Hit).
		Bool("already_guessed", outcome.AlreadyGuessed).
		Int("turns_left", outcome.RemainingTurns).
		Str("status", string(outcome.Status)).
		Msg("guess")

	return &GuessResult{
		Hit:            outcome.Hit,
		AlreadyGuessed: outcome.AlreadyGuessed,
		Row:            row,
		Col:            col,
		Status:         outcome.Status,
		Message:        outcome.Message,
		GameState:      state,
		Events:         guessEvents(outcome, state, row, col),
	}, nil
}

// guessEvents generates events from a guess outcome
func guessEvents(outcome *engine.GuessOutcome, state *engine.GameState, row, col int) []GameEvent {
	now := time.Now()
	event := GameEvent{Timestamp: now, Row: row, Col: col}

	switch {
	case outcome.AlreadyGuessed:
		event.Type = EventRepeat
		event.Message = fmt.Sprintf("(%d,%d) was already guessed", row, col)
	case outcome.Hit:
		event.Type = EventHit
		event.Message = fmt.Sprintf("Hit at (%d,%d)! %d ship(s) remaining", row, col, state.ShipsRemaining)
	default:
		event.Type = EventMiss
		event.Message = fmt.Sprintf("Miss at (%d,%d). %d turn(s) left", row, col, state.RemainingTurns)
	}
	events := []GameEvent{event}

	switch outcome.Status {
	case engine.StatusWon:
		events = append(events, GameEvent{Type: EventVictory, Message: state.Message, Timestamp: now})
	case engine.StatusLost:
		events = append(events, GameEvent{Type: EventGameOver, Message: state.Message, Timestamp: now})
	}
	return events
}

// Reset starts a new game in the session with the same settings
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	state, err := sess.Engine.Reset()
	if err == nil {
		state = state.Clone()
	}
	sess.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to reset session: %w", err)
	}

	log.Info().Str("session_id", sessionID).Msg("session reset")
	return state, nil
}

// GetGameState retrieves a snapshot of the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()
	return sess.Engine.GetState().Clone(), nil
}

// GetGuessHistory returns paginated guess history
func (s *gameServiceImpl) GetGuessHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	history := append([]engine.GuessEntry(nil), sess.Engine.GetGuessHistory()...)
	sess.Unlock()

	return paginateHistory(history, opts), nil
}

func paginateHistory(history []engine.GuessEntry, opts HistoryOptions) *HistoryResponse {
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := min(start+opts.Limit, total)

	guesses := []engine.GuessEntry{}
	if start < total {
		if opts.Order == "desc" {
			// Most recent first
			for i := total - 1 - start; i >= total-end; i-- {
				guesses = append(guesses, history[i])
			}
		} else {
			guesses = append(guesses, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Guesses:      guesses,
		TotalGuesses: total,
		Page:         opts.Page,
		PageSize:     opts.Limit,
		TotalPages:   totalPages,
		HasNext:      opts.Page < totalPages,
		HasPrevious:  opts.Page > 1,
	}
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// touch refreshes a session's last access time and returns it.
// A session deleted in between is reported as not found.
func (s *gameServiceImpl) touch(sessionID string) (*Session, error) {
	if err := s.sessions.UpdateLastAccessed(sessionID); err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	return sess, nil
}
