package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/battleships/game/engine"
	"github.com/wricardo/battleships/game/service"
)

// MockSessionManager implements service.SessionManager for testing.
// When layout is set, new sessions use it instead of random placement.
type MockSessionManager struct {
	sessions map[string]*service.Session
	layout   []engine.Coordinate
	mu       sync.Mutex
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id string, config *engine.GameConfig, rng engine.Rand) (*service.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Generate ID if empty (mimics real session manager behavior)
	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}
	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	var eng *engine.GameEngine
	var err error
	if m.layout != nil {
		eng, err = engine.NewEngineWithShips(config, m.layout)
	} else {
		eng, err = engine.NewEngine(config, rng)
	}
	if err != nil {
		return nil, err
	}

	session := &service.Session{
		ID:             id,
		Engine:         eng,
		Config:         eng.GetConfig(),
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}
	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, exists := m.sessions[id]
	if !exists {
		return nil, errors.New("session not found")
	}
	return session, nil
}

func (m *MockSessionManager) List() []*service.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[id]; !exists {
		return errors.New("session not found")
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	session, err := m.Get(id)
	if err != nil {
		return err
	}
	session.Lock()
	session.LastAccessedAt = time.Now()
	session.Unlock()
	return nil
}

// vanishingSessionManager deletes every session as soon as it is touched,
// like a cleanup or DELETE landing mid-request
type vanishingSessionManager struct {
	*MockSessionManager
}

func (m *vanishingSessionManager) UpdateLastAccessed(id string) error {
	m.Delete(id)
	return m.MockSessionManager.UpdateLastAccessed(id)
}

// MockConfigManager implements service.ConfigManager for testing
type MockConfigManager struct {
	configs map[string]*engine.GameConfig
}

func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{
		configs: map[string]*engine.GameConfig{
			"test": {
				Name:        "test",
				Description: "Test configuration",
				BoardSize:   5,
				NumShips:    3,
				Messages:    engine.DefaultMessages(),
			},
			"big": {
				Name:        "big",
				Description: "Big board",
				BoardSize:   10,
				NumShips:    20,
				Messages:    engine.DefaultMessages(),
			},
		},
	}
}

func (m *MockConfigManager) LoadConfig(name string) (*engine.GameConfig, error) {
	config, exists := m.configs[name]
	if !exists {
		return nil, service.ErrConfigNotFound
	}
	return config, nil
}

func (m *MockConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	var result []*service.ConfigInfo
	for id, config := range m.configs {
		result = append(result, &service.ConfigInfo{
			Filename:  id + ".json",
			ConfigID:  id,
			Name:      config.Name,
			BoardSize: config.BoardSize,
			NumShips:  config.NumShips,
		})
	}
	return result, nil
}

func (m *MockConfigManager) GetDefault() *engine.GameConfig {
	return m.configs["test"]
}

func (m *MockConfigManager) SaveConfig(name string, config *engine.GameConfig) error {
	m.configs[name] = config
	return nil
}

func newTestService(layout ...engine.Coordinate) (service.GameService, *MockSessionManager) {
	sessionMgr := NewMockSessionManager()
	sessionMgr.layout = layout
	return service.NewGameService(sessionMgr, NewMockConfigManager()), sessionMgr
}

func TestGameService_CreateSession(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	t.Run("default config", func(t *testing.T) {
		info, err := svc.CreateSession(ctx, service.CreateOptions{})
		if err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}
		if info.ID == "" {
			t.Error("Expected session ID")
		}
		if info.ConfigName != "test" {
			t.Errorf("Expected config_name test, got %s", info.ConfigName)
		}
		if info.GameState.Size != 5 || info.GameState.NumShips != 3 {
			t.Errorf("Unexpected game: size %d ships %d", info.GameState.Size, info.GameState.NumShips)
		}
		if info.GameState.Status != engine.StatusInProgress {
			t.Errorf("Expected in_progress, got %s", info.GameState.Status)
		}
	})

	t.Run("named config", func(t *testing.T) {
		info, err := svc.CreateSession(ctx, service.CreateOptions{ConfigID: "big"})
		if err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}
		if info.ConfigName != "big" || info.GameState.Size != 10 {
			t.Errorf("Expected big config, got %s size %d", info.ConfigName, info.GameState.Size)
		}
	})

	t.Run("unknown config", func(t *testing.T) {
		_, err := svc.CreateSession(ctx, service.CreateOptions{ConfigID: "nope"})
		if !errors.Is(err, service.ErrConfigNotFound) {
			t.Fatalf("Expected ErrConfigNotFound, got %v", err)
		}
		if !strings.Contains(err.Error(), "Available configs") {
			t.Errorf("Expected list of available configs, got %v", err)
		}
	})
}

func TestGameService_CreateSessionOverrides(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	tests := []struct {
		name      string
		opts      service.CreateOptions
		wantSize  int
		wantShips int
		wantErr   bool
	}{
		{"size and ships", service.CreateOptions{BoardSize: 6, NumShips: 9}, 6, 9, false},
		{"ships only", service.CreateOptions{NumShips: 1}, 5, 1, false},
		{"size clamps preset ships", service.CreateOptions{ConfigID: "big", BoardSize: 4}, 4, 4, false},
		{"ships above cap", service.CreateOptions{BoardSize: 6, NumShips: 10}, 0, 0, true},
		{"board too large", service.CreateOptions{BoardSize: 11}, 0, 0, true},
		{"board too small", service.CreateOptions{BoardSize: 3}, 0, 0, true},
		{"negative ships", service.CreateOptions{NumShips: -2}, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := svc.CreateSession(ctx, tt.opts)
			if tt.wantErr {
				if !errors.Is(err, engine.ErrInvalidConfiguration) {
					t.Errorf("Expected ErrInvalidConfiguration, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateSession failed: %v", err)
			}
			if info.GameState.Size != tt.wantSize || info.GameState.NumShips != tt.wantShips {
				t.Errorf("Expected %dx%d with %d ships, got size %d ships %d",
					tt.wantSize, tt.wantSize, tt.wantShips, info.GameState.Size, info.GameState.NumShips)
			}
		})
	}

	if cfg, _ := svc.LoadConfig(ctx, "big"); cfg.BoardSize != 10 || cfg.NumShips != 20 {
		t.Error("Overrides must not change the preset")
	}
}

func TestGameService_CreateSessionSeed(t *testing.T) {
	svc, sessionMgr := newTestService()
	ctx := context.Background()

	a, err := svc.CreateSession(ctx, service.CreateOptions{Seed: 7})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	b, err := svc.CreateSession(ctx, service.CreateOptions{Seed: 7})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	sa, _ := sessionMgr.Get(a.ID)
	sb, _ := sessionMgr.Get(b.ID)
	ca, cb := sa.Engine.Ships().Coordinates(), sb.Engine.Ships().Coordinates()
	if fmt.Sprint(ca) != fmt.Sprint(cb) {
		t.Errorf("Same seed produced different layouts: %v vs %v", ca, cb)
	}
}

func TestGameService_Guess(t *testing.T) {
	svc, _ := newTestService(engine.Coordinate{Row: 0, Col: 0}, engine.Coordinate{Row: 4, Col: 4})
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, service.CreateOptions{})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if info.GameState.RemainingTurns != 12 {
		t.Fatalf("Expected 12 turns (25/2), got %d", info.GameState.RemainingTurns)
	}

	t.Run("hit", func(t *testing.T) {
		result, err := svc.Guess(ctx, info.ID, 1, 1)
		if err != nil {
			t.Fatalf("Guess failed: %v", err)
		}
		if !result.Hit || result.AlreadyGuessed {
			t.Errorf("Expected hit, got %+v", result)
		}
		if result.Row != 1 || result.Col != 1 {
			t.Errorf("Expected one-based echo (1,1), got (%d,%d)", result.Row, result.Col)
		}
		if result.GameState.Board[0][0] != engine.Hit {
			t.Errorf("Expected Hit at [0][0], got %s", result.GameState.Board[0][0])
		}
		if len(result.Events) != 1 || result.Events[0].Type != service.EventHit {
			t.Errorf("Expected a single hit event, got %+v", result.Events)
		}
	})

	t.Run("miss", func(t *testing.T) {
		result, err := svc.Guess(ctx, info.ID, 3, 2)
		if err != nil {
			t.Fatalf("Guess failed: %v", err)
		}
		if result.Hit || result.GameState.RemainingTurns != 10 {
			t.Errorf("Expected miss with 10 turns left, got %+v", result)
		}
		if result.Events[0].Type != service.EventMiss {
			t.Errorf("Expected miss event, got %s", result.Events[0].Type)
		}
	})

	t.Run("repeat", func(t *testing.T) {
		result, err := svc.Guess(ctx, info.ID, 3, 2)
		if err != nil {
			t.Fatalf("Guess failed: %v", err)
		}
		if !result.AlreadyGuessed || result.GameState.RemainingTurns != 10 {
			t.Errorf("Expected free repeat, got %+v", result)
		}
		if result.Message != engine.DefaultAlreadyGuessedMessage {
			t.Errorf("Expected repeat message, got %q", result.Message)
		}
	})

	t.Run("out of range", func(t *testing.T) {
		for _, rc := range [][2]int{{0, 1}, {1, 0}, {6, 1}, {1, 6}} {
			_, err := svc.Guess(ctx, info.ID, rc[0], rc[1])
			if !errors.Is(err, engine.ErrOutOfRange) {
				t.Errorf("Expected ErrOutOfRange for %v, got %v", rc, err)
				continue
			}
			if !strings.Contains(err.Error(), "between 1 and 5") {
				t.Errorf("Expected range hint, got %v", err)
			}
		}
	})

	t.Run("win", func(t *testing.T) {
		result, err := svc.Guess(ctx, info.ID, 5, 5)
		if err != nil {
			t.Fatalf("Guess failed: %v", err)
		}
		if result.Status != engine.StatusWon {
			t.Errorf("Expected won, got %s", result.Status)
		}
		if len(result.Events) != 2 || result.Events[1].Type != service.EventVictory {
			t.Errorf("Expected victory event, got %+v", result.Events)
		}
	})

	t.Run("after game over", func(t *testing.T) {
		_, err := svc.Guess(ctx, info.ID, 2, 2)
		if !errors.Is(err, engine.ErrGameOver) {
			t.Errorf("Expected ErrGameOver, got %v", err)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		if _, err := svc.Guess(ctx, "missing", 1, 1); err == nil {
			t.Error("Expected error for unknown session")
		}
	})
}

func TestGameService_GuessLoss(t *testing.T) {
	layout := []engine.Coordinate{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2}, {Row: 0, Col: 3}}
	svc, _ := newTestService(layout...)
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, service.CreateOptions{BoardSize: 4})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	var result *service.GuessResult
	for col := 1; col <= 4; col++ {
		result, err = svc.Guess(ctx, info.ID, 4, col)
		if err != nil {
			t.Fatalf("Guess failed: %v", err)
		}
	}
	if result.Status != engine.StatusLost {
		t.Fatalf("Expected lost, got %s", result.Status)
	}
	if len(result.GameState.RevealedShips) != 4 {
		t.Errorf("Expected revealed ships, got %v", result.GameState.RevealedShips)
	}
	last := result.Events[len(result.Events)-1]
	if last.Type != service.EventGameOver || last.Message != engine.DefaultOutOfTurnsMessage {
		t.Errorf("Expected game over event, got %+v", last)
	}
}

func TestGameService_GetGameState(t *testing.T) {
	svc, _ := newTestService(engine.Coordinate{Row: 2, Col: 2})
	ctx := context.Background()

	info, _ := svc.CreateSession(ctx, service.CreateOptions{})
	state, err := svc.GetGameState(ctx, info.ID)
	if err != nil {
		t.Fatalf("GetGameState failed: %v", err)
	}
	if len(state.RevealedShips) != 0 {
		t.Error("Ships must stay hidden while in progress")
	}

	svc.Guess(ctx, info.ID, 1, 1)
	if state.Board[0][0] != engine.Empty {
		t.Error("Returned state must be a snapshot")
	}

	if _, err := svc.GetGameState(ctx, "missing"); err == nil {
		t.Error("Expected error for unknown session")
	}
}

func TestGameService_GetGuessHistory(t *testing.T) {
	svc, _ := newTestService(engine.Coordinate{Row: 9, Col: 9})
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, service.CreateOptions{BoardSize: 10, NumShips: 1})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	for col := 1; col <= 10; col++ {
		if _, err := svc.Guess(ctx, info.ID, 1, col); err != nil {
			t.Fatalf("Guess failed: %v", err)
		}
	}
	for col := 1; col <= 5; col++ {
		if _, err := svc.Guess(ctx, info.ID, 2, col); err != nil {
			t.Fatalf("Guess failed: %v", err)
		}
	}

	tests := []struct {
		name      string
		opts      service.HistoryOptions
		wantLen   int
		wantFirst int
		wantPages int
		wantNext  bool
		wantPrev  bool
	}{
		{"defaults", service.HistoryOptions{}, 15, 15, 1, false, false},
		{"asc first page", service.HistoryOptions{Page: 1, Limit: 4, Order: "asc"}, 4, 1, 4, true, false},
		{"asc last page", service.HistoryOptions{Page: 4, Limit: 4, Order: "asc"}, 3, 13, 4, false, true},
		{"desc second page", service.HistoryOptions{Page: 2, Limit: 5, Order: "desc"}, 5, 10, 3, true, true},
		{"past the end", service.HistoryOptions{Page: 9, Limit: 5}, 0, 0, 3, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history, err := svc.GetGuessHistory(ctx, info.ID, tt.opts)
			if err != nil {
				t.Fatalf("GetGuessHistory failed: %v", err)
			}
			if history.TotalGuesses != 15 {
				t.Errorf("Expected 15 total guesses, got %d", history.TotalGuesses)
			}
			if len(history.Guesses) != tt.wantLen {
				t.Fatalf("Expected %d guesses, got %d", tt.wantLen, len(history.Guesses))
			}
			if tt.wantLen > 0 && history.Guesses[0].GuessNumber != tt.wantFirst {
				t.Errorf("Expected first guess #%d, got #%d", tt.wantFirst, history.Guesses[0].GuessNumber)
			}
			if history.TotalPages != tt.wantPages {
				t.Errorf("Expected %d pages, got %d", tt.wantPages, history.TotalPages)
			}
			if history.HasNext != tt.wantNext || history.HasPrevious != tt.wantPrev {
				t.Errorf("Expected next=%v prev=%v, got next=%v prev=%v",
					tt.wantNext, tt.wantPrev, history.HasNext, history.HasPrevious)
			}
		})
	}
}

func TestGameService_Reset(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	info, _ := svc.CreateSession(ctx, service.CreateOptions{})
	svc.Guess(ctx, info.ID, 1, 1)
	svc.Guess(ctx, info.ID, 2, 2)

	state, err := svc.Reset(ctx, info.ID)
	if err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if state.RemainingTurns != state.MaxTurns || state.TotalGuesses != 0 {
		t.Errorf("Expected a fresh game, got %d/%d turns and %d guesses",
			state.RemainingTurns, state.MaxTurns, state.TotalGuesses)
	}
	if state.Board.Count(engine.Empty) != 25 {
		t.Error("Expected an empty board after reset")
	}

	if _, err := svc.Reset(ctx, "missing"); err == nil {
		t.Error("Expected error for unknown session")
	}
}

func TestGameService_ListAndDeleteSessions(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	a, _ := svc.CreateSession(ctx, service.CreateOptions{})
	svc.CreateSession(ctx, service.CreateOptions{ConfigID: "big"})

	sessions, err := svc.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Errorf("Expected 2 sessions, got %d", len(sessions))
	}

	if err := svc.DeleteSession(ctx, a.ID); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := svc.GetSession(ctx, a.ID); err == nil {
		t.Error("Expected deleted session to be gone")
	}
	if err := svc.DeleteSession(ctx, a.ID); err == nil {
		t.Error("Expected error deleting a missing session")
	}
}

func TestGameService_ConcurrentGuesses(t *testing.T) {
	svc, _ := newTestService(engine.Coordinate{Row: 9, Col: 9})
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, service.CreateOptions{BoardSize: 10, NumShips: 1})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	var wg sync.WaitGroup
	for row := 1; row <= 5; row++ {
		for col := 1; col <= 10; col++ {
			wg.Add(1)
			go func(row, col int) {
				defer wg.Done()
				// Every cell twice: the second guess of a pair is always free.
				svc.Guess(ctx, info.ID, row, col)
				svc.Guess(ctx, info.ID, row, col)
			}(row, col)
		}
	}
	wg.Wait()

	state, err := svc.GetGameState(ctx, info.ID)
	if err != nil {
		t.Fatalf("GetGameState failed: %v", err)
	}
	if state.RemainingTurns != 50 {
		t.Errorf("Expected 50 turns left, got %d", state.RemainingTurns)
	}
	if state.Misses != 50 || state.RepeatGuesses != 50 {
		t.Errorf("Expected 50 misses and 50 repeats, got %d and %d", state.Misses, state.RepeatGuesses)
	}
}

func TestGameService_Configs(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	configs, err := svc.ListConfigs(ctx)
	if err != nil {
		t.Fatalf("ListConfigs failed: %v", err)
	}
	if len(configs) != 2 {
		t.Errorf("Expected 2 configs, got %d", len(configs))
	}

	custom := &engine.GameConfig{Name: "custom", BoardSize: 7, NumShips: 5}
	if err := svc.SaveConfig(ctx, "custom", custom); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	loaded, err := svc.LoadConfig(ctx, "custom")
	if err != nil || loaded.BoardSize != 7 {
		t.Errorf("Expected saved config, got %+v (%v)", loaded, err)
	}
}

func TestGameService_ReadsRefreshLastAccess(t *testing.T) {
	svc, sessionMgr := newTestService()
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, service.CreateOptions{})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	reads := map[string]func() error{
		"session": func() error { _, err := svc.GetSession(ctx, info.ID); return err },
		"state":   func() error { _, err := svc.GetGameState(ctx, info.ID); return err },
		"history": func() error { _, err := svc.GetGuessHistory(ctx, info.ID, service.HistoryOptions{}); return err },
	}

	for name, read := range reads {
		t.Run(name, func(t *testing.T) {
			sess, _ := sessionMgr.Get(info.ID)
			stale := time.Now().Add(-time.Hour)
			sess.Lock()
			sess.LastAccessedAt = stale
			sess.Unlock()

			if err := read(); err != nil {
				t.Fatalf("read failed: %v", err)
			}

			sess.Lock()
			defer sess.Unlock()
			if !sess.LastAccessedAt.After(stale) {
				t.Errorf("Expected last access to be refreshed, still %v", sess.LastAccessedAt)
			}
		})
	}
}

func TestGameService_SessionDeletedMidRequest(t *testing.T) {
	sessionMgr := &vanishingSessionManager{NewMockSessionManager()}
	svc := service.NewGameService(sessionMgr, NewMockConfigManager())
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, service.CreateOptions{})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if _, err := svc.Guess(ctx, info.ID, 1, 1); err == nil || !strings.Contains(err.Error(), "session not found") {
		t.Errorf("Expected session not found, got %v", err)
	}
	if _, err := sessionMgr.Get(info.ID); err == nil {
		t.Error("Expected session to be gone")
	}
}
