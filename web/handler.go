package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/battleships/game/engine"
	"github.com/wricardo/battleships/game/service"
)

//go:embed templates/*.html
var templateFS embed.FS

// DefaultCookieTTL bounds how long a browser keeps its game
const DefaultCookieTTL = 24 * time.Hour

// Messages shown for rejected form input
const (
	msgInvalidNumbers = "Please enter valid numbers."
	msgInvalidGuess   = "Invalid input. Please enter numbers for row and column."
)

// Broadcaster receives the state and game events after every guess made through the form
type Broadcaster interface {
	BroadcastToSession(sessionID string, state *engine.GameState)
	BroadcastEvent(sessionID string, event string, data interface{})
}

// Handler serves the HTML form version of the game
type Handler struct {
	service     service.GameService
	secret      []byte
	cookieTTL   time.Duration
	broadcaster Broadcaster
	templates   *template.Template
	mux         *http.ServeMux
}

// Option configures a Handler
type Option func(*Handler)

// WithCookieTTL sets the lifetime of the session cookie
func WithCookieTTL(ttl time.Duration) Option {
	return func(h *Handler) {
		if ttl > 0 {
			h.cookieTTL = ttl
		}
	}
}

// WithBroadcaster pushes form guesses to live viewers
func WithBroadcaster(b Broadcaster) Option {
	return func(h *Handler) { h.broadcaster = b }
}

// NewHandler creates the web handler. The secret signs session cookies and must not be empty.
func NewHandler(gameService service.GameService, secret []byte, opts ...Option) (*Handler, error) {
	if len(secret) == 0 {
		return nil, errors.New("web: secret key is required")
	}

	tmpl, err := template.New("").Funcs(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	h := &Handler{
		service:   gameService,
		secret:    secret,
		cookieTTL: DefaultCookieTTL,
		templates: tmpl,
		mux:       http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(h)
	}

	h.mux.HandleFunc("GET /{$}", h.handleIndex)
	h.mux.HandleFunc("POST /{$}", h.handleNewGame)
	h.mux.HandleFunc("GET /game", h.handleGame)
	h.mux.HandleFunc("POST /game", h.handleGuess)
	return h, nil
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

type indexPage struct {
	Error     string
	Size      string
	Ships     string
	MinSize   int
	MaxSize   int
	SizeHints []sizeHint
}

type sizeHint struct {
	Size     int
	MaxShips int
}

func newIndexPage() indexPage {
	page := indexPage{MinSize: engine.MinBoardSize, MaxSize: engine.MaxBoardSize}
	for size := engine.MinBoardSize; size <= engine.MaxBoardSize; size++ {
		page.SizeHints = append(page.SizeHints, sizeHint{Size: size, MaxShips: engine.RecommendedMaxShips(size)})
	}
	return page
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "index.html", newIndexPage())
}

func (h *Handler) handleNewGame(w http.ResponseWriter, r *http.Request) {
	page := newIndexPage()
	page.Size = r.FormValue("size")
	page.Ships = r.FormValue("ships")

	size, ships, msg := parseSetup(page.Size, page.Ships)
	if msg != "" {
		page.Error = msg
		h.render(w, http.StatusBadRequest, "index.html", page)
		return
	}

	info, err := h.service.CreateSession(r.Context(), service.CreateOptions{BoardSize: size, NumShips: ships})
	if err != nil {
		log.Error().Err(err).Msg("web: failed to create session")
		page.Error = "Could not start a new game. Please try again."
		h.render(w, http.StatusInternalServerError, "index.html", page)
		return
	}

	// Starting over abandons the previous game
	if previous, err := h.sessionFromCookie(r); err == nil && previous != info.ID {
		if err := h.service.DeleteSession(r.Context(), previous); err == nil {
			log.Debug().Str("session_id", previous).Msg("web: previous game discarded")
		}
	}

	if err := h.setSessionCookie(w, r, info.ID); err != nil {
		log.Error().Err(err).Msg("web: failed to set session cookie")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/game", http.StatusSeeOther)
}

// parseSetup validates the new game form. A non-empty message means the input was rejected.
func parseSetup(rawSize, rawShips string) (size, ships int, msg string) {
	size, errSize := strconv.Atoi(strings.TrimSpace(rawSize))
	ships, errShips := strconv.Atoi(strings.TrimSpace(rawShips))
	if errSize != nil || errShips != nil {
		return 0, 0, msgInvalidNumbers
	}
	if size < engine.MinBoardSize || size > engine.MaxBoardSize {
		return 0, 0, fmt.Sprintf("Board size must be between %d and %d.", engine.MinBoardSize, engine.MaxBoardSize)
	}
	maxShips := engine.RecommendedMaxShips(size)
	if ships < engine.MinShips || ships > maxShips {
		return 0, 0, fmt.Sprintf("Number of ships must be between %d and %d.", engine.MinShips, maxShips)
	}
	return size, ships, ""
}

func (h *Handler) handleGame(w http.ResponseWriter, r *http.Request) {
	sessionID, state, ok := h.currentGame(w, r)
	if !ok {
		return
	}
	h.render(w, http.StatusOK, "game.html", newGamePage(sessionID, state, state.Message))
}

func (h *Handler) handleGuess(w http.ResponseWriter, r *http.Request) {
	sessionID, state, ok := h.currentGame(w, r)
	if !ok {
		return
	}

	if state.IsTerminal() {
		h.render(w, http.StatusOK, "game.html", newGamePage(sessionID, state, state.Message))
		return
	}

	row, errRow := strconv.Atoi(strings.TrimSpace(r.FormValue("row")))
	col, errCol := strconv.Atoi(strings.TrimSpace(r.FormValue("col")))
	if errRow != nil || errCol != nil {
		h.render(w, http.StatusBadRequest, "game.html", newGamePage(sessionID, state, msgInvalidGuess))
		return
	}
	if row < 1 || row > state.Size || col < 1 || col > state.Size {
		msg := fmt.Sprintf("Please choose numbers between 1 and %d.", state.Size)
		h.render(w, http.StatusBadRequest, "game.html", newGamePage(sessionID, state, msg))
		return
	}

	result, err := h.service.Guess(r.Context(), sessionID, row, col)
	if err != nil {
		if errors.Is(err, engine.ErrGameOver) {
			h.handleGame(w, r)
			return
		}
		log.Error().Err(err).Str("session_id", sessionID).Msg("web: guess failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if h.broadcaster != nil {
		h.broadcaster.BroadcastToSession(sessionID, result.GameState)
		for _, ev := range result.Events {
			h.broadcaster.BroadcastEvent(sessionID, ev.Type, ev)
		}
	}
	h.render(w, http.StatusOK, "game.html", newGamePage(sessionID, result.GameState, result.Message))
}

// currentGame loads the game named by the cookie, redirecting to the setup form when there is none
func (h *Handler) currentGame(w http.ResponseWriter, r *http.Request) (string, *engine.GameState, bool) {
	sessionID, err := h.sessionFromCookie(r)
	if err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return "", nil, false
	}

	state, err := h.service.GetGameState(r.Context(), sessionID)
	if err != nil {
		log.Debug().Err(err).Str("session_id", sessionID).Msg("web: cookie names an unknown game")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return "", nil, false
	}
	return sessionID, state, true
}

func (h *Handler) render(w http.ResponseWriter, status int, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("web: render failed")
	}
}
