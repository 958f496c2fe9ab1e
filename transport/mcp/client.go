package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/battleships/game/engine"
	"github.com/wricardo/battleships/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Battleships",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Battleships - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Sink every hidden ship before you run out of turns. Each ship occupies a single cell.

AVAILABLE TOOLS:
- create_session: Start a new game (optional preset, board size, ship count, seed)
- game_state: Show the board and counters
- guess: Fire at a cell (row and col are 1-based)
- describe_cell: What is known about one cell
- reset_game: New ship layout, same settings
- guess_history: Past guesses
- get_session / list_sessions: Session details
- list_configs: Available presets
- game_instructions: Full rules

Repeat guesses are free: they do not use a turn.`),
	)

	c.registerTools()
}

func sessionIDSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func coordinateSchema(axis string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"minimum":     1,
		"description": fmt.Sprintf("%s number, starting at 1", axis),
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Start a new game session. Without arguments the default preset is used.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config": map[string]interface{}{
					"type":        "string",
					"description": "Preset ID from list_configs (optional)",
				},
				"board_size": map[string]interface{}{
					"type":        "integer",
					"minimum":     engine.MinBoardSize,
					"maximum":     engine.MaxBoardSize,
					"description": "Board size override (optional)",
				},
				"num_ships": map[string]interface{}{
					"type":        "integer",
					"minimum":     engine.MinShips,
					"description": "Ship count override, at most a quarter of the cells (optional)",
				},
				"seed": map[string]interface{}{
					"type":        "integer",
					"description": "Fixes the ship layout for reproducible games (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDSchema()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Show the current board, remaining turns and ships",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDSchema()},
			Required:   []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "guess",
		Description: "Fire at a cell. Rows and columns start at 1.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDSchema(),
				"row":        coordinateSchema("Row"),
				"col":        coordinateSchema("Column"),
			},
			Required: []string{"session_id", "row", "col"},
		},
	}, c.handleGuess)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Report what is known about a single cell",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDSchema(),
				"row":        coordinateSchema("Row"),
				"col":        coordinateSchema("Column"),
			},
			Required: []string{"session_id", "row", "col"},
		},
	}, c.handleDescribeCell)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Start over with a new ship layout and the same settings",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDSchema()},
			Required:   []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "guess_history",
		Description: "List past guesses with pagination",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDSchema(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number (default 1)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Guesses per page (default 20)",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Oldest or newest first (default desc)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGuessHistory)

	// Configuration
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the rules of the game and how to read the board",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func sessionPath(sessionID string, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body := map[string]interface{}{}
	if configID := request.GetString("config", ""); configID != "" {
		body["config_id"] = configID
	}
	if size := request.GetInt("board_size", 0); size != 0 {
		body["board_size"] = size
	}
	if ships := request.GetInt("num_ships", 0); ships != 0 {
		body["num_ships"] = ships
	}
	if seed := request.GetInt("seed", 0); seed > 0 {
		body["seed"] = uint64(seed)
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Created session: %s\n%s", session.ID, formatSessionInfo(&session))), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if response.Count == 0 {
		return mcp.NewToolResultText("No active sessions"), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active sessions (%d):\n", response.Count)
	for _, s := range response.Sessions {
		status, turns := "unknown", 0
		if s.GameState != nil {
			status, turns = string(s.GameState.Status), s.GameState.RemainingTurns
		}
		fmt.Fprintf(&b, "- %s (%s) %s, %d turns left\n", s.ID, s.ConfigName, status, turns)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleGuess(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	row, err := request.RequireInt("row")
	if err != nil {
		return mcp.NewToolResultError("Please enter valid numbers."), nil
	}
	col, err := request.RequireInt("col")
	if err != nil {
		return mcp.NewToolResultError("Please enter valid numbers."), nil
	}

	var result service.GuessResult
	body := map[string]int{"row": row, "col": col}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/guess"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGuessResult(&result)), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	row, err := request.RequireInt("row")
	if err != nil {
		return mcp.NewToolResultError("Please enter valid numbers."), nil
	}
	col, err := request.RequireInt("col")
	if err != nil {
		return mcp.NewToolResultError("Please enter valid numbers."), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cell := engine.Coordinate{Row: row - 1, Col: col - 1}
	if !state.Board.InBounds(cell) {
		return mcp.NewToolResultError(fmt.Sprintf("Cell (%d, %d) is off the board. Please choose numbers between 1 and %d.",
			row, col, state.Board.Size())), nil
	}

	return mcp.NewToolResultText(describeCell(&state, cell)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(response.Message + "\n\n" + formatGameState(response.State)), nil
}

func (c *Client) handleGuessHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	query := url.Values{}
	if page := request.GetInt("page", 0); page > 0 {
		query.Set("page", fmt.Sprint(page))
	}
	if limit := request.GetInt("limit", 0); limit > 0 {
		query.Set("limit", fmt.Sprint(limit))
	}
	if order := request.GetString("order", ""); order != "" {
		query.Set("order", order)
	}

	path := sessionPath(sessionID, "/history")
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(configs) == 0 {
		return mcp.NewToolResultText("No presets available"), nil
	}

	var b strings.Builder
	b.WriteString("Available presets:\n")
	for _, cfg := range configs {
		fmt.Fprintf(&b, "- %s: %s (%dx%d, %d ships, %d turns)", cfg.ConfigID, cfg.Name, cfg.BoardSize, cfg.BoardSize, cfg.NumShips, cfg.MaxTurns)
		if cfg.Description != "" {
			fmt.Fprintf(&b, " - %s", cfg.Description)
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(gameInstructions), nil
}

const gameInstructions = `BATTLESHIPS

SETUP
- The board is a square grid between 4x4 and 10x10.
- Ships are hidden at random. Every ship occupies exactly one cell, so one hit sinks one ship.
- You get max(size*size / ships, size) turns. An 8x8 board with 8 ships gives 8 turns.

PLAYING
- Call guess with a row and a column, both starting at 1.
- A hit or a miss uses one turn.
- Guessing a cell you already tried does not use a turn.
- Coordinates outside the board are rejected and cost nothing.

WINNING AND LOSING
- Sink every ship to win.
- If your turns run out first, the game is lost and the remaining ships are revealed.
- A finished game rejects further guesses; use reset_game to play again with a new layout.

READING THE BOARD
- X   hit
- O   miss
- S   ship (shown only after the game ends)
- [ ] brackets mark your most recent guess
`

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Turns left: %d/%d | Ships remaining: %d/%d | Hits: %d | Misses: %d\n\n",
		state.RemainingTurns, state.MaxTurns, state.ShipsRemaining, state.NumShips, state.Hits, state.Misses)

	b.WriteString(engine.RenderBoard(state, engine.RenderOptions{
		RevealShips:   state.IsTerminal(),
		HighlightLast: true,
	}))

	switch state.Status {
	case engine.StatusWon:
		b.WriteString("\nVICTORY!")
	case engine.StatusLost:
		b.WriteString("\nGAME OVER")
	}

	if state.Message != "" {
		fmt.Fprintf(&b, "\nMessage: %s", state.Message)
	}

	return b.String()
}

func formatGuessResult(result *service.GuessResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Guess (%d, %d): %s\n\n", result.Row, result.Col, result.Message)
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func describeCell(state *engine.GameState, cell engine.Coordinate) string {
	row, col := cell.Row+1, cell.Col+1
	switch state.Board.At(cell) {
	case engine.Hit:
		return fmt.Sprintf("Cell (%d, %d): hit. A ship was sunk here.", row, col)
	case engine.Miss:
		return fmt.Sprintf("Cell (%d, %d): miss. There is no ship here.", row, col)
	}
	for _, ship := range state.RevealedShips {
		if ship == cell {
			return fmt.Sprintf("Cell (%d, %d): never guessed. A ship was hiding here.", row, col)
		}
	}
	if state.IsTerminal() {
		return fmt.Sprintf("Cell (%d, %d): never guessed. It was empty.", row, col)
	}
	return fmt.Sprintf("Cell (%d, %d): not guessed yet.", row, col)
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Guess History (Page %d/%d), Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalGuesses)

	if len(history.Guesses) == 0 {
		b.WriteString("(no guesses yet)\n")
		return b.String()
	}

	for _, entry := range history.Guesses {
		fmt.Fprintf(&b, "%d. (%d, %d) %s [turns left: %d]\n",
			entry.GuessNumber, entry.Coordinate.Row+1, entry.Coordinate.Col+1, entry.Result, entry.RemainingTurns)
	}
	return b.String()
}
