// Package mcp exposes Battleships to AI agents over the Model Context Protocol.
//
// The Client is a thin proxy: every tool call becomes a request against the
// REST API, and the JSON answer is turned into plain text with the board drawn
// by engine.RenderBoard.
//
// Tools:
//   - create_session: new game with optional preset, board size, ship count and seed
//   - list_sessions, get_session: session overview
//   - game_state: board, turns and ships remaining
//   - guess: fire at a one-based row and column
//   - describe_cell: what is known about a single cell
//   - reset_game: new layout, same settings
//   - guess_history: paginated past guesses
//   - list_configs: available presets
//   - game_instructions: rules and board legend
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
//
// The same MCPServer can be mounted over HTTP with server.NewStreamableHTTPServer.
package mcp
