// Package api provides the HTTP REST API for Battleships.
//
// Endpoints:
//
// Sessions:
//   - POST /api/sessions - Create a game; body {config_id, board_size, num_ships, seed}, all optional
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/unified - Sessions side by side (?sessionIds=a,b or ?configName=Classic)
//   - GET /api/sessions/{id} - Session details
//   - DELETE /api/sessions/{id} - End a session
//
// Game:
//   - GET /api/sessions/{id}/state - Current board and counters
//   - POST /api/sessions/{id}/guess - Fire at {row, col}, both one-based
//   - POST /api/sessions/{id}/reset - Same settings, new ship layout
//   - GET /api/sessions/{id}/history - Guess history (?page=1&limit=20&order=desc)
//
// Configuration:
//   - GET /api/configs - List presets
//   - GET /api/configs/{name} - A single preset
//   - POST /api/configs - Save a preset
//
// Other:
//   - GET /ws?session={id} - Live state updates over WebSocket
//   - GET /health - Liveness probe
//
// Errors are returned as {"error": "..."} with 400 for invalid input, 404 for
// unknown sessions or presets, 409 when the game is already over and 500 otherwise.
//
// Every response carries an X-Request-ID header; an incoming one is preserved.
package api
