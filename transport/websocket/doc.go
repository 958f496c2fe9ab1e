// Package websocket pushes live Battleships state to browsers.
//
// A central Hub owns every connection. Clients subscribe to one session by
// connecting to /ws?session=abcd; the first frame they receive is the
// current game state, and every accepted guess or reset afterwards produces a
// state_update frame:
//
//	{"session_id": "abcd", "event": "state_update", "game_state": {...}}
//
// Ship positions are never part of a frame until the game is over, when they
// appear as revealed_ships.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	hub.BroadcastToSession(sessionID, state)
//
// Broadcasting never blocks the caller. Updates are queued for the Run loop and
// dropped with a warning if the queue is full; a client whose own buffer is full
// is disconnected. Cancelling the context passed to Run closes every client.
package websocket
