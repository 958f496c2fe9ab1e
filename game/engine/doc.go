// Package engine provides the core game logic for Battleships.
//
// The engine package implements the game mechanics including:
//   - Square board allocation (4x4 up to 10x10) with Empty/Hit/Miss cells
//   - Random single-cell ship placement without replacement
//   - Guess resolution with free, idempotent repeat guesses
//   - Turn budget accounting and win/loss determination
//   - Game configuration validation
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. GameState holds one playthrough: the Board,
// the ShipSet of undiscovered ships, the remaining turn budget and the last
// guess. GameConfig defines board size, ship count and player messages.
//
// Coordinates are zero-based everywhere in this package. Callers that talk
// to players convert one-based input before calling in.
//
// Usage:
//
//	config := engine.DefaultGameConfig()
//	config.BoardSize = 6
//	config.NumShips = 4
//
//	gameEngine, err := engine.NewEngine(config, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	outcome, err := gameEngine.Guess(engine.Coordinate{Row: 2, Col: 3})
//	state := gameEngine.GetState()
//
// Game Rules:
//
// The player starts with max(size*size/ships, size) turns. Every guess at a
// cell that has not been guessed before costs one turn; guessing the same
// cell again costs nothing and changes nothing. The game is won the moment
// the last ship is hit and lost when the turns run out with ships left.
// Both outcomes are final: further guesses return ErrGameOver.
//
// The engine performs no I/O and keeps no package-level state. Each
// GameEngine is owned by a single caller; concurrent use must be serialized
// by the caller.
package engine
