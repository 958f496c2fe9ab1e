// Package service provides the business logic layer for Battleships.
//
// The service package implements:
//   - Multi-session game management
//   - Preset loading and per-game overrides of board size and ship count
//   - One-based guess validation before the engine is called
//   - Guess history pagination
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages game configuration loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP/web form)
// and the game engine. Each session owns its own engine instance and a lock;
// every read or write of a session's game happens under that lock, so guesses
// for one session are applied one at a time while other sessions proceed.
// States handed back to callers are snapshots and safe to encode after return.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, service.CreateOptions{ConfigID: "classic"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Guess(ctx, info.ID, 3, 4)
package service
