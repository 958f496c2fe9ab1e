// Package config provides preset management for Battleships.
//
// The config package handles:
//   - Loading game presets from JSON files
//   - Preset validation through the engine
//   - Default preset selection
//   - Preset discovery and listing
//
// Configuration Format:
//
// Presets are stored as JSON files in the configs directory. Each preset defines:
//   - name and description
//   - board_size between 4 and 10
//   - num_ships between 1 and board_size squared
//   - optional player messages; missing ones fall back to the built-in texts
//
// Bundled presets:
//   - classic: 8x8 board with 8 ships (the default)
//   - quick: 4x4 board with 2 ships
//   - fleet: 10x10 board with 6 ships
//   - sniper: 10x10 board with a single ship
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("quick")
//	defaultConfig := manager.GetDefault()
//	presets, err := manager.ListConfigs()
//
// When the directory holds no valid preset, the built-in 8x8 game is the default.
package config
