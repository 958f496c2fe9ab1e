// Command validate checks game preset JSON files. It checks:
//   - JSON structure, known fields and required fields
//   - Board size and ship count limits enforced by the engine
//   - The recommended ship cap (a quarter of the board) offered to players
//   - Message keys: unknown keys are errors, missing ones fall back to defaults
//   - Playability: ships can be placed, and whether the turn budget allows a win
//
// Usage: validate [config-dir]   (defaults to ../configs)
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/wricardo/battleships/game/engine"
)

// Preset mirrors the JSON schema for a game preset.
type Preset struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	BoardSize   int               `json:"board_size"`
	NumShips    int               `json:"num_ships"`
	Messages    map[string]string `json:"messages"`
}

// messageKeys are the message keys a preset may override
var messageKeys = []string{
	"welcome",
	"hit",
	"miss",
	"already_guessed",
	"victory",
	"out_of_turns",
}

// placementTrials is how many seeded layouts are generated per preset
const placementTrials = 16

// ValidationResult captures the outcome of validating a single file.
// Errors make the file invalid; Warnings and Info are reported either way.
type ValidationResult struct {
	File     string
	Valid    bool
	Errors   []string
	Warnings []string
	Info     []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) warn(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...interface{}) {
	r.Info = append(r.Info, fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single preset file.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var preset Preset
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&preset); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	validatePreset(preset, &result)
	return result
}

// validatePreset applies every preset rule, appending to result
func validatePreset(preset Preset, result *ValidationResult) {
	if strings.TrimSpace(preset.Name) == "" {
		result.fail("name is required")
	}

	sizeOK := preset.BoardSize >= engine.MinBoardSize && preset.BoardSize <= engine.MaxBoardSize
	if !sizeOK {
		result.fail("board_size must be between %d and %d, got %d", engine.MinBoardSize, engine.MaxBoardSize, preset.BoardSize)
	}

	if sizeOK {
		maxShips := engine.RecommendedMaxShips(preset.BoardSize)
		switch {
		case preset.NumShips < engine.MinShips:
			result.fail("num_ships must be at least %d, got %d", engine.MinShips, preset.NumShips)
		case preset.NumShips > maxShips:
			result.fail("num_ships (%d) exceeds the cap of %d for a %dx%d board", preset.NumShips, maxShips, preset.BoardSize, preset.BoardSize)
		}
	}

	for key, msg := range preset.Messages {
		if !slices.Contains(messageKeys, key) {
			result.fail("Unknown message key: %s", key)
		} else if strings.TrimSpace(msg) == "" {
			result.fail("Message %s is empty", key)
		}
	}
	var defaults []string
	for _, key := range messageKeys {
		if _, ok := preset.Messages[key]; !ok {
			defaults = append(defaults, key)
		}
	}
	if len(defaults) > 0 {
		result.info("Default messages: %s", strings.Join(defaults, ", "))
	}

	if !result.Valid {
		return
	}

	checkPlayability(preset, result)

	maxTurns := engine.MaxTurns(preset.BoardSize, preset.NumShips)
	result.info("✓ Name: %s", preset.Name)
	result.info("✓ Board: %dx%d", preset.BoardSize, preset.BoardSize)
	result.info("✓ Ships: %d (%.0f%% of cells)", preset.NumShips, density(preset)*100)
	result.info("✓ Turns: %d", maxTurns)
}

// checkPlayability places ships with several seeds and checks the turn budget
func checkPlayability(preset Preset, result *ValidationResult) {
	config := &engine.GameConfig{
		Name:      preset.Name,
		BoardSize: preset.BoardSize,
		NumShips:  preset.NumShips,
	}

	for seed := uint64(1); seed <= placementTrials; seed++ {
		eng, err := engine.NewEngine(config, engine.NewSeededRand(seed))
		if err != nil {
			result.fail("Ship placement failed: %v", err)
			return
		}
		if got := eng.Ships().Len(); got != preset.NumShips {
			result.fail("Ship placement produced %d ships, want %d", got, preset.NumShips)
			return
		}
	}

	maxTurns := engine.MaxTurns(preset.BoardSize, preset.NumShips)
	if maxTurns < preset.NumShips {
		result.warn("Unwinnable: %d ships but only %d turns", preset.NumShips, maxTurns)
	}
}

func density(preset Preset) float64 {
	return float64(preset.NumShips) / float64(preset.BoardSize*preset.BoardSize)
}

// validateDir validates every *.json file in dir
func validateDir(dir string) ([]ValidationResult, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("finding config files: %w", err)
	}
	if len(files) == 0 {
		return nil, errors.New("no config files found in " + dir)
	}

	results := make([]ValidationResult, 0, len(files))
	for _, file := range files {
		results = append(results, validateConfig(file))
	}
	return results, nil
}

// main validates each preset in the config directory, printing a concise
// report and exiting with non-zero status if any are invalid.
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	results, err := validateDir(configDir)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	allValid := true
	for _, result := range results {
		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Info {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Println("  ❌ " + err)
			}
		}
		for _, warning := range result.Warnings {
			fmt.Println("  ⚠ " + warning)
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
