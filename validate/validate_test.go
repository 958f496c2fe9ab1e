package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func hasMessage(messages []string, substr string) bool {
	for _, m := range messages {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

func TestValidateConfig_ValidConfig(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "test.json", `{
		"name": "Test Config",
		"description": "Test configuration",
		"board_size": 6,
		"num_ships": 4,
		"messages": {
			"welcome": "Welcome!",
			"hit": "Hit!",
			"miss": "Miss!",
			"already_guessed": "Again?",
			"victory": "Victory!",
			"out_of_turns": "Out of turns!"
		}
	}`)

	result := validateConfig(path)
	if !result.Valid {
		t.Fatalf("Expected valid config, but got errors: %v", result.Errors)
	}
	if result.File != "test.json" {
		t.Errorf("Expected file name test.json, got %s", result.File)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", result.Warnings)
	}
	if !hasMessage(result.Info, "Turns: 9") {
		t.Errorf("Expected 9 turns for 6x6 with 4 ships, got %v", result.Info)
	}
	if hasMessage(result.Info, "Default messages") {
		t.Errorf("All messages were given, got %v", result.Info)
	}
}

func TestValidateConfig_MissingFile(t *testing.T) {
	result := validateConfig(filepath.Join(t.TempDir(), "missing.json"))
	if result.Valid {
		t.Error("Expected invalid result for missing file")
	}
	if !hasMessage(result.Errors, "Failed to read file") {
		t.Errorf("Expected read error, got %v", result.Errors)
	}
}

func TestValidateConfig_InvalidJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed", `{"name": "test", invalid json}`},
		{"unknown field", `{"name": "test", "board_size": 4, "num_ships": 1, "grid_size": 4}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateConfig(writeConfig(t, t.TempDir(), "bad.json", tt.content))
			if result.Valid {
				t.Error("Expected invalid result")
			}
			if !hasMessage(result.Errors, "Invalid JSON") {
				t.Errorf("Expected JSON error, got %v", result.Errors)
			}
		})
	}
}

func TestValidatePreset(t *testing.T) {
	tests := []struct {
		name      string
		preset    Preset
		wantValid bool
		wantError string
	}{
		{
			name:      "valid minimal",
			preset:    Preset{Name: "Min", BoardSize: 4, NumShips: 1},
			wantValid: true,
		},
		{
			name:      "missing name",
			preset:    Preset{BoardSize: 4, NumShips: 1},
			wantError: "name is required",
		},
		{
			name:      "board too small",
			preset:    Preset{Name: "Small", BoardSize: 3, NumShips: 1},
			wantError: "board_size must be between 4 and 10",
		},
		{
			name:      "board too large",
			preset:    Preset{Name: "Large", BoardSize: 11, NumShips: 1},
			wantError: "board_size must be between 4 and 10",
		},
		{
			name:      "no ships",
			preset:    Preset{Name: "Empty", BoardSize: 5, NumShips: 0},
			wantError: "num_ships must be at least 1",
		},
		{
			name:      "above cap",
			preset:    Preset{Name: "Crowded", BoardSize: 4, NumShips: 5},
			wantError: "exceeds the cap of 4",
		},
		{
			name:      "unknown message",
			preset:    Preset{Name: "Msg", BoardSize: 4, NumShips: 1, Messages: map[string]string{"park_visited": "x"}},
			wantError: "Unknown message key: park_visited",
		},
		{
			name:      "empty message",
			preset:    Preset{Name: "Msg", BoardSize: 4, NumShips: 1, Messages: map[string]string{"hit": " "}},
			wantError: "Message hit is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidationResult{Valid: true}
			validatePreset(tt.preset, &result)

			if result.Valid != tt.wantValid {
				t.Errorf("Valid = %v, want %v (errors: %v)", result.Valid, tt.wantValid, result.Errors)
			}
			if tt.wantError != "" && !hasMessage(result.Errors, tt.wantError) {
				t.Errorf("Expected error containing %q, got %v", tt.wantError, result.Errors)
			}
		})
	}
}

func TestValidatePreset_DefaultMessages(t *testing.T) {
	result := ValidationResult{Valid: true}
	validatePreset(Preset{Name: "Quick", BoardSize: 4, NumShips: 2, Messages: map[string]string{"welcome": "Hi"}}, &result)

	if !result.Valid {
		t.Fatalf("Expected valid preset, got %v", result.Errors)
	}
	if !hasMessage(result.Info, "Default messages: hit, miss, already_guessed, victory, out_of_turns") {
		t.Errorf("Expected default message listing, got %v", result.Info)
	}
}

func TestCheckPlayability(t *testing.T) {
	tests := []struct {
		name       string
		preset     Preset
		wantWarned bool
	}{
		{"sparse", Preset{Name: "Sniper", BoardSize: 10, NumShips: 1}, false},
		{"ships equal board size", Preset{Name: "Even", BoardSize: 8, NumShips: 8}, false},
		{"more ships than turns", Preset{Name: "Armada", BoardSize: 10, NumShips: 25}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidationResult{Valid: true}
			checkPlayability(tt.preset, &result)

			if !result.Valid {
				t.Fatalf("Expected placement to succeed, got %v", result.Errors)
			}
			if warned := hasMessage(result.Warnings, "Unwinnable"); warned != tt.wantWarned {
				t.Errorf("Unwinnable warning = %v, want %v (%v)", warned, tt.wantWarned, result.Warnings)
			}
		})
	}
}

func TestValidateDir(t *testing.T) {
	t.Run("project presets", func(t *testing.T) {
		results, err := validateDir("../configs")
		if err != nil {
			t.Fatalf("validateDir() error = %v", err)
		}
		if len(results) == 0 {
			t.Fatal("Expected at least one preset")
		}
		for _, result := range results {
			if !result.Valid {
				t.Errorf("%s is invalid: %v", result.File, result.Errors)
			}
			if hasMessage(result.Warnings, "Unwinnable") {
				t.Errorf("%s cannot be won: %v", result.File, result.Warnings)
			}
		}
	})

	t.Run("empty directory", func(t *testing.T) {
		if _, err := validateDir(t.TempDir()); err == nil {
			t.Error("Expected error for directory without presets")
		}
	})

	t.Run("mixed", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "good.json", `{"name": "Good", "board_size": 5, "num_ships": 3}`)
		writeConfig(t, dir, "bad.json", `{"name": "Bad", "board_size": 5, "num_ships": 30}`)

		results, err := validateDir(dir)
		if err != nil {
			t.Fatalf("validateDir() error = %v", err)
		}
		valid := map[string]bool{}
		for _, r := range results {
			valid[r.File] = r.Valid
		}
		if !valid["good.json"] || valid["bad.json"] {
			t.Errorf("unexpected results: %v", valid)
		}
	})
}
