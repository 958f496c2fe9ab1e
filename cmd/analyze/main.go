// Command analyze prints quick, human-readable heuristics about the game
// presets in the project's configs directory. It summarizes board size,
// ship density and turn budget, flags presets above the recommended ship
// cap or with fewer turns than ships, and plays simulated games with a
// random non-repeating guesser to estimate how often they can be won.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/battleships/game/config"
	"github.com/wricardo/battleships/game/engine"
)

// Analysis summarizes one preset
type Analysis struct {
	ConfigID       string
	Name           string
	BoardSize      int
	NumShips       int
	MaxTurns       int
	RecommendedMax int
	Games          int
	Wins           int
	TotalHits      int
}

// Density is the share of cells holding a ship
func (a Analysis) Density() float64 {
	return float64(a.NumShips) / float64(a.BoardSize*a.BoardSize)
}

// WithinCap reports whether the preset respects the recommended ship cap
func (a Analysis) WithinCap() bool {
	return a.NumShips <= a.RecommendedMax
}

// Winnable reports whether the turn budget is enough to hit every ship
func (a Analysis) Winnable() bool {
	return a.MaxTurns >= a.NumShips
}

// WinRate is the fraction of simulated games that were won
func (a Analysis) WinRate() float64 {
	if a.Games == 0 {
		return 0
	}
	return float64(a.Wins) / float64(a.Games)
}

// AvgHits is the mean number of ships sunk per simulated game
func (a Analysis) AvgHits() float64 {
	if a.Games == 0 {
		return 0
	}
	return float64(a.TotalHits) / float64(a.Games)
}

func main() {
	cmd := &cli.Command{
		Name:  "analyze",
		Usage: "print heuristics about game presets",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-dir", Value: "configs", Usage: "directory containing game presets"},
			&cli.IntFlag{Name: "games", Value: 1000, Usage: "simulated games per preset"},
			&cli.Uint64Flag{Name: "seed", Value: 1, Usage: "seed for the simulations"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(os.Stdout, cmd.String("config-dir"), int(cmd.Int("games")), cmd.Uint64("seed"))
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(w io.Writer, configDir string, games int, seed uint64) error {
	manager, err := config.NewManager(configDir)
	if err != nil {
		return err
	}
	presets, err := manager.ListConfigs()
	if err != nil {
		return err
	}

	for _, preset := range presets {
		fmt.Fprintf(w, "\n=== Analyzing %s ===\n", preset.Filename)

		cfg, err := manager.LoadConfig(preset.ConfigID)
		if err != nil {
			fmt.Fprintf(w, "Error loading preset: %v\n", err)
			continue
		}
		analysis, err := analyzePreset(preset.ConfigID, cfg, games, seed)
		if err != nil {
			fmt.Fprintf(w, "Error simulating preset: %v\n", err)
			continue
		}
		printAnalysis(w, analysis)
	}
	return nil
}

// analyzePreset gathers static numbers and plays games simulated games
func analyzePreset(id string, cfg *engine.GameConfig, games int, seed uint64) (Analysis, error) {
	a := Analysis{
		ConfigID:       id,
		Name:           cfg.Name,
		BoardSize:      cfg.BoardSize,
		NumShips:       cfg.NumShips,
		MaxTurns:       engine.MaxTurns(cfg.BoardSize, cfg.NumShips),
		RecommendedMax: engine.RecommendedMaxShips(cfg.BoardSize),
	}

	rng := engine.NewSeededRand(seed)
	for i := 0; i < games; i++ {
		state, err := simulate(cfg, rng)
		if err != nil {
			return a, err
		}
		a.Games++
		a.TotalHits += state.Hits
		if state.Status == engine.StatusWon {
			a.Wins++
		}
	}
	return a, nil
}

// simulate plays one game, guessing cells in a random order without repeats
func simulate(cfg *engine.GameConfig, rng engine.Rand) (*engine.GameState, error) {
	game, err := engine.NewEngine(cfg, rng)
	if err != nil {
		return nil, err
	}

	cells := make([]engine.Coordinate, 0, cfg.BoardSize*cfg.BoardSize)
	for row := 0; row < cfg.BoardSize; row++ {
		for col := 0; col < cfg.BoardSize; col++ {
			cells = append(cells, engine.Coordinate{Row: row, Col: col})
		}
	}
	for i := len(cells) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		cells[i], cells[j] = cells[j], cells[i]
	}

	for _, c := range cells {
		if game.IsGameOver() {
			break
		}
		if _, err := game.Guess(c); err != nil {
			return nil, err
		}
	}
	return game.GetState(), nil
}

func printAnalysis(w io.Writer, a Analysis) {
	fmt.Fprintf(w, "Name: %s\n", a.Name)
	fmt.Fprintf(w, "Board: %d x %d\n", a.BoardSize, a.BoardSize)
	fmt.Fprintf(w, "Ships: %d (%.1f%% of cells)\n", a.NumShips, a.Density()*100)
	fmt.Fprintf(w, "Turns: %d\n", a.MaxTurns)

	if a.WithinCap() {
		fmt.Fprintf(w, "✅ Within the recommended cap of %d ships\n", a.RecommendedMax)
	} else {
		fmt.Fprintf(w, "⚠️  WARNING: %d ships exceeds the recommended cap of %d\n", a.NumShips, a.RecommendedMax)
	}

	if !a.Winnable() {
		fmt.Fprintf(w, "⚠️  CRITICAL: only %d turns for %d ships, the game cannot be won\n", a.MaxTurns, a.NumShips)
	}

	if a.Games > 0 {
		fmt.Fprintf(w, "Random play: won %.1f%% of %d games, %.2f ships sunk on average\n",
			a.WinRate()*100, a.Games, a.AvgHits())
	}
}
