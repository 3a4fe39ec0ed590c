// Command analyze prints quick, human-readable heuristics about board
// configurations in the project's configs directory. It summarizes the
// resolved layout, the largest distance a shot can report, and how many
// shots the solver needs over a sample of hidden positions.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/subhunter/game/engine"
	"github.com/wricardo/subhunter/game/solver"
)

// Analysis summarizes one board configuration
type Analysis struct {
	Name        string
	Layout      engine.Layout
	Cells       int
	MaxDistance int
	Samples     int
	WorstShots  int
	MeanShots   float64
}

// sampleTargets returns up to n cells spread evenly over the grid, every cell
// when the grid is small enough
func sampleTargets(width, height, n int) []engine.Cell {
	cells := width * height
	step := 1
	if n > 0 && cells > n {
		step = cells / n
	}

	var targets []engine.Cell
	for i := 0; i < cells; i += step {
		targets = append(targets, engine.Cell{Column: i % width, Row: i / width})
	}
	return targets
}

// placeAt hides every submarine at target
func placeAt(target engine.Cell) engine.RandomSource {
	calls := 0
	return engine.RandomFunc(func(n int) int {
		calls++
		if calls%2 == 1 {
			return target.Column
		}
		return target.Row
	})
}

// analyzeConfig resolves a configuration and plays the solver against sampled targets
func analyzeConfig(config *engine.GameConfig, samples int) (*Analysis, error) {
	if err := engine.ValidateGameConfig(config); err != nil {
		return nil, err
	}
	layout, err := config.Resolve()
	if err != nil {
		return nil, err
	}

	w, h := layout.GridWidth, layout.GridHeight
	a := &Analysis{
		Name:        config.Name,
		Layout:      layout,
		Cells:       w * h,
		MaxDistance: engine.MaxDistance(w, h),
	}

	total := 0
	for _, target := range sampleTargets(w, h, samples) {
		state, err := engine.NewGame(w, h, placeAt(target))
		if err != nil {
			return nil, err
		}
		results, err := solver.PlayState(state, a.Cells)
		if err != nil {
			return nil, fmt.Errorf("target (%d,%d): %w", target.Column, target.Row, err)
		}

		shots := len(results)
		total += shots
		a.Samples++
		if shots > a.WorstShots {
			a.WorstShots = shots
		}
	}
	if a.Samples > 0 {
		a.MeanShots = float64(total) / float64(a.Samples)
	}

	return a, nil
}

func printAnalysis(out io.Writer, a *Analysis) {
	fmt.Fprintf(out, "Name: %s\n", a.Name)
	fmt.Fprintf(out, "Grid Size: %d x %d (%d cells)\n", a.Layout.GridWidth, a.Layout.GridHeight, a.Cells)
	fmt.Fprintf(out, "Block Size: %dpx\n", a.Layout.BlockSize)
	fmt.Fprintf(out, "Max Distance: %d\n", a.MaxDistance)
	fmt.Fprintf(out, "Solver over %d targets: worst %d shots, mean %.2f\n", a.Samples, a.WorstShots, a.MeanShots)
}

func main() {
	cmd := &cli.Command{
		Name:  "analyze",
		Usage: "summarize Sub Hunter board configurations",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Value: "configs", Usage: "configuration directory"},
			&cli.IntFlag{Name: "samples", Value: 100, Usage: "hidden positions tried per board"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			files, err := filepath.Glob(filepath.Join(cmd.String("dir"), "*.json"))
			if err != nil {
				return err
			}

			for _, file := range files {
				fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(file))

				config, err := engine.LoadGameConfig(file)
				if err != nil {
					fmt.Printf("Error: %v\n", err)
					continue
				}

				a, err := analyzeConfig(config, cmd.Int("samples"))
				if err != nil {
					fmt.Printf("Error: %v\n", err)
					continue
				}
				printAnalysis(os.Stdout, a)
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
