// Package render draws Sub Hunter state as plain text for terminals and
// text-only clients such as MCP agents.
package render

import (
	"fmt"
	"strings"

	"github.com/wricardo/subhunter/game/engine"
)

const (
	emptyCell  = '.'
	shotCell   = 'X'
	targetCell = 'S'
)

// Options controls what Board draws
type Options struct {
	// RevealTarget draws the hidden submarine. Only for debugging.
	RevealTarget bool
	// Coordinates adds column and row rulers.
	Coordinates bool
}

// Board draws the grid with the last shot marked, followed by the HUD line
func Board(state *engine.GameState, opts Options) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder

	if opts.Coordinates {
		b.WriteString("    ")
		for x := 0; x < state.Width; x++ {
			b.WriteByte(byte('0' + x%10))
		}
		b.WriteString("\n")
	}

	target := state.Target()
	for y := 0; y < state.Height; y++ {
		if opts.Coordinates {
			fmt.Fprintf(&b, "%3d ", y)
		}
		for x := 0; x < state.Width; x++ {
			cell := engine.Cell{Column: x, Row: y}
			switch {
			case state.LastShot != nil && *state.LastShot == cell:
				b.WriteRune(shotCell)
			case opts.RevealTarget && target == cell:
				b.WriteRune(targetCell)
			default:
				b.WriteRune(emptyCell)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(HUD(state.ShotsTaken, state.LastDistance))
	if state.LastShot != nil && !state.LastShot.InBounds(state.Width, state.Height) {
		fmt.Fprintf(&b, "\nLast shot (%d,%d) landed off the grid", state.LastShot.Column, state.LastShot.Row)
	}
	return b.String()
}

// HUD is the status line shown above the grid
func HUD(shotsTaken, distance int) string {
	return fmt.Sprintf("Shots Taken: %d  Distance: %d", shotsTaken, distance)
}

// Boom is the banner shown when a shot finds the submarine
func Boom(shotsTaken int, restart string) string {
	var b strings.Builder
	b.WriteString("*************\n")
	b.WriteString("*   BOOM!   *\n")
	b.WriteString("*************\n")
	fmt.Fprintf(&b, "Found in %d shots\n", shotsTaken)
	if restart != "" {
		b.WriteString(restart)
	}
	return b.String()
}

// Shot summarizes one shot result on a single line
func Shot(result engine.ShotResult) string {
	if result.Hit {
		return fmt.Sprintf("Shot %d at (%d,%d): HIT", result.ShotsTaken, result.Shot.Column, result.Shot.Row)
	}
	return fmt.Sprintf("Shot %d at (%d,%d): miss, distance %d",
		result.ShotsTaken, result.Shot.Column, result.Shot.Row, result.Distance)
}

// Debug lists every value the engine holds, the target included
func Debug(info engine.DebugInfo) string {
	lastShot := "none"
	if info.LastShot != nil {
		lastShot = fmt.Sprintf("(%d,%d)", info.LastShot.Column, info.LastShot.Row)
	}

	lines := []string{
		fmt.Sprintf("pixel_width = %d", info.PixelWidth),
		fmt.Sprintf("pixel_height = %d", info.PixelHeight),
		fmt.Sprintf("block_size = %d", info.BlockSize),
		fmt.Sprintf("grid_width = %d", info.GridWidth),
		fmt.Sprintf("grid_height = %d", info.GridHeight),
		fmt.Sprintf("last_shot = %s", lastShot),
		fmt.Sprintf("target = (%d,%d)", info.Target.Column, info.Target.Row),
		fmt.Sprintf("hit = %t", info.Hit),
		fmt.Sprintf("shots_taken = %d", info.ShotsTaken),
		fmt.Sprintf("distance = %d", info.LastDistance),
		fmt.Sprintf("game = %d", info.GameNumber),
		fmt.Sprintf("games_won = %d", info.GamesWon),
	}
	return strings.Join(lines, "\n")
}
