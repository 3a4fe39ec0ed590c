package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is returned when a grid cannot be built from the
// supplied dimensions.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// NewGame places a target uniformly at random on a width x height grid and
// returns a fresh state awaiting its first shot. A nil rng uses
// DefaultRandomSource.
func NewGame(width, height int, rng RandomSource) (*GameState, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: grid must be at least 1x1, got %dx%d", ErrInvalidConfiguration, width, height)
	}
	if rng == nil {
		rng = DefaultRandomSource()
	}

	state := &GameState{
		Width:  width,
		Height: height,
		rng:    rng,
	}
	state.reset()
	return state, nil
}

// reset starts the next game on the same grid with the same source
func (s *GameState) reset() {
	// Column is drawn before row; seeded tests depend on the order.
	s.target = Cell{
		Column: draw(s.rng, s.Width),
		Row:    draw(s.rng, s.Height),
	}
	s.ShotsTaken = 0
	s.LastShot = nil
	s.LastShotHit = false
	s.LastDistance = 0
	s.GameNumber++
}

// ProcessShot scores a shot at (column, row) against the current target.
// Coordinates are not bounds-checked: a shot off the grid is counted and its
// distance computed like any other. When the shot hits, the state is
// re-initialized in place and the returned result still describes the hit.
func ProcessShot(state *GameState, column, row int) ShotResult {
	shot := Cell{Column: column, Row: row}

	state.ShotsTaken++
	state.LastShot = &shot
	state.LastShotHit = shot == state.target
	state.LastDistance = Distance(shot, state.target)

	result := ShotResult{
		Shot:       shot,
		Hit:        state.LastShotHit,
		Distance:   state.LastDistance,
		ShotsTaken: state.ShotsTaken,
	}

	if result.Hit {
		state.reset()
		result.NewGame = true
	}

	return result
}
