// Package solver plays Sub Hunter from distance feedback alone.
//
// Every miss reports floor(distance) to the submarine, which rules out every
// cell that would have produced a different reading. The solver keeps the
// cells still consistent with all readings and picks its next shot so that
// the largest group of candidates sharing one possible reading is as small
// as possible.
package solver

import (
	"errors"
	"fmt"

	"github.com/wricardo/subhunter/game/engine"
)

var (
	// ErrInconsistent means no cell matches every observed reading
	ErrInconsistent = errors.New("observations are inconsistent")
	// ErrShotLimit means Play gave up before finding the target
	ErrShotLimit = errors.New("shot limit reached")
)

// evalBudget bounds the distance computations spent choosing one shot
const evalBudget = 4_000_000

// Solver narrows down the target cell of a single game
type Solver struct {
	width      int
	height     int
	candidates []engine.Cell
	shots      int
}

// New creates a solver for a width x height grid
func New(width, height int) (*Solver, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: grid must be at least 1x1, got %dx%d", engine.ErrInvalidConfiguration, width, height)
	}

	s := &Solver{
		width:      width,
		height:     height,
		candidates: make([]engine.Cell, 0, width*height),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			s.candidates = append(s.candidates, engine.Cell{Column: x, Row: y})
		}
	}
	return s, nil
}

// Remaining returns how many cells could still hold the target
func (s *Solver) Remaining() int {
	return len(s.candidates)
}

// Candidates returns the cells still consistent with every reading
func (s *Solver) Candidates() []engine.Cell {
	out := make([]engine.Cell, len(s.candidates))
	copy(out, s.candidates)
	return out
}

// Shots returns how many observations were recorded
func (s *Solver) Shots() int {
	return s.shots
}

// Next picks the next cell to fire at
func (s *Solver) Next() engine.Cell {
	if len(s.candidates) == 0 {
		return engine.Cell{Column: s.width / 2, Row: s.height / 2}
	}
	if len(s.candidates) <= 2 {
		return s.candidates[0]
	}

	pool := s.shotPool()
	buckets := make([]int, engine.MaxDistance(s.width, s.height)+1)

	best := pool[0]
	bestWorst := len(s.candidates) + 1
	bestIsCandidate := false

	for _, shot := range pool {
		for i := range buckets {
			buckets[i] = 0
		}
		worst := 0
		isCandidate := false
		for _, c := range s.candidates {
			d := engine.Distance(shot, c)
			if d == 0 {
				isCandidate = true
				continue
			}
			buckets[d]++
			if buckets[d] > worst {
				worst = buckets[d]
			}
		}

		// Prefer shots that could also hit outright
		if worst < bestWorst || (worst == bestWorst && isCandidate && !bestIsCandidate) {
			best, bestWorst, bestIsCandidate = shot, worst, isCandidate
		}
	}

	return best
}

// shotPool lists the cells worth evaluating as the next shot
func (s *Solver) shotPool() []engine.Cell {
	cells := s.width * s.height
	if cells*len(s.candidates) <= evalBudget {
		pool := make([]engine.Cell, 0, cells)
		for y := 0; y < s.height; y++ {
			for x := 0; x < s.width; x++ {
				pool = append(pool, engine.Cell{Column: x, Row: y})
			}
		}
		return pool
	}

	// Large boards: sample the candidates evenly
	size := evalBudget / len(s.candidates)
	if size < 1 {
		size = 1
	}
	stride := len(s.candidates)/size + 1
	pool := make([]engine.Cell, 0, size)
	for i := 0; i < len(s.candidates); i += stride {
		pool = append(pool, s.candidates[i])
	}
	return pool
}

// Observe records the outcome of a shot and discards inconsistent cells
func (s *Solver) Observe(shot engine.Cell, hit bool, distance int) error {
	s.shots++

	if hit {
		s.candidates = []engine.Cell{shot}
		return nil
	}

	kept := s.candidates[:0]
	for _, c := range s.candidates {
		if c != shot && engine.Distance(shot, c) == distance {
			kept = append(kept, c)
		}
	}
	s.candidates = kept

	if len(s.candidates) == 0 {
		return fmt.Errorf("%w: shot (%d,%d) at distance %d", ErrInconsistent, shot.Column, shot.Row, distance)
	}
	return nil
}

// Shooter fires one shot and reports the outcome
type Shooter func(cell engine.Cell) (engine.ShotResult, error)

// Play drives a game through shoot until a hit or maxShots shots.
// It returns every result in order.
func Play(width, height, maxShots int, shoot Shooter) ([]engine.ShotResult, error) {
	s, err := New(width, height)
	if err != nil {
		return nil, err
	}

	var results []engine.ShotResult
	for len(results) < maxShots {
		cell := s.Next()
		result, err := shoot(cell)
		if err != nil {
			return results, err
		}
		results = append(results, result)

		if result.Hit {
			return results, nil
		}
		if err := s.Observe(result.Shot, false, result.Distance); err != nil {
			return results, err
		}
	}

	return results, fmt.Errorf("%w: %d shots", ErrShotLimit, maxShots)
}

// PlayState solves an in-process game state
func PlayState(state *engine.GameState, maxShots int) ([]engine.ShotResult, error) {
	return Play(state.Width, state.Height, maxShots, func(cell engine.Cell) (engine.ShotResult, error) {
		return engine.ProcessShot(state, cell.Column, cell.Row), nil
	})
}
