package engine

import (
	"fmt"
	"time"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	NewGame() *GameState
	GamesWon() int

	// Shots
	Fire(column, row int) ShotResult
	FireAtPixel(x, y float64) ShotResult

	// Configuration
	GetConfig() *GameConfig
	GetLayout() Layout

	// History
	GetHistory() []ShotRecord
	GetLastShot() *ShotRecord

	Debug() DebugInfo
}

// GameEngine implements the Engine interface around a single GameState.
// It is not safe for concurrent use; callers serialize access.
type GameEngine struct {
	state    *GameState
	config   *GameConfig
	layout   Layout
	history  []ShotRecord
	gamesWon int
	now      func() time.Time
}

// NewEngine creates a new game engine with the provided configuration.
// A nil rng uses DefaultRandomSource.
func NewEngine(config *GameConfig, rng RandomSource) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	layout, err := config.Resolve()
	if err != nil {
		return nil, err
	}

	state, err := NewGame(layout.GridWidth, layout.GridHeight, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}

	return &GameEngine{
		state:   state,
		config:  config,
		layout:  layout,
		history: []ShotRecord{},
		now:     time.Now,
	}, nil
}

// NewEngineWithDefaults creates a new game engine on the classic board
func NewEngineWithDefaults(rng RandomSource) *GameEngine {
	eng, err := NewEngine(DefaultConfig(), rng)
	if err != nil {
		// DefaultConfig is static and always valid
		panic(err)
	}
	return eng
}

// GetState returns the current game state
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// NewGame abandons the current game and places a new target. History is kept.
func (e *GameEngine) NewGame() *GameState {
	e.state.reset()
	return e.state
}

// GamesWon returns how many games ended with a hit
func (e *GameEngine) GamesWon() int {
	return e.gamesWon
}

// Fire processes a shot at a grid cell
func (e *GameEngine) Fire(column, row int) ShotResult {
	game := e.state.GameNumber
	result := ProcessShot(e.state, column, row)
	if result.Hit {
		e.gamesWon++
	}

	e.history = append(e.history, ShotRecord{
		Game:       game,
		ShotNumber: result.ShotsTaken,
		Shot:       result.Shot,
		Hit:        result.Hit,
		Distance:   result.Distance,
		InBounds:   result.Shot.InBounds(e.layout.GridWidth, e.layout.GridHeight),
		Timestamp:  e.now().Unix(),
	})
	if len(e.history) > MaxHistory {
		e.history = e.history[len(e.history)-MaxHistory:]
	}

	return result
}

// FireAtPixel converts a touch position with the board's block size and fires
func (e *GameEngine) FireAtPixel(x, y float64) ShotResult {
	cell := CellFromPixel(x, y, e.layout.BlockSize)
	return e.Fire(cell.Column, cell.Row)
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// GetLayout returns the resolved board geometry
func (e *GameEngine) GetLayout() Layout {
	return e.layout
}

// GetHistory returns the shot history across all games of this engine
func (e *GameEngine) GetHistory() []ShotRecord {
	return e.history
}

// GetLastShot returns the last shot fired, or nil if no shots
func (e *GameEngine) GetLastShot() *ShotRecord {
	if len(e.history) == 0 {
		return nil
	}
	return &e.history[len(e.history)-1]
}

// Debug returns the values shown by the debugging overlay
func (e *GameEngine) Debug() DebugInfo {
	pixelWidth, pixelHeight := e.config.PixelWidth, e.config.PixelHeight
	if pixelWidth == 0 {
		pixelWidth = e.layout.GridWidth * e.layout.BlockSize
	}
	if pixelHeight == 0 {
		pixelHeight = e.layout.GridHeight * e.layout.BlockSize
	}

	return DebugInfo{
		PixelWidth:   pixelWidth,
		PixelHeight:  pixelHeight,
		BlockSize:    e.layout.BlockSize,
		GridWidth:    e.layout.GridWidth,
		GridHeight:   e.layout.GridHeight,
		LastShot:     e.state.LastShot,
		Target:       e.state.Target(),
		Hit:          e.state.LastShotHit,
		ShotsTaken:   e.state.ShotsTaken,
		LastDistance: e.state.LastDistance,
		GameNumber:   e.state.GameNumber,
		GamesWon:     e.gamesWon,
	}
}

// Message formats the player-facing line for a shot result
func (e *GameEngine) Message(result ShotResult) string {
	text := e.config.Text()
	if result.Hit {
		return fmt.Sprintf(text.Hit, result.ShotsTaken)
	}
	return fmt.Sprintf(text.Miss, result.ShotsTaken, result.Distance)
}
