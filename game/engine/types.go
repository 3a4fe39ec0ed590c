package engine

const (
	// Validation constants
	MinGridSize      = 1
	MaxGridSize      = 200
	DefaultGridWidth = 40
	DefaultBlockSize = 40
	MaxHistory       = 1000
)

// Cell is a grid coordinate. Column grows to the right, Row grows downwards.
type Cell struct {
	Column int `json:"column"`
	Row    int `json:"row"`
}

// InBounds reports whether the cell lies on a width x height grid.
func (c Cell) InBounds(width, height int) bool {
	return c.Column >= 0 && c.Column < width && c.Row >= 0 && c.Row < height
}

// Layout is the resolved geometry of a board
type Layout struct {
	BlockSize  int `json:"block_size"`
	GridWidth  int `json:"grid_width"`
	GridHeight int `json:"grid_height"`
}

// GameState is the complete state of one game. The target cell is kept
// unexported so it never leaves the engine through a serialized view.
type GameState struct {
	Width        int   `json:"width"`
	Height       int   `json:"height"`
	ShotsTaken   int   `json:"shots_taken"`
	LastShot     *Cell `json:"last_shot"`
	LastShotHit  bool  `json:"last_shot_hit"`
	LastDistance int   `json:"last_distance"`
	GameNumber   int   `json:"game_number"`

	target Cell
	rng    RandomSource
}

// Target returns the hidden cell. Only the debug overlay should call it.
func (s *GameState) Target() Cell {
	return s.target
}

// Snapshot returns a copy that later shots do not modify
func (s *GameState) Snapshot() *GameState {
	c := *s
	if s.LastShot != nil {
		shot := *s.LastShot
		c.LastShot = &shot
	}
	return &c
}

// ShotResult is the outcome of a single processed shot
type ShotResult struct {
	Shot       Cell `json:"shot"`
	Hit        bool `json:"hit"`
	Distance   int  `json:"distance"`
	ShotsTaken int  `json:"shots_taken"`

	// NewGame is set when the shot hit and the engine started a fresh game.
	NewGame bool `json:"new_game"`
}

// ShotRecord represents a single shot in the engine history
type ShotRecord struct {
	Game       int   `json:"game"`
	ShotNumber int   `json:"shot_number"`
	Shot       Cell  `json:"shot"`
	Hit        bool  `json:"hit"`
	Distance   int   `json:"distance"`
	InBounds   bool  `json:"in_bounds"`
	Timestamp  int64 `json:"timestamp"`
}

// DebugInfo mirrors the on-screen debugging overlay: every sizing input and
// every piece of engine state, target included.
type DebugInfo struct {
	PixelWidth   int   `json:"pixel_width"`
	PixelHeight  int   `json:"pixel_height"`
	BlockSize    int   `json:"block_size"`
	GridWidth    int   `json:"grid_width"`
	GridHeight   int   `json:"grid_height"`
	LastShot     *Cell `json:"last_shot"`
	Target       Cell  `json:"target"`
	Hit          bool  `json:"hit"`
	ShotsTaken   int   `json:"shots_taken"`
	LastDistance int   `json:"last_distance"`
	GameNumber   int   `json:"game_number"`
	GamesWon     int   `json:"games_won"`
}
