package service

import (
	"time"

	"github.com/wricardo/subhunter/game/engine"
)

// Event types carried by GameEvent
const (
	EventShot    = "shot"
	EventBoom    = "boom"
	EventNewGame = "new_game"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	Layout         engine.Layout      `json:"layout"`
	GamesWon       int                `json:"games_won"`
	Message        string             `json:"message,omitempty"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// ShotOutcome contains the result of a shot. The embedded ShotResult always
// describes the shot that was fired; GameState is the state after it, which
// is already a fresh game when the shot hit.
type ShotOutcome struct {
	engine.ShotResult
	InBounds  bool              `json:"in_bounds"`
	Message   string            `json:"message"`
	GameState *engine.GameState `json:"game_state"`
	Events    []GameEvent       `json:"events,omitempty"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string       `json:"type"` // "shot", "boom", "new_game"
	Message   string       `json:"message"`
	Timestamp time.Time    `json:"timestamp"`
	Cell      *engine.Cell `json:"cell,omitempty"`
}

// HistoryOptions configures shot history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated shot history
type HistoryResponse struct {
	Shots       []engine.ShotRecord `json:"shots"`
	TotalShots  int                 `json:"total_shots"`
	Page        int                 `json:"page"`
	PageSize    int                 `json:"page_size"`
	TotalPages  int                 `json:"total_pages"`
	HasNext     bool                `json:"has_next"`
	HasPrevious bool                `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	GridWidth   int    `json:"grid_width"`
	GridHeight  int    `json:"grid_height"`
	BlockSize   int    `json:"block_size"`
}
