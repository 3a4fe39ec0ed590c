package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Messages holds the player-facing text of a configuration. Miss is
// formatted with the shot count and the distance, Hit with the shot count.
type Messages struct {
	Welcome string `json:"welcome"`
	Miss    string `json:"miss"`
	Hit     string `json:"hit"`
	Restart string `json:"restart"`
}

// GameConfig represents a board configuration loaded from JSON.
//
// The grid height is either given directly or derived from a display size
// the way a phone screen is split into square blocks.
type GameConfig struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	GridWidth   int      `json:"grid_width"`
	GridHeight  int      `json:"grid_height,omitempty"`
	PixelWidth  int      `json:"pixel_width,omitempty"`
	PixelHeight int      `json:"pixel_height,omitempty"`
	BlockSize   int      `json:"block_size,omitempty"`
	Messages    Messages `json:"messages"`
}

var defaultMessages = Messages{
	Welcome: "A submarine is hiding somewhere on the grid. Take a shot!",
	Miss:    "Shots Taken: %d  Distance: %d",
	Hit:     "BOOM! Sub found in %d shots",
	Restart: "Take a shot to start again",
}

// DefaultConfig returns the original board: 40 columns on a 1600x920 display.
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Name:        "classic",
		Description: "The original 40-column board on a 1600x920 display",
		GridWidth:   DefaultGridWidth,
		PixelWidth:  1600,
		PixelHeight: 920,
		Messages:    defaultMessages,
	}
}

// Resolve computes the board geometry described by the configuration
func (c *GameConfig) Resolve() (Layout, error) {
	if c.PixelWidth != 0 || c.PixelHeight != 0 {
		layout, err := LayoutFromPixels(c.PixelWidth, c.PixelHeight, c.GridWidth)
		if err != nil {
			return Layout{}, err
		}
		if c.GridHeight != 0 && c.GridHeight != layout.GridHeight {
			return Layout{}, fmt.Errorf("%w: grid_height %d does not match the %d rows derived from %dx%d pixels",
				ErrInvalidConfiguration, c.GridHeight, layout.GridHeight, c.PixelWidth, c.PixelHeight)
		}
		return layout, nil
	}

	if c.GridWidth <= 0 || c.GridHeight <= 0 {
		return Layout{}, fmt.Errorf("%w: grid must be at least 1x1, got %dx%d",
			ErrInvalidConfiguration, c.GridWidth, c.GridHeight)
	}

	blockSize := c.BlockSize
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	return Layout{BlockSize: blockSize, GridWidth: c.GridWidth, GridHeight: c.GridHeight}, nil
}

// Text returns the configured messages with defaults filled in
func (c *GameConfig) Text() Messages {
	m := c.Messages
	if m.Welcome == "" {
		m.Welcome = defaultMessages.Welcome
	}
	if m.Miss == "" {
		m.Miss = defaultMessages.Miss
	}
	if m.Hit == "" {
		m.Hit = defaultMessages.Hit
	}
	if m.Restart == "" {
		m.Restart = defaultMessages.Restart
	}
	return m
}

// ValidateGameConfig validates a game configuration for correctness
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfiguration)
	}
	if config.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidConfiguration)
	}

	if config.GridWidth < MinGridSize || config.GridWidth > MaxGridSize {
		return fmt.Errorf("%w: grid_width must be between %d and %d, got %d",
			ErrInvalidConfiguration, MinGridSize, MaxGridSize, config.GridWidth)
	}

	layout, err := config.Resolve()
	if err != nil {
		return err
	}
	if layout.GridHeight > MaxGridSize {
		return fmt.Errorf("%w: grid height must be at most %d, got %d",
			ErrInvalidConfiguration, MaxGridSize, layout.GridHeight)
	}

	// Validate format strings
	if m := config.Messages.Miss; m != "" && strings.Count(m, "%d") != 2 {
		return fmt.Errorf("%w: messages.miss must contain %%d twice (shots, distance)", ErrInvalidConfiguration)
	}
	if m := config.Messages.Hit; m != "" && strings.Count(m, "%d") != 1 {
		return fmt.Errorf("%w: messages.hit must contain %%d once (shots)", ErrInvalidConfiguration)
	}

	return nil
}

// LoadGameConfig loads and validates a game configuration from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", filename, err)
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
