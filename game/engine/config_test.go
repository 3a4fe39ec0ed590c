package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	if err := ValidateGameConfig(config); err != nil {
		t.Fatalf("Default config should be valid: %v", err)
	}

	layout, err := config.Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if layout != (Layout{BlockSize: 40, GridWidth: 40, GridHeight: 23}) {
		t.Errorf("Unexpected default layout %+v", layout)
	}
}

func TestGameConfigResolve(t *testing.T) {
	tests := []struct {
		name    string
		config  GameConfig
		want    Layout
		wantErr bool
	}{
		{
			name:   "direct grid",
			config: GameConfig{GridWidth: 10, GridHeight: 6},
			want:   Layout{BlockSize: DefaultBlockSize, GridWidth: 10, GridHeight: 6},
		},
		{
			name:   "direct grid with block size",
			config: GameConfig{GridWidth: 10, GridHeight: 6, BlockSize: 32},
			want:   Layout{BlockSize: 32, GridWidth: 10, GridHeight: 6},
		},
		{
			name:   "from pixels",
			config: GameConfig{GridWidth: 40, PixelWidth: 1600, PixelHeight: 920},
			want:   Layout{BlockSize: 40, GridWidth: 40, GridHeight: 23},
		},
		{
			name:   "from pixels with matching height",
			config: GameConfig{GridWidth: 40, GridHeight: 23, PixelWidth: 1600, PixelHeight: 920},
			want:   Layout{BlockSize: 40, GridWidth: 40, GridHeight: 23},
		},
		{
			name:    "from pixels with mismatched height",
			config:  GameConfig{GridWidth: 40, GridHeight: 30, PixelWidth: 1600, PixelHeight: 920},
			wantErr: true,
		},
		{
			name:    "missing height",
			config:  GameConfig{GridWidth: 10},
			wantErr: true,
		},
		{
			name:    "only one pixel dimension",
			config:  GameConfig{GridWidth: 10, PixelWidth: 400},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.config.Resolve()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidConfiguration) {
					t.Errorf("Expected ErrInvalidConfiguration, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestValidateGameConfig(t *testing.T) {
	valid := func() *GameConfig {
		return &GameConfig{Name: "test", GridWidth: 10, GridHeight: 6}
	}

	tests := []struct {
		name    string
		modify  func(c *GameConfig)
		wantErr bool
	}{
		{"valid", func(c *GameConfig) {}, false},
		{"missing name", func(c *GameConfig) { c.Name = "" }, true},
		{"zero width", func(c *GameConfig) { c.GridWidth = 0 }, true},
		{"width too large", func(c *GameConfig) { c.GridWidth = MaxGridSize + 1 }, true},
		{"height too large", func(c *GameConfig) { c.GridHeight = MaxGridSize + 1 }, true},
		{"single cell", func(c *GameConfig) { c.GridWidth, c.GridHeight = 1, 1 }, false},
		{"miss message with one verb", func(c *GameConfig) { c.Messages.Miss = "Shots: %d" }, true},
		{"miss message with two verbs", func(c *GameConfig) { c.Messages.Miss = "Shots: %d, %d away" }, false},
		{"hit message without verb", func(c *GameConfig) { c.Messages.Hit = "BOOM" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid()
			tt.modify(config)
			err := ValidateGameConfig(config)
			if tt.wantErr && err == nil {
				t.Error("Expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected validation error: %v", err)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("Expected ErrInvalidConfiguration, got %v", err)
			}
		})
	}

	if err := ValidateGameConfig(nil); err == nil {
		t.Error("Expected error for nil config")
	}
}

func TestGameConfigText(t *testing.T) {
	config := &GameConfig{Messages: Messages{Hit: "Got it after %d"}}
	text := config.Text()

	if text.Hit != "Got it after %d" {
		t.Errorf("Configured message overwritten: %q", text.Hit)
	}
	if text.Miss != defaultMessages.Miss || text.Welcome != defaultMessages.Welcome || text.Restart != defaultMessages.Restart {
		t.Errorf("Defaults not applied: %+v", text)
	}
}

func TestLoadGameConfig(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "small.json")
	data := `{"name": "small", "description": "A small board", "grid_width": 10, "grid_height": 6}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	config, err := LoadGameConfig(path)
	if err != nil {
		t.Fatalf("LoadGameConfig failed: %v", err)
	}
	if config.Name != "small" || config.GridWidth != 10 || config.GridHeight != 6 {
		t.Errorf("Unexpected config %+v", config)
	}

	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte(`{"name": "bad", "grid_width": 0}`), 0644)
	if _, err := LoadGameConfig(bad); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("Expected ErrInvalidConfiguration, got %v", err)
	}

	broken := filepath.Join(dir, "broken.json")
	os.WriteFile(broken, []byte(`{not json`), 0644)
	if _, err := LoadGameConfig(broken); err == nil {
		t.Error("Expected parse error")
	}

	if _, err := LoadGameConfig(filepath.Join(dir, "missing.json")); !os.IsNotExist(err) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
}
