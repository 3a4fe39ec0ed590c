package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/wricardo/subhunter/game/engine"
)

func createValidConfig() *engine.GameConfig {
	return &engine.GameConfig{
		Name:        "Test Config",
		Description: "Test configuration",
		GridWidth:   10,
		GridHeight:  6,
		BlockSize:   20,
		Messages: engine.Messages{
			Welcome: "Welcome!",
			Miss:    "Shots %d, distance %d",
			Hit:     "BOOM in %d",
			Restart: "Again",
		},
	}
}

func writeConfigFile(t *testing.T, dir, name string, config *engine.GameConfig) {
	t.Helper()
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}

	filename := name
	if filepath.Ext(filename) == "" {
		filename = name + ".json"
	}

	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		dir := t.TempDir()
		writeConfigFile(t, dir, "small", createValidConfig())

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager == nil {
			t.Error("Expected manager to be non-nil")
		}
	})

	t.Run("non-existent directory", func(t *testing.T) {
		_, err := NewManager("/non/existent/path")
		if err == nil {
			t.Error("Expected error for non-existent directory")
		}
	})

	t.Run("path is a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file.json")
		os.WriteFile(path, []byte("{}"), 0644)
		if _, err := NewManager(path); err == nil {
			t.Error("Expected error for a file path")
		}
	})

	t.Run("empty directory uses built-in board", func(t *testing.T) {
		manager, err := NewManager(t.TempDir())
		if err != nil {
			t.Fatalf("NewManager should succeed even without config files, got error: %v", err)
		}

		def := manager.GetDefault()
		if def == nil || def.Name != "classic" {
			t.Fatalf("Expected built-in classic default, got %+v", def)
		}
		layout, _ := def.Resolve()
		if layout.GridWidth != 40 || layout.GridHeight != 23 {
			t.Errorf("Expected 40x23, got %dx%d", layout.GridWidth, layout.GridHeight)
		}
	})
}

func TestManager_LoadConfig(t *testing.T) {
	dir := t.TempDir()

	small := createValidConfig()
	small.Name = "Small"
	writeConfigFile(t, dir, "small", small)

	phone := createValidConfig()
	phone.Name = "Phone"
	phone.GridWidth = 20
	phone.GridHeight = 0
	phone.BlockSize = 0
	phone.PixelWidth = 1080
	phone.PixelHeight = 2340
	writeConfigFile(t, dir, "phone", phone)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("load existing config", func(t *testing.T) {
		config, err := manager.LoadConfig("phone")
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		if config.Name != "Phone" {
			t.Errorf("Expected config name 'Phone', got '%s'", config.Name)
		}
		if config.PixelHeight != 2340 {
			t.Errorf("Expected pixel height 2340, got %d", config.PixelHeight)
		}
	})

	t.Run("load with .json extension", func(t *testing.T) {
		config, err := manager.LoadConfig("small.json")
		if err != nil {
			t.Fatalf("Failed to load config with extension: %v", err)
		}
		if config.Name != "Small" {
			t.Errorf("Expected config name 'Small', got '%s'", config.Name)
		}
	})

	t.Run("load from cache", func(t *testing.T) {
		config1, _ := manager.LoadConfig("small")
		config2, err := manager.LoadConfig("small")
		if err != nil {
			t.Fatalf("Failed to load config from cache: %v", err)
		}
		if config1 != config2 {
			t.Error("Expected config to be loaded from cache")
		}
	})

	t.Run("load non-existent config", func(t *testing.T) {
		_, err := manager.LoadConfig("non-existent")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("load invalid config", func(t *testing.T) {
		invalidData := []byte(`{"name": "", "grid_width": 10, "grid_height": 5}`)
		if err := os.WriteFile(filepath.Join(dir, "invalid.json"), invalidData, 0644); err != nil {
			t.Fatalf("Failed to write invalid config: %v", err)
		}

		_, err := manager.LoadConfig("invalid")
		if !errors.Is(err, ErrInvalidConfig) || !errors.Is(err, engine.ErrInvalidConfiguration) {
			t.Errorf("Expected ErrInvalidConfig wrapping ErrInvalidConfiguration, got %v", err)
		}
	})

	t.Run("load malformed JSON", func(t *testing.T) {
		malformedData := []byte(`{"name": "Malformed", invalid json}`)
		if err := os.WriteFile(filepath.Join(dir, "malformed.json"), malformedData, 0644); err != nil {
			t.Fatalf("Failed to write malformed config: %v", err)
		}

		_, err := manager.LoadConfig("malformed")
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig for malformed JSON, got %v", err)
		}
	})

	t.Run("reject path traversal", func(t *testing.T) {
		for _, name := range []string{"../etc/passwd", "a/b", `a\b`, "", ".."} {
			if _, err := manager.LoadConfig(name); !errors.Is(err, ErrInvalidName) {
				t.Errorf("Expected ErrInvalidName for %q, got %v", name, err)
			}
		}
	})
}

func TestManager_GetDefault(t *testing.T) {
	t.Run("classic preferred", func(t *testing.T) {
		dir := t.TempDir()

		other := createValidConfig()
		other.Name = "Alpha"
		writeConfigFile(t, dir, "alpha", other)

		classic := createValidConfig()
		classic.Name = "Classic Board"
		writeConfigFile(t, dir, "classic", classic)

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if got := manager.GetDefault().Name; got != "Classic Board" {
			t.Errorf("Expected classic default, got '%s'", got)
		}
	})

	t.Run("first available otherwise", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{"zeta", "beta"} {
			config := createValidConfig()
			config.Name = name
			writeConfigFile(t, dir, name, config)
		}

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if got := manager.GetDefault().Name; got != "beta" {
			t.Errorf("Expected first config by ID, got '%s'", got)
		}
	})

	t.Run("set default", func(t *testing.T) {
		dir := t.TempDir()
		writeConfigFile(t, dir, "small", createValidConfig())
		manager, _ := NewManager(dir)

		if err := manager.SetDefault("missing"); !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
		if err := manager.SetDefault("small"); err != nil {
			t.Fatalf("SetDefault failed: %v", err)
		}
		if manager.GetDefault().Name != "Test Config" {
			t.Errorf("Expected the small config as default")
		}
	})
}

func TestManager_ListConfigs(t *testing.T) {
	dir := t.TempDir()

	configs := []struct {
		filename string
		name     string
	}{
		{"small", "Small"},
		{"medium", "Medium"},
		{"large", "Large"},
	}

	for _, cfg := range configs {
		config := createValidConfig()
		config.Name = cfg.name
		writeConfigFile(t, dir, cfg.filename, config)
	}

	classic := engine.DefaultConfig()
	writeConfigFile(t, dir, "classic", classic)

	// Ignored: not JSON, and not valid
	os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("readme"), 0644)
	os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	configList, err := manager.ListConfigs()
	if err != nil {
		t.Fatalf("Failed to list configs: %v", err)
	}
	if len(configList) != 4 {
		t.Fatalf("Expected 4 configs, got %d", len(configList))
	}

	wantOrder := []string{"classic", "large", "medium", "small"}
	for i, info := range configList {
		if info.ConfigID != wantOrder[i] {
			t.Errorf("Position %d: expected %s, got %s", i, wantOrder[i], info.ConfigID)
		}
	}

	// classic is derived from pixels
	c := configList[0]
	if c.GridWidth != 40 || c.GridHeight != 23 || c.BlockSize != 40 {
		t.Errorf("Expected classic 40x23 block 40, got %dx%d block %d", c.GridWidth, c.GridHeight, c.BlockSize)
	}
	if c.Filename != "classic.json" {
		t.Errorf("Expected classic.json, got %s", c.Filename)
	}
}

func TestManager_ReloadConfig(t *testing.T) {
	dir := t.TempDir()

	config := createValidConfig()
	config.Name = "Changeable"
	writeConfigFile(t, dir, "changeable", config)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	loaded, _ := manager.LoadConfig("changeable")
	if loaded.GridWidth != 10 {
		t.Errorf("Expected initial width 10, got %d", loaded.GridWidth)
	}

	config.GridWidth = 12
	writeConfigFile(t, dir, "changeable", config)

	// Cached until refreshed
	cached, _ := manager.LoadConfig("changeable")
	if cached.GridWidth != 10 {
		t.Errorf("Expected cached width 10, got %d", cached.GridWidth)
	}

	manager.RefreshCache()

	reloaded, _ := manager.LoadConfig("changeable")
	if reloaded.GridWidth != 12 {
		t.Errorf("Expected reloaded width 12, got %d", reloaded.GridWidth)
	}
}

func TestManager_SaveConfig(t *testing.T) {
	dir := t.TempDir()
	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("valid config", func(t *testing.T) {
		config := createValidConfig()
		config.Name = "Saved"
		if err := manager.SaveConfig("saved", config); err != nil {
			t.Fatalf("SaveConfig failed: %v", err)
		}

		if _, err := os.Stat(filepath.Join(dir, "saved.json")); err != nil {
			t.Errorf("Expected saved.json on disk: %v", err)
		}
		loaded, err := manager.LoadConfig("saved")
		if err != nil || loaded.Name != "Saved" {
			t.Errorf("Expected saved config to load, got %+v (%v)", loaded, err)
		}
	})

	tests := []struct {
		name   string
		mutate func(*engine.GameConfig)
	}{
		{"missing name", func(c *engine.GameConfig) { c.Name = "" }},
		{"zero width", func(c *engine.GameConfig) { c.GridWidth = 0 }},
		{"too wide", func(c *engine.GameConfig) { c.GridWidth = engine.MaxGridSize + 1 }},
		{"bad miss template", func(c *engine.GameConfig) { c.Messages.Miss = "missed" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := createValidConfig()
			tt.mutate(config)
			err := manager.SaveConfig("bad", config)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}

	if _, err := os.Stat(filepath.Join(dir, "bad.json")); !os.IsNotExist(err) {
		t.Error("Invalid configs must not be written")
	}

	if err := manager.SaveConfig("../escape", createValidConfig()); !errors.Is(err, ErrInvalidName) {
		t.Errorf("Expected ErrInvalidName, got %v", err)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	dir := t.TempDir()

	for i := 1; i <= 5; i++ {
		config := createValidConfig()
		config.Name = fmt.Sprintf("Config%d", i)
		writeConfigFile(t, dir, fmt.Sprintf("config%d", i), config)
	}

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if _, err := manager.LoadConfig(fmt.Sprintf("config%d", id%5+1)); err != nil {
				errs <- err
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}

	if manager.Count() < 5 {
		t.Errorf("Expected at least 5 configs in cache, got %d", manager.Count())
	}
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.configs)
}
