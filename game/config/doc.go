// Package config provides configuration management for Sub Hunter.
//
// The config package handles:
//   - Loading board configurations from JSON files
//   - Default configuration selection
//   - Configuration discovery and listing
//   - Process settings from the environment
//
// Configuration Format:
//
// Board configurations are stored as JSON files in the configs directory.
// Each configuration defines a grid width and either a grid height or the
// pixel size of the display the grid is laid over, plus the player-facing
// message templates.
//
// Available Configurations:
//   - classic: 40 columns on a 1600x920 display (40x23)
//   - small: a 10x6 board for quick games
//   - phone: 20 columns on a 1080x2340 portrait screen
//   - tiny: a single cell
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("phone")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
//
// Settings:
//
// LoadSettings reads HOST, PORT, CONFIG_DIR, LOG_LEVEL, DEBUG, SESSION_TTL,
// CLEANUP_INTERVAL and the NGROK_* variables.
package config
