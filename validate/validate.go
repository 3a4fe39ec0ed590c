// Command validate provides a small CLI that validates board configuration
// JSON files in the ../configs directory. It checks:
//   - JSON structure, rejecting unknown keys
//   - Grid dimensions, either given directly or derived from a display size
//   - Message format strings (miss takes shots and distance, hit takes shots)
//   - That the file name is a usable configuration ID
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/subhunter/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// Info describes a valid configuration; Errors lists what is wrong with an
// invalid one.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
	Info   []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single configuration JSON file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var config engine.GameConfig
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&config); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	id := strings.TrimSuffix(result.File, ".json")
	if id == "" || strings.ContainsAny(id, " /\\") {
		result.fail("File name %q is not a usable configuration ID", result.File)
	}

	if err := engine.ValidateGameConfig(&config); err != nil {
		result.fail("%v", err)
		return result
	}

	layout, err := config.Resolve()
	if err != nil {
		result.fail("%v", err)
		return result
	}

	if !result.Valid {
		return result
	}

	result.Info = append(result.Info, fmt.Sprintf("✓ ID: %s", id))
	result.Info = append(result.Info, fmt.Sprintf("✓ Name: %s", config.Name))
	result.Info = append(result.Info, fmt.Sprintf("✓ Grid: %dx%d (%d cells)", layout.GridWidth, layout.GridHeight, layout.GridWidth*layout.GridHeight))
	result.Info = append(result.Info, fmt.Sprintf("✓ Block size: %dpx", layout.BlockSize))
	if config.PixelWidth > 0 {
		result.Info = append(result.Info, fmt.Sprintf("✓ Display: %dx%d", config.PixelWidth, config.PixelHeight))
	}
	result.Info = append(result.Info, fmt.Sprintf("✓ Max distance: %d", engine.MaxDistance(layout.GridWidth, layout.GridHeight)))

	var defaulted []string
	for _, m := range []struct{ key, value string }{
		{"welcome", config.Messages.Welcome},
		{"miss", config.Messages.Miss},
		{"hit", config.Messages.Hit},
		{"restart", config.Messages.Restart},
	} {
		if m.value == "" {
			defaulted = append(defaulted, m.key)
		}
	}
	if len(defaulted) > 0 {
		result.Info = append(result.Info, "✓ Default messages: "+strings.Join(defaulted, ", "))
	}

	return result
}

// validateDir validates every *.json file in dir, printing a concise report.
// It returns false if any file is invalid.
func validateDir(dir string) (bool, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return false, fmt.Errorf("finding config files: %w", err)
	}
	if len(files) == 0 {
		return false, fmt.Errorf("no configuration files in %s", dir)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Info {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Println("  ❌ " + err)
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
	}
	return allValid, nil
}

// main validates the configuration directory and exits with non-zero
// status if any file is invalid
func main() {
	cmd := &cli.Command{
		Name:  "validate",
		Usage: "validate Sub Hunter board configurations",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Value: "../configs", Usage: "configuration directory"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			valid, err := validateDir(cmd.String("dir"))
			if err != nil {
				return err
			}
			if !valid {
				return cli.Exit("", 1)
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
