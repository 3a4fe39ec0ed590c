package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/subhunter/game/config"
	"github.com/wricardo/subhunter/game/engine"
	"github.com/wricardo/subhunter/game/render"
)

const playHelp = `Commands:
  <column> <row>   fire at a cell, e.g. "12 7"
  tap <x> <y>      fire at a pixel position
  new              abandon this game and hide a new submarine
  help             show this help
  quit             leave`

// runPlay plays one session in the terminal
func runPlay(ctx context.Context, cmd *cli.Command) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	configs, err := config.NewManager(settings.ConfigDir)
	if err != nil {
		return fmt.Errorf("failed to create config manager: %w", err)
	}

	cfg := configs.GetDefault()
	if name := cmd.String("config"); name != "" {
		if cfg, err = configs.LoadConfig(name); err != nil {
			return err
		}
	}

	rng := engine.DefaultRandomSource()
	if cmd.IsSet("seed") {
		rng = engine.NewRandomSource(cmd.Uint64("seed"))
	}

	eng, err := engine.NewEngine(cfg, rng)
	if err != nil {
		return err
	}

	log.Debug().Str("config", cfg.Name).Msg("terminal game started")
	return playGame(ctx, os.Stdin, os.Stdout, eng, settings.Debug)
}

// playGame reads one command per line from in until quit or end of input
func playGame(ctx context.Context, in io.Reader, out io.Writer, eng *engine.GameEngine, debug bool) error {
	text := eng.GetConfig().Text()
	layout := eng.GetLayout()

	fmt.Fprintf(out, "%s\nGrid: %dx%d\n%s\n\n", text.Welcome, layout.GridWidth, layout.GridHeight, playHelp)
	printBoard(out, eng, debug)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		fields := strings.Fields(strings.ToLower(scanner.Text()))
		if len(fields) == 0 {
			continue
		}

		switch {
		case fields[0] == "quit" || fields[0] == "q" || fields[0] == "exit":
			fmt.Fprintf(out, "Games won: %d\n", eng.GamesWon())
			return nil

		case fields[0] == "help":
			fmt.Fprintln(out, playHelp)

		case fields[0] == "new":
			eng.NewGame()
			fmt.Fprintln(out, "A new submarine is hiding.")
			printBoard(out, eng, debug)

		case fields[0] == "tap" && len(fields) == 3:
			x, errX := strconv.ParseFloat(fields[1], 64)
			y, errY := strconv.ParseFloat(fields[2], 64)
			if errX != nil || errY != nil {
				fmt.Fprintln(out, "tap needs two numbers")
				continue
			}
			printShot(out, eng, eng.FireAtPixel(x, y), debug)

		case len(fields) == 2:
			column, errC := strconv.Atoi(fields[0])
			row, errR := strconv.Atoi(fields[1])
			if errC != nil || errR != nil {
				fmt.Fprintln(out, "column and row must be whole numbers")
				continue
			}
			printShot(out, eng, eng.Fire(column, row), debug)

		default:
			fmt.Fprintf(out, "unknown command %q, type help\n", scanner.Text())
		}
	}
}

func printShot(out io.Writer, eng *engine.GameEngine, result engine.ShotResult, debug bool) {
	if result.Hit {
		fmt.Fprintln(out, render.Boom(result.ShotsTaken, eng.GetConfig().Text().Restart))
		fmt.Fprintln(out, eng.Message(result))
	} else {
		fmt.Fprintln(out, render.Shot(result))
	}
	printBoard(out, eng, debug)
}

func printBoard(out io.Writer, eng *engine.GameEngine, debug bool) {
	fmt.Fprintln(out, render.Board(eng.GetState(), render.Options{Coordinates: true, RevealTarget: debug}))
	if debug {
		fmt.Fprintln(out, render.Debug(eng.Debug()))
	}
	fmt.Fprintln(out)
}
