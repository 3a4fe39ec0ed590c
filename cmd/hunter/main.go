// Command hunter plays Sub Hunter against a running server. It creates a
// session over the REST API and lets the solver pick every shot.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/subhunter/game/engine"
	"github.com/wricardo/subhunter/game/service"
	"github.com/wricardo/subhunter/game/solver"
)

// Client talks to the game server for one session
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) post(ctx context.Context, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("post %s failed: %s - %s", path, resp.Status, bytes.TrimSpace(data))
	}

	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("parse %s response: %w", path, err)
	}
	return nil
}

// CreateSession starts a session on the given board, or the server default
func (c *Client) CreateSession(ctx context.Context, configID string) (*service.SessionInfo, error) {
	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.post(ctx, "/api/sessions", body, &session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	c.sessionID = session.ID
	return &session, nil
}

// Fire shoots at one cell of the current session
func (c *Client) Fire(ctx context.Context, cell engine.Cell) (*service.ShotOutcome, error) {
	var outcome service.ShotOutcome
	body := map[string]int{"column": cell.Column, "row": cell.Row}
	if err := c.post(ctx, "/api/sessions/"+c.sessionID+"/shot", body, &outcome); err != nil {
		return nil, err
	}
	return &outcome, nil
}

// Hunt plays games until the requested number is won, returning the shot count of each
func Hunt(ctx context.Context, c *Client, configID string, games int, out io.Writer) ([]int, error) {
	session, err := c.CreateSession(ctx, configID)
	if err != nil {
		return nil, err
	}
	width, height := session.Layout.GridWidth, session.Layout.GridHeight
	log.Info().Str("session", session.ID).Str("config", session.ConfigName).Int("width", width).Int("height", height).Msg("hunting")

	// firing at every cell once always finds the sub
	maxShots := width * height

	var counts []int
	for game := 1; game <= games; game++ {
		results, err := solver.Play(width, height, maxShots, func(cell engine.Cell) (engine.ShotResult, error) {
			outcome, err := c.Fire(ctx, cell)
			if err != nil {
				return engine.ShotResult{}, err
			}
			log.Debug().Int("column", cell.Column).Int("row", cell.Row).Bool("hit", outcome.Hit).Int("distance", outcome.Distance).Msg(outcome.Message)
			return outcome.ShotResult, nil
		})
		if err != nil {
			return counts, fmt.Errorf("game %d: %w", game, err)
		}

		last := results[len(results)-1]
		fmt.Fprintf(out, "Game %d: sub at (%d,%d) found in %d shots\n", game, last.Shot.Column, last.Shot.Row, last.ShotsTaken)
		counts = append(counts, last.ShotsTaken)
	}

	return counts, nil
}

func main() {
	cmd := &cli.Command{
		Name:  "hunter",
		Usage: "play Sub Hunter with the distance solver",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "game server URL"},
			&cli.StringFlag{Name: "config", Usage: "board configuration ID"},
			&cli.IntFlag{Name: "games", Value: 1, Usage: "number of games to win"},
			&cli.BoolFlag{Name: "v", Usage: "verbose output"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
			if cmd.Bool("v") {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}

			counts, err := Hunt(ctx, NewClient(cmd.String("url")), cmd.String("config"), cmd.Int("games"), os.Stdout)
			if err != nil {
				return err
			}

			total := 0
			for _, n := range counts {
				total += n
			}
			if len(counts) > 0 {
				fmt.Printf("Won %d games, %.2f shots per game\n", len(counts), float64(total)/float64(len(counts)))
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("hunter failed")
	}
}
