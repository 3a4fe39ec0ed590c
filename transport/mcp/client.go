package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/wricardo/subhunter/game/engine"
	"github.com/wricardo/subhunter/game/render"
	"github.com/wricardo/subhunter/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Sub Hunter",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Sub Hunter - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
A submarine hides in one cell of the grid. Fire shots at cells; every miss
tells you the straight-line distance (rounded down) to the submarine.
A hit ends the game and a new one starts immediately.

AVAILABLE TOOLS:
- create_session: Create new game session
- list_sessions: List all active sessions
- get_session: Get session details
- game_state: Get current game state with the board drawn as text
- fire: Fire at a grid cell (column, row)
- fire_at_pixel: Fire at a touch position in pixels
- new_game: Abandon the current game and hide a new submarine
- shot_history: View past shots
- list_configs: List available board configurations
- game_instructions: Get the rules and a search strategy`),
	)

	// Register all tools
	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the board configuration to use (optional, see list_configs)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state with the board drawn as text",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "fire",
		Description: "Fire a shot at a grid cell. Returns hit or the distance to the submarine.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"column": map[string]interface{}{
					"type":        "integer",
					"description": "Column of the target cell (0-based, grows to the right)",
				},
				"row": map[string]interface{}{
					"type":        "integer",
					"description": "Row of the target cell (0-based, grows downwards)",
				},
			},
			Required: []string{"session_id", "column", "row"},
		},
	}, c.handleFire)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "fire_at_pixel",
		Description: "Fire at the cell under a touch position given in pixels",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"x": map[string]interface{}{
					"type":        "number",
					"description": "Horizontal pixel position",
				},
				"y": map[string]interface{}{
					"type":        "number",
					"description": "Vertical pixel position",
				},
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleFireAtPixel)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "new_game",
		Description: "Abandon the current game and hide a new submarine",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleNewGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "shot_history",
		Description: "Get the history of shots across all games of a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number (default 1)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Shots per page (default 20, max 100)",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Sort order (default desc, newest first)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleShotHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available board configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the rules of the game and a search strategy",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// HTTPHandler serves single JSON-RPC messages posted to /mcp
func (c *Client) HTTPHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := c.mcpServer.HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		if response == nil {
			w.WriteHeader(http.StatusAccepted)
			return
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			log.Error().Err(err).Msg("failed to encode mcp response")
		}
	})
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Argument helpers. JSON numbers arrive as float64.

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

func numberArg(args map[string]interface{}, key string) (float64, bool) {
	switch v := args[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

// intArg accepts only whole numbers that fit exactly in a float64
func intArg(args map[string]interface{}, key string) (int, bool) {
	f, ok := numberArg(args, key)
	if !ok || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, false
	}
	return int(f), true
}

func requireSession(args map[string]interface{}) (string, *mcp.CallToolResult) {
	sessionID := stringArg(args, "session_id")
	if sessionID == "" {
		return "", mcp.NewToolResultError("session_id is required")
	}
	return url.PathEscape(sessionID), nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	body := map[string]string{}
	if configID := stringArg(args, "config_id"); configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, http.MethodPost, "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatSessionInfo(&session)
	if session.Message != "" {
		result += "\n" + session.Message + "\n"
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                    `json:"count"`
		Sessions []*service.SessionInfo `json:"sessions"`
	}
	if err := c.apiCall(ctx, http.MethodGet, "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if response.Count == 0 {
		return mcp.NewToolResultText("No active sessions. Use create_session to start one."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active sessions (%d):\n", response.Count)
	for _, session := range response.Sessions {
		b.WriteString("- " + formatSessionLine(session) + "\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(arguments(request))
	if errResult != nil {
		return errResult, nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, http.MethodGet, "/api/sessions/"+sessionID, nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(arguments(request))
	if errResult != nil {
		return errResult, nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, http.MethodGet, "/api/sessions/"+sessionID+"/state", nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleFire(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}

	column, okColumn := intArg(args, "column")
	row, okRow := intArg(args, "row")
	if !okColumn || !okRow {
		return mcp.NewToolResultError("column and row are required integers"), nil
	}

	body := map[string]int{"column": column, "row": row}

	var outcome service.ShotOutcome
	if err := c.apiCall(ctx, http.MethodPost, "/api/sessions/"+sessionID+"/shot", body, &outcome); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatShotOutcome(&outcome)), nil
}

func (c *Client) handleFireAtPixel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}

	x, okX := numberArg(args, "x")
	y, okY := numberArg(args, "y")
	if !okX || !okY {
		return mcp.NewToolResultError("x and y are required numbers"), nil
	}

	var outcome service.ShotOutcome
	body := map[string]float64{"x": x, "y": y}
	if err := c.apiCall(ctx, http.MethodPost, "/api/sessions/"+sessionID+"/tap", body, &outcome); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatShotOutcome(&outcome)), nil
}

func (c *Client) handleNewGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(arguments(request))
	if errResult != nil {
		return errResult, nil
	}

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.apiCall(ctx, http.MethodPost, "/api/sessions/"+sessionID+"/new-game", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleShotHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}

	params := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		params.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		params.Set("limit", fmt.Sprint(limit))
	}
	if order := stringArg(args, "order"); order != "" {
		params.Set("order", order)
	}

	path := "/api/sessions/" + sessionID + "/history"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, http.MethodGet, path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, http.MethodGet, "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available configurations:\n")
	for _, cfg := range configs {
		fmt.Fprintf(&b, "- %s: %dx%d grid, %dpx blocks", cfg.ConfigID, cfg.GridWidth, cfg.GridHeight, cfg.BlockSize)
		if cfg.Description != "" {
			b.WriteString(" - " + cfg.Description)
		}
		b.WriteString("\n")
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Sub Hunter - Complete Instructions

GAME OBJECTIVE:
A submarine hides in exactly one cell of the grid. Find it with as few
shots as possible.

GAME MECHANICS:
- Fire at a cell with fire (column, row) or at a pixel position with fire_at_pixel
- Columns grow to the right, rows grow downwards, both start at 0
- A miss reports the distance to the submarine: the straight-line
  distance rounded down, floor(sqrt(dx*dx + dy*dy))
- A hit prints BOOM, and a new game with a new hidden submarine starts at once
- Shots off the grid are accepted and still report a distance

GRID LEGEND (game_state):
- . : empty water
- X : your last shot

SEARCH STRATEGY:
1. Fire at a corner, e.g. (0,0). The distance d means the submarine lies on
   the ring of cells whose rounded-down distance from (0,0) is d.
2. Fire at a second corner. Only cells on both rings remain.
3. Keep firing at cells that split the remaining candidates, or directly at
   a remaining candidate once few are left.
4. Three well-placed shots usually pin the submarine down.

VICTORY CONDITIONS:
- Hit the submarine's cell. The response shows the number of shots taken.

Good luck hunting!`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionLine(session *service.SessionInfo) string {
	line := fmt.Sprintf("%s (config: %s", session.ID, session.ConfigName)
	if session.GameState != nil {
		line += fmt.Sprintf(", game %d, %d shots", session.GameState.GameNumber, session.GameState.ShotsTaken)
	}
	return line + fmt.Sprintf(", won %d)", session.GamesWon)
}

func formatSessionInfo(session *service.SessionInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s\n", session.ID)
	fmt.Fprintf(&b, "Config: %s\n", session.ConfigName)
	fmt.Fprintf(&b, "Grid: %dx%d (block size %d)\n", session.Layout.GridWidth, session.Layout.GridHeight, session.Layout.BlockSize)
	fmt.Fprintf(&b, "Games won: %d\n", session.GamesWon)
	if session.GameState != nil {
		b.WriteString("\n" + formatGameState(session.GameState) + "\n")
	}
	return b.String()
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	header := fmt.Sprintf("Game %d on a %dx%d grid\n\n", state.GameNumber, state.Width, state.Height)
	return header + render.Board(state, render.Options{Coordinates: true})
}

func formatShotOutcome(outcome *service.ShotOutcome) string {
	var b strings.Builder
	b.WriteString(render.Shot(outcome.ShotResult))
	if !outcome.InBounds {
		b.WriteString(" (off the grid)")
	}
	b.WriteString("\n")

	if outcome.Hit {
		b.WriteString("\n" + render.Boom(outcome.ShotsTaken, outcome.Message) + "\n")
		if outcome.GameState != nil {
			fmt.Fprintf(&b, "\nGame %d has started. Take a shot!\n", outcome.GameState.GameNumber)
		}
		return b.String()
	}

	if outcome.Message != "" {
		b.WriteString(outcome.Message + "\n")
	}
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Shot History (Page %d/%d) - Total: %d\n\n", history.Page, history.TotalPages, history.TotalShots)

	if len(history.Shots) == 0 {
		b.WriteString("(no shots)")
		return b.String()
	}

	for _, shot := range history.Shots {
		status := fmt.Sprintf("distance %d", shot.Distance)
		if shot.Hit {
			status = "HIT"
		}
		fmt.Fprintf(&b, "Game %d, shot %d: (%d,%d) %s\n", shot.Game, shot.ShotNumber, shot.Shot.Column, shot.Shot.Row, status)
	}
	return b.String()
}
