package mcp

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wricardo/subhunter/game/engine"
	"github.com/wricardo/subhunter/game/service"
)

func callTool(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("Expected result, got nil")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	if client.baseURL != "http://localhost:8080" {
		t.Errorf("Expected trailing slash trimmed, got %s", client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if client.mcpServer == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "ab12"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]interface{}
	if err := client.apiCall(context.Background(), http.MethodGet, "/api/sessions/ab12", nil, &response); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}
	if response["id"] != "ab12" {
		t.Errorf("Expected id ab12, got %v", response["id"])
	}
}

func TestClient_apiCall_Errors(t *testing.T) {
	t.Run("unreachable", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1")
		if err := client.apiCall(context.Background(), http.MethodGet, "/api", nil, nil); err == nil {
			t.Error("Expected error for unreachable server")
		}
	})

	t.Run("error body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "session not found: zz99"})
		}))
		defer server.Close()

		err := NewClient(server.URL).apiCall(context.Background(), http.MethodGet, "/api/sessions/zz99", nil, nil)
		if err == nil || err.Error() != "session not found: zz99" {
			t.Errorf("Expected API error message, got %v", err)
		}
	})

	t.Run("plain status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Internal Server Error"))
		}))
		defer server.Close()

		err := NewClient(server.URL).apiCall(context.Background(), http.MethodGet, "/api", nil, nil)
		if err == nil || !strings.Contains(err.Error(), "API error") {
			t.Errorf("Expected 'API error', got %v", err)
		}
	})
}

func TestClient_createSession(t *testing.T) {
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/sessions" {
			t.Errorf("Expected POST /api/sessions, got %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)

		resp := service.SessionInfo{
			ID:         "c0de",
			ConfigName: "phone",
			Layout:     engine.Layout{BlockSize: 54, GridWidth: 20, GridHeight: 43},
			GameState:  &engine.GameState{Width: 20, Height: 43, GameNumber: 1},
			Message:    "A submarine is hiding somewhere on the grid. Take a shot!",
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleCreateSession(context.Background(), callTool("create_session", map[string]interface{}{"config_id": "phone"}))
	if err != nil {
		t.Fatalf("createSession failed: %v", err)
	}

	text := resultText(t, result)
	for _, want := range []string{"Session: c0de", "Config: phone", "Grid: 20x43 (block size 54)", "Take a shot!"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in result, got: %s", want, text)
		}
	}
	if gotBody["config_id"] != "phone" {
		t.Errorf("Expected config_id phone in request, got %v", gotBody)
	}
}

func TestClient_fire(t *testing.T) {
	tests := []struct {
		name     string
		args     map[string]interface{}
		outcome  service.ShotOutcome
		wantPath string
		wantErr  bool
		want     []string
	}{
		{
			name:     "miss",
			args:     map[string]interface{}{"session_id": "ab12", "column": float64(4), "row": float64(1)},
			wantPath: "/api/sessions/ab12/shot",
			outcome: service.ShotOutcome{
				ShotResult: engine.ShotResult{Shot: engine.Cell{Column: 4, Row: 1}, Distance: 7, ShotsTaken: 2},
				InBounds:   true,
				Message:    "Shots Taken: 2  Distance: 7",
			},
			want: []string{"Shot 2 at (4,1): miss, distance 7", "Shots Taken: 2  Distance: 7"},
		},
		{
			name:     "off the grid",
			args:     map[string]interface{}{"session_id": "ab12", "column": float64(-3), "row": float64(0)},
			wantPath: "/api/sessions/ab12/shot",
			outcome: service.ShotOutcome{
				ShotResult: engine.ShotResult{Shot: engine.Cell{Column: -3, Row: 0}, Distance: 9, ShotsTaken: 1},
			},
			want: []string{"(off the grid)"},
		},
		{
			name:     "hit",
			args:     map[string]interface{}{"session_id": "ab12", "column": float64(3), "row": float64(2)},
			wantPath: "/api/sessions/ab12/shot",
			outcome: service.ShotOutcome{
				ShotResult: engine.ShotResult{Shot: engine.Cell{Column: 3, Row: 2}, Hit: true, ShotsTaken: 5, NewGame: true},
				InBounds:   true,
				Message:    "BOOM! Sub found in 5 shots",
				GameState:  &engine.GameState{GameNumber: 2},
			},
			want: []string{"HIT", "BOOM!", "Found in 5 shots", "Game 2 has started"},
		},
		{
			name:    "missing row",
			args:    map[string]interface{}{"session_id": "ab12", "column": float64(3)},
			wantErr: true,
		},
		{
			name:    "missing session",
			args:    map[string]interface{}{"column": float64(3), "row": float64(2)},
			wantErr: true,
		},
		{
			name:    "fractional column",
			args:    map[string]interface{}{"session_id": "ab12", "column": -0.5, "row": float64(2)},
			wantErr: true,
		},
		{
			name:    "fractional row",
			args:    map[string]interface{}{"session_id": "ab12", "column": float64(3), "row": 2.25},
			wantErr: true,
		},
		{
			name:    "non-finite column",
			args:    map[string]interface{}{"session_id": "ab12", "column": math.Inf(1), "row": float64(2)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != tt.wantPath {
					t.Errorf("Expected path %s, got %s", tt.wantPath, r.URL.Path)
				}
				json.NewEncoder(w).Encode(tt.outcome)
			}))
			defer server.Close()

			result, err := NewClient(server.URL).handleFire(context.Background(), callTool("fire", tt.args))
			if err != nil {
				t.Fatalf("handleFire returned error: %v", err)
			}
			if result.IsError != tt.wantErr {
				t.Fatalf("Expected IsError=%v, got %v", tt.wantErr, result.IsError)
			}

			text := resultText(t, result)
			for _, want := range tt.want {
				if !strings.Contains(text, want) {
					t.Errorf("Expected %q in result, got: %s", want, text)
				}
			}
		})
	}
}

func TestClient_fireAtPixel(t *testing.T) {
	var got map[string]float64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sessions/ab12/tap" {
			t.Errorf("Expected tap path, got %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(service.ShotOutcome{InBounds: true})
	}))
	defer server.Close()

	args := map[string]interface{}{"session_id": "ab12", "x": 530.5, "y": float64(371)}
	if _, err := NewClient(server.URL).handleFireAtPixel(context.Background(), callTool("fire_at_pixel", args)); err != nil {
		t.Fatal(err)
	}
	if got["x"] != 530.5 || got["y"] != 371 {
		t.Errorf("Expected pixel (530.5, 371), got %v", got)
	}
}

func TestClient_shotHistory(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(service.HistoryResponse{
			Shots: []engine.ShotRecord{
				{Game: 1, ShotNumber: 2, Shot: engine.Cell{Column: 3, Row: 2}, Hit: true},
				{Game: 1, ShotNumber: 1, Shot: engine.Cell{Column: 0, Row: 0}, Distance: 3},
			},
			TotalShots: 2,
			Page:       1,
			PageSize:   5,
			TotalPages: 1,
		})
	}))
	defer server.Close()

	args := map[string]interface{}{"session_id": "ab12", "page": float64(1), "limit": float64(5), "order": "desc"}
	result, err := NewClient(server.URL).handleShotHistory(context.Background(), callTool("shot_history", args))
	if err != nil {
		t.Fatal(err)
	}

	if gotQuery != "limit=5&order=desc&page=1" {
		t.Errorf("Unexpected query %q", gotQuery)
	}
	text := resultText(t, result)
	for _, want := range []string{"Total: 2", "Game 1, shot 2: (3,2) HIT", "Game 1, shot 1: (0,0) distance 3"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in result, got: %s", want, text)
		}
	}
}

func TestClient_listConfigs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]service.ConfigInfo{
			{ConfigID: "classic", GridWidth: 40, GridHeight: 23, BlockSize: 40, Description: "The original board"},
			{ConfigID: "tiny", GridWidth: 1, GridHeight: 1, BlockSize: 40},
		})
	}))
	defer server.Close()

	result, err := NewClient(server.URL).handleListConfigs(context.Background(), callTool("list_configs", nil))
	if err != nil {
		t.Fatal(err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "- classic: 40x23 grid, 40px blocks - The original board") || !strings.Contains(text, "- tiny: 1x1 grid") {
		t.Errorf("Unexpected configs output: %s", text)
	}
}

func TestFormatGameState(t *testing.T) {
	shot := engine.Cell{Column: 1, Row: 0}
	state := &engine.GameState{Width: 3, Height: 2, ShotsTaken: 1, LastShot: &shot, LastDistance: 2, GameNumber: 4}

	result := formatGameState(state)

	for _, want := range []string{"Game 4 on a 3x2 grid", ".X.", "Shots Taken: 1  Distance: 2"} {
		if !strings.Contains(result, want) {
			t.Errorf("Expected %q in formatted output, got: %s", want, result)
		}
	}

	if formatGameState(nil) != "No game state available" {
		t.Error("Expected placeholder for nil state")
	}
}

func TestClient_handleGameInstructions(t *testing.T) {
	result, err := NewClient("http://localhost:8080").handleGameInstructions(context.Background(), callTool("game_instructions", nil))
	if err != nil {
		t.Fatalf("handleGameInstructions failed: %v", err)
	}

	text := resultText(t, result)
	for _, want := range []string{"GAME OBJECTIVE:", "floor(sqrt(dx*dx + dy*dy))", "SEARCH STRATEGY:", "VICTORY CONDITIONS:"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in instructions", want)
		}
	}
}

func TestHTTPHandler(t *testing.T) {
	handler := NewClient("http://localhost:8080").HTTPHandler()

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/mcp", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for GET, got %d", w.Code)
	}

	body := `{"jsonrpc": "2.0", "id": 1, "method": "tools/list"}`
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body)))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	names := map[string]bool{}
	for _, tool := range resp.Result.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"create_session", "fire", "fire_at_pixel", "new_game", "shot_history", "game_instructions"} {
		if !names[want] {
			t.Errorf("Expected tool %s to be registered", want)
		}
	}
}
