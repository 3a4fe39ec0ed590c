// Package mcp provides a Model Context Protocol server for Sub Hunter.
//
// The server is a thin client: every tool calls the REST API and renders
// the JSON response as text with the render package, so agents see the
// same board a terminal player sees.
//
// MCP Tools:
//   - create_session, list_sessions, get_session
//   - game_state: current game with the board drawn as text
//   - fire: shot at a grid cell
//   - fire_at_pixel: shot at a touch position in pixels
//   - new_game: abandon the current game
//   - shot_history: paginated shots across games
//   - list_configs: available board configurations
//   - game_instructions: rules and a search strategy
//
// Transport Modes:
//   - Stdio: server.ServeStdio(client.GetMCPServer())
//   - HTTP: POST /mcp served by client.HTTPHandler()
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	mux.Handle("/mcp", client.HTTPHandler())
package mcp
