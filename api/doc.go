// Package api provides HTTP REST API handlers for Sub Hunter.
//
// The api package implements:
//   - Session management endpoints
//   - Shots by grid cell or by pixel position
//   - Shot history with pagination
//   - Board configuration listing and saving
//   - WebSocket upgrade handling
//   - OpenAPI document and embedded Swagger UI
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session ({"config_id": "phone"})
//   - GET /api/sessions - List sessions (sort=created|accessed, order, limit)
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current game state
//   - POST /api/sessions/{id}/shot - Fire at {"column": 3, "row": 7}
//   - POST /api/sessions/{id}/tap - Fire at {"x": 130.5, "y": 288}
//   - POST /api/sessions/{id}/new-game - Abandon the game and hide a new sub
//   - GET /api/sessions/{id}/history - Shot history (page, limit, order)
//   - GET /api/sessions/{id}/debug - Debug overlay, only with --debug
//
// Configuration:
//   - GET /api/configs - List available configurations
//   - GET /api/configs/{name} - Get one configuration
//   - POST /api/configs - Save a configuration
//
// Other:
//   - GET /healthz, GET /openapi.json, GET /docs/, GET /ws?session={id}
//
// A shot response carries the shot, hit flag, distance and shot count of the
// shot just fired together with the game state after it. On a hit the
// engine has already started the next game, so game_state shows a fresh
// board while shots_taken at the top level still holds the final count.
//
// Error Handling:
//
// Errors are returned as JSON with an HTTP status derived from the service
// error: 404 for unknown sessions and configs, 400 for invalid input and
// invalid configurations, 409 for duplicate sessions.
//
//	{"error": "session not found: zz99"}
package api
