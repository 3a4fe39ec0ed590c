// Package websocket provides WebSocket transport for Sub Hunter.
//
// The websocket package implements:
//   - Session-aware WebSocket connections
//   - State broadcasting after every shot or new game
//   - Connection lifecycle management
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection is handled by a read and a
// write goroutine. Registration, removal and fan-out all run on the hub's
// Run goroutine, so the client map needs no lock.
//
// Message Protocol:
//
// Clients only listen. Every message is one JSON document per frame:
//
//	{"session_id": "a1b2", "event": "state_update", "game_state": {...}}
//	{"session_id": "a1b2", "event": "boom", "data": {...shot outcome...}}
//
// Session Integration:
//
// Clients pass their session ID as a query parameter (?session=a1b2) when
// connecting. Updates are sent only to clients of the same session.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
package websocket
