// Package service provides the business logic layer for Sub Hunter.
//
// The service package implements:
//   - Multi-session game management
//   - Configuration lookup for new sessions
//   - Shot processing by grid cell or by pixel
//   - Shot history pagination
//   - The debugging overlay, when enabled
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages game configuration loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. The engine holds no locks, so every engine call made here
// runs under the service mutex. Each session owns its own engine.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	sessionInfo, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	outcome, err := gameService.Fire(ctx, sessionInfo.ID, 13, 9)
package service
