// Package engine provides the core game logic for Sub Hunter.
//
// The engine package implements the game mechanics including:
//   - Grid sizing, either direct or derived from a display size
//   - Uniform target placement from an injected RandomSource
//   - Shot processing, hit detection and integer distance feedback
//   - Automatic restart when the target is hit
//   - Configuration loading and validation
//
// Core Types:
//
// NewGame and ProcessShot are the pure core: they create and mutate a
// GameState and perform no I/O. GameEngine wraps a GameState with its
// GameConfig and a shot history for the service layer.
//
// Usage:
//
//	state, err := engine.NewGame(40, 23, engine.NewRandomSource(7))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result := engine.ProcessShot(state, 13, 9)
//	fmt.Println(result.Hit, result.Distance, result.ShotsTaken)
//
// Game Rules:
//
// A submarine hides in one cell. Every shot reports whether it hit and how
// many whole cells away it landed, measured in a straight line. Shots are
// never rejected, even off the grid. A hit starts a new game immediately;
// the result of the hitting shot carries NewGame so callers can show it.
//
// GameState is not safe for concurrent use. Callers that share one must
// serialize access themselves.
package engine
