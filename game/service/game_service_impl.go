package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/subhunter/game/engine"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	debug    bool
	now      func() time.Time
	// mu serializes every session access, including the LastAccessedAt
	// writes made through getSession.
	mu       sync.Mutex
}

// Option configures the game service
type Option func(*gameServiceImpl)

// WithDebug enables the debugging overlay
func WithDebug(enabled bool) Option {
	return func(s *gameServiceImpl) {
		s.debug = enabled
	}
}

// WithClock overrides the event timestamp source
func WithClock(now func() time.Time) Option {
	return func(s *gameServiceImpl) {
		s.now = now
	}
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	configID := sess.ConfigID
	if configID == "" {
		configID = s.getConfigID(sess.Config.Name)
	}
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState().Snapshot(),
		Layout:         sess.Engine.GetLayout(),
		GamesWon:       sess.Engine.GamesWon(),
		GameConfig:     sess.Config,
	}
}

func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available configs: %v", ErrConfigNotFound, configName, configIDs)
				}
				return nil, fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", ErrConfigNotFound, configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	sess.ConfigID = configName

	info := s.sessionInfo(sess)
	info.Message = config.Text().Welcome

	log.Info().
		Str("session", sess.ID).
		Str("config", info.ConfigName).
		Int("grid_width", info.Layout.GridWidth).
		Int("grid_height", info.Layout.GridHeight).
		Msg("session created")

	return info, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	log.Info().Str("session", sessionID).Msg("session deleted")
	return nil
}

// Fire fires a shot at a grid cell of the session's board
func (s *gameServiceImpl) Fire(ctx context.Context, sessionID string, column, row int) (*ShotOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return s.fire(sess, sess.Engine.Fire(column, row)), nil
}

// FireAtPixel fires at the cell under a touch position
func (s *gameServiceImpl) FireAtPixel(ctx context.Context, sessionID string, x, y float64) (*ShotOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return s.fire(sess, sess.Engine.FireAtPixel(x, y)), nil
}

// fire builds the outcome of a shot the engine already processed
func (s *gameServiceImpl) fire(sess *Session, result engine.ShotResult) *ShotOutcome {
	layout := sess.Engine.GetLayout()
	now := s.now()
	shot := result.Shot

	outcome := &ShotOutcome{
		ShotResult: result,
		InBounds:   shot.InBounds(layout.GridWidth, layout.GridHeight),
		Message:    sess.Engine.Message(result),
		GameState:  sess.Engine.GetState().Snapshot(),
	}

	outcome.Events = append(outcome.Events, GameEvent{
		Type:      EventShot,
		Message:   fmt.Sprintf("Shot at (%d,%d)", shot.Column, shot.Row),
		Timestamp: now,
		Cell:      &shot,
	})
	if result.Hit {
		outcome.Events = append(outcome.Events,
			GameEvent{
				Type:      EventBoom,
				Message:   outcome.Message,
				Timestamp: now,
				Cell:      &shot,
			},
			GameEvent{
				Type:      EventNewGame,
				Message:   sess.Config.Text().Restart,
				Timestamp: now,
			},
		)
	}

	event := log.Debug()
	if result.Hit {
		event = log.Info()
	}
	event.
		Str("session", sess.ID).
		Int("column", shot.Column).
		Int("row", shot.Row).
		Bool("hit", result.Hit).
		Int("distance", result.Distance).
		Int("shots", result.ShotsTaken).
		Bool("in_bounds", outcome.InBounds).
		Msg("shot")

	return outcome
}

// NewGame abandons the current game and hides the submarine again
func (s *gameServiceImpl) NewGame(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	state := sess.Engine.NewGame().Snapshot()
	log.Info().Str("session", sessionID).Int("game", state.GameNumber).Msg("new game")
	return state, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.GetState().Snapshot(), nil
}

// GetShotHistory returns paginated shot history
func (s *gameServiceImpl) GetShotHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Engine.GetHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultHistoryLimit
	}
	if opts.Limit > maxHistoryLimit {
		opts.Limit = maxHistoryLimit
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	shots := []engine.ShotRecord{}
	if opts.Page <= totalPages {
		start := (opts.Page - 1) * opts.Limit
		end := start + opts.Limit
		if end > total {
			end = total
		}
		if opts.Order == "desc" {
			// Most recent first
			for i := total - 1 - start; i >= total-end; i-- {
				shots = append(shots, history[i])
			}
		} else {
			shots = append(shots, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Shots:       shots,
		TotalShots:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// GetDebugInfo returns the debugging overlay, target included
func (s *gameServiceImpl) GetDebugInfo(ctx context.Context, sessionID string) (*engine.DebugInfo, error) {
	if !s.debug {
		return nil, ErrDebugDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	info := sess.Engine.Debug()
	if info.LastShot != nil {
		shot := *info.LastShot
		info.LastShot = &shot
	}
	return &info, nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}
