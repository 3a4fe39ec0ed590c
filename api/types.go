package api

import (
	"github.com/wricardo/subhunter/game/engine"
	"github.com/wricardo/subhunter/game/service"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse carries a human readable confirmation
type MessageResponse struct {
	Message string `json:"message"`
}

type CreateSessionRequest struct {
	ConfigID   string `json:"config_id,omitempty"`
	ConfigName string `json:"config_name,omitempty"` // Deprecated, use config_id
}

type SessionListResponse struct {
	Count    int                    `json:"count"`
	Total    int                    `json:"total"`
	Sessions []*service.SessionInfo `json:"sessions"`
	Sort     string                 `json:"sort"`
	Order    string                 `json:"order"`
}

// ShotRequest fires at a grid cell. Both fields are required; cells off the
// board are accepted and reported with in_bounds=false.
type ShotRequest struct {
	Column *int `json:"column" required:"true"`
	Row    *int `json:"row" required:"true"`
}

// TapRequest fires at the cell under a touch position in pixels
type TapRequest struct {
	X *float64 `json:"x" required:"true"`
	Y *float64 `json:"y" required:"true"`
}

type NewGameResponse struct {
	Message string            `json:"message"`
	State   *engine.GameState `json:"state"`
}

type ConfigSavedResponse struct {
	Message  string `json:"message"`
	ConfigID string `json:"config_id"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
	Uptime   string `json:"uptime,omitempty"`
}

type IndexResponse struct {
	Service   string   `json:"service"`
	Docs      string   `json:"docs"`
	Endpoints []string `json:"endpoints"`
}
