package api

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/wricardo/subhunter/game/engine"
	"github.com/wricardo/subhunter/game/service"
)

type sessionPath struct {
	ID string `path:"id" description:"4-character session ID, case-insensitive"`
}

type shotPath struct {
	sessionPath
	ShotRequest
}

type tapPath struct {
	sessionPath
	TapRequest
}

type historyQuery struct {
	sessionPath
	Page  int    `query:"page" minimum:"1" default:"1"`
	Limit int    `query:"limit" minimum:"1" maximum:"100" default:"20"`
	Order string `query:"order" enum:"asc,desc" default:"desc"`
}

type listSessionsQuery struct {
	Sort  string `query:"sort" enum:"created,accessed" default:"accessed"`
	Order string `query:"order" enum:"asc,desc" default:"desc"`
	Limit int    `query:"limit" minimum:"1"`
}

type configPath struct {
	Name string `path:"name"`
}

type wsQuery struct {
	Session string `query:"session" required:"true"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Sub Hunter API"
	r.Spec.Info.Version = "1.0.0"
	r.Spec.Info.WithDescription("Find the hidden submarine. Every miss reports the distance to it.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getHealthz)

	// POST /api/sessions
	createSession, _ := r.NewOperationContext(http.MethodPost, "/api/sessions")
	createSession.SetSummary("Create session")
	createSession.SetDescription("Starts a session on the named board configuration, or the default one.")
	createSession.AddReqStructure(CreateSessionRequest{})
	createSession.AddRespStructure(service.SessionInfo{}, openapi.WithHTTPStatus(http.StatusCreated))
	createSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(createSession)

	// GET /api/sessions
	listSessions, _ := r.NewOperationContext(http.MethodGet, "/api/sessions")
	listSessions.SetSummary("List sessions")
	listSessions.AddReqStructure(listSessionsQuery{})
	listSessions.AddRespStructure(SessionListResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listSessions)

	// GET /api/sessions/{id}
	getSession, _ := r.NewOperationContext(http.MethodGet, "/api/sessions/{id}")
	getSession.SetSummary("Get session")
	getSession.AddReqStructure(sessionPath{})
	getSession.AddRespStructure(service.SessionInfo{}, openapi.WithHTTPStatus(http.StatusOK))
	getSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getSession)

	// DELETE /api/sessions/{id}
	deleteSession, _ := r.NewOperationContext(http.MethodDelete, "/api/sessions/{id}")
	deleteSession.SetSummary("Delete session")
	deleteSession.AddReqStructure(sessionPath{})
	deleteSession.AddRespStructure(MessageResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	deleteSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteSession)

	// GET /api/sessions/{id}/state
	getState, _ := r.NewOperationContext(http.MethodGet, "/api/sessions/{id}/state")
	getState.SetSummary("Get game state")
	getState.AddReqStructure(sessionPath{})
	getState.AddRespStructure(engine.GameState{}, openapi.WithHTTPStatus(http.StatusOK))
	getState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getState)

	// POST /api/sessions/{id}/shot
	postShot, _ := r.NewOperationContext(http.MethodPost, "/api/sessions/{id}/shot")
	postShot.SetSummary("Fire at a cell")
	postShot.SetDescription("A hit ends the game and a new one starts at once. The response describes the shot fired and the state after it.")
	postShot.AddReqStructure(shotPath{})
	postShot.AddRespStructure(service.ShotOutcome{}, openapi.WithHTTPStatus(http.StatusOK))
	postShot.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postShot.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postShot)

	// POST /api/sessions/{id}/tap
	postTap, _ := r.NewOperationContext(http.MethodPost, "/api/sessions/{id}/tap")
	postTap.SetSummary("Fire at a pixel position")
	postTap.SetDescription("The position is divided by the board's block size to find the cell.")
	postTap.AddReqStructure(tapPath{})
	postTap.AddRespStructure(service.ShotOutcome{}, openapi.WithHTTPStatus(http.StatusOK))
	postTap.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postTap.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postTap)

	// POST /api/sessions/{id}/new-game
	postNewGame, _ := r.NewOperationContext(http.MethodPost, "/api/sessions/{id}/new-game")
	postNewGame.SetSummary("Start a new game")
	postNewGame.AddReqStructure(sessionPath{})
	postNewGame.AddRespStructure(NewGameResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postNewGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postNewGame)

	// GET /api/sessions/{id}/history
	getHistory, _ := r.NewOperationContext(http.MethodGet, "/api/sessions/{id}/history")
	getHistory.SetSummary("Shot history")
	getHistory.AddReqStructure(historyQuery{})
	getHistory.AddRespStructure(service.HistoryResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHistory.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getHistory)

	// GET /api/sessions/{id}/debug
	getDebug, _ := r.NewOperationContext(http.MethodGet, "/api/sessions/{id}/debug")
	getDebug.SetSummary("Debug overlay")
	getDebug.SetDescription("Every sizing input and engine value, target included. 404 unless the server runs with --debug.")
	getDebug.AddReqStructure(sessionPath{})
	getDebug.AddRespStructure(engine.DebugInfo{}, openapi.WithHTTPStatus(http.StatusOK))
	getDebug.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getDebug)

	// GET /api/configs
	listConfigs, _ := r.NewOperationContext(http.MethodGet, "/api/configs")
	listConfigs.SetSummary("List board configurations")
	listConfigs.AddRespStructure([]service.ConfigInfo{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listConfigs)

	// POST /api/configs
	createConfig, _ := r.NewOperationContext(http.MethodPost, "/api/configs")
	createConfig.SetSummary("Save a board configuration")
	createConfig.AddReqStructure(engine.GameConfig{})
	createConfig.AddRespStructure(ConfigSavedResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	createConfig.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(createConfig)

	// GET /api/configs/{name}
	getConfig, _ := r.NewOperationContext(http.MethodGet, "/api/configs/{name}")
	getConfig.SetSummary("Get a board configuration")
	getConfig.AddReqStructure(configPath{})
	getConfig.AddRespStructure(engine.GameConfig{}, openapi.WithHTTPStatus(http.StatusOK))
	getConfig.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getConfig)

	// GET /ws
	getWS, _ := r.NewOperationContext(http.MethodGet, "/ws")
	getWS.SetSummary("Session updates")
	getWS.SetDescription("Upgrades to a WebSocket that receives state_update and boom events for one session.")
	getWS.AddReqStructure(wsQuery{})
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	getWS.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getWS)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
