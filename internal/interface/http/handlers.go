package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/fitcircle/fitcircle-backend/internal/application/command"
	"github.com/fitcircle/fitcircle-backend/internal/application/query"
	"github.com/fitcircle/fitcircle-backend/internal/domain/shared"
	"github.com/fitcircle/fitcircle-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":        "FitCircle API",
		"version":     "v1",
		"description": "REST API for FitCircle - Train Together, Grow Together",
		"endpoints": map[string]string{
			"health":                "/health",
			"user":                  "/api/v1/users/{id}",
			"recommendations":       "/api/v1/users/{id}/recommendations",
			"workout_buddies":       "/api/v1/users/{id}/workout-buddies",
			"potential_connections": "/api/v1/users/{id}/potential-connections",
		},
	}

	writeJSON(w, http.StatusOK, info)
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Healthy {
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		writeJSON(w, http.StatusOK, status)
		return
	}

	// Default health response
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"uptime":  s.Uptime().String(),
		"version": "v1",
	})
}

// handleReady handles the readiness probe endpoint (for Kubernetes).
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Ready {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": status.Message,
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe endpoint (for Kubernetes).
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// USER HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetUser handles GET /api/v1/users/{id}
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")

	if s.deps.GetUserProfileHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "User handler not configured")
		return
	}

	q := query.GetUserProfileQuery{UserID: userID}

	result, err := s.deps.GetUserProfileHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err, "failed to get user")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// RECOMMENDATION HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetRecommendations handles GET /api/v1/users/{id}/recommendations
//
// Query parameters:
//   - limit: maximum number of results (default 10, capped at 50)
//   - min_score: minimum similarity score in [0, 1] (default 0.3)
func (s *Server) handleGetRecommendations(w http.ResponseWriter, r *http.Request) {
	requesterID := r.PathValue("id")

	if s.deps.GetRecommendedConnectionsHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Recommendations handler not configured")
		return
	}

	limit, ok := s.queryInt(w, r, "limit", 0)
	if !ok {
		return
	}

	minScore, ok := s.queryFloat(w, r, "min_score", s.config.DefaultMinScore)
	if !ok {
		return
	}

	q := query.GetRecommendedConnectionsQuery{
		RequesterID: requesterID,
		Limit:       limit,
		MinScore:    minScore,
	}

	result, err := s.deps.GetRecommendedConnectionsHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err, "failed to get recommendations")
		return
	}

	meta := &ResponseMeta{TotalCount: result.TotalMatched}
	writeJSONWithMeta(w, r, http.StatusOK, result, meta)
}

// handleGetWorkoutBuddies handles GET /api/v1/users/{id}/workout-buddies
func (s *Server) handleGetWorkoutBuddies(w http.ResponseWriter, r *http.Request) {
	requesterID := r.PathValue("id")

	if s.deps.GetWorkoutBuddiesHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Workout buddies handler not configured")
		return
	}

	limit, ok := s.queryInt(w, r, "limit", 0)
	if !ok {
		return
	}

	q := query.GetWorkoutBuddiesQuery{
		RequesterID: requesterID,
		Limit:       limit,
	}

	result, err := s.deps.GetWorkoutBuddiesHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err, "failed to get workout buddies")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetPotentialConnections handles GET /api/v1/users/{id}/potential-connections
func (s *Server) handleGetPotentialConnections(w http.ResponseWriter, r *http.Request) {
	requesterID := r.PathValue("id")

	if s.deps.FindPotentialConnectionsHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Potential connections handler not configured")
		return
	}

	limit, ok := s.queryInt(w, r, "limit", 0)
	if !ok {
		return
	}

	q := query.FindPotentialConnectionsQuery{
		RequesterID: requesterID,
		Limit:       limit,
	}

	result, err := s.deps.FindPotentialConnectionsHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err, "failed to find potential connections")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// CONNECTION HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// connectRequest is the request body for POST /api/v1/users/{id}/connections.
type connectRequest struct {
	UserID string `json:"user_id"`
}

// handleConnect handles POST /api/v1/users/{id}/connections
func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	initiatorID := r.PathValue("id")

	if s.deps.ConnectUsersHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Connect handler not configured")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20)) // 1MB limit
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to read request body")
		return
	}
	defer r.Body.Close()

	var req connectRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload")
		return
	}

	cmd := command.ConnectUsersCommand{
		InitiatorID: initiatorID,
		TargetID:    req.UserID,
	}

	result, err := s.deps.ConnectUsersHandler.Handle(r.Context(), cmd)
	if err != nil {
		s.writeDomainError(w, r, err, "failed to connect users")
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// handleDisconnect handles DELETE /api/v1/users/{id}/connections/{target_id}
func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	initiatorID := r.PathValue("id")
	targetID := r.PathValue("target_id")

	if s.deps.DisconnectUsersHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Disconnect handler not configured")
		return
	}

	cmd := command.DisconnectUsersCommand{
		InitiatorID: initiatorID,
		TargetID:    targetID,
	}

	if _, err := s.deps.DisconnectUsersHandler.Handle(r.Context(), cmd); err != nil {
		s.writeDomainError(w, r, err, "failed to disconnect users")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING & PARAMETER PARSING
// ══════════════════════════════════════════════════════════════════════════════

// writeDomainError maps domain errors onto HTTP status codes.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error, logMsg string) {
	switch {
	case errors.Is(err, shared.ErrSelfConnection):
		writeJSONError(w, http.StatusUnprocessableEntity, "self_connection", "Cannot connect a user to themselves")
	case shared.IsValidation(err):
		writeJSONError(w, http.StatusBadRequest, "invalid_argument", err.Error())
	case shared.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case shared.IsAlreadyExists(err):
		writeJSONError(w, http.StatusConflict, "already_exists", err.Error())
	case shared.IsDataStore(err):
		s.logger.Error(logMsg, logger.Err(err), logger.String("request_id", getRequestID(r.Context())))
		writeJSONError(w, http.StatusServiceUnavailable, "store_unavailable", "Data store temporarily unavailable")
	default:
		s.logger.Error(logMsg, logger.Err(err), logger.String("request_id", getRequestID(r.Context())))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}

// queryInt parses an integer query parameter. A missing parameter yields the
// default; a malformed one writes a 400 response and returns ok=false.
func (s *Server) queryInt(w http.ResponseWriter, r *http.Request, key string, defaultValue int) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultValue, true
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_argument", key+" must be an integer")
		return 0, false
	}
	return value, true
}

// queryFloat parses a float query parameter with the same contract as queryInt.
func (s *Server) queryFloat(w http.ResponseWriter, r *http.Request, key string, defaultValue float64) (float64, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultValue, true
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_argument", key+" must be a number")
		return 0, false
	}
	return value, true
}
