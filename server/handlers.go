package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"dhun/config"
	"dhun/core/apperr"
	"dhun/core/auth"
	"dhun/core/catalog"
	"dhun/core/workflow"
	"dhun/logger"
	"dhun/repository"
)

// APIHandler holds the dependencies shared by all HTTP handlers.
type APIHandler struct {
	userRepo repository.UserRepository
	songRepo repository.SongRepository
	workflow *workflow.Engine
	catalog  *catalog.Service
	tokens   *auth.TokenIssuer
	cfg      *config.Config
}

// NewAPIHandler creates the API handler set.
func NewAPIHandler(
	userRepo repository.UserRepository,
	songRepo repository.SongRepository,
	engine *workflow.Engine,
	catalogSvc *catalog.Service,
	tokens *auth.TokenIssuer,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		userRepo: userRepo,
		songRepo: songRepo,
		workflow: engine,
		catalog:  catalogSvc,
		tokens:   tokens,
		cfg:      cfg,
	}
}

// respondJSON writes v as a JSON response.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", logger.ErrorField(err))
	}
}

// respondError writes a JSON error body.
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// respondDomainError maps the error taxonomy to HTTP status codes. Internal
// detail stays in the server log; the client sees a generic message.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperr.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, apperr.ErrInvalidArgument):
		respondError(w, http.StatusBadRequest, "Invalid request")
	case errors.Is(err, apperr.ErrNotFound):
		respondError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, apperr.ErrConflict):
		respondError(w, http.StatusConflict, "Conflict")
	default:
		logger.Error("Request failed", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
