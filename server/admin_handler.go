package server

import (
	"encoding/json"
	"net/http"

	"dhun/core/auth"
	"dhun/model"
)

// StatusPatchRequest carries a moderation decision for a user or a song.
type StatusPatchRequest struct {
	UserID int64        `json:"userId"`
	SongID int64        `json:"songId"`
	Status model.Status `json:"status"`
}

// GetDistributorsHandler lists distributor accounts for the admin console.
func (h *APIHandler) GetDistributorsHandler(w http.ResponseWriter, r *http.Request) {
	session, err := auth.SessionFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	users, err := h.catalog.ListDistributors(r.Context(), session)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, users)
}

// UpdateDistributorHandler applies an approval decision to a user account.
func (h *APIHandler) UpdateDistributorHandler(w http.ResponseWriter, r *http.Request) {
	session, err := auth.SessionFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req StatusPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == 0 || req.Status == "" {
		respondError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	user, err := h.workflow.SetUserStatus(r.Context(), session, req.UserID, req.Status)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// GetPendingSongsHandler lists the review queue for the admin console.
func (h *APIHandler) GetPendingSongsHandler(w http.ResponseWriter, r *http.Request) {
	session, err := auth.SessionFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	songs, err := h.catalog.ReviewQueue(r.Context(), session)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, songs)
}

// UpdateSongHandler applies a moderation decision to a song.
func (h *APIHandler) UpdateSongHandler(w http.ResponseWriter, r *http.Request) {
	session, err := auth.SessionFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req StatusPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.SongID == 0 || req.Status == "" {
		respondError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	song, err := h.workflow.SetSongStatus(r.Context(), session, req.SongID, req.Status)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, song)
}
