package server

import (
	"encoding/json"
	"net/http"

	"dhun/cache"
	"dhun/core/auth"
	"dhun/logger"
	"dhun/model"
)

// GetSongsHandler lists the approved catalog for the authenticated viewer.
func (h *APIHandler) GetSongsHandler(w http.ResponseWriter, r *http.Request) {
	session, err := auth.SessionFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	songs, err := h.catalog.ListVisibleSongs(r.Context(), session)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, songs)
}

// SubmitSongRequest is the song submission body. File and cover uploads
// happen elsewhere; this endpoint records the resulting URLs.
type SubmitSongRequest struct {
	Title     string  `json:"title"`
	AlbumName string  `json:"albumName"`
	FileURL   string  `json:"fileUrl"`
	CoverURL  string  `json:"coverUrl"`
	Duration  float64 `json:"duration"`
	ArtistID  int64   `json:"artistId"`
}

// SubmitSongHandler accepts a song submission from an approved content
// creator. Submissions always enter the review queue as PENDING.
func (h *APIHandler) SubmitSongHandler(w http.ResponseWriter, r *http.Request) {
	session, err := auth.SessionFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if !session.CanSubmitSongs() {
		respondError(w, http.StatusUnauthorized, "Only approved distributor or artist accounts can submit songs")
		return
	}

	var req SubmitSongRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Title == "" || req.FileURL == "" {
		respondError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if req.Duration < 0 {
		respondError(w, http.StatusBadRequest, "Duration must be non-negative")
		return
	}

	artistID := req.ArtistID
	if artistID == 0 {
		// Self-published: the submitter is the artist.
		artistID = session.UserID
	}

	song := &model.Song{
		Title:        req.Title,
		ArtistID:     artistID,
		AlbumName:    req.AlbumName,
		FileURL:      req.FileURL,
		CoverURL:     req.CoverURL,
		Duration:     req.Duration,
		Status:       model.StatusPending,
		UploadedByID: session.UserID,
	}

	songID, err := h.songRepo.CreateSong(r.Context(), song)
	if err != nil {
		logger.Error("[Submit] Failed to create song", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to create song")
		return
	}
	song.ID = songID

	if err := cache.InvalidateCatalog(r.Context(), cache.ViewPendingSongs); err != nil {
		logger.Warn("[Submit] Failed to invalidate pending cache", logger.ErrorField(err))
	}

	logger.Info("[Submit] Song submitted for review",
		logger.Int64("songId", songID),
		logger.Int64("uploadedBy", session.UserID))

	respondJSON(w, http.StatusCreated, song)
}
