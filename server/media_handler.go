package server

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"dhun/logger"
	"dhun/storage"
)

// MediaHandler streams a song or cover object out of the MinIO bucket.
// Routed as a path prefix: /media/{object path}.
func (h *APIHandler) MediaHandler(w http.ResponseWriter, r *http.Request) {
	objectPath := strings.TrimPrefix(r.URL.Path, "/media/")
	if objectPath == "" {
		respondError(w, http.StatusBadRequest, "Missing object path")
		return
	}

	object, info, err := storage.OpenObject(r.Context(), objectPath)
	if err != nil {
		logger.Warn("Media object not available",
			logger.String("object", objectPath),
			logger.ErrorField(err))
		respondError(w, http.StatusNotFound, "File not found")
		return
	}
	defer object.Close()

	contentType := info.ContentType
	if contentType == "" {
		switch {
		case strings.HasSuffix(objectPath, ".mp3"):
			contentType = "audio/mpeg"
		case strings.HasSuffix(objectPath, ".flac"):
			contentType = "audio/flac"
		case strings.HasSuffix(objectPath, ".jpg"), strings.HasSuffix(objectPath, ".jpeg"):
			contentType = "image/jpeg"
		case strings.HasSuffix(objectPath, ".png"):
			contentType = "image/png"
		default:
			contentType = "application/octet-stream"
		}
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	w.Header().Set("Accept-Ranges", "bytes")

	if _, err := io.Copy(w, object); err != nil {
		logger.Warn("Media stream interrupted",
			logger.String("object", objectPath),
			logger.ErrorField(err))
	}
}
