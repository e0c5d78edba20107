package workflow

import (
	"context"
	"fmt"

	"dhun/cache"
	"dhun/core/apperr"
	"dhun/core/auth"
	"dhun/logger"
	"dhun/model"
	"dhun/repository"
)

// Engine applies approval status transitions to users and songs. Every call
// authorizes against the explicit actor session before touching storage, and
// mutates exactly one field of one record.
type Engine struct {
	users repository.UserRepository
	songs repository.SongRepository
}

// NewEngine creates a workflow engine over the given repositories.
func NewEngine(users repository.UserRepository, songs repository.SongRepository) *Engine {
	return &Engine{users: users, songs: songs}
}

// validateTransition checks the actor and requested status. It runs before
// any record is read so unauthorized callers observe no storage access.
func validateTransition(actor auth.Session, status model.Status) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("actor role %s cannot moderate: %w", actor.Role, apperr.ErrUnauthorized)
	}
	if status != model.StatusApproved && status != model.StatusRejected {
		return fmt.Errorf("status %q is not a valid moderation decision: %w", status, apperr.ErrInvalidArgument)
	}
	return nil
}

// SetUserStatus applies a moderation decision to a user account. Re-applying
// the current status is a no-op that still reports success.
func (e *Engine) SetUserStatus(ctx context.Context, actor auth.Session, userID int64, status model.Status) (*model.User, error) {
	if err := validateTransition(actor, status); err != nil {
		return nil, err
	}

	user, err := e.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %d: %w", userID, apperr.ErrNotFound)
	}

	if user.Status != status {
		if err := e.users.UpdateUserStatus(ctx, userID, status); err != nil {
			return nil, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
		}
		user.Status = status
	}

	if err := cache.InvalidateCatalog(ctx, cache.ViewDistributors); err != nil {
		logger.Warn("Failed to invalidate distributor cache", logger.ErrorField(err))
	}

	logger.Info("User status updated",
		logger.Int64("userId", userID),
		logger.String("status", string(status)),
		logger.Int64("actorId", actor.UserID))
	return user, nil
}

// SetSongStatus applies a moderation decision to a song.
func (e *Engine) SetSongStatus(ctx context.Context, actor auth.Session, songID int64, status model.Status) (*model.Song, error) {
	if err := validateTransition(actor, status); err != nil {
		return nil, err
	}

	song, err := e.songs.GetSongByID(ctx, songID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}
	if song == nil {
		return nil, fmt.Errorf("song %d: %w", songID, apperr.ErrNotFound)
	}

	if song.Status != status {
		if err := e.songs.UpdateSongStatus(ctx, songID, status); err != nil {
			return nil, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
		}
		song.Status = status
	}

	// Both catalog views can change when a song moves out of PENDING.
	if err := cache.InvalidateCatalog(ctx, cache.ViewApprovedSongs, cache.ViewPendingSongs); err != nil {
		logger.Warn("Failed to invalidate song caches", logger.ErrorField(err))
	}

	logger.Info("Song status updated",
		logger.Int64("songId", songID),
		logger.String("status", string(status)),
		logger.Int64("actorId", actor.UserID))
	return song, nil
}
