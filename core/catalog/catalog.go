package catalog

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

// Service answers role-filtered catalog queries. Listings are ordered by
// creation time descending with id as a stable tiebreak, so repeated calls
// over unchanged data return identical output.
//
// Results are served through the Redis snapshot cache when available; a cold
// or absent cache falls through to the store.
type Service struct {
	users repository.UserRepository
	songs repository.SongRepository
}

// NewService creates a catalog service over the given repositories.
func NewService(users repository.UserRepository, songs repository.SongRepository) *Service {
	return &Service{users: users, songs: songs}
}

// ListVisibleSongs returns the approved catalog for any authenticated viewer,
// each entry enriched with artist details. Moderators use ReviewQueue for the
// pending view instead; approved songs look the same to every role.
func (s *Service) ListVisibleSongs(ctx context.Context, viewer auth.Session) ([]*model.CatalogSong, error) {
	if viewer.UserID == 0 {
		return nil, fmt.Errorf("no session presented: %w", apperr.ErrUnauthorized)
	}

	var cached []*model.CatalogSong
	if hit, err := cache.GetCatalog(ctx, cache.ViewApprovedSongs, &cached); err == nil && hit {
		return cached, nil
	} else if err != nil {
		logger.Warn("Catalog cache read failed", logger.ErrorField(err))
	}

	songs, err := s.songs.ListSongsWithArtist(ctx, model.StatusApproved)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}

	if err := cache.SetCatalog(ctx, cache.ViewApprovedSongs, songs); err != nil {
		logger.Warn("Catalog cache write failed", logger.ErrorField(err))
	}
	return songs, nil
}

// ReviewQueue returns pending songs with artist and uploader details.
// Moderators only.
func (s *Service) ReviewQueue(ctx context.Context, viewer auth.Session) ([]*model.ReviewSong, error) {
	if !viewer.IsAdmin() {
		return nil, fmt.Errorf("viewer role %s cannot access the review queue: %w", viewer.Role, apperr.ErrUnauthorized)
	}

	var cached []*model.ReviewSong
	if hit, err := cache.GetCatalog(ctx, cache.ViewPendingSongs, &cached); err == nil && hit {
		return cached, nil
	} else if err != nil {
		logger.Warn("Review queue cache read failed", logger.ErrorField(err))
	}

	songs, err := s.songs.ListSongsForReview(ctx, model.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}

	if err := cache.SetCatalog(ctx, cache.ViewPendingSongs, songs); err != nil {
		logger.Warn("Review queue cache write failed", logger.ErrorField(err))
	}
	return songs, nil
}

// ListDistributors returns all distributor accounts, newest first.
// Moderators only.
func (s *Service) ListDistributors(ctx context.Context, viewer auth.Session) ([]*model.User, error) {
	if !viewer.IsAdmin() {
		return nil, fmt.Errorf("viewer role %s cannot list distributors: %w", viewer.Role, apperr.ErrUnauthorized)
	}

	var cached []*model.User
	if hit, err := cache.GetCatalog(ctx, cache.ViewDistributors, &cached); err == nil && hit {
		return cached, nil
	} else if err != nil {
		logger.Warn("Distributor cache read failed", logger.ErrorField(err))
	}

	users, err := s.users.ListUsersByRole(ctx, model.RoleDistributor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}

	if err := cache.SetCatalog(ctx, cache.ViewDistributors, users); err != nil {
		logger.Warn("Distributor cache write failed", logger.ErrorField(err))
	}
	return users, nil
}
