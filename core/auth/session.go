package auth

import (
	"context"
	"fmt"

	"dhun/model"
)

// Session identifies the actor behind a request. Authorization decisions are
// pure functions of the session, never of ambient globals.
type Session struct {
	UserID int64
	Role   model.Role
	Status model.Status
}

// IsAdmin reports whether the session belongs to an administrator.
func (s Session) IsAdmin() bool {
	return s.Role == model.RoleAdmin
}

// CanSubmitSongs reports whether the session may submit songs for review.
// Only approved content-creator accounts qualify.
func (s Session) CanSubmitSongs() bool {
	if s.Status != model.StatusApproved {
		return false
	}
	return s.Role == model.RoleDistributor || s.Role == model.RoleArtist
}

type sessionContextKey struct{}

// WithSession returns a context carrying the session.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, s)
}

// SessionFromContext extracts the session placed by the auth middleware.
func SessionFromContext(ctx context.Context) (Session, error) {
	s, ok := ctx.Value(sessionContextKey{}).(Session)
	if !ok {
		return Session{}, fmt.Errorf("session not found in context")
	}
	return s, nil
}
