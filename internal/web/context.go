package web

import (
	"context"

	"github.com/listenupapp/bookshelf/internal/domain"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	contextKeyUser    contextKey = "user"
	contextKeySession contextKey = "session"
	contextKeyFlashes contextKey = "flashes"
)

// currentUser returns the logged-in user, or nil for anonymous requests.
func currentUser(ctx context.Context) *domain.User {
	user, _ := ctx.Value(contextKeyUser).(*domain.User)
	return user
}

// currentSession returns the session behind the request, or nil.
func currentSession(ctx context.Context) *domain.Session {
	session, _ := ctx.Value(contextKeySession).(*domain.Session)
	return session
}

func withIdentity(ctx context.Context, user *domain.User, session *domain.Session) context.Context {
	ctx = context.WithValue(ctx, contextKeyUser, user)
	return context.WithValue(ctx, contextKeySession, session)
}
