package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/pollsterfm/pollster/internal/models"
	"github.com/pollsterfm/pollster/internal/shared"
)

// SessionCookie is the cookie carrying the opaque session token.
const SessionCookie = "pollster_session"

type contextKey int

const sessionContextKey contextKey = iota

// SessionStore is the session lookup surface the resolver and handlers need.
type SessionStore interface {
	Create(ctx context.Context, userID string) (*models.Session, error)
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}

// SessionResolver resolves the current request's authenticated identity from
// the session cookie. Stateless per request: identity always travels through
// the request context, never through package globals.
type SessionResolver struct {
	store SessionStore
}

// NewSessionResolver creates a resolver over the given store.
func NewSessionResolver(store SessionStore) *SessionResolver {
	return &SessionResolver{store: store}
}

// Resolve returns the request's session, or nil when the request carries no
// valid session. Absence and expiry are normal outcomes, not errors; only an
// internal store failure returns a non-nil error.
func (sr *SessionResolver) Resolve(r *http.Request) (*models.Session, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	session, err := sr.store.Get(r.Context(), cookie.Value)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return session, nil
}

// WithSession returns a request context carrying the session.
func WithSession(ctx context.Context, session *models.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

// SessionFrom extracts the session from a request context, if present.
func SessionFrom(ctx context.Context) *models.Session {
	session, _ := ctx.Value(sessionContextKey).(*models.Session)
	return session
}
