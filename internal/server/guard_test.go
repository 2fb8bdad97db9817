package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/pollsterfm/pollster/internal/models"
	"github.com/pollsterfm/pollster/internal/shared"
)

// fakeSessionStore is an in-memory SessionStore for middleware tests.
type fakeSessionStore struct {
	sessions map[string]*models.Session
	getErr   error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]*models.Session{}}
}

func (s *fakeSessionStore) Create(ctx context.Context, userID string) (*models.Session, error) {
	session := &models.Session{
		ID:        shared.GenerateID(),
		UserID:    userID,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	s.sessions[session.ID] = session
	return session, nil
}

func (s *fakeSessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if session, ok := s.sessions[id]; ok {
		return session, nil
	}
	return nil, shared.ErrNotFound
}

func (s *fakeSessionStore) Delete(ctx context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

func newTestGuard(store SessionStore) *RouteGuard {
	return NewRouteGuard(NewSessionResolver(store), nil, shared.NewLogger(nil))
}

func TestRouteGuardClassification(t *testing.T) {
	guard := newTestGuard(newFakeSessionStore())

	t.Run("ProtectedPrefixes", func(t *testing.T) {
		for _, path := range []string{"/profile", "/profile/alice", "/account-settings", "/account-settings/privacy"} {
			if !guard.Protected(path) {
				t.Errorf("expected %s to be protected", path)
			}
		}
	})

	t.Run("PublicPaths", func(t *testing.T) {
		for _, path := range []string{"/", "/sign-in", "/about", "/profiles", "/profilestuff"} {
			if guard.Protected(path) {
				t.Errorf("expected %s to be public", path)
			}
		}
	})
}

func TestRouteGuardMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("PublicPathPassesWithoutSession", func(t *testing.T) {
		guard := newTestGuard(newFakeSessionStore())
		handler := guard.Middleware()(next)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/about", nil))

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("ProtectedPathRedirectsWithoutSession", func(t *testing.T) {
		guard := newTestGuard(newFakeSessionStore())
		handler := guard.Middleware()(next)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile/alice", nil))

		if rec.Code != http.StatusSeeOther {
			t.Fatalf("expected 303, got %d", rec.Code)
		}

		location := rec.Header().Get("Location")
		want := SignInPath + "?redirect=" + url.QueryEscape("/profile/alice")
		if location != want {
			t.Errorf("expected redirect to %s, got %s", want, location)
		}
	})

	t.Run("RedirectPreservesQuery", func(t *testing.T) {
		guard := newTestGuard(newFakeSessionStore())
		handler := guard.Middleware()(next)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/account-settings?tab=privacy", nil))

		location := rec.Header().Get("Location")
		want := SignInPath + "?redirect=" + url.QueryEscape("/account-settings?tab=privacy")
		if location != want {
			t.Errorf("expected redirect to %s, got %s", want, location)
		}
	})

	t.Run("ValidSessionPassesWithContext", func(t *testing.T) {
		store := newFakeSessionStore()
		session, _ := store.Create(context.Background(), "user-1")
		guard := newTestGuard(store)

		var seen *models.Session
		handler := guard.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = SessionFrom(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/profile", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: session.ID})

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if seen == nil || seen.UserID != "user-1" {
			t.Errorf("expected session in request context, got %+v", seen)
		}
	})

	t.Run("ResolverFailureFailsOpen", func(t *testing.T) {
		store := newFakeSessionStore()
		store.getErr = errors.New("store unreachable")
		guard := newTestGuard(store)
		handler := guard.Middleware()(next)

		req := httptest.NewRequest(http.MethodGet, "/profile", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "anything"})

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected fail-open pass, got %d", rec.Code)
		}
	})

	t.Run("UnknownSessionRedirects", func(t *testing.T) {
		guard := newTestGuard(newFakeSessionStore())
		handler := guard.Middleware()(next)

		req := httptest.NewRequest(http.MethodGet, "/profile", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "stale-token"})

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusSeeOther {
			t.Errorf("expected 303 for unknown session, got %d", rec.Code)
		}
	})
}
