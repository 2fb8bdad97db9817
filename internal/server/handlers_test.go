package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pollsterfm/pollster/internal/catalog"
	"github.com/pollsterfm/pollster/internal/models"
	"github.com/pollsterfm/pollster/internal/realtime"
	"github.com/pollsterfm/pollster/internal/shared"
	th "github.com/pollsterfm/pollster/internal/testing"
	"github.com/pollsterfm/pollster/internal/turnstile"
)

// fakeUserStore is an in-memory UserStore for handler tests.
type fakeUserStore struct {
	users map[string]*models.User
}

func (s *fakeUserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if user, ok := s.users[username]; ok {
		return user, nil
	}
	return nil, shared.ErrNotFound
}

func newTestAPI(t *testing.T, production bool) (*API, *fakeUserStore, *fakeSessionStore, *turnstile.MockVerifier) {
	t.Helper()

	alice := models.NewUser(1, "alice", "Alice")
	alice.SetID("user-alice")

	users := &fakeUserStore{users: map[string]*models.User{"alice": alice}}
	sessions := newFakeSessionStore()
	verifier := &turnstile.MockVerifier{}

	provider := &th.MockProvider{
		Artists: map[string]models.Artist{"Radiohead": {Name: "Radiohead"}},
	}
	resolver := catalog.NewResolver(th.NewMemoryCache(), provider, shared.NewLogger(nil))

	broker, err := realtime.NewHMACBroker("test-signing-key", time.Hour)
	if err != nil {
		t.Fatalf("failed to create broker: %v", err)
	}

	api := NewAPI(APIOpts{
		Gate:     turnstile.NewGate(verifier, production),
		Users:    users,
		Sessions: sessions,
		Resolver: resolver,
		Broker:   broker,
		Logger:   shared.NewLogger(nil),
	})

	return api, users, sessions, verifier
}

func TestVerifyTurnstile(t *testing.T) {
	t.Run("ValidToken", func(t *testing.T) {
		api, _, _, _ := newTestAPI(t, true)

		req := httptest.NewRequest(http.MethodPost, "/api/verify-turnstile",
			strings.NewReader(`{"token": "valid-mock-token"}`))
		rec := httptest.NewRecorder()
		api.VerifyTurnstile(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var body struct {
			Success bool `json:"success"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if !body.Success {
			t.Error("expected success")
		}
	})

	t.Run("InvalidToken", func(t *testing.T) {
		api, _, _, _ := newTestAPI(t, true)

		req := httptest.NewRequest(http.MethodPost, "/api/verify-turnstile",
			strings.NewReader(`{"token": "bogus"}`))
		rec := httptest.NewRecorder()
		api.VerifyTurnstile(rec, req)

		var body struct {
			Success bool     `json:"success"`
			Error   []string `json:"error"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if body.Success {
			t.Error("expected failure")
		}
		if len(body.Error) == 0 || body.Error[0] != "invalid-input-response" {
			t.Errorf("expected invalid-input-response, got %v", body.Error)
		}
	})

	t.Run("MissingToken", func(t *testing.T) {
		api, _, _, _ := newTestAPI(t, true)

		req := httptest.NewRequest(http.MethodPost, "/api/verify-turnstile", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		api.VerifyTurnstile(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("NonProductionBypass", func(t *testing.T) {
		api, _, _, verifier := newTestAPI(t, false)

		req := httptest.NewRequest(http.MethodPost, "/api/verify-turnstile",
			strings.NewReader(`{"token": "anything"}`))
		rec := httptest.NewRecorder()
		api.VerifyTurnstile(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if verifier.Calls != 0 {
			t.Errorf("expected verifier never consulted outside production, got %d calls", verifier.Calls)
		}
	})
}

func TestProfile(t *testing.T) {
	t.Run("KnownUser", func(t *testing.T) {
		api, _, _, _ := newTestAPI(t, false)

		req := httptest.NewRequest(http.MethodGet, "/api/user/alice/profile", nil)
		req.SetPathValue("username", "alice")
		rec := httptest.NewRecorder()
		api.Profile(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var profile models.Profile
		if err := json.NewDecoder(rec.Body).Decode(&profile); err != nil {
			t.Fatalf("failed to decode profile: %v", err)
		}
		if profile.Username != "alice" || profile.DisplayName != "Alice" {
			t.Errorf("unexpected profile: %+v", profile)
		}
	})

	t.Run("UnknownUser", func(t *testing.T) {
		api, _, _, _ := newTestAPI(t, false)

		req := httptest.NewRequest(http.MethodGet, "/api/user/nobody/profile", nil)
		req.SetPathValue("username", "nobody")
		rec := httptest.NewRecorder()
		api.Profile(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if body["error"] != "User not found" {
			t.Errorf("expected 'User not found', got %q", body["error"])
		}
	})
}

func TestSignIn(t *testing.T) {
	t.Run("GateRunsBeforeLookup", func(t *testing.T) {
		api, _, _, _ := newTestAPI(t, true)

		req := httptest.NewRequest(http.MethodPost, "/api/sign-in",
			strings.NewReader(`{"username": "alice", "turnstile_token": "bogus"}`))
		rec := httptest.NewRecorder()
		api.SignIn(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Errorf("expected 403 when verification fails, got %d", rec.Code)
		}
	})

	t.Run("SuccessSetsSessionCookie", func(t *testing.T) {
		api, _, sessions, _ := newTestAPI(t, true)

		req := httptest.NewRequest(http.MethodPost, "/api/sign-in",
			strings.NewReader(`{"username": "alice", "turnstile_token": "valid-mock-token"}`))
		rec := httptest.NewRecorder()
		api.SignIn(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var sessionCookie *http.Cookie
		for _, cookie := range rec.Result().Cookies() {
			if cookie.Name == SessionCookie {
				sessionCookie = cookie
			}
		}
		if sessionCookie == nil || sessionCookie.Value == "" {
			t.Fatal("expected session cookie")
		}
		if !sessionCookie.HttpOnly {
			t.Error("expected HttpOnly cookie")
		}

		if _, err := sessions.Get(context.Background(), sessionCookie.Value); err != nil {
			t.Errorf("expected persisted session: %v", err)
		}
	})

	t.Run("UnknownUser", func(t *testing.T) {
		api, _, _, _ := newTestAPI(t, false)

		req := httptest.NewRequest(http.MethodPost, "/api/sign-in",
			strings.NewReader(`{"username": "nobody"}`))
		rec := httptest.NewRecorder()
		api.SignIn(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})
}

func TestSignOut(t *testing.T) {
	api, _, sessions, _ := newTestAPI(t, false)
	session, _ := sessions.Create(context.Background(), "user-alice")

	req := httptest.NewRequest(http.MethodPost, "/api/sign-out", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: session.ID})
	rec := httptest.NewRecorder()
	api.SignOut(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	if _, err := sessions.Get(context.Background(), session.ID); err == nil {
		t.Error("expected session deleted")
	}

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == SessionCookie && cookie.MaxAge >= 0 {
			t.Error("expected cookie cleared")
		}
	}
}

func TestResolveCatalog(t *testing.T) {
	t.Run("ResolvesArtist", func(t *testing.T) {
		api, _, _, _ := newTestAPI(t, false)

		req := httptest.NewRequest(http.MethodGet, "/api/catalog/resolve?artist=Radiohead", nil)
		rec := httptest.NewRecorder()
		api.ResolveCatalog(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var chain catalog.ChainResult
		if err := json.NewDecoder(rec.Body).Decode(&chain); err != nil {
			t.Fatalf("failed to decode chain: %v", err)
		}
		if chain.Artist == nil || chain.Artist.Name != "Radiohead" {
			t.Errorf("unexpected chain: %+v", chain)
		}
	})

	t.Run("MissingArtistParam", func(t *testing.T) {
		api, _, _, _ := newTestAPI(t, false)

		req := httptest.NewRequest(http.MethodGet, "/api/catalog/resolve", nil)
		rec := httptest.NewRecorder()
		api.ResolveCatalog(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("UnknownArtist", func(t *testing.T) {
		api, _, _, _ := newTestAPI(t, false)

		req := httptest.NewRequest(http.MethodGet, "/api/catalog/resolve?artist=Nobody", nil)
		rec := httptest.NewRecorder()
		api.ResolveCatalog(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})
}

func TestRealtimeToken(t *testing.T) {
	t.Run("RequiresSession", func(t *testing.T) {
		api, _, _, _ := newTestAPI(t, false)

		req := httptest.NewRequest(http.MethodPost, "/api/realtime/token", nil)
		rec := httptest.NewRecorder()
		api.RealtimeToken(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("IssuesTokenForSession", func(t *testing.T) {
		api, _, sessions, _ := newTestAPI(t, false)
		session, _ := sessions.Create(context.Background(), "user-alice")

		req := httptest.NewRequest(http.MethodPost, "/api/realtime/token", strings.NewReader(`{}`))
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: session.ID})
		rec := httptest.NewRecorder()
		api.RealtimeToken(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var result realtime.TokenResult
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("failed to decode token: %v", err)
		}
		if result.Token == "" {
			t.Error("expected non-empty token")
		}
		if !result.Expires.After(time.Now()) {
			t.Error("expected future expiry")
		}
	})
}
