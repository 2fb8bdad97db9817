package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pollsterfm/pollster/internal/catalog"
	"github.com/pollsterfm/pollster/internal/models"
	"github.com/pollsterfm/pollster/internal/realtime"
	"github.com/pollsterfm/pollster/internal/shared"
	"github.com/pollsterfm/pollster/internal/turnstile"
)

// UserStore is the user lookup surface the handlers need.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// API bundles the service's HTTP endpoints and their dependencies.
type API struct {
	gate     *turnstile.Gate
	users    UserStore
	sessions SessionStore
	resolver *catalog.Resolver
	broker   realtime.Broker
	logger   *log.Logger
}

// APIOpts contains dependencies for creating an API.
type APIOpts struct {
	Gate     *turnstile.Gate
	Users    UserStore
	Sessions SessionStore
	Resolver *catalog.Resolver
	Broker   realtime.Broker
	Logger   *log.Logger
}

// NewAPI creates an API with the provided dependencies.
func NewAPI(opts APIOpts) *API {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &API{
		gate:     opts.Gate,
		users:    opts.Users,
		sessions: opts.Sessions,
		resolver: opts.Resolver,
		broker:   opts.Broker,
		logger:   opts.Logger,
	}
}

// Register attaches every endpoint to the router.
func (a *API) Register(router Router) {
	router.Handle(http.MethodPost, "/api/verify-turnstile", http.HandlerFunc(a.VerifyTurnstile))
	router.Handle(http.MethodGet, "/api/user/{username}/profile", http.HandlerFunc(a.Profile))
	router.Handle(http.MethodPost, "/api/sign-in", http.HandlerFunc(a.SignIn))
	router.Handle(http.MethodPost, "/api/sign-out", http.HandlerFunc(a.SignOut))
	router.Handle(http.MethodGet, "/api/catalog/resolve", http.HandlerFunc(a.ResolveCatalog))
	router.Handle(http.MethodPost, "/api/realtime/token", http.HandlerFunc(a.RealtimeToken))
}

func (a *API) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		a.logger.Error("failed to encode response", "error", err)
	}
}

func (a *API) writeError(w http.ResponseWriter, status int, message string) {
	a.writeJSON(w, status, map[string]string{"error": message})
}

type verifyRequest struct {
	Token string `json:"token"`
}

type verifyResponse struct {
	Success bool     `json:"success"`
	Error   []string `json:"error,omitempty"`
}

// VerifyTurnstile handles POST /api/verify-turnstile.
//
// Forwards the client challenge token through the verification gate. The
// gate's environment bypass and fail-closed semantics live in the turnstile
// package; this handler only shapes the wire response.
func (a *API) VerifyTurnstile(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		a.writeJSON(w, http.StatusBadRequest, verifyResponse{Success: false, Error: []string{"missing-input-response"}})
		return
	}

	outcome := a.gate.Check(r.Context(), req.Token, remoteIP(r))
	if !outcome.Success {
		a.writeJSON(w, http.StatusOK, verifyResponse{Success: false, Error: outcome.ErrorCodes})
		return
	}

	a.writeJSON(w, http.StatusOK, verifyResponse{Success: true})
}

// Profile handles GET /api/user/{username}/profile.
func (a *API) Profile(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	if username == "" {
		a.writeError(w, http.StatusBadRequest, "Username is required")
		return
	}

	user, err := a.users.GetByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			a.writeError(w, http.StatusNotFound, "User not found")
			return
		}
		a.logger.Error("profile lookup failed", "username", username, "error", err)
		a.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	a.writeJSON(w, http.StatusOK, user.Profile())
}

type signInRequest struct {
	Username       string `json:"username"`
	TurnstileToken string `json:"turnstile_token"`
}

// SignIn handles POST /api/sign-in.
//
// The verification gate runs before any session exists; a rejected token
// never reaches the identity lookup.
func (a *API) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		a.writeError(w, http.StatusBadRequest, "Username is required")
		return
	}

	outcome := a.gate.Check(r.Context(), req.TurnstileToken, remoteIP(r))
	if !outcome.Success {
		a.logger.Warn("sign-in rejected", "username", req.Username, "error", outcome.Err())
		a.writeJSON(w, http.StatusForbidden, verifyResponse{Success: false, Error: outcome.ErrorCodes})
		return
	}

	user, err := a.users.GetByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			a.writeError(w, http.StatusNotFound, "User not found")
			return
		}
		a.logger.Error("sign-in lookup failed", "username", req.Username, "error", err)
		a.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	session, err := a.sessions.Create(r.Context(), user.ID())
	if err != nil {
		a.logger.Error("failed to create session", "username", req.Username, "error", err)
		a.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    session.ID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	a.writeJSON(w, http.StatusOK, user.Profile())
}

// SignOut handles POST /api/sign-out.
func (a *API) SignOut(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		if err := a.sessions.Delete(r.Context(), cookie.Value); err != nil {
			a.logger.Error("failed to delete session", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	w.WriteHeader(http.StatusNoContent)
}

// ResolveCatalog handles GET /api/catalog/resolve.
//
// Query parameters: artist (required), album, track. The resolver enforces
// the artist-before-album-before-track ordering; a NotFound anywhere in the
// chain surfaces as a single 404.
func (a *API) ResolveCatalog(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	artistName := query.Get("artist")
	albumName := query.Get("album")
	trackName := query.Get("track")

	if artistName == "" {
		a.writeError(w, http.StatusBadRequest, "Artist name is required")
		return
	}

	chain, err := a.resolver.ResolveChain(r.Context(), artistName, albumName, trackName)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			a.writeError(w, http.StatusNotFound, "Not found")
			return
		}
		if errors.Is(err, shared.ErrMissingArgument) || errors.Is(err, shared.ErrInvalidArgument) {
			a.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		a.logger.Error("catalog resolution failed", "artist", artistName, "error", err)
		a.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	a.writeJSON(w, http.StatusOK, chain)
}

type realtimeTokenRequest struct {
	Capability string `json:"capability,omitempty"`
	TTL        int    `json:"ttl,omitempty"` // seconds
}

// RealtimeToken handles POST /api/realtime/token.
//
// Issues a messaging token for the authenticated client. Token issuance is an
// explicit request/response exchange; failure surfaces as a typed error
// response rather than disappearing into an SDK callback.
func (a *API) RealtimeToken(w http.ResponseWriter, r *http.Request) {
	resolver := NewSessionResolver(a.sessions)
	session, err := resolver.Resolve(r)
	if err != nil {
		a.logger.Error("session resolution failed", "error", err)
		a.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if session == nil {
		a.writeError(w, http.StatusUnauthorized, "Sign in required")
		return
	}

	var req realtimeTokenRequest
	// Body is optional; defaults apply when absent.
	_ = json.NewDecoder(r.Body).Decode(&req)

	result, err := a.broker.IssueToken(realtime.TokenRequest{
		ClientID:   session.UserID,
		Capability: req.Capability,
		TTL:        time.Duration(req.TTL) * time.Second,
	})
	if err != nil {
		a.logger.Error("token issuance failed", "user", session.UserID, "error", err)
		a.writeError(w, http.StatusInternalServerError, "Token issuance failed")
		return
	}

	a.writeJSON(w, http.StatusOK, result)
}

// remoteIP extracts the client address without the port.
func remoteIP(r *http.Request) string {
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx > 0 {
		addr = addr[:idx]
	}
	return addr
}
