package server

import (
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pollsterfm/pollster/internal/shared"
)

// SignInPath is the redirect target for unauthenticated protected requests.
const SignInPath = "/sign-in"

// DefaultProtectedPrefixes lists the path prefixes that require a session.
var DefaultProtectedPrefixes = []string{"/profile", "/account-settings"}

// RouteGuard is the perimeter check run on every request: classify the path,
// resolve the session, then pass or redirect. A pure per-request function; no
// state persists across requests.
type RouteGuard struct {
	resolver *SessionResolver
	// prefixes sorted longest-first so the most specific classification wins.
	prefixes []string
	logger   *log.Logger
}

// NewRouteGuard creates a guard over the given resolver and protected prefixes.
// Unmatched paths default to public.
func NewRouteGuard(resolver *SessionResolver, prefixes []string, logger *log.Logger) *RouteGuard {
	if len(prefixes) == 0 {
		prefixes = DefaultProtectedPrefixes
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	sorted := make([]string, len(prefixes))
	copy(sorted, prefixes)
	sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	return &RouteGuard{
		resolver: resolver,
		prefixes: sorted,
		logger:   logger,
	}
}

// Protected reports whether the path classifies as protected.
func (g *RouteGuard) Protected(path string) bool {
	for _, prefix := range g.prefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// Middleware returns the guard as router [Middleware].
//
// Protected path without a session redirects to the sign-in page with the
// original path attached for post-login return navigation. An internal
// failure while resolving the session is logged and treated as allow: the
// guard fails open so an identity-provider blip cannot take down every
// protected page. This is a deliberate availability-over-strictness tradeoff,
// applied uniformly.
func (g *RouteGuard) Middleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !g.Protected(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			session, err := g.resolver.Resolve(r)
			if err != nil {
				g.logger.Error("session resolution failed, allowing request", "path", r.URL.Path, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			if session == nil {
				original := r.URL.Path
				if r.URL.RawQuery != "" {
					original += "?" + r.URL.RawQuery
				}

				target := SignInPath + "?redirect=" + url.QueryEscape(original)
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}
