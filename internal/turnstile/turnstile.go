// package turnstile implements the bot-verification gate in front of sign-in.
//
// Wraps Cloudflare Turnstile's siteverify endpoint. Unlike the route guard,
// this gate fails closed: an unreachable verifier means the action is denied.
package turnstile

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pollsterfm/pollster/internal/shared"
)

const siteverifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

// Error code reported when the verifier itself could not be consulted.
const ErrCodeInternal = "internal-error"

// Outcome is the result of one verification attempt. Ephemeral, never persisted.
type Outcome struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes,omitempty"`
}

// Err converts a failed outcome into an error carrying the verifier's codes.
// A successful outcome has no error.
func (o Outcome) Err() error {
	if o.Success {
		return nil
	}
	return fmt.Errorf("%w: %s", shared.ErrVerificationFailed, strings.Join(o.ErrorCodes, ", "))
}

// Verifier validates a client-supplied challenge token.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) Outcome
}

// CloudflareVerifier calls the Turnstile siteverify endpoint with a
// form-encoded POST carrying the server-held secret.
type CloudflareVerifier struct {
	secret     string
	httpClient *http.Client
	endpoint   string
	logger     *log.Logger
}

// NewCloudflareVerifier creates a verifier with the given server-held secret.
func NewCloudflareVerifier(secret string, logger *log.Logger) (*CloudflareVerifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: turnstile secret is required", shared.ErrMissingCredentials)
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &CloudflareVerifier{
		secret:     secret,
		httpClient: http.DefaultClient,
		endpoint:   siteverifyURL,
		logger:     logger,
	}, nil
}

// Verify forwards the token to the verifier and interprets its reply.
//
// The verifier's error-codes array passes through verbatim on failure. A
// transport or decode failure is an explicit denial with an internal marker:
// treating it as success would defeat the gate's purpose.
func (v *CloudflareVerifier) Verify(ctx context.Context, token, remoteIP string) Outcome {
	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		v.logger.Error("failed to build siteverify request", "error", err)
		return Outcome{Success: false, ErrorCodes: []string{ErrCodeInternal}}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		v.logger.Warn("siteverify request failed", "error", err)
		return Outcome{Success: false, ErrorCodes: []string{ErrCodeInternal}}
	}
	defer resp.Body.Close()

	var outcome Outcome
	if err := json.NewDecoder(resp.Body).Decode(&outcome); err != nil {
		v.logger.Warn("failed to decode siteverify response", "error", err)
		return Outcome{Success: false, ErrorCodes: []string{ErrCodeInternal}}
	}

	return outcome
}

// Gate applies the environment bypass in front of a [Verifier].
//
// Outside production the gate always passes without contacting the verifier.
// The bypass is explicit: development and test environments have no site key
// to mint real tokens with.
type Gate struct {
	verifier   Verifier
	production bool
}

// NewGate creates a Gate over the given verifier.
func NewGate(verifier Verifier, production bool) *Gate {
	return &Gate{verifier: verifier, production: production}
}

// Check verifies the token, applying the non-production bypass.
func (g *Gate) Check(ctx context.Context, token, remoteIP string) Outcome {
	if !g.production {
		return Outcome{Success: true}
	}
	return g.verifier.Verify(ctx, token, remoteIP)
}
