package turnstile

import "context"

// ValidMockToken is the only token the [MockVerifier] accepts.
const ValidMockToken = "valid-mock-token"

// MockVerifier is a test double for [Verifier] mirroring Turnstile's
// documented dummy-key behavior: one known-good token, everything else
// rejected with invalid-input-response.
type MockVerifier struct {
	Calls int
}

// Verify accepts exactly [ValidMockToken].
func (m *MockVerifier) Verify(ctx context.Context, token, remoteIP string) Outcome {
	m.Calls++
	if token == ValidMockToken {
		return Outcome{Success: true}
	}
	return Outcome{Success: false, ErrorCodes: []string{"invalid-input-response"}}
}
