package shared

import (
	"errors"
	"strings"
	"testing"
)

func TestOpenBrowser(t *testing.T) {
	t.Run("rejects non-http schemes", func(t *testing.T) {
		for _, rawURL := range []string{"file:///etc/passwd", "ftp://host/file", "not a url", ""} {
			err := OpenBrowser(rawURL)
			if err == nil {
				t.Errorf("expected error for %q", rawURL)
				continue
			}
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument for %q, got %v", rawURL, err)
			}
		}
	})

	t.Run("rejects unsupported platforms", func(t *testing.T) {
		original := getRuntime
		getRuntime = func() string { return "plan9" }
		defer func() { getRuntime = original }()

		err := OpenBrowser("http://localhost:8080")
		if err == nil {
			t.Fatal("expected error for unsupported platform")
		}
		if !strings.Contains(err.Error(), "unsupported platform") {
			t.Errorf("expected unsupported platform error, got %v", err)
		}
	})
}
