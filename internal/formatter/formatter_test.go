package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/pollsterfm/pollster/internal/catalog"
	"github.com/pollsterfm/pollster/internal/models"
)

func TestFormatTrackDuration(t *testing.T) {
	cases := map[int]string{
		0:       "0:00",
		999:     "0:00",
		1000:    "0:01",
		65000:   "1:05",
		60000:   "1:00",
		284000:  "4:44",
		600000:  "10:00",
		3600000: "1:00:00",
		3665000: "1:01:05",
		-5000:   "0:00",
	}

	for ms, want := range cases {
		if got := FormatTrackDuration(ms); got != want {
			t.Errorf("FormatTrackDuration(%d) = %q, want %q", ms, got, want)
		}
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	t.Run("JustNow", func(t *testing.T) {
		if got := RelativeTime(now, now.Add(-30*time.Second)); got != "just now" {
			t.Errorf("expected 'just now', got %q", got)
		}
	})

	t.Run("Minutes", func(t *testing.T) {
		if got := RelativeTime(now, now.Add(-time.Minute)); got != "1 minute ago" {
			t.Errorf("expected '1 minute ago', got %q", got)
		}
		if got := RelativeTime(now, now.Add(-5*time.Minute)); got != "5 minutes ago" {
			t.Errorf("expected '5 minutes ago', got %q", got)
		}
	})

	t.Run("Hours", func(t *testing.T) {
		if got := RelativeTime(now, now.Add(-time.Hour)); got != "1 hour ago" {
			t.Errorf("expected '1 hour ago', got %q", got)
		}
		if got := RelativeTime(now, now.Add(-23*time.Hour)); got != "23 hours ago" {
			t.Errorf("expected '23 hours ago', got %q", got)
		}
	})

	t.Run("AbsoluteBeyondOneDay", func(t *testing.T) {
		got := RelativeTime(now, now.Add(-25*time.Hour))
		if strings.Contains(got, "ago") {
			t.Errorf("expected absolute form, got %q", got)
		}
		if !strings.Contains(got, "2026") {
			t.Errorf("expected year in absolute form, got %q", got)
		}
	})
}

func TestChainMarkdown(t *testing.T) {
	chain := &catalog.ChainResult{
		Artist: &models.Artist{Name: "Radiohead", Genres: []string{"rock"}},
		Album:  &models.Album{Name: "OK Computer", ReleaseDate: "1997-05-21", TotalTracks: 12},
		Track:  &models.Track{Name: "Airbag", DurationMS: 284000},
	}

	output := string(ChainMarkdown(chain))

	if !strings.Contains(output, "# Radiohead") {
		t.Errorf("missing artist heading: %s", output)
	}
	if !strings.Contains(output, "## OK Computer") {
		t.Errorf("missing album heading: %s", output)
	}
	if !strings.Contains(output, "Airbag [4:44]") {
		t.Errorf("missing track line with duration: %s", output)
	}
}

func TestChainJSON(t *testing.T) {
	chain := &catalog.ChainResult{
		Artist: &models.Artist{Name: "Radiohead"},
	}

	data, err := ChainJSON(chain, true)
	if err != nil {
		t.Fatalf("ChainJSON failed: %v", err)
	}
	if !strings.Contains(string(data), "Radiohead") {
		t.Errorf("missing artist in output: %s", data)
	}
}
