// package formatter provides display formatting for durations, timestamps, and catalog records
package formatter

import (
	"bytes"
	"fmt"
	"time"

	"github.com/pollsterfm/pollster/internal/catalog"
	"github.com/pollsterfm/pollster/internal/shared"
)

// FormatTrackDuration renders a millisecond duration as m:ss (or h:mm:ss past
// the hour). 65000 renders as "1:05"; zero renders as "0:00".
func FormatTrackDuration(ms int) string {
	if ms < 0 {
		ms = 0
	}

	totalSeconds := ms / 1000
	seconds := totalSeconds % 60
	minutes := (totalSeconds / 60) % 60
	hours := totalSeconds / 3600

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// RelativeTime renders t relative to now for recent timestamps ("5 minutes
// ago"), switching to an absolute form once the timestamp is more than 24
// hours old.
func RelativeTime(now, t time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		minutes := int(diff.Minutes())
		if minutes == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", minutes)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	default:
		return t.Format("Jan 2, 2006 3:04 PM")
	}
}

// ChainJSON renders a resolved catalog chain as JSON, optionally indented.
func ChainJSON(chain *catalog.ChainResult, pretty bool) ([]byte, error) {
	return shared.MarshalJSON(chain, pretty)
}

// ChainMarkdown renders a resolved catalog chain as a short Markdown summary.
func ChainMarkdown(chain *catalog.ChainResult) []byte {
	var buf bytes.Buffer

	if chain.Artist != nil {
		buf.WriteString(fmt.Sprintf("# %s\n\n", chain.Artist.Name))
		if len(chain.Artist.Genres) > 0 {
			buf.WriteString(fmt.Sprintf("**Genres**: %v\n\n", chain.Artist.Genres))
		}
	}

	if chain.Album != nil {
		buf.WriteString(fmt.Sprintf("## %s\n\n", chain.Album.Name))
		if chain.Album.ReleaseDate != "" {
			buf.WriteString(fmt.Sprintf("**Released**: %s\n", chain.Album.ReleaseDate))
		}
		if chain.Album.TotalTracks > 0 {
			buf.WriteString(fmt.Sprintf("**Tracks**: %d\n", chain.Album.TotalTracks))
		}
		buf.WriteString("\n")
	}

	if chain.Track != nil {
		buf.WriteString(fmt.Sprintf("### %s [%s]\n", chain.Track.Name, FormatTrackDuration(chain.Track.DurationMS)))
	}

	return buf.Bytes()
}
