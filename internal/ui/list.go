package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/pollsterfm/pollster/internal/catalog"
	"github.com/pollsterfm/pollster/internal/formatter"
)

// recordItem adapts one resolved catalog record to [list.Item].
type recordItem struct {
	kind   string
	name   string
	detail string
}

func (i recordItem) Title() string       { return fmt.Sprintf("%s: %s", i.kind, i.name) }
func (i recordItem) Description() string { return i.detail }
func (i recordItem) FilterValue() string { return i.name }

// chainItems flattens a resolved chain into list items, parent first.
func chainItems(chain *catalog.ChainResult) []list.Item {
	var items []list.Item

	if chain == nil {
		return items
	}

	if chain.Artist != nil {
		detail := "no genre data"
		if len(chain.Artist.Genres) > 0 {
			detail = strings.Join(chain.Artist.Genres, ", ")
		}
		items = append(items, recordItem{kind: "Artist", name: chain.Artist.Name, detail: detail})
	}

	if chain.Album != nil {
		detail := fmt.Sprintf("%d tracks", chain.Album.TotalTracks)
		if chain.Album.ReleaseDate != "" {
			detail = fmt.Sprintf("%s, released %s", detail, chain.Album.ReleaseDate)
		}
		items = append(items, recordItem{kind: "Album", name: chain.Album.Name, detail: detail})
	}

	if chain.Track != nil {
		items = append(items, recordItem{
			kind:   "Track",
			name:   chain.Track.Name,
			detail: formatter.FormatTrackDuration(chain.Track.DurationMS),
		})
	}

	return items
}
