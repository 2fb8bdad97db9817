package models

import (
	"fmt"
	"time"
)

// Artist is the canonical representation of a catalog artist.
//
// External providers return divergent shapes; adapter functions in the catalog
// package map provider wire types into this single form so provider-specific
// fields never leak into application logic.
type Artist struct {
	Name      string   `json:"name"`
	ImageURL  string   `json:"image_url,omitempty"`
	SpotifyID string   `json:"spotify_id,omitempty"`
	LastFMURL string   `json:"lastfm_url,omitempty"`
	Genres    []string `json:"genres,omitempty"`
}

// Album is the canonical representation of a catalog album.
//
// Album identity is only meaningful relative to a resolved artist; Artist holds
// the parent's canonical name, not a raw query string.
type Album struct {
	Name        string `json:"name"`
	Artist      string `json:"artist"`
	ImageURL    string `json:"image_url,omitempty"`
	SpotifyID   string `json:"spotify_id,omitempty"`
	ReleaseDate string `json:"release_date,omitempty"`
	TotalTracks int    `json:"total_tracks,omitempty"`
}

// Track is the canonical representation of a catalog track.
type Track struct {
	Name       string `json:"name"`
	Artist     string `json:"artist"`
	Album      string `json:"album"`
	ImageURL   string `json:"image_url,omitempty"`
	SpotifyID  string `json:"spotify_id,omitempty"`
	DurationMS int    `json:"duration_ms,omitempty"`
	ISRC       string `json:"isrc,omitempty"`
}

// CachedArtist is a persisted catalog cache row for an [Artist], keyed by the
// canonicalized artist name.
type CachedArtist struct {
	id        string
	sequence  int
	key       string
	record    Artist
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewCachedArtist creates a cache row for the given canonical key and record.
func NewCachedArtist(sequence int, key string, record Artist) *CachedArtist {
	now := time.Now()
	return &CachedArtist{
		sequence:  sequence,
		key:       key,
		record:    record,
		createdAt: now,
		updatedAt: now,
	}
}

// RestoreCachedArtist rebuilds a cache row from database columns.
func RestoreCachedArtist(id string, sequence int, key string, record Artist, createdAt, updatedAt time.Time, deletedAt *time.Time) *CachedArtist {
	return &CachedArtist{
		id:        id,
		sequence:  sequence,
		key:       key,
		record:    record,
		createdAt: createdAt,
		updatedAt: updatedAt,
		deletedAt: deletedAt,
	}
}

func (a *CachedArtist) ID() string           { return a.id }
func (a *CachedArtist) SetID(id string)      { a.id = id }
func (a *CachedArtist) Sequence() int        { return a.sequence }
func (a *CachedArtist) Key() string          { return a.key }
func (a *CachedArtist) Record() Artist       { return a.record }
func (a *CachedArtist) CreatedAt() time.Time { return a.createdAt }
func (a *CachedArtist) UpdatedAt() time.Time { return a.updatedAt }

// Validate checks that the cache row carries a key and a resolved record.
func (a *CachedArtist) Validate() error {
	if a.key == "" {
		return fmt.Errorf("cached artist requires a cache key")
	}
	if a.record.Name == "" {
		return fmt.Errorf("cached artist requires a resolved name")
	}
	return nil
}

// CachedAlbum is a persisted catalog cache row for an [Album], keyed by the
// parent artist's canonical key plus the canonicalized album name.
type CachedAlbum struct {
	id        string
	sequence  int
	artistKey string
	key       string
	record    Album
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewCachedAlbum creates a cache row scoped to the resolved parent artist.
func NewCachedAlbum(sequence int, artistKey, key string, record Album) *CachedAlbum {
	now := time.Now()
	return &CachedAlbum{
		sequence:  sequence,
		artistKey: artistKey,
		key:       key,
		record:    record,
		createdAt: now,
		updatedAt: now,
	}
}

// RestoreCachedAlbum rebuilds a cache row from database columns.
func RestoreCachedAlbum(id string, sequence int, artistKey, key string, record Album, createdAt, updatedAt time.Time, deletedAt *time.Time) *CachedAlbum {
	return &CachedAlbum{
		id:        id,
		sequence:  sequence,
		artistKey: artistKey,
		key:       key,
		record:    record,
		createdAt: createdAt,
		updatedAt: updatedAt,
		deletedAt: deletedAt,
	}
}

func (a *CachedAlbum) ID() string           { return a.id }
func (a *CachedAlbum) SetID(id string)      { a.id = id }
func (a *CachedAlbum) Sequence() int        { return a.sequence }
func (a *CachedAlbum) ArtistKey() string    { return a.artistKey }
func (a *CachedAlbum) Key() string          { return a.key }
func (a *CachedAlbum) Record() Album        { return a.record }
func (a *CachedAlbum) CreatedAt() time.Time { return a.createdAt }
func (a *CachedAlbum) UpdatedAt() time.Time { return a.updatedAt }

// Validate checks that the cache row carries both scope keys and a resolved record.
func (a *CachedAlbum) Validate() error {
	if a.artistKey == "" || a.key == "" {
		return fmt.Errorf("cached album requires artist and album cache keys")
	}
	if a.record.Name == "" || a.record.Artist == "" {
		return fmt.Errorf("cached album requires a resolved name and artist")
	}
	return nil
}

// CachedTrack is a persisted catalog cache row for a [Track], keyed by the
// resolved artist and album keys plus the canonicalized track name.
type CachedTrack struct {
	id        string
	sequence  int
	artistKey string
	albumKey  string
	key       string
	record    Track
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewCachedTrack creates a cache row scoped to the resolved parent chain.
func NewCachedTrack(sequence int, artistKey, albumKey, key string, record Track) *CachedTrack {
	now := time.Now()
	return &CachedTrack{
		sequence:  sequence,
		artistKey: artistKey,
		albumKey:  albumKey,
		key:       key,
		record:    record,
		createdAt: now,
		updatedAt: now,
	}
}

// RestoreCachedTrack rebuilds a cache row from database columns.
func RestoreCachedTrack(id string, sequence int, artistKey, albumKey, key string, record Track, createdAt, updatedAt time.Time, deletedAt *time.Time) *CachedTrack {
	return &CachedTrack{
		id:        id,
		sequence:  sequence,
		artistKey: artistKey,
		albumKey:  albumKey,
		key:       key,
		record:    record,
		createdAt: createdAt,
		updatedAt: updatedAt,
		deletedAt: deletedAt,
	}
}

func (t *CachedTrack) ID() string           { return t.id }
func (t *CachedTrack) SetID(id string)      { t.id = id }
func (t *CachedTrack) Sequence() int        { return t.sequence }
func (t *CachedTrack) ArtistKey() string    { return t.artistKey }
func (t *CachedTrack) AlbumKey() string     { return t.albumKey }
func (t *CachedTrack) Key() string          { return t.key }
func (t *CachedTrack) Record() Track        { return t.record }
func (t *CachedTrack) CreatedAt() time.Time { return t.createdAt }
func (t *CachedTrack) UpdatedAt() time.Time { return t.updatedAt }

// Validate checks that the cache row carries all scope keys and a resolved record.
func (t *CachedTrack) Validate() error {
	if t.artistKey == "" || t.albumKey == "" || t.key == "" {
		return fmt.Errorf("cached track requires artist, album, and track cache keys")
	}
	if t.record.Name == "" {
		return fmt.Errorf("cached track requires a resolved name")
	}
	return nil
}
