// package catalog defines interface Provider for external music catalogs
//
// Spotify, Last.fm
package catalog

import (
	"context"

	"github.com/pollsterfm/pollster/internal/models"
)

// Provider defines the interface for external music-catalog providers that can
// resolve natural-language entity names into canonical records.
//
// Implementations return [shared.ErrNotFound] when the catalog has no entry for
// the given name, and wrap transport failures in [shared.ErrUpstreamUnavailable].
type Provider interface {
	// SearchArtist resolves an artist name into a canonical record.
	SearchArtist(ctx context.Context, name string) (*models.Artist, error)

	// SearchAlbum resolves an album name scoped to a resolved artist's canonical name.
	SearchAlbum(ctx context.Context, artistName, albumName string) (*models.Album, error)

	// SearchTrack resolves a track name scoped to a resolved artist and album.
	SearchTrack(ctx context.Context, artistName, albumName, trackName string) (*models.Track, error)

	// Name returns the name of the provider (e.g., "Spotify", "Last.fm")
	Name() string
}

// Cache defines the read/write surface the resolver expects from the catalog
// cache. Implementations return [shared.ErrNotFound] on a miss.
//
// The cache is shared and best-effort: a miss caused by a write race is
// equivalent to a cold cache, never an error.
type Cache interface {
	GetArtist(ctx context.Context, key string) (*models.Artist, error)
	PutArtist(ctx context.Context, key string, record models.Artist) error

	GetAlbum(ctx context.Context, artistKey, key string) (*models.Album, error)
	PutAlbum(ctx context.Context, artistKey, key string, record models.Album) error

	GetTrack(ctx context.Context, artistKey, albumKey, key string) (*models.Track, error)
	PutTrack(ctx context.Context, artistKey, albumKey, key string, record models.Track) error
}
