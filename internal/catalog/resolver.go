package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/pollsterfm/pollster/internal/models"
	"github.com/pollsterfm/pollster/internal/shared"
)

// Resolver resolves name-based catalog references through a read-through cache.
//
// Each lookup checks the cache under a key derived from the canonicalized
// input, calls the provider on a miss, and writes back only on a successful
// fetch. Negative results are never cached: the external catalog may add
// entries later. A provider transport failure degrades to NotFound for that
// call; it never propagates as a fault into request handling.
type Resolver struct {
	cache    Cache
	provider Provider
	logger   *log.Logger
}

// NewResolver creates a Resolver over the given cache and provider.
func NewResolver(cache Cache, provider Provider, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Resolver{
		cache:    cache,
		provider: provider,
		logger:   logger,
	}
}

// ResolveArtist resolves an artist name into a canonical record.
func (r *Resolver) ResolveArtist(ctx context.Context, name string) (*models.Artist, error) {
	key := Normalize(name)
	if key == "" {
		return nil, fmt.Errorf("%w: artist name is required", shared.ErrMissingArgument)
	}

	if cached, err := r.cache.GetArtist(ctx, key); err == nil {
		return cached, nil
	} else if !errors.Is(err, shared.ErrNotFound) {
		r.logger.Warn("artist cache read failed", "key", key, "error", err)
	}

	record, err := r.provider.SearchArtist(ctx, name)
	if err != nil {
		return nil, r.degrade(err, "artist", name)
	}

	r.put(key, Normalize(record.Name), func(k string) error {
		return r.cache.PutArtist(ctx, k, *record)
	})

	return record, nil
}

// ResolveAlbum resolves an album name scoped to an already-resolved artist.
//
// The parent record is a strict dependency: album identity in the external
// catalog is only meaningful relative to a specific resolved artist. A nil
// parent short-circuits without a provider call.
func (r *Resolver) ResolveAlbum(ctx context.Context, artist *models.Artist, albumName string) (*models.Album, error) {
	if artist == nil {
		return nil, fmt.Errorf("%w: album resolution requires a resolved artist", shared.ErrInvalidArgument)
	}

	key := Normalize(albumName)
	if key == "" {
		return nil, fmt.Errorf("%w: album name is required", shared.ErrMissingArgument)
	}

	artistKey := Normalize(artist.Name)

	if cached, err := r.cache.GetAlbum(ctx, artistKey, key); err == nil {
		return cached, nil
	} else if !errors.Is(err, shared.ErrNotFound) {
		r.logger.Warn("album cache read failed", "artist", artistKey, "key", key, "error", err)
	}

	record, err := r.provider.SearchAlbum(ctx, artist.Name, albumName)
	if err != nil {
		return nil, r.degrade(err, "album", albumName)
	}

	r.put(key, Normalize(record.Name), func(k string) error {
		return r.cache.PutAlbum(ctx, artistKey, k, *record)
	})

	return record, nil
}

// ResolveTrack resolves a track name scoped to an already-resolved album.
func (r *Resolver) ResolveTrack(ctx context.Context, album *models.Album, trackName string) (*models.Track, error) {
	if album == nil {
		return nil, fmt.Errorf("%w: track resolution requires a resolved album", shared.ErrInvalidArgument)
	}

	key := Normalize(trackName)
	if key == "" {
		return nil, fmt.Errorf("%w: track name is required", shared.ErrMissingArgument)
	}

	artistKey := Normalize(album.Artist)
	albumKey := Normalize(album.Name)

	if cached, err := r.cache.GetTrack(ctx, artistKey, albumKey, key); err == nil {
		return cached, nil
	} else if !errors.Is(err, shared.ErrNotFound) {
		r.logger.Warn("track cache read failed", "artist", artistKey, "album", albumKey, "key", key, "error", err)
	}

	record, err := r.provider.SearchTrack(ctx, album.Artist, album.Name, trackName)
	if err != nil {
		return nil, r.degrade(err, "track", trackName)
	}

	r.put(key, Normalize(record.Name), func(k string) error {
		return r.cache.PutTrack(ctx, artistKey, albumKey, k, *record)
	})

	return record, nil
}

// ChainResult holds the records resolved by [Resolver.ResolveChain] before the
// chain completed or short-circuited.
type ChainResult struct {
	Artist *models.Artist
	Album  *models.Album
	Track  *models.Track
}

// ResolveChain resolves an artist, then optionally an album, then optionally a
// track, strictly in that order. The chain short-circuits on the first
// NotFound: a missing parent makes every child lookup meaningless, so no
// doomed provider calls are attempted. The returned result carries whatever
// resolved before the failure.
func (r *Resolver) ResolveChain(ctx context.Context, artistName, albumName, trackName string) (*ChainResult, error) {
	result := &ChainResult{}

	artist, err := r.ResolveArtist(ctx, artistName)
	if err != nil {
		return result, err
	}
	result.Artist = artist

	if albumName == "" {
		if trackName != "" {
			return result, fmt.Errorf("%w: track lookup requires an album name", shared.ErrMissingArgument)
		}
		return result, nil
	}

	album, err := r.ResolveAlbum(ctx, artist, albumName)
	if err != nil {
		return result, err
	}
	result.Album = album

	if trackName == "" {
		return result, nil
	}

	track, err := r.ResolveTrack(ctx, album, trackName)
	if err != nil {
		return result, err
	}
	result.Track = track

	return result, nil
}

// put writes a record back under the queried key and, when the provider's
// canonical name keys differently, under the canonical key too. Writes are
// best-effort: a failure is logged, never surfaced, since a lost write is
// equivalent to a cold cache.
func (r *Resolver) put(queriedKey, canonicalKey string, write func(key string) error) {
	keys := []string{queriedKey}
	if canonicalKey != "" && canonicalKey != queriedKey {
		keys = append(keys, canonicalKey)
	}

	for _, key := range keys {
		if err := write(key); err != nil {
			r.logger.Warn("cache write failed", "key", key, "error", err)
		}
	}
}

// degrade maps a provider failure to the NotFound absence value.
//
// Upstream unavailability is logged but deliberately indistinguishable from a
// miss to callers: rendering falls back to a not-found view instead of
// crashing, and nothing is cached.
func (r *Resolver) degrade(err error, kind, name string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return fmt.Errorf("%s %q: %w", kind, name, shared.ErrNotFound)
	}

	r.logger.Warn("catalog provider call failed", "kind", kind, "name", name, "provider", r.provider.Name(), "error", err)
	return fmt.Errorf("%s %q: %w", kind, name, shared.ErrNotFound)
}
