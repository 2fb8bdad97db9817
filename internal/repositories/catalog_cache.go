package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pollsterfm/pollster/internal/models"
	"github.com/pollsterfm/pollster/internal/shared"
)

// CatalogRepository implements catalog.Cache over SQLite.
//
// Rows are keyed on canonicalized names, scoped by the resolved parent chain
// (album rows by artist key, track rows by artist and album keys). Duplicate
// inserts from racing writers are silently ignored: the first write wins and
// the loser's record was fetched from the same upstream anyway.
type CatalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new CatalogRepository with the given database connection.
func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// GetArtist retrieves a cached artist record by canonical key.
func (r *CatalogRepository) GetArtist(ctx context.Context, key string) (*models.Artist, error) {
	query := `
		SELECT id, sequence, name, image_url, spotify_id, lastfm_url, genres, created_at, updated_at
		FROM artists
		WHERE key = ? AND deleted_at IS NULL
	`

	var (
		id                   string
		sequence             int
		genres               string
		createdAt, updatedAt time.Time
		record               models.Artist
	)
	err := r.db.QueryRowContext(ctx, query, key).Scan(
		&id,
		&sequence,
		&record.Name,
		&record.ImageURL,
		&record.SpotifyID,
		&record.LastFMURL,
		&genres,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read artist cache: %w", err)
	}

	record.Genres = splitGenres(genres)
	row := models.RestoreCachedArtist(id, sequence, key, record, createdAt, updatedAt, nil)
	result := row.Record()
	return &result, nil
}

// PutArtist writes an artist record under the given canonical key.
func (r *CatalogRepository) PutArtist(ctx context.Context, key string, record models.Artist) error {
	sequence, err := NextSequence(r.db, "artists")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	row := models.NewCachedArtist(sequence, key, record)
	row.SetID(shared.GenerateID())

	if err := row.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO artists (id, sequence, key, name, image_url, spotify_id, lastfm_url, genres, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		row.ID(),
		row.Sequence(),
		row.Key(),
		record.Name,
		record.ImageURL,
		record.SpotifyID,
		record.LastFMURL,
		joinGenres(record.Genres),
		row.CreatedAt(),
		row.UpdatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("failed to cache artist: %w", err)
	}

	return nil
}

// GetAlbum retrieves a cached album record scoped to an artist key.
func (r *CatalogRepository) GetAlbum(ctx context.Context, artistKey, key string) (*models.Album, error) {
	query := `
		SELECT id, sequence, name, artist, image_url, spotify_id, release_date, total_tracks, created_at, updated_at
		FROM albums
		WHERE artist_key = ? AND key = ? AND deleted_at IS NULL
	`

	var (
		id                   string
		sequence             int
		createdAt, updatedAt time.Time
		record               models.Album
	)
	err := r.db.QueryRowContext(ctx, query, artistKey, key).Scan(
		&id,
		&sequence,
		&record.Name,
		&record.Artist,
		&record.ImageURL,
		&record.SpotifyID,
		&record.ReleaseDate,
		&record.TotalTracks,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read album cache: %w", err)
	}

	row := models.RestoreCachedAlbum(id, sequence, artistKey, key, record, createdAt, updatedAt, nil)
	result := row.Record()
	return &result, nil
}

// PutAlbum writes an album record scoped to an artist key.
func (r *CatalogRepository) PutAlbum(ctx context.Context, artistKey, key string, record models.Album) error {
	sequence, err := NextSequence(r.db, "albums")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	row := models.NewCachedAlbum(sequence, artistKey, key, record)
	row.SetID(shared.GenerateID())

	if err := row.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO albums (id, sequence, artist_key, key, name, artist, image_url, spotify_id, release_date, total_tracks, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		row.ID(),
		row.Sequence(),
		row.ArtistKey(),
		row.Key(),
		record.Name,
		record.Artist,
		record.ImageURL,
		record.SpotifyID,
		record.ReleaseDate,
		record.TotalTracks,
		row.CreatedAt(),
		row.UpdatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("failed to cache album: %w", err)
	}

	return nil
}

// GetTrack retrieves a cached track record scoped to artist and album keys.
func (r *CatalogRepository) GetTrack(ctx context.Context, artistKey, albumKey, key string) (*models.Track, error) {
	query := `
		SELECT id, sequence, name, artist, album, image_url, spotify_id, duration_ms, isrc, created_at, updated_at
		FROM tracks
		WHERE artist_key = ? AND album_key = ? AND key = ? AND deleted_at IS NULL
	`

	var (
		id                   string
		sequence             int
		createdAt, updatedAt time.Time
		record               models.Track
	)
	err := r.db.QueryRowContext(ctx, query, artistKey, albumKey, key).Scan(
		&id,
		&sequence,
		&record.Name,
		&record.Artist,
		&record.Album,
		&record.ImageURL,
		&record.SpotifyID,
		&record.DurationMS,
		&record.ISRC,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read track cache: %w", err)
	}

	row := models.RestoreCachedTrack(id, sequence, artistKey, albumKey, key, record, createdAt, updatedAt, nil)
	result := row.Record()
	return &result, nil
}

// PutTrack writes a track record scoped to artist and album keys.
func (r *CatalogRepository) PutTrack(ctx context.Context, artistKey, albumKey, key string, record models.Track) error {
	sequence, err := NextSequence(r.db, "tracks")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	row := models.NewCachedTrack(sequence, artistKey, albumKey, key, record)
	row.SetID(shared.GenerateID())

	if err := row.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO tracks (id, sequence, artist_key, album_key, key, name, artist, album, image_url, spotify_id, duration_ms, isrc, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		row.ID(),
		row.Sequence(),
		row.ArtistKey(),
		row.AlbumKey(),
		row.Key(),
		record.Name,
		record.Artist,
		record.Album,
		record.ImageURL,
		record.SpotifyID,
		record.DurationMS,
		record.ISRC,
		row.CreatedAt(),
		row.UpdatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("failed to cache track: %w", err)
	}

	return nil
}

// Invalidate soft-deletes every cached record for an artist key, including its
// dependent album and track rows.
func (r *CatalogRepository) Invalidate(ctx context.Context, artistKey string) error {
	now := time.Now()

	for _, stmt := range []string{
		"UPDATE artists SET deleted_at = ? WHERE key = ? AND deleted_at IS NULL",
		"UPDATE albums SET deleted_at = ? WHERE artist_key = ? AND deleted_at IS NULL",
		"UPDATE tracks SET deleted_at = ? WHERE artist_key = ? AND deleted_at IS NULL",
	} {
		if _, err := r.db.ExecContext(ctx, stmt, now, artistKey); err != nil {
			return fmt.Errorf("failed to invalidate catalog cache: %w", err)
		}
	}

	return nil
}

func joinGenres(genres []string) string {
	return strings.Join(genres, ",")
}

func splitGenres(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
