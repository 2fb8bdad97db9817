// Spotify implementation of [Provider]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pollsterfm/pollster/internal/models"
	"github.com/pollsterfm/pollster/internal/shared"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
)

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Genres []string       `json:"genres"`
	Images []SpotifyImage `json:"images"`
	URI    string         `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Artists     []SpotifyArtist `json:"artists"`
	ReleaseDate string          `json:"release_date"`
	TotalTracks int             `json:"total_tracks"`
	Images      []SpotifyImage  `json:"images"`
	URI         string          `json:"uri"`
}

type externalIDs struct {
	ISRC string `json:"isrc"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Artists     []SpotifyArtist `json:"artists"`
	Album       SpotifyAlbum    `json:"album"`
	DurationMS  int             `json:"duration_ms"`
	Explicit    bool            `json:"explicit"`
	ExternalIDs externalIDs     `json:"external_ids"`
	URI         string          `json:"uri"`
}

type spotifyArtistPage struct {
	Items []SpotifyArtist `json:"items"`
}

type spotifyAlbumPage struct {
	Items []SpotifyAlbum `json:"items"`
}

type spotifyTrackPage struct {
	Items []SpotifyTrack `json:"items"`
}

type spotifySearchResponse struct {
	Artists *spotifyArtistPage `json:"artists"`
	Albums  *spotifyAlbumPage  `json:"albums"`
	Tracks  *spotifyTrackPage  `json:"tracks"`
}

// SpotifyProvider implements the Provider interface for Spotify API interactions.
// Uses the [clientcredentials] flow: catalog search needs no user consent.
type SpotifyProvider struct {
	config     *clientcredentials.Config
	httpClient *http.Client
	baseURL    string
}

// NewSpotifyProvider creates a new Spotify provider with the given credentials.
func NewSpotifyProvider(credentials map[string]string) (*SpotifyProvider, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyTokenURL,
	}

	return &SpotifyProvider{
		config:  config,
		baseURL: spotifyBaseURL,
	}, nil
}

func (s *SpotifyProvider) Name() string {
	return "Spotify"
}

// client returns the token-refreshing HTTP client, creating it on first use.
func (s *SpotifyProvider) client(ctx context.Context) *http.Client {
	if s.httpClient == nil {
		s.httpClient = s.config.Client(ctx)
	}
	return s.httpClient
}

// doRequest performs an authenticated GET against the Spotify API and decodes the response.
func (s *SpotifyProvider) doRequest(ctx context.Context, endpoint string, result any) error {
	apiURL := s.baseURL + endpoint

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client(ctx).Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return shared.ErrNotFound
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: spotify status %d", shared.ErrInvalidCredentials, resp.StatusCode)
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return fmt.Errorf("%w: spotify status %d", shared.ErrUpstreamUnavailable, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: spotify status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrUpstreamUnavailable, err)
	}

	return nil
}

// search performs a typed search query against /search.
func (s *SpotifyProvider) search(ctx context.Context, query, entityType string) (*spotifySearchResponse, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("type", entityType)
	params.Set("limit", "5")

	var response spotifySearchResponse
	if err := s.doRequest(ctx, "/search?"+params.Encode(), &response); err != nil {
		return nil, err
	}

	return &response, nil
}

// SearchArtist resolves an artist name via Spotify search.
//
// Prefers an exact match on the canonicalized name; falls back to the top result.
func (s *SpotifyProvider) SearchArtist(ctx context.Context, name string) (*models.Artist, error) {
	response, err := s.search(ctx, fmt.Sprintf("artist:%s", name), "artist")
	if err != nil {
		return nil, err
	}

	if response.Artists == nil || len(response.Artists.Items) == 0 {
		return nil, shared.ErrNotFound
	}

	match := response.Artists.Items[0]
	for _, item := range response.Artists.Items {
		if Normalize(item.Name) == Normalize(name) {
			match = item
			break
		}
	}

	record := artistFromSpotify(match)
	return &record, nil
}

// SearchAlbum resolves an album name scoped to a resolved artist name.
func (s *SpotifyProvider) SearchAlbum(ctx context.Context, artistName, albumName string) (*models.Album, error) {
	query := fmt.Sprintf("album:%s artist:%s", albumName, artistName)
	response, err := s.search(ctx, query, "album")
	if err != nil {
		return nil, err
	}

	if response.Albums == nil || len(response.Albums.Items) == 0 {
		return nil, shared.ErrNotFound
	}

	match := response.Albums.Items[0]
	for _, item := range response.Albums.Items {
		if Normalize(item.Name) == Normalize(albumName) {
			match = item
			break
		}
	}

	record := albumFromSpotify(match, artistName)
	return &record, nil
}

// SearchTrack resolves a track name scoped to a resolved artist and album.
func (s *SpotifyProvider) SearchTrack(ctx context.Context, artistName, albumName, trackName string) (*models.Track, error) {
	query := fmt.Sprintf("track:%s album:%s artist:%s", trackName, albumName, artistName)
	response, err := s.search(ctx, query, "track")
	if err != nil {
		return nil, err
	}

	if response.Tracks == nil || len(response.Tracks.Items) == 0 {
		return nil, shared.ErrNotFound
	}

	match := response.Tracks.Items[0]
	for _, item := range response.Tracks.Items {
		if Normalize(item.Name) == Normalize(trackName) {
			match = item
			break
		}
	}

	record := trackFromSpotify(match, artistName, albumName)
	return &record, nil
}

// artistFromSpotify adapts a Spotify wire artist into the canonical record.
func artistFromSpotify(a SpotifyArtist) models.Artist {
	record := models.Artist{
		Name:      a.Name,
		SpotifyID: a.ID,
		Genres:    a.Genres,
	}
	if len(a.Images) > 0 {
		record.ImageURL = a.Images[0].URL
	}
	return record
}

// albumFromSpotify adapts a Spotify wire album into the canonical record.
//
// The artist field carries the resolved parent's canonical name; Spotify's own
// artist list is only consulted as a fallback.
func albumFromSpotify(a SpotifyAlbum, artistName string) models.Album {
	record := models.Album{
		Name:        a.Name,
		Artist:      artistName,
		SpotifyID:   a.ID,
		ReleaseDate: a.ReleaseDate,
		TotalTracks: a.TotalTracks,
	}
	if record.Artist == "" && len(a.Artists) > 0 {
		record.Artist = a.Artists[0].Name
	}
	if len(a.Images) > 0 {
		record.ImageURL = a.Images[0].URL
	}
	return record
}

// trackFromSpotify adapts a Spotify wire track into the canonical record.
func trackFromSpotify(t SpotifyTrack, artistName, albumName string) models.Track {
	record := models.Track{
		Name:       t.Name,
		Artist:     artistName,
		Album:      albumName,
		SpotifyID:  t.ID,
		DurationMS: t.DurationMS,
		ISRC:       t.ExternalIDs.ISRC,
	}
	if record.Artist == "" && len(t.Artists) > 0 {
		record.Artist = t.Artists[0].Name
	}
	if record.Album == "" {
		record.Album = t.Album.Name
	}
	if len(t.Album.Images) > 0 {
		record.ImageURL = t.Album.Images[0].URL
	}
	return record
}
