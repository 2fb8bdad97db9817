// Last.fm implementation of [Provider]
//
// Last.fm API response types based on https://www.last.fm/api
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pollsterfm/pollster/internal/models"
	"github.com/pollsterfm/pollster/internal/shared"
)

const lastfmBaseURL = "https://ws.audioscrobbler.com/2.0/"

// Last.fm API error codes, returned in the body with HTTP 200 or 4xx.
const lastfmErrNotFound = 6

// LastFMImage represents an image resource. Last.fm returns images as a list
// of sized URLs under the "#text" key.
type LastFMImage struct {
	URL  string `json:"#text"`
	Size string `json:"size"`
}

type lastfmTag struct {
	Name string `json:"name"`
}

type lastfmTags struct {
	Tag []lastfmTag `json:"tag"`
}

// LastFMArtist represents a Last.fm artist from artist.getinfo.
type LastFMArtist struct {
	Name  string        `json:"name"`
	URL   string        `json:"url"`
	Image []LastFMImage `json:"image"`
	Tags  lastfmTags    `json:"tags"`
}

// LastFMAlbum represents a Last.fm album from album.getinfo.
type LastFMAlbum struct {
	Name   string        `json:"name"`
	Artist string        `json:"artist"`
	URL    string        `json:"url"`
	Image  []LastFMImage `json:"image"`
}

type lastfmTrackAlbum struct {
	Title string        `json:"title"`
	Image []LastFMImage `json:"image"`
}

type lastfmTrackArtist struct {
	Name string `json:"name"`
}

// LastFMTrack represents a Last.fm track from track.getinfo.
type LastFMTrack struct {
	Name     string            `json:"name"`
	URL      string            `json:"url"`
	Duration string            `json:"duration"` // milliseconds as a string
	Artist   lastfmTrackArtist `json:"artist"`
	Album    lastfmTrackAlbum  `json:"album"`
}

type lastfmEnvelope struct {
	Artist *LastFMArtist `json:"artist"`
	Album  *LastFMAlbum  `json:"album"`
	Track  *LastFMTrack  `json:"track"`

	// Error fields present when the API rejects the request.
	Error   int    `json:"error"`
	Message string `json:"message"`
}

// LastFMProvider implements the Provider interface for Last.fm API interactions.
// Authentication is a per-request API key; no token exchange is involved.
type LastFMProvider struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

// NewLastFMProvider creates a new Last.fm provider with the given API key.
func NewLastFMProvider(apiKey string) (*LastFMProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: missing api_key", shared.ErrMissingCredentials)
	}

	return &LastFMProvider{
		apiKey:     apiKey,
		httpClient: http.DefaultClient,
		baseURL:    lastfmBaseURL,
	}, nil
}

func (l *LastFMProvider) Name() string {
	return "Last.fm"
}

// doRequest performs a Last.fm API method call and decodes the envelope.
//
// Last.fm signals "not found" as an in-band error code rather than an HTTP 404.
func (l *LastFMProvider) doRequest(ctx context.Context, method string, params url.Values) (*lastfmEnvelope, error) {
	params.Set("method", method)
	params.Set("api_key", l.apiKey)
	params.Set("format", "json")
	params.Set("autocorrect", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: last.fm status %d", shared.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var envelope lastfmEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", shared.ErrUpstreamUnavailable, err)
	}

	if envelope.Error != 0 {
		if envelope.Error == lastfmErrNotFound {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("%w: last.fm error %d: %s", shared.ErrAPIRequest, envelope.Error, envelope.Message)
	}

	return &envelope, nil
}

// SearchArtist resolves an artist name via artist.getinfo.
func (l *LastFMProvider) SearchArtist(ctx context.Context, name string) (*models.Artist, error) {
	params := url.Values{}
	params.Set("artist", name)

	envelope, err := l.doRequest(ctx, "artist.getinfo", params)
	if err != nil {
		return nil, err
	}

	if envelope.Artist == nil || envelope.Artist.Name == "" {
		return nil, shared.ErrNotFound
	}

	record := artistFromLastFM(*envelope.Artist)
	return &record, nil
}

// SearchAlbum resolves an album name scoped to a resolved artist name.
func (l *LastFMProvider) SearchAlbum(ctx context.Context, artistName, albumName string) (*models.Album, error) {
	params := url.Values{}
	params.Set("artist", artistName)
	params.Set("album", albumName)

	envelope, err := l.doRequest(ctx, "album.getinfo", params)
	if err != nil {
		return nil, err
	}

	if envelope.Album == nil || envelope.Album.Name == "" {
		return nil, shared.ErrNotFound
	}

	record := albumFromLastFM(*envelope.Album, artistName)
	return &record, nil
}

// SearchTrack resolves a track name scoped to a resolved artist and album.
//
// track.getinfo takes no album parameter; the album from the resolved chain is
// carried into the canonical record.
func (l *LastFMProvider) SearchTrack(ctx context.Context, artistName, albumName, trackName string) (*models.Track, error) {
	params := url.Values{}
	params.Set("artist", artistName)
	params.Set("track", trackName)

	envelope, err := l.doRequest(ctx, "track.getinfo", params)
	if err != nil {
		return nil, err
	}

	if envelope.Track == nil || envelope.Track.Name == "" {
		return nil, shared.ErrNotFound
	}

	record := trackFromLastFM(*envelope.Track, artistName, albumName)
	return &record, nil
}

// largestImage returns the URL of the last (largest) image in a Last.fm image list.
func largestImage(images []LastFMImage) string {
	for i := len(images) - 1; i >= 0; i-- {
		if images[i].URL != "" {
			return images[i].URL
		}
	}
	return ""
}

// artistFromLastFM adapts a Last.fm wire artist into the canonical record.
func artistFromLastFM(a LastFMArtist) models.Artist {
	record := models.Artist{
		Name:      a.Name,
		LastFMURL: a.URL,
		ImageURL:  largestImage(a.Image),
	}
	for _, tag := range a.Tags.Tag {
		record.Genres = append(record.Genres, tag.Name)
	}
	return record
}

// albumFromLastFM adapts a Last.fm wire album into the canonical record.
func albumFromLastFM(a LastFMAlbum, artistName string) models.Album {
	record := models.Album{
		Name:     a.Name,
		Artist:   artistName,
		ImageURL: largestImage(a.Image),
	}
	if record.Artist == "" {
		record.Artist = a.Artist
	}
	return record
}

// trackFromLastFM adapts a Last.fm wire track into the canonical record.
func trackFromLastFM(t LastFMTrack, artistName, albumName string) models.Track {
	record := models.Track{
		Name:     t.Name,
		Artist:   artistName,
		Album:    albumName,
		ImageURL: largestImage(t.Album.Image),
	}
	if record.Artist == "" {
		record.Artist = t.Artist.Name
	}
	if record.Album == "" {
		record.Album = t.Album.Title
	}
	if ms, err := parseDuration(t.Duration); err == nil {
		record.DurationMS = ms
	}
	return record
}

func parseDuration(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	var ms int
	if _, err := fmt.Sscanf(s, "%d", &ms); err != nil {
		return 0, err
	}
	return ms, nil
}
