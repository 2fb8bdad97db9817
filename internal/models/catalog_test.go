package models

import (
	"testing"
	"time"
)

func TestCachedArtist(t *testing.T) {
	record := Artist{Name: "Radiohead", Genres: []string{"rock"}}

	t.Run("NewCachedArtist", func(t *testing.T) {
		row := NewCachedArtist(3, "radiohead", record)

		if row.Sequence() != 3 || row.Key() != "radiohead" {
			t.Errorf("unexpected row: sequence=%d key=%s", row.Sequence(), row.Key())
		}
		if row.CreatedAt().IsZero() || row.UpdatedAt().IsZero() {
			t.Error("expected timestamps to be set")
		}
		if err := row.Validate(); err != nil {
			t.Errorf("expected valid row, got %v", err)
		}
	})

	t.Run("RestoreCachedArtist round-trips columns", func(t *testing.T) {
		createdAt := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
		updatedAt := createdAt.Add(time.Hour)

		row := RestoreCachedArtist("id-1", 7, "radiohead", record, createdAt, updatedAt, nil)

		if row.ID() != "id-1" || row.Sequence() != 7 || row.Key() != "radiohead" {
			t.Errorf("unexpected row: id=%s sequence=%d key=%s", row.ID(), row.Sequence(), row.Key())
		}
		if !row.CreatedAt().Equal(createdAt) || !row.UpdatedAt().Equal(updatedAt) {
			t.Error("expected timestamps preserved")
		}

		restored := row.Record()
		if restored.Name != "Radiohead" || len(restored.Genres) != 1 {
			t.Errorf("expected record preserved, got %+v", restored)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		if err := NewCachedArtist(1, "", record).Validate(); err == nil {
			t.Error("expected missing key rejected")
		}
		if err := NewCachedArtist(1, "radiohead", Artist{}).Validate(); err == nil {
			t.Error("expected unresolved record rejected")
		}
	})
}

func TestCachedAlbum(t *testing.T) {
	record := Album{Name: "OK Computer", Artist: "Radiohead"}

	t.Run("RestoreCachedAlbum carries scope keys", func(t *testing.T) {
		now := time.Now()
		row := RestoreCachedAlbum("id-2", 1, "radiohead", "ok computer", record, now, now, nil)

		if row.ArtistKey() != "radiohead" || row.Key() != "ok computer" {
			t.Errorf("unexpected scope: artistKey=%s key=%s", row.ArtistKey(), row.Key())
		}
		if row.Record().Artist != "Radiohead" {
			t.Errorf("expected parent artist preserved, got %s", row.Record().Artist)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		if err := NewCachedAlbum(1, "", "ok computer", record).Validate(); err == nil {
			t.Error("expected missing artist key rejected")
		}
		if err := NewCachedAlbum(1, "radiohead", "ok computer", Album{Name: "OK Computer"}).Validate(); err == nil {
			t.Error("expected record without artist rejected")
		}
	})
}

func TestCachedTrack(t *testing.T) {
	record := Track{Name: "Airbag", Artist: "Radiohead", Album: "OK Computer", DurationMS: 284000}

	t.Run("RestoreCachedTrack carries scope keys", func(t *testing.T) {
		now := time.Now()
		row := RestoreCachedTrack("id-3", 1, "radiohead", "ok computer", "airbag", record, now, now, nil)

		if row.ArtistKey() != "radiohead" || row.AlbumKey() != "ok computer" || row.Key() != "airbag" {
			t.Errorf("unexpected scope: %s/%s/%s", row.ArtistKey(), row.AlbumKey(), row.Key())
		}
		if row.Record().DurationMS != 284000 {
			t.Errorf("expected duration preserved, got %d", row.Record().DurationMS)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		if err := NewCachedTrack(1, "radiohead", "", "airbag", record).Validate(); err == nil {
			t.Error("expected missing album key rejected")
		}
		if err := NewCachedTrack(1, "radiohead", "ok computer", "airbag", Track{}).Validate(); err == nil {
			t.Error("expected unresolved record rejected")
		}
	})
}
