package player

import (
	"testing"

	"dhun/model"
)

func TestTracksFromCatalog(t *testing.T) {
	songs := []*model.CatalogSong{
		{
			Song:   model.Song{ID: 1, Title: "One", FileURL: "https://cdn.example/1.mp3", Duration: 100},
			Artist: model.ArtistInfo{Name: "Real Name", DisplayName: "Stage Name"},
		},
		{
			Song:   model.Song{ID: 2, Title: "Two", FileURL: "https://cdn.example/2.mp3", Duration: 200},
			Artist: model.ArtistInfo{Name: "Plain Name"},
		},
	}

	tracks := TracksFromCatalog(songs)

	if len(tracks) != 2 {
		t.Fatalf("len = %d, want 2", len(tracks))
	}
	if tracks[0].Artist != "Stage Name" {
		t.Errorf("tracks[0].Artist = %q, want the display name", tracks[0].Artist)
	}
	if tracks[1].Artist != "Plain Name" {
		t.Errorf("tracks[1].Artist = %q, want fallback to name", tracks[1].Artist)
	}
	if tracks[0].ID != 1 || tracks[1].ID != 2 {
		t.Errorf("order not preserved: %+v", tracks)
	}
}
