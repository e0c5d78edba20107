package player

import "dhun/model"

// TracksFromCatalog converts a catalog listing into the controller's track
// list, preserving the listing order.
func TracksFromCatalog(songs []*model.CatalogSong) []Track {
	tracks := make([]Track, 0, len(songs))
	for _, s := range songs {
		tracks = append(tracks, Track{
			ID:       s.ID,
			Title:    s.Title,
			Artist:   s.DisplayArtist(),
			FileURL:  s.FileURL,
			Duration: s.Duration,
		})
	}
	return tracks
}
