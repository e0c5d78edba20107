package model

import "time"

// Song represents a track in the catalog.
type Song struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title        string    `json:"title" gorm:"size:255;not null"`
	ArtistID     int64     `json:"artistId" gorm:"index;not null"`
	AlbumName    string    `json:"albumName,omitempty" gorm:"size:255"`
	FileURL      string    `json:"fileUrl" gorm:"size:767;not null"`
	CoverURL     string    `json:"coverUrl,omitempty" gorm:"size:767"`
	Duration     float64   `json:"duration"` // seconds
	Status       Status    `json:"status" gorm:"size:20;not null;index"`
	UploadedByID int64     `json:"uploadedById" gorm:"index;not null"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ArtistInfo is the subset of user fields attached to catalog listings.
type ArtistInfo struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Role        Role   `json:"role"`
}

// UploaderInfo identifies who submitted a song, shown in the review queue.
type UploaderInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CatalogSong is a song enriched with artist details for listener views.
type CatalogSong struct {
	Song
	Artist ArtistInfo `json:"artist" gorm:"-"`
}

// ReviewSong is a pending song enriched with artist and uploader details
// for the admin review queue.
type ReviewSong struct {
	Song
	Artist     ArtistInfo   `json:"artist" gorm:"-"`
	UploadedBy UploaderInfo `json:"uploadedBy" gorm:"-"`
}

// DisplayArtist returns the artist name preferred for display.
func (s *CatalogSong) DisplayArtist() string {
	if s.Artist.DisplayName != "" {
		return s.Artist.DisplayName
	}
	return s.Artist.Name
}
