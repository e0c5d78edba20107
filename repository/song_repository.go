package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"dhun/model"
)

// SongRepository defines the interface for song data operations.
type SongRepository interface {
	CreateSong(ctx context.Context, song *model.Song) (int64, error)
	GetSongByID(ctx context.Context, id int64) (*model.Song, error)
	ListSongsWithArtist(ctx context.Context, status model.Status) ([]*model.CatalogSong, error)
	ListSongsForReview(ctx context.Context, status model.Status) ([]*model.ReviewSong, error)
	UpdateSongStatus(ctx context.Context, id int64, status model.Status) error
}

// mysqlSongRepository implements SongRepository for MySQL.
type mysqlSongRepository struct {
	db *sql.DB
}

// NewMySQLSongRepository creates a new mysqlSongRepository.
func NewMySQLSongRepository(db *sql.DB) SongRepository {
	return &mysqlSongRepository{db: db}
}

const songColumns = "s.id, s.title, s.artist_id, s.album_name, s.file_url, s.cover_url, s.duration, s.status, s.uploaded_by_id, s.created_at, s.updated_at"

func scanSong(row interface{ Scan(...interface{}) error }, song *model.Song) (albumName, coverURL sql.NullString, err error) {
	err = row.Scan(&song.ID, &song.Title, &song.ArtistID, &albumName, &song.FileURL, &coverURL, &song.Duration, &song.Status, &song.UploadedByID, &song.CreatedAt, &song.UpdatedAt)
	return albumName, coverURL, err
}

func applyNullables(song *model.Song, albumName, coverURL sql.NullString) {
	if albumName.Valid {
		song.AlbumName = albumName.String
	}
	if coverURL.Valid {
		song.CoverURL = coverURL.String
	}
}

// CreateSong adds a new song to the database.
func (r *mysqlSongRepository) CreateSong(ctx context.Context, song *model.Song) (int64, error) {
	query := `INSERT INTO songs (title, artist_id, album_name, file_url, cover_url, duration, status, uploaded_by_id, created_at, updated_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	res, err := r.db.ExecContext(ctx, query, song.Title, song.ArtistID, song.AlbumName, song.FileURL, song.CoverURL, song.Duration, song.Status, song.UploadedByID, now, now)
	if err != nil {
		return 0, fmt.Errorf("failed to execute CreateSong: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for CreateSong: %w", err)
	}
	return id, nil
}

// GetSongByID retrieves a song by its ID. Returns (nil, nil) when absent.
func (r *mysqlSongRepository) GetSongByID(ctx context.Context, id int64) (*model.Song, error) {
	query := "SELECT " + songColumns + " FROM songs s WHERE s.id = ?"
	song := &model.Song{}
	albumName, coverURL, err := scanSong(r.db.QueryRowContext(ctx, query, id), song)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan song by ID %d: %w", id, err)
	}
	applyNullables(song, albumName, coverURL)
	return song, nil
}

// ListSongsWithArtist retrieves songs of the given status joined with their
// artist, newest first with a stable id tiebreak.
func (r *mysqlSongRepository) ListSongsWithArtist(ctx context.Context, status model.Status) ([]*model.CatalogSong, error) {
	query := `SELECT ` + songColumns + `, a.id, a.name, a.display_name, a.role
	           FROM songs s
	           JOIN users a ON a.id = s.artist_id
	           WHERE s.status = ?
	           ORDER BY s.created_at DESC, s.id DESC`
	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs with status %s: %w", status, err)
	}
	defer rows.Close()

	songs := make([]*model.CatalogSong, 0)
	for rows.Next() {
		entry := &model.CatalogSong{}
		var albumName, coverURL, artistDisplay sql.NullString
		err := rows.Scan(&entry.ID, &entry.Title, &entry.ArtistID, &albumName, &entry.FileURL, &coverURL, &entry.Duration, &entry.Status, &entry.UploadedByID, &entry.CreatedAt, &entry.UpdatedAt,
			&entry.Artist.ID, &entry.Artist.Name, &artistDisplay, &entry.Artist.Role)
		if err != nil {
			return nil, fmt.Errorf("failed to scan song in ListSongsWithArtist: %w", err)
		}
		applyNullables(&entry.Song, albumName, coverURL)
		if artistDisplay.Valid {
			entry.Artist.DisplayName = artistDisplay.String
		}
		songs = append(songs, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration in ListSongsWithArtist: %w", err)
	}
	return songs, nil
}

// ListSongsForReview retrieves songs of the given status joined with artist
// and uploader details for the admin review queue.
func (r *mysqlSongRepository) ListSongsForReview(ctx context.Context, status model.Status) ([]*model.ReviewSong, error) {
	query := `SELECT ` + songColumns + `, a.id, a.name, a.display_name, a.role, u.name, u.email
	           FROM songs s
	           JOIN users a ON a.id = s.artist_id
	           JOIN users u ON u.id = s.uploaded_by_id
	           WHERE s.status = ?
	           ORDER BY s.created_at DESC, s.id DESC`
	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to query review songs with status %s: %w", status, err)
	}
	defer rows.Close()

	songs := make([]*model.ReviewSong, 0)
	for rows.Next() {
		entry := &model.ReviewSong{}
		var albumName, coverURL, artistDisplay sql.NullString
		err := rows.Scan(&entry.ID, &entry.Title, &entry.ArtistID, &albumName, &entry.FileURL, &coverURL, &entry.Duration, &entry.Status, &entry.UploadedByID, &entry.CreatedAt, &entry.UpdatedAt,
			&entry.Artist.ID, &entry.Artist.Name, &artistDisplay, &entry.Artist.Role,
			&entry.UploadedBy.Name, &entry.UploadedBy.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to scan song in ListSongsForReview: %w", err)
		}
		applyNullables(&entry.Song, albumName, coverURL)
		if artistDisplay.Valid {
			entry.Artist.DisplayName = artistDisplay.String
		}
		songs = append(songs, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration in ListSongsForReview: %w", err)
	}
	return songs, nil
}

// UpdateSongStatus sets the status field of one song.
func (r *mysqlSongRepository) UpdateSongStatus(ctx context.Context, id int64, status model.Status) error {
	query := "UPDATE songs SET status = ?, updated_at = ? WHERE id = ?"
	_, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update status for song ID %d: %w", id, err)
	}
	return nil
}
