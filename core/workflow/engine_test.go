package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"dhun/core/apperr"
	"dhun/core/auth"
	"dhun/model"
)

// memUserRepo is an in-memory UserRepository that counts reads so tests can
// assert that unauthorized calls never touch storage.
type memUserRepo struct {
	users map[int64]*model.User
	reads int
}

func (r *memUserRepo) CreateUser(ctx context.Context, user *model.User) (int64, error) {
	id := int64(len(r.users) + 1)
	user.ID = id
	r.users[id] = user
	return id, nil
}

func (r *memUserRepo) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	r.reads++
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (r *memUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) ListUsersByRole(ctx context.Context, role model.Role) ([]*model.User, error) {
	out := make([]*model.User, 0)
	for _, u := range r.users {
		if u.Role == role {
			copied := *u
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memUserRepo) UpdateUserStatus(ctx context.Context, id int64, status model.Status) error {
	u, ok := r.users[id]
	if !ok {
		return errors.New("no such user")
	}
	u.Status = status
	return nil
}

type memSongRepo struct {
	songs map[int64]*model.Song
	reads int
}

func (r *memSongRepo) CreateSong(ctx context.Context, song *model.Song) (int64, error) {
	id := int64(len(r.songs) + 1)
	song.ID = id
	r.songs[id] = song
	return id, nil
}

func (r *memSongRepo) GetSongByID(ctx context.Context, id int64) (*model.Song, error) {
	r.reads++
	s, ok := r.songs[id]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (r *memSongRepo) ListSongsWithArtist(ctx context.Context, status model.Status) ([]*model.CatalogSong, error) {
	return nil, nil
}

func (r *memSongRepo) ListSongsForReview(ctx context.Context, status model.Status) ([]*model.ReviewSong, error) {
	return nil, nil
}

func (r *memSongRepo) UpdateSongStatus(ctx context.Context, id int64, status model.Status) error {
	s, ok := r.songs[id]
	if !ok {
		return errors.New("no such song")
	}
	s.Status = status
	return nil
}

var (
	adminSession    = auth.Session{UserID: 99, Role: model.RoleAdmin, Status: model.StatusApproved}
	listenerSession = auth.Session{UserID: 7, Role: model.RoleListener, Status: model.StatusApproved}
)

func newFixture() (*Engine, *memUserRepo, *memSongRepo) {
	users := &memUserRepo{users: map[int64]*model.User{
		1: {
			ID:          1,
			Email:       "dist@example.com",
			Name:        "Dist",
			DisplayName: "Dist Records",
			Role:        model.RoleDistributor,
			Status:      model.StatusPending,
			CreatedAt:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	}}
	songs := &memSongRepo{songs: map[int64]*model.Song{
		1: {
			ID:           1,
			Title:        "First Light",
			ArtistID:     1,
			FileURL:      "https://cdn.example/first-light.mp3",
			Duration:     201,
			Status:       model.StatusPending,
			UploadedByID: 1,
			CreatedAt:    time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		},
	}}
	return NewEngine(users, songs), users, songs
}

func TestSetUserStatusApprove(t *testing.T) {
	engine, users, _ := newFixture()

	updated, err := engine.SetUserStatus(context.Background(), adminSession, 1, model.StatusApproved)
	if err != nil {
		t.Fatalf("SetUserStatus: %v", err)
	}
	if updated.Status != model.StatusApproved {
		t.Errorf("returned status = %s, want APPROVED", updated.Status)
	}
	if users.users[1].Status != model.StatusApproved {
		t.Errorf("stored status = %s, want APPROVED", users.users[1].Status)
	}
}

func TestSetUserStatusMutatesOnlyStatus(t *testing.T) {
	engine, users, _ := newFixture()
	before := *users.users[1]

	if _, err := engine.SetUserStatus(context.Background(), adminSession, 1, model.StatusRejected); err != nil {
		t.Fatalf("SetUserStatus: %v", err)
	}

	after := *users.users[1]
	before.Status, after.Status = "", ""
	if before != after {
		t.Errorf("fields other than status changed:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestNonAdminIsRejectedBeforeAnyRead(t *testing.T) {
	engine, users, songs := newFixture()
	userBefore := *users.users[1]
	songBefore := *songs.songs[1]

	if _, err := engine.SetUserStatus(context.Background(), listenerSession, 1, model.StatusApproved); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("SetUserStatus error = %v, want Unauthorized", err)
	}
	if _, err := engine.SetSongStatus(context.Background(), listenerSession, 1, model.StatusApproved); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("SetSongStatus error = %v, want Unauthorized", err)
	}

	if users.reads != 0 || songs.reads != 0 {
		t.Errorf("storage was read by unauthorized calls: user reads %d, song reads %d", users.reads, songs.reads)
	}
	if *users.users[1] != userBefore {
		t.Error("user record changed by unauthorized call")
	}
	if *songs.songs[1] != songBefore {
		t.Error("song record changed by unauthorized call")
	}
}

func TestInvalidStatusRejected(t *testing.T) {
	engine, _, _ := newFixture()

	for _, status := range []model.Status{"", model.StatusPending, "BANANA"} {
		if _, err := engine.SetSongStatus(context.Background(), adminSession, 1, status); !errors.Is(err, apperr.ErrInvalidArgument) {
			t.Errorf("SetSongStatus(%q) error = %v, want InvalidArgument", status, err)
		}
	}
}

func TestUnknownTargetNotFound(t *testing.T) {
	engine, _, _ := newFixture()

	if _, err := engine.SetUserStatus(context.Background(), adminSession, 42, model.StatusApproved); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("SetUserStatus(42) error = %v, want NotFound", err)
	}
	if _, err := engine.SetSongStatus(context.Background(), adminSession, 42, model.StatusApproved); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("SetSongStatus(42) error = %v, want NotFound", err)
	}
}

func TestSetSongStatusIdempotent(t *testing.T) {
	engine, _, songs := newFixture()

	first, err := engine.SetSongStatus(context.Background(), adminSession, 1, model.StatusApproved)
	if err != nil {
		t.Fatalf("first approve: %v", err)
	}
	afterFirst := *songs.songs[1]

	second, err := engine.SetSongStatus(context.Background(), adminSession, 1, model.StatusApproved)
	if err != nil {
		t.Fatalf("second approve: %v", err)
	}

	if *songs.songs[1] != afterFirst {
		t.Errorf("record changed by repeated approve:\nfirst  %+v\nsecond %+v", afterFirst, *songs.songs[1])
	}
	if first.Status != second.Status {
		t.Errorf("returned statuses differ: %s vs %s", first.Status, second.Status)
	}
}
