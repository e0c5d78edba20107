package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dhun/config"
	"dhun/core/auth"
	"dhun/core/catalog"
	"dhun/core/workflow"
	"dhun/model"
	"dhun/repository"
)

// In-memory repositories backing the handler tests.

type stubUserRepo struct {
	byID    map[int64]*model.User
	byEmail map[string]*model.User
	nextID  int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: map[int64]*model.User{}, byEmail: map[string]*model.User{}, nextID: 1}
}

func (r *stubUserRepo) CreateUser(ctx context.Context, user *model.User) (int64, error) {
	if _, exists := r.byEmail[user.Email]; exists {
		return 0, repository.ErrDuplicateUser
	}
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	r.byID[user.ID] = user
	r.byEmail[user.Email] = user
	return user.ID, nil
}

func (r *stubUserRepo) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	return r.byID[id], nil
}

func (r *stubUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.byEmail[email], nil
}

func (r *stubUserRepo) ListUsersByRole(ctx context.Context, role model.Role) ([]*model.User, error) {
	out := make([]*model.User, 0)
	for _, u := range r.byID {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) UpdateUserStatus(ctx context.Context, id int64, status model.Status) error {
	if u, ok := r.byID[id]; ok {
		u.Status = status
	}
	return nil
}

type stubSongRepo struct {
	byID   map[int64]*model.Song
	nextID int64
}

func newStubSongRepo() *stubSongRepo {
	return &stubSongRepo{byID: map[int64]*model.Song{}, nextID: 1}
}

func (r *stubSongRepo) CreateSong(ctx context.Context, song *model.Song) (int64, error) {
	song.ID = r.nextID
	r.nextID++
	song.CreatedAt = time.Now()
	r.byID[song.ID] = song
	return song.ID, nil
}

func (r *stubSongRepo) GetSongByID(ctx context.Context, id int64) (*model.Song, error) {
	return r.byID[id], nil
}

func (r *stubSongRepo) ListSongsWithArtist(ctx context.Context, status model.Status) ([]*model.CatalogSong, error) {
	out := make([]*model.CatalogSong, 0)
	for _, s := range r.byID {
		if s.Status == status {
			out = append(out, &model.CatalogSong{Song: *s})
		}
	}
	return out, nil
}

func (r *stubSongRepo) ListSongsForReview(ctx context.Context, status model.Status) ([]*model.ReviewSong, error) {
	out := make([]*model.ReviewSong, 0)
	for _, s := range r.byID {
		if s.Status == status {
			out = append(out, &model.ReviewSong{Song: *s})
		}
	}
	return out, nil
}

func (r *stubSongRepo) UpdateSongStatus(ctx context.Context, id int64, status model.Status) error {
	if s, ok := r.byID[id]; ok {
		s.Status = status
	}
	return nil
}

func newTestHandler() (*APIHandler, *stubUserRepo, *stubSongRepo) {
	users := newStubUserRepo()
	songs := newStubSongRepo()
	engine := workflow.NewEngine(users, songs)
	catalogSvc := catalog.NewService(users, songs)
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	h := NewAPIHandler(users, songs, engine, catalogSvc, tokens, &config.Config{})
	return h, users, songs
}

func doJSON(t *testing.T, handler http.HandlerFunc, method, path string, body interface{}, session *auth.Session) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if session != nil {
		req = req.WithContext(auth.WithSession(req.Context(), *session))
	}

	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestSignupListenerAutoApproved(t *testing.T) {
	h, users, _ := newTestHandler()

	rec := doJSON(t, h.SignupHandler, http.MethodPost, "/api/auth/signup", map[string]string{
		"email":    "fan@example.com",
		"password": "hunter2whoa",
		"name":     "Fan",
	}, nil)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", rec.Code, rec.Body.String())
	}

	user := users.byEmail["fan@example.com"]
	if user == nil {
		t.Fatal("user was not created")
	}
	if user.Role != model.RoleListener || user.Status != model.StatusApproved {
		t.Errorf("role/status = %s/%s, want LISTENER/APPROVED", user.Role, user.Status)
	}
	if user.DisplayName != "Fan" {
		t.Errorf("DisplayName = %q, want fallback to name", user.DisplayName)
	}
}

func TestSignupNonListenerRolesStartPending(t *testing.T) {
	for _, role := range []model.Role{model.RoleDistributor, model.RoleArtist, model.RoleAdmin} {
		t.Run(string(role), func(t *testing.T) {
			h, users, _ := newTestHandler()

			rec := doJSON(t, h.SignupHandler, http.MethodPost, "/api/auth/signup", map[string]string{
				"email":    "someone@example.com",
				"password": "hunter2whoa",
				"name":     "Someone",
				"role":     string(role),
			}, nil)

			if rec.Code != http.StatusCreated {
				t.Fatalf("status = %d, want 201; body %s", rec.Code, rec.Body.String())
			}
			if got := users.byEmail["someone@example.com"].Status; got != model.StatusPending {
				t.Errorf("status = %s, want PENDING", got)
			}
		})
	}
}

func TestSignupValidation(t *testing.T) {
	h, _, _ := newTestHandler()

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing email", map[string]string{"password": "x", "name": "X"}},
		{"missing password", map[string]string{"email": "x@example.com", "name": "X"}},
		{"missing name", map[string]string{"email": "x@example.com", "password": "x"}},
		{"unknown role", map[string]string{"email": "x@example.com", "password": "x", "name": "X", "role": "OVERLORD"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, h.SignupHandler, http.MethodPost, "/api/auth/signup", tt.body, nil)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	h, _, _ := newTestHandler()
	body := map[string]string{"email": "dup@example.com", "password": "x", "name": "Dup"}

	if rec := doJSON(t, h.SignupHandler, http.MethodPost, "/api/auth/signup", body, nil); rec.Code != http.StatusCreated {
		t.Fatalf("first signup: status = %d", rec.Code)
	}
	if rec := doJSON(t, h.SignupHandler, http.MethodPost, "/api/auth/signup", body, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate signup: status = %d, want 400", rec.Code)
	}
}

func adminSession() *auth.Session {
	return &auth.Session{UserID: 99, Role: model.RoleAdmin, Status: model.StatusApproved}
}

func listenerSession() *auth.Session {
	return &auth.Session{UserID: 7, Role: model.RoleListener, Status: model.StatusApproved}
}

func TestUpdateDistributorStatus(t *testing.T) {
	h, users, _ := newTestHandler()
	users.byID[1] = &model.User{ID: 1, Email: "d@example.com", Role: model.RoleDistributor, Status: model.StatusPending}
	users.nextID = 2

	rec := doJSON(t, h.UpdateDistributorHandler, http.MethodPatch, "/api/admin/distributors",
		map[string]interface{}{"userId": 1, "status": "APPROVED"}, adminSession())

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	if users.byID[1].Status != model.StatusApproved {
		t.Errorf("stored status = %s, want APPROVED", users.byID[1].Status)
	}

	var updated model.User
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if updated.Status != model.StatusApproved {
		t.Errorf("response status = %s, want APPROVED", updated.Status)
	}
}

func TestUpdateDistributorStatusAuthorization(t *testing.T) {
	h, users, _ := newTestHandler()
	users.byID[1] = &model.User{ID: 1, Role: model.RoleDistributor, Status: model.StatusPending}

	rec := doJSON(t, h.UpdateDistributorHandler, http.MethodPatch, "/api/admin/distributors",
		map[string]interface{}{"userId": 1, "status": "APPROVED"}, listenerSession())

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if users.byID[1].Status != model.StatusPending {
		t.Errorf("record mutated by unauthorized call: %s", users.byID[1].Status)
	}
}

func TestUpdateSongStatusErrors(t *testing.T) {
	h, _, songs := newTestHandler()
	songs.byID[1] = &model.Song{ID: 1, Title: "T", Status: model.StatusPending}
	songs.nextID = 2

	tests := []struct {
		name     string
		body     map[string]interface{}
		session  *auth.Session
		wantCode int
	}{
		{"missing status", map[string]interface{}{"songId": 1}, adminSession(), http.StatusBadRequest},
		{"missing song id", map[string]interface{}{"status": "APPROVED"}, adminSession(), http.StatusBadRequest},
		{"invalid status", map[string]interface{}{"songId": 1, "status": "PENDING"}, adminSession(), http.StatusBadRequest},
		{"unknown song", map[string]interface{}{"songId": 42, "status": "APPROVED"}, adminSession(), http.StatusNotFound},
		{"non-admin", map[string]interface{}{"songId": 1, "status": "APPROVED"}, listenerSession(), http.StatusUnauthorized},
		{"happy path", map[string]interface{}{"songId": 1, "status": "APPROVED"}, adminSession(), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, h.UpdateSongHandler, http.MethodPatch, "/api/admin/songs", tt.body, tt.session)
			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
		})
	}
}

func TestGetSongsRequiresSession(t *testing.T) {
	h, _, _ := newTestHandler()

	rec := doJSON(t, h.GetSongsHandler, http.MethodGet, "/api/songs", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestGetSongsFiltersToApproved(t *testing.T) {
	h, _, songs := newTestHandler()
	songs.byID[1] = &model.Song{ID: 1, Title: "Approved", Status: model.StatusApproved}
	songs.byID[2] = &model.Song{ID: 2, Title: "Pending", Status: model.StatusPending}
	songs.nextID = 3

	rec := doJSON(t, h.GetSongsHandler, http.MethodGet, "/api/songs", nil, listenerSession())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got []model.CatalogSong
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) != 1 || got[0].Status != model.StatusApproved {
		t.Errorf("songs = %+v, want only the approved song", got)
	}
}

func TestSubmitSongRequiresApprovedCreator(t *testing.T) {
	h, _, _ := newTestHandler()
	body := map[string]interface{}{"title": "New Song", "fileUrl": "https://cdn.example/new.mp3"}

	pending := &auth.Session{UserID: 3, Role: model.RoleDistributor, Status: model.StatusPending}
	if rec := doJSON(t, h.SubmitSongHandler, http.MethodPost, "/api/songs", body, pending); rec.Code != http.StatusUnauthorized {
		t.Errorf("pending distributor: status = %d, want 401", rec.Code)
	}

	if rec := doJSON(t, h.SubmitSongHandler, http.MethodPost, "/api/songs", body, listenerSession()); rec.Code != http.StatusUnauthorized {
		t.Errorf("listener: status = %d, want 401", rec.Code)
	}
}

func TestSubmitSongEntersReviewQueue(t *testing.T) {
	h, _, songs := newTestHandler()
	creator := &auth.Session{UserID: 3, Role: model.RoleDistributor, Status: model.StatusApproved}

	rec := doJSON(t, h.SubmitSongHandler, http.MethodPost, "/api/songs", map[string]interface{}{
		"title":   "New Song",
		"fileUrl": "https://cdn.example/new.mp3",
	}, creator)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", rec.Code, rec.Body.String())
	}

	song := songs.byID[1]
	if song == nil {
		t.Fatal("song was not created")
	}
	if song.Status != model.StatusPending {
		t.Errorf("status = %s, want PENDING", song.Status)
	}
	if song.UploadedByID != 3 || song.ArtistID != 3 {
		t.Errorf("uploader/artist = %d/%d, want submitter 3 for both", song.UploadedByID, song.ArtistID)
	}
}

func TestAuthMiddleware(t *testing.T) {
	h, _, _ := newTestHandler()

	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	token, err := issuer.GenerateToken(&model.User{ID: 5, Role: model.RoleListener, Status: model.StatusApproved})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	var gotSession auth.Session
	wrapped := h.AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
		gotSession, _ = auth.SessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name     string
		header   string
		wantCode int
	}{
		{"valid token", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"malformed header", "Token " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/songs", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			wrapped(rec, req)
			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
		})
	}

	if gotSession.UserID != 5 || gotSession.Role != model.RoleListener {
		t.Errorf("session from context = %+v, want user 5 listener", gotSession)
	}
}
