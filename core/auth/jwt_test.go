package auth

import (
	"testing"
	"time"

	"dhun/model"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	user := &model.User{ID: 42, Role: model.RoleDistributor, Status: model.StatusApproved}

	token, err := issuer.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := issuer.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Role != model.RoleDistributor {
		t.Errorf("Role = %s, want DISTRIBUTOR", claims.Role)
	}
	if claims.Status != model.StatusApproved {
		t.Errorf("Status = %s, want APPROVED", claims.Status)
	}

	session := claims.Session()
	if session.UserID != 42 || session.Role != model.RoleDistributor {
		t.Errorf("Session = %+v, want claims carried over", session)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("secret-a", time.Hour)
	other := NewTokenIssuer("secret-b", time.Hour)

	token, err := issuer.GenerateToken(&model.User{ID: 1, Role: model.RoleListener, Status: model.StatusApproved})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := other.ParseToken(token); err == nil {
		t.Error("ParseToken accepted a token signed with another secret")
	}
}

func TestParseTokenExpired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute)

	token, err := issuer.GenerateToken(&model.User{ID: 1, Role: model.RoleListener, Status: model.StatusApproved})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := issuer.ParseToken(token); err == nil {
		t.Error("ParseToken accepted an expired token")
	}
}

func TestCanSubmitSongs(t *testing.T) {
	tests := []struct {
		name    string
		session Session
		want    bool
	}{
		{"approved distributor", Session{Role: model.RoleDistributor, Status: model.StatusApproved}, true},
		{"approved artist", Session{Role: model.RoleArtist, Status: model.StatusApproved}, true},
		{"pending distributor", Session{Role: model.RoleDistributor, Status: model.StatusPending}, false},
		{"rejected artist", Session{Role: model.RoleArtist, Status: model.StatusRejected}, false},
		{"approved listener", Session{Role: model.RoleListener, Status: model.StatusApproved}, false},
		{"approved admin", Session{Role: model.RoleAdmin, Status: model.StatusApproved}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.session.CanSubmitSongs(); got != tt.want {
				t.Errorf("CanSubmitSongs() = %v, want %v", got, tt.want)
			}
		})
	}
}
