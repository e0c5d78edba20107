package model

import "time"

// Role classifies what a user is allowed to do in the system.
type Role string

const (
	RoleListener    Role = "LISTENER"
	RoleDistributor Role = "DISTRIBUTOR"
	RoleArtist      Role = "ARTIST"
	RoleAdmin       Role = "ADMIN"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleListener, RoleDistributor, RoleArtist, RoleAdmin:
		return true
	}
	return false
}

// Status is the approval state of a user account or a song.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// User represents a user in the system.
type User struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Email        string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	DisplayName  string    `json:"displayName" gorm:"size:255"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	Role         Role      `json:"role" gorm:"size:20;not null"`
	Status       Status    `json:"status" gorm:"size:20;not null"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// InitialStatus returns the account status a freshly created user gets.
// Listeners are usable immediately; every other role waits for admin review.
func InitialStatus(r Role) Status {
	if r == RoleListener {
		return StatusApproved
	}
	return StatusPending
}
