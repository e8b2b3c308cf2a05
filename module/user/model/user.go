package model

import "time"

const Collection = "users"

// Roles. Moderation endpoints check these on the caller's record, not on
// anything carried in the token.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// Status
const (
	StatusNormal = "normal"
	StatusBanned = "banned"
)

// User is the member master record.
type User struct {
	UserID       string    `bson:"user_id" json:"user_id"`
	Username     string    `bson:"username" json:"username"`
	Email        string    `bson:"email" json:"-"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	Nickname     string    `bson:"nickname,omitempty" json:"nickname,omitempty"`
	FaceURL      string    `bson:"face_url,omitempty" json:"face_url,omitempty"`
	Bio          string    `bson:"bio,omitempty" json:"bio,omitempty"`
	Role         string    `bson:"role" json:"role"`
	Status       string    `bson:"status" json:"status"`

	// Blocked holds user ids this member blocked. Blocked pairs get no DMs
	// and no notifications from each other.
	Blocked []string `bson:"blocked,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin || u.Role == RoleModerator
}
