package entity

import "time"

type UserRole string

const (
	RoleViewer  UserRole = "viewer"
	RoleCreator UserRole = "creator"
	RoleAdmin   UserRole = "admin"
)

type CreatorStatus string

const (
	CreatorNotApplied CreatorStatus = "not_applied"
	CreatorPending    CreatorStatus = "pending"
	CreatorApproved   CreatorStatus = "approved"
	CreatorRejected   CreatorStatus = "rejected"
)

type User struct {
	ID            string        `json:"id"`
	Email         string        `json:"email,omitempty"`
	Username      string        `json:"username"`
	Password      string        `json:"-"`
	AvatarURL     string        `json:"avatar_url"`
	Bio           string        `json:"bio"`
	Gender        string        `json:"gender"`
	Role          UserRole      `json:"role"`
	IsActive      bool          `json:"is_active"`
	CreatorStatus CreatorStatus `json:"creator_status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Public strips fields only the owner may see.
func (u *User) Public() *User {
	cp := *u
	cp.Email = ""
	cp.Password = ""
	return &cp
}

type CreatorApplication struct {
	UserID        string        `json:"user_id"`
	Username      string        `json:"username,omitempty"`
	Email         string        `json:"email,omitempty"`
	Status        CreatorStatus `json:"status"`
	Note          string        `json:"note"`
	AppliedAt     *time.Time    `json:"applied_at"`
	ReviewedAt    *time.Time    `json:"reviewed_at"`
	ReviewComment string        `json:"review_comment"`
}

type ProfileUpdate struct {
	Username *string
	Bio      *string
	Gender   *string
}
