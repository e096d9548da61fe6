package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

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
	ID            string         `gorm:"type:uuid;primary_key" json:"id"`
	Email         string         `gorm:"uniqueIndex;not null" json:"email"`
	Username      string         `gorm:"uniqueIndex;not null" json:"username"`
	Password      string         `gorm:"column:password_hash;not null" json:"-"`
	Role          UserRole       `gorm:"type:varchar(20);default:'viewer'" json:"role"`
	AvatarURL     string         `json:"avatar_url"`
	Bio           string         `json:"bio"`
	Gender        string         `gorm:"type:varchar(20)" json:"gender"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	CreatorStatus CreatorStatus  `gorm:"type:varchar(20);default:'not_applied';index" json:"creator_status"`
	CreatorNote   string         `json:"creator_note"`
	AppliedAt     *time.Time     `json:"applied_at"`
	ReviewedAt    *time.Time     `json:"reviewed_at"`
	ReviewComment string         `json:"review_comment"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	setID(&u.ID)
	if u.Role == "" {
		u.Role = RoleViewer
	}
	if u.CreatorStatus == "" {
		u.CreatorStatus = CreatorNotApplied
	}
	return nil
}

func setID(id *string) {
	if *id == "" {
		*id = uuid.New().String()
	}
}
