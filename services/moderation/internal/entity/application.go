package entity

import (
	"errors"
	"time"
)

type Decision string

const (
	DecisionApprove Decision = "approved"
	DecisionReject  Decision = "rejected"
)

type Application struct {
	UserID        string     `json:"user_id"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	AvatarURL     string     `json:"avatar_url"`
	Status        string     `json:"status"`
	Note          string     `json:"note"`
	AppliedAt     *time.Time `json:"applied_at"`
	ReviewedAt    *time.Time `json:"reviewed_at"`
	ReviewComment string     `json:"review_comment"`
}

type Stats struct {
	Users               int64 `json:"users"`
	Creators            int64 `json:"creators"`
	PendingApplications int64 `json:"pending_applications"`
	Posts               int64 `json:"posts"`
}

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrNotPending    = errors.New("application is not pending")
	ErrPostNotFound  = errors.New("post not found")
	ErrInvalidStatus = errors.New("invalid application status")
)
