package entity

import (
	"errors"
	"time"
)

type LikeStatus struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likes_count"`
}

// LikedPost is a post as listed under the caller's likes.
type LikedPost struct {
	ID            string    `json:"id"`
	ModelID       string    `json:"model_id"`
	CreatorID     string    `json:"creator_id"`
	Content       string    `json:"content"`
	MediaURL      string    `json:"media_url"`
	MediaType     string    `json:"media_type"`
	IsPremium     bool      `json:"is_premium"`
	Locked        bool      `json:"locked"`
	LikesCount    int       `json:"likes_count"`
	CommentsCount int       `json:"comments_count"`
	CreatedAt     time.Time `json:"created_at"`
	LikedAt       time.Time `json:"liked_at"`
}

func (p *LikedPost) Owner() string { return p.CreatorID }
func (p *LikedPost) Model() string { return p.ModelID }
func (p *LikedPost) Premium() bool { return p.IsPremium }

func (p *LikedPost) Lock() {
	p.Locked = true
	p.MediaURL = ""
}

type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	AvatarURL string    `json:"avatar_url"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// PostRef is the minimum the interaction service needs to know about a post.
type PostRef struct {
	ID        string
	ModelID   string
	CreatorID string
}

type ModelRef struct {
	ID     string
	UserID string
}

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrForbidden       = errors.New("not allowed to delete this comment")
)
