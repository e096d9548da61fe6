package entity

import (
	"errors"
	"io"
	"time"
)

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

type Post struct {
	ID            string    `json:"id"`
	ModelID       string    `json:"model_id"`
	CreatorID     string    `json:"creator_id"`
	Content       string    `json:"content"`
	MediaURL      string    `json:"media_url"`
	MediaKey      string    `json:"-"`
	MediaType     MediaType `json:"media_type"`
	IsPremium     bool      `json:"is_premium"`
	Locked        bool      `json:"locked"`
	LikesCount    int       `json:"likes_count"`
	CommentsCount int       `json:"comments_count"`
	Views         int       `json:"views"`
	Tags          []string  `json:"tags"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (p *Post) Owner() string { return p.CreatorID }
func (p *Post) Model() string { return p.ModelID }
func (p *Post) Premium() bool { return p.IsPremium }

// Lock hides the media of a premium post from a viewer without access.
func (p *Post) Lock() {
	p.Locked = true
	p.MediaURL = ""
}

type NewPost struct {
	Content     string
	IsPremium   bool
	Tags        []string
	Filename    string
	ContentType string
	Media       io.Reader
}

type PostUpdate struct {
	Content   *string
	IsPremium *bool
	Tags      *[]string
}

type ListFilter struct {
	ModelID   string
	IsPremium *bool
	MediaType MediaType
	Limit     int
	Offset    int
}

var (
	ErrPostNotFound     = errors.New("post not found")
	ErrForbidden        = errors.New("you can only modify your own posts")
	ErrModelRequired    = errors.New("create a model profile before posting")
	ErrUnsupportedMedia = errors.New("media must be an image or a video")
	ErrTooManyTags      = errors.New("at most 10 tags allowed")
)
