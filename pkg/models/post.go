package models

import (
	"time"

	"gorm.io/gorm"
)

type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

type Post struct {
	ID            string         `gorm:"type:uuid;primary_key" json:"id"`
	ModelID       string         `gorm:"type:uuid;not null;index" json:"model_id"`
	CreatorID     string         `gorm:"type:uuid;not null;index" json:"creator_id"`
	Content       string         `json:"content"`
	MediaURL      string         `gorm:"not null" json:"media_url"`
	MediaKey      string         `json:"-"`
	MediaType     MediaType      `gorm:"type:varchar(10);not null;index" json:"media_type"`
	IsPremium     bool           `gorm:"default:false;index" json:"is_premium"`
	LikesCount    int            `gorm:"default:0" json:"likes_count"`
	CommentsCount int            `gorm:"default:0" json:"comments_count"`
	Views         int            `gorm:"default:0" json:"views"`
	Tags          []PostTag      `gorm:"foreignKey:PostID" json:"tags"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	setID(&p.ID)
	return nil
}

type PostTag struct {
	PostID string `gorm:"type:uuid;primaryKey" json:"post_id"`
	Tag    string `gorm:"primaryKey;size:50;index" json:"tag"`
}

type Like struct {
	ID        string         `gorm:"type:uuid;primary_key" json:"id"`
	UserID    string         `gorm:"type:uuid;not null;uniqueIndex:idx_like_user_post" json:"user_id"`
	PostID    string         `gorm:"type:uuid;not null;uniqueIndex:idx_like_user_post;index" json:"post_id"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	setID(&l.ID)
	return nil
}

type Comment struct {
	ID        string         `gorm:"type:uuid;primary_key" json:"id"`
	PostID    string         `gorm:"type:uuid;not null;index" json:"post_id"`
	UserID    string         `gorm:"type:uuid;not null;index" json:"user_id"`
	Content   string         `gorm:"not null" json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	setID(&c.ID)
	return nil
}
