package models

import (
	"time"

	"gorm.io/gorm"
)

type Favorite struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_model" json:"user_id"`
	ModelID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_model;index" json:"model_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	setID(&f.ID)
	return nil
}

type Review struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	ModelID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_review_model_user" json:"model_id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_review_model_user" json:"user_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Content   string    `json:"content"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	setID(&r.ID)
	return nil
}
