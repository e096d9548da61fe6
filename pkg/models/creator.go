package models

import (
	"time"

	"gorm.io/gorm"
)

// CreatorProfile is the public "model" card owned by an approved creator.
type CreatorProfile struct {
	ID               string              `gorm:"type:uuid;primary_key" json:"id"`
	UserID           string              `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Name             string              `gorm:"not null" json:"name"`
	Age              int                 `json:"age"`
	Bio              string              `json:"bio"`
	PriceCents       int64               `gorm:"default:0" json:"price_cents"`
	Rating           float64             `gorm:"default:0;index" json:"rating"`
	ReviewCount      int                 `gorm:"default:0" json:"review_count"`
	Featured         bool                `gorm:"default:false;index" json:"featured"`
	Verified         bool                `gorm:"default:false;index" json:"verified"`
	ProfileImageURL  string              `json:"profile_image_url"`
	FallbackImageURL string              `json:"fallback_image_url"`
	Latitude         *float64            `json:"latitude"`
	Longitude        *float64            `json:"longitude"`
	Tags             []ModelTag          `gorm:"foreignKey:ModelID" json:"tags"`
	Availability     []ModelAvailability `gorm:"foreignKey:ModelID" json:"availability"`
	CreatedAt        time.Time           `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
	DeletedAt        gorm.DeletedAt      `gorm:"index" json:"-"`
}

func (CreatorProfile) TableName() string { return "models" }

func (m *CreatorProfile) BeforeCreate(tx *gorm.DB) error {
	setID(&m.ID)
	return nil
}

type ModelTag struct {
	ModelID string `gorm:"type:uuid;primaryKey" json:"model_id"`
	Tag     string `gorm:"primaryKey;size:50;index" json:"tag"`
}

type ModelAvailability struct {
	ModelID   string `gorm:"type:uuid;primaryKey" json:"model_id"`
	Day       string `gorm:"primaryKey;size:10" json:"day"`
	Available bool   `json:"available"`
}

func (ModelAvailability) TableName() string { return "model_availability" }
