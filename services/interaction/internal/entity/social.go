package entity

import (
	"errors"
	"time"
)

type FavoriteModel struct {
	ModelID         string    `json:"model_id"`
	Name            string    `json:"name"`
	ProfileImageURL string    `json:"profile_image_url"`
	Rating          float64   `json:"rating"`
	PriceCents      int64     `json:"price_cents"`
	Verified        bool      `json:"verified"`
	FavoritedAt     time.Time `json:"favorited_at"`
}

type FavoriteStatus struct {
	Favorite bool `json:"favorite"`
}

type Review struct {
	ID       string `json:"id"`
	UserName string `json:"user_name"`
	Rating   int    `json:"rating"`
	Content  string `json:"content"`
	Date     string `json:"date"`
}

// ReviewDateLayout renders review dates as "May 2, 2025".
const ReviewDateLayout = "January 2, 2006"

type ModelRating struct {
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
}

var (
	ErrModelNotFound    = errors.New("model not found")
	ErrAlreadyFavorite  = errors.New("Model already in favorites")
	ErrFavoriteNotFound = errors.New("favorite not found")
	ErrAlreadyReviewed  = errors.New("already reviewed")
	ErrOwnModel         = errors.New("cannot review your own model")
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
)
