package entity

import (
	"errors"
	"time"
)

type Availability struct {
	Day       string `json:"day"`
	Available bool   `json:"available"`
}

type Model struct {
	ID               string         `json:"id"`
	UserID           string         `json:"user_id"`
	Name             string         `json:"name"`
	Age              int            `json:"age"`
	Bio              string         `json:"bio"`
	PriceCents       int64          `json:"price_cents"`
	Rating           float64        `json:"rating"`
	ReviewCount      int            `json:"review_count"`
	Featured         bool           `json:"featured"`
	Verified         bool           `json:"verified"`
	ProfileImageURL  string         `json:"profile_image_url"`
	FallbackImageURL string         `json:"fallback_image_url"`
	Latitude         *float64       `json:"latitude,omitempty"`
	Longitude        *float64       `json:"longitude,omitempty"`
	Tags             []string       `json:"tags"`
	Availability     []Availability `json:"availability"`
	Distance         string         `json:"distance"`
	CreatedAt        time.Time      `json:"created_at"`
}

type Sort string

const (
	SortDefault Sort = ""
	SortRating  Sort = "rating"
	SortNew     Sort = "new"
	SortPrice   Sort = "price"
)

// Filter narrows GET /models. Zero values mean "no filter".
type Filter struct {
	Featured      *bool
	Verified      *bool
	Tags          []string
	MinRating     float64
	MaxPriceCents int64
	Origin        *Point
	MaxDistance   float64
	Sort          Sort
	Limit         int
	Offset        int
}

type Point struct {
	Lat float64
	Lng float64
}

type Browse struct {
	Featured []*Model `json:"featured"`
	New      []*Model `json:"new"`
	TopRated []*Model `json:"top_rated"`
	Verified []*Model `json:"verified"`
	Nearby   []*Model `json:"nearby"`
}

type ModelInput struct {
	Name             *string
	Age              *int
	Bio              *string
	PriceCents       *int64
	Latitude         *float64
	Longitude        *float64
	ProfileImageURL  *string
	FallbackImageURL *string
}

type ServiceOffer struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
}

var (
	ErrModelNotFound    = errors.New("model not found")
	ErrApprovalRequired = errors.New("creator approval required")
	ErrModelExists      = errors.New("model profile already exists")
	ErrTooManyTags      = errors.New("at most 10 tags allowed")
	ErrInvalidDay       = errors.New("invalid weekday")
	ErrInvalidImage     = errors.New("profile image must be jpg, png or webp")
	ErrNameRequired     = errors.New("name is required")
)
