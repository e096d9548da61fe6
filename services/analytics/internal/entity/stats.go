package entity

import (
	"errors"
	"time"
)

const (
	DefaultEarningsDays = 30
	MaxEarningsDays     = 365
	DayLayout           = "2006-01-02"
)

type CreatorStats struct {
	TotalPosts         int64   `json:"total_posts"`
	TotalViews         int64   `json:"total_views"`
	TotalLikes         int64   `json:"total_likes"`
	TotalComments      int64   `json:"total_comments"`
	ActiveSubscribers  int64   `json:"active_subscribers"`
	TotalEarningsCents int64   `json:"total_earnings_cents"`
	Rating             float64 `json:"rating"`
	ReviewCount        int     `json:"review_count"`
}

// PostTotals is the aggregate over a creator's live posts.
type PostTotals struct {
	Posts    int64
	Views    int64
	Likes    int64
	Comments int64
}

type PostStats struct {
	PostID    string `json:"post_id"`
	Views     int    `json:"views"`
	Likes     int    `json:"likes"`
	Comments  int    `json:"comments"`
	TipsCount int64  `json:"tips_count"`
	TipsCents int64  `json:"tips_cents"`
}

type PostRef struct {
	ID            string
	CreatorID     string
	Views         int
	LikesCount    int
	CommentsCount int
}

type Credit struct {
	AmountCents int64
	CreatedAt   time.Time
}

type EarningsDay struct {
	Date        string `json:"date"`
	AmountCents int64  `json:"amount_cents"`
}

type Earnings struct {
	Days       int           `json:"days"`
	TotalCents int64         `json:"total_cents"`
	Daily      []EarningsDay `json:"daily"`
}

var (
	ErrPostNotFound = errors.New("post not found")
	ErrForbidden    = errors.New("you can only view stats for your own posts")
	ErrInvalidDays  = errors.New("days must be between 1 and 365")
)
