package entity

import "time"

const (
	ExploreWindow = 30 * 24 * time.Hour
	MediaVideo    = "video"
)

// Post is a feed entry as seen by one viewer.
type Post struct {
	ID              string    `json:"id"`
	ModelID         string    `json:"model_id"`
	ModelName       string    `json:"model_name"`
	CreatorID       string    `json:"creator_id"`
	CreatorUsername string    `json:"creator_username"`
	CreatorAvatar   string    `json:"creator_avatar"`
	Content         string    `json:"content"`
	MediaURL        string    `json:"media_url"`
	MediaType       string    `json:"media_type"`
	IsPremium       bool      `json:"is_premium"`
	Locked          bool      `json:"locked"`
	Subscribed      bool      `json:"subscribed"`
	LikesCount      int       `json:"likes_count"`
	CommentsCount   int       `json:"comments_count"`
	Views           int       `json:"views"`
	Tags            []string  `json:"tags"`
	CreatedAt       time.Time `json:"created_at"`
}

func (p *Post) Owner() string { return p.CreatorID }
func (p *Post) Model() string { return p.ModelID }
func (p *Post) Premium() bool { return p.IsPremium }

func (p *Post) Lock() {
	p.Locked = true
	p.MediaURL = ""
}

type Page struct {
	Posts  []*Post `json:"posts"`
	Count  int     `json:"count"`
	Offset int     `json:"offset"`
}

// Query selects one page of posts. Prioritized model ids sort ahead of everything else.
type Query struct {
	Prioritize     []string
	ExcludeCreator string
	MediaType      string
	Tag            string
	Since          time.Time
	ByPopularity   bool
	Limit          int
	Offset         int
}
