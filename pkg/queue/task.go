package queue

import (
	"context"
	"time"
)

type TaskType string

const (
	TaskNewPost       TaskType = "new_post"
	TaskLike          TaskType = "like"
	TaskComment       TaskType = "comment"
	TaskSubscription  TaskType = "subscription"
	TaskTip           TaskType = "tip"
	TaskReview        TaskType = "review"
	TaskMessage       TaskType = "message"
	TaskCreatorReview TaskType = "creator_review"
)

var defaultPriority = map[TaskType]int{
	TaskMessage:       6,
	TaskNewPost:       5,
	TaskSubscription:  4,
	TaskTip:           4,
	TaskCreatorReview: 4,
	TaskComment:       3,
	TaskLike:          3,
	TaskReview:        2,
}

// Task is one notification job. UserID is the recipient; new_post tasks fan out by ModelID instead.
type Task struct {
	Type        TaskType          `json:"type"`
	Priority    int               `json:"priority"`
	UserID      string            `json:"user_id,omitempty"`
	ActorID     string            `json:"actor_id,omitempty"`
	ModelID     string            `json:"model_id,omitempty"`
	PostID      string            `json:"post_id,omitempty"`
	ReferenceID string            `json:"reference_id,omitempty"`
	Message     string            `json:"message,omitempty"`
	Data        map[string]string `json:"data,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Publisher is implemented by *Client. Usecases take it as an optional dependency.
type Publisher interface {
	Publish(ctx context.Context, task Task) error
}

func NewTask(t TaskType) Task {
	return Task{Type: t, Priority: defaultPriority[t], CreatedAt: time.Now().UTC()}
}

func clampPriority(p int) uint8 {
	if p < 0 {
		return 0
	}
	if p > MaxPriority {
		return MaxPriority
	}
	return uint8(p)
}
