package queue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	task := NewTask(TaskNewPost)
	assert.Equal(t, TaskNewPost, task.Type)
	assert.Equal(t, 5, task.Priority)
	assert.False(t, task.CreatedAt.IsZero())

	assert.Equal(t, 6, NewTask(TaskMessage).Priority)
	assert.Equal(t, 0, NewTask(TaskType("unknown")).Priority)
}

func TestClampPriority(t *testing.T) {
	assert.Equal(t, uint8(0), clampPriority(-4))
	assert.Equal(t, uint8(7), clampPriority(7))
	assert.Equal(t, uint8(MaxPriority), clampPriority(99))
}

func TestTaskJSON(t *testing.T) {
	task := NewTask(TaskLike)
	task.UserID = "creator-1"
	task.ActorID = "fan-1"
	task.PostID = "post-1"

	raw, err := json.Marshal(task)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Equal(t, "like", fields["type"])
	assert.Equal(t, "creator-1", fields["user_id"])
	assert.NotContains(t, fields, "model_id")
}

func TestNilClientClose(t *testing.T) {
	var c *Client
	assert.NoError(t, c.Close())
}
