package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestRegisteredSpec(t *testing.T) {
	raw, err := swag.ReadDoc("notification")
	require.NoError(t, err)

	var doc struct {
		Host  string                                `json:"host"`
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	operations := 0
	for _, methods := range doc.Paths {
		operations += len(methods)
	}
	assert.Equal(t, 8, operations)
	assert.Contains(t, doc.Paths["/admin/notifications/queue"], "get")
	assert.Equal(t, "localhost:8006", doc.Host)
}
