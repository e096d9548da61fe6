package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestFromQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		query string
		want  Page
	}{
		{"", Page{Limit: 20, Offset: 0}},
		{"?limit=5&offset=10", Page{Limit: 5, Offset: 10}},
		{"?limit=500", Page{Limit: MaxLimit, Offset: 0}},
		{"?limit=-1&offset=-3", Page{Limit: 20, Offset: 0}},
		{"?limit=abc", Page{Limit: 20, Offset: 0}},
	}

	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/"+tc.query, nil)
		assert.Equal(t, tc.want, FromQuery(c, 0), tc.query)
	}
}
