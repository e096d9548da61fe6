package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type Page struct {
	Limit  int
	Offset int
}

// FromQuery reads limit and offset, clamping bad values instead of rejecting them.
func FromQuery(c *gin.Context, defaultLimit int) Page {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return Page{Limit: limit, Offset: offset}
}
