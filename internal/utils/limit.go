// internal/utils/limit.go
package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const MaxListLimit = 100

// ListMeta describes a bounded, newest-first listing.
type ListMeta struct {
	Limit    int   `json:"limit"`
	Returned int   `json:"returned"`
	Total    int64 `json:"total"`
}

// GetLimitParam reads ?limit=, falling back to def when missing or unparsable
// and clamping the result to 1..MaxListLimit.
func GetLimitParam(c *gin.Context, def int) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil {
		limit = def
	}
	return ClampLimit(limit)
}

func ClampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

func SetListHeaders(c *gin.Context, meta ListMeta) {
	c.Header("X-Total-Count", strconv.FormatInt(meta.Total, 10))
	c.Header("X-Per-Page", strconv.Itoa(meta.Limit))
}
