// internal/handlers/health.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/luxeshop/luxe-backend/internal/cache"
	"github.com/luxeshop/luxe-backend/internal/cart"
)

const Version = "1.0.0"

type HealthHandler struct {
	db    *gorm.DB
	cache *cache.RedisCache
	carts *cart.Registry
}

// NewHealthHandler reports on the database and, when configured, the Redis
// cache. carts may be nil.
func NewHealthHandler(db *gorm.DB, c *cache.RedisCache, carts *cart.Registry) *HealthHandler {
	return &HealthHandler{db: db, cache: c, carts: carts}
}

// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{}

	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		status = http.StatusServiceUnavailable
		checks["database"] = "unavailable"
	} else {
		checks["database"] = "ok"
	}

	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			// Listings fall back to the database.
			checks["cache"] = "unavailable"
		} else {
			checks["cache"] = "ok"
			checks["cache_stats"] = h.cache.GetStats()
		}
	}

	if h.carts != nil {
		checks["active_carts"] = h.carts.Len()
	}

	state := "healthy"
	if status != http.StatusOK {
		state = "unhealthy"
	}

	c.JSON(status, gin.H{
		"status":  state,
		"version": Version,
		"checks":  checks,
	})
}
