package handlers

import (
	"context"
	"time"

	"vending/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

const healthTimeout = 2 * time.Second

type HealthHandler struct {
	store repositories.Store
	cache repositories.CacheRepository
}

func NewHealthHandler(store repositories.Store, cache repositories.CacheRepository) *HealthHandler {
	return &HealthHandler{store: store, cache: cache}
}

// Check reports 503 when the database is unreachable. A cache outage only
// degrades the status since reads fall through to storage.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
	defer cancel()

	status, code := "ok", fiber.StatusOK
	database, redis := "connected", "connected"

	if err := h.store.Ping(ctx); err != nil {
		database = "unavailable"
		status, code = "unavailable", fiber.StatusServiceUnavailable
	}
	if err := h.cache.HealthCheck(ctx); err != nil {
		redis = "unavailable"
		if code == fiber.StatusOK {
			status = "degraded"
		}
	}

	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"services": fiber.Map{
			"database": database,
			"redis":    redis,
		},
	})
}
