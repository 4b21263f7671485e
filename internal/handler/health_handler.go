package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/melodia-app/melodia-go-api/internal/config"
	"github.com/melodia-app/melodia-go-api/internal/utils"
)

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status      string            `json:"status"`
	Timestamp   time.Time         `json:"timestamp"`
	Service     string            `json:"service"`
	Environment string            `json:"environment"`
	Checks      map[string]string `json:"checks"`
}

// HealthCheck returns a handler that reports application health along with
// the state of its backing stores.
func HealthCheck(cfg config.Config, db *gorm.DB, redisClient *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		checks := map[string]string{}
		status := "ok"

		if db != nil {
			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(c.Context())
			}
			if err != nil {
				checks["database"] = "down"
				status = "degraded"
			} else {
				checks["database"] = "ok"
			}
		}

		if redisClient != nil {
			if err := redisClient.Ping(c.Context()).Err(); err != nil {
				checks["redis"] = "down"
				status = "degraded"
			} else {
				checks["redis"] = "ok"
			}
		}

		payload := HealthResponse{
			Status:      status,
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
			Checks:      checks,
		}

		return utils.SendSuccess(c, "service healthy", payload)
	}
}
