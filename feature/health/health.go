package health

import (
	"context"
	"time"

	"registry-sync/core/metrics"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const pingTimeout = 2 * time.Second

// Feature implements the loader.Feature interface.
type Feature struct {
	db      *gorm.DB
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewFeature creates the health feature. db and m may be nil.
func NewFeature(db *gorm.DB, m *metrics.Metrics, logger *zap.Logger) *Feature {
	return &Feature{db: db, metrics: m, logger: logger}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "health"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	app.Get("/heartbeat", f.HandleHeartbeat)
	if f.metrics != nil {
		app.Get("/metrics", f.metrics.Handler())
	}
	return nil
}

// HandleHeartbeat reports whether the database is reachable.
// @Summary Heartbeat
// @Description Pings the registry database. Does not require an API key.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string "Database reachable"
// @Failure 503 {object} map[string]string "Database down or not configured"
// @Router /heartbeat [get]
func (f *Feature) HandleHeartbeat(c *fiber.Ctx) error {
	if f.db == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "down", "database": "not configured"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), pingTimeout)
	defer cancel()

	sqlDB, err := f.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		f.logger.Warn("Heartbeat failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "down", "database": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
