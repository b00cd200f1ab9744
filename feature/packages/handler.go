package packages

import (
	"errors"

	"registry-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	defaultRunLimit = 20
	maxRunLimit     = 500
)

// Handler handles HTTP requests for packages and runs.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the package routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	// "+" keeps scoped names like @babel/core in one parameter
	app.Get("/packages/:manager/+", h.HandleGetPackage)
	app.Get("/runs", h.HandleListRuns)
}

// HandleGetPackage returns one package by manager and name.
// @Summary Get Package
// @Description Returns a stored package with its URLs and outgoing dependencies. Scoped names (e.g. @babel/core) may contain a slash.
// @Tags packages
// @Produce json
// @Param manager path string true "Package manager (debian, homebrew, crates, pkgx, npm)"
// @Param name path string true "Package name"
// @Success 200 {object} PackageView
// @Failure 404 {object} map[string]string "Package not found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /packages/{manager}/{name} [get]
func (h *Handler) HandleGetPackage(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	view, err := h.service.Package(c.Context(), c.Params("manager"), c.Params("+"))
	if errors.Is(err, ErrPackageNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Failed to load package", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
	return c.JSON(view)
}

// HandleListRuns returns the most recent runs.
// @Summary List Runs
// @Description Lists the most recent ingest runs (load history), newest first.
// @Tags runs
// @Produce json
// @Param limit query int false "Maximum number of runs (1-500)" default(20)
// @Success 200 {object} RunList
// @Failure 400 {object} map[string]string "Invalid limit"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /runs [get]
func (h *Handler) HandleListRuns(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	limit := c.QueryInt("limit", defaultRunLimit)
	if limit <= 0 || limit > maxRunLimit {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "limit must be between 1 and 500"})
	}

	runs, err := h.service.Runs(c.Context(), limit)
	if err != nil {
		l.Error("Failed to list runs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
	return c.JSON(RunList{Runs: runs})
}
