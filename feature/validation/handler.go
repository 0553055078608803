package validation

import (
	"errors"

	"backup-validator/core/logger"
	"backup-validator/core/report"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for validation runs.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	// Force import for Swagger
	var _ = report.Document{}
	return &Handler{service: service}
}

// RegisterRoutes registers the validation routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/validation")
	group.Post("/run", h.HandleRun)
	group.Get("/latest", h.HandleLatest)
	group.Get("/history", h.HandleHistory)
}

// HandleRun runs a validation and returns its report.
// @Summary Run Validation
// @Description Reconciles the source bucket against its replica and verifies restores of a sample. Fields of the body override the configured defaults. Identical concurrent requests share one run.
// @Tags validation
// @Accept json
// @Produce json
// @Param overrides body Overrides false "Run overrides"
// @Success 200 {object} report.Document "Validation Report"
// @Failure 400 {object} map[string]string "Invalid configuration"
// @Failure 500 {object} map[string]string "Run failed"
// @Router /validation/run [post]
func (h *Handler) HandleRun(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var overrides Overrides
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&overrides); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
	}
	cfg := overrides.Apply(h.service.Config())

	l.Info("Triggering validation run", zap.String("source", cfg.SourceBucket))
	r, err := h.service.RunShared(c.UserContext(), cfg)
	if err != nil {
		l.Error("Validation run failed", zap.Error(err))
		status := fiber.StatusInternalServerError
		if IsConfigError(err) {
			status = fiber.StatusBadRequest
		}
		body := fiber.Map{"error": err.Error()}
		if r != nil {
			body["report"] = r.Document()
		}
		return c.Status(status).JSON(body)
	}

	return c.JSON(r.Document())
}

// HandleLatest returns the report of the most recent run.
// @Summary Latest Report
// @Description Returns the report of the most recent run finished by this process.
// @Tags validation
// @Produce json
// @Success 200 {object} report.Document "Validation Report"
// @Failure 404 {object} map[string]string "No run yet"
// @Router /validation/latest [get]
func (h *Handler) HandleLatest(c *fiber.Ctx) error {
	r := h.service.Latest()
	if r == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no validation run has finished yet"})
	}
	return c.JSON(r.Document())
}

// HandleHistory lists recent runs.
// @Summary Run History
// @Description Lists stored run summaries, most recent first.
// @Tags validation
// @Produce json
// @Param limit query int false "Maximum number of runs" default(20)
// @Success 200 {array} Run "Run summaries"
// @Failure 503 {object} map[string]string "History disabled"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /validation/history [get]
func (h *Handler) HandleHistory(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	runs, err := h.service.History().List(c.UserContext(), c.QueryInt("limit", 20))
	if errors.Is(err, ErrHistoryDisabled) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Failed to list runs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(runs)
}
