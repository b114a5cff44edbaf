package roster

import (
	"errors"

	"mlist-manager/core/logger"
	"mlist-manager/core/persist"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the roster.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the roster routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/roster", h.HandleSummary)
}

// HandleSummary returns the size of the full, current and removed sets.
func (h *Handler) HandleSummary(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	summary, err := h.service.Summary(c.UserContext())
	if err != nil {
		if errors.Is(err, persist.ErrMissingFile) {
			l.Warn("Roster files missing", zap.Error(err))
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Roster summary failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(summary)
}
