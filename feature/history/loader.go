package history

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature exposes the run history over HTTP.
type Feature struct {
	repo    *Repository
	handler *Handler
}

// NewFeature creates the history feature. A nil repository disables it.
func NewFeature(repo *Repository, logger *zap.Logger) *Feature {
	return &Feature{repo: repo, handler: NewHandler(repo, logger)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "history"
}

// IsEnabled reports whether a history database is configured.
func (f *Feature) IsEnabled() bool {
	return f.repo != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
