package roster

import (
	"github.com/gofiber/fiber/v2"
)

// Feature exposes the roster summary over HTTP.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the roster feature around svc.
func NewFeature(svc *Service) *Feature {
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "roster"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
