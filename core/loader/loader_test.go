package loader

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

type stubFeature struct {
	name    string
	enabled bool
	err     error
	loaded  bool
}

func (f *stubFeature) Name() string    { return f.name }
func (f *stubFeature) IsEnabled() bool { return f.enabled }
func (f *stubFeature) Load(app fiber.Router) error {
	f.loaded = true
	return f.err
}

func TestManager_LoadAll(t *testing.T) {
	roster := &stubFeature{name: "roster", enabled: true}
	history := &stubFeature{name: "history", enabled: false}

	m := NewManager()
	m.Register(roster)
	m.Register(history)

	loaded, err := m.LoadAll(fiber.New())
	assert.NoError(t, err)
	assert.Equal(t, []string{"roster"}, loaded)
	assert.True(t, roster.loaded)
	assert.False(t, history.loaded)
}

func TestManager_LoadAll_Error(t *testing.T) {
	m := NewManager()
	m.Register(&stubFeature{name: "broken", enabled: true, err: errors.New("boom")})

	_, err := m.LoadAll(fiber.New())
	assert.EqualError(t, err, "failed to load feature broken: boom")
}

func TestManager_LoadAll_Duplicate(t *testing.T) {
	m := NewManager()
	m.Register(&stubFeature{name: "roster", enabled: true})
	m.Register(&stubFeature{name: "roster", enabled: true})

	_, err := m.LoadAll(fiber.New())
	assert.Error(t, err)
}
