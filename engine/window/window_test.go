package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindowBuilderOptions(t *testing.T) {
	w := &engineWindow{width: 1280, height: 720}
	for _, opt := range []WindowBuilderOption{WithTitle("materials"), WithSize(800, 600)} {
		opt(w)
	}
	assert.Equal(t, "materials", w.title)
	assert.Equal(t, 800, w.Width())
	assert.Equal(t, 600, w.Height())

	WithSize(0, 480)(w)
	assert.Equal(t, 800, w.Width())
	assert.Equal(t, 600, w.Height())
}

func TestWindowWithoutPlatformWindow(t *testing.T) {
	w := &engineWindow{}

	assert.False(t, w.IsRunning())
	assert.Nil(t, w.SurfaceDescriptor())
	assert.ErrorContains(t, w.Close(), "not initialized")

	updates := 0
	w.SetUpdateCallback(func() { updates++ })
	w.ProcessMessages()
	assert.Zero(t, updates)
}
