package playback

import (
	"testing"
	"time"

	"github.com/mengelbart/termplay"
	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	assert.NoError(t, c.Validate())
	assert.Equal(t, termplay.Range{First: 1, Last: 6570}, c.Frames)
	assert.Equal(t, 90, c.PrefetchSpan)
	assert.Equal(t, 30, c.InitialBuffer)
	assert.Equal(t, 33333333*time.Nanosecond, c.FrameInterval())
}

func TestConfigValidate(t *testing.T) {
	for name, mutate := range map[string]func(*Config){
		"empty range":          func(c *Config) { c.Frames = termplay.Range{First: 2, Last: 1} },
		"zero fps":             func(c *Config) { c.FPS = 0 },
		"negative span":        func(c *Config) { c.PrefetchSpan = -1 },
		"buffer beyond window": func(c *Config) { c.InitialBuffer = c.PrefetchSpan + 2 },
		"negative tolerance":   func(c *Config) { c.LagTolerance = -0.1 },
		"negative catch-up":    func(c *Config) { c.MaxCatchUp = -1 },
		"negative timeout":     func(c *Config) { c.DecodeTimeout = -time.Second },
		"negative decoders":    func(c *Config) { c.MaxDecoders = -1 },
	} {
		t.Run(name, func(t *testing.T) {
			c := DefaultConfig()
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
