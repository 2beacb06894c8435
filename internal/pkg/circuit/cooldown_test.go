package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCooldown(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewCooldown("oracle", time.Minute)

	assert.True(t, c.Allow(now), "never tripped means open")
	assert.True(t, c.Until().IsZero())
	assert.Zero(t, c.Remaining(now))

	c.Trip(now)
	assert.False(t, c.Allow(now))
	assert.False(t, c.Allow(now.Add(59*time.Second)))
	assert.Equal(t, time.Minute, c.Remaining(now))
	assert.Equal(t, 30*time.Second, c.Remaining(now.Add(30*time.Second)))

	assert.True(t, c.Allow(now.Add(time.Minute)), "deadline itself is open")
	assert.Zero(t, c.Remaining(now.Add(2*time.Minute)))
	assert.Equal(t, "oracle", c.Name())
}

func TestCooldown_RetripExtendsWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewCooldown("oracle", time.Minute)

	c.Trip(now)
	c.Trip(now.Add(30 * time.Second))
	assert.False(t, c.Allow(now.Add(70*time.Second)))
	assert.True(t, c.Allow(now.Add(90*time.Second)))
}
