package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterWindow(t *testing.T) {
	rl := newRateLimiter(3, 50*time.Millisecond)
	defer rl.stop()

	for i := 0; i < 3; i++ {
		ok, _ := rl.allow("1.2.3.4")
		assert.True(t, ok, "request %d should fit the window", i+1)
	}

	ok, retryAfter := rl.allow("1.2.3.4")
	assert.False(t, ok)
	assert.Greater(t, retryAfter, time.Duration(0))

	// other clients have their own window
	ok, _ = rl.allow("5.6.7.8")
	assert.True(t, ok)

	// the window resets after it elapses
	time.Sleep(60 * time.Millisecond)
	ok, _ = rl.allow("1.2.3.4")
	assert.True(t, ok)
}
