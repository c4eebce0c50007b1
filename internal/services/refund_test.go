package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReturnDeadline(t *testing.T) {
	delivered := time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)
	window := 24 * time.Hour

	deadline := returnDeadline(delivered, window)
	assert.Equal(t, time.Date(2025, 6, 16, 9, 30, 0, 0, time.UTC), deadline)

	assert.True(t, delivered.Add(23*time.Hour).Before(deadline))
	assert.False(t, delivered.Add(25*time.Hour).Before(deadline))
}
