package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveDefault(t *testing.T) {
	// A user's first account is always the default, whatever was asked.
	assert.True(t, resolveDefault(0, false))
	assert.True(t, resolveDefault(0, true))

	// Later accounts follow the request.
	assert.False(t, resolveDefault(1, false))
	assert.True(t, resolveDefault(3, true))
}
