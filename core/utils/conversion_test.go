package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntOr(t *testing.T) {
	assert.Equal(t, 25, IntOr("25", 0))
	assert.Equal(t, 25, IntOr(" 25 ", 0))
	assert.Equal(t, -3, IntOr("-3", 0))
	assert.Equal(t, 50, IntOr("", 50))
	assert.Equal(t, 50, IntOr("ten", 50))
	assert.Equal(t, 50, IntOr("2.5", 50))
}

func TestTruthy(t *testing.T) {
	for _, s := range []string{"1", "true", "TRUE", "yes", "On", " true "} {
		assert.True(t, Truthy(s), s)
	}
	for _, s := range []string{"", "0", "false", "no", "2", "enabled"} {
		assert.False(t, Truthy(s), s)
	}
}
