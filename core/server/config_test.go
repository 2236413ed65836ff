package server_test

import (
	"testing"
	"time"

	"catalog-sync/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Addr(t *testing.T) {
	assert.Equal(t, ":8080", server.Config{Port: "8080"}.Addr())
}

func TestConfig_FiberConfig(t *testing.T) {
	cfg := server.Config{ReadTimeoutSeconds: 30}.FiberConfig()

	assert.True(t, cfg.DisableStartupMessage)
	assert.Equal(t, 30*time.Second, cfg.ReadTimeout)
	assert.Zero(t, cfg.WriteTimeout)
}
