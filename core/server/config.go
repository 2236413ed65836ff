package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// ReadTimeoutSeconds bounds reading a request.
	ReadTimeoutSeconds int `mapstructure:"read_timeout_seconds" default:"30"`
	// WriteTimeoutSeconds bounds writing a response. Synchronous link runs
	// can take minutes, so zero (no limit) is the default.
	WriteTimeoutSeconds int `mapstructure:"write_timeout_seconds" default:"0"`
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}

// FiberConfig returns the fiber settings for this server.
func (c Config) FiberConfig() fiber.Config {
	return fiber.Config{
		AppName:               "catalog-sync",
		DisableStartupMessage: true,
		ReadTimeout:           time.Duration(c.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:          time.Duration(c.WriteTimeoutSeconds) * time.Second,
	}
}
