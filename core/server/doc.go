// Package server holds the HTTP server configuration.
//
// The start command builds the fiber application from Config.FiberConfig and
// listens on Config.Addr. ApiKey, when set, protects every route except the
// Swagger UI and the metrics endpoint.
package server
