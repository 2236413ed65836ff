// Package logger builds the service's zap logger.
//
// Production runs use JSON encoding; the CLI and local development use the
// colored console encoder. Every subsystem derives its own logger through
// Component so log lines can be filtered by the "component" field, and HTTP
// handlers attach the request's ray id with WithRayID.
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "json"})
//	crawlLog := logger.Component(log, "crawl")
//	crawlLog.Info("Crawl plan computed", zap.Int("inserted", 3))
package logger
