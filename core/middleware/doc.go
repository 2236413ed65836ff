// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation protecting the sync routes.
//   - rayid: a request id per request, stored in locals and echoed in the
//     response header for tracing.
//
// Request metrics live in core/metrics.
package middleware
