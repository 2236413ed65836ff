// Package metrics registers the Prometheus collectors of the service:
// sync run outcomes, share link attempts and HTTP request latency.
package metrics
