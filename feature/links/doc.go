// Package links provisions public share links for web-displayable files in
// the registry, throttled to respect the remote rate limit and guarded by a
// consecutive-failure circuit breaker.
package links
