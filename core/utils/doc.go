// Package utils parses loosely typed query parameters. Malformed input falls
// back to a default instead of failing the request.
package utils
