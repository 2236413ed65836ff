// Package models defines the persisted records of the catalog sync pipeline:
// the remote file registry, SKU-to-image mappings and the sync run log.
package models
