// Package sync is the front door of the catalog sync pipeline.
//
// Service exposes one method per stage (crawl, link provisioning, SKU
// matching, mapping purge) plus the run-log queries. Each stage runs inside a
// tracked run, and concurrent triggers of the same stage in one process share
// a single run. The HTTP handler and the CLI both call Service and nothing
// else.
//
// # Routes
//
//	POST   /sync/crawl           crawl and reconcile (dry_run=true for a diff only)
//	POST   /sync/links           provision share links, 202 when run in background
//	GET    /sync/links/missing   count files without a share link
//	POST   /sync/mappings        generate SKU mappings
//	DELETE /sync/mappings        delete every SKU mapping
//	GET    /sync/status/:type    latest run of a sync type
//	GET    /sync/runs            recent runs (type, limit)
//	POST   /sync/runs/:id/fail   force a stuck run to failed
package sync
