// Package skumatch associates inventory SKUs with registry files by name.
//
// A file matches a SKU when its name without extension contains the SKU as a
// whole token. Confidence follows match strength: 1.0 for an exact name,
// 0.8 for a name carrying the primary marker, 0.5 for any other match and a
// flat 0.3 for files that cannot be shown on the web, which are never primary.
//
// Generation is incremental. A SKU with at least one mapping is skipped until
// the mappings are purged with Matcher.DeleteAll.
package skumatch
