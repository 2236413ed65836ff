// Package crawl walks the configured remote roots and reconciles the file
// registry with what it finds.
//
// A crawl is idempotent: the diff is always recomputed from the registry's
// current contents, so a failed crawl is repaired by running it again.
// Share links are never written here and survive every crawl.
package crawl
