package crawl

import (
	"path"
	"strings"

	"catalog-sync/core/storage"
	"catalog-sync/feature/catalog/models"

	"golang.org/x/text/unicode/norm"
)

// Config controls which remote files enter the registry.
type Config struct {
	// Roots are the remote folders listed recursively.
	Roots []string
	// ExcludedFolders reject a file when any of its folder segments contains
	// one of them, case-insensitively.
	ExcludedFolders []string
	// Extensions is the case-insensitive allow-list, with leading dots.
	Extensions []string
	// ReservedSegments reject a file when any path segment equals one of them.
	ReservedSegments []string
	// HiddenPrefix rejects a file whose base name starts with it.
	HiddenPrefix string
}

// filter is Config compiled for lookups.
type filter struct {
	excluded   []string
	extensions map[string]struct{}
	reserved   map[string]struct{}
	hidden     string
}

func newFilter(cfg Config) *filter {
	f := &filter{
		extensions: make(map[string]struct{}, len(cfg.Extensions)),
		reserved:   make(map[string]struct{}, len(cfg.ReservedSegments)),
		hidden:     cfg.HiddenPrefix,
	}
	for _, ext := range cfg.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		f.extensions[ext] = struct{}{}
	}
	for _, seg := range cfg.ReservedSegments {
		f.reserved[strings.ToLower(norm.NFC.String(seg))] = struct{}{}
	}
	for _, folder := range cfg.ExcludedFolders {
		if folder = strings.ToLower(strings.TrimSpace(norm.NFC.String(folder))); folder != "" {
			f.excluded = append(f.excluded, folder)
		}
	}
	return f
}

// normalize rewrites the entry's path and name in NFC so filtering and
// storage see the same form regardless of the uploading client.
func normalize(e storage.Entry) storage.Entry {
	e.Path = norm.NFC.String(e.Path)
	e.Name = norm.NFC.String(e.Name)
	return e
}

// accept applies the filters in order: reserved segment, hidden name,
// excluded folder, extension.
func (f *filter) accept(e storage.Entry) bool {
	if e.Tag != storage.TagFile || e.ID == "" {
		return false
	}

	segments := strings.Split(strings.Trim(e.Path, "/"), "/")
	for _, seg := range segments {
		if _, ok := f.reserved[strings.ToLower(seg)]; ok {
			return false
		}
	}

	name := e.Name
	if name == "" {
		name = path.Base(e.Path)
	}
	if f.hidden != "" && strings.HasPrefix(name, f.hidden) {
		return false
	}

	folders := segments[:len(segments)-1]
	for _, seg := range folders {
		seg = strings.ToLower(seg)
		for _, excluded := range f.excluded {
			if strings.Contains(seg, excluded) {
				return false
			}
		}
	}

	_, ok := f.extensions[strings.ToLower(path.Ext(name))]
	return ok
}

// toEntry converts an accepted, normalized listing entry into a registry
// record.
func toEntry(e storage.Entry) models.FileEntry {
	p := e.Path
	name := e.Name
	if name == "" {
		name = path.Base(p)
	}
	ext := path.Ext(name)

	return models.FileEntry{
		RemoteID:       e.ID,
		Path:           p,
		Name:           name,
		NameNoExt:      strings.TrimSuffix(name, ext),
		Extension:      strings.ToLower(ext),
		ParentPath:     path.Dir(p),
		Size:           e.Size,
		ServerModified: e.ServerModified.UTC(),
	}
}
