package models

import "time"

// FileEntry is one row of the file registry: a remote file seen by the last crawl.
type FileEntry struct {
	ID             uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	RemoteID       string    `gorm:"column:remote_id;size:191;not null;uniqueIndex" json:"remote_id"`
	Path           string    `gorm:"column:path;size:1024;not null" json:"path"`
	Name           string    `gorm:"column:name;size:255;not null" json:"name"`
	NameNoExt      string    `gorm:"column:name_no_ext;size:255;not null;index" json:"name_no_ext"`
	Extension      string    `gorm:"column:extension;size:16;index" json:"extension"`
	ParentPath     string    `gorm:"column:parent_path;size:1024" json:"parent_path"`
	Size           int64     `gorm:"column:size" json:"size"`
	ServerModified time.Time `gorm:"column:server_modified" json:"server_modified"`
	// ShareURL is written only by the link provisioner; crawls never touch it.
	ShareURL  *string   `gorm:"column:share_url;size:1024" json:"share_url,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName overrides the table name.
func (FileEntry) TableName() string {
	return "file_registry"
}

// ContentColumns are the descriptive columns a crawl overwrites.
var ContentColumns = []string{
	"path", "name", "name_no_ext", "extension", "parent_path", "size", "server_modified", "updated_at",
}

// SameContent reports whether two entries carry identical descriptive fields.
func (f FileEntry) SameContent(o FileEntry) bool {
	return f.Path == o.Path &&
		f.Name == o.Name &&
		f.NameNoExt == o.NameNoExt &&
		f.Extension == o.Extension &&
		f.ParentPath == o.ParentPath &&
		f.Size == o.Size &&
		f.ServerModified.Equal(o.ServerModified)
}
