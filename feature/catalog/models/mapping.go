package models

import "time"

// MatchType describes how a file name matched a SKU.
type MatchType string

const (
	MatchExact    MatchType = "exact"
	MatchContains MatchType = "contains"
)

// SkuImageMapping associates an inventory SKU with a registry file.
type SkuImageMapping struct {
	ID         uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SKU        string    `gorm:"column:sku;size:191;not null;uniqueIndex:idx_sku_file;index" json:"sku"`
	FileID     uint      `gorm:"column:file_id;not null;uniqueIndex:idx_sku_file;index" json:"file_id"`
	MatchType  MatchType `gorm:"column:match_type;size:16;not null" json:"match_type"`
	IsPrimary  bool      `gorm:"column:is_primary;not null;default:false" json:"is_primary"`
	Confidence float64   `gorm:"column:confidence;not null" json:"confidence"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides the table name.
func (SkuImageMapping) TableName() string {
	return "sku_image_mappings"
}
