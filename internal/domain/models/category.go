// internal/domain/models/category.go
package models

import "time"

// Category levels in the tree.
const (
	CategoryLevelRoot = 0
	CategoryLevelMid  = 1
	CategoryLevelLeaf = 2
)

// Category is a node of the category tree. Slugs are unique per parent only,
// so two different parents may each have a child called "x". Root slugs are
// unique among roots (idx_categories_root_slug, see AutoMigrate).
type Category struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Slug      string `gorm:"type:varchar(160);not null;uniqueIndex:idx_categories_parent_slug,priority:2;index"`
	Name      string `gorm:"type:varchar(255);not null"`
	NameCI    string `gorm:"type:varchar(255);not null;index"` // ← always stored
	ParentID  *uint  `gorm:"uniqueIndex:idx_categories_parent_slug,priority:1"`
	Level     int    `gorm:"not null;default:0"`
	SortOrder int    `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Parent *Category `gorm:"foreignKey:ParentID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// IsRoot reports whether the category has no parent.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}
