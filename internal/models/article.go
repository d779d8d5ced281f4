package models

import "gorm.io/datatypes"

// Article owns exactly one serialized content document. Content holds the
// block JSON verbatim; the content package is the only reader/writer of its
// structure.
type Article struct {
	Model
	Title      string         `gorm:"not null" json:"title"`
	Slug       string         `gorm:"not null;unique" json:"slug"`
	Excerpt    string         `gorm:"not null" json:"excerpt"`
	Content    string         `gorm:"type:text" json:"content"`
	Thumbnail  string         `json:"thumbnail"`
	ReadTime   int            `gorm:"not null;default:1" json:"readTime"`
	Featured   bool           `gorm:"not null;default:false" json:"featured"`
	Published  bool           `gorm:"not null;default:false" json:"published"`
	Tags       datatypes.JSON `json:"tags"`
	CategoryID uint           `json:"categoryId"`
	Category   Category       `json:"category"`
}

type Category struct {
	Model
	Name    string `gorm:"not null;unique" json:"name"`
	Slug    string `gorm:"not null;unique" json:"slug"`
	Color   string `json:"color"`
	BgColor string `json:"bgColor"`
}
