package models

// BlogModel is a blog post written in markdown.
type BlogModel struct {
	Base
	Title       string      `json:"title"        gorm:"not null"`
	Slug        string      `json:"slug"         gorm:"uniqueIndex;not null;type:varchar(191)"`
	Summary     string      `json:"summary"      gorm:"type:varchar(512)"`
	Text        string      `json:"text"         gorm:"type:longtext"`
	CoverImage  string      `json:"cover_image"  gorm:"type:varchar(512)"`
	Tags        StringSlice `json:"tags"         gorm:"type:json;serializer:json"`
	Author      string      `json:"author"`
	IsPublished bool        `json:"is_published" gorm:"default:false;index"`
	ReadCount   int         `json:"read"         gorm:"column:read_count;default:0"`
}

func (BlogModel) TableName() string { return "blogs" }
