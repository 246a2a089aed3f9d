package models

import "time"

// PortfolioCategory enumerates the kinds of drone work shown in the gallery.
type PortfolioCategory string

const (
	PortfolioAerialPhotography PortfolioCategory = "aerial-photography"
	PortfolioMapping           PortfolioCategory = "mapping"
	PortfolioInspection        PortfolioCategory = "inspection"
	PortfolioVideography       PortfolioCategory = "videography"
	PortfolioOther             PortfolioCategory = "other"
)

// ValidPortfolioCategory reports whether c is a known category.
func ValidPortfolioCategory(c PortfolioCategory) bool {
	switch c {
	case PortfolioAerialPhotography, PortfolioMapping, PortfolioInspection, PortfolioVideography, PortfolioOther:
		return true
	}
	return false
}

// PortfolioModel is a showcase item on the public site.
type PortfolioModel struct {
	Base
	Title       string            `json:"title"        gorm:"not null"`
	Description string            `json:"description"  gorm:"type:text"`
	Category    PortfolioCategory `json:"category"     gorm:"type:varchar(32);index;default:other"`
	MediaURLs   StringSlice       `json:"media_urls"   gorm:"type:json;serializer:json"`
	Client      string            `json:"client"`
	Location    string            `json:"location"`
	CompletedAt *time.Time        `json:"completed_at"`
	Featured    bool              `json:"featured"     gorm:"default:false;index"`
}

func (PortfolioModel) TableName() string { return "portfolios" }
