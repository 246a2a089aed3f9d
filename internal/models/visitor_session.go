package models

import "time"

// DeviceType is the coarse device classification from the user agent.
type DeviceType string

const (
	DeviceDesktop DeviceType = "desktop"
	DeviceMobile  DeviceType = "mobile"
	DeviceTablet  DeviceType = "tablet"
	DeviceUnknown DeviceType = "unknown"
)

// PageView is one entry in the ordered pages sequence of a session.
// The first entry is the entry page, the last is the current/exit page.
type PageView struct {
	URL       string    `json:"url"`
	Title     string    `json:"title,omitempty"`
	VisitedAt time.Time `json:"visited_at"`
	Referrer  string    `json:"referrer,omitempty"`
}

// ConversionAction is a recorded business action (quote request, subscribe, ...).
type ConversionAction struct {
	Action    string    `json:"action"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// VisitorSessionModel is one browsing session, keyed by the sessionId cookie.
// Geo and device fields are resolved once at creation and never re-resolved.
type VisitorSessionModel struct {
	Base
	SessionID string `json:"session_id" gorm:"uniqueIndex;not null;type:varchar(64)"`

	IPAddress string  `json:"ip_address" gorm:"index;type:varchar(45)"`
	Country   string  `json:"country"    gorm:"type:varchar(100)"`
	City      string  `json:"city"       gorm:"type:varchar(100)"`
	Region    string  `json:"region"     gorm:"type:varchar(100)"`
	Timezone  string  `json:"timezone"   gorm:"type:varchar(64)"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	Browser string     `json:"browser" gorm:"type:varchar(64)"`
	OS      string     `json:"os"      gorm:"type:varchar(64)"`
	Device  DeviceType `json:"device"  gorm:"type:varchar(16);default:unknown"`

	Pages     PageViews `json:"pages"      gorm:"type:longtext;serializer:json"`
	EntryPage string    `json:"entry_page" gorm:"type:varchar(512)"`
	ExitPage  string    `json:"exit_page"  gorm:"type:varchar(512)"`

	Referrer       string `json:"referrer"        gorm:"type:varchar(512)"`
	ReferrerDomain string `json:"referrer_domain" gorm:"type:varchar(255);index"`
	UTMSource      string `json:"utm_source"      gorm:"column:utm_source;type:varchar(255)"`
	UTMMedium      string `json:"utm_medium"      gorm:"column:utm_medium;type:varchar(255)"`
	UTMCampaign    string `json:"utm_campaign"    gorm:"column:utm_campaign;type:varchar(255)"`

	TotalPageViews  int  `json:"total_page_views" gorm:"default:0"`
	SessionDuration int  `json:"session_duration" gorm:"default:0"` // seconds since FirstVisit
	Bounced         bool `json:"bounced"          gorm:"default:true"`

	FirstVisit   time.Time `json:"first_visit"`
	LastActivity time.Time `json:"last_activity" gorm:"index"`

	Actions   ConversionActions `json:"actions" gorm:"type:longtext;serializer:json"`
	Converted bool              `json:"converted" gorm:"default:false"`
	IsActive  bool              `json:"is_active"  gorm:"default:true;index"`
}

// PageViews and ConversionActions are stored as JSON columns via the gorm serializer.
type (
	PageViews         []PageView
	ConversionActions []ConversionAction
)

func (VisitorSessionModel) TableName() string { return "visitor_sessions" }

// DuplicatePageWindow is the interval inside which a repeated view of the
// same URL counts as a refresh and is dropped.
const DuplicatePageWindow = 5 * time.Second

// AppendPage records a page view at `now`. A view of the same URL as the
// previous entry within DuplicatePageWindow is a refresh duplicate: nothing
// changes and false is returned. Otherwise the page is appended, counters
// and exit page are updated, and bounced is cleared once views exceed one.
func (v *VisitorSessionModel) AppendPage(url, title, referrer string, now time.Time) bool {
	if n := len(v.Pages); n > 0 {
		last := v.Pages[n-1]
		if last.URL == url && now.Sub(last.VisitedAt) < DuplicatePageWindow {
			return false
		}
	}

	v.Pages = append(v.Pages, PageView{URL: url, Title: title, VisitedAt: now, Referrer: referrer})
	v.TotalPageViews++
	v.ExitPage = url
	if v.EntryPage == "" {
		v.EntryPage = url
	}
	if v.TotalPageViews > 1 {
		v.Bounced = false
	}
	return true
}

// Touch updates activity timestamps and the derived duration.
func (v *VisitorSessionModel) Touch(now time.Time) {
	v.LastActivity = now
	if !v.FirstVisit.IsZero() {
		v.SessionDuration = int(now.Sub(v.FirstVisit).Seconds())
		if v.SessionDuration < 0 {
			v.SessionDuration = 0
		}
	}
}

// RecordAction appends a conversion action and marks the session converted.
func (v *VisitorSessionModel) RecordAction(action, details string, now time.Time) {
	v.Actions = append(v.Actions, ConversionAction{Action: action, Details: details, Timestamp: now})
	v.Converted = true
}
