package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/aerovista/core/internal/models"
	"github.com/aerovista/core/internal/modules/visitor"
	"gorm.io/gorm"
)

// Period is a supported lookback window for aggregation queries.
type Period string

const (
	Period24h Period = "24h"
	Period7d  Period = "7d"
	Period30d Period = "30d"
	Period90d Period = "90d"

	realtimeWindow = 5 * time.Minute
	realtimeCap    = 50
)

// ParsePeriod maps the query param onto a lookback duration. Unrecognized
// values fall back to 7d.
func ParsePeriod(raw string) (Period, time.Duration) {
	switch Period(strings.TrimSpace(raw)) {
	case Period24h:
		return Period24h, 24 * time.Hour
	case Period30d:
		return Period30d, 30 * 24 * time.Hour
	case Period90d:
		return Period90d, 90 * 24 * time.Hour
	default:
		return Period7d, 7 * 24 * time.Hour
	}
}

// Service computes dashboard aggregates from the live session table. There is
// no caching layer; every call recomputes.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// Overview is the top-of-dashboard stat block.
type Overview struct {
	TotalSessions  int64   `json:"total_sessions"`
	ActiveSessions int64   `json:"active_sessions"`
	TotalPageViews int64   `json:"total_page_views"`
	AvgDuration    float64 `json:"avg_duration"`
	BounceRate     float64 `json:"bounce_rate"`
	ConversionRate float64 `json:"conversion_rate"`
}

// GetOverview computes totals and rates for the period. Rates are zero when
// the window holds no sessions.
func (s *Service) GetOverview(since time.Time) (Overview, error) {
	var out Overview

	base := s.db.Model(&models.VisitorSessionModel{}).Where("first_visit >= ?", since)
	if err := base.Count(&out.TotalSessions).Error; err != nil {
		return out, err
	}

	activeCutoff := time.Now().Add(-visitor.SessionWindow)
	if err := s.db.Model(&models.VisitorSessionModel{}).
		Where("is_active = ? AND last_activity >= ?", true, activeCutoff).
		Count(&out.ActiveSessions).Error; err != nil {
		return out, err
	}

	if out.TotalSessions == 0 {
		return out, nil
	}

	type sums struct {
		Views    int64
		Duration int64
		Bounced  int64
		Convs    int64
	}
	var agg sums
	err := s.db.Model(&models.VisitorSessionModel{}).
		Select("COALESCE(SUM(total_page_views),0) AS views, COALESCE(SUM(session_duration),0) AS duration, COALESCE(SUM(CASE WHEN bounced THEN 1 ELSE 0 END),0) AS bounced, COALESCE(SUM(CASE WHEN converted THEN 1 ELSE 0 END),0) AS convs").
		Where("first_visit >= ?", since).
		Scan(&agg).Error
	if err != nil {
		return out, err
	}

	out.TotalPageViews = agg.Views
	total := float64(out.TotalSessions)
	out.AvgDuration = float64(agg.Duration) / total
	out.BounceRate = float64(agg.Bounced) / total * 100
	out.ConversionRate = float64(agg.Convs) / total * 100
	return out, nil
}

// BucketCount is one row of a group-count aggregate.
type BucketCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// GetCountries returns sessions grouped by country, descending.
func (s *Service) GetCountries(since time.Time, limit int) ([]BucketCount, error) {
	return s.groupCount("country", since, limit)
}

// GetReferrers returns sessions grouped by referrer domain, descending.
// Sessions with no referrer are reported under "direct".
func (s *Service) GetReferrers(since time.Time, limit int) ([]BucketCount, error) {
	rows, err := s.groupCount("referrer_domain", since, limit)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].Key == "" {
			rows[i].Key = "direct"
		}
	}
	return rows, nil
}

// GetDevices returns sessions grouped by device type, descending.
func (s *Service) GetDevices(since time.Time, limit int) ([]BucketCount, error) {
	return s.groupCount("device", since, limit)
}

func (s *Service) groupCount(column string, since time.Time, limit int) ([]BucketCount, error) {
	if limit <= 0 {
		limit = 10
	}
	rows := []BucketCount{}
	err := s.db.Model(&models.VisitorSessionModel{}).
		Select(column+" AS `key`, COUNT(*) AS count").
		Where("first_visit >= ?", since).
		Group(column).
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// PageStat is a per-URL aggregate: raw views plus distinct-session uniques.
type PageStat struct {
	URL     string `json:"url"`
	Views   int64  `json:"views"`
	Uniques int64  `json:"uniques"`
}

// GetPages unrolls the per-session page arrays and aggregates per URL.
// Uniques count distinct sessions that viewed the URL at least once.
func (s *Service) GetPages(since time.Time, limit int) ([]PageStat, error) {
	if limit <= 0 {
		limit = 10
	}

	var sessions []models.VisitorSessionModel
	err := s.db.Model(&models.VisitorSessionModel{}).
		Select("session_id", "pages").
		Where("first_visit >= ?", since).
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}

	type counter struct {
		views    int64
		sessions map[string]struct{}
	}
	counts := map[string]*counter{}
	for _, sess := range sessions {
		for _, pv := range sess.Pages {
			u := stripQuery(pv.URL)
			c, ok := counts[u]
			if !ok {
				c = &counter{sessions: map[string]struct{}{}}
				counts[u] = c
			}
			c.views++
			c.sessions[sess.SessionID] = struct{}{}
		}
	}

	stats := make([]PageStat, 0, len(counts))
	for u, c := range counts {
		stats = append(stats, PageStat{URL: u, Views: c.views, Uniques: int64(len(c.sessions))})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Views != stats[j].Views {
			return stats[i].Views > stats[j].Views
		}
		return stats[i].URL < stats[j].URL
	})
	if len(stats) > limit {
		stats = stats[:limit]
	}
	return stats, nil
}

func stripQuery(rawURL string) string {
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}

// VisitorCard is the realtime projection of an active session.
type VisitorCard struct {
	SessionID   string            `json:"session_id"`
	Country     string            `json:"country"`
	City        string            `json:"city"`
	Device      models.DeviceType `json:"device"`
	Browser     string            `json:"browser"`
	CurrentPage string            `json:"current_page"`
	PageViews   int               `json:"page_views"`
	Duration    int               `json:"duration"`
	Converted   bool              `json:"converted"`
	LastSeen    time.Time         `json:"last_seen"`
}

// GetRealtime lists sessions active within the last five minutes, most
// recent first, capped at 50.
func (s *Service) GetRealtime() ([]VisitorCard, error) {
	cutoff := time.Now().Add(-realtimeWindow)

	var sessions []models.VisitorSessionModel
	err := s.db.Model(&models.VisitorSessionModel{}).
		Where("is_active = ? AND last_activity >= ?", true, cutoff).
		Order("last_activity DESC").
		Limit(realtimeCap).
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}

	cards := make([]VisitorCard, 0, len(sessions))
	for _, sess := range sessions {
		cards = append(cards, VisitorCard{
			SessionID:   sess.SessionID,
			Country:     sess.Country,
			City:        sess.City,
			Device:      sess.Device,
			Browser:     sess.Browser,
			CurrentPage: sess.ExitPage,
			PageViews:   sess.TotalPageViews,
			Duration:    sess.SessionDuration,
			Converted:   sess.Converted,
			LastSeen:    sess.LastActivity,
		})
	}
	return cards, nil
}

// TimelinePoint is one calendar day of the sessions/views series.
type TimelinePoint struct {
	Date     string `json:"date"`
	Sessions int64  `json:"sessions"`
	Views    int64  `json:"views"`
}

// GetTimeline buckets sessions by calendar day of first visit, zero-filling
// days with no traffic so the chart axis stays continuous.
func (s *Service) GetTimeline(since time.Time) ([]TimelinePoint, error) {
	type row struct {
		FirstVisit     time.Time
		TotalPageViews int64
	}
	var rows []row
	err := s.db.Model(&models.VisitorSessionModel{}).
		Select("first_visit", "total_page_views").
		Where("first_visit >= ?", since).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := map[string]*TimelinePoint{}
	for _, r := range rows {
		key := r.FirstVisit.In(time.Local).Format("2006-01-02")
		p, ok := counts[key]
		if !ok {
			p = &TimelinePoint{Date: key}
			counts[key] = p
		}
		p.Sessions++
		p.Views += r.TotalPageViews
	}

	var out []TimelinePoint
	for day := beginningOfDay(since); !day.After(time.Now()); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		if p, ok := counts[key]; ok {
			out = append(out, *p)
		} else {
			out = append(out, TimelinePoint{Date: key})
		}
	}
	return out, nil
}

func beginningOfDay(t time.Time) time.Time {
	local := t.In(time.Local)
	y, m, d := local.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}
