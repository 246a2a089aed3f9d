package analytics

import (
	"testing"
	"time"

	"github.com/aerovista/core/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.VisitorSessionModel{}))
	return db
}

func seedSession(t *testing.T, db *gorm.DB, mutate func(*models.VisitorSessionModel)) *models.VisitorSessionModel {
	t.Helper()
	now := time.Now()
	s := &models.VisitorSessionModel{
		SessionID:      "sess-" + time.Now().Format("150405.000000000"),
		IPAddress:      "8.8.8.8",
		Country:        "United States",
		City:           "Mountain View",
		Browser:        "Chrome",
		OS:             "Windows",
		Device:         models.DeviceDesktop,
		TotalPageViews: 1,
		Bounced:        true,
		FirstVisit:     now,
		LastActivity:   now,
		IsActive:       true,
		Pages:          models.PageViews{{URL: "/", VisitedAt: now}},
		EntryPage:      "/",
		ExitPage:       "/",
	}
	if mutate != nil {
		mutate(s)
	}
	require.NoError(t, db.Create(s).Error)
	return s
}

func TestParsePeriod(t *testing.T) {
	p, d := ParsePeriod("24h")
	assert.Equal(t, Period24h, p)
	assert.Equal(t, 24*time.Hour, d)

	p, d = ParsePeriod("90d")
	assert.Equal(t, Period90d, p)
	assert.Equal(t, 90*24*time.Hour, d)

	p, d = ParsePeriod("bogus")
	assert.Equal(t, Period7d, p)
	assert.Equal(t, 7*24*time.Hour, d)

	p, _ = ParsePeriod("")
	assert.Equal(t, Period7d, p)
}

func TestGetOverviewEmptyWindow(t *testing.T) {
	svc := NewService(newTestDB(t))

	overview, err := svc.GetOverview(time.Now().Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Zero(t, overview.TotalSessions)
	assert.Zero(t, overview.BounceRate)
	assert.Zero(t, overview.ConversionRate)
	assert.Zero(t, overview.AvgDuration)
}

func TestGetOverview(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	seedSession(t, db, func(s *models.VisitorSessionModel) {
		s.SessionID = "a"
		s.TotalPageViews = 3
		s.SessionDuration = 120
		s.Bounced = false
		s.Converted = true
	})
	seedSession(t, db, func(s *models.VisitorSessionModel) {
		s.SessionID = "b"
		s.SessionDuration = 60
	})
	// Outside the window, must not count.
	seedSession(t, db, func(s *models.VisitorSessionModel) {
		s.SessionID = "c"
		s.FirstVisit = time.Now().Add(-48 * time.Hour)
		s.LastActivity = time.Now().Add(-48 * time.Hour)
	})

	overview, err := svc.GetOverview(time.Now().Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 2, overview.TotalSessions)
	assert.EqualValues(t, 2, overview.ActiveSessions)
	assert.EqualValues(t, 4, overview.TotalPageViews)
	assert.InDelta(t, 90.0, overview.AvgDuration, 0.01)
	assert.InDelta(t, 50.0, overview.BounceRate, 0.01)
	assert.InDelta(t, 50.0, overview.ConversionRate, 0.01)
}

func TestGetCountriesAndDevices(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	for i := 0; i < 3; i++ {
		seedSession(t, db, func(s *models.VisitorSessionModel) {
			s.SessionID = "us-" + string(rune('a'+i))
		})
	}
	seedSession(t, db, func(s *models.VisitorSessionModel) {
		s.SessionID = "de"
		s.Country = "Germany"
		s.Device = models.DeviceMobile
	})

	since := time.Now().Add(-time.Hour)
	countries, err := svc.GetCountries(since, 10)
	require.NoError(t, err)
	require.Len(t, countries, 2)
	assert.Equal(t, "United States", countries[0].Key)
	assert.EqualValues(t, 3, countries[0].Count)

	devices, err := svc.GetDevices(since, 10)
	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Equal(t, string(models.DeviceDesktop), devices[0].Key)
}

func TestGetReferrersDirectFallback(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	seedSession(t, db, nil)
	seedSession(t, db, func(s *models.VisitorSessionModel) {
		s.SessionID = "ref"
		s.ReferrerDomain = "google.com"
	})

	rows, err := svc.GetReferrers(time.Now().Add(-time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	keys := []string{rows[0].Key, rows[1].Key}
	assert.Contains(t, keys, "direct")
	assert.Contains(t, keys, "google.com")
}

func TestGetPagesDistinctSessionUniques(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	now := time.Now()
	seedSession(t, db, func(s *models.VisitorSessionModel) {
		s.SessionID = "a"
		s.Pages = models.PageViews{
			{URL: "/", VisitedAt: now},
			{URL: "/services", VisitedAt: now},
			{URL: "/services?tab=mapping", VisitedAt: now},
		}
	})
	seedSession(t, db, func(s *models.VisitorSessionModel) {
		s.SessionID = "b"
		s.Pages = models.PageViews{{URL: "/services", VisitedAt: now}}
	})

	stats, err := svc.GetPages(time.Now().Add(-time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, "/services", stats[0].URL)
	assert.EqualValues(t, 3, stats[0].Views)
	assert.EqualValues(t, 2, stats[0].Uniques)

	assert.Equal(t, "/", stats[1].URL)
	assert.EqualValues(t, 1, stats[1].Uniques)
}

func TestGetRealtime(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	seedSession(t, db, func(s *models.VisitorSessionModel) {
		s.SessionID = "fresh"
		s.ExitPage = "/portfolio"
	})
	seedSession(t, db, func(s *models.VisitorSessionModel) {
		s.SessionID = "stale"
		s.LastActivity = time.Now().Add(-10 * time.Minute)
	})
	seedSession(t, db, func(s *models.VisitorSessionModel) {
		s.SessionID = "inactive"
		s.IsActive = false
	})

	cards, err := svc.GetRealtime()
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "fresh", cards[0].SessionID)
	assert.Equal(t, "/portfolio", cards[0].CurrentPage)
}

func TestGetTimelineZeroFills(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	seedSession(t, db, func(s *models.VisitorSessionModel) {
		s.SessionID = "today"
		s.TotalPageViews = 2
	})
	seedSession(t, db, func(s *models.VisitorSessionModel) {
		s.SessionID = "past"
		s.FirstVisit = time.Now().AddDate(0, 0, -2)
	})

	points, err := svc.GetTimeline(time.Now().AddDate(0, 0, -6))
	require.NoError(t, err)
	require.Len(t, points, 7)

	today := points[len(points)-1]
	assert.EqualValues(t, 1, today.Sessions)
	assert.EqualValues(t, 2, today.Views)

	twoDaysAgo := points[len(points)-3]
	assert.EqualValues(t, 1, twoDaysAgo.Sessions)

	// Untouched days are present with zero counts.
	assert.EqualValues(t, 0, points[0].Sessions)
}
