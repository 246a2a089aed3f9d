package visitor

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/aerovista/core/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SessionWindow is how long a session stays joinable after its last activity.
const SessionWindow = 30 * time.Minute

// RetentionDays is how long sessions are kept before the purge job removes them.
const RetentionDays = 90

// TrackInput carries everything the tracking middleware extracted from a
// page request.
type TrackInput struct {
	SessionID string // sessionId cookie value, may be empty
	IP        string
	UserAgent string
	URL       string
	Title     string
	Referrer  string
	Now       time.Time
}

// Service owns visitor session persistence.
type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	return &Service{db: db, log: log}
}

// Track records a page view, reconciling the request onto an existing session
// by cookie first and by IP within the session window second, or creating a
// new session. It returns the session the view landed on.
func (s *Service) Track(in TrackInput) (*models.VisitorSessionModel, error) {
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	session, err := s.reconcile(in, now)
	if err != nil {
		return nil, err
	}

	if session == nil {
		session = s.newSession(in, now)
		session.AppendPage(in.URL, in.Title, in.Referrer, now)
		session.Touch(now)
		if err := s.db.Create(session).Error; err != nil {
			return nil, err
		}
		return session, nil
	}

	appended := session.AppendPage(in.URL, in.Title, in.Referrer, now)
	session.Touch(now)
	session.IsActive = true
	if !appended {
		// Refresh duplicate: still bump activity so the session stays alive.
		err = s.db.Model(session).Updates(map[string]interface{}{
			"last_activity":    session.LastActivity,
			"session_duration": session.SessionDuration,
			"is_active":        true,
		}).Error
	} else {
		err = s.db.Save(session).Error
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// reconcile finds the session this request belongs to, or nil for a new one.
func (s *Service) reconcile(in TrackInput, now time.Time) (*models.VisitorSessionModel, error) {
	if in.SessionID != "" {
		var session models.VisitorSessionModel
		err := s.db.Where("session_id = ?", in.SessionID).First(&session).Error
		if err == nil {
			return &session, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	// No usable cookie: fold into the most recent session from the same IP
	// that is still inside the activity window.
	if in.IP != "" {
		cutoff := now.Add(-SessionWindow)
		var session models.VisitorSessionModel
		err := s.db.Where("ip_address = ? AND last_activity >= ?", in.IP, cutoff).
			Order("last_activity DESC").
			First(&session).Error
		if err == nil {
			return &session, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return nil, nil
}

func (s *Service) newSession(in TrackInput, now time.Time) *models.VisitorSessionModel {
	geo := ResolveGeo(in.IP)
	dev := ParseUA(in.UserAgent)

	session := &models.VisitorSessionModel{
		SessionID:  uuid.NewString(),
		IPAddress:  in.IP,
		Country:    geo.Country,
		Region:     geo.Region,
		City:       geo.City,
		Timezone:   geo.Timezone,
		Latitude:   geo.Latitude,
		Longitude:  geo.Longitude,
		Browser:    dev.Browser,
		OS:         dev.OS,
		Device:     dev.Device,
		Referrer:   in.Referrer,
		Bounced:    true,
		FirstVisit: now,
		IsActive:   true,
	}
	session.ReferrerDomain = referrerDomain(in.Referrer)
	session.UTMSource, session.UTMMedium, session.UTMCampaign = parseUTM(in.URL)
	return session
}

// RecordAction appends a conversion action to the session identified by the
// sessionId cookie value.
func (s *Service) RecordAction(sessionID, action, details string) error {
	if sessionID == "" || action == "" {
		return errors.New("session id and action are required")
	}

	var session models.VisitorSessionModel
	if err := s.db.Where("session_id = ?", sessionID).First(&session).Error; err != nil {
		return err
	}

	now := time.Now()
	session.RecordAction(action, details, now)
	session.Touch(now)
	return s.db.Save(&session).Error
}

// FindBySessionID loads a session by its public session identifier.
func (s *Service) FindBySessionID(sessionID string) (*models.VisitorSessionModel, error) {
	var session models.VisitorSessionModel
	if err := s.db.Where("session_id = ?", sessionID).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// DeactivateStale flips isActive off for sessions idle past the window.
func (s *Service) DeactivateStale() (int64, error) {
	cutoff := time.Now().Add(-SessionWindow)
	result := s.db.Model(&models.VisitorSessionModel{}).
		Where("is_active = ? AND last_activity < ?", true, cutoff).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}

// PurgeOld hard-deletes sessions past the retention horizon.
func (s *Service) PurgeOld() (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -RetentionDays)
	result := s.db.Unscoped().
		Where("last_activity < ?", cutoff).
		Delete(&models.VisitorSessionModel{})
	return result.RowsAffected, result.Error
}

func referrerDomain(referrer string) string {
	if referrer == "" {
		return ""
	}
	u, err := url.Parse(referrer)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

func parseUTM(rawURL string) (source, medium, campaign string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", ""
	}
	q := u.Query()
	return q.Get("utm_source"), q.Get("utm_medium"), q.Get("utm_campaign")
}
