package visitor

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// SessionCookie is the browser cookie carrying the session identifier.
	SessionCookie = "sessionId"

	// ContextKeySession holds the *models.VisitorSessionModel for this request.
	ContextKeySession = "visitor_session"
	// ContextKeyDegraded is set when tracking failed and the request proceeded
	// without a session.
	ContextKeyDegraded = "visitor_degraded"
)

var excludedPrefixes = []string{
	"/api",
	"/admin",
	"/uploads",
	"/socket.io",
	"/assets",
	"/static",
	"/favicon.ico",
	"/robots.txt",
	"/.well-known",
}

// trackedPath reports whether the path should create or mutate sessions.
func trackedPath(path string) bool {
	for _, prefix := range excludedPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return false
		}
		// /favicon.ico and friends have no trailing segment
		if strings.HasPrefix(path, prefix) && (prefix == "/favicon.ico" || prefix == "/robots.txt") {
			return false
		}
	}
	return true
}

// Middleware tracks page views against visitor sessions. Tracking failures
// never fail the request: they are logged and flagged as degraded so the
// page still renders.
func Middleware(svc *Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet || !trackedPath(path) {
			c.Next()
			return
		}
		if IsBotUA(c.GetHeader("User-Agent")) {
			c.Next()
			return
		}

		cookieID, _ := c.Cookie(SessionCookie)

		session, err := svc.Track(TrackInput{
			SessionID: cookieID,
			IP:        ClientIP(c),
			UserAgent: c.GetHeader("User-Agent"),
			URL:       c.Request.URL.RequestURI(),
			Title:     c.Query("title"),
			Referrer:  c.GetHeader("Referer"),
		})
		if err != nil {
			log.Warn("visitor tracking failed",
				zap.String("path", path),
				zap.Error(err),
			)
			c.Set(ContextKeyDegraded, true)
			c.Next()
			return
		}

		c.Set(ContextKeySession, session)
		setSessionCookie(c, session.SessionID)
		c.Next()
	}
}

func setSessionCookie(c *gin.Context, sessionID string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, sessionID, int(SessionWindow.Seconds()), "/", "", false, true)
}

// ClientIP resolves the real client address: first X-Forwarded-For entry,
// then X-Real-IP, then the socket address. IPv4-mapped IPv6 prefixes are
// stripped.
func ClientIP(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if first != "" {
			return stripMapped(first)
		}
	}
	if realIP := strings.TrimSpace(c.GetHeader("X-Real-IP")); realIP != "" {
		return stripMapped(realIP)
	}
	return stripMapped(c.ClientIP())
}

func stripMapped(ip string) string {
	return strings.TrimPrefix(ip, "::ffff:")
}

// SessionIDFromRequest returns the sessionId cookie value, if present. API
// handlers use it to attach conversion actions to the caller's session.
func SessionIDFromRequest(c *gin.Context) (sessionID string, ok bool) {
	if id, err := c.Cookie(SessionCookie); err == nil && id != "" {
		return id, true
	}
	return "", false
}
