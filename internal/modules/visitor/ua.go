package visitor

import (
	"strings"

	"github.com/aerovista/core/internal/models"
)

// DeviceInfo is the result of user-agent classification.
type DeviceInfo struct {
	Browser string
	OS      string
	Device  models.DeviceType
}

// ParseUA extracts browser, OS, and device type from a User-Agent string.
func ParseUA(ua string) DeviceInfo {
	info := DeviceInfo{
		Browser: "Unknown",
		OS:      "Unknown",
		Device:  models.DeviceDesktop,
	}
	if strings.TrimSpace(ua) == "" {
		info.Device = models.DeviceUnknown
		return info
	}
	lower := strings.ToLower(ua)

	switch {
	case strings.Contains(lower, "edg/"):
		info.Browser = "Edge"
	case strings.Contains(lower, "opr/") || strings.Contains(lower, "opera"):
		info.Browser = "Opera"
	case strings.Contains(lower, "chrome/"):
		info.Browser = "Chrome"
	case strings.Contains(lower, "safari/") && strings.Contains(lower, "version/"):
		info.Browser = "Safari"
	case strings.Contains(lower, "firefox/"):
		info.Browser = "Firefox"
	}

	switch {
	case strings.Contains(lower, "windows"):
		info.OS = "Windows"
	case strings.Contains(lower, "mac os"):
		info.OS = "macOS"
	case strings.Contains(lower, "android"):
		info.OS = "Android"
	case strings.Contains(lower, "iphone") || strings.Contains(lower, "ipad") || strings.Contains(lower, "ios"):
		info.OS = "iOS"
	case strings.Contains(lower, "linux"):
		info.OS = "Linux"
	}

	switch {
	case strings.Contains(lower, "tablet") || strings.Contains(lower, "ipad"):
		info.Device = models.DeviceTablet
	case strings.Contains(lower, "mobile") || strings.Contains(lower, "iphone") || strings.Contains(lower, "android"):
		info.Device = models.DeviceMobile
	default:
		info.Device = models.DeviceDesktop
	}
	// Android tablets report "android" without "mobile"
	if info.OS == "Android" && !strings.Contains(lower, "mobile") && info.Device == models.DeviceDesktop {
		info.Device = models.DeviceTablet
	}
	return info
}

// IsBotUA returns true if the User-Agent string indicates a bot/crawler.
func IsBotUA(ua string) bool {
	lower := strings.ToLower(ua)
	botKeywords := []string{"bot", "crawler", "spider", "headless", "wget", "curl", "python-requests", "go-http", "java/", "scrapy"}
	for _, kw := range botKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
