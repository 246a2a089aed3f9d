package visitor

import (
	"testing"

	"github.com/aerovista/core/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestParseUA(t *testing.T) {
	tests := []struct {
		name    string
		ua      string
		browser string
		os      string
		device  models.DeviceType
	}{
		{
			name:    "chrome on windows",
			ua:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			browser: "Chrome",
			os:      "Windows",
			device:  models.DeviceDesktop,
		},
		{
			name:    "safari on iphone",
			ua:      "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
			browser: "Safari",
			os:      "iOS",
			device:  models.DeviceMobile,
		},
		{
			name:    "firefox on linux",
			ua:      "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
			browser: "Firefox",
			os:      "Linux",
			device:  models.DeviceDesktop,
		},
		{
			name:    "edge on windows",
			ua:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.0.0",
			browser: "Edge",
			os:      "Windows",
			device:  models.DeviceDesktop,
		},
		{
			name:    "chrome on android phone",
			ua:      "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36",
			browser: "Chrome",
			os:      "Android",
			device:  models.DeviceMobile,
		},
		{
			name:    "android tablet without mobile token",
			ua:      "Mozilla/5.0 (Linux; Android 13; SM-X700) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			browser: "Chrome",
			os:      "Android",
			device:  models.DeviceTablet,
		},
		{
			name:    "ipad",
			ua:      "Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
			browser: "Safari",
			os:      "iOS",
			device:  models.DeviceTablet,
		},
		{
			name:    "empty ua",
			ua:      "",
			browser: "Unknown",
			os:      "Unknown",
			device:  models.DeviceUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseUA(tt.ua)
			assert.Equal(t, tt.browser, info.Browser)
			assert.Equal(t, tt.os, info.OS)
			assert.Equal(t, tt.device, info.Device)
		})
	}
}

func TestIsBotUA(t *testing.T) {
	assert.True(t, IsBotUA("Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"))
	assert.True(t, IsBotUA("curl/8.4.0"))
	assert.True(t, IsBotUA("python-requests/2.31.0"))
	assert.False(t, IsBotUA("Mozilla/5.0 (Windows NT 10.0) Chrome/120.0.0.0 Safari/537.36"))
}
