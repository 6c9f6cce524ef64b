package audit

import (
	"strings"

	"github.com/mssola/useragent"
)

// Platform classes reported on audit events.
const (
	PlatformDesktop = "desktop"
	PlatformMobile  = "mobile"
	PlatformBot     = "bot"
	PlatformUnknown = "unknown"
)

// ClassifyPlatform reduces a User-Agent to a coarse platform class. The raw
// header is never stored.
func ClassifyPlatform(userAgentString string) string {
	if strings.TrimSpace(userAgentString) == "" {
		return PlatformUnknown
	}
	ua := useragent.New(userAgentString)
	switch {
	case ua.Bot():
		return PlatformBot
	case ua.Mobile():
		return PlatformMobile
	}
	if browser, _ := ua.Browser(); browser == "" && ua.OS() == "" {
		return PlatformUnknown
	}
	return PlatformDesktop
}
