package webhook

import "strings"

// Platform is the delivery profile selected for a destination URL.
type Platform string

const (
	PlatformSlack   Platform = "slack"
	PlatformDiscord Platform = "discord"
	PlatformGeneric Platform = "generic"
)

// Detect classifies a destination URL by its webhook path fragments. Matching
// is case-insensitive; an empty or unrecognised URL falls back to generic.
func Detect(rawURL string) Platform {
	u := strings.ToLower(rawURL)
	switch {
	case strings.Contains(u, "hooks.slack.com") || strings.Contains(u, "slack.com/services"):
		return PlatformSlack
	case strings.Contains(u, "discord.com/api/webhooks") || strings.Contains(u, "discordapp.com/api/webhooks"):
		return PlatformDiscord
	default:
		return PlatformGeneric
	}
}
