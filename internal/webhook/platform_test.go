package webhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	cases := []struct {
		url  string
		want Platform
	}{
		{"https://hooks.slack.com/services/T000/B000/XXXX", PlatformSlack},
		{"https://HOOKS.SLACK.COM/services/T000/B000/XXXX", PlatformSlack},
		{"https://slack.com/services/T000/B000/XXXX", PlatformSlack},
		{"https://discord.com/api/webhooks/123/abc", PlatformDiscord},
		{"https://discordapp.com/api/webhooks/123/abc", PlatformDiscord},
		{"https://DiscordApp.com/API/webhooks/123/abc", PlatformDiscord},
		{"https://example.com/hooks/incoming", PlatformGeneric},
		{"https://api.myapp.io/webhook", PlatformGeneric},
		{"not a url at all", PlatformGeneric},
		{"", PlatformGeneric},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Detect(tc.url), "url %q", tc.url)
	}
}
