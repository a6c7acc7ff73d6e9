package webhook

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/imaadidikshit/TrustFlow-App-sub002/internal/model"
)

const (
	slackExcerptLimit   = 200
	discordExcerptLimit = 300

	// Discord blurple.
	discordAccentColor = 0x5865F2

	noContentPlaceholder = "No content provided"
)

// Formatter adapts the canonical payload to a platform-specific body.
type Formatter func(p model.CanonicalPayload) interface{}

// FormatterFor maps each platform to its formatter. Unknown platforms get the
// generic passthrough.
func FormatterFor(platform Platform) Formatter {
	switch platform {
	case PlatformSlack:
		return FormatSlack
	case PlatformDiscord:
		return FormatDiscord
	default:
		return FormatGeneric
	}
}

// FormatGeneric sends the canonical payload as-is.
func FormatGeneric(p model.CanonicalPayload) interface{} { return p }

type SlackText struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Emoji bool   `json:"emoji,omitempty"`
}

type SlackBlock struct {
	Type     string      `json:"type"`
	Text     *SlackText  `json:"text,omitempty"`
	Fields   []SlackText `json:"fields,omitempty"`
	Elements []SlackText `json:"elements,omitempty"`
}

type SlackMessage struct {
	Blocks []SlackBlock `json:"blocks"`
}

// FormatSlack renders a Block Kit card: header, sender/rating fields, quoted
// excerpt and a context footer.
func FormatSlack(p model.CanonicalPayload) interface{} {
	return SlackMessage{Blocks: []SlackBlock{
		{
			Type: "header",
			Text: &SlackText{Type: "plain_text", Text: "New testimonial received", Emoji: true},
		},
		{
			Type: "section",
			Fields: []SlackText{
				{Type: "mrkdwn", Text: "*From:*\n" + p.Data.RespondentName},
				{Type: "mrkdwn", Text: "*Rating:*\n" + StarRating(p.Data.Rating)},
			},
		},
		{
			Type: "section",
			Text: &SlackText{Type: "mrkdwn", Text: "> " + Excerpt(p.Data.Content, slackExcerptLimit)},
		},
		{
			Type: "context",
			Elements: []SlackText{
				{Type: "mrkdwn", Text: fmt.Sprintf("%s testimonial • %s", p.Data.Type, formatTimestamp(p.Data.CreatedAt))},
			},
		},
	}}
}

type DiscordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type DiscordEmbed struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Color       int            `json:"color"`
	Fields      []DiscordField `json:"fields"`
	Timestamp   string         `json:"timestamp"`
}

type DiscordMessage struct {
	Embeds []DiscordEmbed `json:"embeds"`
}

// FormatDiscord renders a single rich embed.
func FormatDiscord(p model.CanonicalPayload) interface{} {
	email := p.Data.RespondentEmail
	if email == "" {
		email = "Not provided"
	}
	return DiscordMessage{Embeds: []DiscordEmbed{
		{
			Title:       "New testimonial from " + p.Data.RespondentName,
			Description: "> " + Excerpt(p.Data.Content, discordExcerptLimit),
			Color:       discordAccentColor,
			Fields: []DiscordField{
				{Name: "Rating", Value: StarRating(p.Data.Rating), Inline: true},
				{Name: "Type", Value: p.Data.Type, Inline: true},
				{Name: "Email", Value: email, Inline: true},
			},
			Timestamp: p.Timestamp,
		},
	}}
}

// StarRating renders a five-glyph star bar. The rating is floored and clamped
// to [0,5]; nil renders as five empty stars.
func StarRating(rating *float64) string {
	n := 0
	if rating != nil {
		n = int(math.Floor(*rating))
	}
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

// Excerpt truncates content to limit characters, appending an ellipsis marker
// when cut. Empty content renders as a fixed placeholder.
func Excerpt(content string, limit int) string {
	if content == "" {
		return noContentPlaceholder
	}
	r := []rune(content)
	if len(r) <= limit {
		return content
	}
	return string(r[:limit]) + "..."
}

func formatTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Format("Jan 2, 2006 15:04 MST")
}
