package webhook

import (
	"strings"
	"testing"

	"github.com/imaadidikshit/TrustFlow-App-sub002/internal/model"
	"github.com/stretchr/testify/assert"
)

func ratingOf(v float64) *float64 { return &v }

func samplePayload() model.CanonicalPayload {
	return model.CanonicalPayload{
		Event:     model.EventTestimonialCreated,
		Timestamp: "2024-01-01T12:00:00Z",
		Data: model.PayloadData{
			ID:              "t1",
			SpaceID:         "s1",
			RespondentName:  "Ana",
			RespondentEmail: "ana@example.com",
			Content:         "Great tool!",
			Rating:          ratingOf(4),
			Type:            "text",
			CreatedAt:       "2024-01-01T00:00:00Z",
		},
	}
}

func TestStarRating(t *testing.T) {
	assert.Equal(t, "★★★★★", StarRating(ratingOf(5)))
	assert.Equal(t, "★★★★☆", StarRating(ratingOf(4)))
	assert.Equal(t, "★★★☆☆", StarRating(ratingOf(3)))
	assert.Equal(t, "☆☆☆☆☆", StarRating(ratingOf(0)))
	assert.Equal(t, "☆☆☆☆☆", StarRating(ratingOf(-2)))
	assert.Equal(t, "☆☆☆☆☆", StarRating(nil))
	// floor + clamp
	assert.Equal(t, "★★★★☆", StarRating(ratingOf(4.9)))
	assert.Equal(t, "★★★★★", StarRating(ratingOf(7)))
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "No content provided", Excerpt("", 200))
	assert.Equal(t, "short", Excerpt("short", 200))

	exact := strings.Repeat("a", 200)
	assert.Equal(t, exact, Excerpt(exact, 200))

	long := strings.Repeat("b", 201)
	got := Excerpt(long, 200)
	assert.Equal(t, strings.Repeat("b", 200)+"...", got)
	assert.Len(t, got, 203)
}

func TestFormatGeneric_Passthrough(t *testing.T) {
	p := samplePayload()
	assert.Equal(t, p, FormatGeneric(p))
}

func TestFormatSlack(t *testing.T) {
	msg, ok := FormatSlack(samplePayload()).(SlackMessage)
	assert.True(t, ok)
	assert.Len(t, msg.Blocks, 4)

	assert.Equal(t, "header", msg.Blocks[0].Type)
	assert.Equal(t, "New testimonial received", msg.Blocks[0].Text.Text)

	fields := msg.Blocks[1].Fields
	assert.Len(t, fields, 2)
	assert.Equal(t, "*From:*\nAna", fields[0].Text)
	assert.Equal(t, "*Rating:*\n★★★★☆", fields[1].Text)

	assert.Equal(t, "> Great tool!", msg.Blocks[2].Text.Text)

	assert.Equal(t, "context", msg.Blocks[3].Type)
	assert.Contains(t, msg.Blocks[3].Elements[0].Text, "text testimonial")
}

func TestFormatSlack_Truncation(t *testing.T) {
	p := samplePayload()
	p.Data.Content = strings.Repeat("x", 250)
	msg := FormatSlack(p).(SlackMessage)
	assert.Equal(t, "> "+strings.Repeat("x", 200)+"...", msg.Blocks[2].Text.Text)
}

func TestFormatDiscord(t *testing.T) {
	msg, ok := FormatDiscord(samplePayload()).(DiscordMessage)
	assert.True(t, ok)
	assert.Len(t, msg.Embeds, 1)

	e := msg.Embeds[0]
	assert.Equal(t, "New testimonial from Ana", e.Title)
	assert.Equal(t, "> Great tool!", e.Description)
	assert.Equal(t, 0x5865F2, e.Color)
	assert.Equal(t, "2024-01-01T12:00:00Z", e.Timestamp)

	assert.Len(t, e.Fields, 3)
	assert.Equal(t, "★★★★☆", e.Fields[0].Value)
	assert.Equal(t, "text", e.Fields[1].Value)
	assert.Equal(t, "ana@example.com", e.Fields[2].Value)
	for _, f := range e.Fields {
		assert.True(t, f.Inline)
	}
}

func TestFormatDiscord_Defaults(t *testing.T) {
	p := samplePayload()
	p.Data.RespondentEmail = ""
	p.Data.Content = strings.Repeat("y", 301)
	p.Data.Rating = nil

	e := FormatDiscord(p).(DiscordMessage).Embeds[0]
	assert.Equal(t, "Not provided", e.Fields[2].Value)
	assert.Equal(t, "☆☆☆☆☆", e.Fields[0].Value)
	assert.Equal(t, "> "+strings.Repeat("y", 300)+"...", e.Description)
}

func TestFormatterFor(t *testing.T) {
	p := samplePayload()
	_, isSlack := FormatterFor(PlatformSlack)(p).(SlackMessage)
	assert.True(t, isSlack)
	_, isDiscord := FormatterFor(PlatformDiscord)(p).(DiscordMessage)
	assert.True(t, isDiscord)
	_, isGeneric := FormatterFor(PlatformGeneric)(p).(model.CanonicalPayload)
	assert.True(t, isGeneric)
}
