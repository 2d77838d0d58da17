package reminders

import (
	"strings"
	"time"

	"github.com/terraincognita07/pitchlog/internal/i18n"
	"github.com/terraincognita07/pitchlog/internal/models"
	"github.com/terraincognita07/pitchlog/internal/services"
)

// Composer turns an activity and its detail into notification text using
// the message catalog for one language.
type Composer struct {
	messages *i18n.Manager
	language string
	location *time.Location
}

func NewComposer(messages *i18n.Manager, language string, location *time.Location) *Composer {
	if location == nil {
		location = time.Local
	}
	return &Composer{
		messages: messages,
		language: messages.NormalizeLanguage(language),
		location: location,
	}
}

func (composer *Composer) Compose(activity models.Activity, detail services.Detail, hasDetail bool) (title string, body string) {
	title = composer.messages.Translatef(composer.language, titleKey(activity.Kind), activity.Location)

	layout := composer.messages.Translate(composer.language, "reminder.time_layout")
	lines := []string{
		composer.messages.Translatef(composer.language, "reminder.body.starts", activity.Date.In(composer.location).Format(layout)),
	}
	if hasDetail {
		if line := composer.detailLine(detail); line != "" {
			lines = append(lines, line)
		}
	}
	return title, strings.Join(lines, "\n")
}

func (composer *Composer) detailLine(detail services.Detail) string {
	switch {
	case detail.Match != nil && strings.TrimSpace(detail.Match.Opponent) != "":
		if strings.TrimSpace(detail.Match.Score) != "" {
			return composer.messages.Translatef(composer.language, "reminder.body.match_score", detail.Match.Opponent, detail.Match.Score)
		}
		return composer.messages.Translatef(composer.language, "reminder.body.match", detail.Match.Opponent)
	case detail.Practice != nil && strings.TrimSpace(detail.Practice.Focus) != "":
		return composer.messages.Translatef(composer.language, "reminder.body.practice", detail.Practice.Focus)
	default:
		return ""
	}
}

func titleKey(kind string) string {
	switch kind {
	case models.KindMatch:
		return "reminder.title.match"
	case models.KindPractice:
		return "reminder.title.practice"
	default:
		return "reminder.title.activity"
	}
}
