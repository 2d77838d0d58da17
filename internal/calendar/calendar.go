// Package calendar reads iCalendar feeds and turns their events into journal
// activities.
package calendar

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/apognu/gocal"
	"github.com/terraincognita07/pitchlog/internal/models"
	"github.com/terraincognita07/pitchlog/internal/services"
)

const (
	maxFocusRunes = 100
	maxNotesRunes = 1000
)

var (
	ErrNoLocation = errors.New("event has no location")
	ErrNoStart    = errors.New("event has no start time")
)

var matchSummaryPattern = regexp.MustCompile(`(?i)\b(match|game|fixture|derby|cup)\b|\s(vs?\.?)\s`)

type Event struct {
	UID         string
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
}

// ReadEvents parses an iCalendar stream and returns the events that start
// within [from, to], recurring ones expanded.
func ReadEvents(r io.Reader, from time.Time, to time.Time) ([]Event, error) {
	parser := gocal.NewParser(r)
	parser.Start, parser.End = &from, &to
	if err := parser.Parse(); err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}

	events := make([]Event, 0, len(parser.Events))
	for _, component := range parser.Events {
		event := Event{
			UID:         component.Uid,
			Summary:     strings.TrimSpace(component.Summary),
			Description: strings.TrimSpace(component.Description),
			Location:    strings.TrimSpace(component.Location),
		}
		if component.Start != nil {
			event.Start = *component.Start
		}
		if component.End != nil {
			event.End = *component.End
		}
		events = append(events, event)
	}
	return events, nil
}

// ImportOptions controls how events become activities. An empty Kind infers
// it from the summary.
type ImportOptions struct {
	Kind            string
	DefaultLocation string
}

// Draft is one activity ready to be submitted, with its practice detail when
// the event had enough to fill one.
type Draft struct {
	Activity services.ActivityInput
	Practice *services.PracticeInput
}

func Plan(event Event, opts ImportOptions) (Draft, error) {
	if event.Start.IsZero() {
		return Draft{}, ErrNoStart
	}
	location := event.Location
	if location == "" {
		location = strings.TrimSpace(opts.DefaultLocation)
	}
	if location == "" {
		return Draft{}, ErrNoLocation
	}

	kind := strings.ToLower(strings.TrimSpace(opts.Kind))
	if kind == "" {
		kind = InferKind(event.Summary)
	}

	draft := Draft{Activity: services.ActivityInput{
		Date:     event.Start,
		Kind:     kind,
		Location: location,
		Notes:    notesFor(event),
	}}
	if kind == models.KindPractice && event.Summary != "" {
		practice := services.PracticeInput{Focus: truncateRunes(event.Summary, maxFocusRunes)}
		if event.End.After(event.Start) {
			practice.Duration = int(event.End.Sub(event.Start) / time.Minute)
		}
		draft.Practice = &practice
	}
	return draft, nil
}

// InferKind treats anything that reads like a fixture as a match.
func InferKind(summary string) string {
	if matchSummaryPattern.MatchString(summary) {
		return models.KindMatch
	}
	return models.KindPractice
}

func notesFor(event Event) string {
	parts := make([]string, 0, 2)
	for _, part := range []string{event.Summary, event.Description} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return truncateRunes(strings.Join(parts, "\n"), maxNotesRunes)
}

func truncateRunes(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit])
}
