package calendar

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terraincognita07/pitchlog/internal/models"
)

func readSchedule(t *testing.T) []Event {
	t.Helper()

	file, err := os.Open("testdata/schedule.ics")
	require.NoError(t, err)
	defer file.Close()

	from := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC)
	events, err := ReadEvents(file, from, to)
	require.NoError(t, err)
	return events
}

func TestReadEventsKeepsOnlyEventsInRange(t *testing.T) {
	events := readSchedule(t)
	require.Len(t, events, 3)

	uids := make([]string, 0, len(events))
	for _, event := range events {
		uids = append(uids, event.UID)
	}
	assert.ElementsMatch(t, []string{"match-1@club", "practice-1@club", "practice-2@club"}, uids)
}

func TestReadEventsCopiesFields(t *testing.T) {
	var match Event
	for _, event := range readSchedule(t) {
		if event.UID == "match-1@club" {
			match = event
		}
	}

	assert.Equal(t, "Rovers vs Athletic", match.Summary)
	assert.Equal(t, "League round 12", match.Description)
	assert.Equal(t, "Riverside Park", match.Location)
	assert.True(t, match.Start.Equal(time.Date(2026, time.March, 8, 14, 0, 0, 0, time.UTC)))
	assert.True(t, match.End.Equal(time.Date(2026, time.March, 8, 16, 0, 0, 0, time.UTC)))
}

func TestInferKind(t *testing.T) {
	cases := map[string]string{
		"Rovers vs Athletic":     models.KindMatch,
		"Rovers v. Athletic":     models.KindMatch,
		"Cup quarter final":      models.KindMatch,
		"Friendly match":         models.KindMatch,
		"Finishing drills":       models.KindPractice,
		"Recovery session":       models.KindPractice,
		"Invest in conditioning": models.KindPractice,
	}
	for summary, want := range cases {
		assert.Equal(t, want, InferKind(summary), summary)
	}
}

func TestPlanPracticeFillsDetail(t *testing.T) {
	start := time.Date(2026, time.March, 10, 18, 0, 0, 0, time.UTC)
	draft, err := Plan(Event{
		Summary:  "Finishing drills",
		Location: "Training Ground",
		Start:    start,
		End:      start.Add(90 * time.Minute),
	}, ImportOptions{})
	require.NoError(t, err)

	assert.Equal(t, models.KindPractice, draft.Activity.Kind)
	assert.Equal(t, "Training Ground", draft.Activity.Location)
	assert.Equal(t, "Finishing drills", draft.Activity.Notes)
	require.NotNil(t, draft.Practice)
	assert.Equal(t, "Finishing drills", draft.Practice.Focus)
	assert.Equal(t, 90, draft.Practice.Duration)
}

func TestPlanMatchHasNoDetail(t *testing.T) {
	draft, err := Plan(Event{
		Summary:     "Rovers vs Athletic",
		Description: "League round 12",
		Location:    "Riverside Park",
		Start:       time.Date(2026, time.March, 8, 14, 0, 0, 0, time.UTC),
	}, ImportOptions{})
	require.NoError(t, err)

	assert.Equal(t, models.KindMatch, draft.Activity.Kind)
	assert.Equal(t, "Rovers vs Athletic\nLeague round 12", draft.Activity.Notes)
	assert.Nil(t, draft.Practice)
}

func TestPlanUsesDefaultLocationAndForcedKind(t *testing.T) {
	event := Event{Summary: "Recovery session", Start: time.Date(2026, time.March, 12, 18, 0, 0, 0, time.UTC)}

	_, err := Plan(event, ImportOptions{})
	assert.ErrorIs(t, err, ErrNoLocation)

	draft, err := Plan(event, ImportOptions{Kind: "Match", DefaultLocation: "Club House"})
	require.NoError(t, err)
	assert.Equal(t, models.KindMatch, draft.Activity.Kind)
	assert.Equal(t, "Club House", draft.Activity.Location)
}

func TestPlanRequiresStart(t *testing.T) {
	_, err := Plan(Event{Summary: "Undated", Location: "Pitch"}, ImportOptions{})
	assert.ErrorIs(t, err, ErrNoStart)
}
