package services

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/terraincognita07/pitchlog/internal/models"
	"golang.org/x/text/unicode/norm"
)

const (
	maxLocationLength = 100
	maxNotesLength    = 1000
	maxOpponentLength = 100
	maxScoreLength    = 10
	maxFocusLength    = 100
)

// Numeric ranges. Out-of-range input saturates to the nearest bound.
const (
	minRating, maxRating           = 1, 5
	minGoals, maxGoals             = 0, 20
	minAssists, maxAssists         = 0, 20
	minPlayingTime, maxPlayingTime = 0, 120
	minPerformance, maxPerformance = 1, 10
	minDuration, maxDuration       = 0, 300
	minIntensity, maxIntensity     = 1, 5
	minProgress, maxProgress       = 0, 100
	minMood, maxMood               = 1, 5
)

type ActivityInput struct {
	Date     time.Time
	Kind     string
	Location string
	Notes    string
	Rating   int
}

type MatchInput struct {
	Opponent    string
	Score       string
	GoalsScored int
	Assists     int
	PlayingTime int
	Performance int
}

type PracticeInput struct {
	Focus     string
	Duration  int
	Intensity int
	Learnings string
}

type GoalInput struct {
	Title       string
	Description string
	Deadline    time.Time
	IsCompleted bool
	Progress    int
}

type ReflectionInput struct {
	Date         time.Time
	Mood         int
	Successes    string
	Challenges   string
	Learnings    string
	Improvements string
	NextGoal     string
	Feelings     string
	ActivityID   string
}

func NormalizeActivityInput(input ActivityInput) (ActivityInput, error) {
	kind := strings.ToLower(strings.TrimSpace(input.Kind))
	if kind == "" {
		return ActivityInput{}, invalid("kind", ReasonRequired)
	}
	if !models.IsKnownKind(kind) {
		return ActivityInput{}, invalid("kind", ReasonUnknownKind)
	}
	if input.Date.IsZero() {
		return ActivityInput{}, invalid("date", ReasonRequired)
	}

	location, err := requiredText("location", input.Location, maxLocationLength)
	if err != nil {
		return ActivityInput{}, err
	}
	notes, err := optionalText("notes", input.Notes, maxNotesLength)
	if err != nil {
		return ActivityInput{}, err
	}

	return ActivityInput{
		Date:     NormalizeInstant(input.Date),
		Kind:     kind,
		Location: location,
		Notes:    notes,
		Rating:   Clamp(input.Rating, minRating, maxRating),
	}, nil
}

func NormalizeMatchInput(input MatchInput) (MatchInput, error) {
	opponent, err := requiredText("opponent", input.Opponent, maxOpponentLength)
	if err != nil {
		return MatchInput{}, err
	}
	score, err := requiredText("score", input.Score, maxScoreLength)
	if err != nil {
		return MatchInput{}, err
	}

	return MatchInput{
		Opponent:    opponent,
		Score:       score,
		GoalsScored: Clamp(input.GoalsScored, minGoals, maxGoals),
		Assists:     Clamp(input.Assists, minAssists, maxAssists),
		PlayingTime: Clamp(input.PlayingTime, minPlayingTime, maxPlayingTime),
		Performance: Clamp(input.Performance, minPerformance, maxPerformance),
	}, nil
}

func NormalizePracticeInput(input PracticeInput) (PracticeInput, error) {
	focus, err := requiredText("focus", input.Focus, maxFocusLength)
	if err != nil {
		return PracticeInput{}, err
	}
	learnings, err := optionalText("learnings", input.Learnings, 0)
	if err != nil {
		return PracticeInput{}, err
	}

	return PracticeInput{
		Focus:     focus,
		Duration:  Clamp(input.Duration, minDuration, maxDuration),
		Intensity: Clamp(input.Intensity, minIntensity, maxIntensity),
		Learnings: learnings,
	}, nil
}

func NormalizeGoalInput(input GoalInput) (GoalInput, error) {
	title, err := requiredText("title", input.Title, 0)
	if err != nil {
		return GoalInput{}, err
	}
	description, err := optionalText("description", input.Description, 0)
	if err != nil {
		return GoalInput{}, err
	}
	if input.Deadline.IsZero() {
		return GoalInput{}, invalid("deadline", ReasonRequired)
	}

	return GoalInput{
		Title:       title,
		Description: description,
		Deadline:    NormalizeInstant(input.Deadline),
		IsCompleted: input.IsCompleted,
		Progress:    ClampProgress(input.Progress),
	}, nil
}

func NormalizeReflectionInput(input ReflectionInput) (ReflectionInput, error) {
	if input.Date.IsZero() {
		return ReflectionInput{}, invalid("date", ReasonRequired)
	}

	return ReflectionInput{
		Date:         NormalizeInstant(input.Date),
		Mood:         Clamp(input.Mood, minMood, maxMood),
		Successes:    normalizeText(input.Successes),
		Challenges:   normalizeText(input.Challenges),
		Learnings:    normalizeText(input.Learnings),
		Improvements: normalizeText(input.Improvements),
		NextGoal:     normalizeText(input.NextGoal),
		Feelings:     normalizeText(input.Feelings),
		ActivityID:   strings.TrimSpace(input.ActivityID),
	}, nil
}

func Clamp(value int, lower int, upper int) int {
	if value < lower {
		return lower
	}
	if value > upper {
		return upper
	}
	return value
}

func ClampProgress(progress int) int {
	return Clamp(progress, minProgress, maxProgress)
}

func requiredText(field string, value string, maxLength int) (string, error) {
	normalized := normalizeText(value)
	if normalized == "" {
		return "", invalid(field, ReasonRequired)
	}
	return checkLength(field, normalized, maxLength)
}

func optionalText(field string, value string, maxLength int) (string, error) {
	return checkLength(field, normalizeText(value), maxLength)
}

func checkLength(field string, value string, maxLength int) (string, error) {
	if maxLength > 0 && utf8.RuneCountInString(value) > maxLength {
		return "", invalid(field, ReasonTooLong)
	}
	return value, nil
}

func normalizeText(value string) string {
	return strings.TrimSpace(norm.NFC.String(value))
}

// NormalizeInstant stores every timestamp as whole-second UTC so that text
// ordering in SQLite matches time ordering.
func NormalizeInstant(value time.Time) time.Time {
	return value.UTC().Truncate(time.Second)
}
