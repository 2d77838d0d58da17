package api

import (
	"time"

	"github.com/terraincognita07/pitchlog/internal/services"
)

type activityPayload struct {
	Date     time.Time        `json:"date"`
	Kind     string           `json:"kind"`
	Location string           `json:"location"`
	Notes    string           `json:"notes"`
	Rating   int              `json:"rating"`
	Match    *matchPayload    `json:"match,omitempty"`
	Practice *practicePayload `json:"practice,omitempty"`
}

type matchPayload struct {
	Opponent    string `json:"opponent"`
	Score       string `json:"score"`
	GoalsScored int    `json:"goals_scored"`
	Assists     int    `json:"assists"`
	PlayingTime int    `json:"playing_time"`
	Performance int    `json:"performance"`
}

type practicePayload struct {
	Focus     string `json:"focus"`
	Duration  int    `json:"duration"`
	Intensity int    `json:"intensity"`
	Learnings string `json:"learnings"`
}

type goalPayload struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline"`
	IsCompleted bool      `json:"is_completed"`
	Progress    int       `json:"progress"`
}

type progressPayload struct {
	Progress int `json:"progress"`
}

type reflectionPayload struct {
	Date         time.Time `json:"date"`
	Mood         int       `json:"mood"`
	Successes    string    `json:"successes"`
	Challenges   string    `json:"challenges"`
	Learnings    string    `json:"learnings"`
	Improvements string    `json:"improvements"`
	NextGoal     string    `json:"next_goal"`
	Feelings     string    `json:"feelings"`
	ActivityID   string    `json:"activity_id"`
}

type reminderPayload struct {
	TriggerAt *time.Time `json:"trigger_at"`
}

func (payload activityPayload) input() services.ActivityInput {
	return services.ActivityInput{
		Date:     payload.Date,
		Kind:     payload.Kind,
		Location: payload.Location,
		Notes:    payload.Notes,
		Rating:   payload.Rating,
	}
}

func (payload *matchPayload) input() *services.MatchInput {
	if payload == nil {
		return nil
	}
	return &services.MatchInput{
		Opponent:    payload.Opponent,
		Score:       payload.Score,
		GoalsScored: payload.GoalsScored,
		Assists:     payload.Assists,
		PlayingTime: payload.PlayingTime,
		Performance: payload.Performance,
	}
}

func (payload *practicePayload) input() *services.PracticeInput {
	if payload == nil {
		return nil
	}
	return &services.PracticeInput{
		Focus:     payload.Focus,
		Duration:  payload.Duration,
		Intensity: payload.Intensity,
		Learnings: payload.Learnings,
	}
}

func (payload goalPayload) input() services.GoalInput {
	return services.GoalInput{
		Title:       payload.Title,
		Description: payload.Description,
		Deadline:    payload.Deadline,
		IsCompleted: payload.IsCompleted,
		Progress:    payload.Progress,
	}
}

func (payload reflectionPayload) input() services.ReflectionInput {
	return services.ReflectionInput{
		Date:         payload.Date,
		Mood:         payload.Mood,
		Successes:    payload.Successes,
		Challenges:   payload.Challenges,
		Learnings:    payload.Learnings,
		Improvements: payload.Improvements,
		NextGoal:     payload.NextGoal,
		Feelings:     payload.Feelings,
		ActivityID:   payload.ActivityID,
	}
}
