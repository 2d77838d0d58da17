package api

import (
	"time"

	"github.com/terraincognita07/pitchlog/internal/models"
	"github.com/terraincognita07/pitchlog/internal/services"
)

type activityView struct {
	ID        string        `json:"id"`
	Date      time.Time     `json:"date"`
	Kind      string        `json:"kind"`
	Location  string        `json:"location"`
	Notes     string        `json:"notes"`
	Rating    int           `json:"rating"`
	Match     *matchView    `json:"match,omitempty"`
	Practice  *practiceView `json:"practice,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type matchView struct {
	ID          string     `json:"id"`
	ActivityID  string     `json:"activity_id"`
	Opponent    string     `json:"opponent"`
	Score       string     `json:"score"`
	GoalsScored int        `json:"goals_scored"`
	Assists     int        `json:"assists"`
	PlayingTime int        `json:"playing_time"`
	Performance int        `json:"performance"`
	Date        *time.Time `json:"date,omitempty"`
	Location    string     `json:"location,omitempty"`
}

type practiceView struct {
	ID         string     `json:"id"`
	ActivityID string     `json:"activity_id"`
	Focus      string     `json:"focus"`
	Duration   int        `json:"duration"`
	Intensity  int        `json:"intensity"`
	Learnings  string     `json:"learnings"`
	Date       *time.Time `json:"date,omitempty"`
	Location   string     `json:"location,omitempty"`
}

type detailView struct {
	Kind     string        `json:"kind"`
	Match    *matchView    `json:"match,omitempty"`
	Practice *practiceView `json:"practice,omitempty"`
}

type goalView struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Deadline     time.Time `json:"deadline"`
	IsCompleted  bool      `json:"is_completed"`
	Progress     int       `json:"progress"`
	CreationDate time.Time `json:"creation_date"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type reflectionView struct {
	ID           string    `json:"id"`
	Date         time.Time `json:"date"`
	Mood         int       `json:"mood"`
	Successes    string    `json:"successes"`
	Challenges   string    `json:"challenges"`
	Learnings    string    `json:"learnings"`
	Improvements string    `json:"improvements"`
	NextGoal     string    `json:"next_goal"`
	Feelings     string    `json:"feelings"`
	ActivityID   *string   `json:"activity_id"`
}

func newActivityView(activity models.Activity) activityView {
	view := activityView{
		ID:        activity.ID,
		Date:      activity.Date,
		Kind:      activity.Kind,
		Location:  activity.Location,
		Notes:     activity.Notes,
		Rating:    activity.Rating,
		CreatedAt: activity.CreatedAt,
		UpdatedAt: activity.UpdatedAt,
	}
	if activity.Match != nil {
		match := newMatchView(*activity.Match)
		view.Match = &match
	}
	if activity.Practice != nil {
		practice := newPracticeView(*activity.Practice)
		view.Practice = &practice
	}
	return view
}

func newMatchView(detail models.MatchDetail) matchView {
	view := matchView{
		ID:          detail.ID,
		ActivityID:  detail.ActivityID,
		Opponent:    detail.Opponent,
		Score:       detail.Score,
		GoalsScored: detail.GoalsScored,
		Assists:     detail.Assists,
		PlayingTime: detail.PlayingTime,
		Performance: detail.Performance,
	}
	if detail.Activity != nil {
		date := detail.Activity.Date
		view.Date = &date
		view.Location = detail.Activity.Location
	}
	return view
}

func newPracticeView(detail models.PracticeDetail) practiceView {
	view := practiceView{
		ID:         detail.ID,
		ActivityID: detail.ActivityID,
		Focus:      detail.Focus,
		Duration:   detail.Duration,
		Intensity:  detail.Intensity,
		Learnings:  detail.Learnings,
	}
	if detail.Activity != nil {
		date := detail.Activity.Date
		view.Date = &date
		view.Location = detail.Activity.Location
	}
	return view
}

func newDetailView(detail services.Detail) detailView {
	view := detailView{Kind: detail.Kind}
	if detail.Match != nil {
		match := newMatchView(*detail.Match)
		view.Match = &match
	}
	if detail.Practice != nil {
		practice := newPracticeView(*detail.Practice)
		view.Practice = &practice
	}
	return view
}

func newGoalView(goal models.Goal) goalView {
	return goalView{
		ID:           goal.ID,
		Title:        goal.Title,
		Description:  goal.Description,
		Deadline:     goal.Deadline,
		IsCompleted:  goal.IsCompleted,
		Progress:     goal.Progress,
		CreationDate: goal.CreationDate,
		UpdatedAt:    goal.UpdatedAt,
	}
}

func newReflectionView(reflection models.Reflection) reflectionView {
	return reflectionView{
		ID:           reflection.ID,
		Date:         reflection.Date,
		Mood:         reflection.Mood,
		Successes:    reflection.Successes,
		Challenges:   reflection.Challenges,
		Learnings:    reflection.Learnings,
		Improvements: reflection.Improvements,
		NextGoal:     reflection.NextGoal,
		Feelings:     reflection.Feelings,
		ActivityID:   reflection.ActivityID,
	}
}

func mapViews[T any, V any](items []T, convert func(T) V) []V {
	result := make([]V, 0, len(items))
	for _, item := range items {
		result = append(result, convert(item))
	}
	return result
}
