package api

import (
	"context"
	"iter"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/pitchlog/internal/journal"
	"github.com/terraincognita07/pitchlog/internal/models"
	"github.com/terraincognita07/pitchlog/internal/services"
)

// Overview keeps the dashboard's read models warm. Each list reloads only
// when a commit touches one of its entity kinds.
type Overview struct {
	activities  *journal.View[[]models.Activity]
	openGoals   *journal.View[[]models.Goal]
	reflections *journal.View[[]models.Reflection]
}

func NewOverview(ctx context.Context, synchronizer *journal.Synchronizer, store *services.EntityStore) (*Overview, error) {
	activities, err := journal.NewListView(ctx, synchronizer, "recent_activities", func(ctx context.Context) iter.Seq2[models.Activity, error] {
		return store.FetchActivities(ctx, services.ActivityQuery{Limit: overviewActivityLimit})
	}, journal.KindActivity, journal.KindMatch, journal.KindPractice)
	if err != nil {
		return nil, err
	}

	open := false
	openGoals, err := journal.NewListView(ctx, synchronizer, "open_goals", func(ctx context.Context) iter.Seq2[models.Goal, error] {
		return store.FetchGoals(ctx, services.GoalQuery{Completed: &open})
	}, journal.KindGoal)
	if err != nil {
		activities.Close()
		return nil, err
	}

	// Deleting an activity detaches its reflections.
	reflections, err := journal.NewListView(ctx, synchronizer, "recent_reflections", func(ctx context.Context) iter.Seq2[models.Reflection, error] {
		return store.FetchReflections(ctx, services.ReflectionQuery{Limit: overviewActivityLimit})
	}, journal.KindReflection, journal.KindActivity)
	if err != nil {
		activities.Close()
		openGoals.Close()
		return nil, err
	}

	return &Overview{activities: activities, openGoals: openGoals, reflections: reflections}, nil
}

func (overview *Overview) Close() {
	overview.activities.Close()
	overview.openGoals.Close()
	overview.reflections.Close()
}

type overviewView struct {
	Activities  []activityView   `json:"activities"`
	OpenGoals   []goalView       `json:"open_goals"`
	Reflections []reflectionView `json:"reflections"`
	Seq         int64            `json:"seq"`
}

// snapshot waits until every list reflects commit after. seq is the oldest
// commit all three are known to include.
func (overview *Overview) snapshot(ctx context.Context, after int64) (overviewView, error) {
	if _, err := overview.activities.WaitForSeq(ctx, after); err != nil {
		return overviewView{}, err
	}
	if _, err := overview.openGoals.WaitForSeq(ctx, after); err != nil {
		return overviewView{}, err
	}
	if _, err := overview.reflections.WaitForSeq(ctx, after); err != nil {
		return overviewView{}, err
	}

	activities, activitiesSeq := overview.activities.Snapshot()
	goals, goalsSeq := overview.openGoals.Snapshot()
	reflections, reflectionsSeq := overview.reflections.Snapshot()
	return overviewView{
		Activities:  mapViews(activities, newActivityView),
		OpenGoals:   mapViews(goals, newGoalView),
		Reflections: mapViews(reflections, newReflectionView),
		Seq:         min(activitiesSeq, goalsSeq, reflectionsSeq),
	}, nil
}

func (handler *Handler) GetOverview(c *fiber.Ctx) error {
	if handler.overview == nil {
		return apiError(c, fiber.StatusServiceUnavailable, "unavailable")
	}
	after, err := parseInt64Query(c, "after")
	if err != nil {
		return handler.writeError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), handler.changesWait)
	defer cancel()
	view, err := handler.overview.snapshot(ctx, after)
	if err != nil {
		return handler.writeError(c, err)
	}
	return c.JSON(view)
}
