package services

import (
	"context"

	"github.com/terraincognita07/pitchlog/internal/models"
)

func (store *EntityStore) GetGoal(ctx context.Context, id string) (models.Goal, error) {
	goal, found, err := store.goals.FindByID(ctx, id)
	if err != nil {
		return models.Goal{}, storageError("load goal", err)
	}
	if !found {
		return models.Goal{}, notFound(EntityGoal, id)
	}
	return goal, nil
}

func (store *EntityStore) InsertGoal(ctx context.Context, input GoalInput) (string, error) {
	normalized, err := NormalizeGoalInput(input)
	if err != nil {
		return "", err
	}

	now := store.timestamp()
	goal := models.Goal{
		Title:        normalized.Title,
		Description:  normalized.Description,
		Deadline:     normalized.Deadline,
		IsCompleted:  normalized.IsCompleted,
		Progress:     normalized.Progress,
		CreationDate: now,
		UpdatedAt:    now,
	}
	if err := store.goals.Create(ctx, &goal); err != nil {
		return "", storageError("insert goal", err)
	}
	return goal.ID, nil
}

func (store *EntityStore) UpdateGoal(ctx context.Context, id string, input GoalInput) error {
	normalized, err := NormalizeGoalInput(input)
	if err != nil {
		return err
	}

	goal := models.Goal{
		ID:          id,
		Title:       normalized.Title,
		Description: normalized.Description,
		Deadline:    normalized.Deadline,
		IsCompleted: normalized.IsCompleted,
		Progress:    normalized.Progress,
	}
	updated, err := store.goals.Update(ctx, &goal)
	if err != nil {
		return storageError("update goal", err)
	}
	if !updated {
		return notFound(EntityGoal, id)
	}
	return nil
}

// UpdateGoalProgress is the slider path: only progress changes, clamped to
// [0, 100].
func (store *EntityStore) UpdateGoalProgress(ctx context.Context, id string, progress int) error {
	updated, err := store.goals.UpdateProgress(ctx, id, ClampProgress(progress))
	if err != nil {
		return storageError("update goal progress", err)
	}
	if !updated {
		return notFound(EntityGoal, id)
	}
	return nil
}

func (store *EntityStore) DeleteGoal(ctx context.Context, id string) error {
	deleted, err := store.goals.Delete(ctx, id)
	if err != nil {
		return storageError("delete goal", err)
	}
	if !deleted {
		return notFound(EntityGoal, id)
	}
	return nil
}
