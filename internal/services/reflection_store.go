package services

import (
	"context"

	"github.com/terraincognita07/pitchlog/internal/models"
)

func (store *EntityStore) GetReflection(ctx context.Context, id string) (models.Reflection, error) {
	reflection, found, err := store.reflections.FindByID(ctx, id)
	if err != nil {
		return models.Reflection{}, storageError("load reflection", err)
	}
	if !found {
		return models.Reflection{}, notFound(EntityReflection, id)
	}
	return reflection, nil
}

func (store *EntityStore) InsertReflection(ctx context.Context, input ReflectionInput) (string, error) {
	reflection, err := store.reflectionFromInput(ctx, input)
	if err != nil {
		return "", err
	}

	now := store.timestamp()
	reflection.CreatedAt = now
	reflection.UpdatedAt = now
	if err := store.reflections.Create(ctx, &reflection); err != nil {
		return "", storageError("insert reflection", err)
	}
	return reflection.ID, nil
}

func (store *EntityStore) UpdateReflection(ctx context.Context, id string, input ReflectionInput) error {
	reflection, err := store.reflectionFromInput(ctx, input)
	if err != nil {
		return err
	}

	reflection.ID = id
	updated, err := store.reflections.Update(ctx, &reflection)
	if err != nil {
		return storageError("update reflection", err)
	}
	if !updated {
		return notFound(EntityReflection, id)
	}
	return nil
}

func (store *EntityStore) DeleteReflection(ctx context.Context, id string) error {
	deleted, err := store.reflections.Delete(ctx, id)
	if err != nil {
		return storageError("delete reflection", err)
	}
	if !deleted {
		return notFound(EntityReflection, id)
	}
	return nil
}

func (store *EntityStore) reflectionFromInput(ctx context.Context, input ReflectionInput) (models.Reflection, error) {
	normalized, err := NormalizeReflectionInput(input)
	if err != nil {
		return models.Reflection{}, err
	}

	reflection := models.Reflection{
		Date:         normalized.Date,
		Mood:         normalized.Mood,
		Successes:    normalized.Successes,
		Challenges:   normalized.Challenges,
		Learnings:    normalized.Learnings,
		Improvements: normalized.Improvements,
		NextGoal:     normalized.NextGoal,
		Feelings:     normalized.Feelings,
	}
	if normalized.ActivityID != "" {
		if _, err := store.GetActivity(ctx, normalized.ActivityID); err != nil {
			return models.Reflection{}, err
		}
		activityID := normalized.ActivityID
		reflection.ActivityID = &activityID
	}
	return reflection, nil
}
