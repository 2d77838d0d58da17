package journal

import (
	"context"
	"strings"

	"github.com/terraincognita07/pitchlog/internal/models"
	"github.com/terraincognita07/pitchlog/internal/services"
)

// Mutation is one write waiting for the writer goroutine. Constructors
// validate their input up front, so anything that reaches the queue has
// already passed the field checks that need no storage access.
type Mutation struct {
	kind  EntityKind
	op    Op
	apply func(ctx context.Context, store *services.EntityStore) ([]string, error)
}

func (mutation Mutation) Kind() EntityKind {
	return mutation.kind
}

func (mutation Mutation) Op() Op {
	return mutation.op
}

func CreateActivity(input services.ActivityInput, match *services.MatchInput, practice *services.PracticeInput) (Mutation, error) {
	normalized, err := services.NormalizeActivityInput(input)
	if err != nil {
		return Mutation{}, err
	}
	if match != nil {
		if _, err := services.NormalizeMatchInput(*match); err != nil {
			return Mutation{}, err
		}
	}
	if practice != nil {
		if _, err := services.NormalizePracticeInput(*practice); err != nil {
			return Mutation{}, err
		}
	}
	if (match != nil && normalized.Kind != models.KindMatch) || (practice != nil && normalized.Kind != models.KindPractice) {
		return Mutation{}, &services.ValidationError{Field: "detail", Reason: services.ReasonKindMismatch}
	}

	return Mutation{kind: KindActivity, op: OpInsert, apply: func(ctx context.Context, store *services.EntityStore) ([]string, error) {
		id, err := store.CreateActivityWithDetail(ctx, input, match, practice)
		return []string{id}, err
	}}, nil
}

func UpdateActivity(id string, input services.ActivityInput) (Mutation, error) {
	if err := requireID(id); err != nil {
		return Mutation{}, err
	}
	if _, err := services.NormalizeActivityInput(input); err != nil {
		return Mutation{}, err
	}

	return Mutation{kind: KindActivity, op: OpUpdate, apply: func(ctx context.Context, store *services.EntityStore) ([]string, error) {
		return []string{id}, store.UpdateActivity(ctx, id, input)
	}}, nil
}

// DeleteActivity also removes the owned detail, so views over details must
// listen for activity events too.
func DeleteActivity(id string) (Mutation, error) {
	if err := requireID(id); err != nil {
		return Mutation{}, err
	}

	return Mutation{kind: KindActivity, op: OpDelete, apply: func(ctx context.Context, store *services.EntityStore) ([]string, error) {
		return []string{id}, store.DeleteActivity(ctx, id)
	}}, nil
}

func InsertMatchDetail(activityID string, input services.MatchInput) (Mutation, error) {
	if err := requireID(activityID); err != nil {
		return Mutation{}, err
	}
	if _, err := services.NormalizeMatchInput(input); err != nil {
		return Mutation{}, err
	}

	return Mutation{kind: KindMatch, op: OpInsert, apply: func(ctx context.Context, store *services.EntityStore) ([]string, error) {
		id, err := store.InsertMatchDetail(ctx, activityID, input)
		return []string{id, activityID}, err
	}}, nil
}

// SaveMatchDetail inserts or updates the match detail of an activity, the
// path the edit form takes.
func SaveMatchDetail(activityID string, input services.MatchInput) (Mutation, error) {
	if err := requireID(activityID); err != nil {
		return Mutation{}, err
	}
	if _, err := services.NormalizeMatchInput(input); err != nil {
		return Mutation{}, err
	}

	return Mutation{kind: KindMatch, op: OpUpdate, apply: func(ctx context.Context, store *services.EntityStore) ([]string, error) {
		id, err := store.SaveMatchDetail(ctx, activityID, input)
		return []string{id, activityID}, err
	}}, nil
}

func InsertPracticeDetail(activityID string, input services.PracticeInput) (Mutation, error) {
	if err := requireID(activityID); err != nil {
		return Mutation{}, err
	}
	if _, err := services.NormalizePracticeInput(input); err != nil {
		return Mutation{}, err
	}

	return Mutation{kind: KindPractice, op: OpInsert, apply: func(ctx context.Context, store *services.EntityStore) ([]string, error) {
		id, err := store.InsertPracticeDetail(ctx, activityID, input)
		return []string{id, activityID}, err
	}}, nil
}

func SavePracticeDetail(activityID string, input services.PracticeInput) (Mutation, error) {
	if err := requireID(activityID); err != nil {
		return Mutation{}, err
	}
	if _, err := services.NormalizePracticeInput(input); err != nil {
		return Mutation{}, err
	}

	return Mutation{kind: KindPractice, op: OpUpdate, apply: func(ctx context.Context, store *services.EntityStore) ([]string, error) {
		id, err := store.SavePracticeDetail(ctx, activityID, input)
		return []string{id, activityID}, err
	}}, nil
}

func CreateGoal(input services.GoalInput) (Mutation, error) {
	if _, err := services.NormalizeGoalInput(input); err != nil {
		return Mutation{}, err
	}

	return Mutation{kind: KindGoal, op: OpInsert, apply: func(ctx context.Context, store *services.EntityStore) ([]string, error) {
		id, err := store.InsertGoal(ctx, input)
		return []string{id}, err
	}}, nil
}

func UpdateGoal(id string, input services.GoalInput) (Mutation, error) {
	if err := requireID(id); err != nil {
		return Mutation{}, err
	}
	if _, err := services.NormalizeGoalInput(input); err != nil {
		return Mutation{}, err
	}

	return Mutation{kind: KindGoal, op: OpUpdate, apply: func(ctx context.Context, store *services.EntityStore) ([]string, error) {
		return []string{id}, store.UpdateGoal(ctx, id, input)
	}}, nil
}

// UpdateGoalProgress never fails validation on the value: it is clamped.
func UpdateGoalProgress(id string, progress int) (Mutation, error) {
	if err := requireID(id); err != nil {
		return Mutation{}, err
	}

	return Mutation{kind: KindGoal, op: OpUpdate, apply: func(ctx context.Context, store *services.EntityStore) ([]string, error) {
		return []string{id}, store.UpdateGoalProgress(ctx, id, progress)
	}}, nil
}

func DeleteGoal(id string) (Mutation, error) {
	if err := requireID(id); err != nil {
		return Mutation{}, err
	}

	return Mutation{kind: KindGoal, op: OpDelete, apply: func(ctx context.Context, store *services.EntityStore) ([]string, error) {
		return []string{id}, store.DeleteGoal(ctx, id)
	}}, nil
}

func CreateReflection(input services.ReflectionInput) (Mutation, error) {
	if _, err := services.NormalizeReflectionInput(input); err != nil {
		return Mutation{}, err
	}

	return Mutation{kind: KindReflection, op: OpInsert, apply: func(ctx context.Context, store *services.EntityStore) ([]string, error) {
		id, err := store.InsertReflection(ctx, input)
		return []string{id}, err
	}}, nil
}

func UpdateReflection(id string, input services.ReflectionInput) (Mutation, error) {
	if err := requireID(id); err != nil {
		return Mutation{}, err
	}
	if _, err := services.NormalizeReflectionInput(input); err != nil {
		return Mutation{}, err
	}

	return Mutation{kind: KindReflection, op: OpUpdate, apply: func(ctx context.Context, store *services.EntityStore) ([]string, error) {
		return []string{id}, store.UpdateReflection(ctx, id, input)
	}}, nil
}

func DeleteReflection(id string) (Mutation, error) {
	if err := requireID(id); err != nil {
		return Mutation{}, err
	}

	return Mutation{kind: KindReflection, op: OpDelete, apply: func(ctx context.Context, store *services.EntityStore) ([]string, error) {
		return []string{id}, store.DeleteReflection(ctx, id)
	}}, nil
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return &services.ValidationError{Field: "id", Reason: services.ReasonRequired}
	}
	return nil
}
