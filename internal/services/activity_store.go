package services

import (
	"context"

	"github.com/terraincognita07/pitchlog/internal/models"
)

// Detail is the kind-specific payload an activity owns. Exactly one of
// Match or Practice is set, matching Kind.
type Detail struct {
	Kind     string
	Match    *models.MatchDetail
	Practice *models.PracticeDetail
}

func (store *EntityStore) GetActivity(ctx context.Context, id string) (models.Activity, error) {
	activity, found, err := store.activities.FindByID(ctx, id)
	if err != nil {
		return models.Activity{}, storageError("load activity", err)
	}
	if !found {
		return models.Activity{}, notFound(EntityActivity, id)
	}
	return activity, nil
}

func (store *EntityStore) InsertActivity(ctx context.Context, input ActivityInput) (string, error) {
	return store.CreateActivityWithDetail(ctx, input, nil, nil)
}

// CreateActivityWithDetail inserts an activity and its optional detail in a
// single commit. The detail must match the activity kind.
func (store *EntityStore) CreateActivityWithDetail(ctx context.Context, input ActivityInput, match *MatchInput, practice *PracticeInput) (string, error) {
	normalized, err := NormalizeActivityInput(input)
	if err != nil {
		return "", err
	}
	if match != nil && practice != nil {
		return "", invalid("detail", ReasonKindMismatch)
	}

	now := store.timestamp()
	activity := models.Activity{
		Date:      normalized.Date,
		Kind:      normalized.Kind,
		Location:  normalized.Location,
		Notes:     normalized.Notes,
		Rating:    normalized.Rating,
		CreatedAt: now,
		UpdatedAt: now,
	}

	switch {
	case match != nil:
		if normalized.Kind != models.KindMatch {
			return "", invalid("detail", ReasonKindMismatch)
		}
		detail, err := NormalizeMatchInput(*match)
		if err != nil {
			return "", err
		}
		activity.Match = matchDetailFromInput("", detail)
	case practice != nil:
		if normalized.Kind != models.KindPractice {
			return "", invalid("detail", ReasonKindMismatch)
		}
		detail, err := NormalizePracticeInput(*practice)
		if err != nil {
			return "", err
		}
		activity.Practice = practiceDetailFromInput("", detail)
	}

	if err := store.activities.Create(ctx, &activity); err != nil {
		return "", storageError("insert activity", err)
	}
	return activity.ID, nil
}

func (store *EntityStore) UpdateActivity(ctx context.Context, id string, input ActivityInput) error {
	normalized, err := NormalizeActivityInput(input)
	if err != nil {
		return err
	}

	existing, err := store.GetActivity(ctx, id)
	if err != nil {
		return err
	}
	if owned := ownedDetailKind(existing); owned != "" && owned != normalized.Kind {
		return invalid("kind", ReasonKindMismatch)
	}

	existing.Date = normalized.Date
	existing.Kind = normalized.Kind
	existing.Location = normalized.Location
	existing.Notes = normalized.Notes
	existing.Rating = normalized.Rating
	existing.UpdatedAt = store.timestamp()

	updated, err := store.activities.Update(ctx, &existing)
	if err != nil {
		return storageError("update activity", err)
	}
	if !updated {
		return notFound(EntityActivity, id)
	}
	return nil
}

// DeleteActivity removes the activity and the detail it owns in one commit.
func (store *EntityStore) DeleteActivity(ctx context.Context, id string) error {
	deleted, err := store.activities.Delete(ctx, id)
	if err != nil {
		return storageError("delete activity", err)
	}
	if !deleted {
		return notFound(EntityActivity, id)
	}
	return nil
}

// JoinDetail is the one authoritative way to reach an activity's detail: it
// walks the relationship from the activity row. An unknown activity, or one
// without a detail of its own kind, yields found == false.
func (store *EntityStore) JoinDetail(ctx context.Context, activityID string) (Detail, bool, error) {
	activity, found, err := store.activities.FindByID(ctx, activityID)
	if err != nil {
		return Detail{}, false, storageError("join detail", err)
	}
	if !found {
		return Detail{}, false, nil
	}
	return detailOf(activity)
}

// FindMatchByActivityID is the id-keyed lookup for match details. It is
// derived from JoinDetail so both paths always return the same row.
func (store *EntityStore) FindMatchByActivityID(ctx context.Context, activityID string) (models.MatchDetail, bool, error) {
	detail, found, err := store.JoinDetail(ctx, activityID)
	if err != nil || !found || detail.Match == nil {
		return models.MatchDetail{}, false, err
	}
	return *detail.Match, true, nil
}

func (store *EntityStore) FindPracticeByActivityID(ctx context.Context, activityID string) (models.PracticeDetail, bool, error) {
	detail, found, err := store.JoinDetail(ctx, activityID)
	if err != nil || !found || detail.Practice == nil {
		return models.PracticeDetail{}, false, err
	}
	return *detail.Practice, true, nil
}

func (store *EntityStore) InsertMatchDetail(ctx context.Context, activityID string, input MatchInput) (string, error) {
	normalized, err := NormalizeMatchInput(input)
	if err != nil {
		return "", err
	}
	if _, err := store.detailParent(ctx, activityID, models.KindMatch, true); err != nil {
		return "", err
	}

	detail := matchDetailFromInput(activityID, normalized)
	if err := store.matches.Create(ctx, detail); err != nil {
		return "", storageError("insert match detail", err)
	}
	return detail.ID, nil
}

func (store *EntityStore) UpdateMatchDetail(ctx context.Context, activityID string, input MatchInput) error {
	normalized, err := NormalizeMatchInput(input)
	if err != nil {
		return err
	}
	if _, err := store.detailParent(ctx, activityID, models.KindMatch, false); err != nil {
		return err
	}

	updated, err := store.matches.UpdateByActivityID(ctx, matchDetailFromInput(activityID, normalized))
	if err != nil {
		return storageError("update match detail", err)
	}
	if !updated {
		return notFound(EntityMatch, activityID)
	}
	return nil
}

// SaveMatchDetail inserts the match detail when the activity has none yet and
// updates it otherwise.
func (store *EntityStore) SaveMatchDetail(ctx context.Context, activityID string, input MatchInput) (string, error) {
	existing, found, err := store.FindMatchByActivityID(ctx, activityID)
	if err != nil {
		return "", err
	}
	if !found {
		return store.InsertMatchDetail(ctx, activityID, input)
	}
	if err := store.UpdateMatchDetail(ctx, activityID, input); err != nil {
		return "", err
	}
	return existing.ID, nil
}

func (store *EntityStore) InsertPracticeDetail(ctx context.Context, activityID string, input PracticeInput) (string, error) {
	normalized, err := NormalizePracticeInput(input)
	if err != nil {
		return "", err
	}
	if _, err := store.detailParent(ctx, activityID, models.KindPractice, true); err != nil {
		return "", err
	}

	detail := practiceDetailFromInput(activityID, normalized)
	if err := store.practices.Create(ctx, detail); err != nil {
		return "", storageError("insert practice detail", err)
	}
	return detail.ID, nil
}

func (store *EntityStore) UpdatePracticeDetail(ctx context.Context, activityID string, input PracticeInput) error {
	normalized, err := NormalizePracticeInput(input)
	if err != nil {
		return err
	}
	if _, err := store.detailParent(ctx, activityID, models.KindPractice, false); err != nil {
		return err
	}

	updated, err := store.practices.UpdateByActivityID(ctx, practiceDetailFromInput(activityID, normalized))
	if err != nil {
		return storageError("update practice detail", err)
	}
	if !updated {
		return notFound(EntityPractice, activityID)
	}
	return nil
}

func (store *EntityStore) SavePracticeDetail(ctx context.Context, activityID string, input PracticeInput) (string, error) {
	existing, found, err := store.FindPracticeByActivityID(ctx, activityID)
	if err != nil {
		return "", err
	}
	if !found {
		return store.InsertPracticeDetail(ctx, activityID, input)
	}
	if err := store.UpdatePracticeDetail(ctx, activityID, input); err != nil {
		return "", err
	}
	return existing.ID, nil
}

// detailParent loads the activity a detail attaches to and checks the kind
// agreement. With forInsert set it also rejects an activity that already
// owns a detail.
func (store *EntityStore) detailParent(ctx context.Context, activityID string, kind string, forInsert bool) (models.Activity, error) {
	activity, err := store.GetActivity(ctx, activityID)
	if err != nil {
		return models.Activity{}, err
	}
	if activity.Kind != kind {
		return models.Activity{}, invalid("activity_id", ReasonKindMismatch)
	}
	if forInsert && ownedDetailKind(activity) != "" {
		return models.Activity{}, invalid("activity_id", ReasonDetailExists)
	}
	return activity, nil
}

func detailOf(activity models.Activity) (Detail, bool, error) {
	switch activity.Kind {
	case models.KindMatch:
		if activity.Match != nil {
			return Detail{Kind: models.KindMatch, Match: activity.Match}, true, nil
		}
	case models.KindPractice:
		if activity.Practice != nil {
			return Detail{Kind: models.KindPractice, Practice: activity.Practice}, true, nil
		}
	}
	return Detail{}, false, nil
}

func ownedDetailKind(activity models.Activity) string {
	switch {
	case activity.Match != nil:
		return models.KindMatch
	case activity.Practice != nil:
		return models.KindPractice
	default:
		return ""
	}
}

func matchDetailFromInput(activityID string, input MatchInput) *models.MatchDetail {
	return &models.MatchDetail{
		ActivityID:  activityID,
		Opponent:    input.Opponent,
		Score:       input.Score,
		GoalsScored: input.GoalsScored,
		Assists:     input.Assists,
		PlayingTime: input.PlayingTime,
		Performance: input.Performance,
	}
}

func practiceDetailFromInput(activityID string, input PracticeInput) *models.PracticeDetail {
	return &models.PracticeDetail{
		ActivityID: activityID,
		Focus:      input.Focus,
		Duration:   input.Duration,
		Intensity:  input.Intensity,
		Learnings:  input.Learnings,
	}
}
