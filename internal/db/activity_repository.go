package db

import (
	"context"

	"github.com/terraincognita07/pitchlog/internal/models"
	"gorm.io/gorm"
)

var activityOrderColumns = map[string]string{
	"date":     "activities.date",
	"rating":   "activities.rating",
	"location": "activities.location",
	"created":  "activities.created_at",
}

type ActivityRepository struct {
	database *gorm.DB
}

func NewActivityRepository(database *gorm.DB) *ActivityRepository {
	return &ActivityRepository{database: database}
}

// FindByID loads the activity together with whichever detail row it owns.
func (repo *ActivityRepository) FindByID(ctx context.Context, id string) (models.Activity, bool, error) {
	activity := models.Activity{}
	result := repo.database.WithContext(ctx).
		Preload("Match").
		Preload("Practice").
		Where("id = ?", id).
		Limit(1).
		Find(&activity)
	if result.Error != nil {
		return models.Activity{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Activity{}, false, nil
	}
	return activity, true, nil
}

// Create inserts the activity and, when set, its detail in one transaction.
func (repo *ActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	return repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(activity).Error
	})
}

func (repo *ActivityRepository) Update(ctx context.Context, activity *models.Activity) (bool, error) {
	result := repo.database.WithContext(ctx).
		Model(&models.Activity{}).
		Where("id = ?", activity.ID).
		Updates(map[string]any{
			"date":       activity.Date.UTC(),
			"kind":       activity.Kind,
			"location":   activity.Location,
			"notes":      activity.Notes,
			"rating":     activity.Rating,
			"updated_at": activity.UpdatedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete removes the activity, its detail row and detaches reflections that
// pointed at it. All three happen in one transaction.
func (repo *ActivityRepository) Delete(ctx context.Context, id string) (bool, error) {
	deleted := false
	err := repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("activity_id = ?", id).Delete(&models.MatchDetail{}).Error; err != nil {
			return err
		}
		if err := tx.Where("activity_id = ?", id).Delete(&models.PracticeDetail{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Reflection{}).
			Where("activity_id = ?", id).
			Update("activity_id", gorm.Expr("NULL")).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&models.Activity{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (repo *ActivityRepository) List(ctx context.Context, filter ActivityFilter, page Page) ([]models.Activity, error) {
	query := repo.database.WithContext(ctx).
		Model(&models.Activity{}).
		Preload("Match").
		Preload("Practice")
	if filter.Kind != "" {
		query = query.Where("activities.kind = ?", filter.Kind)
	}
	query = applyDateRange(query, "activities.date", filter.From, filter.To)
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(`(activities.location LIKE ? ESCAPE '\' OR activities.notes LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	column := orderColumn(filter.OrderBy, activityOrderColumns, "activities.date")
	query = query.Order(column + " " + direction(filter.Ascending)).Order("activities.id ASC")

	activities := make([]models.Activity, 0)
	if err := applyPage(query, page).Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

func (repo *ActivityRepository) ListIDs(ctx context.Context) ([]string, error) {
	ids := make([]string, 0)
	if err := repo.database.WithContext(ctx).Model(&models.Activity{}).Order("date DESC").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
