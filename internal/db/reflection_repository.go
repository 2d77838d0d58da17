package db

import (
	"context"

	"github.com/terraincognita07/pitchlog/internal/models"
	"gorm.io/gorm"
)

type ReflectionRepository struct {
	database *gorm.DB
}

func NewReflectionRepository(database *gorm.DB) *ReflectionRepository {
	return &ReflectionRepository{database: database}
}

func (repo *ReflectionRepository) FindByID(ctx context.Context, id string) (models.Reflection, bool, error) {
	reflection := models.Reflection{}
	result := repo.database.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&reflection)
	if result.Error != nil {
		return models.Reflection{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Reflection{}, false, nil
	}
	return reflection, true, nil
}

func (repo *ReflectionRepository) Create(ctx context.Context, reflection *models.Reflection) error {
	return repo.database.WithContext(ctx).Create(reflection).Error
}

func (repo *ReflectionRepository) Update(ctx context.Context, reflection *models.Reflection) (bool, error) {
	result := repo.database.WithContext(ctx).
		Model(&models.Reflection{}).
		Where("id = ?", reflection.ID).
		Updates(map[string]any{
			"date":         reflection.Date.UTC(),
			"mood":         reflection.Mood,
			"successes":    reflection.Successes,
			"challenges":   reflection.Challenges,
			"learnings":    reflection.Learnings,
			"improvements": reflection.Improvements,
			"next_goal":    reflection.NextGoal,
			"feelings":     reflection.Feelings,
			"activity_id":  reflection.ActivityID,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (repo *ReflectionRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := repo.database.WithContext(ctx).Where("id = ?", id).Delete(&models.Reflection{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (repo *ReflectionRepository) List(ctx context.Context, filter ReflectionFilter, page Page) ([]models.Reflection, error) {
	query := repo.database.WithContext(ctx).Model(&models.Reflection{})
	if filter.ActivityID != "" {
		query = query.Where("activity_id = ?", filter.ActivityID)
	}
	query = applyDateRange(query, "date", filter.From, filter.To)
	if filter.MinMood > 0 {
		query = query.Where("mood >= ?", filter.MinMood)
	}
	query = query.Order("date " + direction(filter.Ascending)).Order("id ASC")

	reflections := make([]models.Reflection, 0)
	if err := applyPage(query, page).Find(&reflections).Error; err != nil {
		return nil, err
	}
	return reflections, nil
}
