package db

import (
	"context"

	"github.com/terraincognita07/pitchlog/internal/models"
	"gorm.io/gorm"
)

var goalOrderColumns = map[string]string{
	"deadline": "deadline",
	"progress": "progress",
	"created":  "creation_date",
	"title":    "title",
}

type GoalRepository struct {
	database *gorm.DB
}

func NewGoalRepository(database *gorm.DB) *GoalRepository {
	return &GoalRepository{database: database}
}

func (repo *GoalRepository) FindByID(ctx context.Context, id string) (models.Goal, bool, error) {
	goal := models.Goal{}
	result := repo.database.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&goal)
	if result.Error != nil {
		return models.Goal{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Goal{}, false, nil
	}
	return goal, true, nil
}

func (repo *GoalRepository) Create(ctx context.Context, goal *models.Goal) error {
	return repo.database.WithContext(ctx).Create(goal).Error
}

func (repo *GoalRepository) Update(ctx context.Context, goal *models.Goal) (bool, error) {
	return repo.updateColumns(ctx, goal.ID, map[string]any{
		"title":        goal.Title,
		"description":  goal.Description,
		"deadline":     goal.Deadline.UTC(),
		"is_completed": goal.IsCompleted,
		"progress":     goal.Progress,
	})
}

func (repo *GoalRepository) UpdateProgress(ctx context.Context, id string, progress int) (bool, error) {
	return repo.updateColumns(ctx, id, map[string]any{"progress": progress})
}

func (repo *GoalRepository) updateColumns(ctx context.Context, id string, columns map[string]any) (bool, error) {
	result := repo.database.WithContext(ctx).Model(&models.Goal{}).Where("id = ?", id).Updates(columns)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (repo *GoalRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := repo.database.WithContext(ctx).Where("id = ?", id).Delete(&models.Goal{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (repo *GoalRepository) List(ctx context.Context, filter GoalFilter, page Page) ([]models.Goal, error) {
	query := repo.database.WithContext(ctx).Model(&models.Goal{})
	if filter.Completed != nil {
		query = query.Where("is_completed = ?", *filter.Completed)
	}
	if filter.DueBefore != nil {
		query = query.Where("deadline < ?", filter.DueBefore.UTC())
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(`(title LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	// Goals read soonest-deadline first unless told otherwise.
	column := orderColumn(filter.OrderBy, goalOrderColumns, "deadline")
	query = query.Order(column + " " + direction(filter.Ascending)).Order("id ASC")

	goals := make([]models.Goal, 0)
	if err := applyPage(query, page).Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}
