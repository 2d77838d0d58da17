package db

import (
	"context"

	"github.com/terraincognita07/pitchlog/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MatchDetailRepository struct {
	database *gorm.DB
}

func NewMatchDetailRepository(database *gorm.DB) *MatchDetailRepository {
	return &MatchDetailRepository{database: database}
}

func (repo *MatchDetailRepository) Create(ctx context.Context, detail *models.MatchDetail) error {
	return repo.database.WithContext(ctx).Omit(clause.Associations).Create(detail).Error
}

func (repo *MatchDetailRepository) UpdateByActivityID(ctx context.Context, detail *models.MatchDetail) (bool, error) {
	result := repo.database.WithContext(ctx).
		Model(&models.MatchDetail{}).
		Where("activity_id = ?", detail.ActivityID).
		Updates(map[string]any{
			"opponent":     detail.Opponent,
			"score":        detail.Score,
			"goals_scored": detail.GoalsScored,
			"assists":      detail.Assists,
			"playing_time": detail.PlayingTime,
			"performance":  detail.Performance,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// List walks match rows through their parent activity so that ordering and
// date filters follow the activity, never a copy of it.
func (repo *MatchDetailRepository) List(ctx context.Context, filter DetailFilter, page Page) ([]models.MatchDetail, error) {
	query := repo.database.WithContext(ctx).
		Model(&models.MatchDetail{}).
		Select("match_details.*").
		Joins("JOIN activities ON activities.id = match_details.activity_id AND activities.kind = ?", models.KindMatch).
		Preload("Activity")
	query = applyDateRange(query, "activities.date", filter.From, filter.To)
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(`(match_details.opponent LIKE ? ESCAPE '\' OR activities.location LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	query = query.Order("activities.date " + direction(filter.Ascending)).Order("match_details.id ASC")

	details := make([]models.MatchDetail, 0)
	if err := applyPage(query, page).Find(&details).Error; err != nil {
		return nil, err
	}
	return details, nil
}

type PracticeDetailRepository struct {
	database *gorm.DB
}

func NewPracticeDetailRepository(database *gorm.DB) *PracticeDetailRepository {
	return &PracticeDetailRepository{database: database}
}

func (repo *PracticeDetailRepository) Create(ctx context.Context, detail *models.PracticeDetail) error {
	return repo.database.WithContext(ctx).Omit(clause.Associations).Create(detail).Error
}

func (repo *PracticeDetailRepository) UpdateByActivityID(ctx context.Context, detail *models.PracticeDetail) (bool, error) {
	result := repo.database.WithContext(ctx).
		Model(&models.PracticeDetail{}).
		Where("activity_id = ?", detail.ActivityID).
		Updates(map[string]any{
			"focus":     detail.Focus,
			"duration":  detail.Duration,
			"intensity": detail.Intensity,
			"learnings": detail.Learnings,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (repo *PracticeDetailRepository) List(ctx context.Context, filter DetailFilter, page Page) ([]models.PracticeDetail, error) {
	query := repo.database.WithContext(ctx).
		Model(&models.PracticeDetail{}).
		Select("practice_details.*").
		Joins("JOIN activities ON activities.id = practice_details.activity_id AND activities.kind = ?", models.KindPractice).
		Preload("Activity")
	query = applyDateRange(query, "activities.date", filter.From, filter.To)
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(`(practice_details.focus LIKE ? ESCAPE '\' OR practice_details.learnings LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	query = query.Order("activities.date " + direction(filter.Ascending)).Order("practice_details.id ASC")

	details := make([]models.PracticeDetail, 0)
	if err := applyPage(query, page).Find(&details).Error; err != nil {
		return nil, err
	}
	return details, nil
}
