package db

import (
	"context"
	"time"

	"github.com/terraincognita07/pitchlog/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository struct {
	database *gorm.DB
}

func NewSettingRepository(database *gorm.DB) *SettingRepository {
	return &SettingRepository{database: database}
}

func (repo *SettingRepository) Get(ctx context.Context, key string) (string, bool, error) {
	setting := models.Setting{}
	result := repo.database.WithContext(ctx).Where("key = ?", key).Limit(1).Find(&setting)
	if result.Error != nil {
		return "", false, result.Error
	}
	if result.RowsAffected == 0 {
		return "", false, nil
	}
	return setting.Value, true, nil
}

func (repo *SettingRepository) Put(ctx context.Context, key string, value string) error {
	setting := models.Setting{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return repo.database.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
}
