package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Reflection struct {
	ID           string    `gorm:"primaryKey"`
	Date         time.Time `gorm:"not null;index"`
	Mood         int       `gorm:"not null;default:3"`
	Successes    string    `gorm:"not null;default:''"`
	Challenges   string    `gorm:"not null;default:''"`
	Learnings    string    `gorm:"not null;default:''"`
	Improvements string    `gorm:"not null;default:''"`
	NextGoal     string    `gorm:"not null;default:''"`
	Feelings     string    `gorm:"not null;default:''"`
	ActivityID   *string   `gorm:"index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (reflection *Reflection) BeforeCreate(_ *gorm.DB) error {
	if reflection.ID == "" {
		reflection.ID = uuid.NewString()
	}
	return nil
}
