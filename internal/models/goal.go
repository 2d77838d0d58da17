package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Goal struct {
	ID           string    `gorm:"primaryKey"`
	Title        string    `gorm:"not null"`
	Description  string    `gorm:"not null;default:''"`
	Deadline     time.Time `gorm:"not null;index"`
	IsCompleted  bool      `gorm:"not null;default:false"`
	Progress     int       `gorm:"not null;default:0"`
	CreationDate time.Time `gorm:"not null"`
	UpdatedAt    time.Time
}

func (goal *Goal) BeforeCreate(_ *gorm.DB) error {
	if goal.ID == "" {
		goal.ID = uuid.NewString()
	}
	return nil
}
