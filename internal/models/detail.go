package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MatchDetail struct {
	ID          string    `gorm:"primaryKey"`
	ActivityID  string    `gorm:"not null;uniqueIndex"`
	Activity    *Activity `gorm:"foreignKey:ActivityID;references:ID"`
	Opponent    string    `gorm:"not null"`
	Score       string    `gorm:"not null"`
	GoalsScored int       `gorm:"not null;default:0"`
	Assists     int       `gorm:"not null;default:0"`
	PlayingTime int       `gorm:"not null;default:0"`
	Performance int       `gorm:"not null;default:5"`
}

func (detail *MatchDetail) BeforeCreate(_ *gorm.DB) error {
	if detail.ID == "" {
		detail.ID = uuid.NewString()
	}
	return nil
}

type PracticeDetail struct {
	ID         string    `gorm:"primaryKey"`
	ActivityID string    `gorm:"not null;uniqueIndex"`
	Activity   *Activity `gorm:"foreignKey:ActivityID;references:ID"`
	Focus      string    `gorm:"not null"`
	Duration   int       `gorm:"not null;default:0"`
	Intensity  int       `gorm:"not null;default:3"`
	Learnings  string    `gorm:"not null;default:''"`
}

func (detail *PracticeDetail) BeforeCreate(_ *gorm.DB) error {
	if detail.ID == "" {
		detail.ID = uuid.NewString()
	}
	return nil
}
