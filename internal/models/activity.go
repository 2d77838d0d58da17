package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	KindMatch    = "match"
	KindPractice = "practice"
)

type Activity struct {
	ID        string          `gorm:"primaryKey"`
	Date      time.Time       `gorm:"not null;index"`
	Kind      string          `gorm:"not null"`
	Location  string          `gorm:"not null"`
	Notes     string          `gorm:"not null;default:''"`
	Rating    int             `gorm:"not null;default:3"`
	Match     *MatchDetail    `gorm:"foreignKey:ActivityID;constraint:OnDelete:CASCADE"`
	Practice  *PracticeDetail `gorm:"foreignKey:ActivityID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (activity *Activity) BeforeCreate(_ *gorm.DB) error {
	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}
	return nil
}

func IsKnownKind(kind string) bool {
	return kind == KindMatch || kind == KindPractice
}
