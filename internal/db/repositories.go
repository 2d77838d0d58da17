package db

import "gorm.io/gorm"

type Repositories struct {
	Activities  *ActivityRepository
	Matches     *MatchDetailRepository
	Practices   *PracticeDetailRepository
	Goals       *GoalRepository
	Reflections *ReflectionRepository
	Settings    *SettingRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Activities:  NewActivityRepository(database),
		Matches:     NewMatchDetailRepository(database),
		Practices:   NewPracticeDetailRepository(database),
		Goals:       NewGoalRepository(database),
		Reflections: NewReflectionRepository(database),
		Settings:    NewSettingRepository(database),
	}
}
