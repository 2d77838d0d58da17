package services

import (
	"context"
	"time"

	"github.com/terraincognita07/pitchlog/internal/db"
	"github.com/terraincognita07/pitchlog/internal/models"
)

const (
	EntityActivity   = "activity"
	EntityMatch      = "match_detail"
	EntityPractice   = "practice_detail"
	EntityGoal       = "goal"
	EntityReflection = "reflection"
)

type ActivityRepository interface {
	FindByID(ctx context.Context, id string) (models.Activity, bool, error)
	Create(ctx context.Context, activity *models.Activity) error
	Update(ctx context.Context, activity *models.Activity) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, filter db.ActivityFilter, page db.Page) ([]models.Activity, error)
}

type MatchDetailRepository interface {
	Create(ctx context.Context, detail *models.MatchDetail) error
	UpdateByActivityID(ctx context.Context, detail *models.MatchDetail) (bool, error)
	List(ctx context.Context, filter db.DetailFilter, page db.Page) ([]models.MatchDetail, error)
}

type PracticeDetailRepository interface {
	Create(ctx context.Context, detail *models.PracticeDetail) error
	UpdateByActivityID(ctx context.Context, detail *models.PracticeDetail) (bool, error)
	List(ctx context.Context, filter db.DetailFilter, page db.Page) ([]models.PracticeDetail, error)
}

type GoalRepository interface {
	FindByID(ctx context.Context, id string) (models.Goal, bool, error)
	Create(ctx context.Context, goal *models.Goal) error
	Update(ctx context.Context, goal *models.Goal) (bool, error)
	UpdateProgress(ctx context.Context, id string, progress int) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, filter db.GoalFilter, page db.Page) ([]models.Goal, error)
}

type ReflectionRepository interface {
	FindByID(ctx context.Context, id string) (models.Reflection, bool, error)
	Create(ctx context.Context, reflection *models.Reflection) error
	Update(ctx context.Context, reflection *models.Reflection) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, filter db.ReflectionFilter, page db.Page) ([]models.Reflection, error)
}

type EntityRepositories struct {
	Activities  ActivityRepository
	Matches     MatchDetailRepository
	Practices   PracticeDetailRepository
	Goals       GoalRepository
	Reflections ReflectionRepository
}

func EntityRepositoriesFrom(repos *db.Repositories) EntityRepositories {
	return EntityRepositories{
		Activities:  repos.Activities,
		Matches:     repos.Matches,
		Practices:   repos.Practices,
		Goals:       repos.Goals,
		Reflections: repos.Reflections,
	}
}

// EntityStore holds the journal's canonical records. Every write validates
// and clamps its input before touching storage, and every storage failure
// comes back as *StorageError.
type EntityStore struct {
	activities  ActivityRepository
	matches     MatchDetailRepository
	practices   PracticeDetailRepository
	goals       GoalRepository
	reflections ReflectionRepository
	now         func() time.Time
}

type EntityStoreOption func(*EntityStore)

func WithClock(now func() time.Time) EntityStoreOption {
	return func(store *EntityStore) {
		if now != nil {
			store.now = now
		}
	}
}

func NewEntityStore(repos EntityRepositories, opts ...EntityStoreOption) *EntityStore {
	store := &EntityStore{
		activities:  repos.Activities,
		matches:     repos.Matches,
		practices:   repos.Practices,
		goals:       repos.Goals,
		reflections: repos.Reflections,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (store *EntityStore) timestamp() time.Time {
	return store.now().UTC().Truncate(time.Second)
}
