package services

import (
	"context"
	"iter"
	"time"

	"github.com/terraincognita07/pitchlog/internal/db"
	"github.com/terraincognita07/pitchlog/internal/models"
)

const fetchBatchSize = 64

type SortDirection int

const (
	SortDefault SortDirection = iota
	SortAscending
	SortDescending
)

// SortOrder overrides a listing's default ordering. A nil *SortOrder, an
// empty Key or SortDefault keeps that part of the entity's default.
type SortOrder struct {
	Key       string
	Direction SortDirection
}

func (order *SortOrder) key() string {
	if order == nil {
		return ""
	}
	return order.Key
}

func (order *SortOrder) ascending(fallback bool) bool {
	if order == nil {
		return fallback
	}
	switch order.Direction {
	case SortAscending:
		return true
	case SortDescending:
		return false
	default:
		return fallback
	}
}

type ActivityQuery struct {
	Kind   string
	From   *time.Time
	To     *time.Time
	Search string
	Sort   *SortOrder
	Limit  int
	Where  func(models.Activity) bool
}

type DetailQuery[T any] struct {
	From   *time.Time
	To     *time.Time
	Search string
	Sort   *SortOrder
	Limit  int
	Where  func(T) bool
}

type GoalQuery struct {
	Completed *bool
	DueBefore *time.Time
	Search    string
	Sort      *SortOrder
	Limit     int
	Where     func(models.Goal) bool
}

type ReflectionQuery struct {
	ActivityID string
	From       *time.Time
	To         *time.Time
	MinMood    int
	Sort       *SortOrder
	Limit      int
	Where      func(models.Reflection) bool
}

// FetchActivities streams activities newest first by default. Each range over
// the returned sequence runs the query again.
func (store *EntityStore) FetchActivities(ctx context.Context, query ActivityQuery) iter.Seq2[models.Activity, error] {
	filter := db.ActivityFilter{
		Kind:      query.Kind,
		From:      query.From,
		To:        query.To,
		Search:    query.Search,
		OrderBy:   query.Sort.key(),
		Ascending: query.Sort.ascending(false),
	}
	return pagedSequence(ctx, "fetch activities", query.Limit, query.Where, func(ctx context.Context, page db.Page) ([]models.Activity, error) {
		return store.activities.List(ctx, filter, page)
	})
}

// FetchMatches streams match details ordered by their activity's date.
func (store *EntityStore) FetchMatches(ctx context.Context, query DetailQuery[models.MatchDetail]) iter.Seq2[models.MatchDetail, error] {
	filter := detailFilter(query.From, query.To, query.Search, query.Sort)
	return pagedSequence(ctx, "fetch matches", query.Limit, query.Where, func(ctx context.Context, page db.Page) ([]models.MatchDetail, error) {
		return store.matches.List(ctx, filter, page)
	})
}

func (store *EntityStore) FetchPractices(ctx context.Context, query DetailQuery[models.PracticeDetail]) iter.Seq2[models.PracticeDetail, error] {
	filter := detailFilter(query.From, query.To, query.Search, query.Sort)
	return pagedSequence(ctx, "fetch practices", query.Limit, query.Where, func(ctx context.Context, page db.Page) ([]models.PracticeDetail, error) {
		return store.practices.List(ctx, filter, page)
	})
}

// FetchGoals streams goals soonest deadline first by default.
func (store *EntityStore) FetchGoals(ctx context.Context, query GoalQuery) iter.Seq2[models.Goal, error] {
	filter := db.GoalFilter{
		Completed: query.Completed,
		DueBefore: query.DueBefore,
		Search:    query.Search,
		OrderBy:   query.Sort.key(),
		Ascending: query.Sort.ascending(true),
	}
	return pagedSequence(ctx, "fetch goals", query.Limit, query.Where, func(ctx context.Context, page db.Page) ([]models.Goal, error) {
		return store.goals.List(ctx, filter, page)
	})
}

func (store *EntityStore) FetchReflections(ctx context.Context, query ReflectionQuery) iter.Seq2[models.Reflection, error] {
	filter := db.ReflectionFilter{
		ActivityID: query.ActivityID,
		From:       query.From,
		To:         query.To,
		MinMood:    query.MinMood,
		Ascending:  query.Sort.ascending(false),
	}
	return pagedSequence(ctx, "fetch reflections", query.Limit, query.Where, func(ctx context.Context, page db.Page) ([]models.Reflection, error) {
		return store.reflections.List(ctx, filter, page)
	})
}

// Collect drains a fetch sequence into a slice, stopping at the first error.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	items := make([]T, 0)
	for item, err := range seq {
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func detailFilter(from *time.Time, to *time.Time, search string, sort *SortOrder) db.DetailFilter {
	return db.DetailFilter{From: from, To: to, Search: search, Ascending: sort.ascending(false)}
}

type pageLoader[T any] func(ctx context.Context, page db.Page) ([]T, error)

// pagedSequence pulls rows in fixed batches only as the consumer asks for
// them. The predicate runs in memory after the SQL filter, so limit counts
// rows that passed it.
func pagedSequence[T any](ctx context.Context, op string, limit int, where func(T) bool, load pageLoader[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		emitted := 0
		offset := 0
		for {
			if err := ctx.Err(); err != nil {
				yield(zero, err)
				return
			}

			batch, err := load(ctx, db.Page{Offset: offset, Limit: fetchBatchSize})
			if err != nil {
				yield(zero, storageError(op, err))
				return
			}
			for _, item := range batch {
				if where != nil && !where(item) {
					continue
				}
				if !yield(item, nil) {
					return
				}
				emitted++
				if limit > 0 && emitted >= limit {
					return
				}
			}
			if len(batch) < fetchBatchSize {
				return
			}
			offset += len(batch)
		}
	}
}
