package db

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Page bounds one slice of an ordered listing.
type Page struct {
	Offset int
	Limit  int
}

type ActivityFilter struct {
	Kind      string
	From      *time.Time
	To        *time.Time
	Search    string
	OrderBy   string
	Ascending bool
}

type DetailFilter struct {
	From      *time.Time
	To        *time.Time
	Search    string
	Ascending bool
}

type GoalFilter struct {
	Completed *bool
	DueBefore *time.Time
	Search    string
	OrderBy   string
	Ascending bool
}

type ReflectionFilter struct {
	ActivityID string
	From       *time.Time
	To         *time.Time
	MinMood    int
	Ascending  bool
}

func applyPage(query *gorm.DB, page Page) *gorm.DB {
	if page.Offset > 0 {
		query = query.Offset(page.Offset)
	}
	if page.Limit > 0 {
		query = query.Limit(page.Limit)
	}
	return query
}

func applyDateRange(query *gorm.DB, column string, from *time.Time, to *time.Time) *gorm.DB {
	if from != nil {
		query = query.Where(column+" >= ?", from.UTC())
	}
	if to != nil {
		query = query.Where(column+" < ?", to.UTC())
	}
	return query
}

func likePattern(search string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.TrimSpace(search))
	return "%" + escaped + "%"
}

func direction(ascending bool) string {
	if ascending {
		return "ASC"
	}
	return "DESC"
}

// orderColumn maps a requested sort key onto a whitelisted column, falling
// back when the key is unknown.
func orderColumn(requested string, allowed map[string]string, fallback string) string {
	if column, ok := allowed[strings.ToLower(strings.TrimSpace(requested))]; ok {
		return column
	}
	return fallback
}
