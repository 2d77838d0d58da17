package journal

import (
	"time"

	"github.com/terraincognita07/pitchlog/internal/services"
)

type EntityKind string

const (
	KindActivity   EntityKind = services.EntityActivity
	KindMatch      EntityKind = services.EntityMatch
	KindPractice   EntityKind = services.EntityPractice
	KindGoal       EntityKind = services.EntityGoal
	KindReflection EntityKind = services.EntityReflection
)

type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// ChangeEvent announces one committed mutation. Seq is strictly increasing
// across the life of a Synchronizer.
type ChangeEvent struct {
	Seq       int64      `json:"seq"`
	Kind      EntityKind `json:"kind"`
	Op        Op         `json:"op"`
	IDs       []string   `json:"ids"`
	Committed time.Time  `json:"committed_at"`
}

// Commit is what Submit hands back once the mutation is durable.
type Commit struct {
	Seq int64
	IDs []string
}
