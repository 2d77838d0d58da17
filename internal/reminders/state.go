package reminders

import "time"

type Status int

const (
	StatusNoReminder Status = iota
	StatusPending
	StatusCancelled
	StatusFired
)

func (status Status) String() string {
	switch status {
	case StatusPending:
		return "pending"
	case StatusCancelled:
		return "cancelled"
	case StatusFired:
		return "fired"
	default:
		return "none"
	}
}

func (status Status) MarshalText() ([]byte, error) {
	return []byte(status.String()), nil
}

// State is where an activity's reminder stands. TriggerAt is set only while
// Pending.
type State struct {
	Status    Status    `json:"status"`
	TriggerAt time.Time `json:"trigger_at,omitzero"`
}

// Reminder is a pending entry that belongs to this journal.
type Reminder struct {
	ActivityID string    `json:"activity_id"`
	Identifier string    `json:"identifier"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	TriggerAt  time.Time `json:"trigger_at"`
}
