package reminders

import "errors"

var (
	ErrInvalidTime      = errors.New("reminder trigger time is not in the future")
	ErrOrdering         = errors.New("reminder trigger time is after the activity")
	ErrPermissionDenied = errors.New("notification permission not granted")
)
