package reminders

import "strings"

const IdentifierPrefix = "activity-reminder-"

// Identifier addresses the single reminder an activity may have.
func Identifier(activityID string) string {
	return IdentifierPrefix + activityID
}

// ActivityID reverses Identifier. ok is false for identifiers that follow
// another naming convention.
func ActivityID(identifier string) (string, bool) {
	activityID, ok := strings.CutPrefix(identifier, IdentifierPrefix)
	if !ok || activityID == "" {
		return "", false
	}
	return activityID, true
}
