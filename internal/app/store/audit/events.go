// internal/app/store/audit/events.go
package audit

var authEvents = []string{
	EventLoginSuccess,
	EventLoginFailedUserNotFound,
	EventLoginFailedWrongPassword,
	EventLoginFailedUserDisabled,
	EventLoginFailedRateLimit,
	EventLogout,
	EventAccountCreated,
}

var adminEvents = []string{
	EventResourceCreated,
	EventResourceUpdated,
	EventResourceDeleted,
	EventSubmissionApproved,
	EventSubmissionRejected,
	EventSubmissionFinalized,
}

var publicEvents = []string{
	EventSubmissionReceived,
}

var eventLabels = map[string]string{
	EventLoginSuccess:             "Signed in",
	EventLoginFailedUserNotFound:  "Sign-in failed (unknown email)",
	EventLoginFailedWrongPassword: "Sign-in failed (wrong password)",
	EventLoginFailedUserDisabled:  "Sign-in failed (account disabled)",
	EventLoginFailedRateLimit:     "Sign-in throttled",
	EventLogout:                   "Signed out",
	EventAccountCreated:           "Account created",
	EventResourceCreated:          "Resource created",
	EventResourceUpdated:          "Resource updated",
	EventResourceDeleted:          "Resource deleted",
	EventSubmissionApproved:       "Submission approved",
	EventSubmissionRejected:       "Submission rejected",
	EventSubmissionFinalized:      "Approval finalized",
	EventSubmissionReceived:       "Submission received",
}

// EventTypes lists the event types recorded under category. An empty
// category returns every type.
func EventTypes(category string) []string {
	switch category {
	case CategoryAuth:
		return authEvents
	case CategoryAdmin:
		return adminEvents
	case CategoryPublic:
		return publicEvents
	case "":
		all := make([]string, 0, len(authEvents)+len(adminEvents)+len(publicEvents))
		all = append(all, authEvents...)
		all = append(all, adminEvents...)
		return append(all, publicEvents...)
	}
	return nil
}

// EventLabel returns a display name for an event type, or the type itself
// when it has none.
func EventLabel(eventType string) string {
	if l, ok := eventLabels[eventType]; ok {
		return l
	}
	return eventType
}
