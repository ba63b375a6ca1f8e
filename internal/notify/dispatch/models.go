// internal/notify/dispatch/models.go
package dispatch

import "ats-notifications/internal/models"

// SendOptions is the full input to one dispatch call. Callers assemble the
// variable bag and recipient list; the dispatcher owns channel selection.
type SendOptions struct {
	OrgID      string             `json:"orgId"`
	EventCode  string             `json:"eventCode"`
	Recipients []models.Recipient `json:"recipients"`
	Variables  models.Variables   `json:"variables"`

	// ForceEmail/ForceInApp deliver on the named channel even when the org
	// has disabled the event.
	ForceEmail bool `json:"forceEmail,omitempty"`
	ForceInApp bool `json:"forceInApp,omitempty"`

	// Optional context ids recorded in the delivery log and used by in-app
	// links.
	CandidateID   string `json:"candidateId,omitempty"`
	ApplicationID string `json:"applicationId,omitempty"`
	InterviewID   string `json:"interviewId,omitempty"`
}

// SendResult reports per-channel outcomes. Partial channel failures appear
// in Errors without failing the dispatch; Success means Errors is empty.
type SendResult struct {
	Success     bool     `json:"success"`
	EmailSent   bool     `json:"emailSent"`
	InAppSent   bool     `json:"inAppSent"`
	SMSSent     bool     `json:"smsSent"`
	Errors      []string `json:"errors,omitempty"`
	AuditLogged bool     `json:"auditLogged"`
}
