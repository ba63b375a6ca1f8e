// internal/notify/content/content.go
package content

import (
	"ats-notifications/internal/models"
	"ats-notifications/internal/notify/event"
	"ats-notifications/internal/notify/template"
)

// Entry describes the in-app notification shape for one event code.
// Title/Message/Link may carry {{placeholders}} resolved at build time.
type Entry struct {
	Type    string
	Title   string
	Message string
	Link    string
}

// Generic is produced for event codes with no catalog entry. Unknown codes
// degrade rather than fail.
var Generic = Entry{
	Type:    "system",
	Title:   "Notification",
	Message: "You have a new notification",
}

// variable fallbacks applied before substitution so partial context still
// renders a readable message.
var defaults = models.Variables{
	"candidate_name": "A candidate",
	"job_title":      "a position",
	"member_name":    "A team member",
}

var catalog = map[string]Entry{
	event.CodeApplicationReceived: {
		Type:    "application",
		Title:   "New application",
		Message: "{{candidate_name}} applied for {{job_title}}",
		Link:    "/applications/{{application_id}}",
	},
	event.CodeApplicationStatusChanged: {
		Type:    "application",
		Title:   "Application updated",
		Message: "{{candidate_name}}'s application moved to {{application_status}}",
		Link:    "/applications/{{application_id}}",
	},
	event.CodeApplicationShortlisted: {
		Type:    "application",
		Title:   "Candidate shortlisted",
		Message: "{{candidate_name}} was shortlisted for {{job_title}}",
		Link:    "/applications/{{application_id}}",
	},
	event.CodeApplicationRejected: {
		Type:    "application",
		Title:   "Application rejected",
		Message: "{{candidate_name}}'s application for {{job_title}} was rejected",
		Link:    "/applications/{{application_id}}",
	},
	event.CodeCandidateHired: {
		Type:    "application",
		Title:   "Candidate hired",
		Message: "{{candidate_name}} was hired for {{job_title}}",
		Link:    "/applications/{{application_id}}",
	},
	event.CodeCandidateAdded: {
		Type:    "candidate",
		Title:   "Candidate added",
		Message: "{{candidate_name}} was added to the candidate pool",
		Link:    "/candidates/{{candidate_id}}",
	},
	event.CodeCandidateNoteAdded: {
		Type:    "candidate",
		Title:   "New note",
		Message: "A note was added on {{candidate_name}}",
		Link:    "/candidates/{{candidate_id}}",
	},
	event.CodeScreeningCompleted: {
		Type:    "application",
		Title:   "Screening completed",
		Message: "{{candidate_name}} completed screening for {{job_title}}",
		Link:    "/applications/{{application_id}}",
	},
	event.CodeInterviewScheduled: {
		Type:    "interview",
		Title:   "Interview scheduled",
		Message: "Interview with {{candidate_name}} for {{job_title}} on {{interview_date}}",
		Link:    "/interviews/{{interview_id}}",
	},
	event.CodeInterviewRescheduled: {
		Type:    "interview",
		Title:   "Interview rescheduled",
		Message: "Interview with {{candidate_name}} moved to {{interview_date}}",
		Link:    "/interviews/{{interview_id}}",
	},
	event.CodeInterviewCancelled: {
		Type:    "interview",
		Title:   "Interview cancelled",
		Message: "Interview with {{candidate_name}} on {{interview_date}} was cancelled",
		Link:    "/interviews/{{interview_id}}",
	},
	event.CodeInterviewReminder: {
		Type:    "interview",
		Title:   "Interview reminder",
		Message: "Interview with {{candidate_name}} at {{interview_time}} today",
		Link:    "/interviews/{{interview_id}}",
	},
	event.CodeInterviewFeedbackSubmitted: {
		Type:    "interview",
		Title:   "Feedback submitted",
		Message: "Interview feedback for {{candidate_name}} is ready",
		Link:    "/interviews/{{interview_id}}",
	},
	event.CodeOfferSent: {
		Type:    "offer",
		Title:   "Offer sent",
		Message: "An offer for {{job_title}} was sent to {{candidate_name}}",
		Link:    "/offers/{{offer_id}}",
	},
	event.CodeOfferAccepted: {
		Type:    "offer",
		Title:   "Offer accepted",
		Message: "{{candidate_name}} accepted the offer for {{job_title}}",
		Link:    "/offers/{{offer_id}}",
	},
	event.CodeOfferDeclined: {
		Type:    "offer",
		Title:   "Offer declined",
		Message: "{{candidate_name}} declined the offer for {{job_title}}",
		Link:    "/offers/{{offer_id}}",
	},
	event.CodeOfferExpiring: {
		Type:    "offer",
		Title:   "Offer expiring",
		Message: "The offer for {{candidate_name}} expires on {{offer_expiry}}",
		Link:    "/offers/{{offer_id}}",
	},
	event.CodeJobPublished: {
		Type:    "job",
		Title:   "Job published",
		Message: "{{job_title}} is now live on the career page",
		Link:    "/jobs/{{job_id}}",
	},
	event.CodeJobClosed: {
		Type:    "job",
		Title:   "Job closed",
		Message: "{{job_title}} has been closed",
		Link:    "/jobs/{{job_id}}",
	},
	event.CodeJobExpiring: {
		Type:    "job",
		Title:   "Job posting expiring",
		Message: "The posting for {{job_title}} expires soon",
		Link:    "/jobs/{{job_id}}",
	},
	event.CodeTeamMemberInvited: {
		Type:    "team",
		Title:   "Invitation sent",
		Message: "An invitation to join the hiring team was sent",
		Link:    "/settings/team",
	},
	event.CodeTeamMemberJoined: {
		Type:    "team",
		Title:   "Team member joined",
		Message: "{{member_name}} joined the hiring team",
		Link:    "/settings/team",
	},
}

// Build resolves the catalog entry for a code and substitutes variables,
// applying readable fallbacks for missing context. Unknown codes return the
// generic shape.
func Build(code string, vars models.Variables) Entry {
	entry, ok := catalog[code]
	if !ok {
		return Generic
	}

	merged := make(models.Variables, len(vars)+len(defaults))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range vars {
		if v != "" {
			merged[k] = v
		}
	}

	return Entry{
		Type:    entry.Type,
		Title:   template.ReplaceVariables(entry.Title, merged),
		Message: template.ReplaceVariables(entry.Message, merged),
		Link:    template.ReplaceVariables(entry.Link, merged),
	}
}

// Known reports whether a code has a concrete catalog entry.
func Known(code string) bool {
	_, ok := catalog[code]
	return ok
}
