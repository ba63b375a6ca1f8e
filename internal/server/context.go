// internal/server/context.go
package server

import (
	"context"
	"fmt"

	"ats-notifications/internal/models"
	"ats-notifications/internal/notify/dispatch"
	"ats-notifications/internal/notify/event"
	"ats-notifications/internal/notify/recipients"
)

const (
	dateLayout = "Monday, January 2, 2006"
	timeLayout = "3:04 PM"
)

// ContextBuilder turns (event code, request data) into fully assembled
// dispatch options: entity-derived variables plus the resolved team
// recipients. Entity lookups chain application -> candidate -> job so a
// single id in the request is enough.
type ContextBuilder struct {
	entities *EntityStore
	team     *recipients.Resolver
}

func NewContextBuilder(entities *EntityStore, team *recipients.Resolver) *ContextBuilder {
	return &ContextBuilder{entities: entities, team: team}
}

// Build assembles SendOptions for the event. Values supplied in data
// override entity-derived variables of the same name.
func (b *ContextBuilder) Build(ctx context.Context, orgID, eventCode string, data map[string]interface{}) (*dispatch.SendOptions, error) {
	opts := &dispatch.SendOptions{
		OrgID:     orgID,
		EventCode: eventCode,
		Variables: models.Variables{},
	}

	roles := []string{models.RoleAdmin, models.RoleRecruiter, models.RoleHiringManager}
	departmentID := ""

	switch eventCode {
	case event.CodeApplicationReceived, event.CodeApplicationStatusChanged,
		event.CodeApplicationShortlisted, event.CodeApplicationRejected,
		event.CodeCandidateHired, event.CodeScreeningCompleted,
		event.CodeCandidateNoteAdded:
		job, err := b.applicationContext(ctx, orgID, stringValue(data, "applicationId"), opts)
		if err != nil {
			return nil, err
		}
		if job != nil {
			departmentID = job.DepartmentID
		}
		if opts.ApplicationID != "" {
			if eventCode == event.CodeCandidateNoteAdded {
				opts.Variables["link"] = "/candidates/" + opts.CandidateID
			} else {
				opts.Variables["link"] = "/applications/" + opts.ApplicationID
			}
		}

	case event.CodeCandidateAdded:
		if id := stringValue(data, "candidateId"); id != "" {
			cand, err := b.entities.GetCandidate(ctx, orgID, id)
			if err != nil {
				return nil, err
			}
			opts.CandidateID = cand.ID
			opts.Variables["candidate_id"] = cand.ID
			opts.Variables["candidate_name"] = cand.FullName
			opts.Variables["link"] = "/candidates/" + cand.ID
		}

	case event.CodeInterviewScheduled, event.CodeInterviewRescheduled,
		event.CodeInterviewCancelled, event.CodeInterviewReminder,
		event.CodeInterviewFeedbackSubmitted:
		iv, err := b.entities.GetInterview(ctx, orgID, stringValue(data, "interviewId"))
		if err != nil {
			return nil, err
		}
		opts.InterviewID = iv.ID
		opts.Variables["interview_id"] = iv.ID
		opts.Variables["interview_date"] = iv.ScheduledAt.Format(dateLayout)
		opts.Variables["interview_time"] = iv.ScheduledAt.Format(timeLayout)
		opts.Variables["interview_location"] = iv.Location
		opts.Variables["meeting_link"] = iv.MeetingLink
		opts.Variables["link"] = "/interviews/" + iv.ID
		job, err := b.applicationContext(ctx, orgID, iv.ApplicationID, opts)
		if err != nil {
			return nil, err
		}
		if job != nil {
			departmentID = job.DepartmentID
		}
		roles = append(roles, models.RoleInterviewer)

	case event.CodeOfferSent, event.CodeOfferAccepted,
		event.CodeOfferDeclined, event.CodeOfferExpiring:
		offer, err := b.entities.GetOffer(ctx, orgID, stringValue(data, "offerId"))
		if err != nil {
			return nil, err
		}
		opts.Variables["offer_id"] = offer.ID
		opts.Variables["offer_salary"] = offer.Salary
		opts.Variables["offer_start_date"] = offer.StartDate
		opts.Variables["link"] = "/offers/" + offer.ID
		if !offer.ExpiresAt.IsZero() {
			opts.Variables["offer_expiry"] = offer.ExpiresAt.Format(dateLayout)
		}
		job, err := b.applicationContext(ctx, orgID, offer.ApplicationID, opts)
		if err != nil {
			return nil, err
		}
		if job != nil {
			departmentID = job.DepartmentID
		}

	case event.CodeJobPublished, event.CodeJobClosed, event.CodeJobExpiring:
		job, err := b.entities.GetJob(ctx, orgID, stringValue(data, "jobId"))
		if err != nil {
			return nil, err
		}
		opts.Variables["job_id"] = job.ID
		opts.Variables["job_title"] = job.Title
		opts.Variables["job_location"] = job.Location
		opts.Variables["link"] = "/jobs/" + job.ID
		departmentID = job.DepartmentID
		roles = []string{models.RoleAdmin, models.RoleRecruiter}

	case event.CodeTeamMemberInvited, event.CodeTeamMemberJoined:
		opts.Variables["link"] = "/settings/team"
		roles = []string{models.RoleAdmin}

	default:
		// unknown codes fall through; the dispatcher answers with its
		// event-not-found hard stop
	}

	// request data overrides entity-derived values
	for key, value := range data {
		if s, ok := value.(string); ok {
			opts.Variables[key] = s
		}
	}
	opts.ForceEmail = boolValue(data, "forceEmail")
	opts.ForceInApp = boolValue(data, "forceInApp")

	team, err := b.team.ResolveTeam(ctx, orgID, roles, departmentID)
	if err != nil {
		return nil, err
	}
	opts.Recipients = team

	return opts, nil
}

// applicationContext loads application -> candidate -> job and fills the
// shared variable set. Returns the job for department scoping. A missing
// applicationId in the request data is tolerated; the dispatch proceeds
// with whatever variables the caller supplied.
func (b *ContextBuilder) applicationContext(ctx context.Context, orgID, applicationID string, opts *dispatch.SendOptions) (*models.Job, error) {
	if applicationID == "" {
		return nil, nil
	}

	app, err := b.entities.GetApplication(ctx, orgID, applicationID)
	if err != nil {
		return nil, err
	}
	opts.ApplicationID = app.ID
	opts.CandidateID = app.CandidateID
	opts.Variables["application_id"] = app.ID
	opts.Variables["application_status"] = app.Status

	cand, err := b.entities.GetCandidate(ctx, orgID, app.CandidateID)
	if err != nil {
		return nil, err
	}
	opts.Variables["candidate_id"] = cand.ID
	opts.Variables["candidate_name"] = cand.FullName

	job, err := b.entities.GetJob(ctx, orgID, app.JobID)
	if err != nil {
		return nil, err
	}
	opts.Variables["job_id"] = job.ID
	opts.Variables["job_title"] = job.Title
	opts.Variables["job_location"] = job.Location

	return job, nil
}

func stringValue(data map[string]interface{}, key string) string {
	if v, ok := data[key]; ok {
		switch t := v.(type) {
		case string:
			return t
		case float64:
			return fmt.Sprintf("%v", t)
		}
	}
	return ""
}

func boolValue(data map[string]interface{}, key string) bool {
	v, ok := data[key].(bool)
	return ok && v
}
