// internal/notify/event/event.go
package event

import (
	"context"
	"database/sql"

	apperrors "ats-notifications/internal/common/errors"
	"ats-notifications/internal/models"

	"github.com/lib/pq"
)

// Event codes form the fixed trigger enumeration. Adding a code requires a
// catalog entry below plus in-app content and (usually) an email template.
const (
	CodeApplicationReceived      = "application_received"
	CodeApplicationStatusChanged = "application_status_changed"
	CodeApplicationShortlisted   = "application_shortlisted"
	CodeApplicationRejected      = "application_rejected"
	CodeCandidateHired           = "candidate_hired"
	CodeCandidateAdded           = "candidate_added"
	CodeCandidateNoteAdded       = "candidate_note_added"
	CodeScreeningCompleted       = "screening_completed"

	CodeInterviewScheduled         = "interview_scheduled"
	CodeInterviewRescheduled       = "interview_rescheduled"
	CodeInterviewCancelled         = "interview_cancelled"
	CodeInterviewReminder          = "interview_reminder"
	CodeInterviewFeedbackSubmitted = "interview_feedback_submitted"

	CodeOfferSent     = "offer_sent"
	CodeOfferAccepted = "offer_accepted"
	CodeOfferDeclined = "offer_declined"
	CodeOfferExpiring = "offer_expiring"

	CodeJobPublished = "job_published"
	CodeJobClosed    = "job_closed"
	CodeJobExpiring  = "job_expiring"

	CodeTeamMemberInvited = "team_member_invited"
	CodeTeamMemberJoined  = "team_member_joined"
)

// hardcoded fallback channel set used when an event row carries none.
var fallbackChannels = []string{models.ChannelMail, models.ChannelSystem}

// builtin is the embedded event catalog. The database seeds mirror this
// table; the embedded copy keeps dispatch working when reference rows are
// missing and gives tests a stable fixture.
var builtin = []models.NotificationEvent{
	{ID: "evt_application_received", Code: CodeApplicationReceived, DefaultChannels: []string{models.ChannelMail, models.ChannelSystem}},
	{ID: "evt_application_status_changed", Code: CodeApplicationStatusChanged, DefaultChannels: []string{models.ChannelMail, models.ChannelSystem}},
	{ID: "evt_application_shortlisted", Code: CodeApplicationShortlisted, DefaultChannels: []string{models.ChannelSystem}},
	{ID: "evt_application_rejected", Code: CodeApplicationRejected, DefaultChannels: []string{models.ChannelMail}},
	{ID: "evt_candidate_hired", Code: CodeCandidateHired, DefaultChannels: []string{models.ChannelMail, models.ChannelSystem}},
	{ID: "evt_candidate_added", Code: CodeCandidateAdded, DefaultChannels: []string{models.ChannelSystem}},
	{ID: "evt_candidate_note_added", Code: CodeCandidateNoteAdded, DefaultChannels: []string{models.ChannelSystem}},
	{ID: "evt_screening_completed", Code: CodeScreeningCompleted, DefaultChannels: []string{models.ChannelSystem}},
	{ID: "evt_interview_scheduled", Code: CodeInterviewScheduled, DefaultChannels: []string{models.ChannelMail, models.ChannelSystem}},
	{ID: "evt_interview_rescheduled", Code: CodeInterviewRescheduled, DefaultChannels: []string{models.ChannelMail, models.ChannelSystem}},
	{ID: "evt_interview_cancelled", Code: CodeInterviewCancelled, DefaultChannels: []string{models.ChannelMail, models.ChannelSystem}},
	{ID: "evt_interview_reminder", Code: CodeInterviewReminder, DefaultChannels: []string{models.ChannelMail, models.ChannelSystem, models.ChannelSMS}},
	{ID: "evt_interview_feedback_submitted", Code: CodeInterviewFeedbackSubmitted, DefaultChannels: []string{models.ChannelSystem}},
	{ID: "evt_offer_sent", Code: CodeOfferSent, DefaultChannels: []string{models.ChannelMail, models.ChannelSystem}},
	{ID: "evt_offer_accepted", Code: CodeOfferAccepted, DefaultChannels: []string{models.ChannelMail, models.ChannelSystem}},
	{ID: "evt_offer_declined", Code: CodeOfferDeclined, DefaultChannels: []string{models.ChannelMail, models.ChannelSystem}},
	{ID: "evt_offer_expiring", Code: CodeOfferExpiring, DefaultChannels: []string{models.ChannelMail, models.ChannelSystem}},
	{ID: "evt_job_published", Code: CodeJobPublished, DefaultChannels: []string{models.ChannelSystem}},
	{ID: "evt_job_closed", Code: CodeJobClosed, DefaultChannels: []string{models.ChannelSystem}},
	{ID: "evt_job_expiring", Code: CodeJobExpiring, DefaultChannels: []string{models.ChannelSystem}},
	{ID: "evt_team_member_invited", Code: CodeTeamMemberInvited, DefaultChannels: []string{models.ChannelMail}},
	{ID: "evt_team_member_joined", Code: CodeTeamMemberJoined, DefaultChannels: []string{models.ChannelSystem}},
}

var builtinByCode = func() map[string]*models.NotificationEvent {
	m := make(map[string]*models.NotificationEvent, len(builtin))
	for i := range builtin {
		m[builtin[i].Code] = &builtin[i]
	}
	return m
}()

// Builtin returns a copy of the embedded catalog.
func Builtin() []models.NotificationEvent {
	out := make([]models.NotificationEvent, len(builtin))
	copy(out, builtin)
	return out
}

// FallbackChannels returns the channel set used when neither the org
// override nor the event defaults specify any.
func FallbackChannels() []string {
	out := make([]string, len(fallbackChannels))
	copy(out, fallbackChannels)
	return out
}

// Store resolves events from the notification_events table with the embedded
// catalog as fallback.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// GetByCode returns the event for a code. An unknown code is the
// dispatcher's one hard-stop error.
func (s *Store) GetByCode(ctx context.Context, code string) (*models.NotificationEvent, error) {
	if s.db != nil {
		var ev models.NotificationEvent
		var channels pq.StringArray
		err := s.db.QueryRowContext(ctx, `
			SELECT id, code, default_channels, COALESCE(description, '')
			FROM notification_events
			WHERE code = $1`, code).Scan(&ev.ID, &ev.Code, &channels, &ev.Description)
		if err == nil {
			ev.DefaultChannels = []string(channels)
			if len(ev.DefaultChannels) == 0 {
				ev.DefaultChannels = FallbackChannels()
			}
			return &ev, nil
		}
		// missing row or query error: consult the embedded catalog
	}

	if ev, ok := builtinByCode[code]; ok {
		cp := *ev
		return &cp, nil
	}

	return nil, apperrors.NewEventNotFoundError(code)
}
