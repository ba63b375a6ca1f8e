// internal/models/notification.go
package models

import "time"

// Channel names as stored in notification_events.default_channels and
// org_notification_settings.channels.
const (
	ChannelMail   = "mail"   // outbound email
	ChannelSystem = "system" // in-app notification row
	ChannelSMS    = "sms"    // recognized, delivery gated by config
)

// NotificationEvent is immutable reference data identifying a trigger.
type NotificationEvent struct {
	ID              string   `json:"id"`
	Code            string   `json:"code"`
	DefaultChannels []string `json:"defaultChannels"`
	Description     string   `json:"description,omitempty"`
}

// HasDefaultChannel reports whether ch is in the event's default channel set.
func (e *NotificationEvent) HasDefaultChannel(ch string) bool {
	for _, c := range e.DefaultChannels {
		if c == ch {
			return true
		}
	}
	return false
}

// OrgNotificationSetting is a per-organization, per-event override.
// Absence implies enabled with the event's defaults.
type OrgNotificationSetting struct {
	OrgID    string   `json:"orgId"`
	EventID  string   `json:"eventId"`
	Enabled  bool     `json:"enabled"`
	Channels []string `json:"channels"`
}

// Recipient is a transient addressable target. At least one of UserID/Email
// must be present for an active channel to apply.
type Recipient struct {
	UserID string `json:"userId,omitempty"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
	Phone  string `json:"phone,omitempty"`
}

// Variables is the open string-keyed bag fed to template substitution.
type Variables map[string]string

// EmailTemplate is an org-level or default-level template row.
// OrgID is empty for default-level rows.
type EmailTemplate struct {
	ID       string `json:"id"`
	OrgID    string `json:"orgId,omitempty"`
	EventID  string `json:"eventId"`
	Subject  string `json:"subject"`
	BodyHTML string `json:"bodyHtml"`
}

// NotificationLogEntry is the append-only audit record written once per
// dispatch call, regardless of per-channel outcome.
type NotificationLogEntry struct {
	ID             string    `json:"id"`
	OrgID          string    `json:"orgId"`
	EventID        string    `json:"eventId"`
	RecipientCount int       `json:"recipientCount"`
	EmailSent      bool      `json:"emailSent"`
	InAppSent      bool      `json:"inAppSent"`
	SMSSent        bool      `json:"smsSent"`
	CandidateID    string    `json:"candidateId,omitempty"`
	ApplicationID  string    `json:"applicationId,omitempty"`
	InterviewID    string    `json:"interviewId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// InAppNotification is a row in the notifications table, created per userId
// recipient.
type InAppNotification struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"userId"`
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Link      string                 `json:"link,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
	IsRead    bool                   `json:"isRead"`
	CreatedAt time.Time              `json:"createdAt"`
}
