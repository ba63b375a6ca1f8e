// internal/notify/dispatch/dispatcher.go
package dispatch

import (
	"context"
	"time"

	apperrors "ats-notifications/internal/common/errors"
	"ats-notifications/internal/common/logger"
	"ats-notifications/internal/common/metrics"
	"ats-notifications/internal/models"
	"ats-notifications/internal/notify/event"
)

// Dependency seams, satisfied by the concrete stores/senders in this module
// and by mocks in tests.
type eventStore interface {
	GetByCode(ctx context.Context, code string) (*models.NotificationEvent, error)
}

type settingsStore interface {
	Get(ctx context.Context, orgID, eventID string) (*models.OrgNotificationSetting, error)
}

type orgStore interface {
	GetOrganization(ctx context.Context, orgID string) (*models.Organization, error)
}

type emailChannel interface {
	Send(ctx context.Context, orgID string, event *models.NotificationEvent, recipients []models.Recipient, vars models.Variables) (int, error)
}

type inAppChannel interface {
	Send(ctx context.Context, opts *SendOptions, recipients []models.Recipient) (int, error)
}

type smsChannel interface {
	Enabled() bool
	Send(ctx context.Context, eventCode string, recipients []models.Recipient, vars models.Variables) (int, error)
}

type auditLogger interface {
	Write(ctx context.Context, entry *models.NotificationLogEntry) bool
}

// Dispatcher orchestrates one notification dispatch: event lookup, org
// setting resolution, channel fan-out, and the audit log write.
type Dispatcher struct {
	events   eventStore
	settings settingsStore
	orgs     orgStore
	email    emailChannel
	inApp    inAppChannel
	sms      smsChannel
	audit    auditLogger
	logger   logger.Logger
}

func NewDispatcher(events eventStore, settings settingsStore, orgs orgStore, email emailChannel, inApp inAppChannel, sms smsChannel, audit auditLogger, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		events:   events,
		settings: settings,
		orgs:     orgs,
		email:    email,
		inApp:    inApp,
		sms:      sms,
		audit:    audit,
		logger:   log,
	}
}

// Send runs the dispatch steps. Per-channel failures are collected into the
// result's Errors without aborting sibling channels; an unknown event code
// is the one hard-stop error. The audit log row is written regardless of
// per-channel outcome.
func (d *Dispatcher) Send(ctx context.Context, opts SendOptions) (*SendResult, error) {
	start := time.Now()
	result := &SendResult{}

	// 1. branding enrichment; callers' variables win
	vars := make(models.Variables, len(opts.Variables)+3)
	for k, v := range opts.Variables {
		vars[k] = v
	}
	if org, err := d.orgs.GetOrganization(ctx, opts.OrgID); err == nil {
		setIfAbsent(vars, "org_name", org.Name)
		setIfAbsent(vars, "org_logo", org.LogoURL)
		setIfAbsent(vars, "primary_color", org.PrimaryColor)
	} else {
		d.logger.Warn("organization branding unavailable", map[string]interface{}{
			"orgId": opts.OrgID,
			"error": err.Error(),
		})
	}
	setIfAbsent(vars, "primary_color", "#2563eb")
	opts.Variables = vars

	// 2. event lookup (hard stop)
	ev, err := d.events.GetByCode(ctx, opts.EventCode)
	if err != nil {
		metrics.DispatchesTotal.WithLabelValues(opts.EventCode, "unknown_event").Inc()
		return nil, err
	}

	// 3. org setting; absence means enabled with event defaults
	setting, err := d.settings.Get(ctx, opts.OrgID, ev.ID)
	if err != nil {
		d.logger.Warn("setting lookup failed, using event defaults", map[string]interface{}{
			"orgId":     opts.OrgID,
			"eventCode": ev.Code,
			"error":     err.Error(),
		})
		setting = nil
	}
	enabled := setting == nil || setting.Enabled

	// 4. disabled without force flags: success with zero deliveries
	if !enabled && !opts.ForceEmail && !opts.ForceInApp {
		result.Success = true
		result.AuditLogged = d.writeLog(ctx, &opts, ev, result)
		metrics.DispatchesTotal.WithLabelValues(ev.Code, "disabled").Inc()
		metrics.DispatchDuration.WithLabelValues(ev.Code).Observe(time.Since(start).Seconds())
		return result, nil
	}

	// 5. effective channel set
	channels := effectiveChannels(setting, ev)

	// 6. email
	if (enabled && contains(channels, models.ChannelMail)) || opts.ForceEmail {
		emailRecipients := filterWithEmail(opts.Recipients)
		if len(emailRecipients) > 0 {
			sent, err := d.email.Send(ctx, opts.OrgID, ev, emailRecipients, vars)
			result.EmailSent = sent > 0
			if err != nil {
				result.Errors = append(result.Errors, apperrors.Normalize(err).Error())
			}
		} else {
			d.logger.Debug("no addressable email recipients", map[string]interface{}{
				"eventCode": ev.Code,
			})
		}
	}

	// 7. in-app
	if (enabled && contains(channels, models.ChannelSystem)) || opts.ForceInApp {
		inAppRecipients := filterWithUserID(opts.Recipients)
		if len(inAppRecipients) > 0 {
			sent, err := d.inApp.Send(ctx, &opts, inAppRecipients)
			result.InAppSent = sent > 0
			if err != nil {
				result.Errors = append(result.Errors, apperrors.Normalize(err).Error())
			}
		}
	}

	// 8. sms: recognized in channel sets, delivery gated by config
	if enabled && contains(channels, models.ChannelSMS) && d.sms.Enabled() {
		smsRecipients := filterWithPhone(opts.Recipients)
		if len(smsRecipients) > 0 {
			sent, err := d.sms.Send(ctx, ev.Code, smsRecipients, vars)
			result.SMSSent = sent > 0
			if err != nil {
				result.Errors = append(result.Errors, apperrors.Normalize(err).Error())
			}
		}
	}

	// 9. audit log, best-effort, always
	result.AuditLogged = d.writeLog(ctx, &opts, ev, result)

	// 10. success means no collected errors
	result.Success = len(result.Errors) == 0

	status := "success"
	switch {
	case !result.Success && !result.EmailSent && !result.InAppSent && !result.SMSSent:
		status = "failed"
	case !result.Success:
		status = "partial"
	}
	metrics.DispatchesTotal.WithLabelValues(ev.Code, status).Inc()
	metrics.DispatchDuration.WithLabelValues(ev.Code).Observe(time.Since(start).Seconds())

	d.logger.Info("notification dispatched", map[string]interface{}{
		"eventCode":  ev.Code,
		"orgId":      opts.OrgID,
		"recipients": len(opts.Recipients),
		"emailSent":  result.EmailSent,
		"inAppSent":  result.InAppSent,
		"smsSent":    result.SMSSent,
		"errors":     len(result.Errors),
	})

	return result, nil
}

func (d *Dispatcher) writeLog(ctx context.Context, opts *SendOptions, ev *models.NotificationEvent, result *SendResult) bool {
	return d.audit.Write(ctx, &models.NotificationLogEntry{
		OrgID:          opts.OrgID,
		EventID:        ev.ID,
		RecipientCount: len(opts.Recipients),
		EmailSent:      result.EmailSent,
		InAppSent:      result.InAppSent,
		SMSSent:        result.SMSSent,
		CandidateID:    opts.CandidateID,
		ApplicationID:  opts.ApplicationID,
		InterviewID:    opts.InterviewID,
	})
}

// effectiveChannels applies the precedence: org override, then event
// defaults, then the hardcoded fallback.
func effectiveChannels(setting *models.OrgNotificationSetting, ev *models.NotificationEvent) []string {
	if setting != nil && len(setting.Channels) > 0 {
		return setting.Channels
	}
	if len(ev.DefaultChannels) > 0 {
		return ev.DefaultChannels
	}
	return event.FallbackChannels()
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

func setIfAbsent(vars models.Variables, key, value string) {
	if _, ok := vars[key]; !ok && value != "" {
		vars[key] = value
	}
}

func filterWithEmail(recipients []models.Recipient) []models.Recipient {
	out := make([]models.Recipient, 0, len(recipients))
	for _, r := range recipients {
		if r.Email != "" {
			out = append(out, r)
		}
	}
	return out
}

func filterWithUserID(recipients []models.Recipient) []models.Recipient {
	out := make([]models.Recipient, 0, len(recipients))
	for _, r := range recipients {
		if r.UserID != "" {
			out = append(out, r)
		}
	}
	return out
}

func filterWithPhone(recipients []models.Recipient) []models.Recipient {
	out := make([]models.Recipient, 0, len(recipients))
	for _, r := range recipients {
		if r.Phone != "" {
			out = append(out, r)
		}
	}
	return out
}
