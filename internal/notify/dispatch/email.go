// internal/notify/dispatch/email.go
package dispatch

import (
	"context"
	"fmt"
	"strings"

	apperrors "ats-notifications/internal/common/errors"
	"ats-notifications/internal/common/logger"
	"ats-notifications/internal/common/metrics"
	"ats-notifications/internal/models"
	"ats-notifications/internal/notify/template"
)

// Mailer is the outbound mail primitive. Satisfied by aws.SESClient.
type Mailer interface {
	SendHTMLEmail(ctx context.Context, from, to, subject, bodyHTML string) error
}

// templateResolver is satisfied by template.Store.
type templateResolver interface {
	Resolve(ctx context.Context, orgID, eventID, eventCode string) (*models.EmailTemplate, error)
}

// EmailSender renders the effective template once per dispatch and sends
// one personalized message per recipient.
type EmailSender struct {
	templates templateResolver
	mailer    Mailer
	from      string
	logger    logger.Logger
}

func NewEmailSender(templates templateResolver, mailer Mailer, from string, log logger.Logger) *EmailSender {
	return &EmailSender{
		templates: templates,
		mailer:    mailer,
		from:      from,
		logger:    log,
	}
}

// Send delivers to every recipient that has an email address. Each
// recipient's send runs in its own error boundary: one failure never stops
// the remainder. Returns the number delivered plus an aggregated error when
// any step failed.
func (s *EmailSender) Send(ctx context.Context, orgID string, event *models.NotificationEvent, recipients []models.Recipient, vars models.Variables) (int, error) {
	if s.mailer == nil {
		s.logger.Debug("mail provider not configured, skipping email channel", map[string]interface{}{
			"eventCode": event.Code,
		})
		return 0, nil
	}

	tmpl, err := s.templates.Resolve(ctx, orgID, event.ID, event.Code)
	if err != nil {
		metrics.ChannelFailures.WithLabelValues(models.ChannelMail, apperrors.GetErrorCategory(apperrors.Normalize(err).Code)).Inc()
		return 0, err
	}

	subject := template.ReplaceVariables(tmpl.Subject, vars)
	body := template.ReplaceVariables(tmpl.BodyHTML, vars)

	sent := 0
	var failures []string
	for _, rec := range recipients {
		personalSubject := template.PersonalizeReceiver(subject, rec.Name)
		personalBody := template.PersonalizeReceiver(body, rec.Name)

		if err := s.mailer.SendHTMLEmail(ctx, s.from, rec.Email, personalSubject, personalBody); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", rec.Email, err))
			metrics.ChannelFailures.WithLabelValues(models.ChannelMail, apperrors.GetErrorCategory(apperrors.ErrCodeEmailSendFailed)).Inc()
			s.logger.Error("email send failed", map[string]interface{}{
				"eventCode": event.Code,
				"to":        rec.Email,
				"error":     err.Error(),
			})
			continue
		}
		sent++
	}

	metrics.RecipientsNotified.WithLabelValues(models.ChannelMail).Add(float64(sent))

	if len(failures) > 0 {
		return sent, apperrors.NewEmailSendError(fmt.Sprintf(
			"%d of %d recipients failed: %s", len(failures), len(recipients), strings.Join(failures, "; ")))
	}
	return sent, nil
}
