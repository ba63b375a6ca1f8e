// internal/notify/dispatch/sms.go
package dispatch

import (
	"context"
	"fmt"
	"strings"

	apperrors "ats-notifications/internal/common/errors"
	"ats-notifications/internal/common/logger"
	"ats-notifications/internal/common/metrics"
	"ats-notifications/internal/models"
	"ats-notifications/internal/notify/content"
	"ats-notifications/internal/notify/template"
)

// SMSer is the outbound SMS primitive. Satisfied by aws.SNSClient.
type SMSer interface {
	SendSMS(ctx context.Context, phone, message string) error
}

// SMSSender delivers short-form messages for events whose channel set
// includes "sms". Delivery is gated by configuration: the channel is
// recognized everywhere but sends only when enabled.
type SMSSender struct {
	sms     SMSer
	enabled bool
	logger  logger.Logger
}

func NewSMSSender(sms SMSer, enabled bool, log logger.Logger) *SMSSender {
	return &SMSSender{sms: sms, enabled: enabled, logger: log}
}

func (s *SMSSender) Enabled() bool {
	return s.enabled && s.sms != nil
}

// Send reuses the in-app message text as the SMS body. Same per-recipient
// isolation as email.
func (s *SMSSender) Send(ctx context.Context, eventCode string, recipients []models.Recipient, vars models.Variables) (int, error) {
	entry := content.Build(eventCode, vars)

	sent := 0
	var failures []string
	for _, rec := range recipients {
		message := template.PersonalizeReceiver(entry.Message, rec.Name)
		if err := s.sms.SendSMS(ctx, rec.Phone, message); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", rec.Phone, err))
			metrics.ChannelFailures.WithLabelValues(models.ChannelSMS, apperrors.GetErrorCategory(apperrors.ErrCodeSMSSendFailed)).Inc()
			s.logger.Error("sms send failed", map[string]interface{}{
				"eventCode": eventCode,
				"phone":     rec.Phone,
				"error":     err.Error(),
			})
			continue
		}
		sent++
	}

	metrics.RecipientsNotified.WithLabelValues(models.ChannelSMS).Add(float64(sent))

	if len(failures) > 0 {
		return sent, apperrors.NewSMSSendError(fmt.Sprintf(
			"%d of %d recipients failed: %s", len(failures), len(recipients), strings.Join(failures, "; ")))
	}
	return sent, nil
}
