// internal/notify/dispatch/email_test.go
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"testing"

	apperrors "ats-notifications/internal/common/errors"
	"ats-notifications/internal/common/logger"
	"ats-notifications/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	tmpl *models.EmailTemplate
	err  error
}

func (f *fakeResolver) Resolve(ctx context.Context, orgID, eventID, eventCode string) (*models.EmailTemplate, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tmpl, nil
}

type fakeMailer struct {
	sent    []string // recipient addresses in send order
	bodies  map[string]string
	failFor map[string]error
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{bodies: map[string]string{}, failFor: map[string]error{}}
}

func (f *fakeMailer) SendHTMLEmail(ctx context.Context, from, to, subject, bodyHTML string) error {
	if err, ok := f.failFor[to]; ok {
		return err
	}
	f.sent = append(f.sent, to)
	f.bodies[to] = bodyHTML
	return nil
}

func offerEvent() *models.NotificationEvent {
	return &models.NotificationEvent{ID: "evt_offer_sent", Code: "offer_sent"}
}

func TestEmailSend_RendersOncePersonalizesPerRecipient(t *testing.T) {
	resolver := &fakeResolver{tmpl: &models.EmailTemplate{
		Subject:  "Offer for {{candidate_name}}",
		BodyHTML: "<p>Hi {{receiver_name}}, {{candidate_name}} got an offer.</p>",
	}}
	mailer := newFakeMailer()
	sender := NewEmailSender(resolver, mailer, "noreply@acme.test", logger.NewNoOpLogger())

	recipients := []models.Recipient{
		{Email: "ana@acme.test", Name: "Ana"},
		{Email: "raj@acme.test"},
	}
	sent, err := sender.Send(context.Background(), "org-1", offerEvent(), recipients, models.Variables{
		"candidate_name": "Ada",
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Contains(t, mailer.bodies["ana@acme.test"], "Hi Ana, Ada got an offer.")
	assert.Contains(t, mailer.bodies["raj@acme.test"], "Hi there, Ada got an offer.")
}

func TestEmailSend_OneFailureDoesNotStopOthers(t *testing.T) {
	resolver := &fakeResolver{tmpl: &models.EmailTemplate{Subject: "s", BodyHTML: "b"}}
	mailer := newFakeMailer()
	mailer.failFor["bad@acme.test"] = errors.New("mailbox unavailable")
	sender := NewEmailSender(resolver, mailer, "noreply@acme.test", logger.NewTestLogger(t))

	recipients := []models.Recipient{
		{Email: "first@acme.test"},
		{Email: "bad@acme.test"},
		{Email: "last@acme.test"},
	}
	sent, err := sender.Send(context.Background(), "org-1", offerEvent(), recipients, nil)

	assert.Equal(t, 2, sent)
	require.Error(t, err)
	stdErr := apperrors.Normalize(err)
	assert.Equal(t, apperrors.ErrCodeEmailSendFailed, stdErr.Code)
	assert.Contains(t, stdErr.Details, "1 of 3 recipients failed")
	assert.Contains(t, stdErr.Details, "bad@acme.test")
	// delivery order preserved around the failure
	assert.Equal(t, []string{"first@acme.test", "last@acme.test"}, mailer.sent)
}

func TestEmailSend_TemplateNotFoundAborts(t *testing.T) {
	resolver := &fakeResolver{err: apperrors.NewTemplateNotFoundError("offer_sent")}
	mailer := newFakeMailer()
	sender := NewEmailSender(resolver, mailer, "noreply@acme.test", logger.NewNoOpLogger())

	sent, err := sender.Send(context.Background(), "org-1", offerEvent(),
		[]models.Recipient{{Email: "ana@acme.test"}}, nil)

	assert.Zero(t, sent)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeTemplateNotFound, apperrors.Normalize(err).Code)
	assert.Empty(t, mailer.sent)
}

func TestEmailSend_NilMailerSkips(t *testing.T) {
	resolver := &fakeResolver{tmpl: &models.EmailTemplate{Subject: "s", BodyHTML: "b"}}
	sender := NewEmailSender(resolver, nil, "noreply@acme.test", logger.NewNoOpLogger())

	sent, err := sender.Send(context.Background(), "org-1", offerEvent(),
		[]models.Recipient{{Email: "ana@acme.test"}}, nil)

	assert.NoError(t, err)
	assert.Zero(t, sent)
}

func TestEmailSend_AllFail(t *testing.T) {
	resolver := &fakeResolver{tmpl: &models.EmailTemplate{Subject: "s", BodyHTML: "b"}}
	mailer := newFakeMailer()
	recipients := make([]models.Recipient, 3)
	for i := range recipients {
		addr := fmt.Sprintf("r%d@acme.test", i)
		recipients[i] = models.Recipient{Email: addr}
		mailer.failFor[addr] = errors.New("throttled")
	}
	sender := NewEmailSender(resolver, mailer, "noreply@acme.test", logger.NewTestLogger(t))

	sent, err := sender.Send(context.Background(), "org-1", offerEvent(), recipients, nil)

	assert.Zero(t, sent)
	require.Error(t, err)
	assert.Contains(t, apperrors.Normalize(err).Details, "3 of 3 recipients failed")
}
