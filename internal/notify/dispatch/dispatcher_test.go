// internal/notify/dispatch/dispatcher_test.go
package dispatch

import (
	"context"
	"testing"

	apperrors "ats-notifications/internal/common/errors"
	"ats-notifications/internal/common/logger"
	"ats-notifications/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Fakes
// ==========================

type fakeEvents struct {
	ev  *models.NotificationEvent
	err error
}

func (f *fakeEvents) GetByCode(ctx context.Context, code string) (*models.NotificationEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.ev, nil
}

type fakeSettings struct {
	setting *models.OrgNotificationSetting
	err     error
}

func (f *fakeSettings) Get(ctx context.Context, orgID, eventID string) (*models.OrgNotificationSetting, error) {
	return f.setting, f.err
}

type fakeOrgs struct {
	org *models.Organization
	err error
}

func (f *fakeOrgs) GetOrganization(ctx context.Context, orgID string) (*models.Organization, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.org, nil
}

type fakeEmail struct {
	calls   int
	lastTo  []models.Recipient
	gotVars models.Variables
	sent    int
	err     error
}

func (f *fakeEmail) Send(ctx context.Context, orgID string, event *models.NotificationEvent, recipients []models.Recipient, vars models.Variables) (int, error) {
	f.calls++
	f.lastTo = recipients
	f.gotVars = vars
	return f.sent, f.err
}

type fakeInApp struct {
	calls  int
	lastTo []models.Recipient
	sent   int
	err    error
}

func (f *fakeInApp) Send(ctx context.Context, opts *SendOptions, recipients []models.Recipient) (int, error) {
	f.calls++
	f.lastTo = recipients
	return f.sent, f.err
}

type fakeSMS struct {
	enabled bool
	calls   int
	sent    int
	err     error
}

func (f *fakeSMS) Enabled() bool { return f.enabled }

func (f *fakeSMS) Send(ctx context.Context, eventCode string, recipients []models.Recipient, vars models.Variables) (int, error) {
	f.calls++
	return f.sent, f.err
}

type fakeAudit struct {
	entries []*models.NotificationLogEntry
	ok      bool
}

func (f *fakeAudit) Write(ctx context.Context, entry *models.NotificationLogEntry) bool {
	f.entries = append(f.entries, entry)
	return f.ok
}

// ==========================
// Test setup helpers
// ==========================

type fixture struct {
	events   *fakeEvents
	settings *fakeSettings
	orgs     *fakeOrgs
	email    *fakeEmail
	inApp    *fakeInApp
	sms      *fakeSMS
	audit    *fakeAudit
	d        *Dispatcher
}

func newFixture() *fixture {
	f := &fixture{
		events: &fakeEvents{ev: &models.NotificationEvent{
			ID:              "evt_offer_sent",
			Code:            "offer_sent",
			DefaultChannels: []string{models.ChannelMail, models.ChannelSystem},
		}},
		settings: &fakeSettings{},
		orgs: &fakeOrgs{org: &models.Organization{
			ID:           "org-1",
			Name:         "Acme Talent",
			LogoURL:      "https://acme.test/logo.png",
			PrimaryColor: "#112233",
		}},
		email: &fakeEmail{sent: 1},
		inApp: &fakeInApp{sent: 1},
		sms:   &fakeSMS{},
		audit: &fakeAudit{ok: true},
	}
	f.d = NewDispatcher(f.events, f.settings, f.orgs, f.email, f.inApp, f.sms, f.audit, logger.NewNoOpLogger())
	return f
}

func testRecipients() []models.Recipient {
	return []models.Recipient{
		{UserID: "u1", Email: "ana@acme.test", Name: "Ana", Phone: "+49151111"},
		{UserID: "u2", Email: "raj@acme.test", Name: "Raj"},
	}
}

func testOpts() SendOptions {
	return SendOptions{
		OrgID:      "org-1",
		EventCode:  "offer_sent",
		Recipients: testRecipients(),
		Variables:  models.Variables{"candidate_name": "Ada"},
	}
}

// ==========================
// Dispatch behavior
// ==========================

func TestSend_Success(t *testing.T) {
	f := newFixture()

	result, err := f.d.Send(context.Background(), testOpts())

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, result.EmailSent)
	assert.True(t, result.InAppSent)
	assert.False(t, result.SMSSent)
	assert.True(t, result.AuditLogged)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 1, f.email.calls)
	assert.Equal(t, 1, f.inApp.calls)
	assert.Equal(t, 0, f.sms.calls)
}

func TestSend_UnknownEventIsHardStop(t *testing.T) {
	f := newFixture()
	f.events.err = apperrors.NewEventNotFoundError("nope")

	result, err := f.d.Send(context.Background(), testOpts())

	assert.Nil(t, result)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeEventNotFound, apperrors.Normalize(err).Code)
	assert.Equal(t, 0, f.email.calls)
	assert.Equal(t, 0, f.inApp.calls)
	assert.Empty(t, f.audit.entries)
}

func TestSend_DisabledSettingShortCircuits(t *testing.T) {
	f := newFixture()
	f.settings.setting = &models.OrgNotificationSetting{
		OrgID:   "org-1",
		EventID: "evt_offer_sent",
		Enabled: false,
	}

	result, err := f.d.Send(context.Background(), testOpts())

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.False(t, result.EmailSent)
	assert.False(t, result.InAppSent)
	assert.Equal(t, 0, f.email.calls)
	assert.Equal(t, 0, f.inApp.calls)
	// the audit row is still written
	require.Len(t, f.audit.entries, 1)
	assert.True(t, result.AuditLogged)
}

func TestSend_DisabledWithForceEmail(t *testing.T) {
	f := newFixture()
	f.settings.setting = &models.OrgNotificationSetting{Enabled: false}

	opts := testOpts()
	opts.ForceEmail = true
	result, err := f.d.Send(context.Background(), opts)

	require.NoError(t, err)
	assert.Equal(t, 1, f.email.calls)
	assert.Equal(t, 0, f.inApp.calls)
	assert.True(t, result.EmailSent)
}

func TestSend_ChannelOverrideNarrowsToInApp(t *testing.T) {
	f := newFixture()
	f.settings.setting = &models.OrgNotificationSetting{
		Enabled:  true,
		Channels: []string{models.ChannelSystem},
	}

	result, err := f.d.Send(context.Background(), testOpts())

	require.NoError(t, err)
	assert.Equal(t, 0, f.email.calls)
	assert.Equal(t, 1, f.inApp.calls)
	assert.True(t, result.Success)
}

func TestSend_FallbackChannelsWhenEventHasNone(t *testing.T) {
	f := newFixture()
	f.events.ev.DefaultChannels = nil

	_, err := f.d.Send(context.Background(), testOpts())

	require.NoError(t, err)
	assert.Equal(t, 1, f.email.calls)
	assert.Equal(t, 1, f.inApp.calls)
}

func TestSend_ChannelFailureIsIsolated(t *testing.T) {
	f := newFixture()
	f.email.err = apperrors.NewEmailSendError("1 of 2 recipients failed")
	f.email.sent = 1

	result, err := f.d.Send(context.Background(), testOpts())

	require.NoError(t, err)
	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	// in-app still ran and delivered
	assert.Equal(t, 1, f.inApp.calls)
	assert.True(t, result.InAppSent)
	// partial email delivery still counts as sent
	assert.True(t, result.EmailSent)
	// the audit row records the real outcome
	require.Len(t, f.audit.entries, 1)
	assert.True(t, f.audit.entries[0].InAppSent)
}

func TestSend_AuditWrittenWhenEverythingFails(t *testing.T) {
	f := newFixture()
	f.email.sent = 0
	f.email.err = apperrors.NewEmailSendError("all failed")
	f.inApp.sent = 0
	f.inApp.err = apperrors.NewInAppInsertError("insert failed")
	f.audit.ok = false

	result, err := f.d.Send(context.Background(), testOpts())

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Len(t, result.Errors, 2)
	assert.False(t, result.AuditLogged)
	require.Len(t, f.audit.entries, 1)
	assert.False(t, f.audit.entries[0].EmailSent)
	assert.False(t, f.audit.entries[0].InAppSent)
}

func TestSend_BrandingMergedCallerWins(t *testing.T) {
	f := newFixture()

	opts := testOpts()
	opts.Variables["org_name"] = "Caller Org"
	_, err := f.d.Send(context.Background(), opts)

	require.NoError(t, err)
	assert.Equal(t, "Caller Org", f.email.gotVars["org_name"])
	assert.Equal(t, "https://acme.test/logo.png", f.email.gotVars["org_logo"])
	assert.Equal(t, "#112233", f.email.gotVars["primary_color"])
}

func TestSend_BrandingFailureIsSoft(t *testing.T) {
	f := newFixture()
	f.orgs.err = apperrors.NewEntityNotFoundError("organization", "org-1")

	result, err := f.d.Send(context.Background(), testOpts())

	require.NoError(t, err)
	assert.True(t, result.Success)
	// default accent color still applied for template rendering
	assert.NotEmpty(t, f.email.gotVars["primary_color"])
}

func TestSend_RecipientFiltering(t *testing.T) {
	f := newFixture()

	opts := testOpts()
	opts.Recipients = []models.Recipient{
		{UserID: "u1"},                  // in-app only
		{Email: "ext@example.test"},     // email only
		{UserID: "u2", Email: "b@c.de"}, // both
	}
	_, err := f.d.Send(context.Background(), opts)

	require.NoError(t, err)
	require.Len(t, f.email.lastTo, 2)
	assert.Equal(t, "ext@example.test", f.email.lastTo[0].Email)
	require.Len(t, f.inApp.lastTo, 2)
	assert.Equal(t, "u1", f.inApp.lastTo[0].UserID)
}

func TestSend_SMSGatedByConfig(t *testing.T) {
	tests := []struct {
		name          string
		enabled       bool
		expectedCalls int
	}{
		{name: "disabled config never sends", enabled: false, expectedCalls: 0},
		{name: "enabled config sends to phone recipients", enabled: true, expectedCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.events.ev.DefaultChannels = []string{models.ChannelMail, models.ChannelSystem, models.ChannelSMS}
			f.sms.enabled = tt.enabled
			f.sms.sent = 1

			result, err := f.d.Send(context.Background(), testOpts())

			require.NoError(t, err)
			assert.Equal(t, tt.expectedCalls, f.sms.calls)
			assert.Equal(t, tt.enabled, result.SMSSent)
		})
	}
}

// Duplicate invocations are not deduplicated: each call writes its own
// audit row and re-delivers.
func TestSend_DuplicateDispatchWritesTwoLogs(t *testing.T) {
	f := newFixture()

	_, err := f.d.Send(context.Background(), testOpts())
	require.NoError(t, err)
	_, err = f.d.Send(context.Background(), testOpts())
	require.NoError(t, err)

	assert.Len(t, f.audit.entries, 2)
	assert.Equal(t, 2, f.email.calls)
	assert.Equal(t, 2, f.inApp.calls)
}

func TestSend_SettingLookupFailureFallsBackToDefaults(t *testing.T) {
	f := newFixture()
	f.settings.err = apperrors.NewQueryError("timeout")

	result, err := f.d.Send(context.Background(), testOpts())

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, f.email.calls)
	assert.Equal(t, 1, f.inApp.calls)
}
