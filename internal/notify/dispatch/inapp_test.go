// internal/notify/dispatch/inapp_test.go
package dispatch

import (
	"context"
	"errors"
	"regexp"
	"testing"

	apperrors "ats-notifications/internal/common/errors"
	"ats-notifications/internal/common/logger"
	"ats-notifications/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var notificationInsert = regexp.QuoteMeta("INSERT INTO notifications")

func TestInAppSend_SingleRecipient(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(notificationInsert).WillReturnResult(sqlmock.NewResult(0, 1))

	sender := NewInAppSender(db, logger.NewNoOpLogger())
	opts := SendOptions{
		EventCode: "application_received",
		Variables: models.Variables{"candidate_name": "Ada", "job_title": "SRE"},
	}
	sent, err := sender.Send(context.Background(), &opts, []models.Recipient{{UserID: "u1"}})

	assert.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInAppSend_BulkInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// one multi-row statement, not one insert per recipient
	mock.ExpectExec(notificationInsert).WillReturnResult(sqlmock.NewResult(0, 3))

	sender := NewInAppSender(db, logger.NewNoOpLogger())
	opts := SendOptions{EventCode: "application_received", Variables: models.Variables{}}
	sent, err := sender.Send(context.Background(), &opts, []models.Recipient{
		{UserID: "u1"}, {UserID: "u2"}, {UserID: "u3"},
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, sent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInAppSend_UnknownCodeStillInserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(notificationInsert).
		WithArgs(sqlmock.AnyArg(), "u1", "system", "Notification",
			"You have a new notification", "", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	sender := NewInAppSender(db, logger.NewNoOpLogger())
	opts := SendOptions{EventCode: "mystery_event"}
	sent, err := sender.Send(context.Background(), &opts, []models.Recipient{{UserID: "u1"}})

	assert.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInAppSend_InsertFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(notificationInsert).WillReturnError(errors.New("deadlock detected"))

	sender := NewInAppSender(db, logger.NewTestLogger(t))
	opts := SendOptions{EventCode: "application_received"}
	sent, err := sender.Send(context.Background(), &opts, []models.Recipient{{UserID: "u1"}})

	assert.Zero(t, sent)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInAppInsertFailed, apperrors.Normalize(err).Code)
}

func TestSMSSend_PerRecipientIsolation(t *testing.T) {
	sms := &scriptedSMSer{failFor: map[string]error{"+492222": errors.New("carrier rejected")}}
	sender := NewSMSSender(sms, true, logger.NewTestLogger(t))

	sent, err := sender.Send(context.Background(), "interview_reminder", []models.Recipient{
		{Phone: "+491111", Name: "Ana"},
		{Phone: "+492222", Name: "Raj"},
		{Phone: "+493333", Name: "Mo"},
	}, models.Variables{"interview_date": "Monday"})

	assert.Equal(t, 2, sent)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeSMSSendFailed, apperrors.Normalize(err).Code)
	assert.Equal(t, []string{"+491111", "+493333"}, sms.sent)
}

func TestSMSSender_Enabled(t *testing.T) {
	assert.False(t, NewSMSSender(nil, true, logger.NewNoOpLogger()).Enabled())
	assert.False(t, NewSMSSender(&scriptedSMSer{}, false, logger.NewNoOpLogger()).Enabled())
	assert.True(t, NewSMSSender(&scriptedSMSer{}, true, logger.NewNoOpLogger()).Enabled())
}

type scriptedSMSer struct {
	sent    []string
	failFor map[string]error
}

func (s *scriptedSMSer) SendSMS(ctx context.Context, phone, message string) error {
	if err, ok := s.failFor[phone]; ok {
		return err
	}
	s.sent = append(s.sent, phone)
	return nil
}
