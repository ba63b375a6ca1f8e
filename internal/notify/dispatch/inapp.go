// internal/notify/dispatch/inapp.go
package dispatch

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	apperrors "ats-notifications/internal/common/errors"
	"ats-notifications/internal/common/logger"
	"ats-notifications/internal/common/metrics"
	"ats-notifications/internal/models"
	"ats-notifications/internal/notify/content"

	"github.com/google/uuid"
)

// InAppSender writes notification rows for recipients that carry a user id.
type InAppSender struct {
	db     *sql.DB
	logger logger.Logger
}

func NewInAppSender(db *sql.DB, log logger.Logger) *InAppSender {
	return &InAppSender{db: db, logger: log}
}

// contextData carries the entity ids stored in the notification's data
// column so the client can deep-link.
func contextData(opts *SendOptions) map[string]interface{} {
	data := map[string]interface{}{}
	if opts.CandidateID != "" {
		data["candidateId"] = opts.CandidateID
	}
	if opts.ApplicationID != "" {
		data["applicationId"] = opts.ApplicationID
	}
	if opts.InterviewID != "" {
		data["interviewId"] = opts.InterviewID
	}
	return data
}

// Send builds the event's in-app content (unknown codes degrade to the
// generic shape) and inserts one row per recipient: a single insert for one
// recipient, a bulk multi-row insert otherwise.
func (s *InAppSender) Send(ctx context.Context, opts *SendOptions, recipients []models.Recipient) (int, error) {
	entry := content.Build(opts.EventCode, opts.Variables)
	data := contextData(opts)

	rawData, err := json.Marshal(data)
	if err != nil {
		rawData = []byte("{}")
	}

	now := time.Now().UTC()
	rows := make([]models.InAppNotification, 0, len(recipients))
	for _, rec := range recipients {
		rows = append(rows, models.InAppNotification{
			ID:        uuid.New().String(),
			UserID:    rec.UserID,
			Type:      entry.Type,
			Title:     entry.Title,
			Message:   entry.Message,
			Link:      entry.Link,
			Data:      data,
			CreatedAt: now,
		})
	}

	if len(rows) == 1 {
		row := rows[0]
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO notifications (id, user_id, type, title, message, link, data, is_read, created_at)
			VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, false, $8)`,
			row.ID, row.UserID, row.Type, row.Title, row.Message, row.Link, rawData, row.CreatedAt)
		if err != nil {
			metrics.ChannelFailures.WithLabelValues(models.ChannelSystem, apperrors.GetErrorCategory(apperrors.ErrCodeInAppInsertFailed)).Inc()
			return 0, apperrors.NewInAppInsertError(err.Error())
		}
		metrics.RecipientsNotified.WithLabelValues(models.ChannelSystem).Inc()
		return 1, nil
	}

	// bulk insert
	placeholders := make([]string, 0, len(rows))
	args := make([]interface{}, 0, len(rows)*8)
	for i, row := range rows {
		base := i * 8
		placeholders = append(placeholders, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, NULLIF($%d, ''), $%d, false, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8))
		args = append(args,
			row.ID, row.UserID, row.Type, row.Title, row.Message, row.Link, rawData, row.CreatedAt)
	}

	query := `
		INSERT INTO notifications (id, user_id, type, title, message, link, data, is_read, created_at)
		VALUES ` + strings.Join(placeholders, ", ")

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		metrics.ChannelFailures.WithLabelValues(models.ChannelSystem, apperrors.GetErrorCategory(apperrors.ErrCodeInAppInsertFailed)).Inc()
		return 0, apperrors.NewInAppInsertError(err.Error())
	}

	metrics.RecipientsNotified.WithLabelValues(models.ChannelSystem).Add(float64(len(rows)))
	return len(rows), nil
}
