// internal/notify/audit/log.go
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"ats-notifications/internal/common/database"
	"ats-notifications/internal/common/logger"
	"ats-notifications/internal/models"

	"github.com/google/uuid"
)

// Writer appends delivery-log rows and optionally mirrors them into an
// Elasticsearch index for search. Both writes are best-effort: the dispatch
// result never depends on them.
type Writer struct {
	db     *sql.DB
	es     *database.ElasticsearchClient
	index  string
	logger logger.Logger
}

func NewWriter(db *sql.DB, es *database.ElasticsearchClient, index string, log logger.Logger) *Writer {
	return &Writer{
		db:     db,
		es:     es,
		index:  index,
		logger: log,
	}
}

// Write persists one log entry per dispatch call. Returns false when the
// database insert failed; the mirror index failing alone still counts as
// logged.
func (w *Writer) Write(ctx context.Context, entry *models.NotificationLogEntry) bool {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	logged := true
	_, err := w.db.ExecContext(ctx, `
		INSERT INTO notification_logs
			(id, org_id, event_id, recipient_count, email_sent, in_app_sent, sms_sent,
			 candidate_id, application_id, interview_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NULLIF($9, ''), NULLIF($10, ''), $11)`,
		entry.ID, entry.OrgID, entry.EventID, entry.RecipientCount,
		entry.EmailSent, entry.InAppSent, entry.SMSSent,
		entry.CandidateID, entry.ApplicationID, entry.InterviewID, entry.CreatedAt)
	if err != nil {
		logged = false
		w.logger.Error("delivery log insert failed", map[string]interface{}{
			"orgId":   entry.OrgID,
			"eventId": entry.EventID,
			"error":   err.Error(),
		})
	}

	w.mirror(ctx, entry)
	return logged
}

func (w *Writer) mirror(ctx context.Context, entry *models.NotificationLogEntry) {
	if w.es == nil {
		return
	}

	body, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := w.es.Index(ctx, w.index, entry.ID, body); err != nil {
		w.logger.Warn("delivery log mirror failed", map[string]interface{}{
			"index": w.index,
			"id":    entry.ID,
			"error": err.Error(),
		})
	}
}
