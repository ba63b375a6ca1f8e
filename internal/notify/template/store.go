// internal/notify/template/store.go
package template

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "ats-notifications/internal/common/errors"
	"ats-notifications/internal/common/logger"
	"ats-notifications/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Store resolves email templates with strict precedence:
// org-custom row, then default row, then the embedded catalog.
// Resolved templates are cached in Redis; cache failures degrade to
// database reads and are never fatal.
type Store struct {
	db       *sql.DB
	cache    *redis.Client
	cacheTTL time.Duration
	logger   logger.Logger
}

func NewStore(db *sql.DB, cache *redis.Client, cacheTTL time.Duration, log logger.Logger) *Store {
	return &Store{
		db:       db,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   log,
	}
}

func cacheKey(orgID, eventID string) string {
	return fmt.Sprintf("tmpl:%s:%s", orgID, eventID)
}

// Resolve returns the effective template for (org, event). The eventCode is
// only consulted for the embedded catalog fallback.
func (s *Store) Resolve(ctx context.Context, orgID, eventID, eventCode string) (*models.EmailTemplate, error) {
	if tmpl := s.fromCache(ctx, orgID, eventID); tmpl != nil {
		return tmpl, nil
	}

	tmpl, err := s.fromDatabase(ctx, orgID, eventID)
	if err != nil {
		s.logger.Warn("template query failed, using catalog fallback", map[string]interface{}{
			"orgId":   orgID,
			"eventId": eventID,
			"error":   err.Error(),
		})
	}

	if tmpl == nil {
		subject, body, ok := CatalogEntry(eventCode)
		if !ok {
			return nil, apperrors.NewTemplateNotFoundError(eventCode)
		}
		tmpl = &models.EmailTemplate{
			EventID:  eventID,
			Subject:  subject,
			BodyHTML: body,
		}
	}

	s.toCache(ctx, orgID, eventID, tmpl)
	return tmpl, nil
}

// fromDatabase applies the org-shadows-default precedence in one query:
// org rows sort first, so the first row wins.
func (s *Store) fromDatabase(ctx context.Context, orgID, eventID string) (*models.EmailTemplate, error) {
	var tmpl models.EmailTemplate
	var orgColumn sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, org_id, event_id, subject, body_html
		FROM email_templates
		WHERE event_id = $1 AND (org_id = $2 OR org_id IS NULL)
		ORDER BY org_id NULLS LAST
		LIMIT 1`, eventID, orgID).Scan(&tmpl.ID, &orgColumn, &tmpl.EventID, &tmpl.Subject, &tmpl.BodyHTML)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	tmpl.OrgID = orgColumn.String
	return &tmpl, nil
}

func (s *Store) fromCache(ctx context.Context, orgID, eventID string) *models.EmailTemplate {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, cacheKey(orgID, eventID)).Result()
	if err != nil {
		return nil
	}
	var tmpl models.EmailTemplate
	if err := json.Unmarshal([]byte(raw), &tmpl); err != nil {
		return nil
	}
	return &tmpl
}

func (s *Store) toCache(ctx context.Context, orgID, eventID string, tmpl *models.EmailTemplate) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(tmpl)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(orgID, eventID), raw, s.cacheTTL).Err(); err != nil {
		s.logger.Debug("template cache write failed", map[string]interface{}{
			"orgId": orgID,
			"error": err.Error(),
		})
	}
}

// Upsert stores an org-custom template and invalidates its cache entry.
func (s *Store) Upsert(ctx context.Context, tmpl *models.EmailTemplate) error {
	if tmpl.ID == "" {
		tmpl.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO email_templates (id, org_id, event_id, subject, body_html)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (org_id, event_id) WHERE org_id IS NOT NULL
		DO UPDATE SET subject = EXCLUDED.subject, body_html = EXCLUDED.body_html`,
		tmpl.ID, tmpl.OrgID, tmpl.EventID, tmpl.Subject, tmpl.BodyHTML)
	if err != nil {
		return apperrors.NewQueryError(err.Error())
	}

	if s.cache != nil {
		if err := s.cache.Del(ctx, cacheKey(tmpl.OrgID, tmpl.EventID)).Err(); err != nil {
			s.logger.Debug("template cache invalidation failed", map[string]interface{}{
				"orgId": tmpl.OrgID,
				"error": err.Error(),
			})
		}
	}

	return nil
}
