// internal/notify/settings/store.go
package settings

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

	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

// Store reads and writes per-organization notification settings.
// A nil result with nil error means no override exists: the event is
// enabled with its default channels.
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
	return fmt.Sprintf("notif-setting:%s:%s", orgID, eventID)
}

// cachedSetting distinguishes "no override row" from a cache miss.
type cachedSetting struct {
	Exists  bool                           `json:"exists"`
	Setting *models.OrgNotificationSetting `json:"setting,omitempty"`
}

// Get returns the override for (org, event), or (nil, nil) when absent.
func (s *Store) Get(ctx context.Context, orgID, eventID string) (*models.OrgNotificationSetting, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, cacheKey(orgID, eventID)).Result(); err == nil {
			var cached cachedSetting
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				if !cached.Exists {
					return nil, nil
				}
				return cached.Setting, nil
			}
		}
	}

	setting, err := s.fromDatabase(ctx, orgID, eventID)
	if err != nil {
		return nil, err
	}

	s.toCache(ctx, orgID, eventID, setting)
	return setting, nil
}

func (s *Store) fromDatabase(ctx context.Context, orgID, eventID string) (*models.OrgNotificationSetting, error) {
	setting := models.OrgNotificationSetting{OrgID: orgID, EventID: eventID}
	var channels pq.StringArray
	err := s.db.QueryRowContext(ctx, `
		SELECT enabled, channels
		FROM org_notification_settings
		WHERE org_id = $1 AND event_id = $2`, orgID, eventID).Scan(&setting.Enabled, &channels)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewQueryError(err.Error())
	}
	setting.Channels = []string(channels)
	return &setting, nil
}

func (s *Store) toCache(ctx context.Context, orgID, eventID string, setting *models.OrgNotificationSetting) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(cachedSetting{Exists: setting != nil, Setting: setting})
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(orgID, eventID), raw, s.cacheTTL).Err(); err != nil {
		s.logger.Debug("settings cache write failed", map[string]interface{}{
			"orgId": orgID,
			"error": err.Error(),
		})
	}
}

// Upsert creates or replaces the override and invalidates its cache entry.
func (s *Store) Upsert(ctx context.Context, setting *models.OrgNotificationSetting) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO org_notification_settings (org_id, event_id, enabled, channels)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (org_id, event_id)
		DO UPDATE SET enabled = EXCLUDED.enabled, channels = EXCLUDED.channels`,
		setting.OrgID, setting.EventID, setting.Enabled, pq.Array(setting.Channels))
	if err != nil {
		return apperrors.NewQueryError(err.Error())
	}

	if s.cache != nil {
		if err := s.cache.Del(ctx, cacheKey(setting.OrgID, setting.EventID)).Err(); err != nil {
			s.logger.Debug("settings cache invalidation failed", map[string]interface{}{
				"orgId": setting.OrgID,
				"error": err.Error(),
			})
		}
	}

	return nil
}

// List returns every override for an organization.
func (s *Store) List(ctx context.Context, orgID string) ([]models.OrgNotificationSetting, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT event_id, enabled, channels
		FROM org_notification_settings
		WHERE org_id = $1
		ORDER BY event_id`, orgID)
	if err != nil {
		return nil, apperrors.NewQueryError(err.Error())
	}
	defer rows.Close()

	var settings []models.OrgNotificationSetting
	for rows.Next() {
		setting := models.OrgNotificationSetting{OrgID: orgID}
		var channels pq.StringArray
		if err := rows.Scan(&setting.EventID, &setting.Enabled, &channels); err != nil {
			return nil, apperrors.NewQueryError(err.Error())
		}
		setting.Channels = []string(channels)
		settings = append(settings, setting)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryError(err.Error())
	}

	return settings, nil
}
