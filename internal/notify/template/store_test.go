// internal/notify/template/store_test.go
package template

import (
	"context"
	"regexp"
	"testing"
	"time"

	apperrors "ats-notifications/internal/common/errors"
	"ats-notifications/internal/common/logger"
	"ats-notifications/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resolveQuery = `
	SELECT id, org_id, event_id, subject, body_html
	FROM email_templates
	WHERE event_id = $1 AND (org_id = $2 OR org_id IS NULL)
	ORDER BY org_id NULLS LAST
	LIMIT 1`

func newCacheClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	srv := miniredis.RunT(t)
	return srv, redis.NewClient(&redis.Options{Addr: srv.Addr()})
}

func TestResolve_OrgTemplateShadowsDefault(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// the query sorts org rows first, so the store sees the org row even
	// when a default row exists for the same event
	mock.ExpectQuery(regexp.QuoteMeta(resolveQuery)).
		WithArgs("evt_offer_sent", "org-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "org_id", "event_id", "subject", "body_html"}).
			AddRow("tpl-org", "org-1", "evt_offer_sent", "Org subject", "<p>org body</p>"))

	store := NewStore(db, nil, time.Minute, logger.NewNoOpLogger())
	tmpl, err := store.Resolve(context.Background(), "org-1", "evt_offer_sent", "offer_sent")

	assert.NoError(t, err)
	assert.Equal(t, "tpl-org", tmpl.ID)
	assert.Equal(t, "org-1", tmpl.OrgID)
	assert.Equal(t, "Org subject", tmpl.Subject)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolve_DefaultLevelRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(resolveQuery)).
		WithArgs("evt_offer_sent", "org-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "org_id", "event_id", "subject", "body_html"}).
			AddRow("tpl-default", nil, "evt_offer_sent", "Default subject", "<p>default body</p>"))

	store := NewStore(db, nil, time.Minute, logger.NewNoOpLogger())
	tmpl, err := store.Resolve(context.Background(), "org-1", "evt_offer_sent", "offer_sent")

	assert.NoError(t, err)
	assert.Equal(t, "tpl-default", tmpl.ID)
	assert.Empty(t, tmpl.OrgID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolve_CatalogFallback(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(resolveQuery)).
		WithArgs("evt_application_received", "org-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "org_id", "event_id", "subject", "body_html"}))

	store := NewStore(db, nil, time.Minute, logger.NewNoOpLogger())
	tmpl, err := store.Resolve(context.Background(), "org-1", "evt_application_received", "application_received")

	assert.NoError(t, err)
	assert.NotEmpty(t, tmpl.Subject)
	assert.Contains(t, tmpl.BodyHTML, "{{candidate_name}}")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolve_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(resolveQuery)).
		WithArgs("evt_bogus", "org-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "org_id", "event_id", "subject", "body_html"}))

	store := NewStore(db, nil, time.Minute, logger.NewNoOpLogger())
	tmpl, err := store.Resolve(context.Background(), "org-1", "evt_bogus", "bogus_code")

	assert.Nil(t, tmpl)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeTemplateNotFound, apperrors.Normalize(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolve_CacheHitSkipsDatabase(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, cache := newCacheClient(t)

	// first resolve hits the database and populates the cache
	mock.ExpectQuery(regexp.QuoteMeta(resolveQuery)).
		WithArgs("evt_offer_sent", "org-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "org_id", "event_id", "subject", "body_html"}).
			AddRow("tpl-org", "org-1", "evt_offer_sent", "Cached subject", "<p>body</p>"))

	store := NewStore(db, cache, time.Minute, logger.NewNoOpLogger())

	first, err := store.Resolve(context.Background(), "org-1", "evt_offer_sent", "offer_sent")
	require.NoError(t, err)

	// second resolve is served from the cache; no further query expected
	second, err := store.Resolve(context.Background(), "org-1", "evt_offer_sent", "offer_sent")
	require.NoError(t, err)

	assert.Equal(t, first.Subject, second.Subject)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_InvalidatesCache(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	srv, cache := newCacheClient(t)
	require.NoError(t, srv.Set(cacheKey("org-1", "evt_offer_sent"), `{"subject":"stale"}`))

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO email_templates")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewStore(db, cache, time.Minute, logger.NewNoOpLogger())
	err = store.Upsert(context.Background(), &models.EmailTemplate{
		OrgID:    "org-1",
		EventID:  "evt_offer_sent",
		Subject:  "Fresh subject",
		BodyHTML: "<p>fresh</p>",
	})

	assert.NoError(t, err)
	assert.False(t, srv.Exists(cacheKey("org-1", "evt_offer_sent")))
	assert.NoError(t, mock.ExpectationsWereMet())
}
