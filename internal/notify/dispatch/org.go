// internal/notify/dispatch/org.go
package dispatch

import (
	"context"
	"database/sql"
	"errors"

	apperrors "ats-notifications/internal/common/errors"
	"ats-notifications/internal/models"
)

// OrgStore reads organization branding for variable enrichment.
type OrgStore struct {
	db *sql.DB
}

func NewOrgStore(db *sql.DB) *OrgStore {
	return &OrgStore{db: db}
}

func (s *OrgStore) GetOrganization(ctx context.Context, orgID string) (*models.Organization, error) {
	var org models.Organization
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, COALESCE(logo_url, ''), COALESCE(primary_color, '')
		FROM organizations
		WHERE id = $1`, orgID).Scan(&org.ID, &org.Name, &org.LogoURL, &org.PrimaryColor)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewEntityNotFoundError("organization", orgID)
	}
	if err != nil {
		return nil, apperrors.NewQueryError(err.Error())
	}
	return &org, nil
}
