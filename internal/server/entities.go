// internal/server/entities.go
package server

import (
	"context"
	"database/sql"
	"errors"

	apperrors "ats-notifications/internal/common/errors"
	"ats-notifications/internal/models"
)

// EntityStore loads the hiring entities referenced by dispatch requests.
// Read-only; every miss maps to a typed not-found error so the API layer
// can answer 404.
type EntityStore struct {
	db *sql.DB
}

func NewEntityStore(db *sql.DB) *EntityStore {
	return &EntityStore{db: db}
}

func (s *EntityStore) GetApplication(ctx context.Context, orgID, id string) (*models.Application, error) {
	var app models.Application
	err := s.db.QueryRowContext(ctx, `
		SELECT id, org_id, job_id, candidate_id, status, created_at
		FROM applications
		WHERE id = $1 AND org_id = $2`, id, orgID).
		Scan(&app.ID, &app.OrgID, &app.JobID, &app.CandidateID, &app.Status, &app.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewEntityNotFoundError("application", id)
	}
	if err != nil {
		return nil, apperrors.NewQueryError(err.Error())
	}
	return &app, nil
}

func (s *EntityStore) GetCandidate(ctx context.Context, orgID, id string) (*models.Candidate, error) {
	var cand models.Candidate
	err := s.db.QueryRowContext(ctx, `
		SELECT id, org_id, full_name, email, COALESCE(phone, '')
		FROM candidates
		WHERE id = $1 AND org_id = $2`, id, orgID).
		Scan(&cand.ID, &cand.OrgID, &cand.FullName, &cand.Email, &cand.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewEntityNotFoundError("candidate", id)
	}
	if err != nil {
		return nil, apperrors.NewQueryError(err.Error())
	}
	return &cand, nil
}

func (s *EntityStore) GetJob(ctx context.Context, orgID, id string) (*models.Job, error) {
	var job models.Job
	err := s.db.QueryRowContext(ctx, `
		SELECT id, org_id, title, COALESCE(department_id, ''), COALESCE(location, ''), status
		FROM jobs
		WHERE id = $1 AND org_id = $2`, id, orgID).
		Scan(&job.ID, &job.OrgID, &job.Title, &job.DepartmentID, &job.Location, &job.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewEntityNotFoundError("job", id)
	}
	if err != nil {
		return nil, apperrors.NewQueryError(err.Error())
	}
	return &job, nil
}

func (s *EntityStore) GetInterview(ctx context.Context, orgID, id string) (*models.Interview, error) {
	var iv models.Interview
	err := s.db.QueryRowContext(ctx, `
		SELECT id, org_id, application_id, scheduled_at, COALESCE(location, ''), COALESCE(meeting_link, ''), status
		FROM interviews
		WHERE id = $1 AND org_id = $2`, id, orgID).
		Scan(&iv.ID, &iv.OrgID, &iv.ApplicationID, &iv.ScheduledAt, &iv.Location, &iv.MeetingLink, &iv.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewEntityNotFoundError("interview", id)
	}
	if err != nil {
		return nil, apperrors.NewQueryError(err.Error())
	}
	return &iv, nil
}

func (s *EntityStore) GetOffer(ctx context.Context, orgID, id string) (*models.Offer, error) {
	var offer models.Offer
	err := s.db.QueryRowContext(ctx, `
		SELECT id, org_id, application_id, COALESCE(salary, ''), COALESCE(start_date, ''), status, COALESCE(expires_at, 'epoch'::timestamptz)
		FROM offers
		WHERE id = $1 AND org_id = $2`, id, orgID).
		Scan(&offer.ID, &offer.OrgID, &offer.ApplicationID, &offer.Salary, &offer.StartDate, &offer.Status, &offer.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewEntityNotFoundError("offer", id)
	}
	if err != nil {
		return nil, apperrors.NewQueryError(err.Error())
	}
	return &offer, nil
}
