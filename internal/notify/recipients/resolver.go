// internal/notify/recipients/resolver.go
package recipients

import (
	"context"
	"database/sql"

	apperrors "ats-notifications/internal/common/errors"
	"ats-notifications/internal/common/logger"
	"ats-notifications/internal/models"

	"github.com/lib/pq"
)

// Resolver turns (org, roles, department) into addressable recipients by
// reading role assignments, department assignments, and profiles.
type Resolver struct {
	db     *sql.DB
	logger logger.Logger
}

func NewResolver(db *sql.DB, log logger.Logger) *Resolver {
	return &Resolver{db: db, logger: log}
}

// ResolveTeam returns one Recipient per matching team member.
//
// Department scoping applies only to the hiring_manager role: when
// departmentID is set, hiring managers are narrowed to those assigned to
// that department, except managers with no department assignments at all,
// who are always included. All other roles are treated as org-wide.
// Zero role-assignment rows yield an empty slice without error.
func (r *Resolver) ResolveTeam(ctx context.Context, orgID string, roles []string, departmentID string) ([]models.Recipient, error) {
	assignments, err := r.roleAssignments(ctx, orgID, roles)
	if err != nil {
		return nil, err
	}
	if len(assignments) == 0 {
		r.logger.Debug("no role assignments matched", map[string]interface{}{
			"orgId": orgID,
			"roles": roles,
		})
		return []models.Recipient{}, nil
	}

	userIDs := make([]string, 0, len(assignments))
	if departmentID != "" && containsRole(roles, models.RoleHiringManager) {
		departments, err := r.departmentAssignments(ctx, orgID)
		if err != nil {
			return nil, err
		}
		for _, a := range assignments {
			if a.role != models.RoleHiringManager {
				userIDs = append(userIDs, a.userID)
				continue
			}
			assigned := departments[a.userID]
			if len(assigned) == 0 || containsString(assigned, departmentID) {
				userIDs = append(userIDs, a.userID)
			}
		}
	} else {
		for _, a := range assignments {
			userIDs = append(userIDs, a.userID)
		}
	}

	if len(userIDs) == 0 {
		return []models.Recipient{}, nil
	}

	return r.profiles(ctx, userIDs)
}

type roleAssignment struct {
	userID string
	role   string
}

func (r *Resolver) roleAssignments(ctx context.Context, orgID string, roles []string) ([]roleAssignment, error) {
	query := `SELECT user_id, role FROM user_roles WHERE org_id = $1`
	args := []interface{}{orgID}
	if len(roles) > 0 {
		query += ` AND role = ANY($2)`
		args = append(args, pq.Array(roles))
	}
	query += ` ORDER BY user_id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewQueryError(err.Error())
	}
	defer rows.Close()

	var assignments []roleAssignment
	for rows.Next() {
		var a roleAssignment
		if err := rows.Scan(&a.userID, &a.role); err != nil {
			return nil, apperrors.NewQueryError(err.Error())
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryError(err.Error())
	}

	return assignments, nil
}

// departmentAssignments returns userID -> department ids for the org.
func (r *Resolver) departmentAssignments(ctx context.Context, orgID string) (map[string][]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, department_id
		FROM department_assignments
		WHERE org_id = $1`, orgID)
	if err != nil {
		return nil, apperrors.NewQueryError(err.Error())
	}
	defer rows.Close()

	departments := make(map[string][]string)
	for rows.Next() {
		var userID, departmentID string
		if err := rows.Scan(&userID, &departmentID); err != nil {
			return nil, apperrors.NewQueryError(err.Error())
		}
		departments[userID] = append(departments[userID], departmentID)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryError(err.Error())
	}

	return departments, nil
}

func (r *Resolver) profiles(ctx context.Context, userIDs []string) ([]models.Recipient, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, full_name, email, COALESCE(phone, '')
		FROM profiles
		WHERE id = ANY($1)`, pq.Array(userIDs))
	if err != nil {
		return nil, apperrors.NewQueryError(err.Error())
	}
	defer rows.Close()

	byID := make(map[string]models.Recipient)
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.ID, &p.FullName, &p.Email, &p.Phone); err != nil {
			return nil, apperrors.NewQueryError(err.Error())
		}
		byID[p.ID] = models.Recipient{
			UserID: p.ID,
			Email:  p.Email,
			Name:   p.FullName,
			Phone:  p.Phone,
		}
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryError(err.Error())
	}

	// preserve assignment order; skip user ids with no profile row
	recipients := make([]models.Recipient, 0, len(byID))
	seen := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if rec, ok := byID[id]; ok {
			recipients = append(recipients, rec)
		}
	}

	return recipients, nil
}

func containsRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
