// internal/models/organization.go
package models

// Organization carries the branding fields merged into template variables
// at dispatch time.
type Organization struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	LogoURL      string `json:"logoUrl,omitempty"`
	PrimaryColor string `json:"primaryColor,omitempty"`
}

// Team roles as stored in user_roles.role.
const (
	RoleAdmin         = "admin"
	RoleRecruiter     = "recruiter"
	RoleHiringManager = "hiring_manager"
	RoleInterviewer   = "interviewer"
)

// Profile is the read-side shape of a team member resolved as a recipient.
type Profile struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
}
