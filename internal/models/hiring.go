// internal/models/hiring.go
package models

import "time"

// Read-side shapes of the hiring entities loaded by the API layer's
// event-context builders. Columns not needed for notification variables
// are intentionally omitted.

type Job struct {
	ID           string `json:"id"`
	OrgID        string `json:"orgId"`
	Title        string `json:"title"`
	DepartmentID string `json:"departmentId,omitempty"`
	Location     string `json:"location,omitempty"`
	Status       string `json:"status"`
}

type Candidate struct {
	ID       string `json:"id"`
	OrgID    string `json:"orgId"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
}

type Application struct {
	ID          string    `json:"id"`
	OrgID       string    `json:"orgId"`
	JobID       string    `json:"jobId"`
	CandidateID string    `json:"candidateId"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Interview struct {
	ID            string    `json:"id"`
	OrgID         string    `json:"orgId"`
	ApplicationID string    `json:"applicationId"`
	ScheduledAt   time.Time `json:"scheduledAt"`
	Location      string    `json:"location,omitempty"`
	MeetingLink   string    `json:"meetingLink,omitempty"`
	Status        string    `json:"status"`
}

type Offer struct {
	ID            string    `json:"id"`
	OrgID         string    `json:"orgId"`
	ApplicationID string    `json:"applicationId"`
	Salary        string    `json:"salary,omitempty"`
	StartDate     string    `json:"startDate,omitempty"`
	Status        string    `json:"status"`
	ExpiresAt     time.Time `json:"expiresAt,omitempty"`
}
