package models

import "time"

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectStatusPlanning   ProjectStatus = "planning"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusCancelled  ProjectStatus = "cancelled"
)

// ProjectStatuses lists every valid project status.
var ProjectStatuses = []ProjectStatus{
	ProjectStatusPlanning,
	ProjectStatusInProgress,
	ProjectStatusCompleted,
	ProjectStatusCancelled,
}

func (s ProjectStatus) Valid() bool {
	for _, v := range ProjectStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Project represents a project record. Dates are calendar dates in
// YYYY-MM-DD form; expected_end_date is never before start_date for
// records accepted by the API.
type Project struct {
	ID              int64         `json:"id"`
	Name            string        `json:"name"`
	Description     *string       `json:"description"`
	StartDate       string        `json:"start_date"`
	ExpectedEndDate string        `json:"expected_end_date"`
	Status          ProjectStatus `json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// ProjectInput is the payload for creating or updating a project.
// ID and timestamps are server-assigned and never accepted from clients.
type ProjectInput struct {
	Name            string  `json:"name"`
	Description     *string `json:"description"`
	StartDate       string  `json:"start_date"`
	ExpectedEndDate string  `json:"expected_end_date"`
	Status          string  `json:"status"`
}

// ProjectQuery holds the normalized list-query parameters for projects.
// Empty filter strings mean "not applied".
type ProjectQuery struct {
	Search    string
	Status    string
	Page      int
	PerPage   int
	SortBy    string
	SortOrder string
}

// PaginatedProjects is the list-endpoint envelope. The page URLs point
// at the first and last page of the same query so clients can jump
// without recomputing parameters.
type PaginatedProjects struct {
	Data         []Project `json:"data"`
	Total        int64     `json:"total"`
	CurrentPage  int       `json:"current_page"`
	PerPage      int       `json:"per_page"`
	LastPage     int       `json:"last_page"`
	FirstPageURL string    `json:"first_page_url"`
	LastPageURL  string    `json:"last_page_url"`
}
