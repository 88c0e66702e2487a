package models

import "time"

// TaskPriority is the urgency level of a task.
type TaskPriority string

const (
	TaskPriorityLow      TaskPriority = "low"
	TaskPriorityMedium   TaskPriority = "medium"
	TaskPriorityHigh     TaskPriority = "high"
	TaskPriorityCritical TaskPriority = "critical"
)

// TaskStatus is the workflow state of a task.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusInReview   TaskStatus = "in_review"
	TaskStatusCompleted  TaskStatus = "completed"
)

var TaskPriorities = []TaskPriority{
	TaskPriorityLow,
	TaskPriorityMedium,
	TaskPriorityHigh,
	TaskPriorityCritical,
}

var TaskStatuses = []TaskStatus{
	TaskStatusTodo,
	TaskStatusInProgress,
	TaskStatusInReview,
	TaskStatusCompleted,
}

func (p TaskPriority) Valid() bool {
	for _, v := range TaskPriorities {
		if p == v {
			return true
		}
	}
	return false
}

func (s TaskStatus) Valid() bool {
	for _, v := range TaskStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Task represents a task record. Every task belongs to exactly one
// project; deleting the project deletes its tasks.
type Task struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	ProjectID   int64        `json:"project_id"`
	Responsible string       `json:"responsible"`
	Priority    TaskPriority `json:"priority"`
	Status      TaskStatus   `json:"status"`
	Deadline    *string      `json:"deadline"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// TaskInput is the payload for creating or updating a task.
type TaskInput struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	ProjectID   int64   `json:"project_id"`
	Responsible string  `json:"responsible"`
	Priority    string  `json:"priority"`
	Status      string  `json:"status"`
	Deadline    *string `json:"deadline"`
}

// TaskQuery holds the normalized list-query parameters for tasks.
// ProjectID of zero means "all projects". Deadline bounds are
// YYYY-MM-DD strings, empty when not applied.
type TaskQuery struct {
	ProjectID    int64
	Status       string
	Priority     string
	Responsible  string
	Search       string
	DeadlineFrom string
	DeadlineTo   string
	Page         int
	PerPage      int
	SortBy       string
	SortOrder    string
}

// PaginatedTasks is the list-endpoint envelope for tasks.
type PaginatedTasks struct {
	Data         []Task `json:"data"`
	Total        int64  `json:"total"`
	CurrentPage  int    `json:"current_page"`
	PerPage      int    `json:"per_page"`
	LastPage     int    `json:"last_page"`
	FirstPageURL string `json:"first_page_url"`
	LastPageURL  string `json:"last_page_url"`
}
