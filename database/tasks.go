package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"

	"bossa/models"
)

const taskColumns = "id, title, description, project_id, responsible, priority, status, deadline, created_at, updated_at"

// ListTasks retrieves tasks with filtering, sorting and pagination.
func (db *DB) ListTasks(ctx context.Context, q models.TaskQuery) ([]models.Task, int64, error) {
	start := time.Now()
	defer func() {
		log.WithFields(log.Fields{
			"duration":   time.Since(start),
			"project_id": q.ProjectID,
			"status":     q.Status,
			"priority":   q.Priority,
			"page":       q.Page,
		}).Debug("ListTasks")
	}()

	qb := NewQueryBuilder()
	if q.ProjectID > 0 {
		qb.AddCondition("project_id", q.ProjectID)
	}
	if q.Status != "" {
		qb.AddCondition("status", q.Status)
	}
	if q.Priority != "" {
		qb.AddCondition("priority", q.Priority)
	}
	if q.Responsible != "" {
		qb.AddSearch([]string{"responsible"}, q.Responsible)
	}
	if q.Search != "" {
		qb.AddSearch([]string{"title", "description"}, q.Search)
	}
	if err := qb.AddDateRange("deadline", q.DeadlineFrom, q.DeadlineTo); err != nil {
		return nil, 0, err
	}

	page := normalizePage(q.Page)
	perPage := normalizePerPage(q.PerPage)
	offset := (page - 1) * perPage

	// SAFETY: All user input is parameterized via $N placeholders. The
	// WHERE clause holds fixed column names and the ORDER BY column is
	// whitelisted.
	query := fmt.Sprintf(`
		SELECT
			%s,
			COUNT(*) OVER() as total_count
		FROM tasks
		%s
		%s
		LIMIT $%d OFFSET $%d
	`, taskColumns, qb.WhereClause(),
		orderClause(q.SortBy, q.SortOrder, taskSortColumns),
		qb.NextArgNum(), qb.NextArgNum()+1)

	args := append(qb.Args(), perPage, offset)

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	var total int64

	for rows.Next() {
		var (
			task     models.Task
			deadline *time.Time
		)
		err := rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&task.ProjectID,
			&task.Responsible,
			&task.Priority,
			&task.Status,
			&deadline,
			&task.CreatedAt,
			&task.UpdatedAt,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan task row: %w", err)
		}
		task.Deadline = formatDeadline(deadline)
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, total, nil
}

func (db *DB) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM tasks
		WHERE id = $1
	`, taskColumns)

	task, err := scanTask(db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

func (db *DB) CreateTask(ctx context.Context, in models.TaskInput) (*models.Task, error) {
	deadline, err := deadlineArg(in.Deadline)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		INSERT INTO tasks (title, description, project_id, responsible, priority, status, deadline)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s
	`, taskColumns)

	task, err := scanTask(db.Pool.QueryRow(ctx, query,
		in.Title, in.Description, in.ProjectID, in.Responsible, in.Priority, in.Status, deadline))
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	log.WithFields(log.Fields{"id": task.ID, "project_id": task.ProjectID}).Info("Created task")
	return task, nil
}

func (db *DB) UpdateTask(ctx context.Context, id int64, in models.TaskInput) (*models.Task, error) {
	deadline, err := deadlineArg(in.Deadline)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		UPDATE tasks
		SET title = $1, description = $2, project_id = $3, responsible = $4, priority = $5, status = $6, deadline = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING %s
	`, taskColumns)

	task, err := scanTask(db.Pool.QueryRow(ctx, query,
		in.Title, in.Description, in.ProjectID, in.Responsible, in.Priority, in.Status, deadline, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	log.WithField("id", task.ID).Info("Updated task")
	return task, nil
}

func (db *DB) DeleteTask(ctx context.Context, id int64) error {
	query := `DELETE FROM tasks WHERE id = $1`

	result, err := db.Pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	log.WithField("id", id).Info("Deleted task")
	return nil
}

// Helper functions

func scanTask(row rowScanner) (*models.Task, error) {
	var (
		task     models.Task
		deadline *time.Time
	)
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.ProjectID,
		&task.Responsible,
		&task.Priority,
		&task.Status,
		&deadline,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	task.Deadline = formatDeadline(deadline)
	return &task, nil
}

func formatDeadline(deadline *time.Time) *string {
	if deadline == nil {
		return nil
	}
	formatted := deadline.Format(dateLayout)
	return &formatted
}

// deadlineArg maps an absent or empty deadline to SQL NULL and parses
// a present one for the DATE column.
func deadlineArg(deadline *string) (interface{}, error) {
	if deadline == nil || *deadline == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, *deadline)
	if err != nil {
		return nil, fmt.Errorf("invalid deadline: %w", err)
	}
	return parsed, nil
}
