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

const projectColumns = "id, name, description, start_date, expected_end_date, status, created_at, updated_at"

// ListProjects retrieves projects with filtering, sorting and pagination.
// Uses COUNT(*) OVER() to get the total count in a single query.
func (db *DB) ListProjects(ctx context.Context, q models.ProjectQuery) ([]models.Project, int64, error) {
	start := time.Now()
	defer func() {
		log.WithFields(log.Fields{
			"duration": time.Since(start),
			"status":   q.Status,
			"search":   q.Search,
			"page":     q.Page,
		}).Debug("ListProjects")
	}()

	qb := NewQueryBuilder()
	if q.Status != "" {
		qb.AddCondition("status", q.Status)
	}
	if q.Search != "" {
		qb.AddSearch([]string{"name", "description"}, q.Search)
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
		FROM projects
		%s
		%s
		LIMIT $%d OFFSET $%d
	`, projectColumns, qb.WhereClause(),
		orderClause(q.SortBy, q.SortOrder, projectSortColumns),
		qb.NextArgNum(), qb.NextArgNum()+1)

	args := append(qb.Args(), perPage, offset)

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	var total int64

	for rows.Next() {
		var (
			project   models.Project
			startDate time.Time
			endDate   time.Time
		)
		err := rows.Scan(
			&project.ID,
			&project.Name,
			&project.Description,
			&startDate,
			&endDate,
			&project.Status,
			&project.CreatedAt,
			&project.UpdatedAt,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan project row: %w", err)
		}
		project.StartDate = startDate.Format(dateLayout)
		project.ExpectedEndDate = endDate.Format(dateLayout)
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating projects: %w", err)
	}

	return projects, total, nil
}

func (db *DB) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM projects
		WHERE id = $1
	`, projectColumns)

	project, err := scanProject(db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return project, nil
}

func (db *DB) CreateProject(ctx context.Context, in models.ProjectInput) (*models.Project, error) {
	startDate, endDate, err := projectDates(in)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		INSERT INTO projects (name, description, start_date, expected_end_date, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s
	`, projectColumns)

	project, err := scanProject(db.Pool.QueryRow(ctx, query,
		in.Name, in.Description, startDate, endDate, in.Status))
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	log.WithFields(log.Fields{"id": project.ID, "name": project.Name}).Info("Created project")
	return project, nil
}

func (db *DB) UpdateProject(ctx context.Context, id int64, in models.ProjectInput) (*models.Project, error) {
	startDate, endDate, err := projectDates(in)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		UPDATE projects
		SET name = $1, description = $2, start_date = $3, expected_end_date = $4, status = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING %s
	`, projectColumns)

	project, err := scanProject(db.Pool.QueryRow(ctx, query,
		in.Name, in.Description, startDate, endDate, in.Status, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	log.WithField("id", project.ID).Info("Updated project")
	return project, nil
}

// DeleteProject removes a project. Its tasks go with it via the
// ON DELETE CASCADE foreign key.
func (db *DB) DeleteProject(ctx context.Context, id int64) error {
	query := `DELETE FROM projects WHERE id = $1`

	result, err := db.Pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	log.WithField("id", id).Info("Deleted project")
	return nil
}

// Helper functions

// projectDates parses the input's calendar dates for the DATE columns.
// Inputs are validated upstream, so a failure here means a caller
// bypassed validation.
func projectDates(in models.ProjectInput) (time.Time, time.Time, error) {
	startDate, err := time.Parse(dateLayout, in.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date: %w", err)
	}
	endDate, err := time.Parse(dateLayout, in.ExpectedEndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid expected_end_date: %w", err)
	}
	return startDate, endDate, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProject(row rowScanner) (*models.Project, error) {
	var (
		project   models.Project
		startDate time.Time
		endDate   time.Time
	)
	err := row.Scan(
		&project.ID,
		&project.Name,
		&project.Description,
		&startDate,
		&endDate,
		&project.Status,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	project.StartDate = startDate.Format(dateLayout)
	project.ExpectedEndDate = endDate.Format(dateLayout)
	return &project, nil
}
