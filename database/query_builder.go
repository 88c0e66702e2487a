package database

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Sortable columns per table. The sort_by parameter reaches this layer
// as an opaque string, so anything outside the whitelist falls back to
// created_at instead of being interpolated into the query.
var (
	projectSortColumns = map[string]bool{
		"name":              true,
		"status":            true,
		"start_date":        true,
		"expected_end_date": true,
		"created_at":        true,
		"updated_at":        true,
	}
	taskSortColumns = map[string]bool{
		"title":       true,
		"project_id":  true,
		"status":      true,
		"priority":    true,
		"responsible": true,
		"deadline":    true,
		"created_at":  true,
		"updated_at":  true,
	}
)

// QueryBuilder helps build WHERE clauses safely
type QueryBuilder struct {
	conditions []string
	args       []interface{}
	argCount   int
}

func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{
		conditions: []string{},
		args:       []interface{}{},
		argCount:   1,
	}
}

func (qb *QueryBuilder) AddCondition(column string, value interface{}) {
	qb.conditions = append(qb.conditions, fmt.Sprintf("%s = $%d", column, qb.argCount))
	qb.args = append(qb.args, value)
	qb.argCount++
}

// AddSearch adds a case-insensitive substring match across the given
// columns, OR-ed together. Pattern metacharacters in the term are
// escaped so user input matches literally.
func (qb *QueryBuilder) AddSearch(columns []string, term string) {
	pattern := "%" + escapeLikePattern(term) + "%"
	matches := make([]string, 0, len(columns))
	for _, column := range columns {
		matches = append(matches, fmt.Sprintf("%s ILIKE $%d", column, qb.argCount))
	}
	qb.conditions = append(qb.conditions, "("+strings.Join(matches, " OR ")+")")
	qb.args = append(qb.args, pattern)
	qb.argCount++
}

// AddDateRange bounds a date column from below and/or above. Empty
// bounds are skipped; malformed bounds are an error.
func (qb *QueryBuilder) AddDateRange(column, from, to string) error {
	if from != "" {
		fromDate, err := time.Parse(dateLayout, from)
		if err != nil {
			return fmt.Errorf("invalid %s lower bound: %w", column, err)
		}
		qb.conditions = append(qb.conditions, fmt.Sprintf("%s >= $%d", column, qb.argCount))
		qb.args = append(qb.args, fromDate)
		qb.argCount++
	}

	if to != "" {
		toDate, err := time.Parse(dateLayout, to)
		if err != nil {
			return fmt.Errorf("invalid %s upper bound: %w", column, err)
		}
		qb.conditions = append(qb.conditions, fmt.Sprintf("%s <= $%d", column, qb.argCount))
		qb.args = append(qb.args, toDate)
		qb.argCount++
	}

	return nil
}

func (qb *QueryBuilder) WhereClause() string {
	if len(qb.conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(qb.conditions, " AND ")
}

func (qb *QueryBuilder) Args() []interface{} {
	return qb.args
}

func (qb *QueryBuilder) NextArgNum() int {
	return qb.argCount
}

// Helper functions

// orderClause builds the ORDER BY fragment from the requested column
// and direction, falling back to created_at/DESC when either is not
// recognized. id is the tiebreaker so pagination is stable.
func orderClause(column, order string, allowed map[string]bool) string {
	if !allowed[column] {
		column = "created_at"
	}
	direction := "DESC"
	if strings.ToLower(order) == "asc" {
		direction = "ASC"
	}
	return fmt.Sprintf("ORDER BY %s %s, id %s", column, direction, direction)
}

func escapeLikePattern(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(term)
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func normalizePerPage(perPage int) int {
	if perPage < 1 {
		return 10
	}
	return perPage
}
