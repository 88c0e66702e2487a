// Package validation checks candidate Project and Task payloads against
// the field rules the API enforces, producing the same error shape the
// API returns on HTTP 422 so client- and server-side failures render
// identically.
package validation

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"bossa/models"
)

// Field names used as error-map keys. Handlers and tests reference
// these constants instead of raw strings.
const (
	FieldName            = "name"
	FieldStartDate       = "start_date"
	FieldExpectedEndDate = "expected_end_date"
	FieldStatus          = "status"
	FieldTitle           = "title"
	FieldProjectID       = "project_id"
	FieldResponsible     = "responsible"
	FieldPriority        = "priority"
	FieldDeadline        = "deadline"
)

// maxNameLength caps the short text fields. Counted in characters, not
// bytes, to match the VARCHAR(255) columns behind them.
const maxNameLength = 255

// Errors maps a field name to its rejection messages in the order the
// rules emitted them. Marshals to the `errors` object of a 422 payload.
type Errors map[string][]string

func (e Errors) add(field, message string) {
	e[field] = append(e[field], message)
}

// Result reports the outcome of validating one candidate payload.
// Valid is true exactly when Errors is empty.
type Result struct {
	Valid  bool   `json:"valid"`
	Errors Errors `json:"errors"`
}

func newResult(errs Errors) Result {
	return Result{Valid: len(errs) == 0, Errors: errs}
}

const dateLayout = "2006-01-02"

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsDate reports whether v is a well-formed YYYY-MM-DD calendar date.
// Parsing is strict: impossible dates such as 2024-02-30 are rejected
// rather than rolled over.
func IsDate(v string) bool {
	if !datePattern.MatchString(v) {
		return false
	}
	_, err := time.Parse(dateLayout, v)
	return err == nil
}

// ValidateProject checks a candidate project payload. Every field is
// evaluated; failures never short-circuit other fields. Malformed input
// is the expected case and is reported through the result, never as an
// error.
func ValidateProject(in models.ProjectInput) Result {
	errs := Errors{}

	if strings.TrimSpace(in.Name) == "" {
		errs.add(FieldName, "Name is required")
	} else if utf8.RuneCountInString(in.Name) > maxNameLength {
		errs.add(FieldName, "Name must be at most 255 characters")
	}

	if in.StartDate == "" || !IsDate(in.StartDate) {
		errs.add(FieldStartDate, "Start date is required and must be YYYY-MM-DD")
	}

	if in.ExpectedEndDate == "" || !IsDate(in.ExpectedEndDate) {
		errs.add(FieldExpectedEndDate, "Expected end date is required and must be YYYY-MM-DD")
	}

	// Cross-field check runs only when both dates parse on their own,
	// so expected_end_date can carry a second message.
	if IsDate(in.StartDate) && IsDate(in.ExpectedEndDate) {
		start, _ := time.Parse(dateLayout, in.StartDate)
		end, _ := time.Parse(dateLayout, in.ExpectedEndDate)
		if end.Before(start) {
			errs.add(FieldExpectedEndDate, "Expected end date must be greater than or equal to start date")
		}
	}

	if !models.ProjectStatus(in.Status).Valid() {
		errs.add(FieldStatus, "Status is required and must be a valid value")
	}

	return newResult(errs)
}

// ValidateTask checks a candidate task payload. Deadline is the only
// optional field; when present it must be a well-formed date.
func ValidateTask(in models.TaskInput) Result {
	errs := Errors{}

	if strings.TrimSpace(in.Title) == "" {
		errs.add(FieldTitle, "Title is required")
	} else if utf8.RuneCountInString(in.Title) > maxNameLength {
		errs.add(FieldTitle, "Title must be at most 255 characters")
	}

	if in.ProjectID <= 0 {
		errs.add(FieldProjectID, "Project id is required and must be a valid number")
	}

	if strings.TrimSpace(in.Responsible) == "" {
		errs.add(FieldResponsible, "Responsible is required")
	} else if utf8.RuneCountInString(in.Responsible) > maxNameLength {
		errs.add(FieldResponsible, "Responsible must be at most 255 characters")
	}

	if !models.TaskPriority(in.Priority).Valid() {
		errs.add(FieldPriority, "Priority is required and must be a valid value")
	}

	if !models.TaskStatus(in.Status).Valid() {
		errs.add(FieldStatus, "Status is required and must be a valid value")
	}

	if in.Deadline != nil && *in.Deadline != "" && !IsDate(*in.Deadline) {
		errs.add(FieldDeadline, "Deadline must be in YYYY-MM-DD format")
	}

	return newResult(errs)
}
