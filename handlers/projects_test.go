package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bossa/querystate"
	"bossa/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// postJSON runs a handler against a synthetic request. The database is
// nil on purpose: these tests cover the reject paths, which never reach
// storage.
func postJSON(t *testing.T, handler gin.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req, err := http.NewRequest(method, target, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler(c)
	return w
}

type errorsPayload struct {
	Errors validation.Errors `json:"errors"`
}

func TestCreateProject_MalformedBody(t *testing.T) {
	w := postJSON(t, CreateProject(nil), http.MethodPost, "/projects", "{not json")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateProject_ValidationErrors(t *testing.T) {
	w := postJSON(t, CreateProject(nil), http.MethodPost, "/projects",
		`{"name":"","start_date":"2024-01-10","expected_end_date":"2024-01-09","status":"planning"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var payload errorsPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Contains(t, payload.Errors, validation.FieldName)
	assert.Equal(t,
		[]string{"Expected end date must be greater than or equal to start date"},
		payload.Errors[validation.FieldExpectedEndDate])
}

func TestUpdateProject_InvalidID(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	req, err := http.NewRequest(http.MethodPut, "/projects/abc", strings.NewReader("{}"))
	require.NoError(t, err)
	c.Request = req

	UpdateProject(nil)(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateTask_ValidationErrors(t *testing.T) {
	w := postJSON(t, CreateTask(nil), http.MethodPost, "/tasks",
		`{"title":"","project_id":0,"responsible":"","priority":"x","status":"todo"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var payload errorsPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Contains(t, payload.Errors, validation.FieldTitle)
	assert.Contains(t, payload.Errors, validation.FieldProjectID)
	assert.Contains(t, payload.Errors, validation.FieldResponsible)
	assert.Contains(t, payload.Errors, validation.FieldPriority)
	assert.NotContains(t, payload.Errors, validation.FieldStatus)
}

func TestParseID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{"1", 1, false},
		{"42", 42, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		id, err := parseID(tt.raw)
		if tt.wantErr {
			assert.Error(t, err, "raw=%q", tt.raw)
		} else {
			assert.NoError(t, err, "raw=%q", tt.raw)
			assert.Equal(t, tt.want, id)
		}
	}
}

func TestPageURL(t *testing.T) {
	d := querystate.Parse(url.Values{
		"page":     {"3"},
		"per_page": {"25"},
		"status":   {"in_progress"},
	}, querystate.Projects())

	first := pageURL("/projects", d, 1)
	parsed, err := url.Parse(first)
	require.NoError(t, err)

	assert.Equal(t, "/projects", parsed.Path)
	query := parsed.Query()
	assert.Equal(t, "1", query.Get("page"))
	assert.Equal(t, "25", query.Get("per_page"))
	assert.Equal(t, "in_progress", query.Get("status"))
}

func TestPageURL_ZeroLastPage(t *testing.T) {
	d := querystate.Parse(url.Values{}, querystate.Projects())

	last := pageURL("/projects", d, 0)

	parsed, err := url.Parse(last)
	require.NoError(t, err)
	assert.Equal(t, "1", parsed.Query().Get("page"))
}
