package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"bossa/database"
	"bossa/models"
	"bossa/querystate"
	"bossa/validation"
)

// ListTasks serves GET /tasks. Query parameters are normalized by the
// querystate package and taskQuery, so malformed input degrades to
// defaults instead of failing the request.
func ListTasks(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := querystate.Parse(c.Request.URL.Query(), querystate.Tasks())
		q := taskQuery(d)

		ctx := c.Request.Context()
		tasks, total, err := db.ListTasks(ctx, q)
		if err != nil {
			log.WithError(err).Error("ListTasks failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tasks"})
			return
		}

		lastPage := querystate.TotalPages(total, d.PerPage)
		c.JSON(http.StatusOK, models.PaginatedTasks{
			Data:         tasks,
			Total:        total,
			CurrentPage:  d.Page,
			PerPage:      d.PerPage,
			LastPage:     lastPage,
			FirstPageURL: pageURL(c.Request.URL.Path, d, 1),
			LastPageURL:  pageURL(c.Request.URL.Path, d, lastPage),
		})
	}
}

// taskQuery maps a parsed descriptor onto the typed task query.
// project_id and the deadline bounds arrive as opaque filter strings;
// a non-numeric project and malformed date bounds degrade to "not
// applied" like every other malformed parameter.
func taskQuery(d querystate.Descriptor) models.TaskQuery {
	projectID, _ := strconv.ParseInt(d.Filters["project_id"], 10, 64)
	if projectID < 0 {
		projectID = 0
	}

	return models.TaskQuery{
		ProjectID:    projectID,
		Status:       d.Filters["status"],
		Priority:     d.Filters["priority"],
		Responsible:  d.Filters["responsible"],
		Search:       d.Filters["search"],
		DeadlineFrom: dateFilter(d.Filters["deadline_from"]),
		DeadlineTo:   dateFilter(d.Filters["deadline_to"]),
		Page:         d.Page,
		PerPage:      d.PerPage,
		SortBy:       d.SortBy,
		SortOrder:    d.SortOrder,
	}
}

func dateFilter(v string) string {
	if !validation.IsDate(v) {
		return ""
	}
	return v
}

func GetTask(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task ID"})
			return
		}

		ctx := c.Request.Context()
		task, err := db.GetTask(ctx, id)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
				return
			}
			log.WithError(err).Error("GetTask failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get task"})
			return
		}

		c.JSON(http.StatusOK, task)
	}
}

func CreateTask(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in models.TaskInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		if res := validation.ValidateTask(in); !res.Valid {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": res.Errors})
			return
		}

		ctx := c.Request.Context()
		task, err := db.CreateTask(ctx, in)
		if err != nil {
			log.WithError(err).Error("CreateTask failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create task"})
			return
		}

		c.JSON(http.StatusCreated, task)
	}
}

func UpdateTask(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task ID"})
			return
		}

		var in models.TaskInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		if res := validation.ValidateTask(in); !res.Valid {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": res.Errors})
			return
		}

		ctx := c.Request.Context()
		task, err := db.UpdateTask(ctx, id, in)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
				return
			}
			log.WithError(err).Error("UpdateTask failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update task"})
			return
		}

		c.JSON(http.StatusOK, task)
	}
}

func DeleteTask(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task ID"})
			return
		}

		ctx := c.Request.Context()
		if err := db.DeleteTask(ctx, id); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
				return
			}
			log.WithError(err).Error("DeleteTask failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete task"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "task deleted"})
	}
}
