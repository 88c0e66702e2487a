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

// ListProjects serves GET /projects. Query parameters are normalized by
// the querystate package, so malformed input degrades to defaults
// instead of failing the request.
func ListProjects(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := querystate.Parse(c.Request.URL.Query(), querystate.Projects())

		q := models.ProjectQuery{
			Search:    d.Filters["search"],
			Status:    d.Filters["status"],
			Page:      d.Page,
			PerPage:   d.PerPage,
			SortBy:    d.SortBy,
			SortOrder: d.SortOrder,
		}

		ctx := c.Request.Context()
		projects, total, err := db.ListProjects(ctx, q)
		if err != nil {
			log.WithError(err).Error("ListProjects failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list projects"})
			return
		}

		lastPage := querystate.TotalPages(total, d.PerPage)
		c.JSON(http.StatusOK, models.PaginatedProjects{
			Data:         projects,
			Total:        total,
			CurrentPage:  d.Page,
			PerPage:      d.PerPage,
			LastPage:     lastPage,
			FirstPageURL: pageURL(c.Request.URL.Path, d, 1),
			LastPageURL:  pageURL(c.Request.URL.Path, d, lastPage),
		})
	}
}

func GetProject(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project ID"})
			return
		}

		ctx := c.Request.Context()
		project, err := db.GetProject(ctx, id)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
				return
			}
			log.WithError(err).Error("GetProject failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get project"})
			return
		}

		c.JSON(http.StatusOK, project)
	}
}

func CreateProject(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in models.ProjectInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		if res := validation.ValidateProject(in); !res.Valid {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": res.Errors})
			return
		}

		ctx := c.Request.Context()
		project, err := db.CreateProject(ctx, in)
		if err != nil {
			log.WithError(err).Error("CreateProject failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create project"})
			return
		}

		c.JSON(http.StatusCreated, project)
	}
}

func UpdateProject(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project ID"})
			return
		}

		var in models.ProjectInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		if res := validation.ValidateProject(in); !res.Valid {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": res.Errors})
			return
		}

		ctx := c.Request.Context()
		project, err := db.UpdateProject(ctx, id, in)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
				return
			}
			log.WithError(err).Error("UpdateProject failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update project"})
			return
		}

		c.JSON(http.StatusOK, project)
	}
}

func DeleteProject(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project ID"})
			return
		}

		ctx := c.Request.Context()
		if err := db.DeleteProject(ctx, id); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
				return
			}
			log.WithError(err).Error("DeleteProject failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete project"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "project deleted"})
	}
}

// Helper functions

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// pageURL rebuilds the list URL for the given page of the same query.
// An empty result set has no last page; point at page 1 so the link
// stays valid.
func pageURL(path string, d querystate.Descriptor, page int) string {
	if page < 1 {
		page = 1
	}
	return path + "?" + d.SetPage(page).Values().Encode()
}
