package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ProjectCreateRequest is the request to create a project.
type ProjectCreateRequest struct {
	Name string `json:"name"`
}

// CreateProject creates a new project.
// POST /v1/projects
func (h *Handler) CreateProject(c echo.Context) error {
	ctx := c.Request().Context()

	var req ProjectCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
	}

	project, err := h.service.CreateProject(ctx, req.Name)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, project)
}

// ListProjects lists all projects.
// GET /v1/projects
func (h *Handler) ListProjects(c echo.Context) error {
	ctx := c.Request().Context()

	projects, err := h.service.ListProjects(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"projects": projects,
	})
}

// GetProject gets a specific project by ID.
// GET /v1/projects/:project_id
func (h *Handler) GetProject(c echo.Context) error {
	ctx := c.Request().Context()

	project, err := h.service.GetProject(ctx, c.Param("project_id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, project)
}
