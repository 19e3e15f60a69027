package v1

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
)

// TemplateRequest is the request to create or update a prompt template.
type TemplateRequest struct {
	Name      string          `json:"name"`
	Body      string          `json:"body"`
	Variables json.RawMessage `json:"variables,omitempty"`
}

// CreateTemplate creates a new prompt template.
// POST /v1/projects/:project_id/templates
func (h *Handler) CreateTemplate(c echo.Context) error {
	ctx := c.Request().Context()

	var req TemplateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
	}
	if req.Body == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "body is required"})
	}

	tpl, err := h.service.CreateTemplate(ctx, c.Param("project_id"), req.Name, req.Body, req.Variables)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, tpl)
}

// ListTemplates lists templates for a project.
// GET /v1/projects/:project_id/templates
func (h *Handler) ListTemplates(c echo.Context) error {
	ctx := c.Request().Context()

	templates, err := h.service.ListTemplates(ctx, c.Param("project_id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"templates": templates,
	})
}

// GetTemplate gets a template by ID.
// GET /v1/templates/:template_id
func (h *Handler) GetTemplate(c echo.Context) error {
	ctx := c.Request().Context()

	tpl, err := h.service.GetTemplate(ctx, c.Param("template_id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, tpl)
}

// UpdateTemplate updates a template and bumps its version.
// PUT /v1/templates/:template_id
func (h *Handler) UpdateTemplate(c echo.Context) error {
	ctx := c.Request().Context()

	var req TemplateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	tpl, err := h.service.UpdateTemplate(ctx, c.Param("template_id"), req.Name, req.Body, req.Variables)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, tpl)
}

// DeleteTemplate deletes a template.
// DELETE /v1/templates/:template_id
func (h *Handler) DeleteTemplate(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.service.DeleteTemplate(ctx, c.Param("template_id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"ok": true})
}
