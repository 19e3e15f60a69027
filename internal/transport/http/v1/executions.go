package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// ListExecutions lists executions for a project.
// GET /v1/projects/:project_id/executions
func (h *Handler) ListExecutions(c echo.Context) error {
	ctx := c.Request().Context()

	var limit, offset *int
	if l := c.QueryParam("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil {
			limit = &val
		}
	}
	if o := c.QueryParam("offset"); o != "" {
		if val, err := strconv.Atoi(o); err == nil {
			offset = &val
		}
	}

	list, err := h.service.ListExecutions(ctx, c.Param("project_id"), limit, offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// GetExecution returns the reconciled detail for one trace. The
// response carries a schema discriminator plus exactly one of the two
// detail shapes; clients branch on it.
// GET /v1/projects/:project_id/executions/:trace_id
func (h *Handler) GetExecution(c echo.Context) error {
	ctx := c.Request().Context()

	detail, err := h.service.GetExecution(ctx, c.Param("project_id"), c.Param("trace_id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

// GetExecutionTimeline returns the normalized message timeline for one
// trace.
// GET /v1/projects/:project_id/executions/:trace_id/timeline
func (h *Handler) GetExecutionTimeline(c echo.Context) error {
	ctx := c.Request().Context()

	messages, err := h.service.GetTimeline(ctx, c.Param("project_id"), c.Param("trace_id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"messages": messages,
	})
}
