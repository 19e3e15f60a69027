package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIKeyCreateRequest is the request to provision an API key.
type APIKeyCreateRequest struct {
	Name string `json:"name"`
}

// CreateAPIKey provisions a new API key. The raw key appears in this
// response only; afterwards just the prefix is retrievable.
// POST /v1/projects/:project_id/keys
func (h *Handler) CreateAPIKey(c echo.Context) error {
	ctx := c.Request().Context()

	var req APIKeyCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
	}

	key, raw, err := h.service.CreateAPIKey(ctx, c.Param("project_id"), req.Name)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"key":     key,
		"raw_key": raw,
	})
}

// ListAPIKeys lists keys for a project.
// GET /v1/projects/:project_id/keys
func (h *Handler) ListAPIKeys(c echo.Context) error {
	ctx := c.Request().Context()

	keys, err := h.service.ListAPIKeys(ctx, c.Param("project_id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"keys": keys,
	})
}

// RevokeAPIKey revokes a key.
// POST /v1/keys/:key_id/revoke
func (h *Handler) RevokeAPIKey(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.service.RevokeAPIKey(ctx, c.Param("key_id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"ok": true})
}
