package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/promptlens/promptlens/internal/domain"
)

// BudgetRequest is the request to set a project budget.
type BudgetRequest struct {
	Period   string  `json:"period"`
	LimitUSD float64 `json:"limit_usd"`
}

// SetBudget creates or replaces the budget for a project+period.
// PUT /v1/projects/:project_id/budgets
func (h *Handler) SetBudget(c echo.Context) error {
	ctx := c.Request().Context()

	var req BudgetRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if !domain.ValidBudgetPeriod(domain.BudgetPeriod(req.Period)) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "period must be daily or monthly"})
	}
	if req.LimitUSD <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "limit_usd must be positive"})
	}

	budget, err := h.service.SetBudget(ctx, c.Param("project_id"), domain.BudgetPeriod(req.Period), req.LimitUSD)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, budget)
}

// ListBudgets lists budgets for a project.
// GET /v1/projects/:project_id/budgets
func (h *Handler) ListBudgets(c echo.Context) error {
	ctx := c.Request().Context()

	budgets, err := h.service.ListBudgets(ctx, c.Param("project_id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"budgets": budgets,
	})
}
