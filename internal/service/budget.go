package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/promptlens/promptlens/internal/domain"
)

// SetBudget creates or replaces the budget for a project+period.
func (s *Service) SetBudget(ctx context.Context, projectID string, period domain.BudgetPeriod, limitUSD float64) (*domain.Budget, error) {
	if !domain.ValidBudgetPeriod(period) {
		return nil, fmt.Errorf("unknown budget period %q", period)
	}
	if _, err := s.store.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	budget := &domain.Budget{
		BudgetID:  "bud_" + uuid.New().String()[:8],
		ProjectID: projectID,
		Period:    period,
		LimitUSD:  limitUSD,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.UpsertBudget(ctx, budget); err != nil {
		return nil, fmt.Errorf("failed to upsert budget: %w", err)
	}
	// The upsert keeps the original budget_id when the period already
	// had one; read the stored row back so the caller sees it.
	budgets, err := s.store.ListBudgets(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to read back budget: %w", err)
	}
	for i := range budgets {
		if budgets[i].Period == period {
			return &budgets[i], nil
		}
	}
	return budget, nil
}

func (s *Service) ListBudgets(ctx context.Context, projectID string) ([]domain.Budget, error) {
	budgets, err := s.store.ListBudgets(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	return budgets, nil
}
