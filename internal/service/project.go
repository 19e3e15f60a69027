package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/promptlens/promptlens/internal/domain"
)

func (s *Service) CreateProject(ctx context.Context, name string) (*domain.Project, error) {
	project := &domain.Project{
		ProjectID: "prj_" + uuid.New().String()[:8],
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateProject(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return project, nil
}

func (s *Service) GetProject(ctx context.Context, projectID string) (*domain.Project, error) {
	return s.store.GetProject(ctx, projectID)
}

func (s *Service) ListProjects(ctx context.Context) ([]domain.Project, error) {
	projects, err := s.store.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}
