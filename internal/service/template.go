package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/promptlens/promptlens/internal/domain"
)

func (s *Service) CreateTemplate(ctx context.Context, projectID, name, body string, variables json.RawMessage) (*domain.PromptTemplate, error) {
	if _, err := s.store.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	tpl := &domain.PromptTemplate{
		TemplateID: "tpl_" + uuid.New().String()[:8],
		ProjectID:  projectID,
		Name:       name,
		Version:    1,
		Body:       body,
		Variables:  variables,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.CreateTemplate(ctx, tpl); err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}
	return tpl, nil
}

func (s *Service) GetTemplate(ctx context.Context, templateID string) (*domain.PromptTemplate, error) {
	return s.store.GetTemplate(ctx, templateID)
}

func (s *Service) ListTemplates(ctx context.Context, projectID string) ([]domain.PromptTemplate, error) {
	templates, err := s.store.ListTemplates(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

// UpdateTemplate applies a new body/name/variables and bumps the version.
func (s *Service) UpdateTemplate(ctx context.Context, templateID, name, body string, variables json.RawMessage) (*domain.PromptTemplate, error) {
	tpl, err := s.store.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if name != "" {
		tpl.Name = name
	}
	if body != "" {
		tpl.Body = body
	}
	if variables != nil {
		tpl.Variables = variables
	}
	tpl.Version++
	tpl.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateTemplate(ctx, tpl); err != nil {
		return nil, fmt.Errorf("failed to update template: %w", err)
	}
	return tpl, nil
}

func (s *Service) DeleteTemplate(ctx context.Context, templateID string) error {
	return s.store.DeleteTemplate(ctx, templateID)
}
