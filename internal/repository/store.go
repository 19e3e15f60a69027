// Package store defines the storage interface and implementations.
package store

import (
	"context"
	"errors"

	"github.com/promptlens/promptlens/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for data persistence.
type Store interface {
	// Project operations
	CreateProject(ctx context.Context, project *domain.Project) error
	GetProject(ctx context.Context, projectID string) (*domain.Project, error)
	ListProjects(ctx context.Context) ([]domain.Project, error)

	// Template operations
	CreateTemplate(ctx context.Context, tpl *domain.PromptTemplate) error
	GetTemplate(ctx context.Context, templateID string) (*domain.PromptTemplate, error)
	ListTemplates(ctx context.Context, projectID string) ([]domain.PromptTemplate, error)
	UpdateTemplate(ctx context.Context, tpl *domain.PromptTemplate) error
	DeleteTemplate(ctx context.Context, templateID string) error

	// API key operations
	CreateAPIKey(ctx context.Context, key *domain.APIKey) error
	GetAPIKey(ctx context.Context, keyID string) (*domain.APIKey, error)
	ListAPIKeys(ctx context.Context, projectID string) ([]domain.APIKey, error)
	RevokeAPIKey(ctx context.Context, keyID string) error

	// Budget operations
	UpsertBudget(ctx context.Context, budget *domain.Budget) error
	ListBudgets(ctx context.Context, projectID string) ([]domain.Budget, error)

	// Lifecycle
	Close() error
}
