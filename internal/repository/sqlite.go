package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/promptlens/promptlens/internal/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS projects (
			project_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS templates (
			template_id TEXT PRIMARY KEY,
			project_id TEXT NOT NULL,
			name TEXT NOT NULL,
			version INTEGER NOT NULL DEFAULT 1,
			body TEXT NOT NULL,
			variables TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (project_id) REFERENCES projects(project_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_templates_project ON templates(project_id, name)`,
		`CREATE TABLE IF NOT EXISTS api_keys (
			key_id TEXT PRIMARY KEY,
			project_id TEXT NOT NULL,
			name TEXT NOT NULL,
			prefix TEXT NOT NULL,
			hash TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			revoked_at DATETIME,
			FOREIGN KEY (project_id) REFERENCES projects(project_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_api_keys_project ON api_keys(project_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS budgets (
			budget_id TEXT PRIMARY KEY,
			project_id TEXT NOT NULL,
			period TEXT NOT NULL,
			limit_usd REAL NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (project_id, period),
			FOREIGN KEY (project_id) REFERENCES projects(project_id)
		)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateProject inserts a new project.
func (s *SQLiteStore) CreateProject(ctx context.Context, project *domain.Project) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (project_id, name, created_at) VALUES (?, ?, ?)`,
		project.ProjectID, project.Name, project.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// GetProject retrieves a project by ID.
func (s *SQLiteStore) GetProject(ctx context.Context, projectID string) (*domain.Project, error) {
	var p domain.Project
	err := s.db.QueryRowContext(ctx,
		`SELECT project_id, name, created_at FROM projects WHERE project_id = ?`,
		projectID).Scan(&p.ProjectID, &p.Name, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &p, nil
}

// ListProjects lists all projects.
func (s *SQLiteStore) ListProjects(ctx context.Context) ([]domain.Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT project_id, name, created_at FROM projects ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ProjectID, &p.Name, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// CreateTemplate inserts a new prompt template.
func (s *SQLiteStore) CreateTemplate(ctx context.Context, tpl *domain.PromptTemplate) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO templates (template_id, project_id, name, version, body, variables, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tpl.TemplateID, tpl.ProjectID, tpl.Name, tpl.Version, tpl.Body, nullableJSON(tpl.Variables), tpl.CreatedAt, tpl.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}
	return nil
}

// GetTemplate retrieves a template by ID.
func (s *SQLiteStore) GetTemplate(ctx context.Context, templateID string) (*domain.PromptTemplate, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT template_id, project_id, name, version, body, variables, created_at, updated_at
		 FROM templates WHERE template_id = ?`, templateID)
	tpl, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return tpl, nil
}

// ListTemplates lists templates for a project, most recently updated first.
func (s *SQLiteStore) ListTemplates(ctx context.Context, projectID string) ([]domain.PromptTemplate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT template_id, project_id, name, version, body, variables, created_at, updated_at
		 FROM templates WHERE project_id = ? ORDER BY updated_at DESC, template_id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	var templates []domain.PromptTemplate
	for rows.Next() {
		tpl, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, *tpl)
	}
	return templates, rows.Err()
}

// UpdateTemplate updates a template's name, body, variables and version.
func (s *SQLiteStore) UpdateTemplate(ctx context.Context, tpl *domain.PromptTemplate) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE templates SET name = ?, version = ?, body = ?, variables = ?, updated_at = ?
		 WHERE template_id = ?`,
		tpl.Name, tpl.Version, tpl.Body, nullableJSON(tpl.Variables), tpl.UpdatedAt, tpl.TemplateID)
	if err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}
	return requireRow(res)
}

// DeleteTemplate deletes a template.
func (s *SQLiteStore) DeleteTemplate(ctx context.Context, templateID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM templates WHERE template_id = ?`, templateID)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	return requireRow(res)
}

// CreateAPIKey inserts a new API key record.
func (s *SQLiteStore) CreateAPIKey(ctx context.Context, key *domain.APIKey) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO api_keys (key_id, project_id, name, prefix, hash, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		key.KeyID, key.ProjectID, key.Name, key.Prefix, key.Hash, key.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create api key: %w", err)
	}
	return nil
}

// GetAPIKey retrieves an API key by ID.
func (s *SQLiteStore) GetAPIKey(ctx context.Context, keyID string) (*domain.APIKey, error) {
	var key domain.APIKey
	var revokedAt sql.NullTime
	err := s.db.QueryRowContext(ctx,
		`SELECT key_id, project_id, name, prefix, hash, created_at, revoked_at
		 FROM api_keys WHERE key_id = ?`, keyID).
		Scan(&key.KeyID, &key.ProjectID, &key.Name, &key.Prefix, &key.Hash, &key.CreatedAt, &revokedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get api key: %w", err)
	}
	if revokedAt.Valid {
		key.RevokedAt = &revokedAt.Time
	}
	return &key, nil
}

// ListAPIKeys lists keys for a project, newest first.
func (s *SQLiteStore) ListAPIKeys(ctx context.Context, projectID string) ([]domain.APIKey, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key_id, project_id, name, prefix, hash, created_at, revoked_at
		 FROM api_keys WHERE project_id = ? ORDER BY created_at DESC, key_id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list api keys: %w", err)
	}
	defer rows.Close()

	var keys []domain.APIKey
	for rows.Next() {
		var key domain.APIKey
		var revokedAt sql.NullTime
		if err := rows.Scan(&key.KeyID, &key.ProjectID, &key.Name, &key.Prefix, &key.Hash, &key.CreatedAt, &revokedAt); err != nil {
			return nil, fmt.Errorf("failed to scan api key: %w", err)
		}
		if revokedAt.Valid {
			key.RevokedAt = &revokedAt.Time
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// RevokeAPIKey marks a key revoked. Revoking an already-revoked key is
// a no-op; revoking a missing key is ErrNotFound.
func (s *SQLiteStore) RevokeAPIKey(ctx context.Context, keyID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE api_keys SET revoked_at = ? WHERE key_id = ? AND revoked_at IS NULL`,
		time.Now().UTC(), keyID)
	if err != nil {
		return fmt.Errorf("failed to revoke api key: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := s.GetAPIKey(ctx, keyID); err != nil {
			return err
		}
	}
	return nil
}

// UpsertBudget inserts or updates the budget for a project+period.
func (s *SQLiteStore) UpsertBudget(ctx context.Context, budget *domain.Budget) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO budgets (budget_id, project_id, period, limit_usd, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (project_id, period)
		 DO UPDATE SET limit_usd = excluded.limit_usd, updated_at = excluded.updated_at`,
		budget.BudgetID, budget.ProjectID, budget.Period, budget.LimitUSD, budget.CreatedAt, budget.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert budget: %w", err)
	}
	return nil
}

// ListBudgets lists budgets for a project.
func (s *SQLiteStore) ListBudgets(ctx context.Context, projectID string) ([]domain.Budget, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT budget_id, project_id, period, limit_usd, created_at, updated_at
		 FROM budgets WHERE project_id = ? ORDER BY period`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []domain.Budget
	for rows.Next() {
		var b domain.Budget
		if err := rows.Scan(&b.BudgetID, &b.ProjectID, &b.Period, &b.LimitUSD, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (*domain.PromptTemplate, error) {
	var tpl domain.PromptTemplate
	var variables sql.NullString
	if err := row.Scan(&tpl.TemplateID, &tpl.ProjectID, &tpl.Name, &tpl.Version, &tpl.Body, &variables, &tpl.CreatedAt, &tpl.UpdatedAt); err != nil {
		return nil, err
	}
	if variables.Valid && variables.String != "" {
		tpl.Variables = []byte(variables.String)
	}
	return &tpl, nil
}

func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
