// Package domain defines the core domain models for the dashboard.
package domain

import (
	"encoding/json"
	"time"
)

// Project groups templates, API keys, budgets and executions.
type Project struct {
	ProjectID string    `json:"project_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// PromptTemplate is a versioned prompt template. Variables holds the
// declared template variables as a JSON object.
type PromptTemplate struct {
	TemplateID string          `json:"template_id"`
	ProjectID  string          `json:"project_id"`
	Name       string          `json:"name"`
	Version    int             `json:"version"`
	Body       string          `json:"body"`
	Variables  json.RawMessage `json:"variables,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// APIKey is a provisioned key. Only the prefix and a SHA-256 hash are
// stored; the raw key is returned once at creation and never again.
type APIKey struct {
	KeyID     string     `json:"key_id"`
	ProjectID string     `json:"project_id"`
	Name      string     `json:"name"`
	Prefix    string     `json:"prefix"`
	Hash      string     `json:"-"`
	CreatedAt time.Time  `json:"created_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

// Budget is a stored spending limit for a project and period. The
// dashboard surfaces budgets; enforcement happens upstream.
type Budget struct {
	BudgetID  string       `json:"budget_id"`
	ProjectID string       `json:"project_id"`
	Period    BudgetPeriod `json:"period"`
	LimitUSD  float64      `json:"limit_usd"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
